package speech

import "context"

// Audio describes a rendered narration file on disk
type Audio struct {
	Path     string
	Duration float64
	Format   string
}

// Synthesizer defines the interface for turning script text into audio
type Synthesizer interface {
	// Synthesize renders text as speech, writes it to outputPath and
	// returns the resulting file's metadata
	Synthesize(ctx context.Context, text, outputPath string) (*Audio, error)
}

// DurationProber measures the playable duration of a rendered file
type DurationProber interface {
	Duration(ctx context.Context, filePath string) (float64, error)
}
