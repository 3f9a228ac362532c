package ffmpeg

// AudioMetadata represents metadata extracted from an audio file
type AudioMetadata struct {
	Duration   float64 `json:"duration"`    // Duration in seconds
	SampleRate int     `json:"sample_rate"` // Sample rate in Hz
	Channels   int     `json:"channels"`    // Number of audio channels
	Bitrate    int     `json:"bitrate"`     // Bitrate in bits per second
	Format     string  `json:"format"`      // Container format (mp3, m4a, etc.)
	Codec      string  `json:"codec"`       // Audio codec
	Size       int64   `json:"size"`        // File size in bytes
}

// BedAlignment controls where the music bed sits relative to the narration
type BedAlignment int

const (
	// AlignBedStart starts the bed together with the narration
	AlignBedStart BedAlignment = iota

	// AlignBedMidpoint delays the bed so its midpoint lands on the end of
	// the narration, letting the bed bracket the narration and play out
	// after it
	AlignBedMidpoint
)

// MixOptions defines how a narration track is overlaid on a music bed
type MixOptions struct {
	BedVolume   float64      // relative bed volume, 0..1
	Alignment   BedAlignment // temporal placement of the bed
	TailSeconds float64      // if > 0, trim output to narration length plus this tail
}

// MainMixOptions returns the fixed profile for the main narration mix
func MainMixOptions(bedVolume float64) MixOptions {
	return MixOptions{
		BedVolume: bedVolume,
		Alignment: AlignBedMidpoint,
	}
}

// EpilogueMixOptions returns the fixed profile for the epilogue mix. The
// epilogue bed is a thinner track, so it sits louder, and the result is
// trimmed to the narration plus a short tail.
func EpilogueMixOptions(bedVolume, tailSeconds float64) MixOptions {
	return MixOptions{
		BedVolume:   bedVolume,
		Alignment:   AlignBedStart,
		TailSeconds: tailSeconds,
	}
}
