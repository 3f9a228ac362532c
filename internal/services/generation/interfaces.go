package generation

import (
	"context"

	"github.com/br00kd0wnt0n/poddit-api/pkg/ffmpeg"
)

// AudioProcessor defines the mixing and assembly operations the run needs
// from the audio toolchain
type AudioProcessor interface {
	MixWithBed(ctx context.Context, narrationPath, bedPath, outPath string, opts ffmpeg.MixOptions) error
	Concatenate(ctx context.Context, mainPath, epiloguePath, outPath string, gapSeconds float64) (float64, error)
}
