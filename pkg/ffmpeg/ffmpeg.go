package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// FFmpeg wraps ffmpeg and ffprobe functionality for mixing narration over
// music beds and assembling the final episode audio
type FFmpeg struct {
	ffmpegPath  string
	ffprobePath string
	timeout     time.Duration
}

// New creates a new FFmpeg instance
func New(ffmpegPath, ffprobePath string, timeout time.Duration) *FFmpeg {
	return &FFmpeg{
		ffmpegPath:  ffmpegPath,
		ffprobePath: ffprobePath,
		timeout:     timeout,
	}
}

// ValidateBinaries checks if ffmpeg and ffprobe are available
func (f *FFmpeg) ValidateBinaries() error {
	if _, err := exec.LookPath(f.ffmpegPath); err != nil {
		return fmt.Errorf("%w: %s", ErrFFmpegNotFound, f.ffmpegPath)
	}

	if _, err := exec.LookPath(f.ffprobePath); err != nil {
		return fmt.Errorf("%w: %s", ErrFFprobeNotFound, f.ffprobePath)
	}

	return nil
}

// MixWithBed overlays a narration track onto a music bed at a fixed relative
// volume and writes the mixed result to outPath. The caller decides how to
// handle ErrBedNotFound; everything else is a processing failure.
func (f *FFmpeg) MixWithBed(ctx context.Context, narrationPath, bedPath, outPath string, opts MixOptions) error {
	if _, err := os.Stat(bedPath); err != nil {
		return fmt.Errorf("%w: %s", ErrBedNotFound, bedPath)
	}

	narrationDur, err := f.Duration(ctx, narrationPath)
	if err != nil {
		return err
	}

	bedDur, err := f.Duration(ctx, bedPath)
	if err != nil {
		return err
	}

	filter := buildMixFilter(narrationDur, bedDur, opts)

	args := []string{
		"-i", narrationPath,
		"-i", bedPath,
		"-filter_complex", filter,
		"-map", "[out]",
		"-codec:a", "libmp3lame",
		"-q:a", "2",
		"-y",
		outPath,
	}

	return f.run(ctx, "mix", narrationPath, args)
}

// Concatenate joins the main and epilogue tracks with a fixed silence gap and
// returns the total duration probed from the assembled file. A nil epilogue
// (empty path) returns the main track copied through unchanged.
func (f *FFmpeg) Concatenate(ctx context.Context, mainPath, epiloguePath, outPath string, gapSeconds float64) (float64, error) {
	var args []string

	if epiloguePath == "" {
		args = []string{
			"-i", mainPath,
			"-codec:a", "copy",
			"-y",
			outPath,
		}
	} else {
		args = []string{
			"-i", mainPath,
			"-i", epiloguePath,
			"-filter_complex", buildConcatFilter(gapSeconds),
			"-map", "[out]",
			"-codec:a", "libmp3lame",
			"-q:a", "2",
			"-y",
			outPath,
		}
	}

	if err := f.run(ctx, "concat", mainPath, args); err != nil {
		return 0, err
	}

	return f.Duration(ctx, outPath)
}

// run executes ffmpeg with the given arguments under the configured timeout
func (f *FFmpeg) run(ctx context.Context, operation, file string, args []string) error {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, f.ffmpegPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return NewProcessingError(operation, file, ErrProcessingTimeout, stderr.String())
		}
		return NewProcessingError(operation, file, err, stderr.String())
	}

	return nil
}

// buildMixFilter constructs the filter graph overlaying the bed under the
// narration. With AlignBedMidpoint the bed is delayed so its midpoint lands
// on the end of the narration; a TailSeconds > 0 trims the mix to the
// narration length plus that tail.
func buildMixFilter(narrationDur, bedDur float64, opts MixOptions) string {
	var bed strings.Builder
	fmt.Fprintf(&bed, "[1:a]volume=%.2f", opts.BedVolume)

	if opts.Alignment == AlignBedMidpoint {
		delayMs := int((narrationDur - bedDur/2) * 1000)
		if delayMs < 0 {
			delayMs = 0
		}
		if delayMs > 0 {
			fmt.Fprintf(&bed, ",adelay=%d:all=1", delayMs)
		}
	}
	bed.WriteString("[bed]")

	mix := fmt.Sprintf("%s;[0:a][bed]amix=inputs=2:duration=longest:normalize=0", bed.String())

	if opts.TailSeconds > 0 {
		return fmt.Sprintf("%s,atrim=0:%.3f[out]", mix, narrationDur+opts.TailSeconds)
	}
	return mix + "[out]"
}

// buildConcatFilter constructs the filter graph that joins two tracks with a
// silence gap between them. Inputs are normalized to a common layout first so
// concat does not reject mismatched streams.
func buildConcatFilter(gapSeconds float64) string {
	const format = "aformat=channel_layouts=stereo:sample_rates=44100"

	return fmt.Sprintf(
		"aevalsrc=0:d=%.3f,%s[gap];[0:a]%s[a0];[1:a]%s[a1];[a0][gap][a1]concat=n=3:v=0:a=1[out]",
		gapSeconds, format, format, format,
	)
}
