package assets

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Validator probes a fetched file before it is installed. Satisfied by
// *ffmpeg.FFmpeg.
type Validator interface {
	ValidateAudioFile(ctx context.Context, filePath string) error
}

// FetchOptions configures the bed-asset fetcher
type FetchOptions struct {
	MaxSize       int64         // Maximum file size in bytes (0 = no limit)
	Timeout       time.Duration // Fetch timeout
	UserAgent     string        // User agent string
	ValidateAudio bool          // Validate content-type is audio
	Validator     Validator     // Optional content probe before install
}

// DefaultOptions returns default fetch options
func DefaultOptions() FetchOptions {
	return FetchOptions{
		MaxSize:       100 * 1024 * 1024, // beds are short loops, 100MB is generous
		Timeout:       2 * time.Minute,
		UserAgent:     "PodditAPI/1.0",
		ValidateAudio: true,
	}
}

// Fetcher downloads music-bed assets into the local bed directory
type Fetcher struct {
	client  *http.Client
	options FetchOptions
}

// NewFetcher creates a new asset fetcher with the given options
func NewFetcher(options FetchOptions) *Fetcher {
	return &Fetcher{
		client: &http.Client{
			Timeout: options.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				IdleConnTimeout:     30 * time.Second,
				DisableCompression:  true, // Don't compress audio
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
		options: options,
	}
}

// Fetch downloads url to destPath. The write is atomic: the body streams to
// a sibling temp file which is renamed into place only on success, so a
// half-written bed never shadows a good one.
func (f *Fetcher) Fetch(ctx context.Context, url, destPath string) error {
	log.Printf("[DEBUG] Fetching bed asset from %s", url)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", f.options.UserAgent)
	req.Header.Set("Accept", "audio/*,*/*")

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned status %d", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if f.options.ValidateAudio && !isAudioContentType(contentType) {
		return fmt.Errorf("invalid content type: %s", contentType)
	}

	if f.options.MaxSize > 0 && resp.ContentLength > f.options.MaxSize {
		return fmt.Errorf("file too large: %d bytes (max %d)", resp.ContentLength, f.options.MaxSize)
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return fmt.Errorf("failed to create asset directory: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(destPath), filepath.Base(destPath)+".partial-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tempPath := tempFile.Name()

	written, err := f.copyBody(resp.Body, tempFile)
	closeErr := tempFile.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to fetch: %w", err)
	}
	if written == 0 {
		os.Remove(tempPath)
		return fmt.Errorf("server returned empty body")
	}
	if f.options.MaxSize > 0 && written > f.options.MaxSize {
		os.Remove(tempPath)
		return fmt.Errorf("file too large: exceeds %d bytes", f.options.MaxSize)
	}

	if f.options.Validator != nil {
		if err := f.options.Validator.ValidateAudioFile(ctx, tempPath); err != nil {
			os.Remove(tempPath)
			return fmt.Errorf("fetched asset failed validation: %w", err)
		}
	}

	if err := os.Rename(tempPath, destPath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to install asset: %w", err)
	}

	log.Printf("[DEBUG] Fetched %d bytes to %s", written, destPath)
	return nil
}

// EnsurePresent fetches url into destPath only when the file does not
// already exist locally
func (f *Fetcher) EnsurePresent(ctx context.Context, url, destPath string) error {
	if _, err := os.Stat(destPath); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("checking asset: %w", err)
	}
	return f.Fetch(ctx, url, destPath)
}

// copyBody reads one byte past MaxSize so an oversized body is detected
// rather than silently truncated
func (f *Fetcher) copyBody(src io.Reader, dst *os.File) (int64, error) {
	reader := src
	if f.options.MaxSize > 0 {
		reader = &io.LimitedReader{R: reader, N: f.options.MaxSize + 1}
	}
	return io.Copy(dst, reader)
}

// isAudioContentType checks if content type is audio
func isAudioContentType(contentType string) bool {
	contentType = strings.ToLower(contentType)
	return strings.HasPrefix(contentType, "audio/") ||
		contentType == "application/octet-stream" // Some servers use this for audio
}
