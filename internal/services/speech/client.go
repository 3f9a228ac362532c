package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Client renders narration through a hosted text-to-speech API and probes
// the resulting file for its duration
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
	voice      string
	format     string
	userAgent  string
	prober     DurationProber
}

// Ensure Client implements Synthesizer interface
var _ Synthesizer = (*Client)(nil)

// Config holds configuration for the text-to-speech client
type Config struct {
	APIKey    string
	BaseURL   string
	Model     string
	Voice     string
	Format    string
	UserAgent string
	Timeout   time.Duration
}

// NewClient creates a new text-to-speech client
func NewClient(cfg Config, prober DurationProber) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "tts-1"
	}
	if cfg.Voice == "" {
		cfg.Voice = "nova"
	}
	if cfg.Format == "" {
		cfg.Format = "mp3"
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "PodditAPI/1.0"
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		voice:      cfg.Voice,
		format:     cfg.Format,
		userAgent:  cfg.UserAgent,
		prober:     prober,
	}
}

type speechRequest struct {
	Model          string `json:"model"`
	Input          string `json:"input"`
	Voice          string `json:"voice"`
	ResponseFormat string `json:"response_format"`
}

// Synthesize renders text as speech and writes the audio to outputPath.
// The response body streams straight to disk so long episodes never sit
// fully in memory.
func (c *Client) Synthesize(ctx context.Context, text, outputPath string) (*Audio, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}

	body, err := json.Marshal(speechRequest{
		Model:          c.model,
		Input:          text,
		Voice:          c.voice,
		ResponseFormat: c.format,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	endpoint := c.baseURL + "/audio/speech"

	// Inherit the deadline but not values, so internal request metadata does
	// not leak to the external API.
	cleanCtx := context.Background()
	if deadline, ok := ctx.Deadline(); ok {
		var cancel context.CancelFunc
		cleanCtx, cancel = context.WithDeadline(cleanCtx, deadline)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(cleanCtx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: executing request: %v", ErrSpeechFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		message, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		log.Printf("[ERROR] Speech API returned status %d for %s", resp.StatusCode, endpoint)
		return nil, fmt.Errorf("%w: API returned status %d: %s", ErrSpeechFailed, resp.StatusCode, string(message))
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return nil, fmt.Errorf("creating output file: %w", err)
	}

	written, err := io.Copy(out, resp.Body)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(outputPath)
		return nil, fmt.Errorf("%w: writing audio: %v", ErrSpeechFailed, err)
	}
	if written == 0 {
		os.Remove(outputPath)
		return nil, fmt.Errorf("%w: API returned empty audio", ErrSpeechFailed)
	}

	duration, err := c.prober.Duration(ctx, outputPath)
	if err != nil {
		os.Remove(outputPath)
		return nil, fmt.Errorf("%w: probing rendered audio: %v", ErrSpeechFailed, err)
	}

	log.Printf("[DEBUG] Rendered %d chars of narration to %s (%.2fs, %d bytes)",
		len(text), outputPath, duration, written)

	return &Audio{
		Path:     outputPath,
		Duration: duration,
		Format:   c.format,
	}, nil
}
