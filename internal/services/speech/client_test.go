package speech

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubProber returns a fixed duration without touching ffprobe
type stubProber struct {
	duration float64
	err      error
}

func (s *stubProber) Duration(ctx context.Context, filePath string) (float64, error) {
	return s.duration, s.err
}

func TestSynthesize(t *testing.T) {
	payload := []byte("fake-mp3-bytes")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/audio/speech", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write(payload)
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test-key", BaseURL: server.URL, Timeout: 5 * time.Second},
		&stubProber{duration: 42.5})

	outPath := filepath.Join(t.TempDir(), "narration.mp3")
	audio, err := client.Synthesize(context.Background(), "Hello listeners.", outPath)
	require.NoError(t, err)

	assert.Equal(t, outPath, audio.Path)
	assert.Equal(t, 42.5, audio.Duration)
	assert.Equal(t, "mp3", audio.Format)

	written, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, payload, written)
}

func TestSynthesize_EmptyText(t *testing.T) {
	client := NewClient(Config{APIKey: "test-key"}, &stubProber{})

	_, err := client.Synthesize(context.Background(), "   ", "out.mp3")
	assert.True(t, errors.Is(err, ErrEmptyText))
}

func TestSynthesize_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test-key", BaseURL: server.URL, Timeout: 5 * time.Second},
		&stubProber{duration: 1})

	outPath := filepath.Join(t.TempDir(), "narration.mp3")
	_, err := client.Synthesize(context.Background(), "Hello.", outPath)
	assert.True(t, errors.Is(err, ErrSpeechFailed))
	assert.NoFileExists(t, outPath)
}

func TestSynthesize_EmptyBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test-key", BaseURL: server.URL, Timeout: 5 * time.Second},
		&stubProber{duration: 1})

	outPath := filepath.Join(t.TempDir(), "narration.mp3")
	_, err := client.Synthesize(context.Background(), "Hello.", outPath)
	assert.True(t, errors.Is(err, ErrSpeechFailed))
	assert.NoFileExists(t, outPath)
}

func TestSynthesize_ProbeError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("audio"))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test-key", BaseURL: server.URL, Timeout: 5 * time.Second},
		&stubProber{err: errors.New("not an audio file")})

	outPath := filepath.Join(t.TempDir(), "narration.mp3")
	_, err := client.Synthesize(context.Background(), "Hello.", outPath)
	assert.True(t, errors.Is(err, ErrSpeechFailed))
	assert.NoFileExists(t, outPath)
}

func TestRenderError(t *testing.T) {
	inner := errors.New("boom")
	err := NewRenderError("epilogue", inner)

	assert.True(t, errors.Is(err, ErrSpeechFailed))
	assert.True(t, errors.Is(err, inner))
	assert.Contains(t, err.Error(), "epilogue")
}
