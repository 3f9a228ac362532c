package script

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/br00kd0wnt0n/poddit-api/internal/models"
)

// stubGenerator returns a fixed draft or error
type stubGenerator struct {
	draft *Draft
	err   error
}

func (s *stubGenerator) GenerateSegments(ctx context.Context, signals []models.Signal) (*Draft, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.draft, nil
}

func fixedClock() func() time.Time {
	return func() time.Time {
		return time.Date(2025, time.March, 3, 12, 0, 0, 0, time.UTC)
	}
}

func TestCompose(t *testing.T) {
	gen := &stubGenerator{draft: &Draft{
		Title:   "Tuesday Roundup",
		Summary: "Two stories worth your time.",
		Segments: []SegmentDraft{
			{Text: "First story.", Sources: []models.SegmentSource{{Name: "The Verge", URL: "https://theverge.com"}}},
			{Text: "Second story.", Sources: []models.SegmentSource{{Name: "Wired"}}},
		},
	}}
	svc := NewService(gen, "UTC", WithClock(fixedClock()))

	signals := []models.Signal{
		{Content: "a", Topics: models.TopicList{"tech", "ai"}},
		{Content: "b", Topics: models.TopicList{"ai", "culture"}},
	}

	script, err := svc.Compose(context.Background(), nil, signals)
	require.NoError(t, err)

	assert.Equal(t, "Tuesday Roundup", script.Title)
	assert.Equal(t, "First story.\n\nSecond story.", script.MainText)
	assert.Contains(t, script.EpilogueText, "The Verge and Wired")
	assert.Equal(t, models.TopicList{"tech", "ai", "culture"}, script.Topics)
	assert.Len(t, script.Segments, 2)
}

func TestCompose_GeneratorError(t *testing.T) {
	svc := NewService(&stubGenerator{err: ErrSynthesisFailed}, "UTC")

	_, err := svc.Compose(context.Background(), nil, []models.Signal{{Content: "a"}})
	assert.True(t, errors.Is(err, ErrSynthesisFailed))
}

func TestCompose_NoSignals(t *testing.T) {
	svc := NewService(&stubGenerator{}, "UTC")

	_, err := svc.Compose(context.Background(), nil, nil)
	assert.True(t, errors.Is(err, ErrSynthesisFailed))
}

func TestCompose_UserZoneDate(t *testing.T) {
	gen := &stubGenerator{draft: &Draft{Segments: []SegmentDraft{{Text: "Story."}}}}
	svc := NewService(gen, "UTC", WithClock(func() time.Time {
		// Still the prior day in New York
		return time.Date(2025, time.March, 3, 2, 0, 0, 0, time.UTC)
	}))

	user := &models.User{Timezone: "America/New_York"}
	script, err := svc.Compose(context.Background(), user, []models.Signal{{Content: "a"}})
	require.NoError(t, err)
	assert.Contains(t, script.EpilogueText, "Sunday, March 2")
}

func TestClient_GenerateSegments(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{\"title\":\"T\",\"summary\":\"S\",\"segments\":[{\"text\":\"Hello.\",\"sources\":[{\"name\":\"BBC\",\"url\":\"https://bbc.com\"}]}]}"}}]}`))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test-key", BaseURL: server.URL, Timeout: 5 * time.Second})

	draft, err := client.GenerateSegments(context.Background(), []models.Signal{{Content: "note", Kind: models.SignalKindTopic}})
	require.NoError(t, err)

	assert.Equal(t, "T", draft.Title)
	require.Len(t, draft.Segments, 1)
	assert.Equal(t, "Hello.", draft.Segments[0].Text)
	require.Len(t, draft.Segments[0].Sources, 1)
	assert.Equal(t, "BBC", draft.Segments[0].Sources[0].Name)
}

func TestClient_GenerateSegments_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test-key", BaseURL: server.URL, Timeout: 5 * time.Second})

	_, err := client.GenerateSegments(context.Background(), []models.Signal{{Content: "note"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSynthesisFailed))
}

func TestParseDraft_EmptySegments(t *testing.T) {
	_, err := parseDraft(`{"title":"T","segments":[]}`)
	assert.True(t, errors.Is(err, ErrEmptyScript))

	_, err = parseDraft(`{"title":"T","segments":[{"text":"   "}]}`)
	assert.True(t, errors.Is(err, ErrEmptyScript))
}

func TestParseDraft_InvalidJSON(t *testing.T) {
	_, err := parseDraft(`not json`)
	assert.True(t, errors.Is(err, ErrSynthesisFailed))
}
