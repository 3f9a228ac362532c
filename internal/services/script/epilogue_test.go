package script

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/br00kd0wnt0n/poddit-api/internal/models"
)

func segmentsWithSources(names ...string) []SegmentDraft {
	var sources []models.SegmentSource
	for _, name := range names {
		sources = append(sources, models.SegmentSource{Name: name})
	}
	return []SegmentDraft{{Text: "segment text", Sources: sources}}
}

func TestBuildEpilogue_SourceClause(t *testing.T) {
	closeAt := time.Date(2025, time.March, 3, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		segments []SegmentDraft
		want     string
	}{
		{
			name:     "no sources omits the sentence",
			segments: segmentsWithSources(),
			want:     "That's your Poddit for Monday, March 3. Catch you in the next one.",
		},
		{
			name:     "one source",
			segments: segmentsWithSources("The Verge"),
			want:     "That's your Poddit for Monday, March 3. Today's stories drew on The Verge. Catch you in the next one.",
		},
		{
			name:     "two sources",
			segments: segmentsWithSources("The Verge", "Wired"),
			want:     "That's your Poddit for Monday, March 3. Today's stories drew on The Verge and Wired. Catch you in the next one.",
		},
		{
			name:     "three sources oxford comma",
			segments: segmentsWithSources("The Verge", "Wired", "Ars Technica"),
			want:     "That's your Poddit for Monday, March 3. Today's stories drew on The Verge, Wired, and Ars Technica. Catch you in the next one.",
		},
		{
			name:     "more than three sources takes the first three",
			segments: segmentsWithSources("A", "B", "C", "D", "E"),
			want:     "That's your Poddit for Monday, March 3. Today's stories drew on A, B, and C. Catch you in the next one.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildEpilogue(tt.segments, closeAt, time.UTC)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildEpilogue_DeduplicatesFirstSeenOrder(t *testing.T) {
	segments := []SegmentDraft{
		{Text: "a", Sources: []models.SegmentSource{{Name: "Wired"}, {Name: "The Verge"}}},
		{Text: "b", Sources: []models.SegmentSource{{Name: "Wired"}, {Name: "BBC"}}},
	}

	got := BuildEpilogue(segments, time.Date(2025, time.March, 3, 12, 0, 0, 0, time.UTC), time.UTC)
	assert.Contains(t, got, "Wired, The Verge, and BBC")
}

func TestBuildEpilogue_SkipsBlankNames(t *testing.T) {
	segments := []SegmentDraft{
		{Text: "a", Sources: []models.SegmentSource{{Name: "  "}, {Name: "BBC"}}},
	}

	got := BuildEpilogue(segments, time.Date(2025, time.March, 3, 12, 0, 0, 0, time.UTC), time.UTC)
	assert.Contains(t, got, "drew on BBC")
}

func TestBuildEpilogue_UsesZone(t *testing.T) {
	// 2025-03-03 02:00 UTC is still 2025-03-02 in New York
	closeAt := time.Date(2025, time.March, 3, 2, 0, 0, 0, time.UTC)
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	got := BuildEpilogue(nil, closeAt, loc)
	assert.Contains(t, got, "Sunday, March 2")
}

func TestBuildEpilogue_Deterministic(t *testing.T) {
	closeAt := time.Date(2025, time.March, 3, 12, 0, 0, 0, time.UTC)
	segments := segmentsWithSources("A", "B")

	first := BuildEpilogue(segments, closeAt, time.UTC)
	second := BuildEpilogue(segments, closeAt, time.UTC)
	assert.Equal(t, first, second)
}

func TestUserLocation_Fallbacks(t *testing.T) {
	user := &models.User{Timezone: "Europe/Paris"}
	assert.Equal(t, "Europe/Paris", userLocation(user, "America/New_York").String())

	// Invalid user zone falls back to the default zone
	user.Timezone = "Not/AZone"
	assert.Equal(t, "America/New_York", userLocation(user, "America/New_York").String())

	// Nothing configured falls back to UTC
	assert.Equal(t, "UTC", userLocation(nil, "").String())
}
