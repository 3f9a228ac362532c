package script

import (
	"fmt"
	"strings"
	"time"

	"github.com/br00kd0wnt0n/poddit-api/internal/models"
)

// maxEpilogueSources caps how many distinct source names the closing remark
// cites
const maxEpilogueSources = 3

const (
	epilogueWithSources = "That's your Poddit for %s. Today's stories drew on %s. Catch you in the next one."
	epilogueNoSources   = "That's your Poddit for %s. Catch you in the next one."
)

// BuildEpilogue produces the deterministic closing remark for an episode.
// The text is parametrized only by the closing date and the source clause,
// so the same segments and date always yield the same remark with no
// generative call involved.
func BuildEpilogue(segments []SegmentDraft, closeAt time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	date := closeAt.In(loc).Format("Monday, January 2")

	names := distinctSourceNames(segments, maxEpilogueSources)
	if len(names) == 0 {
		return fmt.Sprintf(epilogueNoSources, date)
	}

	return fmt.Sprintf(epilogueWithSources, date, joinNames(names))
}

// distinctSourceNames collects distinct source names across all segments in
// first-seen order, capped at limit
func distinctSourceNames(segments []SegmentDraft, limit int) []string {
	seen := make(map[string]struct{})
	var names []string

	for _, segment := range segments {
		for _, source := range segment.Sources {
			name := strings.TrimSpace(source.Name)
			if name == "" {
				continue
			}
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			names = append(names, name)
			if len(names) == limit {
				return names
			}
		}
	}

	return names
}

// joinNames renders a name list with an Oxford comma: "A", "A and B",
// "A, B, and C"
func joinNames(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	case 2:
		return names[0] + " and " + names[1]
	default:
		return strings.Join(names[:len(names)-1], ", ") + ", and " + names[len(names)-1]
	}
}

// userLocation resolves the user's configured time zone, falling back to the
// given default zone name and finally UTC
func userLocation(user *models.User, defaultZone string) *time.Location {
	if user != nil && user.Timezone != "" {
		if loc, err := time.LoadLocation(user.Timezone); err == nil {
			return loc
		}
	}
	if defaultZone != "" {
		if loc, err := time.LoadLocation(defaultZone); err == nil {
			return loc
		}
	}
	return time.UTC
}
