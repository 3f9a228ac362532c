package script

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/br00kd0wnt0n/poddit-api/internal/models"
)

// Service implements ComposerService: generated segments plus the
// deterministic epilogue
type Service struct {
	generator   Generator
	defaultZone string
	now         func() time.Time
}

// Ensure Service implements ComposerService interface
var _ ComposerService = (*Service)(nil)

// ServiceOption is a functional option for configuring the service
type ServiceOption func(*Service)

// WithClock overrides the clock used for the epilogue date (for testing)
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates a new script composer service
func NewService(generator Generator, defaultZone string, opts ...ServiceOption) *Service {
	s := &Service{
		generator:   generator,
		defaultZone: defaultZone,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Compose turns the selected signals into a full structured script. The
// segments come from the generative capability; the epilogue is assembled
// locally and never requires a generative call.
func (s *Service) Compose(ctx context.Context, user *models.User, signals []models.Signal) (*Script, error) {
	if len(signals) == 0 {
		return nil, fmt.Errorf("%w: no signals to compose from", ErrSynthesisFailed)
	}

	draft, err := s.generator.GenerateSegments(ctx, signals)
	if err != nil {
		return nil, err
	}

	texts := make([]string, 0, len(draft.Segments))
	for _, segment := range draft.Segments {
		texts = append(texts, segment.Text)
	}
	mainText := strings.Join(texts, "\n\n")

	loc := userLocation(user, s.defaultZone)
	epilogue := BuildEpilogue(draft.Segments, s.now(), loc)

	log.Printf("[DEBUG] Composed script with %d segments (%d chars main, %d chars epilogue)",
		len(draft.Segments), len(mainText), len(epilogue))

	return &Script{
		Title:        draft.Title,
		Summary:      draft.Summary,
		Segments:     draft.Segments,
		MainText:     mainText,
		EpilogueText: epilogue,
		Topics:       aggregateTopics(signals),
	}, nil
}

// aggregateTopics collects the distinct topics across the consumed signals
// in first-seen order
func aggregateTopics(signals []models.Signal) models.TopicList {
	seen := make(map[string]struct{})
	var topics models.TopicList

	for _, signal := range signals {
		for _, topic := range signal.Topics {
			if _, ok := seen[topic]; ok {
				continue
			}
			seen[topic] = struct{}{}
			topics = append(topics, topic)
		}
	}

	return topics
}
