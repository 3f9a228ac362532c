package script

import (
	"context"

	"github.com/br00kd0wnt0n/poddit-api/internal/models"
)

// SegmentDraft is one narration unit produced by the content-generation
// capability, before it is persisted as an episode segment
type SegmentDraft struct {
	Text    string
	Sources []models.SegmentSource
}

// Draft is the raw output of the content-generation capability
type Draft struct {
	Title    string
	Summary  string
	Segments []SegmentDraft
}

// Script is the finished structured script for one episode
type Script struct {
	Title        string
	Summary      string
	Segments     []SegmentDraft
	MainText     string
	EpilogueText string
	Topics       models.TopicList
}

// Generator defines the external content-generation capability that turns
// selected signals into ordered narration segments
type Generator interface {
	GenerateSegments(ctx context.Context, signals []models.Signal) (*Draft, error)
}

// ComposerService assembles the full script: generated segments plus the
// deterministic epilogue
type ComposerService interface {
	Compose(ctx context.Context, user *models.User, signals []models.Signal) (*Script, error)
}
