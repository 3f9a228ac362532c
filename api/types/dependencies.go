package types

import (
	"github.com/br00kd0wnt0n/poddit-api/internal/database"
	"github.com/br00kd0wnt0n/poddit-api/internal/services/episodes"
	"github.com/br00kd0wnt0n/poddit-api/internal/services/generation"
	"github.com/br00kd0wnt0n/poddit-api/internal/services/signals"
)

// Dependencies holds all the dependencies needed by handlers
type Dependencies struct {
	DB                *database.DB
	EpisodeService    episodes.EpisodeService
	SignalService     signals.SelectorService
	GenerationService *generation.Service
}
