package store

import (
	"log/slog"
	"math/rand/v2"

	"github.com/aretw0/flowcraft/internal/idgen"
	"github.com/aretw0/flowcraft/pkg/domain"
)

// IDGenerator produces the suffix of new node and edge ids.
type IDGenerator interface {
	NewID() string
}

// Positioner chooses the initial canvas position of an added node.
type Positioner func() domain.Position

// RandomPosition places nodes uniformly in [100, 500) on both axes.
func RandomPosition() domain.Position {
	return domain.Position{
		X: 100 + rand.Float64()*400,
		Y: 100 + rand.Float64()*400,
	}
}

// Option configures a Store.
type Option func(*Store)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithIDGenerator replaces the default UUID generator.
func WithIDGenerator(gen IDGenerator) Option {
	return func(s *Store) {
		if gen != nil {
			s.ids = gen
		}
	}
}

// WithPositioner replaces the random placement of added nodes.
func WithPositioner(p Positioner) Option {
	return func(s *Store) {
		if p != nil {
			s.position = p
		}
	}
}

func defaults(s *Store) {
	s.ids = idgen.UUID{}
	s.position = RandomPosition
}
