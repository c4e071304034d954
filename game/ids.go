package game

import (
	"fmt"

	"github.com/google/uuid"
)

// IDGenerator hands out unit instance ids that are unique within a match.
type IDGenerator interface {
	NewID() string
}

// UUIDs generates random v4 ids.
type UUIDs struct{}

func (UUIDs) NewID() string {
	return uuid.NewString()
}

// Sequence generates "<prefix><n>" ids; deterministic, for tests and replays.
type Sequence struct {
	Prefix string
	next   int
}

func (s *Sequence) NewID() string {
	s.next++
	return fmt.Sprintf("%s%d", s.Prefix, s.next)
}
