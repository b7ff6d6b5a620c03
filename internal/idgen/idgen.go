package idgen

import (
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

// Generator returns a fresh identifier on every call.
type Generator interface {
	NewID() string
}

// NewFunc is the default identifier source. Tests may stub it.
var NewFunc = func() string { return uuid.New().String() }

// New returns a new globally unique identifier.
func New() string { return NewFunc() }

// UUID generates random (version 4) UUIDs through NewFunc.
type UUID struct{}

func (UUID) NewID() string { return New() }

// Sequence generates monotonically increasing decimal identifiers, starting at 1.
// It is safe for concurrent use.
type Sequence struct {
	n atomic.Uint64
}

// NewSequence returns a sequence whose first identifier is start+1.
func NewSequence(start uint64) *Sequence {
	s := &Sequence{}
	s.n.Store(start)
	return s
}

func (s *Sequence) NewID() string {
	return strconv.FormatUint(s.n.Add(1), 10)
}

// Func adapts a plain function to the Generator interface.
type Func func() string

func (f Func) NewID() string { return f() }
