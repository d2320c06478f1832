package common

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// SteppingClock returns start, start+step, start+2*step, ... on successive
// calls to Now.
type SteppingClock struct {
	start time.Time
	step  time.Duration
	calls int64
}

func NewSteppingClock(start time.Time, step time.Duration) *SteppingClock {
	return &SteppingClock{start: start, step: step}
}

func (c *SteppingClock) Now() time.Time {
	now := c.start.Add(time.Duration(c.calls) * c.step)
	c.calls++
	return now
}

type IDSource interface {
	NewID() string
}

// RandomIDs hands out v4 uuids.
type RandomIDs struct{}

func (RandomIDs) NewID() string { return uuid.NewString() }

// SequentialIDs hands out name-based uuids derived from a running counter,
// so two sources with the same namespace produce the same sequence.
type SequentialIDs struct {
	namespace uuid.UUID
	next      uint64
}

func NewSequentialIDs(namespace uuid.UUID) *SequentialIDs {
	return &SequentialIDs{namespace: namespace}
}

func (s *SequentialIDs) NewID() string {
	id := uuid.NewSHA1(s.namespace, []byte(strconv.FormatUint(s.next, 10)))
	s.next++
	return id.String()
}
