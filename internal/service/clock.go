package service

import (
	"time"

	"github.com/spec-kit/staff-registry/internal/domain"
)

// Clock supplies "today" in the business timezone.
type Clock interface {
	Today() time.Time
}

type zoneClock struct {
	loc *time.Location
	now func() time.Time
}

// NewClock returns a clock reporting the calendar day in loc.
func NewClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return zoneClock{loc: loc, now: time.Now}
}

func (c zoneClock) Today() time.Time {
	return domain.Day(c.now().In(c.loc))
}

// FixedClock always reports the same day.
type FixedClock time.Time

func (c FixedClock) Today() time.Time {
	return domain.Day(time.Time(c))
}
