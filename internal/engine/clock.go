package engine

import "time"

// WallClock maps real time onto in-world days at a configurable compression.
// Day zero starts at the moment the clock is created (or the restored epoch),
// so a daemon restart with a persisted epoch resumes the same day.
type WallClock struct {
	epoch     time.Time
	dayLength time.Duration
}

// NewWallClock creates a wall clock where one in-world day lasts
// minutesPerDay real minutes
func NewWallClock(minutesPerDay float64) *WallClock {
	if minutesPerDay <= 0 {
		minutesPerDay = 24
	}
	return &WallClock{
		epoch:     time.Now(),
		dayLength: time.Duration(minutesPerDay * float64(time.Minute)),
	}
}

// NewWallClockAt creates a wall clock with an explicit epoch, for resuming
// a persisted session
func NewWallClockAt(epoch time.Time, minutesPerDay float64) *WallClock {
	c := NewWallClock(minutesPerDay)
	c.epoch = epoch
	return c
}

// Epoch returns the instant of day zero
func (c *WallClock) Epoch() time.Time {
	return c.epoch
}

// CurrentDayIndex returns the number of whole in-world days since the epoch
func (c *WallClock) CurrentDayIndex() int {
	elapsed := time.Since(c.epoch)
	if elapsed < 0 {
		return 0
	}
	return int(elapsed / c.dayLength)
}

// CurrentHourOfDay returns the in-world hour in [0, 24)
func (c *WallClock) CurrentHourOfDay() float64 {
	elapsed := time.Since(c.epoch)
	if elapsed < 0 {
		return 0
	}
	frac := float64(elapsed%c.dayLength) / float64(c.dayLength)
	return frac * 24
}

// ManualClock is a hand-advanced clock for simulations and tests
type ManualClock struct {
	Day  int
	Hour float64
}

// CurrentDayIndex returns the manually set day
func (c *ManualClock) CurrentDayIndex() int { return c.Day }

// CurrentHourOfDay returns the manually set hour
func (c *ManualClock) CurrentHourOfDay() float64 { return c.Hour }

// Advance moves the clock forward by fractional hours, rolling days over
func (c *ManualClock) Advance(hours float64) {
	c.Hour += hours
	for c.Hour >= 24 {
		c.Hour -= 24
		c.Day++
	}
}
