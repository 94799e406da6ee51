package autosave

import (
	"fmt"

	"github.com/robfig/cron/v3"
)

// Schedule fires a callback on a cron spec such as "@every 5m". The callback
// runs on the cron goroutine; callers that touch the model must forward it
// to the goroutine that owns it.
type Schedule struct {
	c *cron.Cron
}

// NewSchedule parses spec and registers fn. Nothing fires until Start.
func NewSchedule(spec string, fn func()) (*Schedule, error) {
	c := cron.New()
	if _, err := c.AddFunc(spec, fn); err != nil {
		return nil, fmt.Errorf("autosave: schedule %q: %w", spec, err)
	}
	return &Schedule{c: c}, nil
}

// Start begins firing. It does not fire immediately.
func (s *Schedule) Start() { s.c.Start() }

// Stop halts the schedule and waits for a running callback to return.
func (s *Schedule) Stop() {
	<-s.c.Stop().Done()
}
