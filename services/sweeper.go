package services

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Sweeper drops abandoned state and reports how much it dropped.
type Sweeper interface {
	Sweep() int
}

type SweeperFunc func() int

func (f SweeperFunc) Sweep() int { return f() }

// StartSessionSweeper runs every sweeper on the cron schedule spec. The
// caller stops the returned scheduler on shutdown.
func StartSessionSweeper(spec string, log *zap.Logger, sweepers map[string]Sweeper) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		for name, s := range sweepers {
			if n := s.Sweep(); n > 0 {
				log.Info("expired editor sessions dropped", zap.String("kind", name), zap.Int("count", n))
			}
		}
	})
	if err != nil {
		return nil, fmt.Errorf("scheduling session sweeper %q: %w", spec, err)
	}

	c.Start()
	log.Info("session sweeper started", zap.String("schedule", spec))
	return c, nil
}
