package signals

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Warmer refreshes every entity on a cron schedule so reads stay warm
type Warmer struct {
	cron    *cron.Cron
	svc     *Service
	baseCtx context.Context
}

// NewWarmer schedules RefreshAll on spec. Specs take an optional seconds
// field (e.g. "0 */5 * * * *" or "@every 5m").
func NewWarmer(baseCtx context.Context, svc *Service, spec string) (*Warmer, error) {
	if baseCtx == nil {
		baseCtx = context.Background()
	}

	w := &Warmer{
		cron:    cron.New(cron.WithParser(cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor))),
		svc:     svc,
		baseCtx: baseCtx,
	}

	if _, err := w.cron.AddFunc(spec, w.run); err != nil {
		return nil, fmt.Errorf("schedule refresh %q: %w", spec, err)
	}
	return w, nil
}

func (w *Warmer) run() {
	start := time.Now()
	signals := w.svc.RefreshAll(w.baseCtx)

	live := 0
	for _, s := range signals {
		if s.RealTimeData {
			live++
		}
	}

	log.Info().
		Int("entities", len(signals)).
		Int("live", live).
		Dur("took", time.Since(start)).
		Msg("Signal cache warmed")
}

// Start begins the schedule
func (w *Warmer) Start() {
	log.Info().Msg("Signal warmer started")
	w.cron.Start()
}

// Stop halts the schedule and waits for a running refresh
func (w *Warmer) Stop() {
	ctx := w.cron.Stop()
	<-ctx.Done()
	log.Info().Msg("Signal warmer stopped")
}
