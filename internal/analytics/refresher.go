package analytics

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/maxrep/maxrep-cli/internal/tracking"
)

type Recomputer interface {
	Recompute(ctx context.Context) (Result, bool, error)
}

// Refresher recomputes analytics on tracking events and on a cron schedule
// as a fallback. Runs never overlap.
type Refresher struct {
	Target   Recomputer
	Bus      *tracking.Bus
	Schedule string
	Logger   *zap.Logger
	OnResult func(Result)
	OnError  func(error)

	run         sync.Mutex
	cron        *cron.Cron
	unsubscribe func()

	mu      sync.Mutex
	stopped bool
	wg      sync.WaitGroup
}

func (r *Refresher) Start(ctx context.Context) error {
	r.cron = cron.New()
	if r.Schedule != "" {
		if _, err := r.cron.AddFunc(r.Schedule, func() { r.Trigger(ctx, "schedule") }); err != nil {
			return fmt.Errorf("schedule analytics refresh %q: %w", r.Schedule, err)
		}
	}
	if r.Bus != nil {
		r.unsubscribe = r.Bus.Subscribe(func(e tracking.Event) {
			// A publish may still reach this handler after Stop unsubscribed it.
			r.mu.Lock()
			if r.stopped {
				r.mu.Unlock()
				return
			}
			r.wg.Add(1)
			r.mu.Unlock()
			go func() {
				defer r.wg.Done()
				r.Trigger(ctx, e.Kind+" "+e.Action)
			}()
		})
	}
	r.cron.Start()
	return nil
}

// Trigger runs one recompute and reports its outcome through the callbacks.
func (r *Refresher) Trigger(ctx context.Context, reason string) {
	r.run.Lock()
	defer r.run.Unlock()

	if ctx.Err() != nil {
		return
	}
	log := r.Logger
	if log == nil {
		log = zap.NewNop()
	}
	res, committed, err := r.Target.Recompute(ctx)
	if err != nil {
		log.Warn("analytics refresh failed", zap.String("reason", reason), zap.Error(err))
		if r.OnError != nil {
			r.OnError(err)
		}
		return
	}
	log.Debug("analytics refreshed", zap.String("reason", reason), zap.Bool("committed", committed))
	if committed && r.OnResult != nil {
		r.OnResult(res)
	}
}

// Stop unsubscribes from the bus and waits for running jobs.
func (r *Refresher) Stop() {
	if r.unsubscribe != nil {
		r.unsubscribe()
	}
	r.mu.Lock()
	r.stopped = true
	r.mu.Unlock()
	if r.cron != nil {
		<-r.cron.Stop().Done()
	}
	r.wg.Wait()
}
