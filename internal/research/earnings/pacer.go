package earnings

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"earnings-sentiment/internal/api"
	"earnings-sentiment/internal/logger"
)

// Pacer spaces outbound calls by a minimum interval and inserts a longer
// cooldown after every block of calls. It is not safe for concurrent use.
type Pacer struct {
	limiter       *rate.Limiter
	cooldownEvery int
	cooldown      time.Duration
	calls         int

	sleep func(ctx context.Context, d time.Duration) error
}

// NewPacer allows one call per interval. cooldownEvery <= 0 disables the cooldown.
func NewPacer(interval time.Duration, cooldownEvery int, cooldown time.Duration) *Pacer {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &Pacer{
		limiter:       rate.NewLimiter(limit, 1),
		cooldownEvery: cooldownEvery,
		cooldown:      cooldown,
		sleep:         api.SleepContext,
	}
}

// Wait blocks until the next call may start.
func (p *Pacer) Wait(ctx context.Context) error {
	if p.cooldownEvery > 0 && p.cooldown > 0 && p.calls > 0 && p.calls%p.cooldownEvery == 0 {
		logger.Info(ctx, "Rate-limit cooldown", "after_calls", p.calls, "cooldown", p.cooldown)
		if err := p.sleep(ctx, p.cooldown); err != nil {
			return err
		}
	}
	if err := p.limiter.Wait(ctx); err != nil {
		return err
	}
	p.calls++
	return nil
}

// Calls returns how many calls have been admitted.
func (p *Pacer) Calls() int {
	return p.calls
}
