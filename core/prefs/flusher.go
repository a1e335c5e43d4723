package prefs

import (
	"context"
	"time"

	"payqr/core/cache"

	"go.uber.org/zap"
)

// CounterSource exposes the counters the flusher persists.
type CounterSource interface {
	Statistics() cache.Stats
}

// RunCounterFlusher writes the cache counters every interval until ctx is done,
// then once more so a clean shutdown loses nothing. Write failures are logged
// and retried on the next tick.
func (s *Store) RunCounterFlusher(ctx context.Context, interval time.Duration, src CounterSource) error {
	if s.db == nil {
		<-ctx.Done()
		return nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var last cache.Stats
	flush := func(ctx context.Context) {
		st := src.Statistics()
		if st.Hits == last.Hits && st.Misses == last.Misses {
			return
		}
		if err := s.SaveCounters(ctx, st.Hits, st.Misses); err != nil {
			s.logger.Warn("Failed to flush cache counters", zap.Error(err))
			return
		}
		last = st
	}

	for {
		select {
		case <-ticker.C:
			flush(ctx)
		case <-ctx.Done():
			// Parent is cancelled, give the final write its own deadline
			final, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			flush(final)
			cancel()
			return nil
		}
	}
}
