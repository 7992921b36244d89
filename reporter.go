package keyorder

import "time"

/*
startReporter launches the background stats reporter.

================================================================================
EXECUTION MODEL
================================================================================

- If interval <= 0:
    → No goroutine is started.

- If interval > 0:
    → A time.Ticker is created.
    → On each tick the pool logs its Stats at debug level.

The reporter only reads counters; it never touches the buckets beyond the
read lock taken by Len().

================================================================================
SHUTDOWN
================================================================================

stopChan is closed by Stop(). The ticker is stopped before the goroutine
returns.
*/

func (p *Pool) startReporter() {
	if p.interval <= 0 {
		return
	}

	ticker := time.NewTicker(p.interval)

	go func() {
		for {
			select {
			case <-ticker.C:
				p.report()
			case <-p.stopChan:
				ticker.Stop()
				return
			}
		}
	}()
}

func (p *Pool) report() {
	s := p.Stats()
	p.log.Debug("key order pool stats",
		"entries", s.Entries,
		"hits", s.Hits,
		"misses", s.Misses,
		"races", s.Races,
		"hit_rate", s.HitRate(),
	)
}

/*
Stop terminates the stats reporter, if one is running.

Interned orders stay valid after Stop; the pool keeps answering Make.
Calling Stop more than once is safe.
*/

func (p *Pool) Stop() {
	p.stopOnce.Do(func() {
		close(p.stopChan)
	})
}
