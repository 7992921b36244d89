package keyorder

import (
	"log/slog"
	"time"
)

// DefaultMaxStructKeys is the struct-layout key limit used when no
// WithMaxStructKeys option is given.
const DefaultMaxStructKeys = 64

/*
Option defines a functional configuration modifier for Pool.

    pool := New(
        WithMaxStructKeys(16),
        WithLogger(logger),
    )

Each Option mutates the Pool before it is returned from New.
*/

type Option func(*Pool)

/*
WithMaxStructKeys sets the largest key count a struct layout can hold.

Orders longer than n are trimmed to n keys plus the overflow marker.
Values <= 0 are ignored.

A limit at or above MaxTrackedKeyOrderSize lets insert chains run past
the hard ceiling, at which point the orders stop being valid.
*/

func WithMaxStructKeys(n int) Option {
	return func(p *Pool) {
		if n > 0 {
			p.maxStructKeys = n
		}
	}
}

// WithLogger sets the logger used for pruning traces and stats reports.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pool) {
		if l != nil {
			p.log = l
		}
	}
}

// WithMetrics toggles the Prometheus collectors for this pool.
func WithMetrics(enabled bool) Option {
	return func(p *Pool) {
		p.metrics = enabled
	}
}

/*
WithReportInterval enables the background stats reporter.

If d > 0 the pool logs its Stats at debug level every d.
If d <= 0 no goroutine is started.
*/

func WithReportInterval(d time.Duration) Option {
	return func(p *Pool) {
		p.interval = d
	}
}
