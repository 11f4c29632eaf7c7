package production

import (
	"log/slog"
	"time"
)

// Storage keys owned by this package. Nothing else may write them.
const (
	TemplateKey  = "template"
	OrderDataKey = "order-data"
)

type options struct {
	log *slog.Logger
	now func() time.Time
}

type Option func(*options)

// WithLogger sets the logger used for recovered read failures and write errors.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithClock replaces time.Now for stamping records.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{log: slog.Default(), now: time.Now}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}
