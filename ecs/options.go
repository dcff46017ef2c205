package ecs

import "github.com/rs/zerolog"

type options struct {
	logger   zerolog.Logger
	strict   bool
	capacity int
}

// Option configures a World.
type Option func(*options)

// WithLogger sets the logger used for table creation, update passes and
// diagnostics. The default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithStrictAssertions makes diagnostic assertions, such as a query whose
// filter can never match, panic instead of only logging an error. Useful in
// tests and development builds.
func WithStrictAssertions(strict bool) Option {
	return func(o *options) {
		o.strict = strict
	}
}

// WithInitialCapacity pre-allocates the entity index for n entities.
func WithInitialCapacity(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.capacity = n
		}
	}
}

func defaultOptions() options {
	return options{
		logger:   zerolog.Nop(),
		capacity: 64,
	}
}
