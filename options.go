package imgops

import (
	"fmt"
	"log/slog"
)

const defaultRoutines = 4

// Rounding selects how interpolated resampling results become bytes.
type Rounding int

const (
	// RoundTruncate drops the fraction, matching legacy derived assets.
	RoundTruncate Rounding = iota
	// RoundNearest rounds half away from zero.
	RoundNearest
)

// config holds the settings of one Apply or ApplyAll call.
type config struct {
	logger   *slog.Logger
	rounding Rounding
	routines int
}

// Option is something that can be configured on an Apply call.
type Option func(*config) error

// WithLogger logs through l instead of the package logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) error {
		if l != nil {
			c.logger = l
		}
		return nil
	}
}

// WithRounding sets the rounding rule of bilinear and bicubic scaling.
func WithRounding(r Rounding) Option {
	return func(c *config) error {
		if r != RoundTruncate && r != RoundNearest {
			return fmt.Errorf("unknown rounding mode %d", r)
		}
		c.rounding = r
		return nil
	}
}

// WithRoutines sets how many images ApplyAll works on at once.
func WithRoutines(i int) Option {
	return func(c *config) error {
		if i <= 0 {
			i = 1
		}
		c.routines = i
		return nil
	}
}

func newConfig(opts []Option) (*config, error) {
	c := &config{logger: Logger(), rounding: RoundTruncate, routines: defaultRoutines}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}
