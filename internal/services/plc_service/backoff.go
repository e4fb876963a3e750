package plc_service

import (
	"time"

	"github.com/cenkalti/backoff/v4"
)

// newBackoff - задержки base, 2*base, ... не больше limit, без случайного разброса.
// Сам не останавливается: число попыток ограничивает вызывающий.
func newBackoff(base, limit time.Duration) *backoff.ExponentialBackOff {
	b := &backoff.ExponentialBackOff{
		InitialInterval:     base,
		RandomizationFactor: 0,
		Multiplier:          2,
		MaxInterval:         limit,
		MaxElapsedTime:      0,
		Stop:                backoff.Stop,
		Clock:               backoff.SystemClock,
	}
	b.Reset()
	return b
}
