package breaker

import (
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// Settings describes the single shared breaker guarding one remote
// dependency. MaxRequests is pinned to 1 so exactly one trial call is
// allowed per half-open cycle.
type Settings struct {
	Name                string
	ConsecutiveFailures uint32
	Cooldown            time.Duration
}

func New(s Settings, logger *zap.Logger) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        s.Name,
		MaxRequests: 1,
		Timeout:     s.Cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= s.ConsecutiveFailures
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn(
				"circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
}

// Do runs op through the breaker and substitutes fallback when the call is
// short-circuited or fails. The returned bool reports whether the fallback
// was used.
func Do[T any](cb *gobreaker.CircuitBreaker, op func() (T, error), fallback T) (T, bool) {
	res, err := cb.Execute(func() (interface{}, error) {
		return op()
	})
	if err != nil {
		return fallback, true
	}

	return res.(T), false
}
