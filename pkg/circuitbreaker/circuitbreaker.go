package circuitbreaker

import (
	"errors"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

var (
	// MaxNumOfFailingRequests ...
	MaxNumOfFailingRequests = 10
	// FailingRatio ...
	FailingRatio = 0.6
	// OpenTimeout is how long the breaker stays open before letting a trial
	// request through.
	OpenTimeout = 30 * time.Second

	// ErrOpenState is returned when the breaker is open and requests are
	// rejected without reaching the collaborator.
	ErrOpenState = gobreaker.ErrOpenState
	// ErrTooManyRequests is returned when the breaker is half-open and the
	// trial request quota is exhausted.
	ErrTooManyRequests = gobreaker.ErrTooManyRequests
)

// NewCircuitBreaker is a factory function returning a *gobreaker.CircuitBreaker
// with a default state-changing function that activates if the overall number
// of failing requests have reached a tweakable MaxNumOfFailingRequests cap and
// the failing ratio has met the FailingRatio.
func NewCircuitBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    name,
		Timeout: OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return int(counts.Requests) > MaxNumOfFailingRequests && ratio >= FailingRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.WithFields(log.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("circuit breaker state changed")
		},
	})
}

// Breaker wraps a gobreaker.CircuitBreaker so that errors which are a
// legitimate answer of the collaborator (ie. not found) don't count as
// failures.
type Breaker struct {
	cb         *gobreaker.CircuitBreaker
	isExpected func(error) bool
}

// New returns a Breaker that ignores the errors matching any of the given
// ones.
func New(name string, expected ...error) *Breaker {
	return &Breaker{
		cb: NewCircuitBreaker(name),
		isExpected: func(err error) bool {
			for _, e := range expected {
				if errors.Is(err, e) {
					return true
				}
			}
			return false
		},
	}
}

type expectedFailure struct {
	err error
}

// Execute runs the given request if the breaker accepts it.
func (b *Breaker) Execute(
	req func() (interface{}, error),
) (interface{}, error) {
	res, err := b.cb.Execute(func() (interface{}, error) {
		res, err := req()
		if err != nil && b.isExpected(err) {
			return expectedFailure{err}, nil
		}
		return res, err
	})
	if err != nil {
		return nil, err
	}
	if f, ok := res.(expectedFailure); ok {
		return nil, f.err
	}
	return res, nil
}

// State returns the current state of the breaker.
func (b *Breaker) State() gobreaker.State {
	return b.cb.State()
}
