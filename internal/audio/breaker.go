package audio

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/sony/gobreaker"
)

// BreakerProvider stops calling the wrapped provider after a run of
// consecutive failures and fails fast until the cooldown has passed.
type BreakerProvider struct {
	next Provider
	cb   *gobreaker.CircuitBreaker
}

// NewBreakerProvider wraps next with a circuit breaker that opens after
// maxFailures consecutive errors
func NewBreakerProvider(next Provider, maxFailures uint32, cooldown time.Duration) Provider {
	settings := gobreaker.Settings{
		Name:    next.Name(),
		Timeout: cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("Circuit breaker changed state", "provider", name, "from", from.String(), "to", to.String())
		},
	}

	return &BreakerProvider{
		next: next,
		cb:   gobreaker.NewCircuitBreaker(settings),
	}
}

// GenerateAudio forwards to the wrapped provider unless the breaker is open
func (b *BreakerProvider) GenerateAudio(ctx context.Context, req *SpeechRequest, outputFile string) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, b.next.GenerateAudio(ctx, req, outputFile)
	})
	if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
		return fmt.Errorf("%s: %w", b.next.Name(), err)
	}
	return err
}

// Name returns the wrapped provider name
func (b *BreakerProvider) Name() string {
	return b.next.Name()
}

// IsAvailable reports the wrapped provider's availability
func (b *BreakerProvider) IsAvailable() error {
	return b.next.IsAvailable()
}
