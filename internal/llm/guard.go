package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/jonathan/resume-studio/internal/observability"
)

// BreakerSettings configures the per-client circuit breaker.
type BreakerSettings struct {
	Enabled          bool
	MinRequests      uint32
	FailureRatio     float64
	OpenTimeout      time.Duration
	HalfOpenRequests uint32
}

// GuardOptions configures a GuardedClient.
type GuardOptions struct {
	// Timeout bounds every individual provider call. Zero disables the per-call deadline.
	Timeout        time.Duration
	MaxRetries     int
	InitialBackoff time.Duration
	// RequestsPerSecond limits outbound calls. Zero disables limiting.
	RequestsPerSecond float64
	Burst             int
	Breaker           BreakerSettings
	Logger            zerolog.Logger
}

// DefaultGuardOptions returns the limits used when nothing is configured.
func DefaultGuardOptions() GuardOptions {
	return GuardOptions{
		Timeout:           60 * time.Second,
		MaxRetries:        2,
		InitialBackoff:    time.Second,
		RequestsPerSecond: 4,
		Burst:             4,
		Breaker: BreakerSettings{
			Enabled:          true,
			MinRequests:      5,
			FailureRatio:     0.6,
			OpenTimeout:      30 * time.Second,
			HalfOpenRequests: 1,
		},
		Logger: zerolog.Nop(),
	}
}

// GuardedClient wraps a Client with a per-call timeout, a rate limiter,
// a circuit breaker and bounded retries for transient errors.
type GuardedClient struct {
	inner   Client
	opts    GuardOptions
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[string]
}

// NewGuardedClient wraps inner.
func NewGuardedClient(inner Client, opts GuardOptions) *GuardedClient {
	g := &GuardedClient{inner: inner, opts: opts}
	if opts.RequestsPerSecond > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = 1
		}
		g.limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
	}
	if opts.Breaker.Enabled {
		logger := opts.Logger
		g.breaker = gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
			Name:        fmt.Sprintf("llm-%s", inner.Provider()),
			MaxRequests: opts.Breaker.HalfOpenRequests,
			Timeout:     opts.Breaker.OpenTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				if counts.Requests < opts.Breaker.MinRequests {
					return false
				}
				return float64(counts.TotalFailures)/float64(counts.Requests) >= opts.Breaker.FailureRatio
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logger.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state changed")
			},
		})
	}
	return g
}

// GenerateContent implements Client.
func (g *GuardedClient) GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	return g.call(ctx, "text", func(ctx context.Context) (string, error) {
		return g.inner.GenerateContent(ctx, prompt, tier)
	})
}

// GenerateJSON implements Client.
func (g *GuardedClient) GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	return g.call(ctx, "json", func(ctx context.Context) (string, error) {
		return g.inner.GenerateJSON(ctx, prompt, tier)
	})
}

// GenerateWithImages implements Client.
func (g *GuardedClient) GenerateWithImages(ctx context.Context, prompt string, images []Image, tier ModelTier) (string, error) {
	return g.call(ctx, "vision", func(ctx context.Context) (string, error) {
		return g.inner.GenerateWithImages(ctx, prompt, images, tier)
	})
}

// GetModel implements Client.
func (g *GuardedClient) GetModel(tier ModelTier) string { return g.inner.GetModel(tier) }

// Provider implements Client.
func (g *GuardedClient) Provider() Provider { return g.inner.Provider() }

// Close implements Client.
func (g *GuardedClient) Close() error { return g.inner.Close() }

func (g *GuardedClient) call(ctx context.Context, operation string, fn func(context.Context) (string, error)) (string, error) {
	provider := string(g.inner.Provider())
	backoff := g.opts.InitialBackoff
	if backoff <= 0 {
		backoff = time.Second
	}

	for attempt := 0; ; attempt++ {
		if g.limiter != nil {
			if err := g.limiter.Wait(ctx); err != nil {
				observability.LLMRequests.WithLabelValues(provider, operation, "rejected").Inc()
				return "", fmt.Errorf("rate limiter: %w", err)
			}
		}

		start := time.Now()
		out, err := g.once(ctx, fn)
		observability.LLMDuration.WithLabelValues(provider, operation).Observe(time.Since(start).Seconds())
		if err == nil {
			observability.LLMRequests.WithLabelValues(provider, operation, "success").Inc()
			return out, nil
		}
		observability.LLMRequests.WithLabelValues(provider, operation, "error").Inc()

		if attempt >= g.opts.MaxRetries || !IsRetryable(err) || ctx.Err() != nil {
			return "", err
		}

		g.opts.Logger.Warn().Err(err).Str("provider", provider).Int("attempt", attempt+1).Dur("backoff", backoff).Msg("retrying model call")
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
}

func (g *GuardedClient) once(ctx context.Context, fn func(context.Context) (string, error)) (string, error) {
	callCtx := ctx
	if g.opts.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, g.opts.Timeout)
		defer cancel()
	}
	if g.breaker == nil {
		return fn(callCtx)
	}
	return g.breaker.Execute(func() (string, error) {
		return fn(callCtx)
	})
}
