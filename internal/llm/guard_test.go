package llm

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockLLMClient is a mock implementation of Client for testing
type MockLLMClient struct {
	GenerateContentFunc    func(ctx context.Context, prompt string, tier ModelTier) (string, error)
	GenerateWithImagesFunc func(ctx context.Context, prompt string, images []Image, tier ModelTier) (string, error)
	calls                  atomic.Int32
}

func (m *MockLLMClient) GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	m.calls.Add(1)
	if m.GenerateContentFunc != nil {
		return m.GenerateContentFunc(ctx, prompt, tier)
	}
	return "", nil
}

func (m *MockLLMClient) GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	return m.GenerateContent(ctx, prompt, tier)
}

func (m *MockLLMClient) GenerateWithImages(ctx context.Context, prompt string, images []Image, tier ModelTier) (string, error) {
	m.calls.Add(1)
	if m.GenerateWithImagesFunc != nil {
		return m.GenerateWithImagesFunc(ctx, prompt, images, tier)
	}
	return "", nil
}

func (m *MockLLMClient) GetModel(tier ModelTier) string { return "mock-model" }
func (m *MockLLMClient) Provider() Provider            { return "mock" }
func (m *MockLLMClient) Close() error                  { return nil }

func fastGuardOptions() GuardOptions {
	opts := DefaultGuardOptions()
	opts.InitialBackoff = time.Millisecond
	opts.RequestsPerSecond = 0
	opts.Breaker.Enabled = false
	return opts
}

func TestGuardedClient_RetriesTransientErrors(t *testing.T) {
	var attempts int32
	mock := &MockLLMClient{
		GenerateContentFunc: func(ctx context.Context, prompt string, tier ModelTier) (string, error) {
			if atomic.AddInt32(&attempts, 1) < 3 {
				return "", &APIError{Provider: "mock", StatusCode: 503, Message: "overloaded"}
			}
			return "ok", nil
		},
	}

	client := NewGuardedClient(mock, fastGuardOptions())
	out, err := client.GenerateContent(context.Background(), "p", TierText)
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.Equal(t, int32(3), mock.calls.Load())
}

func TestGuardedClient_GivesUpAfterMaxRetries(t *testing.T) {
	mock := &MockLLMClient{
		GenerateContentFunc: func(ctx context.Context, prompt string, tier ModelTier) (string, error) {
			return "", &APIError{Provider: "mock", StatusCode: 500}
		},
	}

	opts := fastGuardOptions()
	opts.MaxRetries = 1
	_, err := NewGuardedClient(mock, opts).GenerateJSON(context.Background(), "p", TierText)
	require.Error(t, err)
	assert.Equal(t, int32(2), mock.calls.Load())
}

func TestGuardedClient_DoesNotRetryPermanentErrors(t *testing.T) {
	mock := &MockLLMClient{
		GenerateContentFunc: func(ctx context.Context, prompt string, tier ModelTier) (string, error) {
			return "", errors.New("invalid argument")
		},
	}

	_, err := NewGuardedClient(mock, fastGuardOptions()).GenerateContent(context.Background(), "p", TierText)
	require.Error(t, err)
	assert.Equal(t, int32(1), mock.calls.Load())
}

func TestGuardedClient_AppliesPerCallTimeout(t *testing.T) {
	mock := &MockLLMClient{
		GenerateWithImagesFunc: func(ctx context.Context, prompt string, images []Image, tier ModelTier) (string, error) {
			<-ctx.Done()
			return "", ctx.Err()
		},
	}

	opts := fastGuardOptions()
	opts.Timeout = 20 * time.Millisecond
	opts.MaxRetries = 0

	start := time.Now()
	_, err := NewGuardedClient(mock, opts).GenerateWithImages(context.Background(), "p", nil, TierVision)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestGuardedClient_StopsOnCallerCancel(t *testing.T) {
	mock := &MockLLMClient{
		GenerateContentFunc: func(ctx context.Context, prompt string, tier ModelTier) (string, error) {
			return "", &APIError{Provider: "mock", StatusCode: 503}
		},
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewGuardedClient(mock, fastGuardOptions()).GenerateContent(ctx, "p", TierText)
	require.Error(t, err)
	assert.Equal(t, int32(1), mock.calls.Load())
}

func TestGuardedClient_BreakerOpens(t *testing.T) {
	mock := &MockLLMClient{
		GenerateContentFunc: func(ctx context.Context, prompt string, tier ModelTier) (string, error) {
			return "", errors.New("invalid argument")
		},
	}

	opts := fastGuardOptions()
	opts.MaxRetries = 0
	opts.Breaker = BreakerSettings{Enabled: true, MinRequests: 2, FailureRatio: 0.5, OpenTimeout: time.Minute, HalfOpenRequests: 1}
	client := NewGuardedClient(mock, opts)

	for i := 0; i < 2; i++ {
		_, err := client.GenerateContent(context.Background(), "p", TierText)
		require.Error(t, err)
	}

	_, err := client.GenerateContent(context.Background(), "p", TierText)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, int32(2), mock.calls.Load())
}

func TestGuardedClient_Delegates(t *testing.T) {
	mock := &MockLLMClient{}
	client := NewGuardedClient(mock, DefaultGuardOptions())
	assert.Equal(t, Provider("mock"), client.Provider())
	assert.Equal(t, "mock-model", client.GetModel(TierText))
	assert.NoError(t, client.Close())
}
