package llm

import (
	"context"
	"sort"
	"sync"
	"time"
)

// LatencyStats summarizes the rolling window of recent call latencies.
type LatencyStats struct {
	Calls     int           `json:"calls"`
	Average   time.Duration `json:"average"`
	P95       time.Duration `json:"p95"`
	P99       time.Duration `json:"p99"`
	Breaker   BreakerState  `json:"breaker"`
	Failures  uint64        `json:"failures"`
	Successes uint64        `json:"successes"`
}

const latencyWindow = 100

// ResilientClient wraps a provider with a circuit breaker and rolling
// latency tracking over the last hundred calls. It satisfies
// StreamingProvider; streaming falls back to a blocking Chat when the
// wrapped provider cannot stream.
type ResilientClient struct {
	provider LLMProvider
	breaker  *CircuitBreaker

	mu        sync.Mutex
	latencies []time.Duration
	next      int
	filled    bool
	successes uint64
	failures  uint64
}

func NewResilientClient(provider LLMProvider, threshold int, cooldown time.Duration) *ResilientClient {
	return &ResilientClient{
		provider:  provider,
		breaker:   NewCircuitBreaker(threshold, cooldown),
		latencies: make([]time.Duration, latencyWindow),
	}
}

var _ StreamingProvider = &ResilientClient{}

func (c *ResilientClient) Chat(ctx context.Context, history []Message, opts ...Option) (string, error) {
	if !c.breaker.Allow() {
		return "", ErrCircuitOpen
	}

	start := time.Now()
	out, err := c.provider.Chat(ctx, history, opts...)
	c.record(time.Since(start), err)
	return out, err
}

func (c *ResilientClient) Generate(ctx context.Context, prompt string, opts ...Option) (string, error) {
	return c.Chat(ctx, []Message{{Role: "user", Content: prompt}}, opts...)
}

func (c *ResilientClient) ChatStream(ctx context.Context, history []Message, handler StreamHandler, opts ...Option) (string, error) {
	if !c.breaker.Allow() {
		return "", ErrCircuitOpen
	}

	start := time.Now()
	var out string
	var err error
	if sp, ok := c.provider.(StreamingProvider); ok {
		out, err = sp.ChatStream(ctx, history, handler, opts...)
	} else {
		out, err = c.provider.Chat(ctx, history, opts...)
		if err == nil {
			err = handler(out)
		}
	}
	c.record(time.Since(start), err)
	return out, err
}

// BreakerState exposes the breaker position for health reporting.
func (c *ResilientClient) BreakerState() BreakerState {
	return c.breaker.State()
}

// Stats snapshots the rolling latency window.
func (c *ResilientClient) Stats() LatencyStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := c.next
	if c.filled {
		n = latencyWindow
	}
	stats := LatencyStats{
		Calls:     n,
		Breaker:   c.breaker.State(),
		Successes: c.successes,
		Failures:  c.failures,
	}
	if n == 0 {
		return stats
	}

	window := make([]time.Duration, n)
	copy(window, c.latencies[:n])
	sort.Slice(window, func(i, j int) bool { return window[i] < window[j] })

	var total time.Duration
	for _, d := range window {
		total += d
	}
	stats.Average = total / time.Duration(n)
	stats.P95 = window[percentileIndex(n, 95)]
	stats.P99 = window[percentileIndex(n, 99)]
	return stats
}

func (c *ResilientClient) record(latency time.Duration, err error) {
	if err != nil {
		c.breaker.Failure()
	} else {
		c.breaker.Success()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.failures++
	} else {
		c.successes++
	}

	c.latencies[c.next] = latency
	c.next++
	if c.next == latencyWindow {
		c.next = 0
		c.filled = true
	}
}

func percentileIndex(n, pct int) int {
	idx := n*pct/100 - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= n {
		idx = n - 1
	}
	return idx
}
