package middleware

import (
	"encoding/json"
	"math/rand"
	"net/http"
	"sync"
	"time"
)

// OpKind distinguishes read from write operations for failure-rate purposes.
type OpKind int

const (
	OpRead OpKind = iota
	OpWrite
)

// Policy decides the artificial latency and failure behavior of the simulated
// backend. Implementations must be safe for concurrent use.
type Policy interface {
	Delay() time.Duration
	MaybeFail(kind OpKind) bool
}

// RandomPolicy models an unreliable remote service: uniform latency in
// [MinLatency, MaxLatency) and a per-kind failure probability.
type RandomPolicy struct {
	MinLatency     time.Duration
	MaxLatency     time.Duration
	ReadErrorRate  float64
	WriteErrorRate float64

	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomPolicy builds a policy with the given rng seed; seed 0 draws one
// from the clock.
func NewRandomPolicy(minLatency, maxLatency time.Duration, readRate, writeRate float64, seed int64) *RandomPolicy {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &RandomPolicy{
		MinLatency:     minLatency,
		MaxLatency:     maxLatency,
		ReadErrorRate:  readRate,
		WriteErrorRate: writeRate,
		rng:            rand.New(rand.NewSource(seed)),
	}
}

func (p *RandomPolicy) Delay() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.MaxLatency <= p.MinLatency {
		return p.MinLatency
	}
	return p.MinLatency + time.Duration(p.rng.Int63n(int64(p.MaxLatency-p.MinLatency)))
}

func (p *RandomPolicy) MaybeFail(kind OpKind) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	rate := p.ReadErrorRate
	if kind == OpWrite {
		rate = p.WriteErrorRate
	}
	return p.rng.Float64() < rate
}

// NopPolicy disables simulation entirely: zero delay, no failures. Used in
// tests and when simulate.enabled is false.
type NopPolicy struct{}

func (NopPolicy) Delay() time.Duration  { return 0 }
func (NopPolicy) MaybeFail(OpKind) bool { return false }

// Faults wraps a handler with the simulated-backend behavior: sleep the
// policy's delay, then either short-circuit with a generic server error or
// dispatch. Failures are injected strictly before dispatch, so a failed
// request is guaranteed to have mutated nothing. The sleep observes the
// request context; an abandoned request stops before dispatch.
func Faults(p Policy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if d := p.Delay(); d > 0 {
				t := time.NewTimer(d)
				defer t.Stop()
				select {
				case <-t.C:
				case <-r.Context().Done():
					return
				}
			}
			kind := OpWrite
			if r.Method == http.MethodGet || r.Method == http.MethodHead {
				kind = OpRead
			}
			if p.MaybeFail(kind) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "Server error"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
