package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"sync"
	"sync/atomic"
)

// ctxCheckInterval is how many nonces a worker tries between context checks.
const ctxCheckInterval = 1 << 12

// Seal is the outcome of a successful nonce search.
type Seal struct {
	Nonce       uint64
	Fingerprint string
}

// Miner searches the nonce space for a fingerprint with enough leading zeros.
//
// With Workers > 1 the nonce space is split by stride across goroutines. The
// smallest satisfying nonce always wins, so the result does not depend on the
// number of workers. MaxAttempts == 0 means the search is unbounded.
type Miner struct {
	Workers     int
	MaxAttempts uint64
	Logger      *slog.Logger
}

// DefaultMiner is a single-worker, unbounded miner logging to slog.Default().
var DefaultMiner = &Miner{Workers: 1}

func (m *Miner) workers() int {
	if m == nil || m.Workers < 1 {
		return 1
	}
	return m.Workers
}

func (m *Miner) logger() *slog.Logger {
	if m == nil || m.Logger == nil {
		return slog.Default()
	}
	return m.Logger
}

// MeetsDifficulty reports whether the first difficulty characters of the
// fingerprint are all '0'. A negative difficulty is never met.
func MeetsDifficulty(fingerprint string, difficulty int) bool {
	if difficulty < 0 || difficulty > len(fingerprint) {
		return false
	}
	return strings.Count(fingerprint[:difficulty], "0") == difficulty
}

func checkDifficulty(difficulty int) error {
	if difficulty < 0 || difficulty > 2*DigestSize {
		return fmt.Errorf("%w: %d (want 0..%d)", ErrInvalidDifficulty, difficulty, 2*DigestSize)
	}
	return nil
}

// SearchNonce runs DefaultMiner.Search.
func SearchNonce(ctx context.Context, s Scheme, content []byte, start uint64, difficulty int) (Seal, error) {
	return DefaultMiner.Search(ctx, s, content, start, difficulty)
}

// Search returns the smallest nonce >= start whose fingerprint over content
// meets difficulty. It does not touch any block.
func (m *Miner) Search(ctx context.Context, s Scheme, content []byte, start uint64, difficulty int) (Seal, error) {
	if err := checkDifficulty(difficulty); err != nil {
		return Seal{}, err
	}
	if difficulty == 0 {
		return Seal{Nonce: start, Fingerprint: s.Digest(content, start)}, nil
	}

	var (
		best        atomic.Uint64
		found       atomic.Bool
		interrupted atomic.Bool
		wg          sync.WaitGroup
	)
	best.Store(math.MaxUint64)

	workers := m.workers()
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(offset uint64) {
			defer wg.Done()
			m.scan(ctx, s, content, start, offset, uint64(workers), difficulty, &best, &found, &interrupted)
		}(uint64(w))
	}
	wg.Wait()

	if interrupted.Load() {
		return Seal{}, fmt.Errorf("%w: %w", ErrMiningInterrupted, ctx.Err())
	}
	if !found.Load() {
		return Seal{}, fmt.Errorf("%w after %d attempts from nonce %d", ErrNonceExhausted, m.attempts(), start)
	}
	nonce := best.Load()
	return Seal{Nonce: nonce, Fingerprint: s.Digest(content, nonce)}, nil
}

func (m *Miner) attempts() uint64 {
	if m == nil {
		return 0
	}
	return m.MaxAttempts
}

func (m *Miner) scan(ctx context.Context, s Scheme, content []byte, start, offset, step uint64, difficulty int, best *atomic.Uint64, found, interrupted *atomic.Bool) {
	if offset > math.MaxUint64-start {
		return
	}
	buf := make([]byte, len(content), len(content)+20)
	copy(buf, content)
	limit := m.attempts()

	for n, i := start+offset, 0; ; n, i = n+step, i+1 {
		if found.Load() && n > best.Load() {
			return
		}
		if limit > 0 && n-start >= limit {
			return
		}
		if i%ctxCheckInterval == 0 && ctx.Err() != nil {
			interrupted.Store(true)
			return
		}
		if MeetsDifficulty(s.digestInto(buf, len(content), n), difficulty) {
			for {
				cur := best.Load()
				if n >= cur || best.CompareAndSwap(cur, n) {
					break
				}
			}
			found.Store(true)
			return
		}
		if n > math.MaxUint64-step {
			return
		}
	}
}
