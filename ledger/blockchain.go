package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
)

// Chain is an append-only sequence of proof-of-work blocks.
// It is safe for concurrent use: mining runs outside the lock and only the
// final store is serialised.
type Chain[T any] struct {
	mu     sync.RWMutex // Protects blocks
	blocks []*Block[T]

	difficulty int
	scheme     Scheme
	miner      *Miner
	logger     *slog.Logger
	clock      func() int64
}

// Snapshot is a point-in-time copy of a chain for inspection. It cannot be
// loaded back into a Chain.
type Snapshot[T any] struct {
	Blocks     []Block[T] `json:"chain"`
	Difficulty int        `json:"difficulty"`
	Hasher     string     `json:"hasher"`
	Codec      string     `json:"codec"`
}

// NewChain creates a chain whose genesis block carries the zero value of T.
func NewChain[T any](difficulty int, opts ...Option) (*Chain[T], error) {
	var genesis T
	return NewChainWithGenesis(difficulty, genesis, opts...)
}

// NewChainWithGenesis creates a chain holding a single genesis block.
//
// The genesis block:
//   - has index 0 and previous fingerprint "0"
//   - carries the given placeholder payload
//   - is not mined unless WithGenesisMining is set
//   - is never re-validated by Verify
func NewChainWithGenesis[T any](difficulty int, genesis T, opts ...Option) (*Chain[T], error) {
	if err := checkDifficulty(difficulty); err != nil {
		return nil, err
	}
	o := defaultOptions()
	for _, opt := range opts {
		o = opt(o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.miner.Logger == nil {
		o.miner.Logger = o.logger
	}

	c := &Chain[T]{
		difficulty: difficulty,
		scheme:     o.scheme,
		miner:      &o.miner,
		logger:     o.logger,
		clock:      o.clock,
	}

	block := &Block[T]{
		Index:           0,
		Timestamp:       c.clock(),
		Payload:         genesis,
		PrevFingerprint: GenesisPrevFingerprint,
		scheme:          c.scheme,
	}
	fp, err := block.ComputeFingerprint()
	if err != nil {
		return nil, fmt.Errorf("failed to calculate genesis block fingerprint: %w", err)
	}
	block.Fingerprint = fp
	if o.mineGenesis {
		if err := block.mine(context.Background(), c.miner, difficulty); err != nil {
			return nil, fmt.Errorf("failed to mine genesis block: %w", err)
		}
	}
	c.blocks = []*Block[T]{block}

	c.logger.Debug("chain created",
		"difficulty", difficulty,
		"hasher", c.scheme.hasher().Name(),
		"codec", c.scheme.codec().Name(),
		"genesis", block.Fingerprint,
	)
	return c, nil
}

// Difficulty is the number of leading zero hex characters required of mined blocks.
func (c *Chain[T]) Difficulty() int {
	return c.difficulty
}

// Scheme returns the hash function and codec of the chain.
func (c *Chain[T]) Scheme() Scheme {
	return Scheme{Hasher: c.scheme.hasher(), Codec: c.scheme.codec()}
}

// Len returns the number of blocks, genesis included.
func (c *Chain[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.blocks)
}

// Latest returns the most recently appended block. The chain is never empty.
// The returned block is owned by the chain and must be treated as read-only.
func (c *Chain[T]) Latest() *Block[T] {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.blocks[len(c.blocks)-1]
}

// Block returns the block at position index.
func (c *Chain[T]) Block(index int) (*Block[T], error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if index < 0 || index >= len(c.blocks) {
		return nil, fmt.Errorf("%w: index %d out of range [0, %d)", ErrBlockNotFound, index, len(c.blocks))
	}
	return c.blocks[index], nil
}

// Blocks returns a copy of the block list. The blocks themselves are shared.
func (c *Chain[T]) Blocks() []*Block[T] {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*Block[T], len(c.blocks))
	copy(out, c.blocks)
	return out
}

// Append links candidate to the current tip, mines it at the chain
// difficulty and stores it. See AppendContext.
func (c *Chain[T]) Append(candidate *Block[T]) error {
	return c.AppendContext(context.Background(), candidate)
}

// AppendContext links candidate to the current tip, mines it and stores it.
//
// The candidate's index must be Latest().Index+1. Mining runs without holding
// the chain lock; if another append moves the tip in the meantime the
// candidate is linked to the new tip and mined again, which then usually
// fails the index check. The candidate is only updated once it is stored and
// from then on is owned by the chain. On error it is left as it was.
func (c *Chain[T]) AppendContext(ctx context.Context, candidate *Block[T]) error {
	return c.extend(ctx, candidate, false)
}

// Submit builds the next block for payload, with its index assigned from the
// tip and its timestamp taken from the chain clock, and appends it.
func (c *Chain[T]) Submit(ctx context.Context, payload T) (*Block[T], error) {
	b := &Block[T]{Timestamp: c.clock(), Payload: payload}
	if err := c.extend(ctx, b, true); err != nil {
		return nil, err
	}
	return b, nil
}

func (c *Chain[T]) extend(ctx context.Context, candidate *Block[T], assignIndex bool) error {
	for {
		tip := c.Latest()
		index := candidate.Index
		if assignIndex {
			index = tip.Index + 1
		}
		if index != tip.Index+1 {
			return fmt.Errorf("%w: expected %d, got %d", ErrIndexOutOfSequence, tip.Index+1, index)
		}

		// Mine a linked copy so a failed append leaves candidate untouched.
		linked := *candidate
		linked.Index = index
		linked.PrevFingerprint = tip.Fingerprint
		linked.scheme = c.scheme
		seal, err := linked.search(ctx, c.miner, c.difficulty)
		if err != nil {
			return err
		}

		c.mu.Lock()
		if c.blocks[len(c.blocks)-1] == tip {
			candidate.Index = linked.Index
			candidate.PrevFingerprint = linked.PrevFingerprint
			candidate.scheme = linked.scheme
			candidate.applySeal(c.miner, seal)
			c.blocks = append(c.blocks, candidate)
			c.mu.Unlock()
			return nil
		}
		c.mu.Unlock()

		c.logger.Debug("tip moved while mining, relinking", "index", index)
	}
}

// IsValid reports whether every block after genesis still matches its
// fingerprint and links to its predecessor.
func (c *Chain[T]) IsValid() bool {
	return c.Verify() == nil
}

// Verify scans the chain from index 1 and returns an *InvalidBlockError for
// the first block whose stored fingerprint differs from the recomputed one
// (ErrFingerprintMismatch) or whose previous fingerprint differs from its
// predecessor's fingerprint (ErrBrokenLink). Difficulty is not checked.
func (c *Chain[T]) Verify() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for i := 1; i < len(c.blocks); i++ {
		if err := validateBlock(c.blocks[i], c.blocks[i-1]); err != nil {
			return &InvalidBlockError{Index: i, Err: err}
		}
	}
	return nil
}

func validateBlock[T any](current, previous *Block[T]) error {
	expected, err := current.ComputeFingerprint()
	if err != nil {
		return err
	}
	if current.Fingerprint != expected {
		return fmt.Errorf("%w: stored %s, computed %s", ErrFingerprintMismatch, current.Fingerprint, expected)
	}
	if current.PrevFingerprint != previous.Fingerprint {
		return fmt.Errorf("%w: expected %s, got %s", ErrBrokenLink, previous.Fingerprint, current.PrevFingerprint)
	}
	return nil
}

// Snapshot copies every block under the read lock. The copy is shallow:
// payloads holding slices, maps or pointers still share them with the chain.
func (c *Chain[T]) Snapshot() Snapshot[T] {
	c.mu.RLock()
	defer c.mu.RUnlock()

	blocks := make([]Block[T], len(c.blocks))
	for i, b := range c.blocks {
		blocks[i] = *b
	}
	return Snapshot[T]{
		Blocks:     blocks,
		Difficulty: c.difficulty,
		Hasher:     c.scheme.hasher().Name(),
		Codec:      c.scheme.codec().Name(),
	}
}

// MarshalJSON encodes the chain as its Snapshot.
func (c *Chain[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Snapshot())
}
