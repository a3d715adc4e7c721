package ledger

import (
	"context"
	"fmt"
)

// GenesisPrevFingerprint is the previous-fingerprint sentinel of the first block.
const GenesisPrevFingerprint = "0"

// Block is a single ledger entry. Its fingerprint covers every other field,
// so any change made after mining is visible to Chain.Verify.
type Block[T any] struct {
	Index           int    `json:"index"`
	Timestamp       int64  `json:"timestamp"`
	Payload         T      `json:"payload"`
	PrevFingerprint string `json:"previous_fingerprint"`
	Nonce           uint64 `json:"nonce"`
	Fingerprint     string `json:"fingerprint"`

	scheme Scheme
}

// NewBlock creates a block with nonce 0 and its initial fingerprint. The
// previous fingerprint is normally set by Chain.Append; prevFingerprint can
// optionally override it.
func NewBlock[T any](index int, timestamp int64, payload T, prevFingerprint ...string) (*Block[T], error) {
	if index < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidIndex, index)
	}
	b := &Block[T]{
		Index:     index,
		Timestamp: timestamp,
		Payload:   payload,
	}
	if len(prevFingerprint) > 0 {
		b.PrevFingerprint = prevFingerprint[0]
	}
	fp, err := b.ComputeFingerprint()
	if err != nil {
		return nil, err
	}
	b.Fingerprint = fp
	return b, nil
}

// Scheme returns the hash function and codec the block is fingerprinted with.
func (b *Block[T]) Scheme() Scheme {
	return Scheme{Hasher: b.scheme.hasher(), Codec: b.scheme.codec()}
}

// content is the canonical pre-image without the nonce.
func (b *Block[T]) content() ([]byte, error) {
	payload, err := b.scheme.codec().Marshal(b.Payload)
	if err != nil {
		return nil, fmt.Errorf("%w: block %d: %w", ErrEncodePayload, b.Index, err)
	}
	return fmt.Appendf(nil, "%d%d%s%s", b.Index, b.Timestamp, payload, b.PrevFingerprint), nil
}

// ComputeFingerprint derives the fingerprint from the current field values.
// It does not modify the block.
func (b *Block[T]) ComputeFingerprint() (string, error) {
	content, err := b.content()
	if err != nil {
		return "", err
	}
	return b.scheme.Digest(content, b.Nonce), nil
}

// Mine searches upwards from the current nonce until the fingerprint has
// difficulty leading zeros, using DefaultMiner. Nonce and fingerprint are
// only updated once the search succeeds.
func (b *Block[T]) Mine(ctx context.Context, difficulty int) error {
	return b.mine(ctx, DefaultMiner, difficulty)
}

func (b *Block[T]) mine(ctx context.Context, m *Miner, difficulty int) error {
	seal, err := b.search(ctx, m, difficulty)
	if err != nil {
		return err
	}
	b.applySeal(m, seal)
	return nil
}

// search finds a seal for the current field values without modifying the block.
func (b *Block[T]) search(ctx context.Context, m *Miner, difficulty int) (Seal, error) {
	content, err := b.content()
	if err != nil {
		return Seal{}, err
	}
	seal, err := m.Search(ctx, b.scheme, content, b.Nonce, difficulty)
	if err != nil {
		return Seal{}, fmt.Errorf("mining block %d: %w", b.Index, err)
	}
	return seal, nil
}

func (b *Block[T]) applySeal(m *Miner, seal Seal) {
	b.Nonce, b.Fingerprint = seal.Nonce, seal.Fingerprint

	m.logger().Info("block mined",
		"index", b.Index,
		"nonce", b.Nonce,
		"fingerprint", b.Fingerprint,
	)
}
