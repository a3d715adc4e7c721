// Package ledger implements an in-memory proof-of-work ledger: a linear
// sequence of hash-linked blocks and a verifier that detects tampering.
//
// # Core Components
//
// Block: A single entry holding an opaque payload, the fingerprint of its
// predecessor, a nonce and its own fingerprint.
//
// Chain: An append-only sequence of blocks starting at a genesis block. New
// blocks are linked to the tip, mined at the chain difficulty and stored.
//
// Miner: The nonce search. It is a pure function of the block content and
// can be cancelled through its context or capped with MaxAttempts.
//
// # Fingerprints
//
// A fingerprint is the lowercase hex digest of
//
//	index || timestamp || encode(payload) || previousFingerprint || nonce
//
// where numbers are written in decimal. The hash function and the payload
// encoding are chosen per chain (see Scheme); the default is SHA-256 over JSON.
//
// # Integrity
//
// Verify re-derives the fingerprint of every block after genesis and checks
// that each block points at the fingerprint actually stored on its
// predecessor. Changing any field of a stored block without re-mining it, or
// reordering blocks, makes the chain invalid.
package ledger
