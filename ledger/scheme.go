package ledger

import (
	"encoding/hex"
	"strconv"
)

// Scheme is the pair of hash function and payload codec a block is
// fingerprinted with. The zero Scheme is SHA-256 over JSON.
type Scheme struct {
	Hasher Hasher
	Codec  Codec
}

// DefaultScheme fingerprints with SHA-256 over the JSON encoding of the payload.
var DefaultScheme = Scheme{Hasher: SHA256, Codec: JSON}

func (s Scheme) hasher() Hasher {
	if s.Hasher == nil {
		return SHA256
	}
	return s.Hasher
}

func (s Scheme) codec() Codec {
	if s.Codec == nil {
		return JSON
	}
	return s.Codec
}

// Digest hashes content followed by the decimal nonce and returns lowercase hex.
func (s Scheme) Digest(content []byte, nonce uint64) string {
	buf := make([]byte, len(content), len(content)+20)
	copy(buf, content)
	return s.digestInto(buf, len(content), nonce)
}

// digestInto reuses buf, whose first n bytes hold the content.
func (s Scheme) digestInto(buf []byte, n int, nonce uint64) string {
	buf = strconv.AppendUint(buf[:n], nonce, 10)
	return hex.EncodeToString(s.hasher().Sum(buf))
}
