package ledger

import (
	"crypto/sha256"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"go.dedis.ch/kyber/v4/suites"
	"golang.org/x/crypto/blake2b"
	"lukechampine.com/blake3"
)

// DigestSize is the length in bytes of every fingerprint digest.
const DigestSize = 32

// Hasher turns a block pre-image into a 256-bit digest.
// Implementations must be safe for concurrent use.
type Hasher interface {
	Name() string
	Sum(data []byte) []byte
}

// Registered hashers. BLAKE2Xb reads 32 bytes from kyber's Ed25519 suite XOF.
var (
	SHA256       Hasher = sha256Hasher{}
	DoubleSHA256 Hasher = doubleSHA256Hasher{}
	BLAKE2b      Hasher = blake2bHasher{}
	BLAKE3       Hasher = blake3Hasher{}
	BLAKE2Xb     Hasher = xofHasher{suite: suites.MustFind("Ed25519")}
)

var hashers = map[string]Hasher{
	SHA256.Name():       SHA256,
	DoubleSHA256.Name(): DoubleSHA256,
	BLAKE2b.Name():      BLAKE2b,
	BLAKE3.Name():       BLAKE3,
	BLAKE2Xb.Name():     BLAKE2Xb,
}

// HasherByName resolves one of "sha256", "sha256d", "blake2b", "blake3" or "blake2xb".
func HasherByName(name string) (Hasher, error) {
	h, ok := hashers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownHasher, name)
	}
	return h, nil
}

type sha256Hasher struct{}

func (sha256Hasher) Name() string { return "sha256" }

func (sha256Hasher) Sum(data []byte) []byte {
	sum := sha256.Sum256(data)
	return sum[:]
}

type doubleSHA256Hasher struct{}

func (doubleSHA256Hasher) Name() string { return "sha256d" }

func (doubleSHA256Hasher) Sum(data []byte) []byte {
	return chainhash.DoubleHashB(data)
}

type blake2bHasher struct{}

func (blake2bHasher) Name() string { return "blake2b" }

func (blake2bHasher) Sum(data []byte) []byte {
	sum := blake2b.Sum256(data)
	return sum[:]
}

type blake3Hasher struct{}

func (blake3Hasher) Name() string { return "blake3" }

func (blake3Hasher) Sum(data []byte) []byte {
	sum := blake3.Sum256(data)
	return sum[:]
}

// xofHasher reads DigestSize bytes from the suite's extendable output function
// seeded with the pre-image.
type xofHasher struct {
	suite suites.Suite
}

func (xofHasher) Name() string { return "blake2xb" }

func (h xofHasher) Sum(data []byte) []byte {
	out := make([]byte, DigestSize)
	xof := h.suite.XOF(data)
	if _, err := xof.Read(out); err != nil {
		// blake2xb only fails once its output limit is exceeded
		panic(fmt.Sprintf("xof read: %v", err))
	}
	return out
}
