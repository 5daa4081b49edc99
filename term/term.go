// Package term implements the content-addressed term store: the hash-consed
// directed acyclic graph of terms that every rule rewrite reads from and
// writes into.
package term

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
)

// ID is an opaque, stable, content-derived identifier. Two terms with
// identical (symbol, scale, children) always produce the same ID.
type ID string

// Term is an immutable node: a symbol, a scale, and an ordered list of
// child IDs. Terms never mutate once inserted into a Store.
type Term struct {
	Symbol   string
	Scale    int
	Children []ID
}

// ErrNegativeScale is returned when a term is constructed with a negative scale.
var ErrNegativeScale = errors.New("term: scale must be non-negative")

// ErrTermLimitExceeded is returned by Insert when MaxTerms would be exceeded
// by a genuinely new insertion. The store refuses the insertion but does not
// panic; callers must check for this sentinel.
var ErrTermLimitExceeded = errors.New("term: store term limit exceeded")

// Validator is consulted on every insertion when non-nil. It is satisfied by
// *sig.Validator without this package importing sig, keeping the store's only
// dependency on the validator a narrow interface.
type Validator interface {
	Validate(symbol string, scale int, numChildren int) error
}

// computeID derives the canonical content ID for a term. The encoding is a
// length-prefixed concatenation of symbol bytes, scale (big-endian int64),
// and child IDs in order, hashed with SHA-256 and hex-encoded. This mirrors
// the digest-over-canonical-encoding discipline used elsewhere in this
// codebase for idempotency and ordering keys.
func computeID(symbol string, scale int, children []ID) ID {
	h := sha256.New()

	symLen := make([]byte, 8)
	binary.BigEndian.PutUint64(symLen, uint64(len(symbol)))
	h.Write(symLen)
	h.Write([]byte(symbol))

	scaleBytes := make([]byte, 8)
	binary.BigEndian.PutUint64(scaleBytes, uint64(int64(scale)))
	h.Write(scaleBytes)

	childCount := make([]byte, 8)
	binary.BigEndian.PutUint64(childCount, uint64(len(children)))
	h.Write(childCount)
	for _, c := range children {
		cLen := make([]byte, 8)
		binary.BigEndian.PutUint64(cLen, uint64(len(c)))
		h.Write(cLen)
		h.Write([]byte(c))
	}

	return ID(hex.EncodeToString(h.Sum(nil)))
}

// F names the expansion symbol produced by the built-in expand action:
// F(sym).
func F(sym string) string {
	return "F(" + sym + ")"
}

// UnF extracts x from a symbol of the form F(x). The second return value is
// false if sym is not of that shape.
func UnF(sym string) (string, bool) {
	if len(sym) < 3 || sym[:2] != "F(" || sym[len(sym)-1] != ')' {
		return "", false
	}
	return sym[2 : len(sym)-1], true
}

// Motif names the Nth self-similar child motif synthesized by an expand
// action for the given base symbol.
func Motif(sym string, n int) string {
	return fmt.Sprintf("%s.%d", sym, n)
}
