package core

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// RowFingerprint identifies a row by the content of every cell
type RowFingerprint Hash

func NewRowFingerprint(data []byte) RowFingerprint { return RowFingerprint(NewHash(data)) }

func (h RowFingerprint) String() string { return Hash(h).String() }
