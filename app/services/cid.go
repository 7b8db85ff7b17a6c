package services

import (
	"crypto/rand"
	"encoding/base32"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/blake2b"
)

// syntheticCIDPrefix mimics the multibase prefix of a CIDv1 (dag-pb, base32)
const syntheticCIDPrefix = "bafy"

var cidEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// DigestCID derives a CID-looking identifier from data. It is not a real IPFS content address.
func DigestCID(parts ...[]byte) string {
	h, _ := blake2b.New256(nil)
	for _, p := range parts {
		h.Write(p)
		h.Write([]byte{0})
	}
	return syntheticCIDPrefix + strings.ToLower(cidEncoding.EncodeToString(h.Sum(nil)))
}

// NewSyntheticCID returns a fresh identifier for seed mixed with the current time and random bytes.
// Two calls with the same seed never return the same value.
func NewSyntheticCID(seed ...string) string {
	nonce := make([]byte, 16)
	_, _ = rand.Read(nonce)

	parts := make([][]byte, 0, len(seed)+2)
	for _, s := range seed {
		parts = append(parts, []byte(s))
	}
	parts = append(parts, []byte(strconv.FormatInt(time.Now().UnixNano(), 10)), nonce)
	return DigestCID(parts...)
}
