package storage

import (
	"crypto/md5"
	"fmt"
	"strings"

	"trendlens-go/pkg/trends"
)

// PayloadHasher derives consistent cache keys from fetch payloads.
type PayloadHasher struct{}

// NewPayloadHasher creates a new payload hasher instance.
func NewPayloadHasher() *PayloadHasher {
	return &PayloadHasher{}
}

// FetchKey generates a stable key for one kind of fetch against one
// payload. Keyword order is significant: payloads are ordered lists.
func (h *PayloadHasher) FetchKey(kind string, payload trends.Payload) string {
	raw := strings.Join([]string{
		kind,
		strings.Join(payload.Keywords, "\x1f"),
		payload.Timeframe,
		payload.Geo,
		string(payload.Resolution),
	}, "\x1e")

	hash := md5.Sum([]byte(raw))
	return fmt.Sprintf("%s:%x", kind, hash)
}

var globalHasher = NewPayloadHasher()

// FetchKey is a convenience function using the global hasher.
func FetchKey(kind string, payload trends.Payload) string {
	return globalHasher.FetchKey(kind, payload)
}
