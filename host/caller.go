package host

import (
	"context"
	"encoding/hex"
	"sync"
)

// ContractCaller executes ethereum.call for a contract address. ok is false
// when the call produced no result, which the guest sees as null. An empty,
// non-absent result is returned as ok with no items.
type ContractCaller interface {
	Call(ctx context.Context, address []byte) (result [][]byte, ok bool, err error)
}

// ContractCallerFunc adapts a function to ContractCaller.
type ContractCallerFunc func(ctx context.Context, address []byte) ([][]byte, bool, error)

// Call implements ContractCaller.
func (f ContractCallerFunc) Call(ctx context.Context, address []byte) ([][]byte, bool, error) {
	return f(ctx, address)
}

// StaticCaller answers calls from a fixed table keyed by address. Unknown
// addresses have no result. It is safe for concurrent use.
type StaticCaller struct {
	mu      sync.RWMutex
	results map[string][][]byte
}

// NewStaticCaller creates an empty table.
func NewStaticCaller() *StaticCaller {
	return &StaticCaller{results: make(map[string][][]byte)}
}

// Set registers the result for address. A nil or empty result is an empty
// array, not an absent one.
func (s *StaticCaller) Set(address []byte, result [][]byte) {
	items := make([][]byte, len(result))
	for i, r := range result {
		items[i] = append([]byte(nil), r...)
	}
	s.mu.Lock()
	s.results[hex.EncodeToString(address)] = items
	s.mu.Unlock()
}

// Call implements ContractCaller.
func (s *StaticCaller) Call(_ context.Context, address []byte) ([][]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.results[hex.EncodeToString(address)]
	return r, ok, nil
}
