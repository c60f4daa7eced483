// Package fulfillment generates the one-time delivery codes attached to
// completed order items.
package fulfillment

import (
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/bits-and-blooms/bloom/v3"

	"github.com/sadiqstore/storefront/internal/domain/order"
)

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Generator issues delivery codes in XXXX-XXXX-XXXX-XXXX form. A bloom filter
// over previously issued codes keeps collisions within a process to a
// vanishing probability; on a (false) positive the generator simply draws
// again.
type Generator struct {
	mu     sync.Mutex
	issued *bloom.BloomFilter
}

var _ order.Fulfiller = (*Generator)(nil)

// NewGenerator returns a Generator sized for a million issued codes.
func NewGenerator() *Generator {
	return &Generator{
		issued: bloom.NewWithEstimates(1_000_000, 1e-6),
	}
}

// Code returns a fresh delivery code, never one issued before by this
// generator.
func (g *Generator) Code() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	for {
		code := randomCode()
		if g.issued.TestString(code) {
			continue
		}
		g.issued.AddString(code)
		return code
	}
}

// Fulfill attaches a code and delivery timestamp to every item that does not
// already carry one. Items fulfilled by an earlier completion keep their
// original code.
func (g *Generator) Fulfill(items []order.Item, now time.Time) error {
	for i := range items {
		if items[i].Code != "" {
			continue
		}
		ts := now
		items[i].Code = g.Code()
		items[i].DeliveredAt = &ts
	}
	return nil
}

func randomCode() string {
	var b strings.Builder
	b.Grow(19)
	for group := 0; group < 4; group++ {
		if group > 0 {
			b.WriteByte('-')
		}
		for i := 0; i < 4; i++ {
			b.WriteByte(codeAlphabet[rand.IntN(len(codeAlphabet))])
		}
	}
	return b.String()
}
