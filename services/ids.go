package services

import (
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

// TempIDPrefix marks identifiers that were never persisted.
const TempIDPrefix = "temp-"

// IDProvider hands out temporary identifiers for draft items.
type IDProvider interface {
	NewID() string
}

// UUIDProvider issues "temp-<uuid>" identifiers.
type UUIDProvider struct{}

func (UUIDProvider) NewID() string {
	return TempIDPrefix + uuid.NewString()
}

// CounterProvider issues "temp-1", "temp-2", ... in order.
type CounterProvider struct {
	n atomic.Uint64
}

func (p *CounterProvider) NewID() string {
	return TempIDPrefix + strconv.FormatUint(p.n.Add(1), 10)
}
