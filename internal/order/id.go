package order

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDGenerator issues order identifiers.
type IDGenerator interface {
	NewID() (string, error)
}

var _ IDGenerator = UUIDGenerator{}
var _ IDGenerator = (*SequenceGenerator)(nil)

// UUIDGenerator issues time-ordered ids of the form order_<uuid v7>.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("failed to generate order id: %w", err)
	}
	return "order_" + id.String(), nil
}

// SequenceGenerator issues order_1, order_2 and so on.
type SequenceGenerator struct {
	n atomic.Int64
}

func (g *SequenceGenerator) NewID() (string, error) {
	return fmt.Sprintf("order_%d", g.n.Add(1)), nil
}
