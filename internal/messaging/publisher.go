package messaging

import (
	"context"

	"github.com/chainscore-labs/tier-oracle/internal/domain"
)

// Publisher defines the interface for publishing tier transitions to a message queue
//
//go:generate mockgen -source=publisher.go -destination=../mocks/publisher.go -package=mocks -mock_names=Publisher=MockPublisher
type Publisher interface {
	// PublishTransition publishes a wallet tier transition to the message broker
	PublishTransition(ctx context.Context, delta *domain.TierDelta) error
	// Close closes the connection
	Close()
}
