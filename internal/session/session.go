// Package session stores the skills and interests a conversation has
// accumulated so far, keyed by the NLU session identifier.
package session

import (
	"context"
	"time"

	"github.com/jonathan/career-recommender/internal/types"
)

// DefaultTTL is how long an idle conversation keeps its context.
const DefaultTTL = 30 * time.Minute

// Store persists conversation context between webhook calls.
type Store interface {
	// Load returns the stored context, or nil when the session is unknown or expired.
	Load(ctx context.Context, sessionID string) (*types.ConversationContext, error)
	Save(ctx context.Context, sessionID string, conv *types.ConversationContext, ttl time.Duration) error
}
