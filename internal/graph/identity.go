package graph

import (
	"context"
)

// DefaultUserID is the caller used when a request carries no identity.
const DefaultUserID = "user1"

type userIDKey struct{}

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

// UserID returns the caller of the request, DefaultUserID when none was set.
func UserID(ctx context.Context) string {
	userID, ok := ctx.Value(userIDKey{}).(string)
	if !ok || userID == "" {
		return DefaultUserID
	}
	return userID
}
