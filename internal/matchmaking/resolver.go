package matchmaking

import "context"

// ResolvedProfile is what the identity system owns about a user; the engine
// only consumes it to admit a join.
type ResolvedProfile struct {
	UserID  int64
	Active  bool
	Premium bool
}

// ProfileResolver is the upstream identity/profile collaborator. A lookup
// failure rejects the join instead of admitting partial data.
type ProfileResolver interface {
	Resolve(ctx context.Context, userID int64) (*ResolvedProfile, error)
}

// mockProfileResolver admits every user. Used in development mode when no
// profile service is configured.
type mockProfileResolver struct{}

// NewMockProfileResolver creates a resolver that treats every user as an
// active, non-premium account.
func NewMockProfileResolver() ProfileResolver {
	return &mockProfileResolver{}
}

func (m *mockProfileResolver) Resolve(ctx context.Context, userID int64) (*ResolvedProfile, error) {
	return &ResolvedProfile{UserID: userID, Active: true}, nil
}
