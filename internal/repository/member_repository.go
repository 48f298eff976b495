package repository

import (
	"context"

	"clubdirectory/internal/model"
)

// MemberRepository defines member persistence operations.
type MemberRepository interface {
	// List returns the members matching filter, sorted when requested.
	List(ctx context.Context, filter Filter) ([]model.Member, error)
	// Exists reports whether a member with the id is stored.
	Exists(ctx context.Context, id string) (bool, error)
	// Create appends a fully populated member.
	Create(ctx context.Context, member *model.Member) error
	// Update merges patch over the stored member. It returns nil, nil when
	// no member has the id.
	Update(ctx context.Context, id string, patch model.MemberPatch) (*model.Member, error)
	// Delete removes the first member with the id and reports whether one
	// was found.
	Delete(ctx context.Context, id string) (bool, error)
}
