// Package repository defines the storage interfaces consumed by the
// service layer. The sqlite subpackage provides the real implementation;
// tests substitute in-memory mocks.
package repository

import (
	"context"

	"github.com/sakif/washday/internal/achievement"
	"github.com/sakif/washday/internal/model"
)

type UserRepository interface {
	// CreateUser is named distinctly from ItemRepository.Create so one
	// store can implement both interfaces.
	CreateUser(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	// GetByUsername returns apperror.ErrNotFound if no such user exists.
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	// GetByEmail ignores users with blank emails.
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

// ItemRepository stores items and their achievements.
//
// Every owned operation takes both the item ID and the acting user's ID
// and matches on the pair, so an item belonging to someone else is
// indistinguishable from one that doesn't exist (a single "not found"
// outcome — existence is never leaked across owners).
type ItemRepository interface {
	Create(ctx context.Context, item *model.Item) error
	// GetOwned returns the item with achievements attached.
	GetOwned(ctx context.Context, itemID, userID string) (*model.Item, error)
	// ListByOwner returns the user's items, newest first, with achievements.
	ListByOwner(ctx context.Context, userID string) ([]model.Item, error)
	// ListAll returns every item across all users, newest first, with
	// achievements and owner summaries attached. Backs the public leaderboard.
	ListAll(ctx context.Context) ([]model.Item, error)
	// RecordWash atomically increments the item's wash counter and grants
	// any badges the new count has earned, in a single transaction.
	// It returns the updated item and the badges newly unlocked by this wash.
	RecordWash(ctx context.Context, itemID, userID string) (*model.Item, []achievement.Badge, error)
	// Retire marks the item retired. Idempotent: retiring an already
	// retired item leaves its retirement timestamp unchanged.
	Retire(ctx context.Context, itemID, userID string) (*model.Item, error)
	// Delete removes the item; its achievements go with it (cascade).
	Delete(ctx context.Context, itemID, userID string) error
}
