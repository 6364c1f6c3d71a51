// Package accounts persists registered accounts.
package accounts

import (
	"context"

	"github.com/dmitrijs2005/walletvault/internal/server/models"
)

type Repository interface {
	// Create inserts a new account and returns it with its assigned ID.
	// A username or master-key clash yields common.ErrorConflict.
	Create(ctx context.Context, account *models.Account) (*models.Account, error)

	// GetByUserName returns the account or common.ErrorNotFound.
	GetByUserName(ctx context.Context, userName string) (*models.Account, error)

	// Exists reports whether an account with the given username is stored.
	Exists(ctx context.Context, userName string) (bool, error)
}
