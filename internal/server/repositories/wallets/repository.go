// Package wallets persists encrypted wallet records.
package wallets

import (
	"context"

	"github.com/dmitrijs2005/walletvault/internal/server/models"
)

type Repository interface {
	// Create inserts a new wallet row and returns it with its assigned ID.
	Create(ctx context.Context, wallet *models.Wallet) (*models.Wallet, error)

	// ListByKeyPrefix returns every wallet stored under the given clear-text
	// key prefix, in a single consistent read.
	ListByKeyPrefix(ctx context.Context, keyPrefix string) ([]*models.Wallet, error)
}
