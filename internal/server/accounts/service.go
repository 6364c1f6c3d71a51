// Package accounts implements registration and login on top of the account
// repository.
package accounts

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/walletvault/internal/common"
	"github.com/dmitrijs2005/walletvault/internal/passhash"
	"github.com/dmitrijs2005/walletvault/internal/server/config"
	"github.com/dmitrijs2005/walletvault/internal/server/models"
	accountsrepo "github.com/dmitrijs2005/walletvault/internal/server/repositories/accounts"
)

// masterKeyBytes is the entropy of a generated master key; hex encoding
// doubles it to a 16-character string.
const masterKeyBytes = 8

type Service struct {
	repo       accountsrepo.Repository
	bcryptCost int
}

func NewService(repo accountsrepo.Repository, cfg *config.Config) *Service {
	return &Service{
		repo:       repo,
		bcryptCost: cfg.BcryptCost,
	}
}

// Register creates an account with a fresh random master key. It returns
// false when the username (or, vanishingly rarely, the generated master key)
// is already taken; the store's uniqueness constraint is the single arbiter,
// so two racing registrations can never both succeed.
func (s *Service) Register(ctx context.Context, username, password string) (bool, error) {

	masterKey, err := common.MakeRandHexString(masterKeyBytes)
	if err != nil {
		return false, fmt.Errorf("error generating master key: %w", err)
	}

	hash, err := passhash.Hash(password, s.bcryptCost)
	if err != nil {
		return false, fmt.Errorf("error hashing password: %w", err)
	}

	account := &models.Account{
		UserName:     username,
		PasswordHash: hash,
		MasterKey:    masterKey,
	}

	if _, err := s.repo.Create(ctx, account); err != nil {
		if errors.Is(err, common.ErrorConflict) {
			return false, nil
		}
		return false, fmt.Errorf("error creating account: %w", err)
	}

	return true, nil
}

// Login verifies the password and hands back the account's credentials.
// Unknown username and wrong password are indistinguishable to the caller:
// both yield common.ErrorUnauthorized.
func (s *Service) Login(ctx context.Context, username, password string) (*models.Credentials, error) {

	account, err := s.repo.GetByUserName(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error fetching account: %w", err)
	}

	if !passhash.Verify(password, account.PasswordHash) {
		return nil, common.ErrorUnauthorized
	}

	return &models.Credentials{UserName: account.UserName, MasterKey: account.MasterKey}, nil
}
