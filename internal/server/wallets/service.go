// Package wallets implements encrypted wallet creation and search on top of
// the wallet repository and the symmetric cipher.
package wallets

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/walletvault/internal/common"
	"github.com/dmitrijs2005/walletvault/internal/cryptox"
	"github.com/dmitrijs2005/walletvault/internal/server/models"
	walletsrepo "github.com/dmitrijs2005/walletvault/internal/server/repositories/wallets"
)

type Service struct {
	repo walletsrepo.Repository
}

func NewService(repo walletsrepo.Repository) *Service {
	return &Service{repo: repo}
}

// Create encrypts each wallet field independently under masterKey and stores
// the record tagged with the key's clear-text prefix. It returns false only
// on a store-level conflict.
func (s *Service) Create(ctx context.Context, name, login, password, host, masterKey string) (bool, error) {

	wallet := &models.Wallet{KeyPrefix: models.KeyPrefix(masterKey)}

	fields := []struct {
		plaintext string
		dst       *string
	}{
		{name, &wallet.NameEnc},
		{login, &wallet.LoginEnc},
		{password, &wallet.PasswordEnc},
		{host, &wallet.HostEnc},
	}

	for _, f := range fields {
		token, err := cryptox.Encrypt(f.plaintext, masterKey)
		if err != nil {
			return false, fmt.Errorf("error encrypting wallet field: %w", err)
		}
		*f.dst = token
	}

	if _, err := s.repo.Create(ctx, wallet); err != nil {
		if errors.Is(err, common.ErrorConflict) {
			return false, nil
		}
		return false, fmt.Errorf("error creating wallet: %w", err)
	}

	return true, nil
}

// Search loads every wallet stored under keyPrefix and tries to open each one
// with masterKey. The prefix is a cheap pre-filter, not a boundary: prefix
// collisions are expected, and a record that does not open is reported with
// Decrypted=false and nil fields rather than as an error. A non-empty
// nameFilter restricts the result to decrypted records whose clear name
// contains it case-insensitively; undecryptable records are dropped then,
// since there is no name to match against.
func (s *Service) Search(ctx context.Context, nameFilter, keyPrefix, masterKey string) ([]models.WalletRecord, error) {

	rows, err := s.repo.ListByKeyPrefix(ctx, keyPrefix)
	if err != nil {
		return nil, fmt.Errorf("error listing wallets: %w", err)
	}

	result := make([]models.WalletRecord, 0, len(rows))
	for _, w := range rows {
		result = append(result, s.decryptRecord(w, masterKey))
	}

	if nameFilter == "" {
		return result, nil
	}

	needle := strings.ToLower(nameFilter)
	filtered := make([]models.WalletRecord, 0, len(result))
	for _, rec := range result {
		if rec.Decrypted && strings.Contains(strings.ToLower(*rec.Name), needle) {
			filtered = append(filtered, rec)
		}
	}

	return filtered, nil
}

// decryptRecord opens all four fields or none: a record is never returned
// partially decrypted.
func (s *Service) decryptRecord(w *models.Wallet, masterKey string) models.WalletRecord {

	record := models.WalletRecord{ID: w.ID}

	fields := []struct {
		token string
		dst   **string
	}{
		{w.NameEnc, &record.Name},
		{w.LoginEnc, &record.Login},
		{w.PasswordEnc, &record.Password},
		{w.HostEnc, &record.Host},
	}

	for _, f := range fields {
		plaintext, err := cryptox.Decrypt(f.token, masterKey)
		if err != nil {
			return models.WalletRecord{ID: w.ID, Decrypted: false}
		}
		v := plaintext
		*f.dst = &v
	}

	record.Decrypted = true
	return record
}
