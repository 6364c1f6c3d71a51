package wallets

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/walletvault/internal/common"
	"github.com/dmitrijs2005/walletvault/internal/dbx"
	"github.com/dmitrijs2005/walletvault/internal/server/models"
)

// SQLiteRepository implements Repository over the embedded database used in
// local mode.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, wallet *models.Wallet) (*models.Wallet, error) {

	query :=
		`INSERT INTO wallets (id, name_enc, login_enc, password_enc, host_enc, key_prefix)
		 VALUES (?, ?, ?, ?, ?, ?)
		 `

	wallet.ID = uuid.New().String()

	_, err := r.db.ExecContext(ctx, query,
		wallet.ID, wallet.NameEnc, wallet.LoginEnc, wallet.PasswordEnc, wallet.HostEnc, wallet.KeyPrefix)

	if err != nil {
		if err := dbx.TranslateError(err); errors.Is(err, common.ErrorConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return wallet, nil
}

func (r *SQLiteRepository) ListByKeyPrefix(ctx context.Context, keyPrefix string) ([]*models.Wallet, error) {
	query :=
		`SELECT id, name_enc, login_enc, password_enc, host_enc, key_prefix FROM wallets
		 WHERE key_prefix = ?
		 ORDER BY id
		 `

	rows, err := r.db.QueryContext(ctx, query, keyPrefix)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Wallet
	for rows.Next() {
		w := &models.Wallet{}
		if err := rows.Scan(&w.ID, &w.NameEnc, &w.LoginEnc, &w.PasswordEnc, &w.HostEnc, &w.KeyPrefix); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, w)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
