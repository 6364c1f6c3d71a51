package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

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

func (r *SQLiteRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {

	query :=
		`INSERT INTO accounts (id, username, password_hash, master_key, created_at)
		 VALUES (?, ?, ?, ?, ?)
		 `

	account.ID = uuid.New().String()
	account.CreatedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx, query,
		account.ID, account.UserName, account.PasswordHash, account.MasterKey, account.CreatedAt)

	if err != nil {
		if err := dbx.TranslateError(err); errors.Is(err, common.ErrorConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return account, nil
}

func (r *SQLiteRepository) GetByUserName(ctx context.Context, userName string) (*models.Account, error) {
	query :=
		`SELECT id, username, password_hash, master_key, created_at FROM accounts
		 WHERE username = ?
		 `

	account := &models.Account{}
	err := r.db.QueryRowContext(ctx, query, userName).Scan(
		&account.ID, &account.UserName, &account.PasswordHash, &account.MasterKey, &account.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return account, nil
}

func (r *SQLiteRepository) Exists(ctx context.Context, userName string) (bool, error) {
	query :=
		`SELECT EXISTS (SELECT 1 FROM accounts WHERE username = ?)
		 `

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, userName).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return exists, nil
}
