package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	sqlitemigrations "github.com/dmitrijs2005/walletvault/internal/server/migrations/sqlite"
	"github.com/dmitrijs2005/walletvault/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/walletvault/internal/server/repositories/keyrequests"
	"github.com/dmitrijs2005/walletvault/internal/server/repositories/wallets"
)

// SQLiteRepositoryManager backs local mode with an embedded database file,
// the same shape the desktop workflow keeps next to the binary.
type SQLiteRepositoryManager struct {
	db          *sql.DB
	accounts    accounts.Repository
	wallets     wallets.Repository
	keyRequests keyrequests.Repository
}

func (m *SQLiteRepositoryManager) Conn() *sql.DB {
	return m.db
}

func (m *SQLiteRepositoryManager) Close() error {
	return m.db.Close()
}

func (m *SQLiteRepositoryManager) Accounts() accounts.Repository {
	return m.accounts
}

func (m *SQLiteRepositoryManager) Wallets() wallets.Repository {
	return m.wallets
}

func (m *SQLiteRepositoryManager) KeyRequests() keyrequests.Repository {
	return m.keyRequests
}

func (m *SQLiteRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(sqlitemigrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}

	return goose.UpContext(ctx, m.db, ".")
}

func NewSQLiteRepositoryManager(ctx context.Context, path string) (RepositoryManager, error) {

	// foreign_keys backs the username references in key_requests;
	// busy_timeout keeps concurrent CLI invocations from failing fast.
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	m := &SQLiteRepositoryManager{
		db:          db,
		accounts:    accounts.NewSQLiteRepository(db),
		wallets:     wallets.NewSQLiteRepository(db),
		keyRequests: keyrequests.NewSQLiteRepository(db),
	}

	if err := m.RunMigrations(ctx); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return m, nil
}
