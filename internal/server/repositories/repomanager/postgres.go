package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	pgmigrations "github.com/dmitrijs2005/walletvault/internal/server/migrations/postgres"
	"github.com/dmitrijs2005/walletvault/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/walletvault/internal/server/repositories/keyrequests"
	"github.com/dmitrijs2005/walletvault/internal/server/repositories/wallets"
)

type PostgresRepositoryManager struct {
	db          *sql.DB
	accounts    accounts.Repository
	wallets     wallets.Repository
	keyRequests keyrequests.Repository
}

func (m *PostgresRepositoryManager) Conn() *sql.DB {
	return m.db
}

func (m *PostgresRepositoryManager) Close() error {
	return m.db.Close()
}

func (m *PostgresRepositoryManager) Accounts() accounts.Repository {
	return m.accounts
}

func (m *PostgresRepositoryManager) Wallets() wallets.Repository {
	return m.wallets
}

func (m *PostgresRepositoryManager) KeyRequests() keyrequests.Repository {
	return m.keyRequests
}

func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(pgmigrations.Migrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	return goose.UpContext(ctx, m.db, ".")
}

func NewPostgresRepositoryManager(ctx context.Context, dsn string) (RepositoryManager, error) {

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	m := &PostgresRepositoryManager{
		db:          db,
		accounts:    accounts.NewPostgresRepository(db),
		wallets:     wallets.NewPostgresRepository(db),
		keyRequests: keyrequests.NewPostgresRepository(db),
	}

	if err := m.RunMigrations(ctx); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return m, nil
}
