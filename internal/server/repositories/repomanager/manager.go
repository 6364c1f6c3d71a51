// Package repomanager aggregates the per-aggregate repositories behind a
// single handle and owns schema migrations for each backend.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/walletvault/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/walletvault/internal/server/repositories/keyrequests"
	"github.com/dmitrijs2005/walletvault/internal/server/repositories/wallets"
)

type RepositoryManager interface {
	RunMigrations(context.Context) error
	Conn() *sql.DB
	Close() error
	Accounts() accounts.Repository
	Wallets() wallets.Repository
	KeyRequests() keyrequests.Repository
}
