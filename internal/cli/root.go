// Package cli implements local mode: the same core services as the server,
// driven from the command line over an embedded SQLite database file.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/walletvault/internal/server/accounts"
	"github.com/dmitrijs2005/walletvault/internal/server/config"
	"github.com/dmitrijs2005/walletvault/internal/server/keyshares"
	"github.com/dmitrijs2005/walletvault/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/walletvault/internal/server/wallets"
)

// App bundles the core services behind the CLI commands. The repository
// manager is opened lazily, once the database path flag is known.
type App struct {
	dbPath string

	repos     repomanager.RepositoryManager
	accounts  *accounts.Service
	wallets   *wallets.Service
	keyShares *keyshares.Service
}

func (a *App) init(cmd *cobra.Command) error {
	rm, err := repomanager.NewSQLiteRepositoryManager(cmd.Context(), a.dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}

	cfg := &config.Config{}
	cfg.LoadDefaults()

	a.repos = rm
	a.accounts = accounts.NewService(rm.Accounts(), cfg)
	a.wallets = wallets.NewService(rm.Wallets())
	a.keyShares = keyshares.NewService(rm.KeyRequests(), rm.Accounts())

	return nil
}

func (a *App) close() {
	if a.repos != nil {
		_ = a.repos.Close()
	}
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	app := &App{}

	rootCmd := &cobra.Command{
		Use:   "walletvault",
		Short: "walletvault - encrypted credential wallets with master-key sharing",
		Long: `walletvault stores credential wallets encrypted under per-account master
keys, and lets accounts grant each other access to their master keys
through a request/approve workflow.

Local mode keeps everything in a SQLite file next to the binary.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.init(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			app.close()
		},
	}

	rootCmd.PersistentFlags().StringVar(&app.dbPath, "db", "walletvault.db", "path to the database file")

	rootCmd.AddCommand(app.newRegisterCmd())
	rootCmd.AddCommand(app.newLoginCmd())
	rootCmd.AddCommand(app.newWalletCmd())
	rootCmd.AddCommand(app.newRequestCmd())
	rootCmd.AddCommand(app.newKeysCmd())

	return rootCmd
}

// Execute runs the CLI and exits non-zero on error.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
