package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/walletvault/internal/server/models"
)

func (a *App) newWalletCmd() *cobra.Command {
	walletCmd := &cobra.Command{
		Use:   "wallet",
		Short: "Create and search encrypted wallets",
	}

	walletCmd.AddCommand(a.newWalletAddCmd())
	walletCmd.AddCommand(a.newWalletSearchCmd())

	return walletCmd
}

// resolveMasterKey takes the key from the flag or prompts for it without echo.
func resolveMasterKey(cmd *cobra.Command, flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	key, err := getSecret(cmd.OutOrStdout(), "Enter master key")
	if err != nil {
		return "", err
	}
	if key == "" {
		return "", errors.New("master key must not be empty")
	}
	return key, nil
}

func (a *App) newWalletAddCmd() *cobra.Command {
	var name, login, host, masterKey string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Encrypt and store a new wallet",
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" || login == "" || host == "" {
				return errors.New("--name, --login and --host are required")
			}

			key, err := resolveMasterKey(cmd, masterKey)
			if err != nil {
				return err
			}

			password, err := getSecret(cmd.OutOrStdout(), "Enter wallet password")
			if err != nil {
				return err
			}

			ok, err := a.wallets.Create(cmd.Context(), name, login, password, host, key)
			if err != nil {
				return err
			}
			if !ok {
				return errors.New("could not create wallet")
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wallet %q created.\n", name)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "wallet name")
	cmd.Flags().StringVar(&login, "login", "", "wallet login")
	cmd.Flags().StringVar(&host, "host", "", "wallet host")
	cmd.Flags().StringVar(&masterKey, "master-key", "", "master key (prompted if omitted)")

	return cmd
}

func (a *App) newWalletSearchCmd() *cobra.Command {
	var filter, masterKey string

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search wallets and decrypt them with a master key",
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := resolveMasterKey(cmd, masterKey)
			if err != nil {
				return err
			}

			records, err := a.wallets.Search(cmd.Context(), filter, models.KeyPrefix(key), key)
			if err != nil {
				return err
			}

			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No wallets found.")
				return nil
			}

			for _, rec := range records {
				if rec.Decrypted {
					fmt.Fprintf(cmd.OutOrStdout(), "%s  name=%s login=%s password=%s host=%s\n",
						rec.ID, *rec.Name, *rec.Login, *rec.Password, *rec.Host)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "%s  <locked>\n", rec.ID)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&filter, "filter", "", "case-insensitive name filter")
	cmd.Flags().StringVar(&masterKey, "master-key", "", "master key (prompted if omitted)")

	return cmd
}
