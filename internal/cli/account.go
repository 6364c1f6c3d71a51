package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/walletvault/internal/common"
)

func (a *App) newRegisterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "register <username>",
		Short: "Create a new account with a fresh master key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			username := args[0]

			password, err := getSecret(cmd.OutOrStdout(), "Enter password")
			if err != nil {
				return err
			}
			confirm, err := getSecret(cmd.OutOrStdout(), "Repeat password")
			if err != nil {
				return err
			}
			if password != confirm {
				return errors.New("passwords do not match")
			}

			ok, err := a.accounts.Register(cmd.Context(), username, password)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("username %q is already taken", username)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Account %q registered.\n", username)
			return nil
		},
	}
}

func (a *App) newLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login <username>",
		Short: "Verify a password and print the account's master key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			username := args[0]

			password, err := getSecret(cmd.OutOrStdout(), "Enter password")
			if err != nil {
				return err
			}

			creds, err := a.accounts.Login(cmd.Context(), username, password)
			if err != nil {
				if errors.Is(err, common.ErrorUnauthorized) {
					return errors.New("invalid username or password")
				}
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\nMaster key: %s\n", creds.UserName, creds.MasterKey)
			return nil
		},
	}
}
