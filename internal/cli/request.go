package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *App) newRequestCmd() *cobra.Command {
	requestCmd := &cobra.Command{
		Use:   "request",
		Short: "Manage master-key share requests",
	}

	requestCmd.AddCommand(a.newRequestSendCmd())
	requestCmd.AddCommand(a.newRequestListCmd())
	requestCmd.AddCommand(a.newRequestRespondCmd())

	return requestCmd
}

func (a *App) newRequestSendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "send <from-user> <to-user>",
		Short: "Ask another account for its master key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			fromUser, toUser := args[0], args[1]

			ok, err := a.keyShares.SendRequest(cmd.Context(), fromUser, toUser)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("user not found")
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Request sent to %s.\n", toUser)
			return nil
		},
	}
}

func (a *App) newRequestListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <username>",
		Short: "List requests addressed to an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			requests, err := a.keyShares.ListIncoming(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if len(requests) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No requests.")
				return nil
			}

			for _, req := range requests {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  from=%s status=%s\n", req.ID, req.FromUser, req.Status)
			}
			return nil
		},
	}
}

func (a *App) newRequestRespondCmd() *cobra.Command {
	var accept bool

	cmd := &cobra.Command{
		Use:   "respond <username> <request-id>",
		Short: "Accept or reject a pending request addressed to you",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			actingUser, requestID := args[0], args[1]

			if err := a.keyShares.Respond(cmd.Context(), actingUser, requestID, accept); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Done.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&accept, "accept", false, "accept the request (rejected otherwise)")

	return cmd
}

func (a *App) newKeysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keys <username>",
		Short: "Show the master keys shared with an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			keys, err := a.keyShares.ListShared(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if len(keys) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No shared keys.")
				return nil
			}

			for _, key := range keys {
				if key.MasterKey != nil {
					fmt.Fprintf(cmd.OutOrStdout(), "%s  status=%s key=%s\n", key.OwnerUserName, key.Status, *key.MasterKey)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "%s  status=%s\n", key.OwnerUserName, key.Status)
				}
			}
			return nil
		},
	}
}
