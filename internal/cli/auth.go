package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/takak2166/appstruct/internal/logger"
)

func (a *app) authCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the backend API token",
		Long: `Store or clear the API token of the configured backend in the system
keyring. A --token flag or APPSTRUCT_TOKEN / APPSTRUCT_NOTION_TOKEN takes
precedence over the stored token.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "login",
		Short: "Store the backend API token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			token := a.token
			if token == "" {
				var err error
				token, err = promptSecret(cmd.InOrStdin(), cmd.ErrOrStderr(),
					fmt.Sprintf("API token for %s backend: ", a.cfg.Backend))
				if err != nil {
					return fmt.Errorf("failed to read token: %w", err)
				}
			}

			ring, err := a.deps.OpenSecrets(a.cfg)
			if err != nil {
				return err
			}
			if err := ring.SetToken(a.cfg.Backend, token); err != nil {
				return err
			}

			logger.Info("Stored API token", map[string]interface{}{"backend": a.cfg.Backend})
			fmt.Fprintf(cmd.OutOrStdout(), "Token for %s backend stored\n", a.cfg.Backend)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "logout",
		Short: "Remove the stored backend API token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ring, err := a.deps.OpenSecrets(a.cfg)
			if err != nil {
				return err
			}
			if err := ring.DeleteToken(a.cfg.Backend); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Token for %s backend removed\n", a.cfg.Backend)
			return nil
		},
	})
	return cmd
}
