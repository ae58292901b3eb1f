package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/takak2166/appstruct/internal/backend"
	"github.com/takak2166/appstruct/internal/flowsync"
	"github.com/takak2166/appstruct/internal/logger"
	"github.com/takak2166/appstruct/internal/models"
)

func (a *app) syncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Sync flow folders of the App Structure tree to backend flows and pages",
		Long: `Make the project's backend flows and pages mirror the flow folders
(top-level folders whose name contains FLOW or is all upper case) of the
App Structure tree.

Flows with no matching folder are deleted, and every page of the project
is deleted and recreated, so page status and other page data are lost.
A failure stops the run where it is; nothing is rolled back.

Examples:
  appstruct sync -p my-app
  appstruct sync -p my-app --yes -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			ts, err := a.openTree(ctx, models.TreeAppStructure)
			if err != nil {
				return err
			}
			s := ts.Current()
			flows := flowsync.FlowFolders(s)

			if !a.yes {
				if !a.deps.IsTerminal(cmd.InOrStdin()) {
					return fmt.Errorf("sync replaces every page of project %s; rerun with --yes to confirm", a.project)
				}
				prompt := fmt.Sprintf("Sync %d flow folders to project %s? Every existing page of the project will be deleted and recreated.",
					len(flows), a.project)
				if !confirm(cmd.InOrStdin(), cmd.ErrOrStderr(), prompt) {
					fmt.Fprintln(cmd.ErrOrStderr(), "Aborted.")
					return nil
				}
			}

			token, err := a.resolveToken()
			if err != nil {
				return err
			}
			b, err := a.deps.NewBackend(a.cfg, token)
			if err != nil {
				return fmt.Errorf("failed to create backend client: %w", err)
			}
			cache := backend.NewCache(b)

			res, err := flowsync.New(cache, cache).Sync(ctx, s, a.project)
			if err != nil {
				logger.Warn("Sync left the backend partially updated", map[string]interface{}{
					"project":       a.project,
					"flows_deleted": res.FlowsDeleted,
					"pages_deleted": res.PagesDeleted,
					"flows_created": res.FlowsCreated,
					"pages_created": res.PagesCreated,
				})
				return err
			}

			return writeAs(cmd.OutOrStdout(), a.output, res, fmt.Sprintf(
				"Synced %d flows for project %s: %d created, %d kept, %d deleted; %d pages replaced by %d\n",
				len(flows), a.project, res.FlowsCreated, res.FlowsKept, res.FlowsDeleted, res.PagesDeleted, res.PagesCreated))
		},
	}
}
