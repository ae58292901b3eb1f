package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/takak2166/appstruct/internal/logger"
	"github.com/takak2166/appstruct/internal/models"
	"github.com/takak2166/appstruct/internal/parser"
	"github.com/takak2166/appstruct/internal/tree"
)

func (a *app) importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import [file]",
		Short: "Replace a project's tree with parsed text",
		Long: `Parse indented or tree-drawn text and store it as the project's tree,
replacing what was there. Reads stdin when no file (or "-") is given.

Examples:
  appstruct import -p my-app structure.txt
  pbpaste | appstruct import -p my-app --tree scenarios`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source := "-"
			if len(args) == 1 {
				source = args[0]
			}
			text, err := readInputSource(source, cmd.InOrStdin())
			if err != nil {
				return err
			}

			ts, err := a.selectedTree(cmd.Context())
			if err != nil {
				return err
			}
			s := parser.ForTree(ts.Kind()).Parse(text)
			if err := ts.Replace(cmd.Context(), s); err != nil {
				return err
			}

			count := tree.Count(s)
			logger.Info("Imported tree", map[string]interface{}{
				"project": a.project,
				"tree":    string(ts.Kind()),
				"nodes":   count,
			})
			return writeAs(cmd.OutOrStdout(), a.output, s,
				fmt.Sprintf("Imported %d nodes into %s of project %s\n", count, ts.Kind(), a.project))
		},
	}
}

func (a *app) showCmd() *cobra.Command {
	var withIDs bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print a project's tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ts, err := a.selectedTree(cmd.Context())
			if err != nil {
				return err
			}
			s := ts.Current()
			return writeAs(cmd.OutOrStdout(), a.output, s, renderTree(s, withIDs))
		},
	}
	cmd.Flags().BoolVar(&withIDs, "ids", false, "show node ids")
	return cmd
}

func (a *app) exportCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Write a project's tree as JSON, YAML or indented text",
		Long: `Write the tree to a file, or stdout when no file is given. The text
format can be imported again.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ts, err := a.selectedTree(cmd.Context())
			if err != nil {
				return err
			}
			s := ts.Current()

			w := cmd.OutOrStdout()
			if len(args) == 1 && args[0] != "-" {
				file, err := os.Create(args[0])
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", args[0], err)
				}
				defer file.Close()
				w = file
			}

			switch format {
			case formatText, formatJSON, formatYAML:
			default:
				return fmt.Errorf("unknown export format %q", format)
			}
			return writeAs(w, format, s, parser.Render(s))
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", formatJSON, "json, yaml or text")
	return cmd
}

func (a *app) addCmd() *cobra.Command {
	var parentID, kind string
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a folder or leaf to a project's tree",
		Long: `Add a node under the folder --parent, or at the top level.
--kind is folder or the tree's leaf kind (file for app, scenario for
scenarios), which is the default.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ts, err := a.selectedTree(cmd.Context())
			if err != nil {
				return err
			}

			nodeKind := ts.Kind().LeafKind()
			if kind != "" {
				nodeKind = models.NodeKind(kind)
				if nodeKind != models.KindFolder && nodeKind != ts.Kind().LeafKind() {
					return fmt.Errorf("%w: %s cannot hold %q nodes", tree.ErrInvalidKind, ts.Kind(), kind)
				}
			}

			before := ts.Current()
			after, err := ts.Apply(cmd.Context(), func(s models.Structure) (models.Structure, error) {
				return tree.AddNode(s, parentID, nodeKind, args[0])
			})
			if err != nil {
				return err
			}

			node, _ := addedNode(before, after)
			logger.Info("Added node", map[string]interface{}{
				"project": a.project,
				"id":      node.ID,
				"kind":    string(node.Kind),
			})
			return writeAs(cmd.OutOrStdout(), a.output, node, fmt.Sprintf("Added %s %q [%s]\n", node.Kind, node.Name, node.ID))
		},
	}
	cmd.Flags().StringVar(&parentID, "parent", "", "id of the parent folder")
	cmd.Flags().StringVarP(&kind, "kind", "k", "", "node kind: folder, file or scenario")
	return cmd
}

func (a *app) renameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <id> <name>",
		Short: "Rename a node",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ts, err := a.selectedTree(cmd.Context())
			if err != nil {
				return err
			}
			s, err := ts.Apply(cmd.Context(), func(s models.Structure) (models.Structure, error) {
				return tree.RenameNode(s, args[0], args[1])
			})
			if err != nil {
				return err
			}
			node, _ := tree.Find(s, args[0])
			return writeAs(cmd.OutOrStdout(), a.output, node, fmt.Sprintf("Renamed [%s] to %q\n", node.ID, node.Name))
		},
	}
}

func (a *app) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a node and everything under it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ts, err := a.selectedTree(cmd.Context())
			if err != nil {
				return err
			}
			node, ok := tree.Find(ts.Current(), args[0])
			if !ok {
				return fmt.Errorf("%w: %s", tree.ErrNodeNotFound, args[0])
			}
			if _, err := ts.Apply(cmd.Context(), func(s models.Structure) (models.Structure, error) {
				return tree.DeleteNode(s, args[0])
			}); err != nil {
				return err
			}

			removed := tree.Count(models.Structure{Folders: []models.TreeNode{node}})
			return writeAs(cmd.OutOrStdout(), a.output,
				map[string]interface{}{"id": node.ID, "removed": removed},
				fmt.Sprintf("Deleted %q and %d nodes below it\n", node.Name, removed-1))
		},
	}
}

// addedNode returns the node present in after but not in before
func addedNode(before, after models.Structure) (models.TreeNode, bool) {
	seen := make(map[string]bool)
	tree.Walk(before, func(n models.TreeNode, _ []models.TreeNode) bool {
		seen[n.ID] = true
		return true
	})

	var found models.TreeNode
	var ok bool
	tree.Walk(after, func(n models.TreeNode, _ []models.TreeNode) bool {
		if !seen[n.ID] {
			found, ok = n, true
			return false
		}
		return true
	})
	return found, ok
}
