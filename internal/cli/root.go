// Package cli implements the appstruct command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/takak2166/appstruct/internal/backend"
	"github.com/takak2166/appstruct/internal/config"
	"github.com/takak2166/appstruct/internal/logger"
	"github.com/takak2166/appstruct/internal/models"
	"github.com/takak2166/appstruct/internal/secrets"
	"github.com/takak2166/appstruct/internal/store"
)

// Deps are the collaborators commands reach outside the process through
type Deps struct {
	LoadConfig  func(path string) (*config.Config, error)
	OpenKV      func(cfg *config.Config) (store.KV, func() error, error)
	OpenSecrets func(cfg *config.Config) (*secrets.Store, error)
	NewBackend  func(cfg *config.Config, token string) (backend.Backend, error)
	IsTerminal  func(r io.Reader) bool
}

// DefaultDeps wires the real config file, SQLite store, OS keyring and
// backend clients
func DefaultDeps() Deps {
	return Deps{
		LoadConfig: config.Load,
		OpenKV: func(cfg *config.Config) (store.KV, func() error, error) {
			kv, err := store.OpenSQLite(cfg.StorePath)
			if err != nil {
				return nil, nil, err
			}
			return kv, kv.Close, nil
		},
		OpenSecrets: func(cfg *config.Config) (*secrets.Store, error) {
			dir, err := config.Dir()
			if err != nil {
				return nil, err
			}
			return secrets.Open(cfg.KeyringBackend, dir)
		},
		NewBackend: backend.New,
		IsTerminal: isTerminal,
	}
}

// Execute runs the command line against the real environment
func Execute() error {
	return Run(context.Background(), DefaultDeps(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
}

// Run executes one command line with the given deps and streams
func Run(ctx context.Context, deps Deps, args []string, in io.Reader, out, errOut io.Writer) error {
	a := &app{deps: deps}
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	err := root.ExecuteContext(ctx)
	if closeErr := a.close(); closeErr != nil && err == nil {
		err = closeErr
	}
	return err
}

type app struct {
	deps Deps

	configFile string
	project    string
	treeName   string
	logLevel   string
	output     string
	token      string
	yes        bool

	cfg     *config.Config
	kv      store.KV
	closeKV func() error
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "appstruct",
		Short: "Manage App Structure and Practice Scenario trees",
		Long: `appstruct imports indented or tree-drawn text into a folder tree,
edits it, stores it per project and syncs the App Structure tree's
flow folders to backend Flow and Page records.

Environment Variables:
  APPSTRUCT_PROJECT     Default project id
  APPSTRUCT_BACKEND     rest or notion
  APPSTRUCT_BASE_URL    Entity API base URL (rest)
  APPSTRUCT_APP_ID      Entity API application id (rest)
  APPSTRUCT_TOKEN       Entity API token (rest)
  APPSTRUCT_STORE_PATH  SQLite file holding the trees`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "config file (default is $HOME/.config/appstruct/config.yaml)")
	flags.StringVarP(&a.project, "project", "p", "", "project id")
	flags.StringVarP(&a.treeName, "tree", "t", "app", "tree to work on: app or scenarios")
	flags.StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	flags.StringVarP(&a.output, "output", "o", "text", "output format: text, json or yaml")
	flags.StringVar(&a.token, "token", "", "backend API token")
	flags.BoolVarP(&a.yes, "yes", "y", false, "skip confirmation prompts")

	root.AddCommand(
		a.importCmd(),
		a.showCmd(),
		a.exportCmd(),
		a.addCmd(),
		a.renameCmd(),
		a.deleteCmd(),
		a.syncCmd(),
		a.authCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := a.deps.LoadConfig(a.configFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	level := a.logLevel
	if level == "" {
		level = cfg.LogLevel
	}
	if err := logger.Init(level); err != nil {
		return err
	}
	logger.SetOutput(cmd.ErrOrStderr())

	switch a.output {
	case formatText, formatJSON, formatYAML:
	default:
		return fmt.Errorf("unknown output format %q (want text, json or yaml)", a.output)
	}
	if a.project == "" {
		a.project = cfg.Project
	}
	return nil
}

func (a *app) close() error {
	if a.closeKV == nil {
		return nil
	}
	err := a.closeKV()
	a.closeKV = nil
	return err
}

func (a *app) treeKind() (models.TreeKind, error) {
	switch strings.ToLower(a.treeName) {
	case "app", string(models.TreeAppStructure):
		return models.TreeAppStructure, nil
	case "scenarios", string(models.TreePracticeScenarios):
		return models.TreePracticeScenarios, nil
	}
	return "", fmt.Errorf("unknown tree %q (want app or scenarios)", a.treeName)
}

// openTree loads the selected project's tree of the given kind
func (a *app) openTree(ctx context.Context, kind models.TreeKind) (*store.TreeStore, error) {
	if a.project == "" {
		return nil, fmt.Errorf("%w: pass --project or set APPSTRUCT_PROJECT", store.ErrNoProject)
	}
	if a.kv == nil {
		kv, closeFn, err := a.deps.OpenKV(a.cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to open tree store: %w", err)
		}
		a.kv, a.closeKV = kv, closeFn
	}

	ts := store.NewTreeStore(a.kv, kind)
	if _, err := ts.Select(ctx, a.project); err != nil {
		return nil, err
	}
	return ts, nil
}

func (a *app) selectedTree(ctx context.Context) (*store.TreeStore, error) {
	kind, err := a.treeKind()
	if err != nil {
		return nil, err
	}
	return a.openTree(ctx, kind)
}

// resolveToken applies flag > environment/config > keyring precedence
func (a *app) resolveToken() (string, error) {
	if a.token != "" {
		return a.token, nil
	}
	if token := a.cfg.BackendToken(); token != "" {
		return token, nil
	}

	ring, err := a.deps.OpenSecrets(a.cfg)
	if err != nil {
		return "", err
	}
	token, err := ring.Token(a.cfg.Backend)
	if errors.Is(err, secrets.ErrNoToken) {
		return "", nil
	}
	return token, err
}

func isTerminal(r io.Reader) bool {
	file, ok := r.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
