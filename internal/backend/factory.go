package backend

import (
	"fmt"

	"github.com/takak2166/appstruct/internal/backend/notion"
	"github.com/takak2166/appstruct/internal/backend/rest"
	"github.com/takak2166/appstruct/internal/config"
)

// New builds the backend selected by cfg, authenticated with token
func New(cfg *config.Config, token string) (Backend, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Backend {
	case config.BackendNotion:
		client, err := notion.New(token, cfg.NotionFlowsDB, cfg.NotionPagesDB)
		if err != nil {
			return nil, err
		}
		return client, nil
	case config.BackendREST:
		if token == "" {
			return nil, fmt.Errorf("an API token is required for the rest backend; run 'appstruct auth login'")
		}
		return rest.NewClient(cfg.BaseURL, cfg.AppID, token), nil
	}
	return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
}
