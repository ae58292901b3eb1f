package backend_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/takak2166/appstruct/internal/backend"
	"github.com/takak2166/appstruct/internal/backend/notion"
	"github.com/takak2166/appstruct/internal/backend/rest"
	"github.com/takak2166/appstruct/internal/config"
)

func TestNew(t *testing.T) {
	restCfg := &config.Config{Backend: config.BackendREST, BaseURL: "http://localhost", AppID: "app"}
	notionCfg := &config.Config{Backend: config.BackendNotion, NotionFlowsDB: "f", NotionPagesDB: "p"}

	b, err := backend.New(restCfg, "tok")
	require.NoError(t, err)
	assert.IsType(t, &rest.Client{}, b)

	b, err = backend.New(notionCfg, "tok")
	require.NoError(t, err)
	assert.IsType(t, &notion.Client{}, b)

	_, err = backend.New(restCfg, "")
	assert.Error(t, err, "rest needs a token")

	_, err = backend.New(notionCfg, "")
	assert.Error(t, err, "notion needs a token")

	_, err = backend.New(&config.Config{Backend: config.BackendREST}, "tok")
	assert.Error(t, err, "invalid config is rejected")
}
