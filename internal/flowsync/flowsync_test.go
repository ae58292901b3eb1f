package flowsync

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/takak2166/appstruct/internal/backend"
	"github.com/takak2166/appstruct/internal/backend/mock_backend"
	"github.com/takak2166/appstruct/internal/models"
)

// memoryBackend is a minimal in-memory entity API
type memoryBackend struct {
	next  int
	flows map[string]models.Flow
	pages map[string]models.Page
	calls []string
}

func newMemoryBackend() *memoryBackend {
	return &memoryBackend{flows: map[string]models.Flow{}, pages: map[string]models.Page{}}
}

func (m *memoryBackend) id(prefix string) string {
	m.next++
	return fmt.Sprintf("%s%d", prefix, m.next)
}

func (m *memoryBackend) ListFlows(_ context.Context, projectID string) ([]models.Flow, error) {
	var out []models.Flow
	for _, f := range m.flows {
		if f.Project == projectID {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

func (m *memoryBackend) CreateFlow(_ context.Context, flow models.Flow) (models.Flow, error) {
	flow.ID = m.id("flow-")
	m.flows[flow.ID] = flow
	m.calls = append(m.calls, "create_flow "+flow.Name)
	return flow, nil
}

func (m *memoryBackend) DeleteFlow(_ context.Context, id string) error {
	delete(m.flows, id)
	m.calls = append(m.calls, "delete_flow "+id)
	return nil
}

func (m *memoryBackend) ListPages(_ context.Context, projectID string) ([]models.Page, error) {
	var out []models.Page
	for _, p := range m.pages {
		if p.Project == projectID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memoryBackend) CreatePage(_ context.Context, page models.Page) (models.Page, error) {
	page.ID = m.id("page-")
	m.pages[page.ID] = page
	m.calls = append(m.calls, "create_page "+page.Name)
	return page, nil
}

func (m *memoryBackend) DeletePage(_ context.Context, id string) error {
	delete(m.pages, id)
	m.calls = append(m.calls, "delete_page "+id)
	return nil
}

type recordingRefresher struct{ projects []string }

func (r *recordingRefresher) Invalidate(_ context.Context, projectID string) {
	r.projects = append(r.projects, projectID)
}

func leaf(name string) models.TreeNode {
	return models.TreeNode{ID: "id-" + name, Name: name, Kind: models.KindFile}
}

func folder(name string, children ...models.TreeNode) models.TreeNode {
	if children == nil {
		children = []models.TreeNode{}
	}
	return models.TreeNode{ID: "id-" + name, Name: name, Kind: models.KindFolder, Children: children}
}

func TestIsFlowFolderName(t *testing.T) {
	tests := map[string]bool{
		"AUTH FLOW":       true,
		"Checkout FLOW":   true,
		"SETTINGS":        true,
		"ADMIN_PANEL":     true,
		"components":      false,
		"Onboarding flow": false,
	}
	for name, want := range tests {
		assert.Equal(t, want, IsFlowFolderName(name), name)
	}
}

func TestFlowFolders(t *testing.T) {
	s := models.Structure{Folders: []models.TreeNode{
		folder("AUTH FLOW"),
		folder("components"),
		leaf("README"),
		folder("MAIN FLOW"),
	}}
	got := FlowFolders(s)
	require.Len(t, got, 2)
	assert.Equal(t, "AUTH FLOW", got[0].Name)
	assert.Equal(t, "MAIN FLOW", got[1].Name)
}

func TestSyncCreatesFlowAndPage(t *testing.T) {
	ctx := context.Background()
	mem := newMemoryBackend()
	refresher := &recordingRefresher{}
	s := New(mem, refresher)

	tree := models.Structure{Folders: []models.TreeNode{folder("AUTH FLOW", leaf("Login"))}}
	res, err := s.SyncFlowsFromStructure(ctx, tree, nil, nil, "p1")
	require.NoError(t, err)

	flows, _ := mem.ListFlows(ctx, "p1")
	pages, _ := mem.ListPages(ctx, "p1")
	require.Len(t, flows, 1)
	require.Len(t, pages, 1)
	assert.Equal(t, "AUTH FLOW", flows[0].Name)
	assert.Equal(t, 0, flows[0].Order)
	assert.Equal(t, "Login", pages[0].Name)
	assert.Equal(t, flows[0].ID, pages[0].Flow)
	assert.Equal(t, models.DefaultPageStatus, pages[0].Status)

	assert.Equal(t, Result{FlowsCreated: 1, PagesCreated: 1}, res)
	assert.Equal(t, []string{"p1"}, refresher.projects)
}

func TestSyncReplacesPagesAndStaleFlows(t *testing.T) {
	ctx := context.Background()
	mem := newMemoryBackend()
	mem.flows["old"] = models.Flow{ID: "old", Name: "LEGACY FLOW", Project: "p1", Order: 0}
	mem.flows["keep"] = models.Flow{ID: "keep", Name: "MAIN FLOW", Project: "p1", Order: 7}
	mem.flows["other"] = models.Flow{ID: "other", Name: "LEGACY FLOW", Project: "p2"}
	mem.pages["pg-a"] = models.Page{ID: "pg-a", Name: "Dashboard", Project: "p1", Flow: "keep", Status: "done"}
	mem.pages["pg-b"] = models.Page{ID: "pg-b", Name: "Loose", Project: "p1"}
	mem.pages["pg-c"] = models.Page{ID: "pg-c", Name: "Elsewhere", Project: "p2"}

	tree := models.Structure{Folders: []models.TreeNode{
		folder("AUTH FLOW", leaf("Login"), folder("nested", leaf("Ignored")), leaf("Signup")),
		folder("MAIN FLOW", leaf("Dashboard")),
		folder("components", leaf("Button")),
	}}

	existingFlows := []models.Flow{mem.flows["old"], mem.flows["keep"], mem.flows["other"]}
	existingPages := []models.Page{mem.pages["pg-a"], mem.pages["pg-b"], mem.pages["pg-c"]}

	res, err := New(mem, nil).SyncFlowsFromStructure(ctx, tree, existingFlows, existingPages, "p1")
	require.NoError(t, err)
	assert.Equal(t, Result{FlowsDeleted: 1, PagesDeleted: 2, FlowsCreated: 1, FlowsKept: 1, PagesCreated: 3}, res)

	flows, _ := mem.ListFlows(ctx, "p1")
	require.Len(t, flows, 2)
	byName := map[string]models.Flow{}
	for _, f := range flows {
		byName[f.Name] = f
	}
	assert.Equal(t, 0, byName["AUTH FLOW"].Order)
	assert.Equal(t, "keep", byName["MAIN FLOW"].ID)
	assert.Equal(t, 7, byName["MAIN FLOW"].Order, "existing flow keeps its order")

	pages, _ := mem.ListPages(ctx, "p1")
	require.Len(t, pages, 3)
	for _, p := range pages {
		assert.NotEqual(t, "pg-a", p.ID, "pages are always recreated")
		assert.Equal(t, models.DefaultPageStatus, p.Status)
	}

	_, ok := mem.flows["other"]
	assert.True(t, ok, "other project's flow must survive")
	_, ok = mem.pages["pg-c"]
	assert.True(t, ok, "other project's page must survive")
}

func TestSyncAbortsOnFirstFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	mockBackend := mock_backend.NewMockBackend(ctrl)
	refresher := &recordingRefresher{}
	boom := errors.New("503 upstream")

	gomock.InOrder(
		mockBackend.EXPECT().DeletePage(ctx, "pg-1").Return(nil),
		mockBackend.EXPECT().DeletePage(ctx, "pg-2").Return(nil),
		mockBackend.EXPECT().CreateFlow(ctx, models.Flow{Name: "AUTH FLOW", Project: "p1", Order: 0}).
			Return(models.Flow{ID: "f1", Name: "AUTH FLOW", Project: "p1"}, nil),
		mockBackend.EXPECT().CreatePage(ctx, models.Page{Name: "Login", Project: "p1", Flow: "f1", Status: models.DefaultPageStatus}).
			Return(models.Page{}, boom),
	)

	tree := models.Structure{Folders: []models.TreeNode{
		folder("AUTH FLOW", leaf("Login"), leaf("Signup")),
		folder("MAIN FLOW", leaf("Home")),
	}}
	pages := []models.Page{
		{ID: "pg-1", Name: "A", Project: "p1"},
		{ID: "pg-2", Name: "B", Project: "p1"},
	}

	res, err := New(mockBackend, refresher).SyncFlowsFromStructure(ctx, tree, nil, pages, "p1")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	var stepErr *StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, StepCreatePage, stepErr.Step)
	assert.Equal(t, "Login", stepErr.Entity)

	assert.Equal(t, Result{PagesDeleted: 2, FlowsCreated: 1}, res)
	assert.Equal(t, []string{"p1"}, refresher.projects, "views refresh even after a partial run")
}

func TestSyncListsCurrentState(t *testing.T) {
	ctx := context.Background()
	mem := newMemoryBackend()
	cache := backend.NewCache(mem)
	s := New(cache, cache)

	tree := models.Structure{Folders: []models.TreeNode{folder("AUTH FLOW", leaf("Login"))}}
	_, err := s.Sync(ctx, tree, "p1")
	require.NoError(t, err)

	// A second run sees the first run's records through the refreshed cache.
	res, err := s.Sync(ctx, tree, "p1")
	require.NoError(t, err)
	assert.Equal(t, Result{PagesDeleted: 1, FlowsKept: 1, PagesCreated: 1}, res)

	flows, err := cache.ListFlows(ctx, "p1")
	require.NoError(t, err)
	assert.Len(t, flows, 1)
}

func TestSyncRequiresProject(t *testing.T) {
	_, err := New(newMemoryBackend(), nil).SyncFlowsFromStructure(context.Background(), models.EmptyStructure(), nil, nil, "")
	assert.Error(t, err)
}
