// Package flowsync reconciles the flow folders of an App Structure tree
// with the Flow and Page records of a backend.
//
// Synchronisation is destructive and not transactional: every page of the
// project is deleted and recreated on each run, so page data that the tree
// does not carry is lost, and a failure part way leaves the backend as it
// was after the last successful call.
package flowsync

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/takak2166/appstruct/internal/backend"
	"github.com/takak2166/appstruct/internal/logger"
	"github.com/takak2166/appstruct/internal/models"
	"github.com/takak2166/appstruct/internal/parser"
)

// Step names the stage of a sync run
type Step string

const (
	StepDeleteFlow Step = "delete_flow"
	StepDeletePage Step = "delete_page"
	StepCreateFlow Step = "create_flow"
	StepCreatePage Step = "create_page"
)

// StepError reports the call that stopped a sync run
type StepError struct {
	Step   Step
	Entity string
	Err    error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("sync stopped at %s %q: %v", e.Step, e.Entity, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Result counts the backend changes a run made
type Result struct {
	FlowsDeleted int `json:"flows_deleted" yaml:"flows_deleted"`
	PagesDeleted int `json:"pages_deleted" yaml:"pages_deleted"`
	FlowsCreated int `json:"flows_created" yaml:"flows_created"`
	FlowsKept    int `json:"flows_kept" yaml:"flows_kept"`
	PagesCreated int `json:"pages_created" yaml:"pages_created"`
}

// Refresher is told when a project's flows and pages have changed
type Refresher interface {
	Invalidate(ctx context.Context, projectID string)
}

// Synchronizer runs sync passes against a backend. Runs for the same
// project are serialised.
type Synchronizer struct {
	backend   backend.Backend
	refresher Refresher

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New creates a Synchronizer; refresher may be nil
func New(b backend.Backend, refresher Refresher) *Synchronizer {
	return &Synchronizer{
		backend:   b,
		refresher: refresher,
		locks:     make(map[string]*sync.Mutex),
	}
}

func (s *Synchronizer) lock(projectID string) func() {
	s.mu.Lock()
	l, ok := s.locks[projectID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[projectID] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// IsFlowFolderName reports whether a top-level folder name marks a flow:
// it contains "FLOW" or is written entirely in upper case
func IsFlowFolderName(name string) bool {
	return strings.Contains(name, "FLOW") || parser.IsUpperCaseName(name)
}

// FlowFolders returns the top-level folders of s that represent flows, in
// tree order
func FlowFolders(s models.Structure) []models.TreeNode {
	var out []models.TreeNode
	for _, n := range s.Folders {
		if n.IsFolder() && IsFlowFolderName(n.Name) {
			out = append(out, n)
		}
	}
	return out
}

// SyncFlowsFromStructure makes the project's flows and pages mirror the
// flow folders of s. Stale flows are deleted, every existing page of the
// project is deleted, each flow folder is matched by name to an existing
// flow or created with its position as order, and one page is created per
// leaf child. Records of other projects in existingFlows or existingPages
// are ignored.
func (s *Synchronizer) SyncFlowsFromStructure(
	ctx context.Context,
	structure models.Structure,
	existingFlows []models.Flow,
	existingPages []models.Page,
	projectID string,
) (Result, error) {
	var res Result
	if projectID == "" {
		return res, fmt.Errorf("project id is required")
	}

	unlock := s.lock(projectID)
	defer unlock()

	folders := FlowFolders(structure)
	wanted := make(map[string]bool, len(folders))
	for _, f := range folders {
		wanted[f.Name] = true
	}

	logger.Info("Starting flow sync", map[string]interface{}{
		"project":      projectID,
		"flow_folders": len(folders),
	})

	kept := make(map[string]models.Flow)
	for _, flow := range existingFlows {
		if flow.Project != projectID {
			continue
		}
		if wanted[flow.Name] {
			if _, dup := kept[flow.Name]; !dup {
				kept[flow.Name] = flow
			}
			continue
		}
		if err := s.backend.DeleteFlow(ctx, flow.ID); err != nil {
			return res, s.fail(StepDeleteFlow, flow.Name, err, projectID)
		}
		res.FlowsDeleted++
	}

	for _, page := range existingPages {
		if page.Project != projectID {
			continue
		}
		if err := s.backend.DeletePage(ctx, page.ID); err != nil {
			return res, s.fail(StepDeletePage, page.Name, err, projectID)
		}
		res.PagesDeleted++
	}

	for i, folder := range folders {
		flow, ok := kept[folder.Name]
		if ok {
			res.FlowsKept++
		} else {
			created, err := s.backend.CreateFlow(ctx, models.Flow{
				Name:    folder.Name,
				Project: projectID,
				Order:   i,
			})
			if err != nil {
				return res, s.fail(StepCreateFlow, folder.Name, err, projectID)
			}
			flow = created
			kept[folder.Name] = flow
			res.FlowsCreated++
		}

		for _, child := range folder.Children {
			if child.IsFolder() {
				continue
			}
			_, err := s.backend.CreatePage(ctx, models.Page{
				Name:    child.Name,
				Project: projectID,
				Flow:    flow.ID,
				Status:  models.DefaultPageStatus,
			})
			if err != nil {
				return res, s.fail(StepCreatePage, child.Name, err, projectID)
			}
			res.PagesCreated++
		}
	}

	s.refresh(ctx, projectID)

	logger.Info("Flow sync completed", map[string]interface{}{
		"project":       projectID,
		"flows_deleted": res.FlowsDeleted,
		"flows_created": res.FlowsCreated,
		"flows_kept":    res.FlowsKept,
		"pages_deleted": res.PagesDeleted,
		"pages_created": res.PagesCreated,
	})
	return res, nil
}

// Sync lists the project's current flows and pages from the backend and
// runs SyncFlowsFromStructure with them
func (s *Synchronizer) Sync(ctx context.Context, structure models.Structure, projectID string) (Result, error) {
	flows, err := s.backend.ListFlows(ctx, projectID)
	if err != nil {
		return Result{}, fmt.Errorf("listing flows: %w", err)
	}
	pages, err := s.backend.ListPages(ctx, projectID)
	if err != nil {
		return Result{}, fmt.Errorf("listing pages: %w", err)
	}
	return s.SyncFlowsFromStructure(ctx, structure, flows, pages, projectID)
}

// fail refreshes cached views, since earlier steps may already have
// changed the backend, and wraps err
func (s *Synchronizer) fail(step Step, entity string, err error, projectID string) error {
	s.refresh(context.Background(), projectID)
	stepErr := &StepError{Step: step, Entity: entity, Err: err}
	logger.Error("Flow sync aborted", err, map[string]interface{}{
		"project": projectID,
		"step":    string(step),
		"entity":  entity,
	})
	return stepErr
}

func (s *Synchronizer) refresh(ctx context.Context, projectID string) {
	if s.refresher != nil {
		s.refresher.Invalidate(ctx, projectID)
	}
}
