package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/takak2166/appstruct/internal/logger"
	"github.com/takak2166/appstruct/internal/models"
)

// ErrNoProject is returned when a tree is edited before a project is selected
var ErrNoProject = errors.New("no project selected")

// Key returns the slot key holding a project's tree of the given kind
func Key(kind models.TreeKind, projectID string) string {
	return string(kind) + "_" + projectID
}

// TreeStore holds the active project's tree of one kind in memory and
// mirrors every change to the project's slot
type TreeStore struct {
	kv        KV
	kind      models.TreeKind
	projectID string
	current   models.Structure
}

// NewTreeStore creates a store for one tree kind backed by kv
func NewTreeStore(kv KV, kind models.TreeKind) *TreeStore {
	return &TreeStore{kv: kv, kind: kind, current: models.EmptyStructure()}
}

// Kind returns the tree kind the store manages
func (t *TreeStore) Kind() models.TreeKind {
	return t.kind
}

// ProjectID returns the selected project, or "" before Select
func (t *TreeStore) ProjectID() string {
	return t.projectID
}

// Current returns the in-memory tree of the selected project
func (t *TreeStore) Current() models.Structure {
	return t.current
}

// Select makes projectID active and loads its tree. A missing or
// unreadable slot gives an empty tree; a slot holding the old default
// scaffold is cleared and also gives an empty tree.
func (t *TreeStore) Select(ctx context.Context, projectID string) (models.Structure, error) {
	if projectID == "" {
		return models.EmptyStructure(), ErrNoProject
	}
	t.projectID = projectID
	t.current = models.EmptyStructure()

	key := Key(t.kind, projectID)
	data, ok, err := t.kv.Get(ctx, key)
	if err != nil {
		return t.current, fmt.Errorf("loading %s: %w", key, err)
	}
	if !ok {
		return t.current, nil
	}

	var s models.Structure
	if err := json.Unmarshal(data, &s); err != nil {
		logger.Debug("Ignoring unreadable stored tree", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return t.current, nil
	}
	if s.Folders == nil {
		s.Folders = []models.TreeNode{}
	}

	if models.IsDefaultScaffold(s) {
		logger.Info("Discarding default scaffold", map[string]interface{}{
			"key": key,
		})
		if err := t.kv.Delete(ctx, key); err != nil {
			return t.current, fmt.Errorf("clearing %s: %w", key, err)
		}
		return t.current, nil
	}

	t.current = s
	return t.current, nil
}

// Replace stores s as the selected project's whole tree
func (t *TreeStore) Replace(ctx context.Context, s models.Structure) error {
	if t.projectID == "" {
		return ErrNoProject
	}
	if s.Folders == nil {
		s.Folders = []models.TreeNode{}
	}

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding tree: %w", err)
	}
	key := Key(t.kind, t.projectID)
	if err := t.kv.Set(ctx, key, data); err != nil {
		return fmt.Errorf("saving %s: %w", key, err)
	}

	t.current = s
	return nil
}

// Apply runs mutate on the current tree and persists the result. When
// mutate fails nothing is written and the error is returned unchanged.
func (t *TreeStore) Apply(ctx context.Context, mutate func(models.Structure) (models.Structure, error)) (models.Structure, error) {
	if t.projectID == "" {
		return t.current, ErrNoProject
	}
	next, err := mutate(t.current)
	if err != nil {
		return t.current, err
	}
	if err := t.Replace(ctx, next); err != nil {
		return t.current, err
	}
	return t.current, nil
}
