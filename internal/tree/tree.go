// Package tree implements pure edit operations on a structure tree.
// Every operation returns a new Structure and leaves its input untouched;
// when an operation is rejected the input is returned as is together
// with the error.
package tree

import (
	"errors"
	"strings"

	"github.com/takak2166/appstruct/internal/models"
)

var (
	ErrEmptyName    = errors.New("name must not be empty")
	ErrNodeNotFound = errors.New("node not found")
	ErrNotFolder    = errors.New("only folders can contain other nodes")
	ErrInvalidKind  = errors.New("invalid node kind")
)

// AddNode appends a new node named name under the folder parentID, or at
// the top level when parentID is empty
func AddNode(s models.Structure, parentID string, kind models.NodeKind, name string) (models.Structure, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return s, ErrEmptyName
	}
	switch kind {
	case models.KindFolder, models.KindFile, models.KindScenario:
	default:
		return s, ErrInvalidKind
	}

	node := models.NewNode(name, kind)
	if parentID == "" {
		folders := cloneNodes(s.Folders)
		return models.Structure{Folders: append(folders, node)}, nil
	}

	parent, ok := Find(s, parentID)
	if !ok {
		return s, ErrNodeNotFound
	}
	if !parent.IsFolder() {
		return s, ErrNotFolder
	}

	folders := mapNodes(s.Folders, func(n models.TreeNode) models.TreeNode {
		if n.ID == parentID {
			n.Children = append(n.Children, node)
		}
		return n
	})
	return models.Structure{Folders: folders}, nil
}

// DeleteNode removes the node with the given id and its whole subtree
func DeleteNode(s models.Structure, id string) (models.Structure, error) {
	if _, ok := Find(s, id); !ok {
		return s, ErrNodeNotFound
	}
	return models.Structure{Folders: without(s.Folders, id)}, nil
}

// RenameNode replaces the name of the node with the given id
func RenameNode(s models.Structure, id, name string) (models.Structure, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return s, ErrEmptyName
	}
	if _, ok := Find(s, id); !ok {
		return s, ErrNodeNotFound
	}

	folders := mapNodes(s.Folders, func(n models.TreeNode) models.TreeNode {
		if n.ID == id {
			n.Name = name
		}
		return n
	})
	return models.Structure{Folders: folders}, nil
}

// Find returns the node with the given id at any depth
func Find(s models.Structure, id string) (models.TreeNode, bool) {
	var found models.TreeNode
	var ok bool
	Walk(s, func(n models.TreeNode, _ []models.TreeNode) bool {
		if n.ID == id {
			found, ok = n, true
			return false
		}
		return true
	})
	return found, ok
}

// Walk visits nodes depth-first in order, passing each node's ancestors
// (outermost first). Returning false from fn stops the walk.
func Walk(s models.Structure, fn func(n models.TreeNode, ancestors []models.TreeNode) bool) {
	var walk func(nodes []models.TreeNode, ancestors []models.TreeNode) bool
	walk = func(nodes []models.TreeNode, ancestors []models.TreeNode) bool {
		for _, n := range nodes {
			if !fn(n, ancestors) {
				return false
			}
			if len(n.Children) > 0 && !walk(n.Children, append(ancestors[:len(ancestors):len(ancestors)], n)) {
				return false
			}
		}
		return true
	}
	walk(s.Folders, nil)
}

// Count returns the total number of nodes
func Count(s models.Structure) int {
	n := 0
	Walk(s, func(models.TreeNode, []models.TreeNode) bool {
		n++
		return true
	})
	return n
}

// Clone returns a deep copy of s
func Clone(s models.Structure) models.Structure {
	return models.Structure{Folders: cloneNodes(s.Folders)}
}

func cloneNodes(nodes []models.TreeNode) []models.TreeNode {
	return mapNodes(nodes, func(n models.TreeNode) models.TreeNode { return n })
}

// mapNodes rebuilds the forest bottom-up, applying fn to every node after
// its children have been copied
func mapNodes(nodes []models.TreeNode, fn func(models.TreeNode) models.TreeNode) []models.TreeNode {
	out := make([]models.TreeNode, 0, len(nodes))
	for _, n := range nodes {
		if n.Children != nil {
			n.Children = mapNodes(n.Children, fn)
		}
		out = append(out, fn(n))
	}
	return out
}

func without(nodes []models.TreeNode, id string) []models.TreeNode {
	out := make([]models.TreeNode, 0, len(nodes))
	for _, n := range nodes {
		if n.ID == id {
			continue
		}
		if n.Children != nil {
			n.Children = without(n.Children, id)
		}
		out = append(out, n)
	}
	return out
}
