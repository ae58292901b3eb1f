package models

import (
	"encoding/json"

	"github.com/google/uuid"
)

// NodeKind tags a tree node as a folder or as one of the leaf kinds
type NodeKind string

const (
	KindFolder   NodeKind = "folder"
	KindFile     NodeKind = "file"
	KindScenario NodeKind = "scenario"
)

// TreeKind identifies which per-project tree is being edited
type TreeKind string

const (
	TreeAppStructure      TreeKind = "app_structure"
	TreePracticeScenarios TreeKind = "practice_scenarios"
)

// LeafKind returns the non-folder kind used by the tree
func (k TreeKind) LeafKind() NodeKind {
	if k == TreePracticeScenarios {
		return KindScenario
	}
	return KindFile
}

// Valid reports whether k is one of the known tree kinds
func (k TreeKind) Valid() bool {
	return k == TreeAppStructure || k == TreePracticeScenarios
}

// TreeNode is a single folder or leaf in a structure tree.
// Children is non-nil for folders and nil for leaves.
type TreeNode struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Kind     NodeKind   `json:"type"`
	Children []TreeNode `json:"children,omitempty"`
}

// IsFolder reports whether the node may hold children
func (n TreeNode) IsFolder() bool {
	return n.Kind == KindFolder
}

type treeNodeJSON struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Kind     NodeKind    `json:"type"`
	Children *[]TreeNode `json:"children,omitempty"`
}

// MarshalJSON always emits children for folders, even when empty, and
// never for leaves.
func (n TreeNode) MarshalJSON() ([]byte, error) {
	out := treeNodeJSON{ID: n.ID, Name: n.Name, Kind: n.Kind}
	if n.IsFolder() {
		children := n.Children
		if children == nil {
			children = []TreeNode{}
		}
		out.Children = &children
	}
	return json.Marshal(out)
}

// UnmarshalJSON restores the folder/leaf children invariant on stored data
func (n *TreeNode) UnmarshalJSON(data []byte) error {
	var in treeNodeJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	n.ID = in.ID
	n.Name = in.Name
	n.Kind = in.Kind
	n.Children = nil
	if n.IsFolder() {
		n.Children = []TreeNode{}
		if in.Children != nil {
			n.Children = *in.Children
		}
	}
	return nil
}

type yamlLeaf struct {
	ID   string   `yaml:"id"`
	Name string   `yaml:"name"`
	Kind NodeKind `yaml:"type"`
}

type yamlFolder struct {
	ID       string     `yaml:"id"`
	Name     string     `yaml:"name"`
	Kind     NodeKind   `yaml:"type"`
	Children []TreeNode `yaml:"children"`
}

// MarshalYAML mirrors the JSON shape
func (n TreeNode) MarshalYAML() (interface{}, error) {
	if !n.IsFolder() {
		return yamlLeaf{ID: n.ID, Name: n.Name, Kind: n.Kind}, nil
	}
	children := n.Children
	if children == nil {
		children = []TreeNode{}
	}
	return yamlFolder{ID: n.ID, Name: n.Name, Kind: n.Kind, Children: children}, nil
}

// Structure is the persisted forest of top-level nodes
type Structure struct {
	Folders []TreeNode `json:"folders" yaml:"folders"`
}

// EmptyStructure returns a structure with no nodes
func EmptyStructure() Structure {
	return Structure{Folders: []TreeNode{}}
}

// MarshalJSON keeps "folders" an array even for a zero Structure
func (s Structure) MarshalJSON() ([]byte, error) {
	folders := s.Folders
	if folders == nil {
		folders = []TreeNode{}
	}
	return json.Marshal(struct {
		Folders []TreeNode `json:"folders"`
	}{Folders: folders})
}

// MarshalYAML mirrors the JSON shape
func (s Structure) MarshalYAML() (interface{}, error) {
	folders := s.Folders
	if folders == nil {
		folders = []TreeNode{}
	}
	return struct {
		Folders []TreeNode `yaml:"folders"`
	}{Folders: folders}, nil
}

// NewID returns a fresh node identifier
func NewID() string {
	return uuid.NewString()
}

// NewNode builds a node with a fresh id; folders start with no children
func NewNode(name string, kind NodeKind) TreeNode {
	node := TreeNode{ID: NewID(), Name: name, Kind: kind}
	if kind == KindFolder {
		node.Children = []TreeNode{}
	}
	return node
}

var scaffoldNames = map[string]bool{
	"components": true,
	"pages":      true,
	"utils":      true,
}

// IsDefaultScaffold reports whether s is the placeholder tree older
// releases seeded every project with: exactly the empty folders
// components, pages and utils, in any order.
func IsDefaultScaffold(s Structure) bool {
	if len(s.Folders) != len(scaffoldNames) {
		return false
	}
	seen := make(map[string]bool, len(scaffoldNames))
	for _, node := range s.Folders {
		if !node.IsFolder() || len(node.Children) > 0 {
			return false
		}
		if !scaffoldNames[node.Name] || seen[node.Name] {
			return false
		}
		seen[node.Name] = true
	}
	return true
}
