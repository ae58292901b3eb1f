package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/takak2166/appstruct/internal/models"
)

// fixture:
//
//	AUTH FLOW (f1)
//	  Login (l1)
//	  shared (f2)
//	    Header (l2)
//	notes.txt (l3)
func fixture() models.Structure {
	return models.Structure{Folders: []models.TreeNode{
		{ID: "f1", Name: "AUTH FLOW", Kind: models.KindFolder, Children: []models.TreeNode{
			{ID: "l1", Name: "Login", Kind: models.KindFile},
			{ID: "f2", Name: "shared", Kind: models.KindFolder, Children: []models.TreeNode{
				{ID: "l2", Name: "Header", Kind: models.KindFile},
			}},
		}},
		{ID: "l3", Name: "notes.txt", Kind: models.KindFile},
	}}
}

func TestAddNode(t *testing.T) {
	t.Run("top level", func(t *testing.T) {
		in := fixture()
		out, err := AddNode(in, "", models.KindFolder, "  MAIN FLOW ")
		require.NoError(t, err)
		require.Len(t, out.Folders, 3)

		added := out.Folders[2]
		assert.Equal(t, "MAIN FLOW", added.Name)
		assert.NotEmpty(t, added.ID)
		assert.NotNil(t, added.Children)
		assert.Equal(t, fixture(), in, "input must not change")
	})

	t.Run("nested folder", func(t *testing.T) {
		in := fixture()
		out, err := AddNode(in, "f2", models.KindFile, "Footer")
		require.NoError(t, err)

		shared, ok := Find(out, "f2")
		require.True(t, ok)
		require.Len(t, shared.Children, 2)
		assert.Equal(t, "Footer", shared.Children[1].Name)
		assert.Nil(t, shared.Children[1].Children)
		assert.Equal(t, fixture(), in, "input must not change")
	})

	rejected := []struct {
		name     string
		parentID string
		kind     models.NodeKind
		nodeName string
		err      error
	}{
		{"empty name", "", models.KindFile, "   ", ErrEmptyName},
		{"missing parent", "nope", models.KindFile, "x", ErrNodeNotFound},
		{"leaf parent", "l1", models.KindFile, "x", ErrNotFolder},
		{"unknown kind", "", models.NodeKind("widget"), "x", ErrInvalidKind},
	}
	for _, tt := range rejected {
		t.Run(tt.name, func(t *testing.T) {
			in := fixture()
			out, err := AddNode(in, tt.parentID, tt.kind, tt.nodeName)
			assert.ErrorIs(t, err, tt.err)
			assert.Equal(t, in, out)
		})
	}
}

func TestDeleteNode(t *testing.T) {
	in := fixture()
	out, err := DeleteNode(in, "f1")
	require.NoError(t, err)

	for _, id := range []string{"f1", "l1", "f2", "l2"} {
		_, ok := Find(out, id)
		assert.False(t, ok, "node %s should be gone", id)
	}
	_, ok := Find(out, "l3")
	assert.True(t, ok)
	assert.Equal(t, 1, Count(out))
	assert.Equal(t, 5, Count(in), "input must not change")

	nested, err := DeleteNode(in, "l2")
	require.NoError(t, err)
	shared, _ := Find(nested, "f2")
	assert.Empty(t, shared.Children)
	assert.NotNil(t, shared.Children, "emptied folder keeps a children list")

	same, err := DeleteNode(in, "missing")
	assert.ErrorIs(t, err, ErrNodeNotFound)
	assert.Equal(t, in, same)
}

func TestRenameNode(t *testing.T) {
	in := fixture()
	out, err := RenameNode(in, "l2", "Top bar")
	require.NoError(t, err)

	n, ok := Find(out, "l2")
	require.True(t, ok)
	assert.Equal(t, "Top bar", n.Name)
	assert.Equal(t, fixture(), in)

	same, err := RenameNode(in, "nonexistent-id", "X")
	assert.ErrorIs(t, err, ErrNodeNotFound)
	assert.Equal(t, in, same)

	same, err = RenameNode(in, "l1", " \t")
	assert.ErrorIs(t, err, ErrEmptyName)
	assert.Equal(t, in, same)
}

func TestWalkAncestors(t *testing.T) {
	paths := map[string][]string{}
	Walk(fixture(), func(n models.TreeNode, ancestors []models.TreeNode) bool {
		var names []string
		for _, a := range ancestors {
			names = append(names, a.Name)
		}
		paths[n.Name] = names
		return true
	})

	assert.Equal(t, []string{"AUTH FLOW", "shared"}, paths["Header"])
	assert.Equal(t, []string{"AUTH FLOW"}, paths["Login"])
	assert.Nil(t, paths["notes.txt"])
}

func TestCloneIsDeep(t *testing.T) {
	in := fixture()
	c := Clone(in)
	c.Folders[0].Children[0].Name = "changed"
	assert.Equal(t, "Login", in.Folders[0].Children[0].Name)
}
