package entity

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func newNotebook(name string, parent *Notebook) *Notebook {
	nb := &Notebook{Id: uuid.New(), Name: name}
	if parent != nil {
		pid := parent.Id
		nb.ParentId = &pid
	}
	return nb
}

func newNote(owner *Notebook) *Note {
	return &Note{Id: uuid.New(), Title: "note", NotebookId: owner.Id}
}

func TestNotebookTree_AddChild(t *testing.T) {
	a := newNotebook("a", nil)
	b := newNotebook("b", nil)
	tree := NewNotebookTree([]*Notebook{a, b}, nil)

	require.NoError(t, tree.AddChild(a.Id, b.Id))

	require.NotNil(t, b.ParentId)
	assert.Equal(t, a.Id, *b.ParentId)
	assert.Equal(t, []*Notebook{b}, tree.Children(a.Id))
	assert.Equal(t, []*Notebook{a}, tree.Roots())

	parent, ok := tree.Parent(b.Id)
	require.True(t, ok)
	assert.Equal(t, a, parent)
}

func TestNotebookTree_AddChildReparents(t *testing.T) {
	a := newNotebook("a", nil)
	b := newNotebook("b", nil)
	c := newNotebook("c", a)
	tree := NewNotebookTree([]*Notebook{a, b, c}, nil)

	require.NoError(t, tree.AddChild(b.Id, c.Id))

	assert.Empty(t, tree.Children(a.Id))
	assert.Equal(t, []*Notebook{c}, tree.Children(b.Id))
	assert.Equal(t, b.Id, *c.ParentId)
}

func TestNotebookTree_AddChildRejectsCycles(t *testing.T) {
	a := newNotebook("a", nil)
	b := newNotebook("b", a)
	c := newNotebook("c", b)
	tree := NewNotebookTree([]*Notebook{a, b, c}, nil)

	assert.ErrorIs(t, tree.AddChild(a.Id, a.Id), ErrNotebookCycle)
	assert.ErrorIs(t, tree.AddChild(c.Id, a.Id), ErrNotebookCycle)
	assert.ErrorIs(t, tree.AddChild(b.Id, a.Id), ErrNotebookCycle)

	assert.Nil(t, a.ParentId)
	assert.Equal(t, []*Notebook{a}, tree.Roots())
}

func TestNotebookTree_AddChildUnknownNotebook(t *testing.T) {
	a := newNotebook("a", nil)
	tree := NewNotebookTree([]*Notebook{a}, nil)

	assert.ErrorIs(t, tree.AddChild(a.Id, uuid.New()), ErrNotebookNotInTree)
	assert.ErrorIs(t, tree.AddChild(uuid.New(), a.Id), ErrNotebookNotInTree)
}

func TestNotebookTree_RemoveChild(t *testing.T) {
	a := newNotebook("a", nil)
	b := newNotebook("b", a)
	other := newNotebook("other", nil)
	tree := NewNotebookTree([]*Notebook{a, b, other}, nil)

	assert.False(t, tree.RemoveChild(other.Id, b.Id))
	require.NotNil(t, b.ParentId)

	assert.True(t, tree.RemoveChild(a.Id, b.Id))
	assert.Nil(t, b.ParentId)
	assert.Empty(t, tree.Children(a.Id))
	assert.Contains(t, tree.Roots(), b)

	assert.False(t, tree.RemoveChild(a.Id, b.Id))
}

func TestNotebookTree_AddNote(t *testing.T) {
	a := newNotebook("a", nil)
	b := newNotebook("b", nil)
	tree := NewNotebookTree([]*Notebook{a, b}, nil)

	note := &Note{Id: uuid.New(), Title: "x"}
	require.NoError(t, tree.AddNote(a.Id, note))
	assert.Equal(t, a.Id, note.NotebookId)
	assert.Equal(t, []*Note{note}, tree.Notes(a.Id))

	require.NoError(t, tree.AddNote(b.Id, note))
	assert.Empty(t, tree.Notes(a.Id))
	assert.Equal(t, []*Note{note}, tree.Notes(b.Id))

	assert.ErrorIs(t, tree.AddNote(uuid.New(), note), ErrNotebookNotInTree)
	assert.ErrorIs(t, tree.AddNote(a.Id, nil), ErrNilNote)
}

func TestNotebookTree_Insert(t *testing.T) {
	a := newNotebook("a", nil)
	tree := NewNotebookTree([]*Notebook{a}, nil)

	child := newNotebook("child", a)
	tree.Insert(child)
	assert.Equal(t, []*Notebook{child}, tree.Children(a.Id))

	stray := newNotebook("stray", newNotebook("missing", nil))
	tree.Insert(stray)
	assert.Equal(t, 3, tree.Len())
	assert.Equal(t, []*Notebook{a, stray}, tree.Roots())

	tree.Insert(child)
	assert.Equal(t, 3, tree.Len())
}

func TestNotebookTree_AddChildUnderLoadedNonRoot(t *testing.T) {
	a := newNotebook("a", nil)
	b := newNotebook("b", a)

	// only b is loaded; its own parent stays outside the arena
	tree := NewNotebookTree([]*Notebook{b}, nil)
	c := newNotebook("c", nil)
	tree.Insert(c)

	require.NoError(t, tree.AddChild(b.Id, c.Id))
	assert.Equal(t, b.Id, *c.ParentId)
	assert.Equal(t, a.Id, *b.ParentId)
	assert.Equal(t, []*Notebook{c}, tree.Children(b.Id))
	assert.Equal(t, []*Notebook{b}, tree.Roots())
}

func TestNotebookTree_Path(t *testing.T) {
	a := newNotebook("a", nil)
	b := newNotebook("b", a)
	c := newNotebook("c", b)
	tree := NewNotebookTree([]*Notebook{c, b, a}, nil)

	assert.Equal(t, []*Notebook{a, b, c}, tree.Path(c.Id))
	assert.Empty(t, tree.Path(uuid.New()))
}

func TestNotebookTree_CascadeOrder(t *testing.T) {
	a := newNotebook("a", nil)
	b := newNotebook("b", a)
	c := newNotebook("c", a)
	d := newNotebook("d", b)
	na := newNote(a)
	nb := newNote(b)
	nd := newNote(d)
	tree := NewNotebookTree([]*Notebook{a, b, c, d}, []*Note{na, nb, nd})

	steps, err := tree.CascadeOrder(a.Id)
	require.NoError(t, err)

	assert.Equal(t, []CascadeStep{
		{Kind: CascadeNote, Id: na.Id},
		{Kind: CascadeNote, Id: nb.Id},
		{Kind: CascadeNote, Id: nd.Id},
		{Kind: CascadeNotebook, Id: d.Id},
		{Kind: CascadeNotebook, Id: b.Id},
		{Kind: CascadeNotebook, Id: c.Id},
		{Kind: CascadeNotebook, Id: a.Id},
	}, steps)

	_, err = tree.CascadeOrder(uuid.New())
	assert.ErrorIs(t, err, ErrNotebookNotInTree)
}

func TestNotebookTree_CascadeOrderDeepChain(t *testing.T) {
	const depth = 10000
	notebooks := make([]*Notebook, 0, depth)
	var parent *Notebook
	for i := 0; i < depth; i++ {
		nb := newNotebook(fmt.Sprintf("nb-%d", i), parent)
		notebooks = append(notebooks, nb)
		parent = nb
	}
	tree := NewNotebookTree(notebooks, nil)

	steps, err := tree.CascadeOrder(notebooks[0].Id)
	require.NoError(t, err)
	require.Len(t, steps, depth)
	assert.Equal(t, notebooks[depth-1].Id, steps[0].Id)
	assert.Equal(t, notebooks[0].Id, steps[depth-1].Id)
}

// drawTree builds a random forest where every notebook's parent was drawn
// from the notebooks created before it.
func drawTree(t *rapid.T) ([]*Notebook, []*Note) {
	count := rapid.IntRange(1, 25).Draw(t, "notebooks")
	notebooks := make([]*Notebook, 0, count)
	for i := 0; i < count; i++ {
		var parent *Notebook
		if i > 0 && rapid.Bool().Draw(t, fmt.Sprintf("hasParent%d", i)) {
			parent = notebooks[rapid.IntRange(0, i-1).Draw(t, fmt.Sprintf("parent%d", i))]
		}
		notebooks = append(notebooks, newNotebook(fmt.Sprintf("nb-%d", i), parent))
	}

	noteCount := rapid.IntRange(0, 40).Draw(t, "notes")
	notes := make([]*Note, 0, noteCount)
	for i := 0; i < noteCount; i++ {
		owner := notebooks[rapid.IntRange(0, count-1).Draw(t, fmt.Sprintf("owner%d", i))]
		notes = append(notes, newNote(owner))
	}
	return notebooks, notes
}

func assertTreeConsistent(t *rapid.T, tree *NotebookTree, notebooks []*Notebook) {
	for _, nb := range notebooks {
		if nb.ParentId == nil {
			if !containsNotebook(tree.Roots(), nb) {
				t.Fatalf("root %s missing from roots", nb.Name)
			}
			continue
		}
		if !containsNotebook(tree.Children(*nb.ParentId), nb) {
			t.Fatalf("%s missing from its parent's children", nb.Name)
		}
		if tree.IsAncestor(nb.Id, nb.Id) {
			t.Fatalf("%s is its own ancestor", nb.Name)
		}
	}
	for _, nb := range notebooks {
		for _, child := range tree.Children(nb.Id) {
			if child.ParentId == nil || *child.ParentId != nb.Id {
				t.Fatalf("child %s of %s has a different parent", child.Name, nb.Name)
			}
		}
	}
}

func containsNotebook(list []*Notebook, target *Notebook) bool {
	for _, nb := range list {
		if nb == target {
			return true
		}
	}
	return false
}

func TestNotebookTree_LinksStayConsistentProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		notebooks, notes := drawTree(t)
		tree := NewNotebookTree(notebooks, notes)
		assertTreeConsistent(t, tree, notebooks)

		ops := rapid.IntRange(0, 30).Draw(t, "ops")
		for i := 0; i < ops; i++ {
			p := notebooks[rapid.IntRange(0, len(notebooks)-1).Draw(t, fmt.Sprintf("p%d", i))]
			c := notebooks[rapid.IntRange(0, len(notebooks)-1).Draw(t, fmt.Sprintf("c%d", i))]

			if rapid.Bool().Draw(t, fmt.Sprintf("remove%d", i)) {
				wasChild := c.ParentId != nil && *c.ParentId == p.Id
				removed := tree.RemoveChild(p.Id, c.Id)
				if removed != wasChild {
					t.Fatalf("RemoveChild reported %v for wasChild=%v", removed, wasChild)
				}
				if removed && (c.ParentId != nil || containsNotebook(tree.Children(p.Id), c)) {
					t.Fatalf("RemoveChild left a dangling link")
				}
			} else {
				wouldCycle := p.Id == c.Id || tree.IsAncestor(c.Id, p.Id)
				err := tree.AddChild(p.Id, c.Id)
				if wouldCycle {
					if err == nil {
						t.Fatalf("AddChild accepted a cycle")
					}
				} else {
					if err != nil {
						t.Fatalf("AddChild: %v", err)
					}
					if c.ParentId == nil || *c.ParentId != p.Id || !containsNotebook(tree.Children(p.Id), c) {
						t.Fatalf("AddChild did not link both sides")
					}
				}
			}
			assertTreeConsistent(t, tree, notebooks)
		}
	})
}

func TestNotebookTree_CascadeOrderCoversSubtreeProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		notebooks, notes := drawTree(t)
		tree := NewNotebookTree(notebooks, notes)
		target := notebooks[rapid.IntRange(0, len(notebooks)-1).Draw(t, "target")]

		steps, err := tree.CascadeOrder(target.Id)
		if err != nil {
			t.Fatalf("CascadeOrder: %v", err)
		}

		inSubtree := func(id uuid.UUID) bool {
			return id == target.Id || tree.IsAncestor(target.Id, id)
		}

		position := make(map[uuid.UUID]int, len(steps))
		for i, step := range steps {
			if _, dup := position[step.Id]; dup {
				t.Fatalf("%s %s deleted twice", step.Kind, step.Id)
			}
			position[step.Id] = i
		}

		for _, nb := range notebooks {
			_, deleted := position[nb.Id]
			if deleted != inSubtree(nb.Id) {
				t.Fatalf("notebook %s deleted=%v inSubtree=%v", nb.Name, deleted, inSubtree(nb.Id))
			}
			if deleted && nb.ParentId != nil && *nb.ParentId != target.Id && inSubtree(*nb.ParentId) {
				if position[nb.Id] > position[*nb.ParentId] {
					t.Fatalf("child %s deleted after its parent", nb.Name)
				}
			}
		}
		for _, n := range notes {
			_, deleted := position[n.Id]
			if deleted != inSubtree(n.NotebookId) {
				t.Fatalf("note deleted=%v but owner inSubtree=%v", deleted, inSubtree(n.NotebookId))
			}
			if deleted && position[n.Id] > position[n.NotebookId] {
				t.Fatalf("note deleted after its notebook")
			}
		}
		if steps[len(steps)-1].Id != target.Id {
			t.Fatalf("target must be deleted last")
		}
	})
}
