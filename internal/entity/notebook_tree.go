package entity

import (
	"errors"
	"fmt"

	"notebook-tree-be/internal/pkg/apperror"

	"github.com/google/uuid"
)

var (
	ErrNotebookNotInTree = fmt.Errorf("notebook is not loaded in the tree: %w", apperror.ErrNotFound)
	ErrNotebookCycle     = fmt.Errorf("notebook cannot be placed under itself or one of its descendants: %w", apperror.ErrInvalid)
	ErrNilNote           = errors.New("note must not be nil")
)

// NotebookTree is an arena of notebooks and notes indexed by id.
// Parent links live on the notebook as an optional id; child and note
// lists are secondary indexes kept in insertion order.
type NotebookTree struct {
	notebooks map[uuid.UUID]*Notebook
	notes     map[uuid.UUID]*Note

	roots           []uuid.UUID
	children        map[uuid.UUID][]uuid.UUID
	notesByNotebook map[uuid.UUID][]uuid.UUID
}

type CascadeKind int

const (
	CascadeNote CascadeKind = iota
	CascadeNotebook
)

func (k CascadeKind) String() string {
	if k == CascadeNote {
		return "note"
	}
	return "notebook"
}

// CascadeStep is a single delete in the order a cascading delete must run.
type CascadeStep struct {
	Kind CascadeKind
	Id   uuid.UUID
}

// NewNotebookTree indexes the given records. Notebooks whose parent is not
// among them are treated as roots; notes whose notebook is missing are skipped.
func NewNotebookTree(notebooks []*Notebook, notes []*Note) *NotebookTree {
	t := &NotebookTree{
		notebooks:       make(map[uuid.UUID]*Notebook, len(notebooks)),
		notes:           make(map[uuid.UUID]*Note, len(notes)),
		children:        make(map[uuid.UUID][]uuid.UUID),
		notesByNotebook: make(map[uuid.UUID][]uuid.UUID),
	}

	for _, nb := range notebooks {
		if nb == nil {
			continue
		}
		t.notebooks[nb.Id] = nb
	}

	for _, nb := range notebooks {
		if nb == nil {
			continue
		}
		if nb.ParentId != nil {
			if _, ok := t.notebooks[*nb.ParentId]; ok && *nb.ParentId != nb.Id {
				t.children[*nb.ParentId] = append(t.children[*nb.ParentId], nb.Id)
				continue
			}
		}
		t.roots = append(t.roots, nb.Id)
	}

	for _, n := range notes {
		if n == nil {
			continue
		}
		if _, ok := t.notebooks[n.NotebookId]; !ok {
			continue
		}
		t.notes[n.Id] = n
		t.notesByNotebook[n.NotebookId] = append(t.notesByNotebook[n.NotebookId], n.Id)
	}

	return t
}

func (t *NotebookTree) Len() int {
	return len(t.notebooks)
}

func (t *NotebookTree) Notebook(id uuid.UUID) (*Notebook, bool) {
	nb, ok := t.notebooks[id]
	return nb, ok
}

func (t *NotebookTree) Note(id uuid.UUID) (*Note, bool) {
	n, ok := t.notes[id]
	return n, ok
}

func (t *NotebookTree) Roots() []*Notebook {
	return t.lookupNotebooks(t.roots)
}

func (t *NotebookTree) Children(id uuid.UUID) []*Notebook {
	return t.lookupNotebooks(t.children[id])
}

func (t *NotebookTree) Notes(id uuid.UUID) []*Note {
	ids := t.notesByNotebook[id]
	result := make([]*Note, 0, len(ids))
	for _, noteId := range ids {
		result = append(result, t.notes[noteId])
	}
	return result
}

// Parent returns the loaded parent of a notebook, if any.
func (t *NotebookTree) Parent(id uuid.UUID) (*Notebook, bool) {
	nb, ok := t.notebooks[id]
	if !ok || nb.IsRoot() {
		return nil, false
	}
	parent, ok := t.notebooks[*nb.ParentId]
	return parent, ok
}

// Insert adds a notebook to the arena. Like NewNotebookTree, a notebook
// whose parent is not loaded becomes a root of the arena.
func (t *NotebookTree) Insert(nb *Notebook) {
	if _, exists := t.notebooks[nb.Id]; exists {
		return
	}
	t.notebooks[nb.Id] = nb
	if nb.ParentId != nil && *nb.ParentId != nb.Id {
		if _, ok := t.notebooks[*nb.ParentId]; ok {
			t.children[*nb.ParentId] = append(t.children[*nb.ParentId], nb.Id)
			return
		}
	}
	t.roots = append(t.roots, nb.Id)
}

// AddChild makes child a child of parent, detaching it from any previous
// parent first. Both sides are updated or neither is.
func (t *NotebookTree) AddChild(parentId, childId uuid.UUID) error {
	parent, ok := t.notebooks[parentId]
	if !ok {
		return ErrNotebookNotInTree
	}
	child, ok := t.notebooks[childId]
	if !ok {
		return ErrNotebookNotInTree
	}
	if parentId == childId || t.IsAncestor(childId, parentId) {
		return ErrNotebookCycle
	}
	if child.ParentId != nil && *child.ParentId == parentId {
		return nil
	}

	if child.ParentId != nil {
		t.children[*child.ParentId] = removeId(t.children[*child.ParentId], childId)
	} else {
		t.roots = removeId(t.roots, childId)
	}

	pid := parent.Id
	child.ParentId = &pid
	t.children[parentId] = append(t.children[parentId], childId)
	return nil
}

// RemoveChild detaches child from parent and makes it a root. It reports
// false and changes nothing when child is not currently under parent.
func (t *NotebookTree) RemoveChild(parentId, childId uuid.UUID) bool {
	siblings := t.children[parentId]
	idx := indexOf(siblings, childId)
	if idx < 0 {
		return false
	}
	t.children[parentId] = append(siblings[:idx:idx], siblings[idx+1:]...)
	t.notebooks[childId].ParentId = nil
	t.roots = append(t.roots, childId)
	return true
}

// AddNote attaches note to the notebook, moving it off any notebook it was
// previously indexed under.
func (t *NotebookTree) AddNote(notebookId uuid.UUID, note *Note) error {
	if note == nil {
		return ErrNilNote
	}
	if _, ok := t.notebooks[notebookId]; !ok {
		return ErrNotebookNotInTree
	}
	if prev, ok := t.notes[note.Id]; ok {
		t.notesByNotebook[prev.NotebookId] = removeId(t.notesByNotebook[prev.NotebookId], note.Id)
	}
	note.NotebookId = notebookId
	t.notes[note.Id] = note
	t.notesByNotebook[notebookId] = append(t.notesByNotebook[notebookId], note.Id)
	return nil
}

// IsAncestor reports whether ancestorId appears on the parent chain of id.
func (t *NotebookTree) IsAncestor(ancestorId, id uuid.UUID) bool {
	seen := make(map[uuid.UUID]struct{})
	current, ok := t.notebooks[id]
	for ok && current.ParentId != nil {
		pid := *current.ParentId
		if pid == ancestorId {
			return true
		}
		if _, loop := seen[pid]; loop {
			return false
		}
		seen[pid] = struct{}{}
		current, ok = t.notebooks[pid]
	}
	return false
}

// Path returns the chain of notebooks from the root down to id.
func (t *NotebookTree) Path(id uuid.UUID) []*Notebook {
	var path []*Notebook
	seen := make(map[uuid.UUID]struct{})
	current, ok := t.notebooks[id]
	for ok {
		if _, loop := seen[current.Id]; loop {
			break
		}
		seen[current.Id] = struct{}{}
		path = append([]*Notebook{current}, path...)
		if current.IsRoot() {
			break
		}
		current, ok = t.notebooks[*current.ParentId]
	}
	return path
}

// CascadeOrder lists the deletes that remove id, its subtree and every note
// in it. For each notebook its notes come first, then each child subtree in
// order, then the notebook itself. The walk uses an explicit stack.
func (t *NotebookTree) CascadeOrder(id uuid.UUID) ([]CascadeStep, error) {
	if _, ok := t.notebooks[id]; !ok {
		return nil, ErrNotebookNotInTree
	}

	type frame struct {
		id       uuid.UUID
		expanded bool
	}

	steps := make([]CascadeStep, 0)
	visited := make(map[uuid.UUID]struct{})
	stack := []frame{{id: id}}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if top.expanded {
			steps = append(steps, CascadeStep{Kind: CascadeNotebook, Id: top.id})
			continue
		}
		if _, dup := visited[top.id]; dup {
			continue
		}
		visited[top.id] = struct{}{}

		for _, noteId := range t.notesByNotebook[top.id] {
			steps = append(steps, CascadeStep{Kind: CascadeNote, Id: noteId})
		}

		stack = append(stack, frame{id: top.id, expanded: true})
		kids := t.children[top.id]
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, frame{id: kids[i]})
		}
	}

	return steps, nil
}

func (t *NotebookTree) lookupNotebooks(ids []uuid.UUID) []*Notebook {
	result := make([]*Notebook, 0, len(ids))
	for _, id := range ids {
		result = append(result, t.notebooks[id])
	}
	return result
}

func indexOf(ids []uuid.UUID, target uuid.UUID) int {
	for i, id := range ids {
		if id == target {
			return i
		}
	}
	return -1
}

func removeId(ids []uuid.UUID, target uuid.UUID) []uuid.UUID {
	idx := indexOf(ids, target)
	if idx < 0 {
		return ids
	}
	return append(ids[:idx:idx], ids[idx+1:]...)
}
