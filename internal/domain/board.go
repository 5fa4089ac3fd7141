package domain

import (
	"fmt"
	"slices"
)

// Board is an immutable snapshot of the task board. Tasks are held once, by id;
// each column keeps the ordered ids of the tasks it contains, and a task's
// position in that slice is its display order.
//
// Methods that change the board return a new snapshot and leave the receiver
// untouched, so a *Board may be shared freely between readers.
type Board struct {
	tasks   map[string]Task
	columns [len(columnOrder)][]string
}

// NewBoard returns an empty board with all columns present.
func NewBoard() *Board {
	return &Board{tasks: make(map[string]Task)}
}

// BuildBoard assembles a board from a task set and the per-column placement
// order. The result must satisfy Validate.
func BuildBoard(tasks []Task, placement map[ColumnID][]string) (*Board, error) {
	b := NewBoard()
	for _, t := range tasks {
		if _, dup := b.tasks[t.ID]; dup {
			return nil, fmt.Errorf("domain.BuildBoard: duplicate task %q: %w", t.ID, ErrCorrupt)
		}
		b.tasks[t.ID] = t
	}
	for col, ids := range placement {
		i := col.index()
		if i < 0 {
			return nil, fmt.Errorf("domain.BuildBoard: unknown column %q: %w", col, ErrCorrupt)
		}
		b.columns[i] = slices.Clone(ids)
	}
	if err := b.Validate(); err != nil {
		return nil, fmt.Errorf("domain.BuildBoard: %w", err)
	}
	return b, nil
}

// Len returns the number of tasks on the board.
func (b *Board) Len() int {
	return len(b.tasks)
}

// Task looks up a task by id.
func (b *Board) Task(id string) (Task, bool) {
	t, ok := b.tasks[id]
	return t, ok
}

// Tasks returns every task, newest first.
func (b *Board) Tasks() []Task {
	out := make([]Task, 0, len(b.tasks))
	for _, t := range b.tasks {
		out = append(out, t)
	}
	slices.SortFunc(out, func(x, y Task) int {
		switch {
		case x.newerThan(y):
			return -1
		case y.newerThan(x):
			return 1
		default:
			return 0
		}
	})
	return out
}

// ColumnTaskIDs returns the ordered task ids of column c.
func (b *Board) ColumnTaskIDs(c ColumnID) []string {
	i := c.index()
	if i < 0 {
		return nil
	}
	return slices.Clone(b.columns[i])
}

// ColumnTasks returns the ordered tasks of column c.
func (b *Board) ColumnTasks(c ColumnID) []Task {
	i := c.index()
	if i < 0 {
		return nil
	}
	out := make([]Task, 0, len(b.columns[i]))
	for _, id := range b.columns[i] {
		out = append(out, b.tasks[id])
	}
	return out
}

// Columns returns every column in display order.
func (b *Board) Columns() []Column {
	out := make([]Column, 0, len(columnOrder))
	for _, c := range columnOrder {
		out = append(out, Column{ID: c, Title: c.Title(), Tasks: b.ColumnTasks(c)})
	}
	return out
}

// Snapshot is the render-ready form of a board.
type Snapshot struct {
	Columns []Column `json:"columns"`
	Tasks   []Task   `json:"tasks"`
}

// Snapshot returns the columns in display order and the flat task list.
func (b *Board) Snapshot() Snapshot {
	return Snapshot{Columns: b.Columns(), Tasks: b.Tasks()}
}

// Position returns the index of the task within its column, or -1.
func (b *Board) Position(id string) int {
	t, ok := b.tasks[id]
	if !ok {
		return -1
	}
	return slices.Index(b.columns[t.Column.index()], id)
}

// Insert returns a board with t added to column t.Column, immediately before
// beforeID. When beforeID is empty or not in that column, t goes to the front.
func (b *Board) Insert(t Task, beforeID string) (*Board, error) {
	i := t.Column.index()
	if i < 0 {
		return nil, fmt.Errorf("domain.Board.Insert: column %q: %w", t.Column, ErrCorrupt)
	}
	if _, dup := b.tasks[t.ID]; dup {
		return nil, fmt.Errorf("domain.Board.Insert: task %q already placed: %w", t.ID, ErrCorrupt)
	}

	next := b.clone()
	next.tasks[t.ID] = t

	src := b.columns[i]
	at := 0
	if beforeID != "" {
		if j := slices.Index(src, beforeID); j >= 0 {
			at = j
		}
	}
	col := make([]string, 0, len(src)+1)
	col = append(col, src[:at]...)
	col = append(col, t.ID)
	col = append(col, src[at:]...)
	next.columns[i] = col

	return next, nil
}

// Remove returns a board without the task id, along with the removed task.
// If id is not on the board, the receiver itself is returned with ok false.
func (b *Board) Remove(id string) (next *Board, removed Task, ok bool) {
	removed, ok = b.tasks[id]
	if !ok {
		return b, Task{}, false
	}

	next = b.clone()
	delete(next.tasks, id)

	i := removed.Column.index()
	next.columns[i] = slices.DeleteFunc(slices.Clone(b.columns[i]), func(s string) bool { return s == id })

	return next, removed, true
}

// Validate checks that every task sits in exactly one column, that the column
// matches the task's Column field, and that every placed id names a task.
func (b *Board) Validate() error {
	seen := make(map[string]ColumnID, len(b.tasks))
	for i, ids := range b.columns {
		col := columnOrder[i]
		for _, id := range ids {
			if prev, dup := seen[id]; dup {
				return fmt.Errorf("task %q placed in %q and %q: %w", id, prev, col, ErrCorrupt)
			}
			seen[id] = col

			t, ok := b.tasks[id]
			if !ok {
				return fmt.Errorf("column %q references unknown task %q: %w", col, id, ErrCorrupt)
			}
			if t.Column != col {
				return fmt.Errorf("task %q has column %q but is placed in %q: %w", id, t.Column, col, ErrCorrupt)
			}
		}
	}
	for id := range b.tasks {
		if _, ok := seen[id]; !ok {
			return fmt.Errorf("task %q is not placed in any column: %w", id, ErrCorrupt)
		}
	}
	return nil
}

// Equal reports whether o holds the same tasks in the same placement.
// Timestamps are compared with time.Time.Equal.
func (b *Board) Equal(o *Board) bool {
	if len(b.tasks) != len(o.tasks) {
		return false
	}
	for id, t := range b.tasks {
		u, ok := o.tasks[id]
		if !ok || t.Title != u.Title || t.Description != u.Description ||
			t.Column != u.Column || !t.CreatedAt.Equal(u.CreatedAt) {
			return false
		}
	}
	for i := range b.columns {
		if !slices.Equal(b.columns[i], o.columns[i]) {
			return false
		}
	}
	return true
}

// clone copies the task map and column headers. Column slices are shared with
// the receiver and must be replaced, never appended to, by the caller.
func (b *Board) clone() *Board {
	next := &Board{tasks: make(map[string]Task, len(b.tasks)+1)}
	for id, t := range b.tasks {
		next.tasks[id] = t
	}
	next.columns = b.columns
	return next
}
