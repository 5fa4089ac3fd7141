package domain

// ColumnID identifies one of the fixed board columns.
type ColumnID string

const (
	ColumnTodo       ColumnID = "todo"
	ColumnInProgress ColumnID = "inProgress"
	ColumnDone       ColumnID = "done"
)

// columnOrder is the fixed left-to-right display order.
var columnOrder = [...]ColumnID{ColumnTodo, ColumnInProgress, ColumnDone} //nolint:gochecknoglobals // closed set

// ColumnIDs returns the column ids in display order.
func ColumnIDs() []ColumnID {
	out := make([]ColumnID, len(columnOrder))
	copy(out, columnOrder[:])
	return out
}

// Valid reports whether c is one of the board columns.
func (c ColumnID) Valid() bool {
	return c.index() >= 0
}

// Title returns the display label for the column, or "" if c is unknown.
func (c ColumnID) Title() string {
	switch c {
	case ColumnTodo:
		return "To Do"
	case ColumnInProgress:
		return "In Progress"
	case ColumnDone:
		return "Done"
	default:
		return ""
	}
}

func (c ColumnID) index() int {
	for i, id := range columnOrder {
		if id == c {
			return i
		}
	}
	return -1
}

// Column is a read-only view of one column and its ordered tasks.
type Column struct {
	ID    ColumnID `json:"id"`
	Title string   `json:"title"`
	Tasks []Task   `json:"tasks"`
}
