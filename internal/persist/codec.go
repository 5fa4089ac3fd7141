package persist

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gosuda/taskboard/internal/domain"
)

// document is the stored shape of a board. Column entries repeat the full task
// so that older readers which only look at columns still see every field.
type document struct {
	Tasks   []taskDoc   `json:"tasks"`
	Columns []columnDoc `json:"columns"`
}

type columnDoc struct {
	ID    domain.ColumnID `json:"id"`
	Title string          `json:"title"`
	Tasks []taskDoc       `json:"tasks"`
}

type taskDoc struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Column      domain.ColumnID `json:"column"`
	CreatedAt   string          `json:"createdAt"`
	// Order is the task's position in its column. It is written as a display
	// hint and ignored on decode; slice position is authoritative.
	Order *int `json:"order,omitempty"`
}

// Encode serializes a board snapshot.
func Encode(b *domain.Board) ([]byte, error) {
	doc := document{
		Tasks:   make([]taskDoc, 0, b.Len()),
		Columns: make([]columnDoc, 0, len(domain.ColumnIDs())),
	}

	for _, t := range b.Tasks() {
		doc.Tasks = append(doc.Tasks, toTaskDoc(t, b.Position(t.ID)))
	}
	for _, col := range b.Columns() {
		cd := columnDoc{ID: col.ID, Title: col.Title, Tasks: make([]taskDoc, 0, len(col.Tasks))}
		for i, t := range col.Tasks {
			cd.Tasks = append(cd.Tasks, toTaskDoc(t, i))
		}
		doc.Columns = append(doc.Columns, cd)
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("persist.Encode: %w", err)
	}
	return data, nil
}

// Decode parses and validates a stored board. Documents that fail the schema
// return *SchemaError; structurally sound documents whose task list and column
// lists disagree return an error wrapping domain.ErrCorrupt.
func Decode(data []byte) (*domain.Board, error) {
	if err := validateDocument(data); err != nil {
		return nil, fmt.Errorf("persist.Decode: %w", err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("persist.Decode: %w", err)
	}

	tasks := make([]domain.Task, 0, len(doc.Tasks))
	for _, td := range doc.Tasks {
		t, err := td.toTask()
		if err != nil {
			return nil, fmt.Errorf("persist.Decode: %w", err)
		}
		tasks = append(tasks, t)
	}

	placement := make(map[domain.ColumnID][]string, len(doc.Columns))
	for _, cd := range doc.Columns {
		if _, dup := placement[cd.ID]; dup {
			return nil, fmt.Errorf("persist.Decode: column %q listed twice: %w", cd.ID, domain.ErrCorrupt)
		}
		ids := make([]string, 0, len(cd.Tasks))
		for _, ref := range cd.Tasks {
			ids = append(ids, ref.ID)
		}
		placement[cd.ID] = ids
	}

	b, err := domain.BuildBoard(tasks, placement)
	if err != nil {
		return nil, fmt.Errorf("persist.Decode: %w", err)
	}
	return b, nil
}

func toTaskDoc(t domain.Task, pos int) taskDoc {
	td := taskDoc{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Column:      t.Column,
		CreatedAt:   t.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
	if pos >= 0 {
		td.Order = &pos
	}
	return td
}

func (td taskDoc) toTask() (domain.Task, error) {
	created, err := time.Parse(time.RFC3339Nano, td.CreatedAt)
	if err != nil {
		return domain.Task{}, fmt.Errorf("task %q createdAt: %w", td.ID, err)
	}
	return domain.Task{
		ID:          td.ID,
		Title:       td.Title,
		Description: td.Description,
		Column:      td.Column,
		CreatedAt:   created.UTC(),
	}, nil
}
