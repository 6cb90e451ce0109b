// Package worksheet holds the editable, in-memory row collection of one
// calculator session. Totals are recomputed explicitly after each change.
package worksheet

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/tax-calculator/pkg/income"
	"github.com/iwvelando/tax-calculator/pkg/tax"
	"github.com/iwvelando/tax-calculator/pkg/validation"
)

var (
	// ErrRowNotFound is returned when a row ID or index does not exist.
	ErrRowNotFound = errors.New("row not found")

	// ErrKindChange is returned when an update tries to switch a row's kind.
	ErrKindChange = errors.New("row kind cannot be changed")
)

// Worksheet is an ordered collection of income rows. It is not safe for
// concurrent use; see Store.
type Worksheet struct {
	ID        string
	CreatedAt time.Time
	UpdatedAt time.Time
	rows      []income.Row
}

// New returns an empty worksheet.
func New() *Worksheet {
	now := time.Now().UTC()
	return &Worksheet{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AppendSalaried appends a salaried row with the default values.
func (ws *Worksheet) AppendSalaried() income.Row {
	row, _ := ws.Append(income.NewSalariedRow())
	return row
}

// AppendFreelance appends a freelance row with the default values.
func (ws *Worksheet) AppendFreelance() income.Row {
	row, _ := ws.Append(income.NewFreelanceRow())
	return row
}

// Append validates row, assigns it an ID when it has none and adds it at the end.
func (ws *Worksheet) Append(row income.Row) (income.Row, error) {
	if err := validation.ValidateRow(row); err != nil {
		return income.Row{}, err
	}
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	row = row.Normalize()
	ws.rows = append(ws.rows, row)
	ws.touch()
	return row, nil
}

// Update replaces the values of the row with the given ID. The row keeps its
// ID and position; its kind may not change.
func (ws *Worksheet) Update(id string, row income.Row) (income.Row, error) {
	i := ws.indexOf(id)
	if i < 0 {
		return income.Row{}, fmt.Errorf("%w: %s", ErrRowNotFound, id)
	}
	if row.Kind == "" {
		row.Kind = ws.rows[i].Kind
	}
	if row.Kind != ws.rows[i].Kind {
		return income.Row{}, fmt.Errorf("%w: %s to %s", ErrKindChange, ws.rows[i].Kind, row.Kind)
	}
	if err := validation.ValidateRow(row); err != nil {
		return income.Row{}, err
	}

	row.ID = id
	row = row.Normalize()
	ws.rows[i] = row
	ws.touch()
	return row, nil
}

// Remove deletes the row with the given ID.
func (ws *Worksheet) Remove(id string) error {
	i := ws.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrRowNotFound, id)
	}
	return ws.RemoveAt(i)
}

// RemoveAt deletes the row at index.
func (ws *Worksheet) RemoveAt(index int) error {
	if index < 0 || index >= len(ws.rows) {
		return fmt.Errorf("%w: index %d", ErrRowNotFound, index)
	}
	ws.rows = append(ws.rows[:index], ws.rows[index+1:]...)
	ws.touch()
	return nil
}

// Row returns the row with the given ID.
func (ws *Worksheet) Row(id string) (income.Row, bool) {
	i := ws.indexOf(id)
	if i < 0 {
		return income.Row{}, false
	}
	return ws.rows[i], true
}

// Rows returns a copy of the rows in insertion order.
func (ws *Worksheet) Rows() []income.Row {
	rows := make([]income.Row, len(ws.rows))
	copy(rows, ws.rows)
	return rows
}

// Len returns the number of rows.
func (ws *Worksheet) Len() int {
	return len(ws.rows)
}

// Totals recomputes the summary of the current rows.
func (ws *Worksheet) Totals() tax.Summary {
	return tax.Summarize(ws.rows)
}

// TotalsByYear recomputes the per-year summaries of the current rows.
func (ws *Worksheet) TotalsByYear() []tax.YearSummary {
	return tax.SummarizeByYear(ws.rows)
}

func (ws *Worksheet) indexOf(id string) int {
	for i := range ws.rows {
		if ws.rows[i].ID == id {
			return i
		}
	}
	return -1
}

func (ws *Worksheet) touch() {
	ws.UpdatedAt = time.Now().UTC()
}
