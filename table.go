package linearize

import (
	"fmt"
	"strings"

	"github.com/YuminosukeSato/linearize/pkg/errors"
)

// Table is a rectangular collection of named float64 columns aligned by row.
// Column order is preserved. Accessors hand out defensive copies; the
// backing storage is only mutated through SetColumn.
type Table struct {
	names   []string
	columns map[string][]float64
	nRows   int
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{columns: make(map[string][]float64)}
}

// NewTableFromColumns creates a table with the given columns in order.
func NewTableFromColumns(names []string, columns map[string][]float64) (*Table, error) {
	t := NewTable()
	for _, name := range names {
		values, ok := columns[name]
		if !ok {
			return nil, errors.NewValueError("NewTableFromColumns",
				fmt.Sprintf("no values for column %q", name))
		}
		if err := t.AddColumn(name, values); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// AddColumn appends a named column, copying values. All columns must share
// one length; duplicate names are rejected.
func (t *Table) AddColumn(name string, values []float64) error {
	if _, exists := t.columns[name]; exists {
		return errors.NewValueError("Table.AddColumn",
			fmt.Sprintf("column %q already exists", name))
	}
	if len(t.names) > 0 && len(values) != t.nRows {
		return errors.NewDimensionError("Table.AddColumn", t.nRows, len(values), 0)
	}
	t.names = append(t.names, name)
	t.columns[name] = append([]float64(nil), values...)
	t.nRows = len(values)
	return nil
}

// SetColumn replaces the values of an existing column, copying them.
func (t *Table) SetColumn(name string, values []float64) error {
	if _, exists := t.columns[name]; !exists {
		return errors.NewValueError("Table.SetColumn",
			fmt.Sprintf("no column %q", name))
	}
	if len(values) != t.nRows {
		return errors.NewDimensionError("Table.SetColumn", t.nRows, len(values), 0)
	}
	t.columns[name] = append([]float64(nil), values...)
	return nil
}

// Columns returns the column names in declaration order.
func (t *Table) Columns() []string {
	return append([]string(nil), t.names...)
}

// HasColumn reports whether the table has a column with the given name.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.columns[name]
	return ok
}

// Column returns a copy of the named column's values.
func (t *Table) Column(name string) ([]float64, error) {
	values, ok := t.columns[name]
	if !ok {
		return nil, errors.NewValueError("Table.Column",
			fmt.Sprintf("no column %q", name))
	}
	return append([]float64(nil), values...), nil
}

// column returns the backing slice of the named column. Internal use only;
// callers must not mutate the result.
func (t *Table) column(name string) []float64 {
	return t.columns[name]
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int {
	return t.nRows
}

// NumCols returns the number of columns.
func (t *Table) NumCols() int {
	return len(t.names)
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	out := NewTable()
	for _, name := range t.names {
		// AddColumn copies; names were validated on the way in.
		_ = out.AddColumn(name, t.columns[name])
	}
	return out
}

// String summarizes the table shape and column names.
func (t *Table) String() string {
	return fmt.Sprintf("Table(%d rows, columns=[%s])", t.nRows, strings.Join(t.names, ", "))
}
