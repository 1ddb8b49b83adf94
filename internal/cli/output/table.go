package output

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"
	"unicode/utf8"
)

// narrowCell is the cell width limit when Wide is off.
const narrowCell = 60

// TableFormatter formats data as an aligned table.
type TableFormatter struct {
	Wide      bool
	NoHeaders bool
}

// Format formats data as a table.
//
// Scalars print on one line. map[string]any and structs print as
// KEY/VALUE rows. A []any whose elements are all maps prints one row per
// element with the union of their keys as columns; other arrays print
// INDEX/VALUE rows.
func (f *TableFormatter) Format(w io.Writer, data any) error {
	switch t := data.(type) {
	case *Table:
		return t.RenderWithOptions(w, f.NoHeaders)
	case Table:
		return t.RenderWithOptions(w, f.NoHeaders)
	}

	table := f.toTable(data)
	if table == nil {
		_, err := fmt.Fprintln(w, f.cell(data))
		return err
	}
	return table.RenderWithOptions(w, f.NoHeaders)
}

// toTable returns nil for values that print as a single line.
func (f *TableFormatter) toTable(data any) *Table {
	switch v := data.(type) {
	case map[string]any:
		return f.mapToTable(v)
	case []any:
		if rows, ok := allMaps(v); ok {
			return f.recordsToTable(rows)
		}
		return f.listToTable(v)
	}

	rv := reflect.ValueOf(data)
	if rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}
	if rv.Kind() == reflect.Struct && rv.Type() != reflect.TypeOf(time.Time{}) {
		return f.structToTable(rv)
	}
	return nil
}

func (f *TableFormatter) mapToTable(m map[string]any) *Table {
	table := &Table{Headers: []string{"KEY", "VALUE"}}
	for _, k := range sortedKeys(m) {
		table.AddRow(k, f.cell(m[k]))
	}
	return table
}

func (f *TableFormatter) listToTable(list []any) *Table {
	table := &Table{Headers: []string{"INDEX", "VALUE"}}
	for i, v := range list {
		table.AddRow(strconv.Itoa(i), f.cell(v))
	}
	return table
}

func (f *TableFormatter) recordsToTable(rows []map[string]any) *Table {
	seen := make(map[string]struct{})
	var columns []string
	for _, row := range rows {
		for k := range row {
			if _, ok := seen[k]; !ok {
				seen[k] = struct{}{}
				columns = append(columns, k)
			}
		}
	}
	slices.Sort(columns)

	table := &Table{}
	for _, c := range columns {
		table.Headers = append(table.Headers, strings.ToUpper(c))
	}
	for _, row := range rows {
		cells := make([]string, len(columns))
		for i, c := range columns {
			if v, ok := row[c]; ok {
				cells[i] = f.cell(v)
			} else {
				cells[i] = "-"
			}
		}
		table.AddRow(cells...)
	}
	return table
}

// structToTable lists exported fields, named by their json tag when present.
func (f *TableFormatter) structToTable(v reflect.Value) *Table {
	table := &Table{Headers: []string{"FIELD", "VALUE"}}

	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		name := field.Name
		if tag := field.Tag.Get("json"); tag != "" {
			if n, _, _ := strings.Cut(tag, ","); n == "-" {
				continue
			} else if n != "" {
				name = n
			}
		}
		table.AddRow(name, f.cell(v.Field(i).Interface()))
	}
	return table
}

// cell renders one value. Nested structures are rendered as compact JSON.
func (f *TableFormatter) cell(v any) string {
	var s string
	switch x := v.(type) {
	case nil:
		return "-"
	case string:
		if x == "" {
			return "-"
		}
		s = x
	case bool:
		s = strconv.FormatBool(x)
	case int64:
		s = strconv.FormatInt(x, 10)
	case int:
		s = strconv.Itoa(x)
	case float64:
		s = strconv.FormatFloat(x, 'f', -1, 64)
	case time.Time:
		if x.IsZero() {
			return "-"
		}
		s = x.Format(time.RFC3339)
	case []byte:
		s = base64.StdEncoding.EncodeToString(x)
	case map[string]any, []any:
		b, err := json.Marshal(x)
		if err != nil {
			s = fmt.Sprint(x)
		} else {
			s = string(b)
		}
	default:
		s = fmt.Sprint(x)
	}

	s = strings.ReplaceAll(s, "\n", `\n`)
	s = strings.ReplaceAll(s, "\t", " ")
	if !f.Wide && utf8.RuneCountInString(s) > narrowCell {
		r := []rune(s)
		s = string(r[:narrowCell-3]) + "..."
	}
	return s
}

func allMaps(list []any) ([]map[string]any, bool) {
	if len(list) == 0 {
		return nil, false
	}
	rows := make([]map[string]any, 0, len(list))
	for _, v := range list {
		m, ok := v.(map[string]any)
		if !ok {
			return nil, false
		}
		rows = append(rows, m)
	}
	return rows, true
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Table represents tabular data.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Render renders the table to the writer.
func (t *Table) Render(w io.Writer) error {
	return t.RenderWithOptions(w, false)
}

// RenderWithOptions renders the table with options.
func (t *Table) RenderWithOptions(w io.Writer, noHeaders bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	if !noHeaders && len(t.Headers) > 0 {
		fmt.Fprintln(tw, strings.Join(t.Headers, "\t"))
	}
	for _, row := range t.Rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

// AddRow adds a row to the table.
func (t *Table) AddRow(cells ...string) {
	t.Rows = append(t.Rows, cells)
}

// SetHeaders sets the table headers.
func (t *Table) SetHeaders(headers ...string) {
	t.Headers = headers
}
