// Package bulk parses the comma separated text pasted into the bulk
// assignment forms and serves the matching templates.
package bulk

import (
	"fmt"
	"strings"

	"github.com/go-faster/errors"

	"github.com/iota-uz/hcm-console/pkg/backend"
)

var ErrNoValidRows = errors.New("No valid assignments found")

type Mode int

const (
	// Lenient drops rows missing a required field without reporting them.
	Lenient Mode = iota
	// Strict fails the whole batch when any row is invalid.
	Strict
)

// ParseMode accepts "lenient" and "strict"; the empty string is lenient.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "lenient":
		return Lenient, nil
	case "strict":
		return Strict, nil
	}
	return Lenient, errors.Errorf("unknown bulk mode %q", s)
}

func (m Mode) String() string {
	if m == Strict {
		return "strict"
	}
	return "lenient"
}

// RowError describes why a single line was rejected.
type RowError struct {
	Line    int
	Missing string
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d: missing %s", e.Line, e.Missing)
}

// BatchError lists every rejected row of a strict parse.
type BatchError struct {
	Rows []RowError
}

func (e *BatchError) Error() string {
	parts := make([]string, 0, len(e.Rows))
	for i := range e.Rows {
		parts = append(parts, e.Rows[i].Error())
	}
	return fmt.Sprintf("%d invalid rows: %s", len(e.Rows), strings.Join(parts, "; "))
}

// RowResult is the tagged outcome of parsing one non-blank line.
type RowResult[T any] struct {
	Line   int
	Record T
	Err    error
}

func (r RowResult[T]) OK() bool {
	return r.Err == nil
}

type Batch[T any] struct {
	Rows          []RowResult[T]
	HeaderSkipped bool
}

func (b Batch[T]) Records() []T {
	out := make([]T, 0, len(b.Rows))
	for _, r := range b.Rows {
		if r.OK() {
			out = append(out, r.Record)
		}
	}
	return out
}

func (b Batch[T]) Invalid() []RowResult[T] {
	var out []RowResult[T]
	for _, r := range b.Rows {
		if !r.OK() {
			out = append(out, r)
		}
	}
	return out
}

// Schema names the columns of one batch kind. The first Required columns
// must be non-empty; the rest are optional.
type Schema[T any] struct {
	Columns  []string
	Required int
	Build    func(fields []string) T
}

func (s Schema[T]) Header() string {
	return strings.Join(s.Columns, ",")
}

func (s Schema[T]) isHeader(fields []string) bool {
	if len(fields) < s.Required {
		return false
	}
	for i := 0; i < s.Required; i++ {
		if !strings.EqualFold(fields[i], s.Columns[i]) {
			return false
		}
	}
	return true
}

// Parse splits text into lines, drops blank ones, skips a leading header
// row and validates each remaining line against the schema.
func Parse[T any](text string, s Schema[T]) Batch[T] {
	var batch Batch[T]
	first := true
	for i, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := splitFields(line, len(s.Columns))
		if first {
			first = false
			if s.isHeader(fields) {
				batch.HeaderSkipped = true
				continue
			}
		}
		row := RowResult[T]{Line: i + 1}
		for c := 0; c < s.Required; c++ {
			if fields[c] == "" {
				row.Err = &RowError{Line: i + 1, Missing: s.Columns[c]}
				break
			}
		}
		if row.Err == nil {
			row.Record = s.Build(fields)
		}
		batch.Rows = append(batch.Rows, row)
	}
	return batch
}

// splitFields trims every comma separated field and pads the result to n.
func splitFields(line string, n int) []string {
	parts := strings.Split(line, ",")
	out := make([]string, max(n, len(parts)))
	for i, p := range parts {
		out[i] = strings.TrimSpace(p)
	}
	return out
}

// Records applies the mode to a parsed batch. In lenient mode the rejected
// rows come back beside the records so they can be reported. An empty
// result is always an error because nothing would be submitted.
func Records[T any](b Batch[T], mode Mode) ([]T, []RowError, error) {
	skipped := rowErrors(b.Invalid())
	if mode == Strict && len(skipped) > 0 {
		return nil, nil, &BatchError{Rows: skipped}
	}
	records := b.Records()
	if len(records) == 0 {
		return nil, skipped, ErrNoValidRows
	}
	return records, skipped, nil
}

func rowErrors[T any](invalid []RowResult[T]) []RowError {
	var out []RowError
	for _, r := range invalid {
		var re *RowError
		if errors.As(r.Err, &re) {
			out = append(out, *re)
		}
	}
	return out
}

var RoleSchema = Schema[backend.RoleAssignment]{
	Columns:  []string{"username", "role_name"},
	Required: 2,
	Build: func(f []string) backend.RoleAssignment {
		return backend.RoleAssignment{Username: f[0], RoleName: f[1]}
	},
}

var DataSecuritySchema = Schema[backend.DataSecurityAssignment]{
	Columns:  []string{"username", "role_name", "security_context", "security_value"},
	Required: 4,
	Build: func(f []string) backend.DataSecurityAssignment {
		return backend.DataSecurityAssignment{
			Username:            f[0],
			RoleName:            f[1],
			DataSecurityContext: f[2],
			DataSecurityValue:   f[3],
		}
	},
}

var AORSchema = Schema[backend.AORAssignment]{
	Columns:  []string{"username", "aor_name", "aor_type"},
	Required: 2,
	Build: func(f []string) backend.AORAssignment {
		aorType := f[2]
		if aorType == "" {
			aorType = backend.DefaultAORType
		}
		return backend.AORAssignment{Username: f[0], AORName: f[1], AORType: aorType}
	},
}

func ParseRoles(text string, mode Mode) ([]backend.RoleAssignment, []RowError, error) {
	return Records(Parse(text, RoleSchema), mode)
}

func ParseDataSecurity(text string, mode Mode) ([]backend.DataSecurityAssignment, []RowError, error) {
	return Records(Parse(text, DataSecuritySchema), mode)
}

func ParseAORs(text string, mode Mode) ([]backend.AORAssignment, []RowError, error) {
	return Records(Parse(text, AORSchema), mode)
}
