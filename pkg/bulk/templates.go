package bulk

import (
	"bytes"
	"strings"

	"github.com/go-faster/errors"
	"github.com/xuri/excelize/v2"

	"github.com/iota-uz/hcm-console/pkg/backend"
)

var ErrUnknownTemplate = errors.New("unknown template")

// Template is a downloadable sample for one bulk operation kind.
type Template struct {
	Kind      backend.OperationType
	Columns   []string
	Rows      [][]string
	SheetName string
}

var templates = []Template{
	{
		Kind:      backend.OperationRoleAssignment,
		Columns:   RoleSchema.Columns,
		Rows:      [][]string{{"john.doe", "HR_MANAGER"}, {"jane.smith", "EMPLOYEE"}},
		SheetName: "Role Assignments",
	},
	{
		Kind:      backend.OperationDataSecurity,
		Columns:   DataSecuritySchema.Columns,
		Rows:      [][]string{{"john.doe", "HR_MANAGER", "DEPARTMENT", "IT"}, {"jane.smith", "EMPLOYEE", "LOCATION", "NYC"}},
		SheetName: "Data Security",
	},
	{
		Kind:      backend.OperationAORAssignment,
		Columns:   AORSchema.Columns,
		Rows:      [][]string{{"john.doe", "HR_DEPARTMENT", "HR"}, {"jane.smith", "IT_SUPPORT", "IT"}},
		SheetName: "AOR Assignments",
	},
}

func Templates() []Template {
	return templates
}

// Lookup accepts the operation type ("role_assignment") or its short form ("role").
func Lookup(kind string) (Template, error) {
	kind = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(kind)), "_template")
	switch kind {
	case "role":
		kind = string(backend.OperationRoleAssignment)
	case "security", "data_security_assignment":
		kind = string(backend.OperationDataSecurity)
	case "aor":
		kind = string(backend.OperationAORAssignment)
	}
	for _, t := range templates {
		if string(t.Kind) == kind {
			return t, nil
		}
	}
	return Template{}, errors.Wrapf(ErrUnknownTemplate, "%q", kind)
}

func (t Template) baseName() string {
	return string(t.Kind) + "_template"
}

func (t Template) CSVName() string {
	return t.baseName() + ".csv"
}

func (t Template) XLSXName() string {
	return t.baseName() + ".xlsx"
}

// CSV renders the header and sample rows joined by newlines with no
// trailing newline.
func (t Template) CSV() string {
	lines := make([]string, 0, len(t.Rows)+1)
	lines = append(lines, strings.Join(t.Columns, ","))
	for _, r := range t.Rows {
		lines = append(lines, strings.Join(r, ","))
	}
	return strings.Join(lines, "\n")
}

// XLSX renders the template as a single sheet workbook with a bold header.
func (t Template) XLSX() ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", t.SheetName); err != nil {
		return nil, errors.Wrap(err, "rename sheet")
	}
	header := make([]interface{}, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(t.SheetName, "A1", &header); err != nil {
		return nil, errors.Wrap(err, "write header")
	}
	for i, r := range t.Rows {
		row := make([]interface{}, len(r))
		for j, v := range r {
			row[j] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(t.SheetName, cell, &row); err != nil {
			return nil, errors.Wrap(err, "write row")
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, errors.Wrap(err, "header style")
	}
	last, err := excelize.CoordinatesToCellName(len(t.Columns), 1)
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(t.SheetName, "A1", last, bold); err != nil {
		return nil, errors.Wrap(err, "apply header style")
	}
	lastCol, err := excelize.ColumnNumberToName(len(t.Columns))
	if err != nil {
		return nil, err
	}
	if err := f.SetColWidth(t.SheetName, "A", lastCol, 22); err != nil {
		return nil, errors.Wrap(err, "column width")
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, errors.Wrap(err, "write workbook")
	}
	return buf.Bytes(), nil
}
