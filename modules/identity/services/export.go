package services

import (
	"bytes"

	"github.com/go-faster/errors"
	"github.com/xuri/excelize/v2"

	"github.com/iota-uz/hcm-console/pkg/backend"
)

const (
	ExportFileName  = "oracle_users.xlsx"
	ExportSheetName = "Sheet1"
)

// ExportColumns is the header row of the users workbook.
var ExportColumns = []string{
	"userName", "email", "firstName", "lastName", "displayName", "active",
	"userType", "title", "organization", "department", "manager", "created",
	"lastModified", "externalId", "employeeNumber", "costCenter", "division",
	"role_value", "role_displayName", "role_description",
}

// ExportRows flattens users into one row per user and role. A user
// without roles still gets one row with empty role columns.
func ExportRows(users []backend.ScimUser) [][]interface{} {
	rows := make([][]interface{}, 0, len(users))
	for _, u := range users {
		var first, last, manager string
		if u.Name != nil {
			first, last = u.Name.GivenName, u.Name.FamilyName
		}
		if u.Manager != nil {
			manager = u.Manager.DisplayName
		}
		base := []interface{}{
			u.UserName, u.PrimaryEmail(), first, last, u.DisplayName, u.Active,
			u.UserType, u.Title, u.Organization, u.Department, manager, u.Meta.Created,
			u.Meta.LastModified, u.ExternalID, u.EmployeeNumber, u.CostCenter, u.Division,
		}
		if len(u.Roles) == 0 {
			rows = append(rows, append(clone(base), "", "", ""))
			continue
		}
		for _, r := range u.Roles {
			rows = append(rows, append(clone(base), r.Value, r.DisplayName, r.Description))
		}
	}
	return rows
}

func clone(row []interface{}) []interface{} {
	out := make([]interface{}, len(row), len(row)+3)
	copy(out, row)
	return out
}

// UsersWorkbook renders users as the oracle_users.xlsx workbook.
func UsersWorkbook(users []backend.ScimUser) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sw, err := f.NewStreamWriter(ExportSheetName)
	if err != nil {
		return nil, errors.Wrap(err, "stream writer")
	}
	header := make([]interface{}, len(ExportColumns))
	for i, c := range ExportColumns {
		header[i] = c
	}
	if err := sw.SetRow("A1", header); err != nil {
		return nil, errors.Wrap(err, "write header")
	}
	for i, row := range ExportRows(users) {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := sw.SetRow(cell, row); err != nil {
			return nil, errors.Wrapf(err, "write row %d", i+2)
		}
	}
	if err := sw.Flush(); err != nil {
		return nil, errors.Wrap(err, "flush sheet")
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, errors.Wrap(err, "write workbook")
	}
	return buf.Bytes(), nil
}
