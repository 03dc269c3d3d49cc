package services

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/hcm-console/pkg/backend"
	"github.com/iota-uz/hcm-console/pkg/bulk"
	"github.com/iota-uz/hcm-console/pkg/notify"
)

func workbook(t *testing.T) []byte {
	t.Helper()
	tpl, err := bulk.Lookup("role")
	require.NoError(t, err)
	data, err := tpl.XLSX()
	require.NoError(t, err)
	return data
}

func TestIsWorkbook(t *testing.T) {
	xlsx := workbook(t)

	assert.True(t, IsWorkbook("roles.xlsx", xlsx))
	assert.True(t, IsWorkbook("ROLES.XLSX", xlsx))
	assert.False(t, IsWorkbook("roles.csv", xlsx))
	assert.False(t, IsWorkbook("roles.xlsx", []byte("username,role_name\njohn,HR\n")))
	assert.False(t, IsWorkbook("roles.xls", []byte("plain text")))
}

func TestUploadService_Validation(t *testing.T) {
	fb := newFakeBackend(t)
	svc := NewUploadService(fb.client(t), 1024)
	xlsx := workbook(t)
	ctx := context.Background()

	cases := []struct {
		name string
		in   UploadInput
		want string
	}{
		{"no file", UploadInput{Operation: "role_assignment"}, notify.MsgSelectFile},
		{"no operation", UploadInput{FileName: "a.xlsx", File: bytes.NewReader(xlsx)}, notify.MsgSelectOperation},
		{"unknown operation", UploadInput{FileName: "a.xlsx", Operation: "purge", File: bytes.NewReader(xlsx)}, `Unknown operation type "purge"`},
		{"empty file", UploadInput{FileName: "a.xlsx", Operation: "role_assignment", File: strings.NewReader("")}, notify.MsgSelectFile},
		{"not a workbook", UploadInput{FileName: "a.xlsx", Operation: "role_assignment", File: strings.NewReader("hello")}, MsgNotWorkbook},
		{"too large", UploadInput{FileName: "a.xlsx", Operation: "role_assignment", File: bytes.NewReader(make([]byte, 2048))}, svc.TooLarge()},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, res := svc.Upload(ctx, tc.in, config())
			assert.Nil(t, out)
			assert.Equal(t, backend.KindValidation, res.Kind)
			assert.Equal(t, tc.want, res.Error)
		})
	}
	assert.Empty(t, fb.calls())
}

func TestUploadService_Upload(t *testing.T) {
	fb := newFakeBackend(t)
	fb.on("/upload/excel", http.StatusOK, `{"success_count":2,"failure_count":1,
		"errors":[{"row":4,"username":"ghost","error":"User not found"}],
		"processed_records":[{"row":2,"username":"john.doe","status":"success"}]}`)
	svc := NewUploadService(fb.client(t), 0)
	assert.EqualValues(t, DefaultMaxUploadSize, svc.MaxSize())

	out, res := svc.Upload(context.Background(), UploadInput{
		FileName:  "/tmp/dir/roles.xlsx",
		Operation: " role_assignment ",
		File:      bytes.NewReader(workbook(t)),
	}, config())
	require.True(t, res.Success, res.Error)
	assert.Equal(t, 3, out.Total())
	require.Len(t, out.Errors, 1)
	assert.Equal(t, "ghost", out.Errors[0].Username)

	sent := fb.body("/upload/excel")
	assert.Contains(t, sent, `filename="roles.xlsx"`)
	assert.Contains(t, sent, "role_assignment")
	assert.NotContains(t, sent, "/tmp/dir")
}
