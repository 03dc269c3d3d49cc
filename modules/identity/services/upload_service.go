package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/iota-uz/hcm-console/pkg/backend"
	"github.com/iota-uz/hcm-console/pkg/notify"
)

const DefaultMaxUploadSize = 32 << 20

// MsgNotWorkbook is shown for files that are not Excel workbooks.
const MsgNotWorkbook = "File must be an Excel workbook (.xlsx or .xls)"

// workbookTypes lists, per extension, the detected types accepted for it.
// Containers count too since sniffing a workbook may stop at its zip or
// OLE wrapper.
var workbookTypes = map[string][]string{
	".xlsx": {"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "application/zip"},
	".xls":  {"application/vnd.ms-excel", "application/x-ole-storage"},
}

type UploadInput struct {
	FileName  string
	Operation string
	File      io.Reader
}

type UploadService struct {
	client  *backend.Client
	maxSize int64
}

func NewUploadService(client *backend.Client, maxSize int64) *UploadService {
	if maxSize <= 0 {
		maxSize = DefaultMaxUploadSize
	}
	return &UploadService{client: client, maxSize: maxSize}
}

func (s *UploadService) MaxSize() int64 {
	return s.maxSize
}

// TooLarge is the warning for files over the size limit.
func (s *UploadService) TooLarge() string {
	return fmt.Sprintf("File exceeds the maximum upload size of %d bytes", s.maxSize)
}

// Upload checks the file before anything is sent: it must be present, have a
// workbook extension whose content matches and fit in the size limit.
func (s *UploadService) Upload(ctx context.Context, in UploadInput, cfg *backend.ConnectionConfig) (*backend.UploadResponse, backend.OperationResult) {
	if in.File == nil || strings.TrimSpace(in.FileName) == "" {
		return nil, backend.Invalid(notify.MsgSelectFile)
	}
	op := backend.OperationType(strings.TrimSpace(in.Operation))
	if op == "" {
		return nil, backend.Invalid(notify.MsgSelectOperation)
	}
	if !op.Valid() {
		return nil, backend.Invalid(fmt.Sprintf("Unknown operation type %q", op))
	}

	data, err := io.ReadAll(io.LimitReader(in.File, s.maxSize+1))
	if err != nil {
		return nil, backend.Failed(backend.KindTransport, 0, err.Error())
	}
	if int64(len(data)) > s.maxSize {
		return nil, backend.Invalid(s.TooLarge())
	}
	if len(data) == 0 {
		return nil, backend.Invalid(notify.MsgSelectFile)
	}
	if !IsWorkbook(in.FileName, data) {
		return nil, backend.Invalid(MsgNotWorkbook)
	}

	res := s.client.UploadExcel(ctx, op, filepath.Base(in.FileName), bytes.NewReader(data), cfg)
	if !res.Success {
		return nil, res
	}
	out := &backend.UploadResponse{}
	if err := res.Decode(out); err != nil {
		return nil, backend.Failed(backend.KindDecode, res.Status, err.Error())
	}
	return out, res
}

// IsWorkbook reports whether name has a workbook extension and data sniffs
// as that kind of file.
func IsWorkbook(name string, data []byte) bool {
	accepted, ok := workbookTypes[strings.ToLower(filepath.Ext(name))]
	if !ok {
		return false
	}
	for m := mimetype.Detect(data); m != nil; m = m.Parent() {
		for _, t := range accepted {
			if m.Is(t) {
				return true
			}
		}
	}
	return false
}
