package controllers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/a-h/templ"
	"github.com/go-faster/errors"
	"github.com/gorilla/mux"

	"github.com/iota-uz/hcm-console/components/base"
	"github.com/iota-uz/hcm-console/modules/identity/presentation/controllers/dtos"
	"github.com/iota-uz/hcm-console/modules/identity/presentation/mappers"
	"github.com/iota-uz/hcm-console/modules/identity/presentation/templates"
	"github.com/iota-uz/hcm-console/modules/identity/services"
	sessions "github.com/iota-uz/hcm-console/modules/session/services"
	"github.com/iota-uz/hcm-console/pkg/application"
	"github.com/iota-uz/hcm-console/pkg/backend"
	"github.com/iota-uz/hcm-console/pkg/bulk"
	"github.com/iota-uz/hcm-console/pkg/composables"
	"github.com/iota-uz/hcm-console/pkg/navigation"
	"github.com/iota-uz/hcm-console/pkg/notify"
)

// multipartOverhead is allowed on top of the file size for the other
// fields and part headers.
const multipartOverhead = 1 << 20

type UploadController struct {
	screenActions
	uploads       *services.UploadService
	maxMemory     int64
	templatesPath string
}

func NewUploadController(app application.Application, maxMemory int64) application.Controller {
	if maxMemory <= 0 {
		maxMemory = 32 << 20
	}
	return &UploadController{
		screenActions: newScreenActions(app),
		uploads:       app.Service(services.UploadService{}).(*services.UploadService),
		maxMemory:     maxMemory,
		templatesPath: "/templates",
	}
}

func (c *UploadController) Key() string {
	return "/upload"
}

func (c *UploadController) Register(r *mux.Router) {
	router := c.subrouter(r)
	router.HandleFunc("/upload/excel", c.Upload).Methods(http.MethodPost)

	// templates are static and need no workspace
	r.HandleFunc(c.templatesPath+"/{kind}.{ext:csv|xlsx}", c.Template).Methods(http.MethodGet)
}

// Load is the loader of the upload screen.
func (c *UploadController) Load(_ context.Context, _ *sessions.Workspace) (any, error) {
	return mappers.TemplatesToViewModels(c.templatesPath, bulk.Templates()), nil
}

func (c *UploadController) Upload(w http.ResponseWriter, r *http.Request) {
	ws, ok := c.workspace(w, r)
	if !ok {
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, c.uploads.MaxSize()+multipartOverhead)
	if err := r.ParseMultipartForm(c.maxMemory); err != nil {
		var tooLarge *http.MaxBytesError
		res := backend.Invalid(err.Error())
		if errors.As(err, &tooLarge) {
			res = backend.Invalid(c.uploads.TooLarge())
		} else if errors.Is(err, http.ErrNotMultipart) {
			res = backend.Invalid(notify.MsgSelectFile)
		}
		c.outcome(w, r, ws, navigation.Upload, "", res, "", nil, nil)
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	dto, err := composables.UseForm(&dtos.UploadDTO{}, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	in := dto.ToInput("")
	file, header, err := r.FormFile("file")
	switch {
	case err == nil:
		defer func() { _ = file.Close() }()
		in.File = file
		in.FileName = header.Filename
	case !errors.Is(err, http.ErrMissingFile):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	out, res := c.uploads.Upload(r.Context(), in, ws.Config())
	var result templ.Component
	if res.Success && out != nil {
		res.Message = base.Translate(r.Context(), "Identity.Flash.UploadCompleted", map[string]interface{}{
			"Successful": out.SuccessCount,
			"Failed":     out.FailureCount,
		})
		result = templates.UploadResult(mappers.UploadToViewModel(out))
	}
	c.outcome(w, r, ws, navigation.Upload, "", res, "", result, keepOnFailure(res, dto.Values()))
}

// Template downloads one bulk template as CSV or as a workbook.
func (c *UploadController) Template(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	t, err := bulk.Lookup(vars["kind"])
	if err != nil {
		http.NotFound(w, r)
		return
	}
	var (
		data        []byte
		name        string
		contentType string
	)
	if vars["ext"] == "xlsx" {
		data, err = t.XLSX()
		if err != nil {
			composables.UseLogger(r.Context()).WithError(err).Error("failed to render template workbook")
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		name, contentType = t.XLSXName(), xlsxContentType
	} else {
		data, name, contentType = []byte(t.CSV()), t.CSVName(), "text/csv; charset=utf-8"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
