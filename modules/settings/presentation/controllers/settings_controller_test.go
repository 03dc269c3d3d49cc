package controllers_test

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/hcm-console/modules/session"
	sessions "github.com/iota-uz/hcm-console/modules/session/services"
	"github.com/iota-uz/hcm-console/modules/settings"
	"github.com/iota-uz/hcm-console/modules/settings/domain"
	"github.com/iota-uz/hcm-console/modules/settings/services"
	"github.com/iota-uz/hcm-console/pkg/backend"
	"github.com/iota-uz/hcm-console/pkg/itf"
	"github.com/iota-uz/hcm-console/pkg/storage"
)

func setup(t *testing.T) (*itf.Suite, storage.Store) {
	t.Helper()
	client, err := backend.NewClient("http://127.0.0.1:9", backend.Options{Logger: itf.Logger()})
	require.NoError(t, err)
	store := storage.NewMemoryStore()
	sessionService := sessions.NewSessionService(client, store, nil, sessions.Options{Logger: itf.Logger()})
	t.Cleanup(sessionService.Close)

	suite := itf.HTTP(t,
		session.NewModule(&session.ModuleOptions{Sessions: sessionService}),
		settings.NewModule(),
	)
	return suite, store
}

func TestSettings_GetShowsDefaults(t *testing.T) {
	suite, _ := setup(t)
	suite.GET("/settings").Expect(t).
		Status(http.StatusOK).
		Contains(`<option value="light" selected>`).
		Contains(`name="autoRefresh" type="number" value="0"`).
		Contains(`data-theme="light"`)
}

func TestSettings_SaveAppliesToLayout(t *testing.T) {
	suite, store := setup(t)
	suite.POST("/settings").Form(url.Values{
		"theme":          {"dark"},
		"autoRefresh":    {"30"},
		"companyName":    {"Acme HR"},
		"primaryColor":   {"#112233"},
		"secondaryColor": {"#abc"},
		"logoUrl":        {"https://acme.test/logo.png"},
	}).Expect(t).
		Status(http.StatusSeeOther).
		RedirectTo("/settings")

	stored, err := storage.Load[domain.Settings](context.Background(), store, suite.BrowserID(), domain.RecordKey)
	require.NoError(t, err)
	assert.Equal(t, 30, stored.AutoRefresh)
	assert.Equal(t, "Acme HR", stored.Branding.CompanyName)

	suite.GET("/settings").Expect(t).
		Status(http.StatusOK).
		Contains(`data-theme="dark"`).
		Contains("Acme HR").
		Contains("#112233").
		Contains("Settings saved successfully")
}

func TestSettings_InvalidShowsFieldErrors(t *testing.T) {
	suite, store := setup(t)
	suite.POST("/settings").Form(url.Values{
		"theme":        {"light"},
		"autoRefresh":  {"soon"},
		"primaryColor": {"blue"},
		"logoUrl":      {"ftp://acme.test/logo.png"},
	}).Expect(t).
		Status(http.StatusOK).
		Contains("Auto-refresh must be a whole number between 0 and 3600").
		Contains("Use a hex color such as #1a2b3c or #abc").
		Contains("Logo URL must be an absolute http(s) URL").
		Contains(`value="blue"`)

	_, err := store.Get(context.Background(), suite.BrowserID(), domain.RecordKey)
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestSettings_ServiceRegistered(t *testing.T) {
	suite, _ := setup(t)
	svc, ok := suite.App().Service(services.SettingsService{}).(*services.SettingsService)
	require.True(t, ok)
	v, err := svc.Load(context.Background(), suite.BrowserID())
	require.NoError(t, err)
	assert.Equal(t, domain.Default(), v)
}
