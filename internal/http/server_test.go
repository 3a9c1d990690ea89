package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/SorryIWinxX/webmanager/internal/models"
	"github.com/SorryIWinxX/webmanager/internal/repository"
	"github.com/SorryIWinxX/webmanager/internal/sap"
	"github.com/SorryIWinxX/webmanager/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fixture struct {
	server  *Server
	notices *service.NoticeService
	users   *service.UserService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := zap.NewNop()
	noticeRepo := repository.NewMemoryNoticeRepository()
	userRepo := repository.NewMemoryUserRepository()
	orderRepo := repository.NewMemorySAPOrderRepository()

	notices := service.NewNoticeService(noticeRepo, nil, nil, logger)
	users := service.NewUserService(userRepo, logger)
	auth := service.NewAuthService(userRepo, logger)
	reporters := service.NewReporterService(nil, logger)
	syncSvc := service.NewSyncService(nil, nil, logger)

	return &fixture{
		server:  NewServer(notices, users, auth, reporters, syncSvc, orderRepo, logger),
		notices: notices,
		users:   users,
	}
}

func (f *fixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if raw, ok := body.([]byte); ok {
		reader = bytes.NewReader(raw)
	} else if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	f.server.Engine.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst))
}

func TestCreateNotice(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/notices", map[string]any{"shortText": "Pump leak"})
	require.Equal(t, http.StatusCreated, rec.Code)

	var notice models.MaintenanceNotice
	decode(t, rec, &notice)
	require.Equal(t, "Pump leak", notice.ShortText)
	require.Equal(t, models.NoticeStatusPending, notice.Status)
}

func TestCreateNoticeValidation(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/notices", map[string]any{"shortText": ""})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body struct {
		Error   string            `json:"error"`
		Details map[string]string `json:"details"`
	}
	decode(t, rec, &body)
	require.Contains(t, body.Details, "shortText")
}

func TestCreateNoticeMalformedJSON(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/notices", []byte(`{"shortText": `))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "invalid JSON payload")
}

func TestGetNoticeNotFound(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/notices/6ba7b810-9dad-11d1-80b4-00c04fd430c8", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/notices/not-a-uuid", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateNotice(t *testing.T) {
	f := newFixture(t)
	created, err := f.notices.Create(context.Background(), service.NoticeInput{ShortText: "old"})
	require.NoError(t, err)

	rec := f.do(t, http.MethodPut, "/api/notices/"+created.ID.String(), map[string]any{"shortText": "new"})
	require.Equal(t, http.StatusOK, rec.Code)

	var notice models.MaintenanceNotice
	decode(t, rec, &notice)
	require.Equal(t, "new", notice.ShortText)
	require.Equal(t, created.ID, notice.ID)
}

func TestListNoticesPaginationClamps(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for i := 0; i < 7; i++ {
		_, err := f.notices.Create(ctx, service.NoticeInput{ShortText: "n"})
		require.NoError(t, err)
	}

	rec := f.do(t, http.MethodGet, "/api/notices?status=pending&page=99", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Items      []models.MaintenanceNotice `json:"items"`
		Page       int                        `json:"page"`
		TotalPages int                        `json:"totalPages"`
		TotalItems int                        `json:"totalItems"`
	}
	decode(t, rec, &body)
	require.Equal(t, 2, body.Page)
	require.Equal(t, 2, body.TotalPages)
	require.Equal(t, 7, body.TotalItems)
	require.Len(t, body.Items, 2)
}

func TestListNoticesRejectsUnknownStatus(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/notices?status=bogus", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSelectionAndSendFlow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.notices.Create(ctx, service.NoticeInput{ShortText: "Pump leak"})
	require.NoError(t, err)

	rec := f.do(t, http.MethodPost, "/api/notices/selection", map[string]any{"action": "selectAllPending"})
	require.Equal(t, http.StatusOK, rec.Code)

	var selection struct {
		Selected []string `json:"selected"`
	}
	decode(t, rec, &selection)
	require.Equal(t, []string{created.ID.String()}, selection.Selected)

	rec = f.do(t, http.MethodPost, "/api/notices/send", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var result service.SendResult
	decode(t, rec, &result)
	require.True(t, result.Success)
	require.Equal(t, 1, result.Sent)

	// Selection is cleared after a successful submission.
	rec = f.do(t, http.MethodGet, "/api/notices/selection", nil)
	decode(t, rec, &selection)
	require.Empty(t, selection.Selected)
}

func TestSendExplicitIDs(t *testing.T) {
	f := newFixture(t)
	created, err := f.notices.Create(context.Background(), service.NoticeInput{ShortText: "x"})
	require.NoError(t, err)

	rec := f.do(t, http.MethodPost, "/api/notices/send", map[string]any{"noticeIds": []string{created.ID.String()}})
	require.Equal(t, http.StatusOK, rec.Code)

	var result service.SendResult
	decode(t, rec, &result)
	require.True(t, result.Success)

	rec = f.do(t, http.MethodPost, "/api/notices/send", map[string]any{"noticeIds": []string{"not-a-uuid"}})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAddUserAndLogin(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/users", map[string]any{
		"username":    "op123",
		"role":        "operator",
		"workstation": "WS-1",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/auth/login", map[string]any{"username": "op123"})
	require.Equal(t, http.StatusOK, rec.Code)

	var login struct {
		Success bool        `json:"success"`
		User    models.User `json:"user"`
	}
	decode(t, rec, &login)
	require.True(t, login.Success)
	require.Equal(t, models.UserRoleOperator, login.User.Role)

	rec = f.do(t, http.MethodPost, "/api/auth/login", map[string]any{"username": "nouser", "password": "x"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAddUserRoleConditionalValidation(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/users", map[string]any{
		"username": "op123",
		"role":     "operator",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "workstation")
}

func TestDeletePrimaryAdminForbidden(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.users.EnsurePrimaryAdmin(ctx, "password"))

	users, err := f.users.List(ctx)
	require.NoError(t, err)

	rec := f.do(t, http.MethodDelete, "/api/users/"+users[0].ID.String(), nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestChangePasswordEndpoint(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	result, err := f.users.Add(ctx, service.AddUserInput{Username: "boss", Role: models.UserRoleAdmin})
	require.NoError(t, err)

	rec := f.do(t, http.MethodPost, "/api/users/"+result.User.ID.String()+"/change-password", map[string]any{"password": "freshsecret"})
	require.Equal(t, http.StatusOK, rec.Code)

	// Missing password is a structured validation failure.
	rec = f.do(t, http.MethodPost, "/api/users/"+result.User.ID.String()+"/change-password", map[string]any{})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

type failingReporterClient struct{}

func (failingReporterClient) ListReporters(context.Context) ([]models.Reporter, error) {
	return nil, &sap.UpstreamError{Method: http.MethodGet, Path: "/users", Message: "503 Service Unavailable"}
}

func (failingReporterClient) CreateReporter(context.Context, string, int) (*models.Reporter, error) {
	return nil, &sap.UpstreamError{Method: http.MethodPost, Path: "/users", Message: "cedula already registered"}
}

func (failingReporterClient) DeleteReporter(context.Context, int) error {
	return &sap.UpstreamError{Method: http.MethodDelete, Path: "/users/9", Message: "503 Service Unavailable"}
}

func TestReporterUpstreamFailureIsBadGateway(t *testing.T) {
	f := newFixture(t)
	f.server.reporters = service.NewReporterService(failingReporterClient{}, zap.NewNop())

	rec := f.do(t, http.MethodGet, "/api/reporters", nil)
	require.Equal(t, http.StatusBadGateway, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/reporters", map[string]any{"cedula": "1098765432", "workstationId": 3})
	require.Equal(t, http.StatusBadGateway, rec.Code)
	require.Contains(t, rec.Body.String(), "cedula already registered")
}

func TestReportersUnavailableWithoutSAP(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/reporters", nil)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestSyncEndpointSelfContained(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/sync", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var result service.SyncResult
	decode(t, rec, &result)
	require.True(t, result.Success)
	require.NotEmpty(t, result.SynchronizedTables)
}

func TestSAPOrdersEndpoint(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/sap-orders", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, "[]", rec.Body.String())
}
