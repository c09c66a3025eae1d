package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/xid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/second-brain/internal/apperror"
	"github.com/sakif/second-brain/internal/auth"
	"github.com/sakif/second-brain/internal/handler"
	"github.com/sakif/second-brain/internal/model"
	"github.com/sakif/second-brain/internal/service"
)

// =========================================================================
// MOCKS AND HELPERS
// =========================================================================

type MockAuthService struct {
	CapturedSignup service.SignupInput
	CapturedSignin service.SigninInput
	CapturedGitHub *auth.GitHubUser
	ReturnUser     *model.User
	ReturnResult   *service.AuthResult
	ReturnErr      error
}

func (m *MockAuthService) Signup(ctx context.Context, in service.SignupInput) (*model.User, error) {
	m.CapturedSignup = in
	return m.ReturnUser, m.ReturnErr
}

func (m *MockAuthService) Signin(ctx context.Context, in service.SigninInput) (*service.AuthResult, error) {
	m.CapturedSignin = in
	return m.ReturnResult, m.ReturnErr
}

func (m *MockAuthService) LoginOrRegisterGitHub(ctx context.Context, gh *auth.GitHubUser) (*service.AuthResult, error) {
	m.CapturedGitHub = gh
	return m.ReturnResult, m.ReturnErr
}

func (m *MockAuthService) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	return m.ReturnUser, m.ReturnErr
}

type MockGitHub struct {
	CapturedCode string
	ReturnUser   *auth.GitHubUser
	ReturnErr    error
}

func (m *MockGitHub) AuthURL(state string) string {
	return "https://github.com/login/oauth/authorize?state=" + state
}

func (m *MockGitHub) Exchange(ctx context.Context, code string) (*auth.GitHubUser, error) {
	m.CapturedCode = code
	return m.ReturnUser, m.ReturnErr
}

type MockContentService struct {
	CapturedOwner  string
	CapturedID     string
	CapturedInput  service.ContentInput
	CapturedPatch  service.ContentPatch
	CapturedFilter model.ContentFilter
	ReturnContent  *model.Content
	ReturnList     []model.Content
	ReturnCounts   *model.ContentCounts
	ReturnErr      error
}

func (m *MockContentService) Create(ctx context.Context, ownerID string, in service.ContentInput) (*model.Content, error) {
	m.CapturedOwner, m.CapturedInput = ownerID, in
	return m.ReturnContent, m.ReturnErr
}

func (m *MockContentService) List(ctx context.Context, ownerID string, filter model.ContentFilter) ([]model.Content, error) {
	m.CapturedOwner, m.CapturedFilter = ownerID, filter
	return m.ReturnList, m.ReturnErr
}

func (m *MockContentService) Update(ctx context.Context, id, ownerID string, patch service.ContentPatch) (*model.Content, error) {
	m.CapturedID, m.CapturedOwner, m.CapturedPatch = id, ownerID, patch
	return m.ReturnContent, m.ReturnErr
}

func (m *MockContentService) Delete(ctx context.Context, id, ownerID string) (string, error) {
	m.CapturedID, m.CapturedOwner = id, ownerID
	if m.ReturnErr != nil {
		return "", m.ReturnErr
	}
	return id, nil
}

func (m *MockContentService) Counts(ctx context.Context, ownerID string) (*model.ContentCounts, error) {
	m.CapturedOwner = ownerID
	return m.ReturnCounts, m.ReturnErr
}

type MockShareService struct {
	CapturedOwner string
	CapturedHash  string
	EnableCalls   int
	DisableCalls  int
	ReturnLink    *model.ShareLink
	ReturnBrain   *model.SharedBrain
	ReturnErr     error
}

func (m *MockShareService) Enable(ctx context.Context, ownerID string) (*model.ShareLink, error) {
	m.EnableCalls++
	m.CapturedOwner = ownerID
	return m.ReturnLink, m.ReturnErr
}

func (m *MockShareService) Disable(ctx context.Context, ownerID string) error {
	m.DisableCalls++
	m.CapturedOwner = ownerID
	return m.ReturnErr
}

func (m *MockShareService) View(ctx context.Context, hash string) (*model.SharedBrain, error) {
	m.CapturedHash = hash
	return m.ReturnBrain, m.ReturnErr
}

type MockPinger struct{ Err error }

func (m MockPinger) Ping(ctx context.Context) error { return m.Err }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// asUser attaches the user ID the auth middleware would have set.
func asUser(req *http.Request, userID string) *http.Request {
	return req.WithContext(auth.WithUserID(req.Context(), userID))
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	return body
}

// =========================================================================
// AUTH HANDLER TESTS
// =========================================================================

func TestAuthHandler_HandleSignup(t *testing.T) {
	logger := testLogger()

	t.Run("created", func(t *testing.T) {
		svc := &MockAuthService{ReturnUser: &model.User{ID: "u1", Email: "ada@example.com", PasswordHash: "secret-hash"}}
		h := handler.NewAuthHandler(svc, nil, logger)

		rr := httptest.NewRecorder()
		h.HandleSignup(rr, jsonRequest(http.MethodPost, "/api/v1/signup", `{"email":"ada@example.com","password":"Secr3t!pw"}`))

		assert.Equal(t, http.StatusCreated, rr.Code)
		assert.Equal(t, "ada@example.com", svc.CapturedSignup.Email)
		assert.NotContains(t, rr.Body.String(), "secret-hash")

		body := decodeBody(t, rr)
		assert.Equal(t, "User created successfully", body["message"])
	})

	t.Run("validation failure is 411", func(t *testing.T) {
		svc := &MockAuthService{ReturnErr: apperror.ValidationFailed("password", "password is required")}
		h := handler.NewAuthHandler(svc, nil, logger)

		rr := httptest.NewRecorder()
		h.HandleSignup(rr, jsonRequest(http.MethodPost, "/api/v1/signup", `{"email":"ada@example.com"}`))

		assert.Equal(t, http.StatusLengthRequired, rr.Code)
		body := decodeBody(t, rr)
		assert.Equal(t, "validation_error", body["error"])
		issues, ok := body["issues"].([]any)
		require.True(t, ok)
		assert.Len(t, issues, 1)
	})

	t.Run("malformed body is 411", func(t *testing.T) {
		h := handler.NewAuthHandler(&MockAuthService{}, nil, logger)

		rr := httptest.NewRecorder()
		h.HandleSignup(rr, jsonRequest(http.MethodPost, "/api/v1/signup", `{"email":`))

		assert.Equal(t, http.StatusLengthRequired, rr.Code)
	})

	t.Run("duplicate is 409", func(t *testing.T) {
		svc := &MockAuthService{ReturnErr: &apperror.AppError{Err: apperror.ErrConflict, Message: "exists"}}
		h := handler.NewAuthHandler(svc, nil, logger)

		rr := httptest.NewRecorder()
		h.HandleSignup(rr, jsonRequest(http.MethodPost, "/api/v1/signup", `{"email":"ada@example.com","password":"Secr3t!pw"}`))

		assert.Equal(t, http.StatusConflict, rr.Code)
	})
}

func TestAuthHandler_HandleSignin(t *testing.T) {
	logger := testLogger()

	t.Run("returns token", func(t *testing.T) {
		svc := &MockAuthService{ReturnResult: &service.AuthResult{User: &model.User{ID: "u1"}, Token: "tok"}}
		h := handler.NewAuthHandler(svc, nil, logger)

		rr := httptest.NewRecorder()
		h.HandleSignin(rr, jsonRequest(http.MethodPost, "/api/v1/signin", `{"email":"ada@example.com","password":"pw"}`))

		assert.Equal(t, http.StatusOK, rr.Code)
		body := decodeBody(t, rr)
		assert.Equal(t, "tok", body["token"])
	})

	t.Run("bad credentials is 401", func(t *testing.T) {
		svc := &MockAuthService{ReturnErr: apperror.Unauthorized("invalid email or password")}
		h := handler.NewAuthHandler(svc, nil, logger)

		rr := httptest.NewRecorder()
		h.HandleSignin(rr, jsonRequest(http.MethodPost, "/api/v1/signin", `{"email":"ada@example.com","password":"nope"}`))

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("unknown field is 400", func(t *testing.T) {
		h := handler.NewAuthHandler(&MockAuthService{}, nil, logger)

		rr := httptest.NewRecorder()
		h.HandleSignin(rr, jsonRequest(http.MethodPost, "/api/v1/signin", `{"email":"a@b.c","password":"x","admin":true}`))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("internal error hides detail", func(t *testing.T) {
		svc := &MockAuthService{ReturnErr: errors.New("pq: connection refused at 10.0.0.3")}
		h := handler.NewAuthHandler(svc, nil, logger)

		rr := httptest.NewRecorder()
		h.HandleSignin(rr, jsonRequest(http.MethodPost, "/api/v1/signin", `{"email":"a@b.c","password":"x"}`))

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.NotContains(t, rr.Body.String(), "10.0.0.3")
	})
}

func TestAuthHandler_HandleMe(t *testing.T) {
	svc := &MockAuthService{ReturnUser: &model.User{ID: "u1", Email: "ada@example.com"}}
	h := handler.NewAuthHandler(svc, nil, testLogger())

	rr := httptest.NewRecorder()
	h.HandleMe(rr, httptest.NewRequest(http.MethodGet, "/api/v1/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = httptest.NewRecorder()
	h.HandleMe(rr, asUser(httptest.NewRequest(http.MethodGet, "/api/v1/me", nil), "u1"))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ada@example.com", decodeBody(t, rr)["email"])
}

func TestAuthHandler_GitHubFlow(t *testing.T) {
	logger := testLogger()

	t.Run("login sets state cookie and redirects", func(t *testing.T) {
		h := handler.NewAuthHandler(&MockAuthService{}, &MockGitHub{}, logger)

		rr := httptest.NewRecorder()
		h.HandleGitHubLogin(rr, httptest.NewRequest(http.MethodGet, "/api/v1/auth/github/login", nil))

		assert.Equal(t, http.StatusTemporaryRedirect, rr.Code)
		cookies := rr.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, "oauth_state", cookies[0].Name)
		assert.True(t, cookies[0].HttpOnly)
		assert.Contains(t, rr.Header().Get("Location"), "state="+cookies[0].Value)
	})

	t.Run("callback with matching state returns token", func(t *testing.T) {
		gh := &MockGitHub{ReturnUser: &auth.GitHubUser{ID: 1, Login: "octocat", Email: "o@example.com"}}
		svc := &MockAuthService{ReturnResult: &service.AuthResult{User: &model.User{ID: "u1"}, Token: "gh-token"}}
		h := handler.NewAuthHandler(svc, gh, logger)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/github/callback?code=abc&state=s1", nil)
		req.AddCookie(&http.Cookie{Name: "oauth_state", Value: "s1"})
		rr := httptest.NewRecorder()
		h.HandleGitHubCallback(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "abc", gh.CapturedCode)
		assert.Equal(t, "octocat", svc.CapturedGitHub.Login)
		assert.Equal(t, "gh-token", decodeBody(t, rr)["token"])
	})

	t.Run("callback with wrong state is rejected", func(t *testing.T) {
		gh := &MockGitHub{}
		h := handler.NewAuthHandler(&MockAuthService{}, gh, logger)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/github/callback?code=abc&state=evil", nil)
		req.AddCookie(&http.Cookie{Name: "oauth_state", Value: "s1"})
		rr := httptest.NewRecorder()
		h.HandleGitHubCallback(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Empty(t, gh.CapturedCode, "exchange must not run on a state mismatch")
	})

	t.Run("exchange failure is 502", func(t *testing.T) {
		gh := &MockGitHub{ReturnErr: errors.New("github down")}
		h := handler.NewAuthHandler(&MockAuthService{}, gh, logger)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/github/callback?code=abc&state=s1", nil)
		req.AddCookie(&http.Cookie{Name: "oauth_state", Value: "s1"})
		rr := httptest.NewRecorder()
		h.HandleGitHubCallback(rr, req)

		assert.Equal(t, http.StatusBadGateway, rr.Code)
	})
}

// =========================================================================
// CONTENT HANDLER TESTS
// =========================================================================

// contentRouter mounts h on a chi router so {id} URL params resolve, and
// injects userID the way RequireAuth would.
func contentRouter(h *handler.ContentHandler, userID string) http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, asUser(req, userID))
		})
	})
	r.Post("/api/v1/content", h.HandleCreate)
	r.Get("/api/v1/content", h.HandleList)
	r.Put("/api/v1/content/{id}", h.HandleUpdate)
	r.Delete("/api/v1/content/{id}", h.HandleDelete)
	r.Get("/api/v1/dashboard/counts", h.HandleCounts)
	return r
}

func TestContentHandler_HandleCreate(t *testing.T) {
	svc := &MockContentService{ReturnContent: &model.Content{ID: "c1", Title: "Go"}}
	router := contentRouter(handler.NewContentHandler(svc, testLogger()), "alice")

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, jsonRequest(http.MethodPost, "/api/v1/content",
		`{"type":"youtube","title":"Go","link":"https://go.dev","paraCategory":"projects"}`))

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "alice", svc.CapturedOwner)
	assert.Equal(t, "projects", svc.CapturedInput.Category)

	body := decodeBody(t, rr)
	assert.Equal(t, "Content created", body["message"])
	content, ok := body["content"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "c1", content["id"])
}

func TestContentHandler_HandleCreate_RejectsUserIDInBody(t *testing.T) {
	svc := &MockContentService{}
	router := contentRouter(handler.NewContentHandler(svc, testLogger()), "alice")

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, jsonRequest(http.MethodPost, "/api/v1/content",
		`{"type":"youtube","title":"Go","link":"https://go.dev","userId":"bob"}`))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Empty(t, svc.CapturedOwner, "service must not be called")
}

func TestContentHandler_HandleList(t *testing.T) {
	svc := &MockContentService{ReturnList: []model.Content{}}
	router := contentRouter(handler.NewContentHandler(svc, testLogger()), "alice")

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/content?category=projects&platform=youtube", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, model.CategoryProjects, svc.CapturedFilter.Category)
	assert.Equal(t, "youtube", svc.CapturedFilter.Type)
	assert.Contains(t, rr.Body.String(), `"content":[]`)
}

func TestContentHandler_HandleUpdate(t *testing.T) {
	id := xid.New().String()

	t.Run("applies patch", func(t *testing.T) {
		svc := &MockContentService{ReturnContent: &model.Content{ID: id, Title: "New"}}
		router := contentRouter(handler.NewContentHandler(svc, testLogger()), "alice")

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, jsonRequest(http.MethodPut, "/api/v1/content/"+id, `{"title":"New"}`))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, id, svc.CapturedID)
		require.NotNil(t, svc.CapturedPatch.Title)
		assert.Equal(t, "New", *svc.CapturedPatch.Title)
		assert.Nil(t, svc.CapturedPatch.Link)
	})

	t.Run("not owned is 404", func(t *testing.T) {
		svc := &MockContentService{ReturnErr: apperror.NotOwned("content", id)}
		router := contentRouter(handler.NewContentHandler(svc, testLogger()), "bob")

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, jsonRequest(http.MethodPut, "/api/v1/content/"+id, `{"title":"New"}`))

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("malformed id is 400", func(t *testing.T) {
		svc := &MockContentService{}
		router := contentRouter(handler.NewContentHandler(svc, testLogger()), "alice")

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, jsonRequest(http.MethodPut, "/api/v1/content/not-an-id", `{"title":"New"}`))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Empty(t, svc.CapturedID)
	})
}

func TestContentHandler_HandleDelete(t *testing.T) {
	id := xid.New().String()
	svc := &MockContentService{}
	router := contentRouter(handler.NewContentHandler(svc, testLogger()), "alice")

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/api/v1/content/"+id, nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	body := decodeBody(t, rr)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, id, body["deletedId"])
	assert.Equal(t, "alice", svc.CapturedOwner)
}

func TestContentHandler_HandleCounts(t *testing.T) {
	counts := model.NewContentCounts()
	counts.Add(model.CategoryAreas, "youtube", 2)
	svc := &MockContentService{ReturnCounts: counts}
	router := contentRouter(handler.NewContentHandler(svc, testLogger()), "alice")

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/counts", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	var body struct {
		Counts model.ContentCounts `json:"counts"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	assert.Equal(t, 2, body.Counts.Total)
	assert.Equal(t, 2, body.Counts.Para[model.CategoryAreas])
	assert.Equal(t, 0, body.Counts.Para[model.CategoryProjects])
}

// =========================================================================
// SHARE HANDLER TESTS
// =========================================================================

func TestShareHandler_HandleToggle(t *testing.T) {
	logger := testLogger()

	t.Run("enable returns hash", func(t *testing.T) {
		svc := &MockShareService{ReturnLink: &model.ShareLink{OwnerID: "alice", Hash: "abc123"}}
		h := handler.NewShareHandler(svc, logger)

		rr := httptest.NewRecorder()
		h.HandleToggle(rr, asUser(jsonRequest(http.MethodPost, "/api/v1/brain/share", `{"share":true}`), "alice"))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "abc123", decodeBody(t, rr)["hash"])
		assert.Equal(t, 1, svc.EnableCalls)
	})

	t.Run("disable returns message", func(t *testing.T) {
		svc := &MockShareService{}
		h := handler.NewShareHandler(svc, logger)

		rr := httptest.NewRecorder()
		h.HandleToggle(rr, asUser(jsonRequest(http.MethodPost, "/api/v1/brain/share", `{"share":false}`), "alice"))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "Removed link", decodeBody(t, rr)["message"])
		assert.Equal(t, 1, svc.DisableCalls)
	})

	t.Run("disable while private is 404", func(t *testing.T) {
		svc := &MockShareService{ReturnErr: apperror.NotFound("share link", "alice")}
		h := handler.NewShareHandler(svc, logger)

		rr := httptest.NewRecorder()
		h.HandleToggle(rr, asUser(jsonRequest(http.MethodPost, "/api/v1/brain/share", `{"share":false}`), "alice"))

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("missing share flag is 400", func(t *testing.T) {
		svc := &MockShareService{}
		h := handler.NewShareHandler(svc, logger)

		rr := httptest.NewRecorder()
		h.HandleToggle(rr, asUser(jsonRequest(http.MethodPost, "/api/v1/brain/share", `{}`), "alice"))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Zero(t, svc.EnableCalls+svc.DisableCalls)
	})

	t.Run("non-boolean share flag is 400", func(t *testing.T) {
		h := handler.NewShareHandler(&MockShareService{}, logger)

		rr := httptest.NewRecorder()
		h.HandleToggle(rr, asUser(jsonRequest(http.MethodPost, "/api/v1/brain/share", `{"share":"yes"}`), "alice"))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestShareHandler_HandleView(t *testing.T) {
	svc := &MockShareService{ReturnBrain: &model.SharedBrain{Username: "Alice", Content: []model.Content{}}}
	r := chi.NewRouter()
	r.Get("/api/v1/brain/{shareLink}", handler.NewShareHandler(svc, testLogger()).HandleView)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/brain/~abc123", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "abc123", svc.CapturedHash)
	assert.Equal(t, "Alice", decodeBody(t, rr)["username"])

	svc.CapturedHash = ""
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/brain/abc123", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Empty(t, svc.CapturedHash, "a path without ~ must not reach the service")
}

// =========================================================================
// RESPONSE HELPER TESTS
// =========================================================================

func TestDecodeJSON_Limits(t *testing.T) {
	h := handler.NewAuthHandler(&MockAuthService{}, nil, testLogger())

	tests := []struct {
		name string
		body string
	}{
		{"empty", ""},
		{"trailing object", `{"email":"a@b.c","password":"x"}{"email":"x"}`},
		{"trailing brace", `{"email":"a@b.c","password":"x"}}`},
		{"trailing bracket", `{"email":"a@b.c","password":"x"}]`},
		{"wrong type", `{"email":42,"password":"x"}`},
		{"too large", `{"email":"` + strings.Repeat("a", 2<<20) + `","password":"x"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			h.HandleSignin(rr, jsonRequest(http.MethodPost, "/api/v1/signin", tt.body))
			assert.Equal(t, http.StatusBadRequest, rr.Code)
		})
	}
}

func TestHealthHandler(t *testing.T) {
	rr := httptest.NewRecorder()
	handler.NewHealthHandler(MockPinger{}, testLogger()).HandleHealth(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	handler.NewHealthHandler(MockPinger{Err: errors.New("down")}, testLogger()).HandleHealth(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}
