package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/rs/xid"

	"github.com/sakif/second-brain/internal/auth"
	"github.com/sakif/second-brain/internal/model"
	"github.com/sakif/second-brain/internal/service"
)

// AuthService is what AuthHandler needs from service.AuthService.
type AuthService interface {
	Signup(ctx context.Context, in service.SignupInput) (*model.User, error)
	Signin(ctx context.Context, in service.SigninInput) (*service.AuthResult, error)
	LoginOrRegisterGitHub(ctx context.Context, ghUser *auth.GitHubUser) (*service.AuthResult, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
}

// GitHubExchanger is the OAuth half of auth.GitHubProvider.
type GitHubExchanger interface {
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) (*auth.GitHubUser, error)
}

const oauthStateCookie = "oauth_state"

// AuthHandler serves account creation and token issuance.
//
// HANDLER RESPONSIBILITIES:
//   - HandleSignup         → create an account
//   - HandleSignin         → check credentials, return a bearer token
//   - HandleMe             → the signed-in user's profile
//   - HandleGitHubLogin    → redirect to GitHub's authorization page
//   - HandleGitHubCallback → exchange the code, return a bearer token
//
// The GitHub pair is only routed when GitHub credentials are configured;
// github is nil otherwise.
type AuthHandler struct {
	auth   AuthService
	github GitHubExchanger
	logger *slog.Logger
}

func NewAuthHandler(authService AuthService, github GitHubExchanger, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		auth:   authService,
		github: github,
		logger: logger,
	}
}

type signupResponse struct {
	Message string      `json:"message"`
	User    *model.User `json:"user"`
}

type tokenResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

// HandleSignup creates an account.
//
// HTTP: POST /api/v1/signup
// REQUEST BODY: {"email": "...", "password": "...", "name": "..."}
//
// Validation failures answer 411 rather than 400; the frontend was built
// against that status and branches on it.
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var in service.SignupInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeErrorWithValidationStatus(w, h.logger, err, http.StatusLengthRequired)
		return
	}

	user, err := h.auth.Signup(r.Context(), in)
	if err != nil {
		writeErrorWithValidationStatus(w, h.logger, err, http.StatusLengthRequired)
		return
	}

	writeJSON(w, http.StatusCreated, signupResponse{Message: "User created successfully", User: user})
}

// HandleSignin exchanges credentials for a bearer token.
//
// HTTP: POST /api/v1/signin
// REQUEST BODY: {"email": "...", "password": "..."}
func (h *AuthHandler) HandleSignin(w http.ResponseWriter, r *http.Request) {
	var in service.SigninInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}

	result, err := h.auth.Signin(r.Context(), in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{Message: "Signed in successfully", Token: result.Token})
}

// HandleMe returns the currently authenticated user's profile.
//
// HTTP: GET /api/v1/me
// Auth: Required
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	user, err := h.auth.GetUserByID(r.Context(), userID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// HandleGitHubLogin redirects the browser to GitHub's authorization page.
//
// HTTP: GET /api/v1/auth/github/login
//
// CSRF PROTECTION VIA STATE:
// A random state goes into a short-lived HttpOnly cookie and into the
// authorization URL. The callback only proceeds when the two match.
func (h *AuthHandler) HandleGitHubLogin(w http.ResponseWriter, r *http.Request) {
	state := xid.New().String()

	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.github.AuthURL(state), http.StatusTemporaryRedirect)
}

// HandleGitHubCallback completes the OAuth flow.
//
// HTTP: GET /api/v1/auth/github/callback?code=xxx&state=yyy
//
// FLOW:
//  1. Check the state against the cookie
//  2. Exchange the code for a GitHub profile
//  3. Find or create the user by email
//  4. Return a bearer token, the same shape as signin
func (h *AuthHandler) HandleGitHubCallback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	stateCookie, err := r.Cookie(oauthStateCookie)
	if err != nil || stateCookie.Value == "" || query.Get("state") != stateCookie.Value {
		h.logger.Warn("github callback: state mismatch")
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "invalid OAuth state"})
		return
	}

	// Single use.
	http.SetCookie(w, &http.Cookie{Name: oauthStateCookie, Value: "", Path: "/", MaxAge: -1})

	if errParam := query.Get("error"); errParam != "" {
		h.logger.Info("github callback: authorization denied", slog.String("error", errParam))
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "GitHub authorization was denied"})
		return
	}

	code := query.Get("code")
	if code == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "missing OAuth code"})
		return
	}

	ghUser, err := h.github.Exchange(r.Context(), code)
	if err != nil {
		h.logger.Error("github callback: exchange failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadGateway, ErrorResponse{Error: "upstream_error", Message: "GitHub sign-in failed"})
		return
	}

	result, err := h.auth.LoginOrRegisterGitHub(r.Context(), ghUser)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{Message: "Signed in successfully", Token: result.Token})
}

// requireUserID reads the ID RequireAuth stored. A route mounted without the
// middleware is a wiring bug, reported as 401 rather than a panic.
func requireUserID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "authentication required"})
	}
	return userID, ok
}
