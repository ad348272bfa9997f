package authapi

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"relay/cmd/identity"
	"relay/cmd/internal/auth/session"
	"relay/cmd/internal/media"
)

// Handler wires the HTTP auth endpoints to the identity store, the session
// token manager, and the media uploader.
type Handler struct {
	log *slog.Logger
	cfg Config

	store    identity.Store
	tokens   session.TokenManager
	uploader media.Uploader
	sessCfg  session.Config

	dummyHash string
}

// NewHandler constructs an auth Handler.
func NewHandler(log *slog.Logger, cfg Config, sessCfg session.Config, store identity.Store, tokens session.TokenManager, uploader media.Uploader) (*Handler, error) {
	if log == nil {
		log = slog.Default()
	}
	if store == nil {
		return nil, errors.New("auth: nil identity store")
	}
	if tokens == nil {
		return nil, errors.New("auth: nil token manager")
	}
	if uploader == nil {
		return nil, errors.New("auth: nil media uploader")
	}

	h := &Handler{
		log:      log,
		cfg:      cfg,
		store:    store,
		tokens:   tokens,
		uploader: uploader,
		sessCfg:  sessCfg,
	}

	// Dummy hash for timing-resistant login checks on unknown emails.
	if hash, err := identity.HashPassword("dummy-password-for-timing-only"); err == nil {
		h.dummyHash = hash
	}

	return h, nil
}

// Register wires auth routes onto the provided mux.
func (h *Handler) Register(mux *http.ServeMux) {
	if h == nil || mux == nil {
		return
	}
	mux.HandleFunc("POST /api/auth/signup", h.handleSignup)
	mux.HandleFunc("POST /api/auth/login", h.handleLogin)
	mux.HandleFunc("POST /api/auth/logout", h.handleLogout)
	mux.HandleFunc("GET /api/auth/check", h.RequireAuth(h.handleCheck))
	mux.HandleFunc("PUT /api/auth/update-profile", h.RequireAuth(h.handleUpdateProfile))
}

// ---- handlers ----

func (h *Handler) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}

	fullName := strings.TrimSpace(req.FullName)
	email := strings.TrimSpace(req.Email)

	if fullName == "" || email == "" || req.Password == "" {
		writeDomainError(h.log, w, "auth.signup.fail", invalidInput("All fields are required"))
		return
	}
	if len(req.Password) < 6 {
		writeDomainError(h.log, w, "auth.signup.fail", invalidInput("Password must be at least 6 characters"))
		return
	}

	ctx := r.Context()
	now := time.Now().UTC()

	res, err := h.store.CreateUser(ctx, identity.CreateUserInput{
		FullName: fullName,
		Email:    email,
		Password: req.Password,
		Now:      now,
	})
	if err != nil {
		writeDomainError(h.log, w, "auth.signup.fail", err)
		return
	}

	// Creation and token issuance are one unit from the client's point of
	// view: if signing fails the client gets an error, not a user payload
	// it cannot authenticate with.
	token, expiresAt, err := h.tokens.Issue(res.User.ID, now)
	if err != nil {
		writeDomainError(h.log, w, "auth.signup.issue_token.fail", err)
		return
	}

	h.setSessionCookie(w, token, expiresAt)
	writeJSON(w, http.StatusCreated, toUserResponse(res.User))
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}

	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		writeDomainError(h.log, w, "auth.login.fail", invalidInput("All fields are required"))
		return
	}

	ctx := r.Context()
	now := time.Now().UTC()

	userAuth, err := h.store.GetUserAuthByEmail(ctx, email)
	if err != nil {
		if identity.IsNotFound(err) {
			// Timing resistance: burn a verify so unknown emails cost the
			// same as wrong passwords.
			if h.dummyHash != "" {
				_, _ = identity.VerifyPassword(req.Password, h.dummyHash)
			}
			writeDomainError(h.log, w, "auth.login.fail", errInvalidCredentials)
			return
		}
		writeDomainError(h.log, w, "auth.login.fail", err)
		return
	}

	okPw, err := identity.VerifyPassword(req.Password, userAuth.PasswordHash)
	if err != nil {
		// A corrupt stored hash is our fault, never "wrong password".
		writeDomainError(h.log, w, "auth.login.verify.fail", err)
		return
	}
	if !okPw {
		writeDomainError(h.log, w, "auth.login.fail", errInvalidCredentials)
		return
	}

	token, expiresAt, err := h.tokens.Issue(userAuth.User.ID, now)
	if err != nil {
		writeDomainError(h.log, w, "auth.login.issue_token.fail", err)
		return
	}

	h.setSessionCookie(w, token, expiresAt)
	writeJSON(w, http.StatusOK, toUserResponse(userAuth.User))
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	// Logout needs no valid session: clearing the cookie is idempotent and
	// safe for anonymous callers.
	h.clearSessionCookie(w)
	writeJSON(w, http.StatusOK, messageResponse{Message: "Logged out successfully"})
}

func (h *Handler) handleCheck(w http.ResponseWriter, r *http.Request) {
	u, ok := userFromRequest(r)
	if !ok {
		h.log.Error("auth.check.fail", "err", "no identity in context on guarded route")
		writeError(w, http.StatusInternalServerError, "server_error", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(u))
}

func (h *Handler) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	u, ok := userFromRequest(r)
	if !ok {
		h.log.Error("auth.update_profile.fail", "err", "no identity in context on guarded route")
		writeError(w, http.StatusInternalServerError, "server_error", "internal error")
		return
	}

	var req updateProfileRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}
	if strings.TrimSpace(req.ProfilePic) == "" {
		writeDomainError(h.log, w, "auth.update_profile.fail", invalidInput("Profile pic is required"))
		return
	}

	img, err := media.DecodeDataURL(req.ProfilePic)
	if err != nil {
		writeDomainError(h.log, w, "auth.update_profile.decode.fail", err)
		return
	}

	ctx := r.Context()

	url, err := h.uploader.Upload(ctx, img)
	if err != nil {
		writeDomainError(h.log, w, "auth.update_profile.upload.fail", err)
		return
	}

	updated, err := h.store.UpdateProfilePicture(ctx, u.ID, url, time.Now().UTC())
	if err != nil {
		writeDomainError(h.log, w, "auth.update_profile.persist.fail", err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(updated))
}
