package httpapi

import (
	"errors"
	"net/http"
	"time"

	"ideadrop.org/internal/audit"
	"ideadrop.org/internal/auth"
	"ideadrop.org/internal/token"
)

const refreshCookieName = "refreshToken"

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userPayload struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// sessionResponse is the body of register, login and refresh. The refresh
// token never appears here; it travels only in the cookie.
type sessionResponse struct {
	AccessToken string      `json:"accessToken"`
	User        userPayload `json:"user"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func (a *API) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	sess, err := a.sessions.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidInput):
			writeError(w, r, http.StatusBadRequest, "All fields are required")
		case errors.Is(err, auth.ErrAlreadyExists):
			writeError(w, r, http.StatusBadRequest, "User already exists")
		default:
			writeError(w, r, http.StatusInternalServerError, "registration failed")
		}
		return
	}

	_ = audit.LogEvent(r.Context(), "auth.register", map[string]any{
		"user_id": sess.User.ID,
		"email":   sess.User.Email,
	})

	http.SetCookie(w, a.refreshCookie(sess.RefreshToken, a.sessions.RefreshTTL()))
	writeJSON(w, http.StatusCreated, sessionBody(sess))
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	sess, err := a.sessions.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidInput):
			writeError(w, r, http.StatusBadRequest, "Email and password are required")
		case errors.Is(err, auth.ErrInvalidCredentials):
			// Same status and message whether the email is unknown or the
			// password is wrong.
			writeError(w, r, http.StatusUnauthorized, "Invalid Credentials")
		default:
			writeError(w, r, http.StatusInternalServerError, "login failed")
		}
		return
	}

	_ = audit.LogEvent(r.Context(), "auth.login", map[string]any{
		"user_id": sess.User.ID,
	})

	http.SetCookie(w, a.refreshCookie(sess.RefreshToken, a.sessions.RefreshTTL()))
	writeJSON(w, http.StatusCreated, sessionBody(sess))
}

// handleLogout clears the refresh cookie. It is idempotent: a request without
// a prior session still gets a 200.
func (a *API) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	_ = audit.LogEvent(r.Context(), "auth.logout", nil)

	http.SetCookie(w, a.clearedRefreshCookie())
	writeJSON(w, http.StatusOK, messageResponse{Message: "Logged out successfully"})
}

func (a *API) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	cookie, err := r.Cookie(refreshCookieName)
	if err != nil || cookie.Value == "" {
		writeError(w, r, http.StatusUnauthorized, "No refresh token")
		return
	}

	sess, err := a.sessions.Refresh(r.Context(), cookie.Value)
	if err != nil {
		switch {
		case errors.Is(err, token.ErrTokenExpired), errors.Is(err, token.ErrTokenInvalid):
			writeError(w, r, http.StatusUnauthorized, "Invalid refresh token")
		case errors.Is(err, auth.ErrNotFound):
			writeError(w, r, http.StatusUnauthorized, "No user")
		default:
			writeError(w, r, http.StatusInternalServerError, "refresh failed")
		}
		return
	}

	_ = audit.LogEvent(r.Context(), "auth.refresh", map[string]any{
		"user_id": sess.User.ID,
	})

	// No Set-Cookie here: the refresh token is not rotated.
	writeJSON(w, http.StatusOK, sessionBody(sess))
}

func sessionBody(sess auth.Session) sessionResponse {
	return sessionResponse{
		AccessToken: sess.AccessToken,
		User: userPayload{
			ID:    sess.User.ID,
			Name:  sess.User.Name,
			Email: sess.User.Email,
		},
	}
}

// refreshCookie builds the refresh cookie with the configured policy. The
// clearing cookie must use the identical attribute set, otherwise browsers
// silently keep the old cookie.
func (a *API) refreshCookie(value string, maxAge time.Duration) *http.Cookie {
	c := &http.Cookie{
		Name:     refreshCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(maxAge / time.Second),
		HttpOnly: true,
		Secure:   a.cookies.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	if a.cookies.CrossSite {
		c.SameSite = http.SameSiteNoneMode
	}
	return c
}

func (a *API) clearedRefreshCookie() *http.Cookie {
	c := a.refreshCookie("", 0)
	c.MaxAge = -1
	return c
}
