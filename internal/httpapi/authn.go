package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"ideadrop.org/internal/auth"
)

const (
	authHeader = "Authorization"
	bearer     = "Bearer "
)

// authenticate resolves the access token on a protected request and returns
// the authenticated user id. The user must still exist: a valid token for a
// deleted account is rejected.
func (a *API) authenticate(r *http.Request) (string, error) {
	tok, err := extractBearerToken(r.Header.Get(authHeader))
	if err != nil {
		return "", err
	}
	claims, err := a.tokens.Verify(tok)
	if err != nil {
		return "", errors.New("invalid token")
	}
	user, err := a.users.Find(r.Context(), claims.UserID)
	if err != nil {
		return "", errors.New("invalid token")
	}
	return user.ID, nil
}

// requireUser authenticates the request and stores the identity in the
// context; it writes the 401 itself and reports whether to proceed.
func (a *API) requireUser(w http.ResponseWriter, r *http.Request) (*http.Request, bool) {
	userID, err := a.authenticate(r)
	if err != nil {
		w.Header().Set("WWW-Authenticate", `Bearer realm="ideadrop"`)
		writeError(w, r, http.StatusUnauthorized, err.Error())
		return r, false
	}
	ctx := auth.ContextWithUser(r.Context(), userID)
	return r.WithContext(ctx), true
}

func extractBearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", errors.New("missing bearer token")
	}
	if !strings.HasPrefix(strings.ToLower(header), strings.ToLower(bearer)) {
		return "", errors.New("invalid authorization scheme")
	}
	token := strings.TrimSpace(header[len(bearer):])
	if token == "" {
		return "", errors.New("missing bearer token")
	}
	return token, nil
}
