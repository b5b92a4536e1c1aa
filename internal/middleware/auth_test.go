package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/RockySheoran/supabase-login-demo/internal/auth/token"
	"github.com/RockySheoran/supabase-login-demo/internal/session"
)

func newTestMiddleware(t *testing.T) (*AuthMiddleware, *token.Codec) {
	t.Helper()
	codec, err := token.NewCodec("middleware-test-secret", time.Hour)
	require.NoError(t, err)
	return NewAuthMiddleware(codec, zap.NewNop()), codec
}

// echoPrincipal records whether the downstream handler ran and with which
// principal.
func echoPrincipal(captured **token.Principal) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, _ := PrincipalFromContext(r.Context())
		*captured = p
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAuthMissingToken(t *testing.T) {
	mw, _ := newTestMiddleware(t)

	var captured *token.Principal
	handler := mw.RequireAuth(echoPrincipal(&captured))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Nil(t, captured, "downstream handler must not run")
	assert.JSONEq(t,
		`{"success":false,"message":"Not authorized to access this route"}`,
		w.Body.String())
}

func TestRequireAuthBearerHeader(t *testing.T) {
	mw, codec := newTestMiddleware(t)
	tokenString, err := codec.Issue("sub-1", "a@b.com")
	require.NoError(t, err)

	var captured *token.Principal
	handler := mw.RequireAuth(echoPrincipal(&captured))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+tokenString)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, captured)
	assert.Equal(t, "sub-1", captured.SubjectID)
	assert.Equal(t, "a@b.com", captured.Email)
}

func TestRequireAuthCookieFallback(t *testing.T) {
	mw, codec := newTestMiddleware(t)
	tokenString, err := codec.Issue("sub-2", "c@d.com")
	require.NoError(t, err)

	var captured *token.Principal
	handler := mw.RequireAuth(echoPrincipal(&captured))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: tokenString})
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, captured)
	assert.Equal(t, "sub-2", captured.SubjectID)
}

func TestRequireAuthHeaderBeatsCookie(t *testing.T) {
	mw, codec := newTestMiddleware(t)
	headerToken, err := codec.Issue("header-sub", "h@h.com")
	require.NoError(t, err)
	cookieToken, err := codec.Issue("cookie-sub", "c@c.com")
	require.NoError(t, err)

	var captured *token.Principal
	handler := mw.RequireAuth(echoPrincipal(&captured))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+headerToken)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: cookieToken})
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, captured)
	assert.Equal(t, "header-sub", captured.SubjectID)
}

func TestRequireAuthRejectsInvalidTokens(t *testing.T) {
	mw, _ := newTestMiddleware(t)

	otherCodec, err := token.NewCodec("some-other-secret", time.Hour)
	require.NoError(t, err)
	forged, err := otherCodec.Issue("sub-1", "a@b.com")
	require.NoError(t, err)

	for name, tokenString := range map[string]string{
		"garbage": "not-a-token",
		"forged":  forged,
	} {
		t.Run(name, func(t *testing.T) {
			var captured *token.Principal
			handler := mw.RequireAuth(echoPrincipal(&captured))

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			req.Header.Set("Authorization", "Bearer "+tokenString)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Nil(t, captured)
		})
	}
}
