package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/RockySheoran/supabase-login-demo/internal/auth"
	"github.com/RockySheoran/supabase-login-demo/internal/auth/idp"
	"github.com/RockySheoran/supabase-login-demo/internal/session"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// The same message answers wrong passwords and unknown emails so responses
// cannot be used to enumerate accounts.
const genericAuthFailure = "Invalid email or password"

// LoginWithEmail handles POST /auth/login/email: delegate the credential to
// the identity provider, reconcile the profile, issue a token. The token is
// delivered both in the body and as a cookie so API and browser clients can
// each use their natural channel.
func (h *Handler) LoginWithEmail(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Email and password are required")
		return
	}
	if req.Email == "" || req.Password == "" {
		respondError(c, http.StatusBadRequest, "Email and password are required")
		return
	}

	claim, err := h.idp.VerifyPassword(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidInput):
			respondError(c, http.StatusBadRequest, "Email and password are required")
		case errors.Is(err, auth.ErrUpstreamTimeout):
			h.log.Error("identity provider timed out", zap.Error(err))
			respondError(c, http.StatusGatewayTimeout, "Authentication service unavailable")
		default:
			respondError(c, http.StatusUnauthorized, genericAuthFailure)
		}
		return
	}

	prof, err := h.reconciler.Resolve(c.Request.Context(), claim)
	if err != nil {
		h.log.Error("profile reconciliation failed", zap.Error(err))
		serverError(c)
		return
	}

	tokenString, err := h.codec.Issue(prof.ID, claim.Email)
	if err != nil {
		h.log.Error("token issuance failed", zap.Error(err))
		serverError(c)
		return
	}

	h.setTokenCookie(c, tokenString)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   tokenString,
		"user":    prof,
	})
}

// LoginWithProvider handles GET /auth/login/:provider. It validates the
// provider against the allow-list, stores state and PKCE material in
// short-lived cookies and returns the authorization URL; the caller performs
// the browser redirect.
func (h *Handler) LoginWithProvider(c *gin.Context) {
	provider, err := idp.ParseProvider(c.Param("provider"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Unsupported login provider")
		return
	}

	state := generateState(c, h.secureCookies)
	_, codeChallenge := generatePKCE(c, h.secureCookies)

	url := h.idp.BeginProviderLogin(provider, state, codeChallenge)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"url":     url,
	})
}

func (h *Handler) setTokenCookie(c *gin.Context, tokenString string) {
	session.SetCookie(
		c.Writer,
		tokenString,
		time.Now().Add(h.codec.TTL()),
		session.CookieOptions{
			Secure:   h.secureCookies,
			SameSite: http.SameSiteStrictMode,
		},
	)
}
