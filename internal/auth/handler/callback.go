package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/RockySheoran/supabase-login-demo/internal/auth"
)

// Redirect error codes understood by the frontend login page. The callback
// flow never answers with a JSON body: its caller is always a browser
// mid-redirect.
const (
	redirectOAuthFailed     = "oauth_failed"
	redirectInvalidAuthCode = "invalid_auth_code"
	redirectExchangeFailed  = "session_exchange_failed"
	redirectUserNotFound    = "user_not_found"
	redirectCreationFailed  = "user_creation_failed"
	redirectInternalError   = "internal_server_error"
)

// ProviderCallback handles GET /auth/callback, the return leg of a social
// login. On success the browser lands on the client's callback page with the
// token attached; every failure branch redirects to the client's login page
// with a distinct error code.
func (h *Handler) ProviderCallback(c *gin.Context) {
	// Provider-reported OAuth error (e.g. the user denied consent).
	if errParam := c.Query("error"); errParam != "" {
		err := fmt.Errorf("%w: %s: %s", auth.ErrProviderError, errParam, c.Query("error_description"))
		h.log.Warn("oauth callback returned error", zap.Error(err))
		h.redirectWithError(c, redirectOAuthFailed)
		return
	}

	if !validateState(c) {
		h.log.Warn("oauth callback state mismatch")
		h.redirectWithError(c, redirectOAuthFailed)
		return
	}

	code := c.Query("code")
	if code == "" {
		h.log.Warn("oauth callback missing both code and error")
		h.redirectWithError(c, redirectInvalidAuthCode)
		return
	}

	codeVerifier := getPKCEVerifier(c)
	if codeVerifier == "" {
		h.log.Warn("oauth callback missing pkce verifier")
		h.redirectWithError(c, redirectOAuthFailed)
		return
	}

	claim, err := h.idp.CompleteProviderLogin(c.Request.Context(), code, codeVerifier)
	if err != nil {
		h.log.Error("provider login completion failed", zap.Error(err))
		switch {
		case errors.Is(err, auth.ErrInvalidInput):
			h.redirectWithError(c, redirectInvalidAuthCode)
		case errors.Is(err, auth.ErrExchangeFailed):
			h.redirectWithError(c, redirectExchangeFailed)
		case errors.Is(err, auth.ErrClaimRetrievalFailed):
			h.redirectWithError(c, redirectUserNotFound)
		default:
			h.redirectWithError(c, redirectInternalError)
		}
		return
	}

	prof, err := h.reconciler.Resolve(c.Request.Context(), claim)
	if err != nil {
		h.log.Error("profile reconciliation failed during callback", zap.Error(err))
		if errors.Is(err, auth.ErrProfileCreationFailed) {
			h.redirectWithError(c, redirectCreationFailed)
		} else {
			h.redirectWithError(c, redirectInternalError)
		}
		return
	}

	tokenString, err := h.codec.Issue(prof.ID, claim.Email)
	if err != nil {
		h.log.Error("token issuance failed during callback", zap.Error(err))
		h.redirectWithError(c, redirectInternalError)
		return
	}

	h.setTokenCookie(c, tokenString)

	c.Redirect(
		http.StatusFound,
		h.clientURL+"/auth/callback?token="+url.QueryEscape(tokenString),
	)
}

func (h *Handler) redirectWithError(c *gin.Context, code string) {
	c.Redirect(http.StatusFound, h.clientURL+"/login?error="+code)
}
