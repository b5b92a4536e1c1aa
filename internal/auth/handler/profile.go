package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/RockySheoran/supabase-login-demo/internal/auth/profile"
	"github.com/RockySheoran/supabase-login-demo/internal/middleware"
	"github.com/RockySheoran/supabase-login-demo/internal/session"
)

// GetProfile handles GET /auth/profile for an authenticated subject.
func (h *Handler) GetProfile(c *gin.Context) {
	principal, ok := middleware.PrincipalFromContext(c.Request.Context())
	if !ok {
		respondError(c, http.StatusUnauthorized, "Not authorized to access this route")
		return
	}

	prof, err := h.profiles.GetByID(c.Request.Context(), principal.SubjectID)
	if errors.Is(err, profile.ErrNotFound) {
		respondError(c, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		h.log.Error("profile lookup failed", zap.Error(err))
		serverError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    prof,
	})
}

type updateProfileRequest struct {
	Name      *string `json:"name"`
	AvatarURL *string `json:"avatar_url"`
}

// UpdateProfile handles PUT /auth/profile. Only name and avatar are
// editable; id, email and provider are fixed at creation.
func (h *Handler) UpdateProfile(c *gin.Context) {
	principal, ok := middleware.PrincipalFromContext(c.Request.Context())
	if !ok {
		respondError(c, http.StatusUnauthorized, "Not authorized to access this route")
		return
	}

	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == nil && req.AvatarURL == nil {
		respondError(c, http.StatusBadRequest, "Nothing to update")
		return
	}
	if req.Name != nil && *req.Name == "" {
		respondError(c, http.StatusBadRequest, "Name must not be empty")
		return
	}

	prof, err := h.profiles.Update(c.Request.Context(), principal.SubjectID, profile.Update{
		Name:      req.Name,
		AvatarURL: req.AvatarURL,
	})
	if errors.Is(err, profile.ErrNotFound) {
		respondError(c, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		h.log.Error("profile update failed", zap.Error(err))
		serverError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    prof,
	})
}

// DeleteAccount handles DELETE /auth/profile: soft-deletes the row and
// clears the cookie. The token itself stays valid until expiry; the profile
// lookup guard is what locks the account out.
func (h *Handler) DeleteAccount(c *gin.Context) {
	principal, ok := middleware.PrincipalFromContext(c.Request.Context())
	if !ok {
		respondError(c, http.StatusUnauthorized, "Not authorized to access this route")
		return
	}

	err := h.profiles.SoftDelete(c.Request.Context(), principal.SubjectID)
	if errors.Is(err, profile.ErrNotFound) {
		respondError(c, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		h.log.Error("account deletion failed", zap.Error(err))
		serverError(c)
		return
	}

	h.clearTokenCookie(c)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Account deleted",
	})
}

// Logout handles POST /auth/logout. There is no server-side session to
// revoke; only the client-held cookie is cleared.
func (h *Handler) Logout(c *gin.Context) {
	h.clearTokenCookie(c)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Logged out successfully",
	})
}

func (h *Handler) clearTokenCookie(c *gin.Context) {
	session.ClearCookie(c.Writer, session.CookieOptions{
		Secure:   h.secureCookies,
		SameSite: http.SameSiteStrictMode,
	})
}
