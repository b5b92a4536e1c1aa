package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/RockySheoran/supabase-login-demo/internal/auth/idp"
	"github.com/RockySheoran/supabase-login-demo/internal/auth/profile"
	"github.com/RockySheoran/supabase-login-demo/internal/auth/token"
)

// Handler owns the three session-issuance flows (direct login, provider
// redirect initiation, provider callback) plus the profile and logout
// endpoints built on top of an issued session.
type Handler struct {
	idp        idp.Verifier
	reconciler *profile.Reconciler
	profiles   profile.Store
	codec      *token.Codec

	clientURL     string
	secureCookies bool
	log           *zap.Logger
}

// Deps bundles everything the handler needs. All fields are required.
type Deps struct {
	IdP           idp.Verifier
	Reconciler    *profile.Reconciler
	Profiles      profile.Store
	Codec         *token.Codec
	ClientURL     string
	SecureCookies bool
	Log           *zap.Logger
}

func New(deps Deps) *Handler {
	return &Handler{
		idp:           deps.IdP,
		reconciler:    deps.Reconciler,
		profiles:      deps.Profiles,
		codec:         deps.Codec,
		clientURL:     deps.ClientURL,
		secureCookies: deps.SecureCookies,
		log:           deps.Log,
	}
}

// RegisterRoutes mounts the public authentication endpoints.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.POST("/auth/login/email", h.LoginWithEmail)
	r.GET("/auth/login/:provider", h.LoginWithProvider)
	r.GET("/auth/callback", h.ProviderCallback)
}

// RegisterProtectedRoutes mounts the endpoints that require a valid session.
func (h *Handler) RegisterProtectedRoutes(g *gin.RouterGroup) {
	g.GET("/auth/profile", h.GetProfile)
	g.PUT("/auth/profile", h.UpdateProfile)
	g.DELETE("/auth/profile", h.DeleteAccount)
	g.POST("/auth/logout", h.Logout)
}

// respondError writes the uniform failure envelope used by all JSON flows.
func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"message": message,
	})
}

// serverError hides internal detail behind a generic envelope; the cause is
// already logged by the caller.
func serverError(c *gin.Context) {
	respondError(c, http.StatusInternalServerError, "Server error")
}
