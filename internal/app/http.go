package app

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/RockySheoran/supabase-login-demo/internal/auth/handler"
	"github.com/RockySheoran/supabase-login-demo/internal/auth/idp"
	"github.com/RockySheoran/supabase-login-demo/internal/auth/profile"
	"github.com/RockySheoran/supabase-login-demo/internal/auth/token"
	"github.com/RockySheoran/supabase-login-demo/internal/config"
	"github.com/RockySheoran/supabase-login-demo/internal/middleware"
)

func setupHTTP(ctx context.Context, cfg config.Config, log *zap.Logger) (*gin.Engine, func() error, error) {

	infra, err := setupInfra(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}

	// ----------------------------
	// Dependencies
	// ----------------------------

	codec, err := token.NewCodec(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		return nil, nil, err
	}

	identityProvider, err := idp.NewOIDC(ctx, idp.Config{
		Issuer:       cfg.IdPIssuer,
		ClientID:     cfg.IdPClientID,
		ClientSecret: cfg.IdPClientSecret,
		RedirectURL:  cfg.IdPRedirectURL,
		Timeout:      cfg.UpstreamTimeout,
	}, log)
	if err != nil {
		return nil, nil, err
	}

	profileStore := profile.NewPGStore(infra.DB)
	reconciler := profile.NewReconciler(profileStore, cfg.UpstreamTimeout, log)

	authHandler := handler.New(handler.Deps{
		IdP:           identityProvider,
		Reconciler:    reconciler,
		Profiles:      profileStore,
		Codec:         codec,
		ClientURL:     cfg.ClientURL,
		SecureCookies: cfg.IsProduction(),
		Log:           log,
	})

	authMiddleware := middleware.NewAuthMiddleware(codec, log)

	// ----------------------------
	// Router
	// ----------------------------

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging(log))
	router.Use(middleware.CORS(cfg.CORSOrigin))

	// ----------------------------
	// Public Routes
	// ----------------------------

	authHandler.RegisterRoutes(router)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ----------------------------
	// Protected Routes
	// ----------------------------

	protected := router.Group("/")
	protected.Use(middleware.GinRequireAuth(authMiddleware))

	authHandler.RegisterProtectedRoutes(protected)

	// ----------------------------
	// Cleanup
	// ----------------------------

	return router, func() error {
		return infra.DB.Close()
	}, nil
}
