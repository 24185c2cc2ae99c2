package bootstrap

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	httpapi "github.com/serp-db/serp-backend/internal/api/http"
	apimw "github.com/serp-db/serp-backend/internal/api/http/middleware"
	"github.com/serp-db/serp-backend/internal/auth"
	authmw "github.com/serp-db/serp-backend/internal/auth/middleware"
	cataloghttp "github.com/serp-db/serp-backend/internal/catalog/http"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	CORSOrigins []string
	Catalog     cataloghttp.Catalog
	Runs        cataloghttp.Runs
	Checks      map[string]httpapi.Pinger
	// Verifier enables Firebase ID tokens; nil falls back to the X-User-Id header.
	Verifier authmw.TokenVerifier
}

func SetGinMode(env string) {
	switch env {
	case "production":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	}
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(apimw.RequestIDMiddleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     dep.CORSOrigins,
		AllowMethods:     []string{"GET", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-User-Id", apimw.HeaderRequestID},
		ExposeHeaders:    []string{apimw.HeaderRequestID},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.Checks)
	healthHandler.RegisterRoutes(r)

	api := r.Group("/api/v1")
	if dep.Verifier != nil {
		api.Use(authmw.FirebaseAuthMiddleware(dep.Verifier))
	} else {
		api.Use(auth.OptionalUser())
	}

	cataloghttp.New(dep.Catalog, dep.Runs).Register(api)

	return r
}

// Checks builds the health checks for the store and, when configured, Redis.
func Checks(store Store, redisClient *redis.Client) map[string]httpapi.Pinger {
	checks := map[string]httpapi.Pinger{"store": store, "redis": nil}
	if redisClient != nil {
		checks["redis"] = redisPinger{client: redisClient}
	}
	return checks
}
