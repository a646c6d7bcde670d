package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kalaasetu/kalaasetu-backend/api/controllers"
	"github.com/kalaasetu/kalaasetu-backend/api/middleware"
	"github.com/kalaasetu/kalaasetu-backend/internal/ai"
	"github.com/kalaasetu/kalaasetu-backend/internal/applications"
	"github.com/kalaasetu/kalaasetu-backend/internal/enhance"
	"github.com/kalaasetu/kalaasetu-backend/internal/hires"
	"github.com/kalaasetu/kalaasetu-backend/internal/requirements"
	"github.com/kalaasetu/kalaasetu-backend/internal/uploads"
	"github.com/kalaasetu/kalaasetu-backend/pkg/config"
	"github.com/kalaasetu/kalaasetu-backend/pkg/db"
	"github.com/kalaasetu/kalaasetu-backend/pkg/enums"
	"github.com/kalaasetu/kalaasetu-backend/pkg/logger"
	"github.com/kalaasetu/kalaasetu-backend/pkg/metrics"
	"github.com/kalaasetu/kalaasetu-backend/pkg/redis"
)

// NewRouter mounts the full HTTP surface: the public health and discovery
// endpoints, the role-gated artist, moderator, and client groups, and the
// rate-limited AI endpoints.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	database db.Pinger,
	redisClient *redis.Client,
	httpMetrics *metrics.HTTPMetrics,
	gatherer prometheus.Gatherer,
	uploadStore *uploads.Store,
	applicationsService applications.Service,
	requirementsService requirements.Service,
	hiresService hires.Service,
	aiService ai.Service,
	imagePipeline *enhance.Pipeline,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	var cache redis.Pinger
	if redisClient != nil {
		cache = redisClient
	}

	aiPolicy := middleware.NewRateLimitPolicy("ai", cfg.AI.Window, cfg.AI.Limit)
	aiThrottle := func(next http.Handler) http.Handler { return next }
	if redisClient != nil {
		aiThrottle = middleware.RateLimit(aiPolicy, redisClient, logg)
	}

	r.Get("/api/health", controllers.Health(cfg, database, cache))
	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	// Requirement discovery is open so artists can browse without an account.
	r.Get("/api/requirements", controllers.RequirementsListPublic(requirementsService, logg))

	r.Route("/api/artist", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireRole(enums.UserRoleArtist, logg))
		r.Use(middleware.RequireVerified(logg))
		r.Post("/apply", controllers.ArtistApply(applicationsService, uploadStore, logg))
		r.Get("/application-status", controllers.ArtistApplicationStatus(applicationsService, logg))
		r.Put("/application", controllers.ArtistApplicationUpdate(applicationsService, uploadStore, logg))
	})

	r.Route("/api/moderator", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireRole(enums.UserRoleModerator, logg))
		r.Get("/stats", controllers.ModeratorStats(applicationsService, logg))
		r.Route("/applications", func(r chi.Router) {
			r.Get("/", controllers.ModeratorApplicationsList(applicationsService, logg))
			r.Get("/{id}", controllers.ModeratorApplicationGet(applicationsService, logg))
			r.Post("/{id}/approve", controllers.ModeratorApplicationApprove(applicationsService, logg))
			r.Post("/{id}/reject", controllers.ModeratorApplicationReject(applicationsService, logg))
		})
	})

	r.Route("/api/client", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireRole(enums.UserRoleClient, logg))
		r.Route("/requirements", func(r chi.Router) {
			r.Post("/", controllers.RequirementCreate(requirementsService, logg))
			r.Get("/", controllers.RequirementsListMine(requirementsService, logg))
			r.Put("/{id}", controllers.RequirementUpdate(requirementsService, logg))
			r.Delete("/{id}", controllers.RequirementDelete(requirementsService, logg))
		})
		r.Route("/hires", func(r chi.Router) {
			r.Post("/", controllers.HireCreate(hiresService, logg))
			r.Get("/", controllers.HiresList(hiresService, logg))
			r.Put("/{id}/status", controllers.HireStatusUpdate(hiresService, logg))
		})
	})

	r.Route("/api/ai", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.With(aiThrottle).Post("/enhance-description", controllers.AIEnhanceDescription(aiService, logg))
		r.With(aiThrottle).Post("/chat", controllers.AIChat(aiService, logg))
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(enums.UserRoleArtist, logg))
			r.Use(middleware.RequireVerified(logg))
			r.Post("/enhance-image", controllers.AIEnhanceImage(imagePipeline, logg))
		})
	})

	return r
}
