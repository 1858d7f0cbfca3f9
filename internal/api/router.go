package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	driver "go.mongodb.org/mongo-driver/mongo"

	"github.com/smartballot/voting-api/internal/api/handler"
	"github.com/smartballot/voting-api/internal/api/middleware"
	"github.com/smartballot/voting-api/internal/core/domain"
	"github.com/smartballot/voting-api/internal/core/ports"
	"github.com/smartballot/voting-api/internal/core/service"
	"github.com/smartballot/voting-api/internal/infrastructure/db/mongo"
	"github.com/smartballot/voting-api/internal/infrastructure/db/redis"
	"github.com/smartballot/voting-api/internal/pkg/config"
	"github.com/smartballot/voting-api/internal/pkg/isoforest"
)

// Dependencies carries everything the router needs to assemble the service
// graph. The feature extractor is passed in because its worker pool lifecycle
// belongs to main, not to the router.
type Dependencies struct {
	DB        *driver.Database
	Redis     *goredis.Client
	Config    *config.Config
	Extractor ports.FeatureExtractor
	Log       zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("voting"))

	// --- Repositories ---
	voterRepo := mongo.NewVoterRepository(deps.DB)
	adminRepo := mongo.NewAdminRepository(deps.DB)
	electionRepo := mongo.NewElectionRepository(deps.DB)
	candidateRepo := mongo.NewCandidateRepository(deps.DB)
	ballotRepo := mongo.NewBallotRepository(deps.DB)
	statusCache := redis.NewVoteStatusCache(deps.Redis)

	// --- Services ---
	cfg := deps.Config
	identity := service.NewIdentityService(deps.Extractor, cfg.JWTSecret, cfg.JWTTTL, cfg.Biometric.Threshold, deps.Log)
	eligibility := service.NewEligibilityService(electionRepo, candidateRepo, deps.Log)
	voteService := service.NewVoteService(voterRepo, ballotRepo, electionRepo, candidateRepo, eligibility, identity, statusCache, deps.Log)
	authService := service.NewAuthService(voterRepo, adminRepo, identity, deps.Log)
	forest := isoforest.New(isoforest.Options{Trees: cfg.Anomaly.Trees, Seed: cfg.Anomaly.Seed})
	anomalyService := service.NewAnomalyService(ballotRepo, forest, cfg.Anomaly.Contamination, deps.Log)
	adminService := service.NewAdminService(electionRepo, candidateRepo, voterRepo, ballotRepo, anomalyService, deps.Log)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(authService)
	voteHandler := handler.NewVoteHandler(voteService)
	adminHandler := handler.NewAdminHandler(adminService)

	authed := middleware.Auth(identity)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	// --- Auth routes ---
	auth := e.Group("/api/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/admin/login", authHandler.AdminLogin)

	// --- Election browsing (public) ---
	elections := e.Group("/api/elections")
	elections.GET("/active", voteHandler.ActiveElections)
	elections.GET("/:id/candidates", voteHandler.Candidates)

	// --- Voting (authenticated) ---
	vote := e.Group("/api/vote", authed)
	vote.POST("", voteHandler.Cast)
	vote.GET("/status/:election_id", voteHandler.Status)

	// --- Admin (authenticated, admin role) ---
	admin := e.Group("/api/admin", authed, adminOnly)
	admin.POST("/elections", adminHandler.CreateElection)
	admin.GET("/elections", adminHandler.ListElections)
	admin.GET("/elections/:id/results", adminHandler.Results)
	admin.POST("/candidates", adminHandler.CreateCandidate)
	admin.DELETE("/candidates/:id", adminHandler.DeleteCandidate)
	admin.GET("/voters", adminHandler.ListVoters)
	admin.GET("/stats", adminHandler.Stats)
	admin.GET("/fraud/detect", adminHandler.DetectFraud)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.DB, deps.Redis)

	e.GET("/health", healthHandler.Liveness)          // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
