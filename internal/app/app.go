// Package app wires repositories, services and handlers into the HTTP router.
package app

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"erasmus33/internal/config"
	"erasmus33/internal/domain"
	"erasmus33/internal/domain/upload"
	"erasmus33/internal/middleware"
	"erasmus33/internal/modules/auth"
	"erasmus33/internal/modules/events"
	"erasmus33/internal/modules/house"
	"erasmus33/internal/modules/profile"
	"erasmus33/internal/modules/room"
	"erasmus33/internal/pkg/jwt"
	"erasmus33/internal/pkg/response"
	"erasmus33/internal/repository"
	"erasmus33/internal/storage"
)

// Migrate creates or updates every table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(domain.Models()...)
}

// Server holds the router and the live room feed, which must be closed on
// shutdown.
type Server struct {
	Router *gin.Engine
	Events *events.Hub
}

// NewRouter builds the gin engine with all routes registered.
func NewRouter(cfg *config.Config, db *gorm.DB, driver storage.Driver, log *zap.Logger) *gin.Engine {
	return New(cfg, db, driver, log).Router
}

// New builds the server.
func New(cfg *config.Config, db *gorm.DB, driver storage.Driver, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}

	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	houseRepo := repository.NewHouseRepository(db)
	roomRepo := repository.NewRoomRepository(db)

	jwtService := jwt.New(cfg.JWTSecret, cfg.JWTTTL)
	uploads := upload.NewService(driver, cfg.Upload.MaxFileSize, log.Named("upload"))

	authHandler := auth.NewHandler(auth.NewService(userRepo, jwtService, cfg.BcryptCost, log.Named("auth")), log)
	profileHandler := profile.NewHandler(profile.NewService(profileRepo, userRepo, roomRepo, uploads, log.Named("profile")), log)
	hub := events.NewHub(log.Named("events"))
	eventsHandler := events.NewHandler(hub, jwtService, cfg.CORSAllowedOrigins, log)

	houseService := house.NewService(houseRepo, uploads, cfg.Upload.MaxFiles, log.Named("house")).WithEvents(hub)
	roomService := room.NewService(roomRepo, uploads, cfg.Upload.MaxFiles, log.Named("room")).WithEvents(hub)
	houseHandler := house.NewHandler(houseService, log)
	roomHandler := room.NewHandler(roomService, log)

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.RequestLogger(log), middleware.CORS(cfg.CORSAllowedOrigins))
	r.MaxMultipartMemory = cfg.Upload.MaxFileSize

	r.GET("/health", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			response.Error(c, http.StatusServiceUnavailable, "DB_UNAVAILABLE", "Database is not reachable")
			return
		}
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	if local, ok := driver.(*storage.Local); ok {
		r.Static(staticPath(cfg.Storage.PublicBaseURL), local.Dir())
	}

	v1 := r.Group("/api/v1")
	{
		authHandler.RegisterPublicRoutes(v1)
		houseHandler.RegisterPublicRoutes(v1)
		roomHandler.RegisterPublicRoutes(v1)
		eventsHandler.RegisterRoutes(v1)

		protected := v1.Group("")
		protected.Use(middleware.JWTAuth(jwtService))
		{
			authHandler.RegisterProtectedRoutes(protected)
			profileHandler.RegisterProtectedRoutes(protected)
		}

		admin := v1.Group("")
		admin.Use(middleware.JWTAuth(jwtService), middleware.AdminOnly(userRepo))
		{
			houseHandler.RegisterAdminRoutes(admin)
			roomHandler.RegisterAdminRoutes(admin)
			profileHandler.RegisterAdminRoutes(admin.Group("/admin"))
		}
	}

	r.NoRoute(func(c *gin.Context) {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Route not found")
	})

	return &Server{Router: r, Events: hub}
}

// staticPath returns the URL path under which local files are served.
func staticPath(publicBase string) string {
	u, err := url.Parse(publicBase)
	if err != nil || u.Path == "" {
		return "/static/uploads"
	}
	return u.Path
}
