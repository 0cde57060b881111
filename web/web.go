// Package web provides the HTTP server of the cadastral registry: routing,
// sessions, compression and the background seed and checkpoint jobs.
package web

import (
	"context"
	"crypto/tls"
	"io"
	"net"
	"net/http"
	"strconv"

	"github.com/otedola/cadastral/config"
	"github.com/otedola/cadastral/logger"
	"github.com/otedola/cadastral/util/common"
	"github.com/otedola/cadastral/util/crypto"
	"github.com/otedola/cadastral/util/metrics"
	"github.com/otedola/cadastral/util/random"
	"github.com/otedola/cadastral/web/controller"
	"github.com/otedola/cadastral/web/job"
	"github.com/otedola/cadastral/web/locale"
	"github.com/otedola/cadastral/web/middleware"
	"github.com/otedola/cadastral/web/network"
	"github.com/otedola/cadastral/web/service"
	"github.com/otedola/cadastral/web/session"

	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// Server represents the registry web server with its controllers, services and scheduled jobs.
type Server struct {
	httpServer *http.Server
	listener   net.Listener

	index *controller.IndexController
	panel *controller.PanelController
	api   *controller.APIController

	db            *gorm.DB
	parcelService *service.ParcelService
	userService   *service.UserService
	authService   *service.AuthService
	seedJob       *job.SeedJob
	sessionSecret []byte
	sessionStore  sessions.Store
	closeRedis    func() error

	cron *cron.Cron

	ctx    context.Context
	cancel context.CancelFunc
}

// NewServer wires the services over db.
func NewServer(db *gorm.DB) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	parcels := service.NewParcelService(db)
	users := service.NewUserService(db, parcels, crypto.Bcrypt{})

	secret := config.GetSessionSecret()
	if secret == "" {
		// sessions do not survive a restart without a configured secret
		secret = random.Seq(32)
	}
	return &Server{
		db:            db,
		parcelService: parcels,
		userService:   users,
		authService:   service.NewAuthService(users),
		seedJob:       job.NewSeedJob(parcels, config.GetSeedSource()),
		sessionSecret: []byte(secret),
		ctx:           ctx,
		cancel:        cancel,
	}
}

// initRouter initializes Gin, registers middleware and controllers and
// returns the configured engine.
func (s *Server) initRouter() (*gin.Engine, error) {
	if config.IsDebug() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.DefaultWriter = io.Discard
		gin.DefaultErrorWriter = io.Discard
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.Default()
	engine.Use(middleware.MetricsMiddleware())

	if webDomain := config.GetWebDomain(); webDomain != "" {
		engine.Use(middleware.DomainValidatorMiddleware(webDomain))
	}

	basePath := config.GetBasePath()
	engine.Use(func(c *gin.Context) {
		c.Set("base_path", basePath)
	})
	// JSON API stays uncompressed; exports and pages are gzipped
	engine.Use(gzip.Gzip(
		gzip.DefaultCompression,
		gzip.WithExcludedPathsRegexs([]string{"^" + basePath + "panel/api/parcels/(list|search|get|landUses|update)"}),
	))
	if s.sessionStore != nil {
		engine.Use(session.MiddlewareWithStore(s.sessionStore))
	} else {
		engine.Use(session.Middleware(s.sessionSecret))
	}
	engine.Use(locale.LocalizerMiddleware())

	engine.Use(middleware.RedirectMiddleware(basePath))

	limit := middleware.RateLimitMiddleware(middleware.DefaultRateLimitConfig())

	g := engine.Group(basePath)
	s.index = controller.NewIndexController(g, s.authService, s.userService, config.GetSessionMaxAge(), limit)
	s.panel = controller.NewPanelController(g, s.authService, s.userService)
	s.api = controller.NewAPIController(g, s.authService, s.parcelService)

	if config.IsMetricsEnabled() {
		engine.GET(basePath+"metrics", gin.WrapH(metrics.Handler()))
	}

	engine.NoRoute(func(c *gin.Context) {
		c.AbortWithStatus(http.StatusNotFound)
	})

	return engine, nil
}

// initSessionStore opens the Redis backend when configured. The cookie store
// needs no setup.
func (s *Server) initSessionStore() error {
	switch store := config.GetSessionStore(); store {
	case "cookie":
		return nil
	case "redis":
		client, closeRedis, err := session.OpenRedis(s.ctx, config.GetRedisAddr())
		if err != nil {
			return err
		}
		s.sessionStore = session.NewRedisStore(client, s.sessionSecret)
		s.closeRedis = closeRedis
		return nil
	default:
		return common.NewErrorf("unknown session store: %s", store)
	}
}

// startTask seeds the registry and schedules the retry and maintenance jobs.
func (s *Server) startTask() {
	s.seedJob.Run()
	if _, err := s.cron.AddJob("@every 1m", s.seedJob); err != nil {
		logger.Warning("add seed job failed:", err)
	}
	if _, err := s.cron.AddJob("@hourly", job.NewCheckpointJob(s.db)); err != nil {
		logger.Warning("add checkpoint job failed:", err)
	}
}

// Start initializes and starts the web server.
func (s *Server) Start() (err error) {
	defer func() {
		if err != nil {
			_ = s.Stop()
		}
	}()

	if err = locale.InitLocalizer(); err != nil {
		return err
	}

	if err = s.initSessionStore(); err != nil {
		return err
	}

	s.cron = cron.New()
	s.cron.Start()

	engine, err := s.initRouter()
	if err != nil {
		return err
	}

	listenAddr := net.JoinHostPort(config.GetListen(), strconv.Itoa(config.GetPort()))
	listener, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return err
	}

	certFile, keyFile := config.GetCertFile(), config.GetKeyFile()
	if certFile != "" || keyFile != "" {
		if cert, err := tls.LoadX509KeyPair(certFile, keyFile); err == nil {
			cfg := &tls.Config{Certificates: []tls.Certificate{cert}}
			listener = network.NewAutoHttpsListener(listener)
			listener = tls.NewListener(listener, cfg)
			logger.Info("Web server running HTTPS on", listener.Addr())
		} else {
			logger.Error("Error loading certificates:", err)
			logger.Info("Web server running HTTP on", listener.Addr())
		}
	} else {
		logger.Info("Web server running HTTP on", listener.Addr())
	}

	s.listener = listener
	s.httpServer = &http.Server{Handler: engine}

	go func() {
		_ = s.httpServer.Serve(listener)
	}()

	s.startTask()

	return nil
}

// Stop shuts down the HTTP server and the cron scheduler.
func (s *Server) Stop() error {
	s.cancel()
	if s.cron != nil {
		s.cron.Stop()
	}
	var err1, err2, err3 error
	if s.httpServer != nil {
		err1 = s.httpServer.Shutdown(context.Background())
	}
	if s.listener != nil {
		err2 = s.listener.Close()
	}
	if s.closeRedis != nil {
		err3 = s.closeRedis()
		s.closeRedis = nil
	}
	return common.Combine(err1, err2, err3)
}

// GetCtx returns the server's context.
func (s *Server) GetCtx() context.Context { return s.ctx }

// GetCron returns the server's cron scheduler instance.
func (s *Server) GetCron() *cron.Cron { return s.cron }
