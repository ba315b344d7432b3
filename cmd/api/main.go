package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dertobiunddasbo/bsp-media-sub001/internal/admin"
	"github.com/dertobiunddasbo/bsp-media-sub001/internal/auth"
	"github.com/dertobiunddasbo/bsp-media-sub001/internal/cache"
	"github.com/dertobiunddasbo/bsp-media-sub001/internal/cases"
	"github.com/dertobiunddasbo/bsp-media-sub001/internal/config"
	"github.com/dertobiunddasbo/bsp-media-sub001/internal/content"
	"github.com/dertobiunddasbo/bsp-media-sub001/internal/db"
	"github.com/dertobiunddasbo/bsp-media-sub001/internal/leads"
	"github.com/dertobiunddasbo/bsp-media-sub001/internal/middleware"
	"github.com/dertobiunddasbo/bsp-media-sub001/internal/notifications"
	"github.com/dertobiunddasbo/bsp-media-sub001/internal/pages"
	"github.com/dertobiunddasbo/bsp-media-sub001/internal/spamcheck"
	"github.com/dertobiunddasbo/bsp-media-sub001/internal/team"
	"github.com/dertobiunddasbo/bsp-media-sub001/internal/uploads"
	"github.com/dertobiunddasbo/bsp-media-sub001/internal/validation"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, cols, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		logger.Error("mongo connection failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("mongo connected")
	defer client.Disconnect(context.Background())

	if err := db.EnsureIndexes(ctx, cols); err != nil {
		logger.Error("index creation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var cacheStore cache.Cache = cache.NewNoop()
	if cfg.RedisURL != "" || cfg.RedisAddr != "" {
		var redisCache *cache.RedisCache
		var err error
		if cfg.RedisURL != "" {
			redisCache, err = cache.NewRedisFromURL(cfg.RedisURL)
		} else {
			redisCache = cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		}
		if err != nil {
			logger.Error("redis connection failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		if err := redisCache.Ping(ctx); err != nil {
			logger.Error("redis connection failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("redis connected")
		cacheStore = redisCache
	}

	var jwtManager *auth.Manager
	if cfg.JWTSecret != "" {
		jwtManager = &auth.Manager{
			Secret:     []byte(cfg.JWTSecret),
			AccessTTL:  time.Duration(cfg.AccessTTLMinutes) * time.Minute,
			RefreshTTL: time.Duration(cfg.RefreshTTLMinutes) * time.Minute,
			Issuer:     "bsp-media-backend",
		}
	}

	val := validation.New()

	var mailer leads.Notifier
	brevo := notifications.NewBrevoClient(cfg.BrevoAPIKey, cfg.BrevoSenderEmail, cfg.BrevoSenderName, cfg.ContactRecipient, cfg.BrevoSandbox)
	if brevo == nil {
		logger.Info("brevo mailer disabled, leads are logged only")
		mailer = notifications.NewLogMailer(logger)
	} else {
		logger.Info("brevo mailer enabled", slog.String("sender", cfg.BrevoSenderEmail), slog.Bool("sandbox", cfg.BrevoSandbox))
		mailer = brevo
	}

	var verifier leads.Verifier
	if cfg.TurnstileSecret != "" {
		verifier = spamcheck.New(cfg.TurnstileSecret)
		logger.Info("turnstile verification enabled")
	} else {
		logger.Warn("turnstile verification disabled")
	}

	broadcaster := content.NewBroadcaster()
	broadcaster.Subscribe(func(pageSlug, sectionKey string) {
		logger.Info("section saved", slog.String("page", pageSlug), slog.String("section", sectionKey))
	})
	resolver := content.NewResolver(cols)
	gateway := content.NewGateway(resolver, cacheStore, time.Duration(cfg.CacheTTLSeconds)*time.Second, cfg.Timezone, broadcaster, logger)
	contentHandler := content.NewHandler(gateway, val, logger)

	casesRepo := cases.NewRepository(cols.Cases, cols.CaseImages, cols.CaseVideos)
	casesService := cases.NewService(casesRepo, cfg.Timezone)
	casesHandler := cases.NewHandler(casesService, val, logger)

	pagesRepo := pages.NewRepository(cols.Pages, cols.PageSections)
	pagesService := pages.NewService(pagesRepo, cacheStore, time.Duration(cfg.CacheTTLSeconds)*time.Second, cfg.Timezone)
	pagesHandler := pages.NewHandler(pagesService, val, logger)

	teamRepo := team.NewRepository(cols.TeamMembers)
	teamService := team.NewService(teamRepo, cfg.Timezone)
	teamHandler := team.NewHandler(teamService, val, logger)

	leadsRepo := leads.NewRepository(cols.Leads)
	leadsService := leads.NewService(leadsRepo, cfg.Timezone, verifier, mailer)
	leadsHandler := leads.NewHandler(leadsService, val, logger)

	adminHandler := admin.NewHandler(cfg, val, logger)

	var uploadHandler *uploads.Handler
	if cfg.MinioEndpoint != "" {
		storage, err := uploads.NewMinioStorage(uploads.MinioConfig{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			UseSSL:    cfg.MinioUseSSL,
			PublicURL: cfg.MinioPublicURL,
		})
		if err != nil {
			logger.Error("minio setup failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		uploadHandler = uploads.NewHandler(storage, cfg.UploadMaxBytes, logger)
		logger.Info("uploads enabled", slog.String("bucket", cfg.MinioBucket))
	} else {
		logger.Warn("uploads disabled, no object storage configured")
	}

	r := chi.NewRouter()
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.FrontendOrigin))
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	formLimiter := middleware.NewRateLimiter(cfg.RateLimitContact, time.Duration(cfg.RateLimitWindowSec)*time.Second)
	adminAuth := middleware.AdminAuth(cfg.AdminAPIKey, jwtManager)

	r.Route("/api", func(api chi.Router) {
		api.Get("/cases", casesHandler.PublicList)
		api.Get("/cases/{slug}", casesHandler.PublicGetBySlug)
		api.With(adminAuth).Post("/cases", casesHandler.Create)

		api.Get("/pages/{slug}/sections", pagesHandler.PublicSections)
		api.With(middleware.NoStore()).Get("/content/{section}", contentHandler.PublicGet)
		api.Get("/team", teamHandler.List)
		api.Get("/config", adminHandler.EditorConfig)

		api.With(formLimiter.Middleware).Post("/contact", leadsHandler.SubmitContact)
		api.With(formLimiter.Middleware).Post("/ideen-check", leadsHandler.SubmitIdeenCheck)

		if uploadHandler != nil {
			api.With(adminAuth).Post("/upload/image", uploadHandler.UploadImage)
		}

		api.Route("/admin", func(adminRouter chi.Router) {
			adminRouter.Post("/login", adminHandler.Login)
			adminRouter.Post("/refresh", adminHandler.Refresh)
			adminRouter.Post("/logout", adminHandler.Logout)

			// chi requires middlewares before routes; auth-free login routes
			// stay above, the rest goes through the admin gate.
			adminRouter.Group(func(protected chi.Router) {
				protected.Use(adminAuth)

				protected.With(middleware.NoStore()).Get("/cases", casesHandler.AdminList)
				protected.With(middleware.NoStore()).Get("/cases/{id}", casesHandler.AdminGet)
				protected.Put("/cases/{id}", casesHandler.AdminUpdate)
				protected.Delete("/cases/{id}", casesHandler.AdminDelete)
				protected.Patch("/cases/reorder", casesHandler.AdminReorder)
				protected.Post("/cases/{id}/images", casesHandler.AttachImage)
				protected.Patch("/cases/{id}/images", casesHandler.ReorderImages)
				protected.Delete("/cases/{id}/images", casesHandler.DetachImage)
				protected.Post("/cases/{id}/videos", casesHandler.AttachVideo)
				protected.Put("/cases/{id}/videos/{videoId}", casesHandler.UpdateVideo)
				protected.Delete("/cases/{id}/videos/{videoId}", casesHandler.DetachVideo)

				protected.With(middleware.NoStore()).Get("/pages", pagesHandler.AdminList)
				protected.Post("/pages", pagesHandler.Create)
				protected.With(middleware.NoStore()).Get("/pages/{id}", pagesHandler.AdminGet)
				protected.Put("/pages/{id}", pagesHandler.Update)
				protected.Delete("/pages/{id}", pagesHandler.Delete)

				protected.With(middleware.NoStore()).Get("/content", contentHandler.AdminGet)
				protected.Post("/content", contentHandler.AdminSave)

				protected.With(middleware.NoStore()).Get("/team", teamHandler.List)
				protected.Post("/team", teamHandler.Create)
				protected.Put("/team/{id}", teamHandler.Update)
				protected.Delete("/team/{id}", teamHandler.Delete)

				protected.With(middleware.NoStore()).Get("/leads", leadsHandler.AdminList)
				protected.With(middleware.NoStore()).Get("/leads/{id}", leadsHandler.AdminGetByID)
				protected.Patch("/leads/{id}", leadsHandler.AdminUpdateStatus)
			})
		})
	})

	srv := &http.Server{
		Addr:    cfg.ServerAddr,
		Handler: r,
	}

	go func() {
		logger.Info("server started", slog.String("addr", cfg.ServerAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.String("error", err.Error()))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.String("error", err.Error()))
	}
}
