package apiapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/SilverAnton/UserIteractionProj/internal/config"
	s3infra "github.com/SilverAnton/UserIteractionProj/internal/infra/s3"
	"github.com/SilverAnton/UserIteractionProj/internal/infra/smtp"
	pgrepo "github.com/SilverAnton/UserIteractionProj/internal/repo/postgres"
	redrepo "github.com/SilverAnton/UserIteractionProj/internal/repo/redis"
	authsvc "github.com/SilverAnton/UserIteractionProj/internal/services/auth"
	listingsvc "github.com/SilverAnton/UserIteractionProj/internal/services/listing"
	matchessvc "github.com/SilverAnton/UserIteractionProj/internal/services/matches"
	mediasvc "github.com/SilverAnton/UserIteractionProj/internal/services/media"
	ratesvc "github.com/SilverAnton/UserIteractionProj/internal/services/rate"
	userssvc "github.com/SilverAnton/UserIteractionProj/internal/services/users"
)

type App struct {
	cfg        config.Config
	logger     *zap.Logger
	server     *http.Server
	postgres   *pgxpool.Pool
	redis      *goredis.Client
	httpRouter http.Handler
}

func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	r := chi.NewRouter()
	ApplyMiddlewares(r, log)

	var pool *pgxpool.Pool
	if p, err := pgrepo.NewPool(ctx, cfg.Postgres.DSN); err != nil {
		log.Warn("postgres init failed, continuing in degraded mode", zap.Error(err))
	} else {
		pool = p
	}

	redisClient := redrepo.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	listingCache := redrepo.NewListingCacheRepo(redisClient, cfg.Cache.ListingTTL)
	rateRepo := redrepo.NewRateRepo(redisClient)

	userRepo := pgrepo.NewUserRepo(pool)
	likeRepo := pgrepo.NewLikeRepo(pool)

	jwtManager := authsvc.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTAccessTTL)
	authService := authsvc.NewService(jwtManager, userRepo)

	mailer := smtp.NewMailer(smtp.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	})

	mediaService := buildMediaService(cfg, log)
	userService := userssvc.NewService(userRepo, mediaService)

	rateLimiter := ratesvc.NewLimiter(rateRepo, cfg.Limits.LikeMaxPerSec, cfg.Limits.LikeMaxPer10Sec)
	matchService := matchessvc.NewService(matchessvc.Dependencies{
		Users:    userRepo,
		Likes:    likeRepo,
		Notifier: mailer,
		Limiter:  rateLimiter,
		Logger:   log,
	}, matchessvc.Config{LikesPerDay: cfg.Limits.LikesPerDay})

	listingService := listingsvc.NewService(listingsvc.Dependencies{
		Users:  userRepo,
		Cache:  listingCache,
		Logger: log,
	})

	RegisterRoutes(r, Dependencies{
		AuthService:    authService,
		UserService:    userService,
		MatchService:   matchService,
		ListingService: listingService,
		Logger:         log,
	})

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	return &App{
		cfg:        cfg,
		logger:     log,
		server:     server,
		postgres:   pool,
		redis:      redisClient,
		httpRouter: r,
	}, nil
}

// buildMediaService assembles the avatar pipeline. A missing watermark
// asset or storage backend degrades registration to avatar-less mode
// instead of failing startup.
func buildMediaService(cfg config.Config, log *zap.Logger) userssvc.AvatarStore {
	watermarker, err := mediasvc.NewWatermarker(cfg.Media.WatermarkPath)
	if err != nil {
		log.Warn("watermark init failed, avatar uploads disabled", zap.Error(err))
		return nil
	}

	var storage mediasvc.Storage
	switch cfg.Media.Storage {
	case "s3":
		s3Client, err := s3infra.NewClient(s3infra.Config{
			Endpoint:  cfg.S3.Endpoint,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			UseSSL:    cfg.S3.UseSSL,
		})
		if err != nil {
			log.Warn("s3 init failed, avatar uploads disabled", zap.Error(err))
			return nil
		}
		storage = mediasvc.NewS3Storage(s3Client, cfg.S3.Bucket)
	default:
		local, err := mediasvc.NewLocalStorage(cfg.Media.LocalDir)
		if err != nil {
			log.Warn("local media storage init failed, avatar uploads disabled", zap.Error(err))
			return nil
		}
		storage = local
	}

	return mediasvc.NewService(watermarker, storage)
}

func (a *App) Run() error {
	a.logger.Info("api server started", zap.String("addr", a.cfg.HTTP.Addr))
	err := a.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (a *App) Shutdown(ctx context.Context) error {
	var shutdownErr error

	if err := a.server.Shutdown(ctx); err != nil {
		shutdownErr = err
	}
	if a.postgres != nil {
		a.postgres.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil && shutdownErr == nil {
			shutdownErr = err
		}
	}

	return shutdownErr
}

func (a *App) Handler() http.Handler {
	return a.httpRouter
}
