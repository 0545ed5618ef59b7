package app

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/anttituomola/tampereensaunalautat-sub000/internal/config"
	"github.com/anttituomola/tampereensaunalautat-sub000/internal/db"
	"github.com/anttituomola/tampereensaunalautat-sub000/internal/repository"
	"github.com/anttituomola/tampereensaunalautat-sub000/internal/service"
	"github.com/anttituomola/tampereensaunalautat-sub000/internal/storage"
)

type App struct {
	Cfg          *config.Config
	DB           *sqlx.DB
	AuthService  *service.AuthService
	EmailService *service.EmailService
	SaunaService *service.SaunaService
}

func New(cfg *config.Config) (*App, error) {
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %v", err)
	}

	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %v", err)
	}

	// Repositories
	userRepository := repository.NewUserRepository(database)
	tokenRepository := repository.NewTokenRepository(database)
	sessionRepository := repository.NewSessionRepository(database)
	saunaRepository := repository.NewSaunaRepository(database)

	// Storage
	var imageStorage storage.Storage
	if cfg.S3Bucket != "" {
		imageStorage, err = storage.NewS3Storage(storage.S3Config{
			Region:    cfg.S3Region,
			Bucket:    cfg.S3Bucket,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Endpoint:  cfg.S3Endpoint,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize storage: %v", err)
		}
	} else {
		imageStorage = storage.NewNoopStorage()
	}

	// Services
	emailService := service.NewEmailService(
		cfg.ResendAPIKey,
		cfg.EmailFrom,
		cfg.AppName,
		cfg.IsDevelopment(),
	)
	authService := service.NewAuthService(
		userRepository,
		tokenRepository,
		sessionRepository,
		emailService,
		cfg.JWTSecret,
		cfg.JWTExpiry,
		cfg.MagicLinkExpiry,
		cfg.RefreshTokenExpiry,
		cfg.FrontendURL,
		cfg.CORSOrigins,
	)
	saunaService := service.NewSaunaService(saunaRepository, userRepository, imageStorage)

	return &App{
		Cfg:          cfg,
		DB:           database,
		AuthService:  authService,
		EmailService: emailService,
		SaunaService: saunaService,
	}, nil
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
