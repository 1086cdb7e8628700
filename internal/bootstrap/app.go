package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"resumeboost-backend/internal/auth"
	"resumeboost-backend/internal/exports"
	"resumeboost-backend/internal/projects"
	"resumeboost-backend/internal/services/health"
	sharedauth "resumeboost-backend/internal/shared/auth"
	"resumeboost-backend/internal/shared/config"
	"resumeboost-backend/internal/shared/server"
	"resumeboost-backend/internal/shared/server/middleware"
	"resumeboost-backend/internal/shared/storage/cache"
	"resumeboost-backend/internal/shared/storage/db"
	"resumeboost-backend/internal/shared/storage/object"
	localstore "resumeboost-backend/internal/shared/storage/object/local"
	s3store "resumeboost-backend/internal/shared/storage/object/s3"
	"resumeboost-backend/internal/tasks"
	"resumeboost-backend/internal/usage"
	"resumeboost-backend/internal/users"
)

// App holds shared dependencies and the assembled router.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Redis  *redis.Client
	Store  object.ObjectStore
	Tokens *sharedauth.TokenIssuer

	UsersService    *users.Service
	AuthService     *auth.Service
	UsageService    *usage.Service
	TasksService    *tasks.Service
	ProjectsService *projects.Service
	ExportsService  *exports.Service

	handlers server.RouterDeps
}

// Build prepares shared dependencies and wires routes. Without DATABASE_URL
// in a dev-like environment every repository is in memory.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	redisClient, err := buildRedis(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	tokens, err := sharedauth.NewTokenIssuer(cfg.SecretKey, cfg.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("token issuer: %w", err)
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Redis:  redisClient,
		Store:  store,
		Tokens: tokens,
	}
	buildServices(app)

	deps := app.handlers
	deps.Config = cfg
	deps.Verifier = tokens
	deps.Health = health.NewService(sqlDB, redisClient)
	deps.RateLimiter = middleware.NewRateLimiter(nil)
	app.Router = server.NewRouter(deps)

	return app, nil
}

// Close releases the database and redis connections.
func (a *App) Close() {
	if a.DB != nil {
		_ = a.DB.Close()
	}
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if config.IsDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if config.IsDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func buildRedis(ctx context.Context, cfg config.Config) (*redis.Client, error) {
	if strings.TrimSpace(cfg.RedisURL) == "" {
		return nil, nil
	}
	client, err := cache.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		if config.IsDevLike(cfg.Env) {
			log.Printf("bootstrap: redis unavailable; keeping passcodes in the primary store: %v", err)
			return nil, nil
		}
		return nil, err
	}
	return client, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildServices(app *App) {
	var (
		userRepo    users.Repo
		projectRepo projects.Repo
		taskRepo    tasks.Repo
		exportRepo  exports.Repo
		usageStore  usage.Store
		otpStore    auth.OTPStore
	)

	if app.DB != nil {
		userRepo = &users.PGRepo{DB: app.DB}
		projectRepo = &projects.PGRepo{DB: app.DB}
		taskRepo = &tasks.PGRepo{DB: app.DB}
		exportRepo = &exports.PGRepo{DB: app.DB}
		usageStore = usage.NewPGStore(app.DB)
		otpStore = &auth.PGOTPStore{DB: app.DB}
	} else {
		usageStore = usage.NewMemoryStore()
		userRepo = users.NewMemoryRepo()
		projectRepo = projects.NewMemoryRepo(usageStore)
		taskRepo = tasks.NewMemoryRepo()
		exportRepo = exports.NewMemoryRepo()
		otpStore = auth.NewMemoryOTPStore()
	}
	if app.Redis != nil {
		otpStore = &auth.RedisOTPStore{Client: app.Redis}
	}

	cfg := app.Config
	devLike := config.IsDevLike(cfg.Env)
	userSvc := users.NewService(userRepo)
	authSvc := &auth.Service{
		Store:      otpStore,
		Users:      userSvc,
		Tokens:     app.Tokens,
		Secret:     cfg.SecretKey,
		TTL:        cfg.OTPTTL,
		ExposeCode: devLike,
	}
	// A fixed passcode is only honoured outside production.
	if devLike {
		authSvc.DevOTP = cfg.DevOTP
	}
	usageSvc := usage.NewService(usageStore, cfg.FreeQuota)
	taskSvc := tasks.NewService(taskRepo)
	projectSvc := &projects.Service{Repo: projectRepo, Store: app.Store, Usage: usageSvc}
	exportSvc := exports.NewService(projectSvc, exportRepo, app.Store)

	app.UsersService = userSvc
	app.AuthService = authSvc
	app.UsageService = usageSvc
	app.TasksService = taskSvc
	app.ProjectsService = projectSvc
	app.ExportsService = exportSvc

	app.handlers = server.RouterDeps{
		AuthHandler:    auth.NewHandler(authSvc),
		UserHandler:    users.NewHandler(userSvc),
		ProjectHandler: projects.NewHandler(projectSvc, taskSvc),
		ExportHandler:  exports.NewHandler(exportSvc, taskSvc),
		TaskHandler:    tasks.NewHandler(taskSvc),
		UsageHandler:   usage.NewHandler(usageSvc),
	}
}
