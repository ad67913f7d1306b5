package di

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"taskhub-api/application/serviceimpl"
	"taskhub-api/domain/ports"
	"taskhub-api/domain/repositories"
	"taskhub-api/domain/services"
	"taskhub-api/infrastructure/mailer"
	"taskhub-api/infrastructure/memory"
	natspkg "taskhub-api/infrastructure/nats"
	"taskhub-api/infrastructure/postgres"
	redispkg "taskhub-api/infrastructure/redis"
	"taskhub-api/infrastructure/websocket"
	"taskhub-api/interfaces/api/handlers"
	"taskhub-api/pkg/config"
	"taskhub-api/pkg/logger"
	"taskhub-api/pkg/scheduler"
)

type Container struct {
	// Configuration
	Config *config.Config

	// Infrastructure
	DB             *gorm.DB                // nil เมื่อ DB_DRIVER=memory
	RedisClient    *redispkg.Client        // rate limiter storage (optional)
	NATSClient     *natspkg.Client         // mail queue + task events (optional)
	EventScheduler scheduler.EventScheduler

	// Repositories
	UserRepository              repositories.UserRepository
	TaskRepository              repositories.TaskRepository
	VerificationTokenRepository repositories.VerificationTokenRepository

	// Services
	TokenService        services.TokenService
	UserService         services.UserService
	TaskService         services.TaskService
	TokenCleanupService *serviceimpl.TokenCleanupService

	// Notifications
	Mailer       ports.MailerPort
	Notifier     ports.RegistrationNotifier
	MailConsumer *natspkg.MailConsumer

	// Live feed
	Hub                 *websocket.Hub
	TaskEventPublisher  ports.TaskEventPublisher
	TaskEventSubscriber ports.TaskEventSubscriber

	ctx    context.Context
	cancel context.CancelFunc
}

func NewContainer() *Container {
	ctx, cancel := context.WithCancel(context.Background())
	return &Container{ctx: ctx, cancel: cancel}
}

func (c *Container) Initialize() error {
	if err := c.initConfig(); err != nil {
		return err
	}

	if err := c.initLogger(); err != nil {
		return err
	}

	if err := c.initInfrastructure(); err != nil {
		return err
	}

	if err := c.initRepositories(); err != nil {
		return err
	}

	c.initNotifications()
	c.initLiveFeed()

	if err := c.initServices(); err != nil {
		return err
	}

	if err := c.initScheduler(); err != nil {
		return err
	}

	return nil
}

func (c *Container) initConfig() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	c.Config = cfg
	logger.Info("Configuration loaded", "env", cfg.App.Env)
	if cfg.UsesDefaultJWTSecret() {
		logger.Warn("JWT_SECRET is not set, using the development default")
	}
	return nil
}

func (c *Container) initLogger() error {
	logConfig := logger.Config{
		Level:      c.Config.Log.Level,
		Format:     c.Config.Log.Format,
		Output:     c.Config.Log.Output,
		FilePath:   c.Config.Log.FilePath,
		MaxSize:    c.Config.Log.MaxSize,
		MaxBackups: c.Config.Log.MaxBackups,
		MaxAge:     c.Config.Log.MaxAge,
		Compress:   c.Config.Log.Compress,
	}

	if err := logger.Init(logConfig); err != nil {
		return err
	}

	logger.Info("Logger initialized",
		"level", c.Config.Log.Level,
		"format", c.Config.Log.Format,
		"output", c.Config.Log.Output,
	)
	return nil
}

func (c *Container) initInfrastructure() error {
	if c.Config.Database.Driver == "postgres" {
		dbConfig := postgres.DatabaseConfig{
			Host:     c.Config.Database.Host,
			Port:     c.Config.Database.Port,
			User:     c.Config.Database.User,
			Password: c.Config.Database.Password,
			DBName:   c.Config.Database.DBName,
			SSLMode:  c.Config.Database.SSLMode,
			Debug:    c.Config.IsDevelopment() && c.Config.Log.Level == "debug",
		}

		db, err := postgres.NewDatabase(dbConfig)
		if err != nil {
			return err
		}
		c.DB = db
		logger.Info("Database connected", "host", c.Config.Database.Host, "db", c.Config.Database.DBName)

		if err := postgres.Migrate(db); err != nil {
			return err
		}
		logger.Info("Database migrated")
	} else {
		logger.Warn("Using in-memory stores, data is lost on restart")
	}

	// Redis optional - ไม่มีก็นับ rate limit ใน memory
	if c.Config.Redis.URL != "" {
		redisClient, err := redispkg.NewClient(&c.Config.Redis)
		if err != nil {
			logger.Warn("Redis client initialization failed (rate limiter uses memory)", "error", err)
		} else {
			c.RedisClient = redisClient
		}
	}

	// NATS optional - ไม่มีก็ส่งเมลตรงและ broadcast ใน process
	if c.Config.NATS.URL != "" {
		natsClient, err := natspkg.NewClient(natspkg.ClientConfig{
			URL:  c.Config.NATS.URL,
			Name: c.Config.App.Name,
		})
		if err != nil {
			logger.Warn("NATS client initialization failed", "error", err)
		} else {
			c.NATSClient = natsClient
		}
	}

	return nil
}

func (c *Container) initRepositories() error {
	if c.DB != nil {
		c.UserRepository = postgres.NewUserRepository(c.DB)
		c.TaskRepository = postgres.NewTaskRepository(c.DB)
		c.VerificationTokenRepository = postgres.NewVerificationTokenRepository(c.DB)
	} else {
		users := memory.NewUserRepository()
		c.UserRepository = users
		c.TaskRepository = memory.NewTaskRepository(users)
		c.VerificationTokenRepository = memory.NewVerificationTokenRepository()
	}

	logger.Info("Repositories initialized", "driver", c.Config.Database.Driver)
	return nil
}

func (c *Container) initNotifications() {
	if c.Config.Mail.Enabled {
		c.Mailer = mailer.NewSMTPMailer(mailer.Config{
			AppName:     c.Config.App.Name,
			Host:        c.Config.Mail.Host,
			Port:        c.Config.Mail.Port,
			Username:    c.Config.Mail.Username,
			Password:    c.Config.Mail.Password,
			FromAddress: c.Config.Mail.FromAddress,
			FromName:    c.Config.Mail.FromName,
			LogoURL:     c.Config.Mail.LogoURL,
			FrontendURL: c.Config.App.FrontendURL,
		})
		logger.Info("SMTP mailer initialized", "host", c.Config.Mail.Host, "port", c.Config.Mail.Port)
	} else {
		c.Mailer = mailer.NewLogMailer(c.Config.App.FrontendURL, c.Config.IsDevelopment())
		logger.Warn("Mail disabled, verification links are only logged")
	}

	if c.NATSClient == nil {
		c.Notifier = mailer.NewAsyncNotifier(c.Mailer, 30*time.Second)
		return
	}

	c.Notifier = natspkg.NewRegistrationPublisher(c.NATSClient)
	c.MailConsumer = natspkg.NewMailConsumer(c.NATSClient, c.Mailer)
	if err := c.MailConsumer.Start(c.ctx); err != nil {
		// publish ยังเข้า stream ได้ instance อื่นจะส่งให้
		logger.Warn("Mail consumer failed to start", "error", err)
		c.MailConsumer = nil
	}
}

func (c *Container) initLiveFeed() {
	c.Hub = websocket.NewHub()
	go c.Hub.Run(c.ctx)

	if c.NATSClient == nil {
		c.TaskEventPublisher = websocket.NewLocalPublisher(c.Hub)
		return
	}

	c.TaskEventPublisher = natspkg.NewTaskEventPublisher(c.NATSClient.Conn())
	subscriber := natspkg.NewTaskEventSubscriber(c.NATSClient.Conn())
	if err := subscriber.Subscribe(c.ctx, c.Hub.Dispatch); err != nil {
		logger.Warn("Task event subscription failed, falling back to in-process feed", "error", err)
		c.TaskEventPublisher = websocket.NewLocalPublisher(c.Hub)
		return
	}
	c.TaskEventSubscriber = subscriber
}

func (c *Container) initServices() error {
	c.TokenService = serviceimpl.NewTokenService(serviceimpl.TokenKeyConfig{
		Secret:             c.Config.JWT.Secret,
		VerificationSecret: c.Config.JWT.VerificationSecret,
		AccessTTL:          c.Config.JWT.AccessTTL,
		VerificationTTL:    c.Config.JWT.VerificationTTL,
	})
	c.UserService = serviceimpl.NewUserService(
		c.UserRepository,
		c.VerificationTokenRepository,
		c.TokenService,
		c.Notifier,
	)
	c.TaskService = serviceimpl.NewTaskService(c.TaskRepository, c.UserRepository, c.TaskEventPublisher)

	logger.Info("Services initialized")
	return nil
}

func (c *Container) initScheduler() error {
	c.EventScheduler = scheduler.NewEventScheduler()

	c.TokenCleanupService = serviceimpl.NewTokenCleanupService(
		serviceimpl.TokenCleanupConfig{},
		c.VerificationTokenRepository,
		c.EventScheduler,
	)
	if err := c.TokenCleanupService.RegisterCleanupJob(); err != nil {
		return err
	}

	c.EventScheduler.Start()
	logger.Info("Event scheduler started")
	return nil
}

// HealthReport สถานะ component สำหรับ /health
func (c *Container) HealthReport() fiber.Map {
	report := fiber.Map{
		"database":  c.Config.Database.Driver,
		"websocket": c.Hub.TotalClients(),
	}

	if c.RedisClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := c.RedisClient.Ping(ctx); err == nil {
			report["redis"] = "up"
		} else {
			report["redis"] = "unavailable"
		}
	}

	if c.NATSClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if status, err := c.NATSClient.GetStatus(ctx); err == nil {
			report["notifications"] = status
		} else {
			report["notifications"] = "unavailable"
		}
	}

	if c.EventScheduler != nil {
		jobs := make([]string, 0)
		for id := range c.EventScheduler.ListJobs() {
			jobs = append(jobs, id)
		}
		report["jobs"] = jobs
	}

	return report
}

// LimiterStorage คืน storage ของ rate limiter (nil = memory)
func (c *Container) LimiterStorage() fiber.Storage {
	if c.RedisClient == nil {
		return nil
	}
	return redispkg.NewLimiterStorage(c.RedisClient, "taskhub:ratelimit:")
}

func (c *Container) GetHandlerServices() *handlers.Services {
	return &handlers.Services{
		UserService: c.UserService,
		TaskService: c.TaskService,
	}
}

func (c *Container) Cleanup() error {
	logger.Info("Starting cleanup...")

	// Stop scheduler
	if c.EventScheduler != nil && c.EventScheduler.IsRunning() {
		c.EventScheduler.Stop()
		logger.Info("Event scheduler stopped")
	}

	if c.MailConsumer != nil {
		c.MailConsumer.Stop()
		logger.Info("Mail consumer stopped")
	}

	if c.TaskEventSubscriber != nil {
		if err := c.TaskEventSubscriber.Unsubscribe(); err != nil {
			logger.Warn("Failed to unsubscribe task events", "error", err)
		}
	}

	// หยุด hub และ goroutine ที่ผูกกับ ctx
	c.cancel()

	// Close NATS connection
	if c.NATSClient != nil {
		if err := c.NATSClient.Close(); err != nil {
			logger.Warn("Failed to close NATS connection", "error", err)
		} else {
			logger.Info("NATS connection closed")
		}
	}

	// Close Redis connection
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			logger.Warn("Failed to close Redis connection", "error", err)
		} else {
			logger.Info("Redis connection closed")
		}
	}

	// Close database connection
	if c.DB != nil {
		sqlDB, err := c.DB.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				logger.Warn("Failed to close database connection", "error", err)
			} else {
				logger.Info("Database connection closed")
			}
		}
	}

	logger.Info("Cleanup completed")
	_ = logger.Close()
	return nil
}
