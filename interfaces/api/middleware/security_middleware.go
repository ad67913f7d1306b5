package middleware

import (
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"taskhub-api/pkg/logger"
	"taskhub-api/pkg/utils"
)

// RateLimitConfig สำหรับ limiter (storage nil = นับใน memory ของ instance นี้)
type RateLimitConfig struct {
	Max     int
	Window  time.Duration
	Storage fiber.Storage
}

func SecurityHeaders() fiber.Handler {
	return helmet.New(helmet.Config{
		// /ws ต้องเปิดได้จาก frontend คนละ origin
		CrossOriginResourcePolicy: "cross-origin",
	})
}

// RateLimiter limits requests per client IP within a fixed window
func RateLimiter(cfg RateLimitConfig) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        cfg.Max,
		Expiration: cfg.Window,
		Storage:    cfg.Storage,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			logger.WarnContext(c.UserContext(), "Rate limit reached", "ip", c.IP(), "path", c.Path())
			return utils.ErrorResponse(c, fiber.StatusTooManyRequests, utils.ErrCodeRateLimited,
				"Too many requests, please try again later", nil)
		},
	})
}

// Recover converts panics into 500 responses through the app's ErrorHandler
func Recover() fiber.Handler {
	return recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c *fiber.Ctx, e interface{}) {
			logger.ErrorContext(c.UserContext(), "Panic recovered",
				"path", c.Path(),
				"panic", e,
				"stack", string(debug.Stack()),
			)
		},
	})
}
