// Package webapi exposes the ledger over HTTP with Fiber. Handlers bind and
// validate request bodies, delegate to the services, and translate domain
// errors into problem-details responses.
package webapi

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sunubank/ledger/pkg/service/ledger"
	"github.com/sunubank/ledger/pkg/service/lifecycle"
	"github.com/sunubank/ledger/pkg/service/opening"
)

// Services groups the service dependencies the routes need.
type Services struct {
	Ledger    *ledger.Service
	Lifecycle *lifecycle.Service
	Opening   *opening.Service
}

// NewApp builds the Fiber application with rate limiting, panic recovery
// and all routes registered.
func NewApp(svcs Services) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			status := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				status = e.Code
			}
			return ErrorResponseJSON(c, status, "Internal Server Error", err.Error())
		},
	})

	app.Use(limiter.New(limiter.Config{
		Max:        20,
		Expiration: 1 * time.Second,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return ErrorResponseJSON(c, fiber.StatusTooManyRequests, "Too Many Requests", "Rate limit exceeded")
		},
	}))
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(Response{Status: fiber.StatusOK, Message: "ok"})
	})

	AccountRoutes(app, svcs)
	TransactionRoutes(app, svcs)
	ClientRoutes(app, svcs)

	return app
}
