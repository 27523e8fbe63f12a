// Package api assembles the HTTP surface: middleware chain, lesson and
// order routes, static lesson images and the health check.
package api

import (
	"strings"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"go.uber.org/zap"

	"lesson-market/internal/lesson"
	"lesson-market/internal/order"
)

type Options struct {
	CORSOrigins []string
	ImagesDir   string
	BodyLimit   int
}

type Deps struct {
	Lessons *lesson.Controller
	Orders  *order.Controller
	Store   Pinger
	Log     *zap.Logger
}

func New(opts Options, deps Deps) *fiber.App {
	// Immutable: path params and query values outlive the request in spans
	// and batched log records.
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		Immutable:             true,
		BodyLimit:             opts.BodyLimit,
		UnescapePath:          true,
		ErrorHandler:          ErrorHandler(deps.Log),
	})

	allowOrigins := "*"
	if len(opts.CORSOrigins) > 0 {
		allowOrigins = strings.Join(opts.CORSOrigins, ",")
	}

	app.Use(TrimPath())
	app.Use(RequestLogger(deps.Log))
	app.Use(cors.New(cors.Config{
		AllowOrigins: allowOrigins,
		AllowMethods: "GET,POST,PUT,OPTIONS",
		AllowHeaders: "Content-Type," + requestIDHeader,
	}))
	app.Use(otelfiber.Middleware())
	app.Use(Images(opts.ImagesDir, deps.Log))

	app.Get("/health", Health(deps.Store, deps.Log))
	app.Get("/lessons", deps.Lessons.List)
	app.Get("/search", deps.Lessons.Search)
	app.Post("/orders", deps.Orders.Create)
	app.Put("/lessons/:id", deps.Lessons.Update)

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not found"})
	})

	return app
}
