package http

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/artem13815/resumebuilder/api/http/handlers"
	"github.com/artem13815/resumebuilder/pkg/logger"
)

// Handlers groups everything Register mounts.
type Handlers struct {
	Auth     *handlers.AuthHandler
	Health   *handlers.HealthHandler
	AI       *handlers.AIHandler
	Resumes  *handlers.ResumesHandler
	UserInfo *handlers.UserInfoHandler
}

// Register wires all HTTP routes onto given Fiber app. authMW guards
// everything except probes and the auth endpoints.
func Register(app *fiber.App, h Handlers, authMW fiber.Handler) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(requestContext)

	api := app.Group("/api")
	v1 := api.Group("/v1")

	// Health and readiness endpoints for probes/monitoring
	v1.Get("/health", h.Health.Health)
	v1.Get("/ready", h.Health.Ready)

	a := v1.Group("/auth")
	a.Post("/register", h.Auth.Register)
	a.Post("/login", h.Auth.Login)

	ai := v1.Group("/ai", authMW)
	ai.Post("/test-connection", h.AI.TestConnection)
	ai.Post("/parse-pdf", h.AI.ParsePDF)
	ai.Post("/parse-docx", h.AI.ParseDocx)
	ai.Post("/chat", h.AI.Chat)

	rg := v1.Group("/resumes", authMW)
	rg.Post("/import", h.Resumes.Import)
	rg.Post("/generate", h.Resumes.Generate)
	rg.Post("/", h.Resumes.Create)
	rg.Get("/", h.Resumes.List)
	rg.Get("/:id", h.Resumes.Get)
	rg.Patch("/:id", h.Resumes.Patch)
	rg.Delete("/:id", h.Resumes.Delete)

	ui := v1.Group("/user-info", authMW)
	ui.Get("/", h.UserInfo.Get)
	ui.Put("/", h.UserInfo.Put)
}

// requestContext puts the request id into the user context so every
// slog.*Context call below the handler carries it, then logs the request.
func requestContext(c *fiber.Ctx) error {
	id, _ := c.Locals(requestid.ConfigDefault.ContextKey).(string)
	ctx := logger.WithRequestID(c.UserContext(), id)
	c.SetUserContext(ctx)

	start := time.Now()
	err := c.Next()
	slog.InfoContext(ctx, "http request",
		"method", c.Method(),
		"path", c.Path(),
		"status", c.Response().StatusCode(),
		"duration", time.Since(start),
	)
	return err
}
