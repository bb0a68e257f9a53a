package routes

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"

	"media-vault/internal/apperrors"
	"media-vault/internal/config"
	"media-vault/internal/handlers"
)

type Deps struct {
	Auth        *handlers.AuthHandler
	Media       *handlers.MediaHandler
	Health      *handlers.HealthHandler
	RequireAuth fiber.Handler
	StaticDir   string
}

func Setup(app *fiber.App, d Deps) {
	api := app.Group("/api")
	api.Get("/health", d.Health.Check)

	authGroup := api.Group("/auth")
	authGroup.Post("/register", d.Auth.Register)
	authGroup.Post("/login", d.Auth.Login)

	mediaGroup := api.Group("/media", d.RequireAuth)
	mediaGroup.Post("/", d.Media.Upload)
	// search before :id so the literal segment wins
	mediaGroup.Get("/search", d.Media.Search)
	mediaGroup.Get("/", d.Media.List)
	mediaGroup.Get("/:id", d.Media.Get)
	mediaGroup.Put("/:id", d.Media.Update)
	mediaGroup.Delete("/:id", d.Media.Delete)

	setupFrontend(app, d.StaticDir)

	// uniform JSON 404 for anything not matched above
	app.Use(func(c *fiber.Ctx) error {
		return apperrors.NotFound("Endpoint not found")
	})
}

// setupFrontend serves a built SPA when a static dir is configured,
// falling back to index.html for client-side routes. Unknown /api paths
// stay JSON 404 instead of being swallowed by the fallback.
func setupFrontend(app *fiber.App, staticDir string) {
	if staticDir == "" {
		app.Get("/", func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{
				"message": "media-vault API",
				"version": config.Version,
				"health":  "/api/health",
			})
		})
		return
	}

	app.Static("/", staticDir)
	index := filepath.Join(staticDir, "index.html")
	app.Get("/*", func(c *fiber.Ctx) error {
		if strings.HasPrefix(c.Path(), "/api") {
			return apperrors.NotFound("Endpoint not found")
		}
		if _, err := os.Stat(index); err != nil {
			return apperrors.NotFound("Endpoint not found")
		}
		return c.SendFile(index)
	})
}
