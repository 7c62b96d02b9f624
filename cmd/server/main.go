// main.go
//
// PluginHub - a catalog and voting service for Alt1 overlay plugins
//
// This file is part of pluginhub.
// pluginhub is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// pluginhub is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with pluginhub.
// If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alt1hub/pluginhub/internal/appconfig"
	"github.com/alt1hub/pluginhub/internal/config"
	"github.com/alt1hub/pluginhub/internal/database"
	"github.com/alt1hub/pluginhub/internal/handlers"
	"github.com/alt1hub/pluginhub/internal/middleware"
	"github.com/alt1hub/pluginhub/internal/types"
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	swagger "github.com/gofiber/swagger"

	_ "github.com/alt1hub/pluginhub/docs/api" // Swagger docs
)

// @title PluginHub API
// @version 1.0.0
// @description Catalog and voting service for Alt1 overlay plugins
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url https://github.com/alt1hub/pluginhub

// @license.name AGPL-3.0
// @license.url https://www.gnu.org/licenses/agpl-3.0.html

// @host localhost:3000
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name cookie_session

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Resolver for external app-config and readme documents
	resolver := appconfig.NewResolver(cfg.FetchTimeout)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())
	app.Use(cors.New())

	// Prometheus metrics
	prometheus := fiberprometheus.New("pluginhub")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API routes under /api
	api := app.Group("/api")

	// Version middleware
	api.Use(middleware.VersionMiddleware())

	// Create handlers
	pluginHandler := &handlers.PluginHandler{DB: db, Resolver: resolver}
	voteHandler := &handlers.VoteHandler{DB: db, Resolver: resolver}
	userHandler := &handlers.UserHandler{DB: db}
	healthHandler := &handlers.HealthHandler{Cfg: cfg, DB: db}

	optional := middleware.OptionalUser(cfg, db)
	required := middleware.RequireUser(cfg, db)

	// Health
	api.Get("/health", healthHandler.GetHealth)

	// Catalog and plugin reads (anonymous allowed, identity used when present).
	// Fixed segments are registered before the :id routes.
	api.Get("/plugins/top", optional, voteHandler.GetTopVoted)
	api.Get("/plugins/author/:id", optional, pluginHandler.GetPluginsByAuthor)
	api.Get("/plugins/:id/votes", optional, voteHandler.GetVotes)
	api.Get("/plugins/:id", pluginHandler.GetPlugin)
	api.Get("/plugins", optional, pluginHandler.GetPlugins)

	// Plugin mutations (user authentication required)
	api.Post("/plugins", required, pluginHandler.CreatePlugin)
	api.Put("/plugins/:id/vote", required, voteHandler.ManageVote)
	api.Put("/plugins/:id", required, pluginHandler.UpdatePlugin)
	api.Delete("/plugins/:id", required, pluginHandler.DeletePlugin)

	// User routes
	api.Get("/users/:id", userHandler.GetUser)
	api.Get("/user/plugins", required, pluginHandler.GetCreatedPlugins)
	api.Put("/user/nickname", required, userHandler.SetNickname)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"status":    fiber.StatusNotFound,
			"message":   "[404] Resource Not Found",
			"ok":        false,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"url":       c.OriginalURL(),
		})
	})

	// The Authorizer client is initialized lazily on the first authenticated
	// request, which supplies the redirect scheme and host.
	log.Printf("Authorizer will be initialized on first authenticated request")

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("Gracefully shutting down...")
		_ = app.Shutdown()
	}()

	// Start server
	port := cfg.Port
	log.Printf("Starting server on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	log.Println("Server stopped")
}

// customErrorHandler handles errors globally
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := err.Error()
	errorType := "unknown"

	// Check if it's a Fiber error
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Check if it's a service error with its own code and type
	if e, ok := err.(*types.CustomError); ok {
		code = e.Code
		message = e.Message
		errorType = e.Type
	}

	// Check for cursor errors
	cursorError := errorType == "catalog.validation.cursor"

	return c.Status(code).JSON(fiber.Map{
		"status":      code,
		"message":     message,
		"ok":          false,
		"cursorError": cursorError,
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"url":         c.OriginalURL(),
		"type":        errorType,
	})
}
