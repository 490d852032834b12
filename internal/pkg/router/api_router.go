package router

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	redisstorage "github.com/gofiber/storage/redis"

	"github.com/sojournlabs/sojourn/app/controllers"
	"github.com/sojournlabs/sojourn/app/repository"
	apiv1 "github.com/sojournlabs/sojourn/internal/api/v1"
	"github.com/sojournlabs/sojourn/internal/pkg/database"
	"github.com/sojournlabs/sojourn/internal/pkg/env"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	// Wire controllers to the store and the engine.
	repository.InitializeFactory(database.GetDB())
	controllers.InitializeSchedulingController()

	api := app.Group("/api", limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
		Storage:    newLimiterStorage(),
	}))
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Hello from api",
		})
	})

	// API v1 routes
	v1 := api.Group("/v1")
	apiServer := apiv1.NewAPIServer()
	apiv1.RegisterHandlers(v1, apiServer)
}

// newLimiterStorage backs the rate limiter with Redis so limits hold across
// instances.
func newLimiterStorage() fiber.Storage {
	port, err := strconv.Atoi(env.GetEnv("CACHE_PORT", "6379"))
	if err != nil {
		port = 6379
	}
	return redisstorage.New(redisstorage.Config{
		Host:  env.GetEnv("CACHE_HOST", "localhost"),
		Port:  port,
		Reset: false,
	})
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
