package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"

	"github.com/gerardoh13/jobly/internal/admin"
	"github.com/gerardoh13/jobly/internal/apperr"
	"github.com/gerardoh13/jobly/internal/audit"
	"github.com/gerardoh13/jobly/internal/auth"
	"github.com/gerardoh13/jobly/internal/companies"
	"github.com/gerardoh13/jobly/internal/config"
	"github.com/gerardoh13/jobly/internal/db"
	apphttp "github.com/gerardoh13/jobly/internal/http"
	"github.com/gerardoh13/jobly/internal/jobs"
	"github.com/gerardoh13/jobly/internal/router"
	"github.com/gerardoh13/jobly/internal/users"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	log.Printf("Configuration loaded: %v", cfg)

	// database/sql handle just for migrations; the app itself runs on pgxpool.
	sqlDB, err := db.Open(cfg.Database.URL)
	if err != nil {
		log.Fatalf("error opening database: %v", err)
	}
	if err := db.Migrate(sqlDB); err != nil {
		log.Fatalf("error applying migrations: %v", err)
	}
	if err := sqlDB.Close(); err != nil {
		log.Printf("close migration handle: %v", err)
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.Database.URL)
	if err != nil {
		log.Fatalf("error creating pgx pool: %v", err)
	}
	defer pool.Close()

	secret := []byte(cfg.Auth.JWTSecret)

	app := fiber.New(fiber.Config{
		ErrorHandler: apperr.ErrorHandler,
	})

	app.Use(router.CorsMiddleware())
	app.Use(requestLogger())
	app.Use(auth.Authenticate(secret))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"ok": true,
		})
	})
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"ok": true,
		})
	})

	recorder := &audit.Recorder{DB: pool}

	usersRepo := users.NewRepository(pool)
	companiesHandler := companies.NewHandler(companies.NewRepository(pool), recorder)
	jobsHandler := jobs.NewHandler(jobs.NewRepository(pool), recorder)
	usersHandler := users.NewHandler(usersRepo, recorder, secret)
	authHandler := &apphttp.AuthHandler{Users: usersRepo, Secret: secret}

	r := &router.Router{
		AuthHandler:      authHandler,
		CompaniesHandler: companiesHandler,
		JobsHandler:      jobsHandler,
		UsersHandler:     usersHandler,
		AdminHandler:     admin.NewHandler(pool),
	}
	r.RegisterRoutes(app)

	port := cfg.HTTP.Port
	log.Println("Listening on port", port)
	log.Fatal(app.Listen(":" + port))
}

func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		log.Printf("%s %s %d %s", c.Method(), c.Path(), status, time.Since(start))
		return err
	}
}
