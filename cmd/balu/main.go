package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/rl-Rahul/balu-property-sub003/app/controllers"
	"github.com/rl-Rahul/balu-property-sub003/app/repository"
	"github.com/rl-Rahul/balu-property-sub003/internal/pkg/billing"
	"github.com/rl-Rahul/balu-property-sub003/internal/pkg/cache"
	"github.com/rl-Rahul/balu-property-sub003/internal/pkg/constants"
	"github.com/rl-Rahul/balu-property-sub003/internal/pkg/database"
	"github.com/rl-Rahul/balu-property-sub003/internal/pkg/env"
	"github.com/rl-Rahul/balu-property-sub003/internal/pkg/jobqueue"
	"github.com/rl-Rahul/balu-property-sub003/internal/pkg/lock"
	"github.com/rl-Rahul/balu-property-sub003/internal/pkg/mail"
	"github.com/rl-Rahul/balu-property-sub003/internal/pkg/metrics"
	"github.com/rl-Rahul/balu-property-sub003/internal/pkg/notify"
	"github.com/rl-Rahul/balu-property-sub003/internal/pkg/router"
	"github.com/rl-Rahul/balu-property-sub003/internal/pkg/statistics"
	"github.com/rl-Rahul/balu-property-sub003/internal/pkg/subscription"
)

func main() {
	app, manager := NewApplication()
	manager.Start()

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit

		log.Println("Shutting down...")
		if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
			log.Printf("HTTP shutdown failed: %v", err)
		}
	}()

	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000")))
	manager.Stop()
	if err != nil {
		log.Fatal(err)
	}
}

func NewApplication() (*fiber.App, *jobqueue.Manager) {
	env.SetupEnvFile()
	database.SetupDatabase()
	cache.SetupCache()

	db := database.GetDB()
	repository.InitializeFactory(db)
	repos := repository.GetGlobalRepositories()

	// background jobs; the lifecycle service is wired in once it exists
	manager := jobqueue.SetupManager(jobqueue.Dependencies{Mailer: mail.NewSMTPMailerFromEnv()})
	queue := manager.GetQueue()

	notifier := notify.New(repos.Notification, queue)
	subscriptions := subscription.NewServiceFromDB(db, lock.NewRedisLock(cache.GetClient()), notifier)
	queue.SetSubscriptions(subscriptions)

	billingSvc := billing.NewServiceFromDB(db, subscriptions, env.GetEnv("BILLING_WEBHOOK_SECRET", ""))

	secret := env.GetEnv("JWT_SECRET", "")
	if secret == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	// init fiber app
	app := fiber.New(fiber.Config{
		AppName:   "balu-property",
		BodyLimit: 1 << 20,
	})

	// recovery and logging
	app.Use(recover.New(), logger.New())

	// prometheus metrics
	app.Get(constants.MetricsRoute, adaptor.HTTPHandler(metrics.Default().Handler()))

	// fiber monitor
	app.Get(constants.MonitorRoute, basicauth.New(basicauth.Config{
		Users: map[string]string{
			env.GetEnv("MONITOR_USER", "admin"): env.GetEnv("MONITOR_PASSWORD", "change-me"),
		},
	}), monitor.New())

	app.Get(constants.HealthRoute, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// SWAGGER / OPENAPI
	openAPICfg := swagger.Config{
		BasePath: "/docs/api/",
		FilePath: "./public/docs/v1/openapi.yml",
		Path:     "v1",
	}
	app.Use(swagger.New(openAPICfg))

	// ROUTER
	router.InstallRouter(app, router.Config{
		JWTSecret:      []byte(secret),
		RateLimitMax:   env.GetEnvInt("RATE_LIMIT_MAX", 120),
		LimiterStorage: router.NewLimiterStorage(),
		Controllers: router.Controllers{
			Subscriptions: controllers.NewSubscriptionController(subscriptions),
			CompanyUsers:  controllers.NewCompanyUserController(repos.CompanyUser, subscriptions, queue),
			Favourites:    controllers.NewFavouriteController(repos.Favourite),
			Plans:         controllers.NewPlanController(repos.Plan),
			Notifications: controllers.NewNotificationController(repos.Notification),
			Billing:       controllers.NewBillingController(billingSvc),
			AdminJobs:     controllers.NewAdminJobController(queue),
			AdminStats:    controllers.NewAdminStatsController(statistics.NewServiceFromDB(db)),
		},
	})

	return app, manager
}
