package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/rl-Rahul/balu-property-sub003/app/controllers"
)

// Router installs a group of routes on the app.
type Router interface {
	InstallRouter(app *fiber.App)
}

// Controllers bundles the handlers the routers dispatch to.
type Controllers struct {
	Subscriptions *controllers.SubscriptionController
	CompanyUsers  *controllers.CompanyUserController
	Favourites    *controllers.FavouriteController
	Plans         *controllers.PlanController
	Notifications *controllers.NotificationController
	Billing       *controllers.BillingController
	AdminJobs     *controllers.AdminJobController
	AdminStats    *controllers.AdminStatsController
}

// Config carries everything the routers need from main.
type Config struct {
	JWTSecret      []byte
	RateLimitMax   int
	LimiterStorage fiber.Storage
	Controllers    Controllers
}

func InstallRouter(app *fiber.App, cfg Config) {
	// Webhooks first so the provider never passes through JWT auth.
	setup(app, NewWebhookRouter(cfg), NewApiRouter(cfg))
}

func setup(app *fiber.App, router ...Router) {
	for _, r := range router {
		r.InstallRouter(app)
	}
}
