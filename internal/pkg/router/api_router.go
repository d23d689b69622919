package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/rl-Rahul/balu-property-sub003/app/models"
	"github.com/rl-Rahul/balu-property-sub003/internal/pkg/constants"
	"github.com/rl-Rahul/balu-property-sub003/internal/pkg/middleware"
)

type ApiRouter struct {
	cfg Config
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group(constants.APIPrefix, newRateLimiter(h.cfg, "api"))
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Hello from api",
		})
	})

	c := h.cfg.Controllers
	v1 := api.Group(constants.APIV1Prefix, middleware.RequireJWT(h.cfg.JWTSecret))

	// catalogue
	v1.Get(constants.PlansRoute, c.Plans.HandleListPlans)
	v1.Post(constants.PlansRoute, middleware.RequireAdmin, c.Plans.HandleCreatePlan)

	// companies
	v1.Post(constants.CompaniesRoute, middleware.RequireAdmin, c.Subscriptions.HandleRegisterCompany)
	company := v1.Group(constants.CompanyRoute, middleware.RequireCompanyAccess("id"))
	company.Get(constants.SubscriptionRoute, c.Subscriptions.HandleGetSubscription)
	company.Post(constants.RenewRoute, middleware.RequireCompanyRole(models.COMPANY_ROLE_OWNER), c.Subscriptions.HandleRenewSubscription)
	company.Post(constants.PersonLimitCheckRoute, c.Subscriptions.HandleCheckPersonLimit)
	company.Get(constants.CanAddUserRoute, c.Subscriptions.HandleCanAddUser)
	company.Get(constants.UsersRoute, c.CompanyUsers.HandleListUsers)
	company.Post(constants.UsersRoute, c.CompanyUsers.HandleCreateUser)
	company.Put(constants.UserStatusRoute, c.CompanyUsers.HandleUpdateUserStatus)
	company.Put(constants.UserPermissionsRoute, c.CompanyUsers.HandleSyncPermissions)
	company.Get(constants.NotificationsRoute, c.Notifications.HandleListNotifications)
	company.Post(constants.NotificationReadRoute, c.Notifications.HandleMarkNotificationRead)

	// favourites of the caller
	v1.Get(constants.FavouritesRoute, c.Favourites.HandleListFavourites)
	v1.Post(constants.FavouriteRoute, c.Favourites.HandleAddFavourite)
	v1.Delete(constants.FavouriteRoute, c.Favourites.HandleRemoveFavourite)

	// platform administration
	v1.Post(constants.PlanMappingsRoute, middleware.RequireAdmin, c.Billing.HandleUpsertPlanMapping)
	v1.Get(constants.AdminJobsRoute, middleware.RequireAdmin, c.AdminJobs.HandleJobStats)
	v1.Post(constants.AdminJobSweepRoute, middleware.RequireAdmin, c.AdminJobs.HandleTriggerSweep)
	v1.Get(constants.AdminJobRoute, middleware.RequireAdmin, c.AdminJobs.HandleGetJob)
	v1.Get(constants.AdminStatsRoute, middleware.RequireAdmin, c.AdminStats.HandleStats)
}

func NewApiRouter(cfg Config) *ApiRouter {
	return &ApiRouter{cfg: cfg}
}
