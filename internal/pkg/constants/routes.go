package constants

// API route constants
const (
	APIPrefix   = "/api"
	APIV1Prefix = "/v1"

	PlansRoute         = "/plans"
	CompaniesRoute     = "/companies"
	CompanyRoute       = "/companies/:id"
	FavouritesRoute    = "/favourites/:kind"
	FavouriteRoute     = "/favourites/:kind/:targetId"
	PlanMappingsRoute  = "/billing/plan-mappings"
	AdminJobsRoute     = "/admin/jobs"
	AdminJobRoute      = "/admin/jobs/:jobId"
	AdminJobSweepRoute = "/admin/jobs/sweep"
	AdminStatsRoute    = "/admin/stats"

	// Relative to CompanyRoute
	SubscriptionRoute     = "/subscription"
	RenewRoute            = "/subscription/renew"
	PersonLimitCheckRoute = "/subscription/check"
	CanAddUserRoute       = "/users/can-add"
	UsersRoute            = "/users"
	UserStatusRoute       = "/users/:userId/status"
	UserPermissionsRoute  = "/users/:userId/permissions"
	NotificationsRoute    = "/notifications"
	NotificationReadRoute = "/notifications/:notificationId/read"

	BillingWebhookRoute = "/webhooks/billing/:provider"
	MetricsRoute        = "/metrics"
	MonitorRoute        = "/monitor"
	HealthRoute         = "/health"
)
