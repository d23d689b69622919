package identity

// Locals keys and claim values shared by middlewares and controllers
const (
	LocalsKey = "IDENTITY"

	RolePlatformAdmin = "platform_admin"
)
