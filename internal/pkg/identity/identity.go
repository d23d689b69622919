package identity

import "github.com/gofiber/fiber/v2"

// Identity is the authenticated caller of a request. Handlers receive it
// explicitly and pass ids on to services.
type Identity struct {
	UserID           uint   `json:"user_id"`
	CompanyAccountID uint   `json:"company_account_id"`
	Role             string `json:"role"`
	IsAdmin          bool   `json:"is_admin"`
}

// IsAuthenticated reports whether the identity carries a user.
func (i Identity) IsAuthenticated() bool {
	return i.UserID != 0
}

// CanAccessCompany reports whether the caller may act on the account.
func (i Identity) CanAccessCompany(accountID uint) bool {
	if i.IsAdmin {
		return true
	}
	return accountID != 0 && i.CompanyAccountID == accountID
}

// FromCtx returns the identity stored by the auth middleware, or an
// anonymous identity.
func FromCtx(c *fiber.Ctx) Identity {
	if id, ok := c.Locals(LocalsKey).(Identity); ok {
		return id
	}
	return Identity{}
}

// Set stores the identity for the rest of the request.
func Set(c *fiber.Ctx, id Identity) {
	c.Locals(LocalsKey, id)
}
