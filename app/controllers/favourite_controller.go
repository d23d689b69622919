package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/rl-Rahul/balu-property-sub003/app/models"
	"github.com/rl-Rahul/balu-property-sub003/app/repository"
	"github.com/rl-Rahul/balu-property-sub003/internal/pkg/identity"
)

// FavouriteController lets the caller mark entities as favourites
type FavouriteController struct {
	favourites repository.FavouriteRepository
}

// NewFavouriteController creates a favourite controller
func NewFavouriteController(favourites repository.FavouriteRepository) *FavouriteController {
	return &FavouriteController{favourites: favourites}
}

func (fc *FavouriteController) parseKind(c *fiber.Ctx) (models.FavouriteKind, error) {
	return models.ParseFavouriteKind(c.Params("kind"))
}

// HandleListFavourites lists the caller's favourites of one kind
func (fc *FavouriteController) HandleListFavourites(c *fiber.Ctx) error {
	kind, err := fc.parseKind(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	owner := identity.FromCtx(c)

	favs, err := fc.favourites.List(kind, owner.UserID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"kind": kind, "favourites": favs})
}

// HandleAddFavourite marks the target as favourite, repeated calls are no-ops
func (fc *FavouriteController) HandleAddFavourite(c *fiber.Ctx) error {
	kind, err := fc.parseKind(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	targetID, err := parseIDParam(c, "targetId")
	if err != nil {
		return badRequest(c, err.Error())
	}
	owner := identity.FromCtx(c)

	fav, err := fc.favourites.Add(kind, owner.UserID, targetID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fav)
}

// HandleRemoveFavourite removes the target from the caller's favourites
func (fc *FavouriteController) HandleRemoveFavourite(c *fiber.Ctx) error {
	kind, err := fc.parseKind(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	targetID, err := parseIDParam(c, "targetId")
	if err != nil {
		return badRequest(c, err.Error())
	}
	owner := identity.FromCtx(c)

	if err := fc.favourites.Remove(kind, owner.UserID, targetID); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
