package controllers

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rl-Rahul/balu-property-sub003/app/models"
	"github.com/rl-Rahul/balu-property-sub003/internal/pkg/identity"
)

type favKey struct {
	kind          models.FavouriteKind
	owner, target uint
}

type fakeFavouriteRepo struct {
	rows map[favKey]models.Favourite
}

func (r *fakeFavouriteRepo) Add(kind models.FavouriteKind, ownerID, targetID uint) (*models.Favourite, error) {
	k := favKey{kind, ownerID, targetID}
	if fav, ok := r.rows[k]; ok {
		return &fav, nil
	}
	fav := models.Favourite{ID: uint(len(r.rows) + 1), OwnerID: ownerID, TargetID: targetID}
	r.rows[k] = fav
	return &fav, nil
}

func (r *fakeFavouriteRepo) Remove(kind models.FavouriteKind, ownerID, targetID uint) error {
	delete(r.rows, favKey{kind, ownerID, targetID})
	return nil
}

func (r *fakeFavouriteRepo) List(kind models.FavouriteKind, ownerID uint) ([]models.Favourite, error) {
	out := []models.Favourite{}
	for k, fav := range r.rows {
		if k.kind == kind && k.owner == ownerID {
			out = append(out, fav)
		}
	}
	return out, nil
}

func TestFavouriteController(t *testing.T) {
	repo := &fakeFavouriteRepo{rows: map[favKey]models.Favourite{}}
	fc := NewFavouriteController(repo)
	app := fiber.New()
	app.Use(withIdentity(identity.Identity{UserID: 9, CompanyAccountID: 4}))
	app.Get("/favourites/:kind", fc.HandleListFavourites)
	app.Post("/favourites/:kind/:targetId", fc.HandleAddFavourite)
	app.Delete("/favourites/:kind/:targetId", fc.HandleRemoveFavourite)

	resp, first := doJSON(t, app, http.MethodPost, "/favourites/company/21", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 9, first["owner_id"])

	resp, second := doJSON(t, app, http.MethodPost, "/favourites/company/21", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, first["id"], second["id"])

	resp, body := doJSON(t, app, http.MethodGet, "/favourites/company", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	favs, ok := body["favourites"].([]any)
	require.True(t, ok)
	assert.Len(t, favs, 1)

	resp, _ = doJSON(t, app, http.MethodDelete, "/favourites/company/21", nil)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.Empty(t, repo.rows)

	resp, _ = doJSON(t, app, http.MethodGet, "/favourites/unknown", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
