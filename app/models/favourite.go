package models

import (
	"fmt"
	"strings"
	"time"
)

// FavouriteKind selects which relation table a favourite lives in.
type FavouriteKind string

const (
	FavouriteIndividual FavouriteKind = "individual"
	FavouriteCompany    FavouriteKind = "company"
	FavouriteAdmin      FavouriteKind = "admin"
)

var favouriteTables = map[FavouriteKind]string{
	FavouriteIndividual: "individual_favourites",
	FavouriteCompany:    "company_favourites",
	FavouriteAdmin:      "admin_favourites",
}

// ParseFavouriteKind maps a request key to a known kind.
func ParseFavouriteKind(raw string) (FavouriteKind, error) {
	kind := FavouriteKind(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := favouriteTables[kind]; !ok {
		return "", fmt.Errorf("unknown favourite kind %q", raw)
	}
	return kind, nil
}

// TableName returns the relation table backing this kind.
func (k FavouriteKind) TableName() string {
	return favouriteTables[k]
}

// Favourite is a row in one of the favourite relation tables. The owner is
// the user marking the favourite and the target is the favoured entity.
type Favourite struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	OwnerID   uint      `gorm:"not null;uniqueIndex:ux_favourite_owner_target,priority:1" json:"owner_id"`
	TargetID  uint      `gorm:"not null;uniqueIndex:ux_favourite_owner_target,priority:2;index" json:"target_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// FavouriteKinds lists every supported kind, used for migrations.
func FavouriteKinds() []FavouriteKind {
	return []FavouriteKind{FavouriteIndividual, FavouriteCompany, FavouriteAdmin}
}
