package repository

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rl-Rahul/balu-property-sub003/app/models"
)

// favouriteRepository implements the FavouriteRepository interface
type favouriteRepository struct {
	db *gorm.DB
}

// NewFavouriteRepository creates a new favourite repository instance
func NewFavouriteRepository(db *gorm.DB) FavouriteRepository {
	return &favouriteRepository{db: db}
}

func (r *favouriteRepository) table(kind models.FavouriteKind) (*gorm.DB, error) {
	name := kind.TableName()
	if name == "" {
		return nil, fmt.Errorf("unknown favourite kind %q", kind)
	}
	return r.db.Table(name), nil
}

// Add stores the favourite once; repeated adds return the existing row
func (r *favouriteRepository) Add(kind models.FavouriteKind, ownerID, targetID uint) (*models.Favourite, error) {
	tbl, err := r.table(kind)
	if err != nil {
		return nil, err
	}
	fav := &models.Favourite{OwnerID: ownerID, TargetID: targetID}
	if err := tbl.Clauses(clause.OnConflict{DoNothing: true}).Create(fav).Error; err != nil {
		return nil, err
	}

	var stored models.Favourite
	if err := r.db.Table(kind.TableName()).
		Where("owner_id = ? AND target_id = ?", ownerID, targetID).
		First(&stored).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}

// Remove deletes the favourite if present
func (r *favouriteRepository) Remove(kind models.FavouriteKind, ownerID, targetID uint) error {
	tbl, err := r.table(kind)
	if err != nil {
		return err
	}
	return tbl.Where("owner_id = ? AND target_id = ?", ownerID, targetID).Delete(&models.Favourite{}).Error
}

// List returns the owner's favourites of one kind, newest first
func (r *favouriteRepository) List(kind models.FavouriteKind, ownerID uint) ([]models.Favourite, error) {
	tbl, err := r.table(kind)
	if err != nil {
		return nil, err
	}
	var favs []models.Favourite
	err = tbl.Where("owner_id = ?", ownerID).Order("created_at DESC, id DESC").Find(&favs).Error
	return favs, err
}
