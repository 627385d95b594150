package repository

import (
	"context"

	"github.com/huey-app/huey/models"
	"gorm.io/gorm"
)

type RestaurantRepository interface {
	List(ctx context.Context) ([]models.Restaurant, error)
	Get(ctx context.Context, id uint) (*models.Restaurant, error)
	GetBySlug(ctx context.Context, slug string) (*models.Restaurant, error)
	GetByOwner(ctx context.Context, ownerID uint) (*models.Restaurant, error)
	Exists(ctx context.Context, id uint) (bool, error)
	Create(ctx context.Context, restaurant *models.Restaurant) error
	// Update applies fields to the row and returns it re-read.
	Update(ctx context.Context, id uint, fields map[string]interface{}) (*models.Restaurant, error)
}

type gormRestaurantRepository struct {
	db *gorm.DB
}

func (r *gormRestaurantRepository) List(ctx context.Context) ([]models.Restaurant, error) {
	restaurants := make([]models.Restaurant, 0)
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&restaurants).Error; err != nil {
		return nil, err
	}
	return restaurants, nil
}

func (r *gormRestaurantRepository) Get(ctx context.Context, id uint) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	if err := r.db.WithContext(ctx).First(&restaurant, id).Error; err != nil {
		return nil, translate(err)
	}
	return &restaurant, nil
}

func (r *gormRestaurantRepository) GetBySlug(ctx context.Context, slug string) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&restaurant).Error; err != nil {
		return nil, translate(err)
	}
	return &restaurant, nil
}

func (r *gormRestaurantRepository) GetByOwner(ctx context.Context, ownerID uint) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	if err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).First(&restaurant).Error; err != nil {
		return nil, translate(err)
	}
	return &restaurant, nil
}

func (r *gormRestaurantRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Restaurant{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *gormRestaurantRepository) Create(ctx context.Context, restaurant *models.Restaurant) error {
	return translate(r.db.WithContext(ctx).Create(restaurant).Error)
}

func (r *gormRestaurantRepository) Update(ctx context.Context, id uint, fields map[string]interface{}) (*models.Restaurant, error) {
	restaurant, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(fields) > 0 {
		if err := r.db.WithContext(ctx).Model(restaurant).Updates(fields).Error; err != nil {
			return nil, translate(err)
		}
	}
	return r.Get(ctx, id)
}
