package repository

import (
	"context"
	"time"

	"github.com/huey-app/huey/models"
	"gorm.io/gorm"
)

type WaitlistRepository interface {
	// ListByRestaurant returns entries oldest first. Seated entries are
	// left out unless includeSeated is set.
	ListByRestaurant(ctx context.Context, restaurantID uint, includeSeated bool) ([]models.WaitlistEntry, error)
	Get(ctx context.Context, id uint) (*models.WaitlistEntry, error)
	Create(ctx context.Context, entry *models.WaitlistEntry) error
	// Update applies only the given columns and returns the row re-read.
	Update(ctx context.Context, id uint, fields map[string]interface{}) (*models.WaitlistEntry, error)
	Delete(ctx context.Context, id uint) error
	CountWaiting(ctx context.Context, restaurantID uint) (int64, error)
	// CountWaitingByRestaurant maps restaurant id to its unseated entry
	// count. Restaurants without unseated entries are absent.
	CountWaitingByRestaurant(ctx context.Context) (map[uint]int64, error)
	DeleteSeatedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type gormWaitlistRepository struct {
	db *gorm.DB
}

func (r *gormWaitlistRepository) ListByRestaurant(ctx context.Context, restaurantID uint, includeSeated bool) ([]models.WaitlistEntry, error) {
	query := r.db.WithContext(ctx).Where("restaurant_id = ?", restaurantID)
	if !includeSeated {
		query = query.Where("seated = ?", false)
	}

	entries := make([]models.WaitlistEntry, 0)
	if err := query.Order("created_at ASC").Order("id ASC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *gormWaitlistRepository) Get(ctx context.Context, id uint) (*models.WaitlistEntry, error) {
	var entry models.WaitlistEntry
	if err := r.db.WithContext(ctx).First(&entry, id).Error; err != nil {
		return nil, translate(err)
	}
	return &entry, nil
}

func (r *gormWaitlistRepository) Create(ctx context.Context, entry *models.WaitlistEntry) error {
	return translate(r.db.WithContext(ctx).Create(entry).Error)
}

func (r *gormWaitlistRepository) Update(ctx context.Context, id uint, fields map[string]interface{}) (*models.WaitlistEntry, error) {
	entry, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(fields) > 0 {
		if err := r.db.WithContext(ctx).Model(entry).Updates(fields).Error; err != nil {
			return nil, translate(err)
		}
	}
	return r.Get(ctx, id)
}

func (r *gormWaitlistRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.WaitlistEntry{}, id)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *gormWaitlistRepository) CountWaiting(ctx context.Context, restaurantID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.WaitlistEntry{}).
		Where("restaurant_id = ? AND seated = ?", restaurantID, false).
		Count(&count).Error
	return count, err
}

func (r *gormWaitlistRepository) CountWaitingByRestaurant(ctx context.Context) (map[uint]int64, error) {
	var rows []struct {
		RestaurantID uint
		Total        int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.WaitlistEntry{}).
		Select("restaurant_id, COUNT(*) AS total").
		Where("seated = ?", false).
		Group("restaurant_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[uint]int64, len(rows))
	for _, row := range rows {
		counts[row.RestaurantID] = row.Total
	}
	return counts, nil
}

func (r *gormWaitlistRepository) DeleteSeatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("seated = ? AND updated_at < ?", true, cutoff).
		Delete(&models.WaitlistEntry{})
	return result.RowsAffected, result.Error
}
