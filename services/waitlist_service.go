package services

import (
	"context"
	"errors"
	"strings"

	"github.com/huey-app/huey/models"
	"github.com/huey-app/huey/repository"
	"github.com/huey-app/huey/utils"
	"github.com/sirupsen/logrus"
)

const (
	EventEntryCreated = "entry_created"
	EventEntryUpdated = "entry_updated"
	EventEntryRemoved = "entry_removed"
)

// Publisher pushes waitlist changes to a restaurant's live board.
type Publisher interface {
	Publish(restaurantID uint, event string, data interface{})
}

type CreateEntryInput struct {
	RestaurantID uint   `json:"restaurantId" validate:"required"`
	Name         string `json:"name" validate:"required"`
	PhoneNumber  string `json:"phoneNumber" validate:"required"`
	TableSize    *int   `json:"tableSize" validate:"omitempty,min=1"`
}

// EntryPatch carries only the flags the caller sent. A nil field is left
// untouched; an explicit false clears the flag.
type EntryPatch struct {
	Notified *bool `json:"notified"`
	Seated   *bool `json:"seated"`
}

func (p EntryPatch) fields() map[string]interface{} {
	fields := make(map[string]interface{}, 2)
	if p.Notified != nil {
		fields["notified"] = *p.Notified
	}
	if p.Seated != nil {
		fields["seated"] = *p.Seated
	}
	return fields
}

type WaitlistStats struct {
	Waiting  int `json:"waiting"`
	Notified int `json:"notified"`
	Seated   int `json:"seated"`
	Total    int `json:"total"`
}

type WaitlistService struct {
	repos     repository.Repositories
	publisher Publisher
}

func NewWaitlistService(repos repository.Repositories, publisher Publisher) *WaitlistService {
	return &WaitlistService{repos: repos, publisher: publisher}
}

func (s *WaitlistService) List(ctx context.Context, restaurantID uint, includeSeated bool) ([]models.WaitlistEntry, error) {
	entries, err := s.repos.Waitlist().ListByRestaurant(ctx, restaurantID, includeSeated)
	if err != nil {
		return nil, persistence("list waitlist", err)
	}
	return entries, nil
}

func (s *WaitlistService) Create(ctx context.Context, in CreateEntryInput) (*models.WaitlistEntry, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	exists, err := s.repos.Restaurants().Exists(ctx, in.RestaurantID)
	if err != nil {
		return nil, persistence("check restaurant", err)
	}
	if !exists {
		return nil, &NotFoundError{Resource: "restaurant"}
	}

	entry := &models.WaitlistEntry{
		RestaurantID: in.RestaurantID,
		Name:         in.Name,
		PhoneNumber:  in.PhoneNumber,
		TableSize:    1,
	}
	if in.TableSize != nil {
		entry.TableSize = *in.TableSize
	}
	if err := s.repos.Waitlist().Create(ctx, entry); err != nil {
		return nil, persistence("create waitlist entry", err)
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"restaurant_id": entry.RestaurantID,
		"entry_id":      entry.ID,
		"table_size":    entry.TableSize,
	}).Info("Waitlist entry created")
	s.publish(entry.RestaurantID, EventEntryCreated, entry)
	return entry, nil
}

func (s *WaitlistService) Get(ctx context.Context, id uint) (*models.WaitlistEntry, error) {
	entry, err := s.repos.Waitlist().Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &NotFoundError{Resource: "waitlist entry"}
	}
	if err != nil {
		return nil, persistence("get waitlist entry", err)
	}
	return entry, nil
}

func (s *WaitlistService) Update(ctx context.Context, p *Principal, id uint, patch EntryPatch) (*models.WaitlistEntry, error) {
	entry, err := s.authorizeEntry(ctx, p, id)
	if err != nil {
		return nil, err
	}

	updated, err := s.repos.Waitlist().Update(ctx, entry.ID, patch.fields())
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &NotFoundError{Resource: "waitlist entry"}
	}
	if err != nil {
		return nil, persistence("update waitlist entry", err)
	}

	s.publish(updated.RestaurantID, EventEntryUpdated, updated)
	return updated, nil
}

func (s *WaitlistService) Remove(ctx context.Context, p *Principal, id uint) error {
	entry, err := s.authorizeEntry(ctx, p, id)
	if err != nil {
		return err
	}

	err = s.repos.Waitlist().Delete(ctx, entry.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return &NotFoundError{Resource: "waitlist entry"}
	}
	if err != nil {
		return persistence("delete waitlist entry", err)
	}

	s.publish(entry.RestaurantID, EventEntryRemoved, map[string]uint{"id": entry.ID})
	return nil
}

// Dashboard lists every entry of the caller's restaurant, seated included,
// narrowed to one derived status unless filter is empty or "all".
func (s *WaitlistService) Dashboard(ctx context.Context, p *Principal, filter string) ([]models.WaitlistEntry, error) {
	var status models.EntryStatus
	if filter != "" && filter != "all" {
		st, ok := models.ParseEntryStatus(filter)
		if !ok {
			return nil, &ValidationError{Message: "invalid status filter"}
		}
		status = st
	}

	restaurant, err := ownedRestaurant(ctx, s.repos, p)
	if err != nil {
		return nil, err
	}
	entries, err := s.List(ctx, restaurant.ID, true)
	if err != nil {
		return nil, err
	}
	if status == "" {
		return entries, nil
	}
	return FilterByStatus(entries, status), nil
}

func (s *WaitlistService) Stats(ctx context.Context, p *Principal) (WaitlistStats, error) {
	restaurant, err := ownedRestaurant(ctx, s.repos, p)
	if err != nil {
		return WaitlistStats{}, err
	}
	entries, err := s.List(ctx, restaurant.ID, true)
	if err != nil {
		return WaitlistStats{}, err
	}
	return CountByStatus(entries), nil
}

func FilterByStatus(entries []models.WaitlistEntry, status models.EntryStatus) []models.WaitlistEntry {
	filtered := make([]models.WaitlistEntry, 0, len(entries))
	for _, e := range entries {
		if e.Status() == status {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

func CountByStatus(entries []models.WaitlistEntry) WaitlistStats {
	var stats WaitlistStats
	for _, e := range entries {
		switch e.Status() {
		case models.StatusSeated:
			stats.Seated++
		case models.StatusNotified:
			stats.Notified++
		default:
			stats.Waiting++
		}
	}
	stats.Total = len(entries)
	return stats
}

// authorizeEntry loads the entry and checks the caller owns its restaurant.
func (s *WaitlistService) authorizeEntry(ctx context.Context, p *Principal, id uint) (*models.WaitlistEntry, error) {
	if p == nil {
		return nil, &UnauthorizedError{}
	}
	entry, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	restaurant, err := s.repos.Restaurants().Get(ctx, entry.RestaurantID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, persistence("get restaurant", err)
	}
	if restaurant == nil || !restaurant.OwnedBy(p.UserID) {
		utils.InfoLogger.WithFields(logrus.Fields{
			"user_id":  p.UserID,
			"entry_id": entry.ID,
		}).Warn("Rejected waitlist change by non-owner")
		return nil, &ForbiddenError{Message: "entry belongs to another restaurant"}
	}
	return entry, nil
}

func (s *WaitlistService) publish(restaurantID uint, event string, data interface{}) {
	if s.publisher != nil {
		s.publisher.Publish(restaurantID, event, data)
	}
}

// ownedRestaurant resolves the restaurant managed by the caller.
func ownedRestaurant(ctx context.Context, repos repository.Repositories, p *Principal) (*models.Restaurant, error) {
	if p == nil {
		return nil, &UnauthorizedError{}
	}
	restaurant, err := repos.Restaurants().GetByOwner(ctx, p.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &NotFoundError{Resource: "restaurant"}
	}
	if err != nil {
		return nil, persistence("get owned restaurant", err)
	}
	return restaurant, nil
}
