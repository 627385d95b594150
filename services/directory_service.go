package services

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/huey-app/huey/models"
	"github.com/huey-app/huey/repository"
	"github.com/huey-app/huey/utils"
	"github.com/sirupsen/logrus"
)

const (
	// MinutesPerParty is the flat wait estimate per unseated party ahead.
	MinutesPerParty = 12
	// MatchAll disables a directory filter field.
	MatchAll = "All"
)

// DirectoryFilter narrows the public restaurant listing. Empty fields and the
// "All" sentinel match everything.
type DirectoryFilter struct {
	Search  string `form:"search"`
	Cuisine string `form:"cuisine"`
	City    string `form:"city"`
	State   string `form:"state"`
}

func (f DirectoryFilter) Matches(r models.Restaurant) bool {
	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		if !strings.Contains(strings.ToLower(r.Name), q) &&
			!strings.Contains(strings.ToLower(r.Description), q) {
			return false
		}
	}
	cuisine := ""
	if r.Cuisine != nil {
		cuisine = *r.Cuisine
	}
	return matchExact(f.Cuisine, cuisine) && matchExact(f.City, r.City) && matchExact(f.State, r.State)
}

func matchExact(filter, value string) bool {
	filter = strings.TrimSpace(filter)
	return filter == "" || filter == MatchAll || filter == value
}

// DirectoryListing is a restaurant as shown to the public, with its queue length.
type DirectoryListing struct {
	models.Restaurant
	WaitCount            int64 `json:"waitCount"`
	EstimatedWaitMinutes int64 `json:"estimatedWaitMinutes"`
}

func newListing(r models.Restaurant, waiting int64) DirectoryListing {
	return DirectoryListing{Restaurant: r, WaitCount: waiting, EstimatedWaitMinutes: waiting * MinutesPerParty}
}

// RestaurantPatch is an owner edit. Nil fields are left alone.
type RestaurantPatch struct {
	Name        *string `json:"name"`
	Phone       *string `json:"phone"`
	Description *string `json:"description"`
	Address     *string `json:"address"`
	City        *string `json:"city"`
	State       *string `json:"state"`
	Cuisine     *string `json:"cuisine"`
	Image       *string `json:"image"`
}

func (p RestaurantPatch) fields() (map[string]interface{}, error) {
	fields := make(map[string]interface{})
	required := []struct {
		column string
		value  *string
	}{
		{"name", p.Name},
		{"phone", p.Phone},
		{"description", p.Description},
		{"address", p.Address},
		{"city", p.City},
		{"state", p.State},
	}
	for _, f := range required {
		if f.value == nil {
			continue
		}
		v := strings.TrimSpace(*f.value)
		if v == "" {
			return nil, &ValidationError{Message: f.column + " cannot be blank"}
		}
		fields[f.column] = v
	}
	if p.Cuisine != nil {
		fields["cuisine"] = nullable(*p.Cuisine, models.DefaultCuisine)
	}
	if p.Image != nil {
		fields["image"] = nullable(*p.Image, models.DefaultImage)
	}
	return fields, nil
}

func nullable(v, fallback string) string {
	if v = strings.TrimSpace(v); v == "" {
		return fallback
	}
	return v
}

type DirectoryService struct {
	repos repository.Repositories
}

func NewDirectoryService(repos repository.Repositories) *DirectoryService {
	return &DirectoryService{repos: repos}
}

func (s *DirectoryService) List(ctx context.Context, filter DirectoryFilter) ([]DirectoryListing, error) {
	restaurants, err := s.repos.Restaurants().List(ctx)
	if err != nil {
		return nil, persistence("list restaurants", err)
	}
	counts, err := s.repos.Waitlist().CountWaitingByRestaurant(ctx)
	if err != nil {
		return nil, persistence("count waitlists", err)
	}

	listings := make([]DirectoryListing, 0, len(restaurants))
	for _, r := range restaurants {
		if filter.Matches(r) {
			listings = append(listings, newListing(r, counts[r.ID]))
		}
	}
	return listings, nil
}

// Get looks a restaurant up by numeric id, falling back to its slug.
func (s *DirectoryService) Get(ctx context.Context, idOrSlug string) (*DirectoryListing, error) {
	idOrSlug = strings.TrimSpace(idOrSlug)
	if idOrSlug == "" {
		return nil, &NotFoundError{Resource: "restaurant"}
	}

	var (
		restaurant *models.Restaurant
		err        error
	)
	if id, convErr := strconv.ParseUint(idOrSlug, 10, 64); convErr == nil {
		restaurant, err = s.repos.Restaurants().Get(ctx, uint(id))
	} else {
		restaurant, err = s.repos.Restaurants().GetBySlug(ctx, idOrSlug)
	}
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &NotFoundError{Resource: "restaurant"}
	}
	if err != nil {
		return nil, persistence("get restaurant", err)
	}

	waiting, err := s.WaitCount(ctx, restaurant.ID)
	if err != nil {
		return nil, err
	}
	listing := newListing(*restaurant, waiting)
	return &listing, nil
}

func (s *DirectoryService) WaitCount(ctx context.Context, restaurantID uint) (int64, error) {
	n, err := s.repos.Waitlist().CountWaiting(ctx, restaurantID)
	if err != nil {
		return 0, persistence("count waitlist", err)
	}
	return n, nil
}

func (s *DirectoryService) EstimatedWaitMinutes(ctx context.Context, restaurantID uint) (int64, error) {
	n, err := s.WaitCount(ctx, restaurantID)
	if err != nil {
		return 0, err
	}
	return n * MinutesPerParty, nil
}

func (s *DirectoryService) ForOwner(ctx context.Context, p *Principal) (*models.Restaurant, error) {
	return ownedRestaurant(ctx, s.repos, p)
}

// Update edits the caller's own restaurant.
func (s *DirectoryService) Update(ctx context.Context, p *Principal, id uint, patch RestaurantPatch) (*models.Restaurant, error) {
	if p == nil {
		return nil, &UnauthorizedError{}
	}
	restaurant, err := s.repos.Restaurants().Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &NotFoundError{Resource: "restaurant"}
	}
	if err != nil {
		return nil, persistence("get restaurant", err)
	}
	if !restaurant.OwnedBy(p.UserID) {
		return nil, &ForbiddenError{Message: "restaurant belongs to another owner"}
	}

	fields, err := patch.fields()
	if err != nil {
		return nil, err
	}
	updated, err := s.repos.Restaurants().Update(ctx, id, fields)
	if err != nil {
		return nil, persistence("update restaurant", err)
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"restaurant_id": id,
		"user_id":       p.UserID,
		"fields":        len(fields),
	}).Info("Restaurant updated")
	return updated, nil
}
