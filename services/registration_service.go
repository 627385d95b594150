package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gosimple/slug"
	"github.com/huey-app/huey/models"
	"github.com/huey-app/huey/repository"
	"github.com/huey-app/huey/utils"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

type RegisterInput struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
	RestaurantName  string `json:"restaurantName" validate:"required"`
	PhoneNumber     string `json:"phoneNumber" validate:"required"`
	Description     string `json:"description" validate:"required"`
	Address         string `json:"address" validate:"required"`
	City            string `json:"city" validate:"required"`
	State           string `json:"state" validate:"required"`
	Cuisine         string `json:"cuisine"`
	Image           string `json:"image"`
}

func (in *RegisterInput) normalize() {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	for _, f := range []*string{
		&in.RestaurantName, &in.PhoneNumber, &in.Description,
		&in.Address, &in.City, &in.State, &in.Cuisine, &in.Image,
	} {
		*f = strings.TrimSpace(*f)
	}
}

// Registration is the owner account together with the restaurant it manages.
type Registration struct {
	User       *models.User       `json:"user"`
	Restaurant *models.Restaurant `json:"restaurant"`
}

type RegistrationService struct {
	repos    repository.Repositories
	HashCost int
}

func NewRegistrationService(repos repository.Repositories) *RegistrationService {
	return &RegistrationService{repos: repos, HashCost: bcrypt.DefaultCost}
}

// Register provisions an owner and their restaurant in one transaction, so a
// failed restaurant insert never leaves an orphaned account behind.
func (s *RegistrationService) Register(ctx context.Context, in RegisterInput) (*Registration, error) {
	in.normalize()
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if in.Password != in.ConfirmPassword {
		return nil, &ValidationError{Message: "passwords do not match"}
	}

	_, err := s.repos.Users().GetByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return nil, &ConflictError{Message: "user already exists"}
	case !errors.Is(err, repository.ErrNotFound):
		return nil, persistence("lookup user", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.HashCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	result := &Registration{}
	err = s.repos.Transaction(ctx, func(tx repository.Repositories) error {
		user := &models.User{
			Email:    in.Email,
			Password: string(hashed),
			Role:     models.RoleOwner,
		}
		if err := tx.Users().Create(ctx, user); err != nil {
			return err
		}

		cuisine := nullable(in.Cuisine, models.DefaultCuisine)
		image := nullable(in.Image, models.DefaultImage)
		restaurant := &models.Restaurant{
			OwnerID:     &user.ID,
			Name:        in.RestaurantName,
			Phone:       in.PhoneNumber,
			Description: in.Description,
			Address:     in.Address,
			City:        in.City,
			State:       in.State,
			Cuisine:     &cuisine,
			Image:       &image,
		}
		if err := tx.Restaurants().Create(ctx, restaurant); err != nil {
			return err
		}

		restaurant, err := tx.Restaurants().Update(ctx, restaurant.ID, map[string]interface{}{
			"slug": restaurantSlug(restaurant.Name, restaurant.ID),
		})
		if err != nil {
			return err
		}

		result.User = user
		result.Restaurant = restaurant
		return nil
	})
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, &ConflictError{Message: "user already exists"}
	}
	if err != nil {
		return nil, persistence("register owner", err)
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"user_id":       result.User.ID,
		"restaurant_id": result.Restaurant.ID,
	}).Info("Owner registered")
	return result, nil
}

// restaurantSlug is unique because it ends in the row id.
func restaurantSlug(name string, id uint) string {
	base := slug.Make(name)
	if base == "" {
		base = "restaurant"
	}
	return fmt.Sprintf("%s-%d", base, id)
}
