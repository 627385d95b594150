package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/huey-app/huey/database"
	"github.com/huey-app/huey/models"
	"github.com/huey-app/huey/repository"
)

type publishedEvent struct {
	RestaurantID uint
	Event        string
	Data         interface{}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *recordingPublisher) Publish(restaurantID uint, event string, data interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{restaurantID, event, data})
}

func (p *recordingPublisher) Events() []publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]publishedEvent(nil), p.events...)
}

func newTestStore(t *testing.T) (*repository.Store, *gorm.DB) {
	t.Helper()
	db, err := database.OpenInMemory()
	require.NoError(t, err)
	return repository.NewStore(db), db
}

// seedOwner creates an owner account with the given password and a restaurant
// they own.
func seedOwner(t *testing.T, store *repository.Store, email, password, name string) (*models.User, *models.Restaurant) {
	t.Helper()
	ctx := context.Background()

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user := &models.User{Email: email, Password: string(hashed), Role: models.RoleOwner}
	require.NoError(t, store.Users().Create(ctx, user))

	cuisine := "Japanese"
	restaurant := &models.Restaurant{
		OwnerID: &user.ID, Name: name, Phone: "555-0000", Description: name + " serves ramen",
		Address: "1 Main St", City: "Seattle", State: "Washington", Cuisine: &cuisine,
	}
	require.NoError(t, store.Restaurants().Create(ctx, restaurant))
	return user, restaurant
}

func principalFor(u *models.User) *Principal {
	return &Principal{UserID: u.ID, Email: u.Email, Role: u.Role}
}

func intPtr(v int) *int       { return &v }
func boolPtr(v bool) *bool    { return &v }
func strPtr(v string) *string { return &v }
