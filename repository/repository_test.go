package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/huey-app/huey/database"
	"github.com/huey-app/huey/models"
	"github.com/huey-app/huey/repository"
)

func setupStore(t *testing.T) (*repository.Store, *gorm.DB) {
	t.Helper()
	db, err := database.OpenInMemory()
	require.NoError(t, err)
	return repository.NewStore(db), db
}

func seedRestaurant(t *testing.T, db *gorm.DB, name string) models.Restaurant {
	t.Helper()
	r := models.Restaurant{
		Name: name, Phone: "555-0000", Description: name + " kitchen",
		Address: "1 Main St", City: "Seattle", State: "Washington",
	}
	require.NoError(t, db.Create(&r).Error)
	return r
}

func TestWaitlistListOrderingAndSeatedFilter(t *testing.T) {
	store, db := setupStore(t)
	ctx := context.Background()
	r := seedRestaurant(t, db, "Noodle Bar")
	other := seedRestaurant(t, db, "Taco Stand")

	base := time.Date(2025, 5, 1, 18, 0, 0, 0, time.UTC)
	entries := []models.WaitlistEntry{
		{RestaurantID: r.ID, Name: "Carol", PhoneNumber: "555-0102", TableSize: 2, CreatedAt: base.Add(2 * time.Minute)},
		{RestaurantID: r.ID, Name: "Alice", PhoneNumber: "555-0100", TableSize: 1, CreatedAt: base},
		{RestaurantID: r.ID, Name: "Bob", PhoneNumber: "555-0101", TableSize: 4, CreatedAt: base.Add(time.Minute), Seated: true},
		{RestaurantID: other.ID, Name: "Dan", PhoneNumber: "555-0103", TableSize: 1, CreatedAt: base},
	}
	for i := range entries {
		require.NoError(t, store.Waitlist().Create(ctx, &entries[i]))
	}

	all, err := store.Waitlist().ListByRestaurant(ctx, r.ID, true)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"Alice", "Bob", "Carol"}, []string{all[0].Name, all[1].Name, all[2].Name})

	waiting, err := store.Waitlist().ListByRestaurant(ctx, r.ID, false)
	require.NoError(t, err)
	require.Len(t, waiting, 2)
	assert.Equal(t, "Alice", waiting[0].Name)
	assert.Equal(t, "Carol", waiting[1].Name)

	none, err := store.Waitlist().ListByRestaurant(ctx, 9999, true)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestWaitlistPartialUpdate(t *testing.T) {
	store, db := setupStore(t)
	ctx := context.Background()
	r := seedRestaurant(t, db, "Noodle Bar")

	entry := models.WaitlistEntry{RestaurantID: r.ID, Name: "Alice", PhoneNumber: "555-0100", TableSize: 1}
	require.NoError(t, store.Waitlist().Create(ctx, &entry))

	updated, err := store.Waitlist().Update(ctx, entry.ID, map[string]interface{}{"notified": true})
	require.NoError(t, err)
	assert.True(t, updated.Notified)
	assert.False(t, updated.Seated)

	updated, err = store.Waitlist().Update(ctx, entry.ID, map[string]interface{}{"seated": true})
	require.NoError(t, err)
	assert.True(t, updated.Notified, "omitted fields are untouched")
	assert.True(t, updated.Seated)

	updated, err = store.Waitlist().Update(ctx, entry.ID, map[string]interface{}{"notified": false})
	require.NoError(t, err)
	assert.False(t, updated.Notified, "explicit false is honoured")

	unchanged, err := store.Waitlist().Update(ctx, entry.ID, map[string]interface{}{})
	require.NoError(t, err)
	assert.Equal(t, updated.Seated, unchanged.Seated)

	_, err = store.Waitlist().Update(ctx, 4242, map[string]interface{}{"seated": true})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestWaitlistDelete(t *testing.T) {
	store, db := setupStore(t)
	ctx := context.Background()
	r := seedRestaurant(t, db, "Noodle Bar")

	entry := models.WaitlistEntry{RestaurantID: r.ID, Name: "Alice", PhoneNumber: "555-0100", TableSize: 1}
	require.NoError(t, store.Waitlist().Create(ctx, &entry))

	require.NoError(t, store.Waitlist().Delete(ctx, entry.ID))
	_, err := store.Waitlist().Get(ctx, entry.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	assert.ErrorIs(t, store.Waitlist().Delete(ctx, entry.ID), repository.ErrNotFound)
}

func TestWaitlistCounts(t *testing.T) {
	store, db := setupStore(t)
	ctx := context.Background()
	a := seedRestaurant(t, db, "A")
	b := seedRestaurant(t, db, "B")
	c := seedRestaurant(t, db, "C")

	for _, e := range []models.WaitlistEntry{
		{RestaurantID: a.ID, Name: "1", PhoneNumber: "555-0001", TableSize: 1},
		{RestaurantID: a.ID, Name: "2", PhoneNumber: "555-0002", TableSize: 1, Notified: true},
		{RestaurantID: a.ID, Name: "3", PhoneNumber: "555-0003", TableSize: 1, Seated: true},
		{RestaurantID: b.ID, Name: "4", PhoneNumber: "555-0004", TableSize: 1},
		{RestaurantID: c.ID, Name: "5", PhoneNumber: "555-0005", TableSize: 1, Seated: true},
	} {
		e := e
		require.NoError(t, store.Waitlist().Create(ctx, &e))
	}

	n, err := store.Waitlist().CountWaiting(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	counts, err := store.Waitlist().CountWaitingByRestaurant(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[uint]int64{a.ID: 2, b.ID: 1}, counts)
}

func TestWaitlistDeleteSeatedBefore(t *testing.T) {
	store, db := setupStore(t)
	ctx := context.Background()
	r := seedRestaurant(t, db, "Noodle Bar")
	now := time.Now()

	oldSeated := models.WaitlistEntry{RestaurantID: r.ID, Name: "old", PhoneNumber: "555-0001", TableSize: 1, Seated: true}
	newSeated := models.WaitlistEntry{RestaurantID: r.ID, Name: "new", PhoneNumber: "555-0002", TableSize: 1, Seated: true}
	oldWaiting := models.WaitlistEntry{RestaurantID: r.ID, Name: "waiting", PhoneNumber: "555-0003", TableSize: 1}
	for _, e := range []*models.WaitlistEntry{&oldSeated, &newSeated, &oldWaiting} {
		require.NoError(t, store.Waitlist().Create(ctx, e))
	}
	for _, id := range []uint{oldSeated.ID, oldWaiting.ID} {
		require.NoError(t, db.Model(&models.WaitlistEntry{}).Where("id = ?", id).
			UpdateColumn("updated_at", now.Add(-48*time.Hour)).Error)
	}

	removed, err := store.Waitlist().DeleteSeatedBefore(ctx, now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	remaining, err := store.Waitlist().ListByRestaurant(ctx, r.ID, true)
	require.NoError(t, err)
	require.Len(t, remaining, 2)
	assert.Equal(t, "new", remaining[0].Name)
	assert.Equal(t, "waiting", remaining[1].Name)
}

func TestRestaurantLookups(t *testing.T) {
	store, db := setupStore(t)
	ctx := context.Background()

	owner := models.User{Email: "owner@example.com", Password: "hash", Role: models.RoleOwner}
	require.NoError(t, store.Users().Create(ctx, &owner))

	slug := "noodle-bar-1"
	r := models.Restaurant{
		OwnerID: &owner.ID, Slug: &slug, Name: "Noodle Bar", Phone: "555-0000",
		Description: "Hand-pulled noodles", Address: "1 Main St", City: "Seattle", State: "Washington",
	}
	require.NoError(t, store.Restaurants().Create(ctx, &r))
	seedRestaurant(t, db, "Unowned")

	got, err := store.Restaurants().GetByOwner(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, r.ID, got.ID)

	got, err = store.Restaurants().GetBySlug(ctx, slug)
	require.NoError(t, err)
	assert.Equal(t, r.ID, got.ID)

	_, err = store.Restaurants().GetBySlug(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	exists, err := store.Restaurants().Exists(ctx, r.ID)
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = store.Restaurants().Exists(ctx, 777)
	require.NoError(t, err)
	assert.False(t, exists)

	updated, err := store.Restaurants().Update(ctx, r.ID, map[string]interface{}{"city": "Los Angeles"})
	require.NoError(t, err)
	assert.Equal(t, "Los Angeles", updated.City)
	assert.Equal(t, "Noodle Bar", updated.Name)

	list, err := store.Restaurants().List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestUserLookups(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	u := models.User{Email: "owner@example.com", Password: "hash", Role: models.RoleOwner}
	require.NoError(t, store.Users().Create(ctx, &u))

	got, err := store.Users().GetByEmail(ctx, "owner@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = store.Users().GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	dup := models.User{Email: "owner@example.com", Password: "hash", Role: models.RoleOwner}
	assert.Error(t, store.Users().Create(ctx, &dup))
}

func TestTransactionRollsBack(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	err := store.Transaction(ctx, func(tx repository.Repositories) error {
		u := models.User{Email: "owner@example.com", Password: "hash", Role: models.RoleOwner}
		if err := tx.Users().Create(ctx, &u); err != nil {
			return err
		}
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)

	_, err = store.Users().GetByEmail(ctx, "owner@example.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestTransactionCommits(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	err := store.Transaction(ctx, func(tx repository.Repositories) error {
		u := models.User{Email: "owner@example.com", Password: "hash", Role: models.RoleOwner}
		return tx.Users().Create(ctx, &u)
	})
	require.NoError(t, err)

	_, err = store.Users().GetByEmail(ctx, "owner@example.com")
	assert.NoError(t, err)
}
