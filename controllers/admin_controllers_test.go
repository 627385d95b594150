package controllers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestAdminDashboard(t *testing.T) {
	app := setupApp(t)
	token, restaurantID := app.registerOwner(t, "owner@example.com", "Ramen Place")
	otherToken, otherID := app.registerOwner(t, "other@example.com", "Taco Stand")

	alice := app.joinWaitlist(t, restaurantID, "Alice")
	bob := app.joinWaitlist(t, restaurantID, "Bob")
	app.joinWaitlist(t, restaurantID, "Carol")
	app.joinWaitlist(t, otherID, "Dan")

	require.Equal(t, http.StatusOK, app.do(t, http.MethodPut, fmt.Sprintf("/waitlist/%d", alice), map[string]bool{"notified": true}, token).Code)
	require.Equal(t, http.StatusOK, app.do(t, http.MethodPut, fmt.Sprintf("/waitlist/%d", bob), map[string]bool{"seated": true}, token).Code)

	w := app.do(t, http.MethodGet, "/admin/waitlist", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"Alice", "Bob", "Carol"}, namesOf(w.Body.String()))

	w = app.do(t, http.MethodGet, "/admin/waitlist?status=notified", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"Alice"}, namesOf(w.Body.String()))

	w = app.do(t, http.MethodGet, "/admin/waitlist?status=bogus", nil, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.do(t, http.MethodGet, "/admin/waitlist/stats", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Equal(t, int64(1), gjson.Get(body, "data.waiting").Int())
	assert.Equal(t, int64(1), gjson.Get(body, "data.notified").Int())
	assert.Equal(t, int64(1), gjson.Get(body, "data.seated").Int())
	assert.Equal(t, int64(3), gjson.Get(body, "data.total").Int())

	w = app.do(t, http.MethodGet, "/admin/waitlist", nil, otherToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"Dan"}, namesOf(w.Body.String()))

	w = app.do(t, http.MethodGet, "/admin/waitlist", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminRestaurant(t *testing.T) {
	app := setupApp(t)
	token, restaurantID := app.registerOwner(t, "owner@example.com", "Ramen Place")

	w := app.do(t, http.MethodGet, "/admin/restaurant", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(restaurantID), gjson.Get(w.Body.String(), "data.id").Int())

	w = app.do(t, http.MethodPatch, "/admin/restaurant", map[string]string{"city": "Portland", "cuisine": "Japanese"}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Portland", gjson.Get(w.Body.String(), "data.city").String())
	assert.Equal(t, "Japanese", gjson.Get(w.Body.String(), "data.cuisine").String())
	assert.Equal(t, "Ramen Place", gjson.Get(w.Body.String(), "data.name").String())

	w = app.do(t, http.MethodPatch, "/admin/restaurant", map[string]string{"name": ""}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
