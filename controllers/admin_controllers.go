package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/huey-app/huey/middlewares"
	"github.com/huey-app/huey/services"
	"github.com/huey-app/huey/utils"
)

// AdminController backs the owner dashboard. Every handler acts on the
// restaurant owned by the caller.
type AdminController struct {
	Directory *services.DirectoryService
	Waitlist  *services.WaitlistService
}

func NewAdminController(directory *services.DirectoryService, waitlist *services.WaitlistService) *AdminController {
	return &AdminController{Directory: directory, Waitlist: waitlist}
}

func (ac *AdminController) GetRestaurant(c *gin.Context) {
	restaurant, err := ac.Directory.ForOwner(c.Request.Context(), middlewares.CurrentPrincipal(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Restaurant retrieved", restaurant)
}

func (ac *AdminController) UpdateRestaurant(c *gin.Context) {
	var patch services.RestaurantPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		utils.RespondError(c, http.StatusBadRequest, invalidBody())
		return
	}

	p := middlewares.CurrentPrincipal(c)
	restaurant, err := ac.Directory.ForOwner(c.Request.Context(), p)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	updated, err := ac.Directory.Update(c.Request.Context(), p, restaurant.ID, patch)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Restaurant updated", updated)
}

// GET /admin/waitlist?status=all|waiting|notified|seated
func (ac *AdminController) ListWaitlist(c *gin.Context) {
	entries, err := ac.Waitlist.Dashboard(c.Request.Context(), middlewares.CurrentPrincipal(c), c.Query("status"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Waitlist retrieved", entries)
}

func (ac *AdminController) WaitlistStats(c *gin.Context) {
	stats, err := ac.Waitlist.Stats(c.Request.Context(), middlewares.CurrentPrincipal(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Waitlist stats retrieved", stats)
}
