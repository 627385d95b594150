package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/huey-app/huey/services"
	"github.com/huey-app/huey/utils"
)

// RestaurantController serves the public directory.
type RestaurantController struct {
	Directory *services.DirectoryService
}

func NewRestaurantController(directory *services.DirectoryService) *RestaurantController {
	return &RestaurantController{Directory: directory}
}

// GET /restaurants?search=&cuisine=&city=&state=
func (rc *RestaurantController) ListRestaurants(c *gin.Context) {
	var filter services.DirectoryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	listings, err := rc.Directory.List(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Restaurants retrieved", listings)
}

// GET /restaurants/:id accepts a numeric id or a slug.
func (rc *RestaurantController) GetRestaurant(c *gin.Context) {
	listing, err := rc.Directory.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Restaurant retrieved", listing)
}
