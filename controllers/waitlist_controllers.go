package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/huey-app/huey/middlewares"
	"github.com/huey-app/huey/services"
	"github.com/huey-app/huey/utils"
)

type WaitlistController struct {
	Waitlist *services.WaitlistService
}

func NewWaitlistController(waitlist *services.WaitlistService) *WaitlistController {
	return &WaitlistController{Waitlist: waitlist}
}

// CreateEntry is public: guests join a queue without an account.
func (wc *WaitlistController) CreateEntry(c *gin.Context) {
	var req services.CreateEntryInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, invalidBody())
		return
	}

	entry, err := wc.Waitlist.Create(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Joined waitlist", entry)
}

// GET /waitlist?restaurantId=&includeSeated=true
func (wc *WaitlistController) ListEntries(c *gin.Context) {
	restaurantID, err := strconv.ParseUint(c.Query("restaurantId"), 10, 64)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid restaurantId"))
		return
	}
	includeSeated, _ := strconv.ParseBool(c.Query("includeSeated"))

	entries, err := wc.Waitlist.List(c.Request.Context(), uint(restaurantID), includeSeated)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Waitlist retrieved", entries)
}

func (wc *WaitlistController) GetEntry(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	entry, err := wc.Waitlist.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Waitlist entry retrieved", entry)
}

// UpdateEntry sets or clears the notified and seated flags.
func (wc *WaitlistController) UpdateEntry(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var patch services.EntryPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		utils.RespondError(c, http.StatusBadRequest, invalidBody())
		return
	}

	entry, err := wc.Waitlist.Update(c.Request.Context(), middlewares.CurrentPrincipal(c), id, patch)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Waitlist entry updated", entry)
}

func (wc *WaitlistController) DeleteEntry(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := wc.Waitlist.Remove(c.Request.Context(), middlewares.CurrentPrincipal(c), id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondNoContent(c)
}
