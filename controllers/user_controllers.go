package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/huey-app/huey/middlewares"
	"github.com/huey-app/huey/services"
	"github.com/huey-app/huey/utils"
)

// SessionCookie describes the HttpOnly cookie that carries the session token.
type SessionCookie struct {
	Name   string
	Secure bool
}

type UserController struct {
	Registration *services.RegistrationService
	Auth         *services.AuthService
	Cookie       SessionCookie
}

func NewUserController(registration *services.RegistrationService, auth *services.AuthService, cookie SessionCookie) *UserController {
	return &UserController{Registration: registration, Auth: auth, Cookie: cookie}
}

// Register creates an owner account and its restaurant.
func (uc *UserController) Register(c *gin.Context) {
	var req services.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, invalidBody())
		return
	}

	reg, err := uc.Registration.Register(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "User registered", reg)
}

// Login returns the session token in the body and as a cookie.
func (uc *UserController) Login(c *gin.Context) {
	var req services.LoginInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, invalidBody())
		return
	}

	session, err := uc.Auth.Login(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	uc.setCookie(c, session.Token, int(time.Until(session.ExpiresAt).Seconds()))
	utils.RespondJSON(c, http.StatusOK, "Login successful", session)
}

func (uc *UserController) Logout(c *gin.Context) {
	if err := uc.Auth.Logout(c.Request.Context(), middlewares.CurrentToken(c)); err != nil {
		respondServiceError(c, err)
		return
	}
	uc.setCookie(c, "", -1)
	utils.RespondJSON(c, http.StatusOK, "Logged out", nil)
}

// Me returns the caller's account and the restaurant they manage.
func (uc *UserController) Me(c *gin.Context) {
	account, err := uc.Auth.Me(c.Request.Context(), middlewares.CurrentPrincipal(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Profile data retrieved successfully", account)
}

func (uc *UserController) setCookie(c *gin.Context, value string, maxAge int) {
	if uc.Cookie.Name == "" {
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(uc.Cookie.Name, value, maxAge, "/", "", uc.Cookie.Secure, true)
}
