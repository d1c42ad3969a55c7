package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/venuehub/server/internal/helpers"
	"github.com/venuehub/server/internal/models"
	"github.com/venuehub/server/internal/services"
)

func Register(us *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var user models.User
		if err := c.ShouldBindJSON(&user); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("Invalid request body: "+err.Error()))
			return
		}

		created, err := us.Register(c.Request.Context(), &user)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(created, "Account created"))
	}
}

func Login(us *services.UserService, secureCookies bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email    string `json:"email" binding:"required"`
			Password string `json:"password" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("Invalid request body: "+err.Error()))
			return
		}

		token, user, err := us.Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			respondError(c, err)
			return
		}

		c.SetCookie("access_token", token, int(helpers.TokenTTL.Seconds()), "/", "", secureCookies, true)
		c.JSON(http.StatusOK, models.SuccessResponse(gin.H{
			"user":  user,
			"token": token,
		}, "Logged in"))
	}
}

func Logout() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.SetCookie("access_token", "", -1, "/", "", false, true)
		c.JSON(http.StatusOK, models.SuccessResponse(nil, "Logged out"))
	}
}
