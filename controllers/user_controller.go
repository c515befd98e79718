package controllers

import (
	"errors"
	"net/http"

	"github.com/Re-Bottle/bottle-collection-system-backend/middleware"
	"github.com/Re-Bottle/bottle-collection-system-backend/services"
	"github.com/Re-Bottle/bottle-collection-system-backend/services/container"

	"github.com/gin-gonic/gin"
)

// InterfaceUserController defines the user controller interface
type InterfaceUserController interface {
	GetStats()
}

// UserController handles user account requests
type UserController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewUserController creates a new user controller
func NewUserController(ctx *gin.Context, container *container.ServiceContainer) *UserController {
	return &UserController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandleUserFunc returns a Gin handler dispatching user requests
func HandleUserFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewUserController(ctx, container)

		switch method {
		case "getStats":
			controller.GetStats()
		default:
			ctx.JSON(http.StatusBadRequest, gin.H{
				"code":    400,
				"message": "Invalid method",
				"data":    nil,
			})
		}
	}
}

// 1 GetStats returns the authenticated user's aggregate counters
// @Summary      Get user stats
// @Description  Returns the authenticated user's total points and bottle count
// @Tags         user
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} map[string]interface{}
// @Failure      404 {object} map[string]interface{}
// @Router       /user/stats [get]
func (c *UserController) GetStats() {
	userID, ok := middleware.ContextUserID(c.Ctx)
	if !ok {
		c.Ctx.JSON(http.StatusUnauthorized, gin.H{
			"code":    401,
			"message": "Invalid token claims",
			"data":    nil,
		})
		return
	}

	userService := c.Container.GetService("user").(services.InterfaceUserService)

	points, bottles, err := userService.GetUserStats(userID)
	if err != nil {
		if errors.Is(err, services.ErrScanUserNotFound) {
			c.Ctx.JSON(http.StatusNotFound, gin.H{
				"code":    404,
				"message": err.Error(),
				"data":    nil,
			})
			return
		}
		c.Ctx.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": "Failed to get user stats: " + err.Error(),
			"data":    nil,
		})
		return
	}

	c.Ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "Success",
		"data": gin.H{
			"total_points":  points,
			"total_bottles": bottles,
		},
	})
}
