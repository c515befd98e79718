package controllers

import (
	"errors"
	"net/http"

	"github.com/Re-Bottle/bottle-collection-system-backend/models"
	"github.com/Re-Bottle/bottle-collection-system-backend/services"
	"github.com/Re-Bottle/bottle-collection-system-backend/services/container"

	"github.com/gin-gonic/gin"
)

// InterfaceJWTController defines the auth controller interface
type InterfaceJWTController interface {
	Login()
}

// JWTController handles authentication requests
type JWTController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewJWTController creates a new auth controller
func NewJWTController(ctx *gin.Context, container *container.ServiceContainer) *JWTController {
	return &JWTController{
		Ctx:       ctx,
		Container: container,
	}
}

// LoginRequest is the login payload for users and vendors
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"alice@example.com"`
	Password string `json:"password" binding:"required" example:"secret123"`
	Role     string `json:"role" binding:"omitempty,oneof=user vendor" example:"user"`
}

// HandleJWTFunc returns a Gin handler dispatching auth requests
func HandleJWTFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewJWTController(ctx, container)

		switch method {
		case "login":
			controller.Login()
		default:
			ctx.JSON(http.StatusBadRequest, gin.H{
				"code":    400,
				"message": "Invalid method",
				"data":    nil,
			})
		}
	}
}

// 1 Login authenticates a user or vendor and issues a token
// @Summary      Login
// @Description  Authenticates by email and password and returns a bearer token; role selects the account table and defaults to user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login credentials"
// @Success      200 {object} map[string]interface{}
// @Failure      400 {object} map[string]interface{}
// @Failure      401 {object} map[string]interface{}
// @Router       /auth/login [post]
func (c *JWTController) Login() {
	var req LoginRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		c.Ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "Missing required fields",
			"data":    nil,
		})
		return
	}

	role := req.Role
	if role == "" {
		role = "user"
	}

	var (
		accountID uint
		hash      string
		err       error
	)

	switch role {
	case "vendor":
		vendorService := c.Container.GetService("vendor").(services.InterfaceVendorService)
		var vendor *models.Vendor
		vendor, err = vendorService.GetVendorByEmail(req.Email)
		if err == nil {
			accountID = vendor.ID
			hash = vendor.Password
		}
	default:
		userService := c.Container.GetService("user").(services.InterfaceUserService)
		var user *models.User
		user, err = userService.GetUserByEmail(req.Email)
		if err == nil {
			accountID = user.ID
			hash = user.Password
		}
	}

	if err != nil {
		if errors.Is(err, services.ErrScanUserNotFound) || errors.Is(err, services.ErrVendorNotFound) {
			c.Ctx.JSON(http.StatusUnauthorized, gin.H{
				"code":    401,
				"message": "Invalid email or password",
				"data":    nil,
			})
			return
		}
		c.Ctx.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": "Failed to log in: " + err.Error(),
			"data":    nil,
		})
		return
	}

	if !models.CheckPasswordHash(req.Password, hash) {
		c.Ctx.JSON(http.StatusUnauthorized, gin.H{
			"code":    401,
			"message": "Invalid email or password",
			"data":    nil,
		})
		return
	}

	jwtService := c.Container.GetService("jwt").(services.InterfaceJWTService)

	token, err := jwtService.GenerateToken(accountID, role)
	if err != nil {
		c.Ctx.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": "Failed to generate token: " + err.Error(),
			"data":    nil,
		})
		return
	}

	c.Ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "Login successful",
		"data": gin.H{
			"token": token,
			"role":  role,
			"id":    accountID,
		},
	})
}
