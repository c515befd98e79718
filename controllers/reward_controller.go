package controllers

import (
	"errors"
	"net/http"

	"github.com/Re-Bottle/bottle-collection-system-backend/middleware"
	"github.com/Re-Bottle/bottle-collection-system-backend/services"
	"github.com/Re-Bottle/bottle-collection-system-backend/services/container"

	"github.com/gin-gonic/gin"
)

// InterfaceRewardController defines the reward controller interface
type InterfaceRewardController interface {
	RedeemReward()
	GetRewardClaims()
}

// RewardController handles reward redemption requests
type RewardController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewRewardController creates a new reward controller
func NewRewardController(ctx *gin.Context, container *container.ServiceContainer) *RewardController {
	return &RewardController{
		Ctx:       ctx,
		Container: container,
	}
}

// RedeemRewardRequest is the redemption payload
type RedeemRewardRequest struct {
	RewardID uint `json:"reward_id" binding:"required" example:"1"`
}

// HandleRewardFunc returns a Gin handler dispatching reward requests
func HandleRewardFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewRewardController(ctx, container)

		switch method {
		case "redeemReward":
			controller.RedeemReward()
		case "getRewardClaims":
			controller.GetRewardClaims()
		default:
			ctx.JSON(http.StatusBadRequest, gin.H{
				"code":    400,
				"message": "Invalid method",
				"data":    nil,
			})
		}
	}
}

// 1 RedeemReward exchanges the authenticated user's points for a reward
// @Summary      Redeem a reward
// @Description  Deducts the reward's point cost from the authenticated user and records a claim
// @Tags         reward
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body RedeemRewardRequest true "Redemption data"
// @Success      200 {object} map[string]interface{}
// @Failure      400 {object} map[string]interface{}
// @Failure      404 {object} map[string]interface{}
// @Failure      500 {object} map[string]interface{}
// @Router       /reward/redeem [post]
func (c *RewardController) RedeemReward() {
	var req RedeemRewardRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		c.Ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "Missing required fields",
			"data":    nil,
		})
		return
	}

	userID, ok := middleware.ContextUserID(c.Ctx)
	if !ok {
		c.Ctx.JSON(http.StatusUnauthorized, gin.H{
			"code":    401,
			"message": "Invalid token claims",
			"data":    nil,
		})
		return
	}

	rewardService := c.Container.GetService("reward").(services.InterfaceRewardService)

	claim, err := rewardService.RedeemReward(userID, req.RewardID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRewardNotFound), errors.Is(err, services.ErrScanUserNotFound):
			c.Ctx.JSON(http.StatusNotFound, gin.H{
				"code":    404,
				"message": err.Error(),
				"data":    nil,
			})
		case errors.Is(err, services.ErrInsufficientPoints):
			c.Ctx.JSON(http.StatusBadRequest, gin.H{
				"code":    400,
				"message": err.Error(),
				"data":    nil,
			})
		default:
			c.Ctx.JSON(http.StatusInternalServerError, gin.H{
				"code":    500,
				"message": "Failed to redeem reward: " + err.Error(),
				"data":    nil,
			})
		}
		return
	}

	c.Ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "Reward redeemed successfully",
		"data":    gin.H{"claim": claim},
	})
}

// 2 GetRewardClaims lists the authenticated user's reward claims
// @Summary      List reward claims
// @Description  Returns the reward claims of the authenticated user
// @Tags         reward
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} map[string]interface{}
// @Failure      500 {object} map[string]interface{}
// @Router       /reward/claims [get]
func (c *RewardController) GetRewardClaims() {
	userID, ok := middleware.ContextUserID(c.Ctx)
	if !ok {
		c.Ctx.JSON(http.StatusUnauthorized, gin.H{
			"code":    401,
			"message": "Invalid token claims",
			"data":    nil,
		})
		return
	}

	rewardService := c.Container.GetService("reward").(services.InterfaceRewardService)

	claims, err := rewardService.GetClaimsByUser(userID)
	if err != nil {
		c.Ctx.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": "Failed to list reward claims: " + err.Error(),
			"data":    nil,
		})
		return
	}

	c.Ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "Success",
		"data":    gin.H{"claims": claims},
	})
}
