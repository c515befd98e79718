package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Re-Bottle/bottle-collection-system-backend/middleware"
	"github.com/Re-Bottle/bottle-collection-system-backend/models"
	"github.com/Re-Bottle/bottle-collection-system-backend/services"
	"github.com/Re-Bottle/bottle-collection-system-backend/services/container"

	"github.com/gin-gonic/gin"
)

// InterfaceScanController defines the scan controller interface
type InterfaceScanController interface {
	CreateScan()
	ClaimScan()
	GetScansByUser()
	DeleteScan()
}

// ScanController handles scan related requests
type ScanController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewScanController creates a new scan controller
func NewScanController(ctx *gin.Context, container *container.ServiceContainer) *ScanController {
	return &ScanController{
		Ctx:       ctx,
		Container: container,
	}
}

// CreateScanRequest is the deposit report sent by a device
type CreateScanRequest struct {
	DeviceID   string `json:"device_id" binding:"required" example:"RB-001-PI-001-20250106-8b9c7d9f"`
	ScanData   string `json:"scan_data" binding:"required" example:"c0a8012b-9f3e-4d2a-b1c4-7e5f6a8d9b0c"`
	BottleType int    `json:"bottle_type" binding:"required" example:"2"`
}

// ClaimScanRequest is the claim payload sent by the mobile app
type ClaimScanRequest struct {
	ScanData string `json:"scan_data" binding:"required" example:"c0a8012b-9f3e-4d2a-b1c4-7e5f6a8d9b0c"`
}

// HandleScanFunc returns a Gin handler dispatching scan requests
func HandleScanFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewScanController(ctx, container)

		switch method {
		case "createScan":
			controller.CreateScan()
		case "claimScan":
			controller.ClaimScan()
		case "getScansByUser":
			controller.GetScansByUser()
		case "deleteScan":
			controller.DeleteScan()
		default:
			ctx.JSON(http.StatusBadRequest, gin.H{
				"code":    400,
				"message": "Invalid method",
				"data":    nil,
			})
		}
	}
}

// 1 CreateScan records a bottle deposit reported by a device
// @Summary      Create a scan
// @Description  Called by a device when a bottle is deposited; stores the scan code shown to the user
// @Tags         scan
// @Accept       json
// @Produce      json
// @Param        request body CreateScanRequest true "Scan data"
// @Success      200 {object} map[string]interface{}
// @Failure      400 {object} map[string]interface{}
// @Failure      500 {object} map[string]interface{}
// @Router       /scan/createScan [post]
func (c *ScanController) CreateScan() {
	var req CreateScanRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		c.Ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "Missing required fields",
			"data":    nil,
		})
		return
	}

	scanService := c.Container.GetService("scan").(services.InterfaceScanService)

	scan, err := scanService.CreateScan(req.DeviceID, req.ScanData, req.BottleType)
	if err != nil {
		if errors.Is(err, services.ErrScanDataExists) {
			c.Ctx.JSON(http.StatusBadRequest, gin.H{
				"code":    400,
				"message": err.Error(),
				"data":    nil,
			})
			return
		}
		c.Ctx.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": "Failed to create scan: " + err.Error(),
			"data":    nil,
		})
		return
	}

	c.Ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "Scan created successfully",
		"data":    gin.H{"scan": scan},
	})
}

// 2 ClaimScan assigns a scan to the authenticated user and credits points
// @Summary      Claim a scan
// @Description  Claims a scan code for the authenticated user within the 10 minute window and credits the bottle's point value
// @Tags         scan
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body ClaimScanRequest true "Scan claim data"
// @Success      200 {object} map[string]interface{}
// @Failure      400 {object} map[string]interface{}
// @Failure      404 {object} map[string]interface{}
// @Failure      500 {object} map[string]interface{}
// @Router       /scan/claimScan [put]
func (c *ScanController) ClaimScan() {
	var req ClaimScanRequest
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

	scanService := c.Container.GetService("scan").(services.InterfaceScanService)

	result, err := scanService.ClaimScan(userID, req.ScanData)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrScanNotFound), errors.Is(err, services.ErrScanUserNotFound):
			c.Ctx.JSON(http.StatusNotFound, gin.H{
				"code":    404,
				"message": err.Error(),
				"data":    nil,
			})
		case errors.Is(err, services.ErrScanAlreadyClaimed),
			errors.Is(err, services.ErrScanClaimExpired),
			errors.Is(err, services.ErrInvalidScanTime):
			c.Ctx.JSON(http.StatusBadRequest, gin.H{
				"code":    400,
				"message": err.Error(),
				"data":    nil,
			})
		default:
			c.Ctx.JSON(http.StatusInternalServerError, gin.H{
				"code":    500,
				"message": "Failed to claim scan: " + err.Error(),
				"data":    nil,
			})
		}
		return
	}

	c.Ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "Scan has been claimed",
		"data": gin.H{
			"scan": result.Scan,
			"user": gin.H{
				"total_points":  result.TotalPoints,
				"total_bottles": result.TotalBottles,
			},
		},
	})
}

// 3 GetScansByUser lists the scans claimed by the authenticated user
// @Summary      List claimed scans
// @Description  Returns the scans claimed by the authenticated user, paginated when pageSize is given
// @Tags         scan
// @Produce      json
// @Security     BearerAuth
// @Param        pageNum query int false "Page number"
// @Param        pageSize query int false "Page size"
// @Param        desc query bool false "Newest first"
// @Success      200 {object} map[string]interface{}
// @Failure      500 {object} map[string]interface{}
// @Router       /scan [get]
func (c *ScanController) GetScansByUser() {
	userID, ok := middleware.ContextUserID(c.Ctx)
	if !ok {
		c.Ctx.JSON(http.StatusUnauthorized, gin.H{
			"code":    401,
			"message": "Invalid token claims",
			"data":    nil,
		})
		return
	}

	var query models.PaginationQuery
	if err := c.Ctx.ShouldBindQuery(&query); err != nil {
		c.Ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "Invalid pagination parameters",
			"data":    nil,
		})
		return
	}

	scanService := c.Container.GetService("scan").(services.InterfaceScanService)

	scans, pagination, err := scanService.GetScansByUser(userID, query)
	if err != nil {
		c.Ctx.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": "Failed to list scans: " + err.Error(),
			"data":    nil,
		})
		return
	}

	c.Ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "Success",
		"data": gin.H{
			"scans":      scans,
			"pagination": pagination,
		},
	})
}

// 4 DeleteScan removes a scan record
// @Summary      Delete a scan
// @Description  Deletes the scan with the given id
// @Tags         scan
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Scan ID"
// @Success      200 {object} map[string]interface{}
// @Failure      404 {object} map[string]interface{}
// @Router       /scan/{id} [delete]
func (c *ScanController) DeleteScan() {
	id, err := strconv.ParseUint(c.Ctx.Param("id"), 10, 32)
	if err != nil {
		c.Ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "Invalid scan id",
			"data":    nil,
		})
		return
	}

	scanService := c.Container.GetService("scan").(services.InterfaceScanService)

	if err := scanService.DeleteScan(uint(id)); err != nil {
		if errors.Is(err, services.ErrScanNotFound) {
			c.Ctx.JSON(http.StatusNotFound, gin.H{
				"code":    404,
				"message": err.Error(),
				"data":    nil,
			})
			return
		}
		c.Ctx.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": "Failed to delete scan: " + err.Error(),
			"data":    nil,
		})
		return
	}

	c.Ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "Scan deleted successfully",
		"data":    nil,
	})
}
