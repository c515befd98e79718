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

// InterfaceDeviceController defines the device controller interface
type InterfaceDeviceController interface {
	RegisterDevice()
	ClaimDevice()
	GetDevices()
	GetDeviceDetails()
	UpdateDevice()
	DeleteDevice()
}

// DeviceController handles device related requests
type DeviceController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewDeviceController creates a new device controller
func NewDeviceController(ctx *gin.Context, container *container.ServiceContainer) *DeviceController {
	return &DeviceController{
		Ctx:       ctx,
		Container: container,
	}
}

// RegisterDeviceRequest is the self-registration payload sent by a device
type RegisterDeviceRequest struct {
	ID         string `json:"id" binding:"required" example:"RB-001-PI-001-20250106-8b9c7d9f"`
	MacAddress string `json:"mac_address" binding:"required" example:"00:14:22:01:23:45"`
}

// ClaimDeviceRequest is the vendor claim payload
type ClaimDeviceRequest struct {
	DeviceID    string `json:"device_id" binding:"required" example:"RB-001-PI-001-20250106-8b9c7d9f"`
	Name        string `json:"name" binding:"required" example:"Main Street Bin"`
	Location    string `json:"location" example:"Main Street 12, north entrance"`
	Description string `json:"description" example:"500L collection bin"`
}

// UpdateDeviceRequest updates the descriptive fields of a device
type UpdateDeviceRequest struct {
	Name        string `json:"name" binding:"required" example:"Main Street Bin"`
	Location    string `json:"location" example:"Main Street 12, north entrance"`
	Description string `json:"description" example:"500L collection bin"`
}

// HandleDeviceFunc returns a Gin handler dispatching device requests
func HandleDeviceFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewDeviceController(ctx, container)

		switch method {
		case "registerDevice":
			controller.RegisterDevice()
		case "claimDevice":
			controller.ClaimDevice()
		case "getDevices":
			controller.GetDevices()
		case "getDeviceDetails":
			controller.GetDeviceDetails()
		case "updateDevice":
			controller.UpdateDevice()
		case "deleteDevice":
			controller.DeleteDevice()
		default:
			ctx.JSON(http.StatusBadRequest, gin.H{
				"code":    400,
				"message": "Invalid method",
				"data":    nil,
			})
		}
	}
}

// vendorIDString returns the authenticated vendor id as the string stored in
// Device.VendorID
func (c *DeviceController) vendorIDString() (string, bool) {
	id, ok := middleware.ContextUserID(c.Ctx)
	if !ok {
		return "", false
	}
	return strconv.FormatUint(uint64(id), 10), true
}

// 1 RegisterDevice handles the periodic self-registration call of a device
// @Summary      Register a device
// @Description  Called by a device to create its record, heartbeat while waiting to be claimed, or pick up its identity bundle after a vendor claim
// @Tags         device
// @Accept       json
// @Produce      json
// @Param        request body RegisterDeviceRequest true "Device registration data"
// @Success      200 {object} map[string]interface{}
// @Failure      400 {object} map[string]interface{}
// @Failure      500 {object} map[string]interface{}
// @Router       /device/register [post]
func (c *DeviceController) RegisterDevice() {
	var req RegisterDeviceRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		c.Ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "Missing required fields",
			"data":    nil,
		})
		return
	}

	deviceService := c.Container.GetService("device").(services.InterfaceDeviceService)

	result, err := deviceService.RegisterDevice(req.ID, req.MacAddress)
	if err != nil {
		if errors.Is(err, services.ErrDeviceAlreadyProvisioned) {
			c.Ctx.JSON(http.StatusBadRequest, gin.H{
				"code":    400,
				"message": err.Error(),
				"data":    gin.H{"deviceState": models.DeviceStateError},
			})
			return
		}
		c.Ctx.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": "Failed to register device: " + err.Error(),
			"data":    nil,
		})
		return
	}

	data := gin.H{
		"deviceState": result.State,
		"device":      result.Device,
	}
	if result.Certificate != nil {
		data["certificate"] = result.Certificate
	}

	c.Ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": result.Message,
		"data":    data,
	})
}

// 2 ClaimDevice hands a registered device over to the calling vendor
// @Summary      Claim a device
// @Description  Claims a freshly registered device for the authenticated vendor; only accepted within the 10 minute claim window
// @Tags         device
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body ClaimDeviceRequest true "Device claim data"
// @Success      200 {object} map[string]interface{}
// @Failure      400 {object} map[string]interface{}
// @Failure      404 {object} map[string]interface{}
// @Failure      500 {object} map[string]interface{}
// @Router       /device/claimDevice [post]
func (c *DeviceController) ClaimDevice() {
	var req ClaimDeviceRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		c.Ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "Missing required fields",
			"data":    nil,
		})
		return
	}

	vendorID, ok := c.vendorIDString()
	if !ok {
		c.Ctx.JSON(http.StatusUnauthorized, gin.H{
			"code":    401,
			"message": "Invalid token claims",
			"data":    nil,
		})
		return
	}

	deviceService := c.Container.GetService("device").(services.InterfaceDeviceService)

	device, err := deviceService.ClaimDevice(req.DeviceID, vendorID, req.Name, req.Location, req.Description)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrDeviceNotFound):
			c.Ctx.JSON(http.StatusNotFound, gin.H{
				"code":    404,
				"message": err.Error(),
				"data":    nil,
			})
		case errors.Is(err, services.ErrDeviceNotPending), errors.Is(err, services.ErrDeviceRegistrationStale):
			c.Ctx.JSON(http.StatusBadRequest, gin.H{
				"code":    400,
				"message": err.Error(),
				"data":    nil,
			})
		default:
			c.Ctx.JSON(http.StatusInternalServerError, gin.H{
				"code":    500,
				"message": "Failed to claim device: " + err.Error(),
				"data":    nil,
			})
		}
		return
	}

	c.Ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "Device claimed successfully",
		"data":    gin.H{"device": device},
	})
}

// 3 GetDevices lists the devices of the authenticated vendor
// @Summary      List vendor devices
// @Description  Returns all devices claimed by the authenticated vendor
// @Tags         device
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} map[string]interface{}
// @Failure      500 {object} map[string]interface{}
// @Router       /device [get]
func (c *DeviceController) GetDevices() {
	vendorID, ok := c.vendorIDString()
	if !ok {
		c.Ctx.JSON(http.StatusUnauthorized, gin.H{
			"code":    401,
			"message": "Invalid token claims",
			"data":    nil,
		})
		return
	}

	deviceService := c.Container.GetService("device").(services.InterfaceDeviceService)

	devices, err := deviceService.GetDevicesByVendor(vendorID)
	if err != nil {
		c.Ctx.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": "Failed to list devices: " + err.Error(),
			"data":    nil,
		})
		return
	}

	c.Ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "Success",
		"data":    gin.H{"devices": devices},
	})
}

// 4 GetDeviceDetails returns a single device record
// @Summary      Get device details
// @Description  Returns the device with the given device id
// @Tags         device
// @Produce      json
// @Security     BearerAuth
// @Param        deviceId path string true "Device ID"
// @Success      200 {object} map[string]interface{}
// @Failure      404 {object} map[string]interface{}
// @Router       /device/{deviceId} [get]
func (c *DeviceController) GetDeviceDetails() {
	deviceID := c.Ctx.Param("deviceId")

	deviceService := c.Container.GetService("device").(services.InterfaceDeviceService)

	device, err := deviceService.GetDeviceByDeviceID(deviceID)
	if err != nil {
		if errors.Is(err, services.ErrDeviceNotFound) {
			c.Ctx.JSON(http.StatusNotFound, gin.H{
				"code":    404,
				"message": err.Error(),
				"data":    nil,
			})
			return
		}
		c.Ctx.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": "Failed to get device: " + err.Error(),
			"data":    nil,
		})
		return
	}

	c.Ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "Success",
		"data":    gin.H{"device": device},
	})
}

// 5 UpdateDevice updates the descriptive fields of an owned device
// @Summary      Update device details
// @Description  Updates name, location and description of a device owned by the authenticated vendor
// @Tags         device
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        deviceId path string true "Device ID"
// @Param        request body UpdateDeviceRequest true "Device details"
// @Success      200 {object} map[string]interface{}
// @Failure      403 {object} map[string]interface{}
// @Failure      404 {object} map[string]interface{}
// @Router       /device/{deviceId} [put]
func (c *DeviceController) UpdateDevice() {
	deviceID := c.Ctx.Param("deviceId")

	var req UpdateDeviceRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		c.Ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "Missing required fields",
			"data":    nil,
		})
		return
	}

	device, ok := c.ownedDevice(deviceID)
	if !ok {
		return
	}

	deviceService := c.Container.GetService("device").(services.InterfaceDeviceService)

	device, err := deviceService.UpdateDeviceDetails(device.DeviceID, req.Name, req.Location, req.Description)
	if err != nil {
		c.Ctx.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": "Failed to update device: " + err.Error(),
			"data":    nil,
		})
		return
	}

	c.Ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "Device updated successfully",
		"data":    gin.H{"device": device},
	})
}

// 6 DeleteDevice removes an owned device
// @Summary      Delete a device
// @Description  Deletes a device owned by the authenticated vendor
// @Tags         device
// @Produce      json
// @Security     BearerAuth
// @Param        deviceId path string true "Device ID"
// @Success      200 {object} map[string]interface{}
// @Failure      403 {object} map[string]interface{}
// @Failure      404 {object} map[string]interface{}
// @Router       /device/{deviceId} [delete]
func (c *DeviceController) DeleteDevice() {
	deviceID := c.Ctx.Param("deviceId")

	device, ok := c.ownedDevice(deviceID)
	if !ok {
		return
	}

	deviceService := c.Container.GetService("device").(services.InterfaceDeviceService)

	if err := deviceService.DeleteDevice(device.DeviceID); err != nil {
		c.Ctx.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": "Failed to delete device: " + err.Error(),
			"data":    nil,
		})
		return
	}

	c.Ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "Device deleted successfully",
		"data":    nil,
	})
}

// ownedDevice loads a device and verifies the authenticated vendor owns it
func (c *DeviceController) ownedDevice(deviceID string) (*models.Device, bool) {
	vendorID, ok := c.vendorIDString()
	if !ok {
		c.Ctx.JSON(http.StatusUnauthorized, gin.H{
			"code":    401,
			"message": "Invalid token claims",
			"data":    nil,
		})
		return nil, false
	}

	deviceService := c.Container.GetService("device").(services.InterfaceDeviceService)

	device, err := deviceService.GetDeviceByDeviceID(deviceID)
	if err != nil {
		if errors.Is(err, services.ErrDeviceNotFound) {
			c.Ctx.JSON(http.StatusNotFound, gin.H{
				"code":    404,
				"message": err.Error(),
				"data":    nil,
			})
			return nil, false
		}
		c.Ctx.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": "Failed to get device: " + err.Error(),
			"data":    nil,
		})
		return nil, false
	}

	if device.VendorID != vendorID {
		c.Ctx.JSON(http.StatusForbidden, gin.H{
			"code":    403,
			"message": "Device is not owned by this vendor",
			"data":    nil,
		})
		return nil, false
	}

	return device, true
}
