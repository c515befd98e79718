package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Re-Bottle/bottle-collection-system-backend/config"
	"github.com/Re-Bottle/bottle-collection-system-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Vendor{},
		&models.Device{},
		&models.Scan{},
		&models.Reward{},
		&models.RewardClaim{},
	))

	cfg := &config.Config{
		EnvType:      "LOCAL",
		JWTSecretKey: "test_secret_key",
		// Unroutable broker: provisioning announcements degrade to warnings
		MQTTBrokerURL:    "tcp://127.0.0.1:1",
		MQTTClientID:     "test-backend",
		CertValidityDays: 1,
	}

	return SetupRouter(db, cfg, nil), db
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func login(t *testing.T, r *gin.Engine, email, role string) string {
	t.Helper()

	w := doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    email,
		"password": "secret123",
		"role":     role,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	data := decodeBody(t, w)["data"].(map[string]interface{})
	return data["token"].(string)
}

func TestPing(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/ping", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", decodeBody(t, w)["message"])
}

func TestLogin(t *testing.T) {
	r, db := newTestRouter(t)
	require.NoError(t, db.Create(&models.User{
		Name: "Alice", Email: "alice@example.com", Password: "secret123",
	}).Error)

	token := login(t, r, "alice@example.com", "user")
	assert.NotEmpty(t, token)

	w := doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "alice@example.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email": "alice@example.com",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Missing required fields", decodeBody(t, w)["message"])
}

func TestDeviceLifecycleOverHTTP(t *testing.T) {
	r, db := newTestRouter(t)
	require.NoError(t, db.Create(&models.Vendor{
		Name: "Bottle Mart", Email: "shop@example.com", Password: "secret123",
	}).Error)

	// Device announces itself
	w := doJSON(t, r, http.MethodPost, "/api/device/register", "", gin.H{
		"id":          "RB-001",
		"mac_address": "00:14:22:01:23:45",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Device Created Successfully", decodeBody(t, w)["message"])

	// Claiming requires a vendor token
	w = doJSON(t, r, http.MethodPost, "/api/device/claimDevice", "", gin.H{
		"device_id": "RB-001", "name": "Main Street Bin",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	vendorToken := login(t, r, "shop@example.com", "vendor")
	w = doJSON(t, r, http.MethodPost, "/api/device/claimDevice", vendorToken, gin.H{
		"device_id": "RB-001", "name": "Main Street Bin", "location": "Main Street 12",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Next register call provisions the device and returns its identity
	w = doJSON(t, r, http.MethodPost, "/api/device/register", "", gin.H{
		"id":          "RB-001",
		"mac_address": "00:14:22:01:23:45",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decodeBody(t, w)
	assert.Equal(t, "Device Provisioned Successfully", body["message"])
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "Provisioned", data["deviceState"])
	assert.Contains(t, data, "certificate")

	// Provisioned devices cannot register again
	w = doJSON(t, r, http.MethodPost, "/api/device/register", "", gin.H{
		"id":          "RB-001",
		"mac_address": "00:14:22:01:23:45",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	body = decodeBody(t, w)
	assert.Equal(t, "Device has already been provisioned", body["message"])
	assert.Equal(t, "Error", body["data"].(map[string]interface{})["deviceState"])

	// Vendor sees the claimed device
	w = doJSON(t, r, http.MethodGet, "/api/device", vendorToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	devices := decodeBody(t, w)["data"].(map[string]interface{})["devices"].([]interface{})
	assert.Len(t, devices, 1)
}

func TestScanClaimOverHTTP(t *testing.T) {
	r, db := newTestRouter(t)
	require.NoError(t, db.Create(&models.User{
		Name: "Alice", Email: "alice@example.com", Password: "secret123",
	}).Error)

	w := doJSON(t, r, http.MethodPost, "/api/scan/createScan", "", gin.H{
		"device_id":   "RB-001",
		"scan_data":   "scan-code-1",
		"bottle_type": 3,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	userToken := login(t, r, "alice@example.com", "user")
	w = doJSON(t, r, http.MethodPut, "/api/scan/claimScan", userToken, gin.H{
		"scan_data": "scan-code-1",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decodeBody(t, w)
	assert.Equal(t, "Scan has been claimed", body["message"])
	user := body["data"].(map[string]interface{})["user"].(map[string]interface{})
	assert.Equal(t, float64(3), user["total_points"])
	assert.Equal(t, float64(1), user["total_bottles"])

	// Double claim is rejected
	w = doJSON(t, r, http.MethodPut, "/api/scan/claimScan", userToken, gin.H{
		"scan_data": "scan-code-1",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Scan has already been claimed", decodeBody(t, w)["message"])

	// Stats reflect the credit
	w = doJSON(t, r, http.MethodGet, "/api/user/stats", userToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	stats := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, float64(3), stats["total_points"])
}

func TestVendorRoutesRejectUserToken(t *testing.T) {
	r, db := newTestRouter(t)
	require.NoError(t, db.Create(&models.User{
		Name: "Alice", Email: "alice@example.com", Password: "secret123",
	}).Error)

	userToken := login(t, r, "alice@example.com", "user")
	w := doJSON(t, r, http.MethodPost, "/api/device/claimDevice", userToken, gin.H{
		"device_id": "RB-001", "name": "Main Street Bin",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}
