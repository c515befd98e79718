package services

import (
	"testing"
	"time"

	"github.com/Re-Bottle/bottle-collection-system-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDeviceService(t *testing.T) (InterfaceDeviceService, *fakeIoTService) {
	t.Helper()

	db := newTestDB(t)
	iot := &fakeIoTService{}
	return NewDeviceService(db, newTestConfig(), iot), iot
}

func TestRegisterDeviceCreatesRecord(t *testing.T) {
	svc, _ := newTestDeviceService(t)

	result, err := svc.RegisterDevice("RB-001", "00:14:22:01:23:45")
	require.NoError(t, err)

	assert.Equal(t, "Device Created Successfully", result.Message)
	assert.Equal(t, models.DeviceStateRegistered, result.State)
	assert.Equal(t, models.VendorUnclaimed, result.Device.VendorID)
	assert.False(t, result.Device.Active)
	assert.Nil(t, result.Device.WhenClaimed)
	assert.Nil(t, result.Device.WhenProvisioned)
	assert.Nil(t, result.Certificate)
}

func TestRegisterDeviceHeartbeatRefreshesLastSeen(t *testing.T) {
	svc, _ := newTestDeviceService(t)
	deviceSvc := svc.(*DeviceService)

	_, err := svc.RegisterDevice("RB-001", "00:14:22:01:23:45")
	require.NoError(t, err)

	// Age the registration past the claim window
	stale := time.Now().Add(-ClaimWindow - time.Minute)
	require.NoError(t, deviceSvc.DB.Model(&models.Device{}).
		Where("device_id = ?", "RB-001").
		Update("last_seen_at", stale).Error)

	result, err := svc.RegisterDevice("RB-001", "00:14:22:01:23:45")
	require.NoError(t, err)

	assert.Equal(t, "Device already exists. Timestamp updated.", result.Message)
	assert.Equal(t, models.DeviceStateRegistered, result.State)
	assert.WithinDuration(t, time.Now(), result.Device.LastSeenAt, time.Minute)
}

func TestClaimDeviceNotFound(t *testing.T) {
	svc, _ := newTestDeviceService(t)

	_, err := svc.ClaimDevice("missing", "1", "Bin", "", "")
	assert.ErrorIs(t, err, ErrDeviceNotFound)
}

func TestClaimDeviceIsOneShot(t *testing.T) {
	svc, _ := newTestDeviceService(t)

	_, err := svc.RegisterDevice("RB-001", "00:14:22:01:23:45")
	require.NoError(t, err)

	device, err := svc.ClaimDevice("RB-001", "7", "Main Street Bin", "Main Street 12", "500L bin")
	require.NoError(t, err)

	assert.Equal(t, "7", device.VendorID)
	assert.Equal(t, "Main Street Bin", device.Name)
	assert.False(t, device.Active)
	require.NotNil(t, device.WhenClaimed)

	// A second claim must be rejected regardless of the caller
	_, err = svc.ClaimDevice("RB-001", "8", "Other Bin", "", "")
	assert.ErrorIs(t, err, ErrDeviceNotPending)
}

func TestClaimDeviceExpiresAfterWindow(t *testing.T) {
	svc, _ := newTestDeviceService(t)
	deviceSvc := svc.(*DeviceService)

	_, err := svc.RegisterDevice("RB-001", "00:14:22:01:23:45")
	require.NoError(t, err)

	stale := time.Now().Add(-ClaimWindow - time.Minute)
	require.NoError(t, deviceSvc.DB.Model(&models.Device{}).
		Where("device_id = ?", "RB-001").
		Update("last_seen_at", stale).Error)

	_, err = svc.ClaimDevice("RB-001", "7", "Main Street Bin", "", "")
	assert.ErrorIs(t, err, ErrDeviceRegistrationStale)

	// A heartbeat reopens the window
	_, err = svc.RegisterDevice("RB-001", "00:14:22:01:23:45")
	require.NoError(t, err)

	_, err = svc.ClaimDevice("RB-001", "7", "Main Street Bin", "", "")
	assert.NoError(t, err)
}

func TestRegisterAfterClaimProvisionsDevice(t *testing.T) {
	svc, iot := newTestDeviceService(t)

	_, err := svc.RegisterDevice("RB-001", "00:14:22:01:23:45")
	require.NoError(t, err)

	_, err = svc.ClaimDevice("RB-001", "7", "Main Street Bin", "", "")
	require.NoError(t, err)

	result, err := svc.RegisterDevice("RB-001", "00:14:22:01:23:45")
	require.NoError(t, err)

	assert.Equal(t, "Device Provisioned Successfully", result.Message)
	assert.Equal(t, models.DeviceStateProvisioned, result.State)
	require.NotNil(t, result.Certificate)
	assert.Equal(t, "cert-RB-001", result.Certificate.CertificateID)
	assert.NotNil(t, result.Device.WhenProvisioned)
	assert.Equal(t, []string{"RB-001"}, iot.issued)
	assert.Equal(t, []string{"RB-001"}, iot.statuses)

	// Provisioned devices are terminal for the registration flow
	_, err = svc.RegisterDevice("RB-001", "00:14:22:01:23:45")
	assert.ErrorIs(t, err, ErrDeviceAlreadyProvisioned)
}

func TestProvisioningRetriesAfterIssueFailure(t *testing.T) {
	svc, iot := newTestDeviceService(t)
	deviceSvc := svc.(*DeviceService)

	_, err := svc.RegisterDevice("RB-001", "00:14:22:01:23:45")
	require.NoError(t, err)
	_, err = svc.ClaimDevice("RB-001", "7", "Main Street Bin", "", "")
	require.NoError(t, err)

	// Identity issuance fails: nothing may be stamped
	iot.failIssue = true
	_, err = svc.RegisterDevice("RB-001", "00:14:22:01:23:45")
	require.Error(t, err)

	var device models.Device
	require.NoError(t, deviceSvc.DB.Where("device_id = ?", "RB-001").First(&device).Error)
	assert.Nil(t, device.WhenProvisioned)

	// The next register call retries and succeeds
	iot.failIssue = false
	result, err := svc.RegisterDevice("RB-001", "00:14:22:01:23:45")
	require.NoError(t, err)
	assert.Equal(t, models.DeviceStateProvisioned, result.State)
	require.NotNil(t, result.Certificate)
}

func TestGetDevicesByVendor(t *testing.T) {
	svc, _ := newTestDeviceService(t)

	for _, id := range []string{"RB-001", "RB-002", "RB-003"} {
		_, err := svc.RegisterDevice(id, "00:14:22:01:23:45")
		require.NoError(t, err)
	}

	_, err := svc.ClaimDevice("RB-001", "7", "Bin A", "", "")
	require.NoError(t, err)
	_, err = svc.ClaimDevice("RB-002", "7", "Bin B", "", "")
	require.NoError(t, err)

	devices, err := svc.GetDevicesByVendor("7")
	require.NoError(t, err)
	assert.Len(t, devices, 2)

	devices, err = svc.GetDevicesByVendor("8")
	require.NoError(t, err)
	assert.Empty(t, devices)
}

func TestUpdateDeviceDetails(t *testing.T) {
	svc, _ := newTestDeviceService(t)

	_, err := svc.RegisterDevice("RB-001", "00:14:22:01:23:45")
	require.NoError(t, err)
	_, err = svc.ClaimDevice("RB-001", "7", "Bin A", "Old Street", "")
	require.NoError(t, err)

	device, err := svc.UpdateDeviceDetails("RB-001", "Bin A2", "New Street", "relocated")
	require.NoError(t, err)

	assert.Equal(t, "Bin A2", device.Name)
	assert.Equal(t, "New Street", device.Location)
	assert.Equal(t, "relocated", device.Description)
	assert.Equal(t, "7", device.VendorID)
}

func TestDeleteDevice(t *testing.T) {
	svc, _ := newTestDeviceService(t)

	_, err := svc.RegisterDevice("RB-001", "00:14:22:01:23:45")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteDevice("RB-001"))

	_, err = svc.GetDeviceByDeviceID("RB-001")
	assert.ErrorIs(t, err, ErrDeviceNotFound)

	assert.ErrorIs(t, svc.DeleteDevice("RB-001"), ErrDeviceNotFound)
}
