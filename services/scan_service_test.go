package services

import (
	"strconv"
	"testing"
	"time"

	"github.com/Re-Bottle/bottle-collection-system-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestScanService(t *testing.T) (InterfaceScanService, *gorm.DB) {
	t.Helper()

	db := newTestDB(t)
	return NewScanService(db, newTestConfig(), nil), db
}

func TestCreateScan(t *testing.T) {
	svc, _ := newTestScanService(t)

	scan, err := svc.CreateScan("RB-001", "scan-code-1", 2)
	require.NoError(t, err)

	assert.Equal(t, "RB-001", scan.DeviceID)
	assert.Equal(t, 2, scan.BottleType)
	assert.Equal(t, models.ScanUnclaimed, scan.ClaimedBy)
	assert.False(t, scan.IsClaimed())
}

func TestCreateScanRejectsDuplicateCode(t *testing.T) {
	svc, _ := newTestScanService(t)

	_, err := svc.CreateScan("RB-001", "scan-code-1", 2)
	require.NoError(t, err)

	_, err = svc.CreateScan("RB-002", "scan-code-1", 1)
	assert.ErrorIs(t, err, ErrScanDataExists)
}

func TestClaimScanCreditsUser(t *testing.T) {
	svc, db := newTestScanService(t)
	user := createTestUser(t, db, "Alice", "alice@example.com")

	_, err := svc.CreateScan("RB-001", "scan-code-1", 3)
	require.NoError(t, err)

	result, err := svc.ClaimScan(user.ID, "scan-code-1")
	require.NoError(t, err)

	assert.Equal(t, strconv.FormatUint(uint64(user.ID), 10), result.Scan.ClaimedBy)
	assert.Equal(t, 3, result.TotalPoints)
	assert.Equal(t, 1, result.TotalBottles)

	var stored models.User
	require.NoError(t, db.First(&stored, user.ID).Error)
	assert.Equal(t, 3, stored.TotalPoints)
	assert.Equal(t, 1, stored.TotalBottles)
}

func TestClaimScanIsOneShot(t *testing.T) {
	svc, db := newTestScanService(t)
	alice := createTestUser(t, db, "Alice", "alice@example.com")
	bob := createTestUser(t, db, "Bob", "bob@example.com")

	_, err := svc.CreateScan("RB-001", "scan-code-1", 2)
	require.NoError(t, err)

	_, err = svc.ClaimScan(alice.ID, "scan-code-1")
	require.NoError(t, err)

	_, err = svc.ClaimScan(bob.ID, "scan-code-1")
	assert.ErrorIs(t, err, ErrScanAlreadyClaimed)

	// Bob must not have been credited
	var stored models.User
	require.NoError(t, db.First(&stored, bob.ID).Error)
	assert.Zero(t, stored.TotalPoints)
	assert.Zero(t, stored.TotalBottles)
}

func TestClaimScanExpiresAfterWindow(t *testing.T) {
	svc, db := newTestScanService(t)
	user := createTestUser(t, db, "Alice", "alice@example.com")

	scan, err := svc.CreateScan("RB-001", "scan-code-1", 2)
	require.NoError(t, err)

	stale := time.Now().Add(-ClaimWindow - time.Minute)
	require.NoError(t, db.Model(&models.Scan{}).
		Where("id = ?", scan.ID).
		Update("created_at", stale).Error)

	_, err = svc.ClaimScan(user.ID, "scan-code-1")
	assert.ErrorIs(t, err, ErrScanClaimExpired)
}

func TestClaimScanUnknownScan(t *testing.T) {
	svc, db := newTestScanService(t)
	user := createTestUser(t, db, "Alice", "alice@example.com")

	_, err := svc.ClaimScan(user.ID, "missing")
	assert.ErrorIs(t, err, ErrScanNotFound)
}

func TestClaimScanUnknownUser(t *testing.T) {
	svc, _ := newTestScanService(t)

	_, err := svc.CreateScan("RB-001", "scan-code-1", 2)
	require.NoError(t, err)

	_, err = svc.ClaimScan(999, "scan-code-1")
	assert.ErrorIs(t, err, ErrScanUserNotFound)
}

func TestClaimScanAccumulatesAcrossScans(t *testing.T) {
	svc, db := newTestScanService(t)
	user := createTestUser(t, db, "Alice", "alice@example.com")

	_, err := svc.CreateScan("RB-001", "scan-code-1", 2)
	require.NoError(t, err)
	_, err = svc.CreateScan("RB-002", "scan-code-2", 5)
	require.NoError(t, err)

	_, err = svc.ClaimScan(user.ID, "scan-code-1")
	require.NoError(t, err)

	result, err := svc.ClaimScan(user.ID, "scan-code-2")
	require.NoError(t, err)

	assert.Equal(t, 7, result.TotalPoints)
	assert.Equal(t, 2, result.TotalBottles)
}

func TestGetScansByUser(t *testing.T) {
	svc, db := newTestScanService(t)
	alice := createTestUser(t, db, "Alice", "alice@example.com")
	bob := createTestUser(t, db, "Bob", "bob@example.com")

	for i, code := range []string{"scan-a", "scan-b", "scan-c"} {
		_, err := svc.CreateScan("RB-001", code, i+1)
		require.NoError(t, err)
	}

	_, err := svc.ClaimScan(alice.ID, "scan-a")
	require.NoError(t, err)
	_, err = svc.ClaimScan(alice.ID, "scan-b")
	require.NoError(t, err)
	_, err = svc.ClaimScan(bob.ID, "scan-c")
	require.NoError(t, err)

	scans, pagination, err := svc.GetScansByUser(alice.ID, models.PaginationQuery{})
	require.NoError(t, err)
	assert.Len(t, scans, 2)
	assert.Equal(t, 2, pagination.Total)

	scans, _, err = svc.GetScansByUser(bob.ID, models.PaginationQuery{})
	require.NoError(t, err)
	assert.Len(t, scans, 1)

	// Pagination caps the page while total counts everything
	scans, pagination, err = svc.GetScansByUser(alice.ID, models.PaginationQuery{PageNum: 1, PageSize: 1})
	require.NoError(t, err)
	assert.Len(t, scans, 1)
	assert.Equal(t, 2, pagination.Total)
	assert.Equal(t, 1, pagination.PageSize)
}

func TestDeleteScan(t *testing.T) {
	svc, _ := newTestScanService(t)

	scan, err := svc.CreateScan("RB-001", "scan-code-1", 2)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteScan(scan.ID))

	_, err = svc.GetScanByID(scan.ID)
	assert.ErrorIs(t, err, ErrScanNotFound)

	assert.ErrorIs(t, svc.DeleteScan(scan.ID), ErrScanNotFound)
}
