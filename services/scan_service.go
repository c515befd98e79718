package services

import (
	"errors"
	"strconv"
	"time"

	"github.com/Re-Bottle/bottle-collection-system-backend/config"
	"github.com/Re-Bottle/bottle-collection-system-backend/models"

	"gorm.io/gorm"
)

// PointsPerBottleUnit is the point value of one bottle-type unit
const PointsPerBottleUnit = 1

// Scan errors; the messages are part of the API contract
var (
	ErrScanNotFound       = errors.New("Scan not found")
	ErrScanAlreadyClaimed = errors.New("Scan has already been claimed")
	ErrScanClaimExpired   = errors.New("Scan cannot be claimed after 10 minutes")
	ErrScanDataExists     = errors.New("Scan data already exists")
	ErrInvalidScanTime    = errors.New("Invalid scan timestamp")
	ErrScanUserNotFound   = errors.New("User not found")
)

// ScanClaimResult is the outcome of a successful scan claim
type ScanClaimResult struct {
	Scan         *models.Scan
	TotalPoints  int
	TotalBottles int
}

// InterfaceScanService defines the scan service interface
type InterfaceScanService interface {
	CreateScan(deviceID, scanData string, bottleType int) (*models.Scan, error)
	ClaimScan(userID uint, scanData string) (*ScanClaimResult, error)
	GetScansByUser(userID uint, query models.PaginationQuery) ([]models.Scan, models.PaginationResult, error)
	GetScanByID(id uint) (*models.Scan, error)
	DeleteScan(id uint) error
}

// ScanService owns scan creation and the scan claim transaction
type ScanService struct {
	DB     *gorm.DB
	Config *config.Config
	Redis  InterfaceRedisService // optional stats cache, may be nil
}

// NewScanService creates a new scan service
func NewScanService(db *gorm.DB, cfg *config.Config, redis InterfaceRedisService) InterfaceScanService {
	return &ScanService{
		DB:     db,
		Config: cfg,
		Redis:  redis,
	}
}

// 1 CreateScan records a bottle deposit reported by a device.
//
// Devices are trusted reporters: the device id is not validated against the
// device table. The scan code itself is unique per deposit event and a
// duplicate report is rejected by the schema.
func (s *ScanService) CreateScan(deviceID, scanData string, bottleType int) (*models.Scan, error) {
	var count int64
	if err := s.DB.Model(&models.Scan{}).Where("scan_data = ?", scanData).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrScanDataExists
	}

	scan := models.Scan{
		DeviceID:   deviceID,
		ScanData:   scanData,
		BottleType: bottleType,
		ClaimedBy:  models.ScanUnclaimed,
	}
	if err := s.DB.Create(&scan).Error; err != nil {
		return nil, err
	}

	return &scan, nil
}

// 2 ClaimScan hands a scan over to a user and credits the user's counters.
//
// The claim is accepted only within the claim window after the deposit. The
// scan update and the counter increments run inside a single transaction,
// with the one-shot precondition re-checked by the store itself (conditional
// update on the unclaimed sentinel), so concurrent claims for the same scan
// cannot double-credit.
func (s *ScanService) ClaimScan(userID uint, scanData string) (*ScanClaimResult, error) {
	var scan models.Scan
	if err := s.DB.Where("scan_data = ?", scanData).First(&scan).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScanNotFound
		}
		return nil, err
	}

	if scan.IsClaimed() {
		return nil, ErrScanAlreadyClaimed
	}

	if scan.CreatedAt.IsZero() {
		return nil, ErrInvalidScanTime
	}
	if time.Since(scan.CreatedAt) > ClaimWindow {
		return nil, ErrScanClaimExpired
	}

	var user models.User
	if err := s.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScanUserNotFound
		}
		return nil, err
	}

	pointsToAdd := scan.BottleType * PointsPerBottleUnit
	claimedBy := strconv.FormatUint(uint64(userID), 10)

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Scan{}).
			Where("id = ? AND claimed_by = ?", scan.ID, models.ScanUnclaimed).
			Update("claimed_by", claimedBy)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			// Lost the race against a concurrent claim
			return ErrScanAlreadyClaimed
		}

		return tx.Model(&models.User{}).
			Where("id = ?", userID).
			Updates(map[string]interface{}{
				"total_points":  gorm.Expr("total_points + ?", pointsToAdd),
				"total_bottles": gorm.Expr("total_bottles + ?", 1),
			}).Error
	})
	if err != nil {
		return nil, err
	}

	scan.ClaimedBy = claimedBy
	if err := s.DB.First(&user, userID).Error; err != nil {
		return nil, err
	}

	if s.Redis != nil {
		if err := s.Redis.CacheUserStats(userID, user.TotalPoints, user.TotalBottles); err != nil {
			config.Warning("failed to cache stats for user %d: %v", userID, err)
		}
	}

	return &ScanClaimResult{
		Scan:         &scan,
		TotalPoints:  user.TotalPoints,
		TotalBottles: user.TotalBottles,
	}, nil
}

// 3 GetScansByUser lists the scans a user has claimed, newest first when
// requested. A zero PageSize returns everything.
func (s *ScanService) GetScansByUser(userID uint, query models.PaginationQuery) ([]models.Scan, models.PaginationResult, error) {
	claimedBy := strconv.FormatUint(uint64(userID), 10)
	base := s.DB.Model(&models.Scan{}).Where("claimed_by = ?", claimedBy)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, models.PaginationResult{}, err
	}

	tx := s.DB.Where("claimed_by = ?", claimedBy)
	if query.Desc {
		tx = tx.Order("created_at DESC")
	}

	pageNum := query.PageNum
	if pageNum < 1 {
		pageNum = 1
	}
	if query.PageSize > 0 {
		tx = tx.Offset((pageNum - 1) * query.PageSize).Limit(query.PageSize)
	}

	var scans []models.Scan
	if err := tx.Find(&scans).Error; err != nil {
		return nil, models.PaginationResult{}, err
	}

	return scans, models.NewPaginationResult(int(total), pageNum, query.PageSize), nil
}

// 4 GetScanByID looks a scan up by its server-assigned id
func (s *ScanService) GetScanByID(id uint) (*models.Scan, error) {
	var scan models.Scan
	if err := s.DB.First(&scan, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScanNotFound
		}
		return nil, err
	}
	return &scan, nil
}

// 5 DeleteScan removes a scan record (administrative operation)
func (s *ScanService) DeleteScan(id uint) error {
	scan, err := s.GetScanByID(id)
	if err != nil {
		return err
	}
	return s.DB.Delete(scan).Error
}
