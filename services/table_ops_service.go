package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/tay1862/mefood-tay-sub002/models"
	"github.com/tay1862/mefood-tay-sub002/utils"
)

// TableOpsService carries the administrative merge/move operations. Both are
// bulk multi-entity rewrites and run inside a single transaction: either
// every order, staff call and music request lands on the new session/table,
// or nothing moves.
type TableOpsService struct {
	DB *gorm.DB
}

func NewTableOpsService(db *gorm.DB) *TableOpsService {
	return &TableOpsService{DB: db}
}

// MergeResult reports what a merge touched.
type MergeResult struct {
	SourceSessionID uint  `json:"source_session_id"`
	TargetSessionID uint  `json:"target_session_id"`
	OrdersMoved     int64 `json:"orders_moved"`
	StaffCallsMoved int64 `json:"staff_calls_moved"`
	RequestsMoved   int64 `json:"music_requests_moved"`
}

// MergeTables folds the source table's active session into the target
// table's active session. Orders move to the target session and table;
// staff calls and music requests follow their session. The source session
// ends with a forwarding pointer to the target.
func (s *TableOpsService) MergeTables(ownerID, sourceTableID, targetTableID uint) (*MergeResult, error) {
	var result MergeResult
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		source, err := activeSessionScoped(tx, ownerID, sourceTableID)
		if err != nil {
			return err
		}
		target, err := activeSessionScoped(tx, ownerID, targetTableID)
		if err != nil {
			return err
		}

		orders := tx.Model(&models.Order{}).
			Where("qr_session_id = ?", source.ID).
			Updates(map[string]interface{}{
				"qr_session_id": target.ID,
				"table_id":      target.TableID,
			})
		if orders.Error != nil {
			return orders.Error
		}

		calls := tx.Model(&models.StaffCall{}).
			Where("qr_session_id = ?", source.ID).
			Update("qr_session_id", target.ID)
		if calls.Error != nil {
			return calls.Error
		}

		requests := tx.Model(&models.MusicRequest{}).
			Where("qr_session_id = ?", source.ID).
			Update("qr_session_id", target.ID)
		if requests.Error != nil {
			return requests.Error
		}

		now := time.Now()
		source.IsActive = false
		source.EndedAt = &now
		source.MergedIntoQRSessionID = &target.ID
		if err := tx.Save(source).Error; err != nil {
			return err
		}

		result = MergeResult{
			SourceSessionID: source.ID,
			TargetSessionID: target.ID,
			OrdersMoved:     orders.RowsAffected,
			StaffCallsMoved: calls.RowsAffected,
			RequestsMoved:   requests.RowsAffected,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("Merged table %d into %d: %d orders, %d calls, %d requests",
		sourceTableID, targetTableID,
		result.OrdersMoved, result.StaffCallsMoved, result.RequestsMoved)
	return &result, nil
}

// MoveTable re-points a QR session at a new table and cascades the table
// change to every order on the session.
func (s *TableOpsService) MoveTable(ownerID, qrSessionID, newTableID uint) (*models.QRSession, error) {
	var session *models.QRSession
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var qs models.QRSession
		err := tx.Joins("JOIN tables ON tables.id = qr_sessions.table_id").
			Where("tables.owner_id = ?", ownerID).
			First(&qs, "qr_sessions.id = ?", qrSessionID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSessionNotFound
			}
			return err
		}

		var table models.Table
		err = tx.Where("owner_id = ? AND is_active = ?", ownerID, true).
			First(&table, newTableID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTableNotFound
			}
			return err
		}

		qs.TableID = table.ID
		if err := tx.Save(&qs).Error; err != nil {
			return err
		}

		err = tx.Model(&models.Order{}).
			Where("qr_session_id = ?", qs.ID).
			Update("table_id", table.ID).Error
		if err != nil {
			return err
		}

		session = &qs
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("QR session %d moved to table %d", qrSessionID, newTableID)
	return session, nil
}

// activeSessionScoped finds the active session on an owner's table inside tx.
func activeSessionScoped(tx *gorm.DB, ownerID, tableID uint) (*models.QRSession, error) {
	var table models.Table
	err := tx.Where("owner_id = ?", ownerID).First(&table, tableID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTableNotFound
		}
		return nil, err
	}

	var session models.QRSession
	err = tx.Where("table_id = ? AND is_active = ?", table.ID, true).
		First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoActiveSession
		}
		return nil, err
	}
	return &session, nil
}
