package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tay1862/mefood-tay-sub002/models"
	"github.com/tay1862/mefood-tay-sub002/utils"
)

// QRSessionService owns the table/QR-session registry: which session is
// active on which table, token validation and session close-out.
type QRSessionService struct {
	DB *gorm.DB
}

func NewQRSessionService(db *gorm.DB) *QRSessionService {
	return &QRSessionService{DB: db}
}

// OpenSession starts a QR session on a table after a customer scan.
// The active-session lookup and the insert run in one transaction so two
// concurrent scans cannot both create an active session for the table.
func (s *QRSessionService) OpenSession(tableID uint, customerName string, guestCount int) (*models.QRSession, error) {
	if guestCount <= 0 {
		guestCount = 1
	}

	var session *models.QRSession
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var table models.Table
		if err := tx.First(&table, tableID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTableNotFound
			}
			return err
		}
		if !table.IsActive {
			return ErrTableInactive
		}
		if !table.QROrderingEnabled {
			return ErrQRDisabled
		}

		// Reuse an already-open session instead of stacking a second one.
		var existing models.QRSession
		err := tx.Where("table_id = ? AND is_active = ?", table.ID, true).
			First(&existing).Error
		if err == nil {
			existing.Table = table
			session = &existing
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		now := time.Now()
		created := models.QRSession{
			TableID:      table.ID,
			Token:        uuid.NewString(),
			IsActive:     true,
			CustomerName: customerName,
			GuestCount:   guestCount,
			StartedAt:    now,
		}
		if err := tx.Create(&created).Error; err != nil {
			return err
		}
		created.Table = table
		session = &created
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("QR session %d open on table %d (token=%s)",
		session.ID, session.TableID, session.Token)
	return session, nil
}

// ValidateSession resolves a customer token. A session is valid iff it is
// still active; ended sessions report the same error as unknown tokens.
func (s *QRSessionService) ValidateSession(token string) (*models.QRSession, error) {
	var session models.QRSession
	err := s.DB.Preload("Table").
		Where("token = ? AND is_active = ?", token, true).
		First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return &session, nil
}

// EndSession closes a session. mergedInto, when non-nil, records the session
// this one was folded into during a table merge.
func (s *QRSessionService) EndSession(token string, mergedInto *uint) (*models.QRSession, error) {
	var session models.QRSession
	if err := s.DB.Where("token = ?", token).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	if session.IsActive {
		now := time.Now()
		session.IsActive = false
		session.EndedAt = &now
	}
	if mergedInto != nil {
		session.MergedIntoQRSessionID = mergedInto
	}
	if err := s.DB.Save(&session).Error; err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("QR session %d ended (table=%d)", session.ID, session.TableID)
	return &session, nil
}

// ActiveSessionForTable returns the active session on a table, if any.
func (s *QRSessionService) ActiveSessionForTable(tableID uint) (*models.QRSession, error) {
	var session models.QRSession
	err := s.DB.Where("table_id = ? AND is_active = ?", tableID, true).
		First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoActiveSession
		}
		return nil, err
	}
	return &session, nil
}

// ResolveSession follows merge forwarding pointers until it reaches a
// session that was not merged away. Repeated merges form a chain; resolution
// is read-only and always terminates because merge pointers only ever point
// at newer sessions.
func (s *QRSessionService) ResolveSession(id uint) (*models.QRSession, error) {
	for {
		var session models.QRSession
		if err := s.DB.First(&session, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrSessionNotFound
			}
			return nil, err
		}
		if session.MergedIntoQRSessionID == nil {
			return &session, nil
		}
		id = *session.MergedIntoQRSessionID
	}
}
