package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/tay1862/mefood-tay-sub002/models"
	"github.com/tay1862/mefood-tay-sub002/utils"
)

// CustomerSessionService tracks walk-in parties from the waiting queue to
// checkout. Seating runs its occupancy check and write in one transaction
// so two parties cannot both claim a table.
type CustomerSessionService struct {
	DB *gorm.DB
}

func NewCustomerSessionService(db *gorm.DB) *CustomerSessionService {
	return &CustomerSessionService{DB: db}
}

// CheckIn adds a party to the waiting queue.
func (s *CustomerSessionService) CheckIn(ownerID uint, name, phone string, partySize int) (*models.CustomerSession, error) {
	if partySize <= 0 {
		partySize = 1
	}
	session := models.CustomerSession{
		OwnerID:       ownerID,
		Status:        models.SessionWaiting,
		PartySize:     partySize,
		CustomerName:  name,
		CustomerPhone: phone,
		CheckInTime:   time.Now(),
	}
	if err := s.DB.Create(&session).Error; err != nil {
		return nil, err
	}
	utils.InfoLogger.Printf("Party of %d checked in (session=%d)", partySize, session.ID)
	return &session, nil
}

// Seat assigns a waiting (or already seated) party to a table. Fails if the
// table is missing, inactive or foreign-owned, or if another session is
// currently occupying it. seated_time is stamped only on the first seating.
func (s *CustomerSessionService) Seat(ownerID, sessionID, tableID, waiterID uint) (*models.CustomerSession, error) {
	var session *models.CustomerSession
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var cs models.CustomerSession
		err := tx.Where("owner_id = ?", ownerID).First(&cs, sessionID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSessionNotFound
			}
			return err
		}

		var table models.Table
		err = tx.Where("owner_id = ? AND is_active = ?", ownerID, true).
			First(&table, tableID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTableNotFound
			}
			return err
		}

		// Occupancy check excludes the session being seated, so moving a
		// party to the table it already holds is a no-op, not a conflict.
		var occupying int64
		err = tx.Model(&models.CustomerSession{}).
			Where("table_id = ? AND status IN ? AND id <> ?",
				table.ID, models.OccupiedSessionStatuses, cs.ID).
			Count(&occupying).Error
		if err != nil {
			return err
		}
		if occupying > 0 {
			return ErrTableOccupied
		}

		cs.TableID = &table.ID
		cs.Status = models.SessionSeated
		cs.WaiterID = &waiterID
		if cs.SeatedTime == nil {
			now := time.Now()
			cs.SeatedTime = &now
		}
		if err := tx.Save(&cs).Error; err != nil {
			return err
		}
		session = &cs
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("Session %d seated at table %d by user %d", sessionID, tableID, waiterID)
	return session, nil
}

// UpdateStatus moves the session along seated -> ordering -> ... -> billing.
// Completion goes through Checkout; a completed session never moves again.
func (s *CustomerSessionService) UpdateStatus(ownerID, sessionID uint, status string) (*models.CustomerSession, error) {
	valid := false
	for _, st := range models.OccupiedSessionStatuses {
		if status == st {
			valid = true
			break
		}
	}
	if !valid {
		return nil, ErrInvalidStatus
	}

	session, err := s.Get(ownerID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status == models.SessionCompleted {
		return nil, &InvalidStateError{
			Op:      "update session status",
			Current: session.Status,
			Allowed: models.OccupiedSessionStatuses,
		}
	}

	session.Status = status
	if err := s.DB.Save(session).Error; err != nil {
		return nil, err
	}
	return session, nil
}

// Checkout completes the session. Idempotent: checking out an already
// completed session returns it unchanged, keeping the original timestamp.
func (s *CustomerSessionService) Checkout(ownerID, sessionID uint) (*models.CustomerSession, error) {
	session, err := s.Get(ownerID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status == models.SessionCompleted {
		return session, nil
	}

	now := time.Now()
	session.Status = models.SessionCompleted
	session.CheckOutTime = &now
	if err := s.DB.Save(session).Error; err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("Session %d checked out", sessionID)
	return session, nil
}

// Remove deletes a session from the waiting queue. Once a party has been
// seated the record is part of the service history and stays.
func (s *CustomerSessionService) Remove(ownerID, sessionID uint) error {
	session, err := s.Get(ownerID, sessionID)
	if err != nil {
		return err
	}
	if session.Status != models.SessionWaiting {
		return &InvalidStateError{
			Op:      "remove session",
			Current: session.Status,
			Allowed: []string{models.SessionWaiting},
		}
	}
	return s.DB.Delete(session).Error
}

// Get loads one session scoped to the owner.
func (s *CustomerSessionService) Get(ownerID, sessionID uint) (*models.CustomerSession, error) {
	var session models.CustomerSession
	err := s.DB.Where("owner_id = ?", ownerID).First(&session, sessionID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return &session, nil
}

// List returns the owner's sessions, optionally filtered by status.
func (s *CustomerSessionService) List(ownerID uint, status string) ([]models.CustomerSession, error) {
	q := s.DB.Preload("Table").Where("owner_id = ?", ownerID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var sessions []models.CustomerSession
	if err := q.Order("check_in_time asc").Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}
