package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tay1862/mefood-tay-sub002/models"
	"github.com/tay1862/mefood-tay-sub002/services"
)

func TestOpenSession(t *testing.T) {
	db := setupTestDB(t)
	qr := services.NewQRSessionService(db)

	session, err := qr.OpenSession(1, "Alice", 3)
	assert.NoError(t, err)
	assert.True(t, session.IsActive)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, 3, session.GuestCount)
	assert.Equal(t, uint(1), session.TableID)
}

func TestOpenSessionTableMissing(t *testing.T) {
	db := setupTestDB(t)
	qr := services.NewQRSessionService(db)

	_, err := qr.OpenSession(999, "", 1)
	assert.ErrorIs(t, err, services.ErrTableNotFound)
}

func TestOpenSessionTableInactive(t *testing.T) {
	db := setupTestDB(t)
	db.Model(&models.Table{}).Where("id = ?", 1).Update("is_active", false)

	qr := services.NewQRSessionService(db)
	_, err := qr.OpenSession(1, "", 1)
	assert.ErrorIs(t, err, services.ErrTableInactive)
}

func TestOpenSessionQRDisabled(t *testing.T) {
	db := setupTestDB(t)
	db.Model(&models.Table{}).Where("id = ?", 1).Update("qr_ordering_enabled", false)

	qr := services.NewQRSessionService(db)
	_, err := qr.OpenSession(1, "", 1)
	assert.ErrorIs(t, err, services.ErrQRDisabled)
}

func TestOpenSessionReusesActive(t *testing.T) {
	db := setupTestDB(t)
	qr := services.NewQRSessionService(db)

	first, err := qr.OpenSession(1, "Alice", 2)
	assert.NoError(t, err)
	second, err := qr.OpenSession(1, "Bob", 4)
	assert.NoError(t, err)

	// A second scan joins the open session rather than stacking a new one.
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Token, second.Token)

	var active int64
	db.Model(&models.QRSession{}).
		Where("table_id = ? AND is_active = ?", 1, true).
		Count(&active)
	assert.Equal(t, int64(1), active)
}

func TestValidateSession(t *testing.T) {
	db := setupTestDB(t)
	qr := services.NewQRSessionService(db)

	session, _ := qr.OpenSession(1, "", 1)

	got, err := qr.ValidateSession(session.Token)
	assert.NoError(t, err)
	assert.Equal(t, session.ID, got.ID)
	assert.Equal(t, "A1", got.Table.Number)

	_, err = qr.ValidateSession("no-such-token")
	assert.ErrorIs(t, err, services.ErrSessionNotFound)
}

func TestEndSessionInvalidatesToken(t *testing.T) {
	db := setupTestDB(t)
	qr := services.NewQRSessionService(db)

	session, _ := qr.OpenSession(1, "", 1)
	ended, err := qr.EndSession(session.Token, nil)
	assert.NoError(t, err)
	assert.False(t, ended.IsActive)
	assert.NotNil(t, ended.EndedAt)

	// Ended and unknown tokens are indistinguishable to the caller.
	_, err = qr.ValidateSession(session.Token)
	assert.ErrorIs(t, err, services.ErrSessionNotFound)
}

func TestEndSessionKeepsOriginalEndTime(t *testing.T) {
	db := setupTestDB(t)
	qr := services.NewQRSessionService(db)

	session, _ := qr.OpenSession(1, "", 1)
	first, err := qr.EndSession(session.Token, nil)
	assert.NoError(t, err)

	again, err := qr.EndSession(session.Token, nil)
	assert.NoError(t, err)
	assert.True(t, again.EndedAt.Equal(*first.EndedAt))
}

func TestResolveSessionFollowsMergeChain(t *testing.T) {
	db := setupTestDB(t)
	qr := services.NewQRSessionService(db)
	ops := services.NewTableOpsService(db)

	tableB := createTable(db, 1, "B1")
	tableC := createTable(db, 1, "C1")

	sessionA, _ := qr.OpenSession(1, "", 1)
	_, err := qr.OpenSession(tableB.ID, "", 1)
	assert.NoError(t, err)
	sessionC, _ := qr.OpenSession(tableC.ID, "", 1)

	// A -> B, then B -> C: resolving A walks the whole chain.
	_, err = ops.MergeTables(1, 1, tableB.ID)
	assert.NoError(t, err)
	_, err = ops.MergeTables(1, tableB.ID, tableC.ID)
	assert.NoError(t, err)

	resolved, err := qr.ResolveSession(sessionA.ID)
	assert.NoError(t, err)
	assert.Equal(t, sessionC.ID, resolved.ID)
	assert.True(t, resolved.IsActive)
}

func TestActiveSessionForTable(t *testing.T) {
	db := setupTestDB(t)
	qr := services.NewQRSessionService(db)

	_, err := qr.ActiveSessionForTable(1)
	assert.ErrorIs(t, err, services.ErrNoActiveSession)

	session, _ := qr.OpenSession(1, "", 1)
	got, err := qr.ActiveSessionForTable(1)
	assert.NoError(t, err)
	assert.Equal(t, session.ID, got.ID)
}
