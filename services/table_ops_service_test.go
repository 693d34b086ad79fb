package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/tay1862/mefood-tay-sub002/models"
	"github.com/tay1862/mefood-tay-sub002/services"
)

type mergeFixture struct {
	qr      *services.QRSessionService
	orders  *services.OrderService
	ops     *services.TableOpsService
	source  *models.QRSession
	target  *models.QRSession
	tableB  models.Table
	orderID uint
}

// setupMerge -> session on table 1 with one order, a staff call and a music
// request; empty active session on table B.
func setupMerge(t *testing.T, db *gorm.DB) mergeFixture {
	t.Helper()

	qr := services.NewQRSessionService(db)
	orders := services.NewOrderService(db)
	ops := services.NewTableOpsService(db)

	source, err := qr.OpenSession(1, "Alice", 2)
	assert.NoError(t, err)
	order, err := orders.CreateOrder(source, 1, []services.NewItem{{MenuID: 1, Quantity: 2}})
	assert.NoError(t, err)

	db.Create(&models.StaffCall{QRSessionID: source.ID, Type: "water", Status: models.RequestPending})
	db.Create(&models.MusicRequest{QRSessionID: source.ID, SongName: "Song A", Status: models.RequestPending})

	tableB := createTable(db, 1, "B1")
	target, err := qr.OpenSession(tableB.ID, "Bob", 3)
	assert.NoError(t, err)

	return mergeFixture{
		qr: qr, orders: orders, ops: ops,
		source: source, target: target, tableB: tableB, orderID: order.ID,
	}
}

func TestMergeReassignsEverything(t *testing.T) {
	db := setupTestDB(t)
	f := setupMerge(t, db)

	result, err := f.ops.MergeTables(1, 1, f.tableB.ID)
	assert.NoError(t, err)
	assert.Equal(t, f.source.ID, result.SourceSessionID)
	assert.Equal(t, f.target.ID, result.TargetSessionID)
	assert.Equal(t, int64(1), result.OrdersMoved)
	assert.Equal(t, int64(1), result.StaffCallsMoved)
	assert.Equal(t, int64(1), result.RequestsMoved)

	// Orders now live on the target session and the target table.
	order, err := f.orders.GetOrder(1, f.orderID)
	assert.NoError(t, err)
	assert.Equal(t, f.target.ID, *order.QRSessionID)
	assert.Equal(t, f.tableB.ID, order.TableID)

	// No staff call or music request is left pointing at the source.
	var leftovers int64
	db.Model(&models.StaffCall{}).Where("qr_session_id = ?", f.source.ID).Count(&leftovers)
	assert.Equal(t, int64(0), leftovers)
	db.Model(&models.MusicRequest{}).Where("qr_session_id = ?", f.source.ID).Count(&leftovers)
	assert.Equal(t, int64(0), leftovers)

	// The source session ends with a forwarding pointer.
	var source models.QRSession
	db.First(&source, f.source.ID)
	assert.False(t, source.IsActive)
	assert.NotNil(t, source.EndedAt)
	assert.Equal(t, f.target.ID, *source.MergedIntoQRSessionID)

	// The source token no longer validates; resolution leads to the target.
	_, err = f.qr.ValidateSession(f.source.Token)
	assert.ErrorIs(t, err, services.ErrSessionNotFound)
	resolved, err := f.qr.ResolveSession(f.source.ID)
	assert.NoError(t, err)
	assert.Equal(t, f.target.ID, resolved.ID)
}

func TestMergeFailsWithoutActiveSessions(t *testing.T) {
	db := setupTestDB(t)
	qr := services.NewQRSessionService(db)
	ops := services.NewTableOpsService(db)

	tableB := createTable(db, 1, "B1")

	// Neither table has a session.
	_, err := ops.MergeTables(1, 1, tableB.ID)
	assert.ErrorIs(t, err, services.ErrNoActiveSession)

	// Source has one, target does not: nothing is touched.
	source, _ := qr.OpenSession(1, "", 1)
	_, err = ops.MergeTables(1, 1, tableB.ID)
	assert.ErrorIs(t, err, services.ErrNoActiveSession)

	var reloaded models.QRSession
	db.First(&reloaded, source.ID)
	assert.True(t, reloaded.IsActive)
	assert.Nil(t, reloaded.MergedIntoQRSessionID)
}

func TestMergeUnknownTable(t *testing.T) {
	db := setupTestDB(t)
	qr := services.NewQRSessionService(db)
	ops := services.NewTableOpsService(db)

	// Source table has a live session, the target does not exist.
	_, err := qr.OpenSession(1, "", 1)
	assert.NoError(t, err)
	_, err = ops.MergeTables(1, 1, 999)
	assert.ErrorIs(t, err, services.ErrTableNotFound)

	// An unknown source fails the same way before touching anything.
	_, err = ops.MergeTables(1, 999, 1)
	assert.ErrorIs(t, err, services.ErrTableNotFound)
}

func TestMoveCascadesOrders(t *testing.T) {
	db := setupTestDB(t)
	qr := services.NewQRSessionService(db)
	orders := services.NewOrderService(db)
	ops := services.NewTableOpsService(db)

	session, _ := qr.OpenSession(1, "Alice", 2)
	first, _ := orders.CreateOrder(session, 1, []services.NewItem{{MenuID: 1, Quantity: 1}})
	second, _ := orders.CreateOrder(session, 1, []services.NewItem{{MenuID: 2, Quantity: 2}})

	tableB := createTable(db, 1, "B1")
	moved, err := ops.MoveTable(1, session.ID, tableB.ID)
	assert.NoError(t, err)
	assert.Equal(t, tableB.ID, moved.TableID)

	for _, id := range []uint{first.ID, second.ID} {
		order, err := orders.GetOrder(1, id)
		assert.NoError(t, err)
		assert.Equal(t, tableB.ID, order.TableID)
	}
}

func TestMoveUnknownSession(t *testing.T) {
	db := setupTestDB(t)
	ops := services.NewTableOpsService(db)

	tableB := createTable(db, 1, "B1")
	_, err := ops.MoveTable(1, 999, tableB.ID)
	assert.ErrorIs(t, err, services.ErrSessionNotFound)
}

func TestMoveForeignSessionHidden(t *testing.T) {
	db := setupTestDB(t)
	db.Create(&models.User{Name: "Other", Email: "other@example.com", Password: "x", Role: models.RoleOwner})

	qr := services.NewQRSessionService(db)
	ops := services.NewTableOpsService(db)

	foreignTable := createTable(db, 2, "Z1")
	foreignSession, _ := qr.OpenSession(foreignTable.ID, "", 1)

	// Owner 1 cannot move (or discover) owner 2's session.
	_, err := ops.MoveTable(1, foreignSession.ID, 1)
	assert.ErrorIs(t, err, services.ErrSessionNotFound)
}
