package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/tay1862/mefood-tay-sub002/models"
	"github.com/tay1862/mefood-tay-sub002/router"
	"github.com/tay1862/mefood-tay-sub002/utils"
)

func TestMain(m *testing.M) {
	utils.InitLogger()
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// TestEndToEndIntegration walks the main flow:
// 1. Owner logs in, builds the floor and menu
// 2. Customer scans a table, orders, calls staff
// 3. Kitchen advances the order; an item removal recomputes the total
// 4. Tables merge; the source token dies, everything lands on the target
func TestEndToEndIntegration(t *testing.T) {
	db := setupTestDB()
	r := router.SetupRouter(db)

	token := loginTest(t, r)

	tableA := createTableTest(t, r, token, "A1")
	tableB := createTableTest(t, r, token, "B1")
	menuID := createMenuTest(t, r, token)

	// Customer scans table A.
	sessionTokenA := scanTest(t, r, tableA)
	orderID := createOrderTest(t, r, sessionTokenA, menuID)

	// Customer calls for water.
	staffCallTest(t, r, sessionTokenA)

	// Kitchen takes the order.
	advanceStatusTest(t, r, token, orderID, "preparing")
	advanceStatusTest(t, r, token, orderID, "ready")

	// Second customer scans table B so both tables hold a session.
	scanTest(t, r, tableB)

	// Merge A into B.
	mergeTest(t, r, token, tableA, tableB)

	// The source token no longer validates.
	w := doRequest(r, http.MethodGet, "/qr/session?token="+sessionTokenA, nil, "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for merged session token, got %d: %s", w.Code, w.Body.String())
	}

	// The order reports table B now.
	w = doRequest(r, http.MethodGet, fmt.Sprintf("/admin/orders/%d", orderID), nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("get order: code=%d body=%s", w.Code, w.Body.String())
	}
	var orderResp struct {
		Data models.Order `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &orderResp); err != nil {
		t.Fatal(err)
	}
	if orderResp.Data.TableID != tableB {
		t.Fatalf("expected order on table %d after merge, got %d", tableB, orderResp.Data.TableID)
	}
}

func TestScanDisabledTableForbidden(t *testing.T) {
	db := setupTestDB()
	r := router.SetupRouter(db)
	token := loginTest(t, r)

	tableID := createTableTest(t, r, token, "A1")
	body := map[string]interface{}{"qr_ordering_enabled": false}
	w := doRequest(r, http.MethodPatch, fmt.Sprintf("/admin/tables/%d", tableID), body, token)
	if w.Code != http.StatusOK {
		t.Fatalf("disable QR: code=%d body=%s", w.Code, w.Body.String())
	}

	w = doRequest(r, http.MethodPost, fmt.Sprintf("/qr/tables/%d/scan", tableID), nil, "")
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 scanning disabled table, got %d", w.Code)
	}
}

func TestSeatOccupiedTableConflict(t *testing.T) {
	db := setupTestDB()
	r := router.SetupRouter(db)
	token := loginTest(t, r)
	tableID := createTableTest(t, r, token, "A1")

	first := checkInTest(t, r, token)
	second := checkInTest(t, r, token)

	w := doRequest(r, http.MethodPost,
		fmt.Sprintf("/admin/sessions/%d/seat", first),
		map[string]interface{}{"table_id": tableID}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("seat first party: code=%d body=%s", w.Code, w.Body.String())
	}

	w = doRequest(r, http.MethodPost,
		fmt.Sprintf("/admin/sessions/%d/seat", second),
		map[string]interface{}{"table_id": tableID}, token)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 seating second party, got %d: %s", w.Code, w.Body.String())
	}
}

func TestDuplicateTableNumberConflict(t *testing.T) {
	db := setupTestDB()
	r := router.SetupRouter(db)
	token := loginTest(t, r)

	createTableTest(t, r, token, "A1")

	w := doRequest(r, http.MethodPost, "/admin/tables", map[string]interface{}{
		"number":   "A1",
		"capacity": 2,
	}, token)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate table number, got %d: %s", w.Code, w.Body.String())
	}
}

func TestTableNumberUniquePerOwnerOnly(t *testing.T) {
	db := setupTestDB()
	r := router.SetupRouter(db)

	token := loginTest(t, r)
	createTableTest(t, r, token, "A1")

	// A second restaurant may reuse the number.
	w := doRequest(r, http.MethodPost, "/register", map[string]string{
		"name":     "Second Owner",
		"email":    "second@example.com",
		"password": "secret456",
	}, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("register second owner: code=%d body=%s", w.Code, w.Body.String())
	}

	w = doRequest(r, http.MethodPost, "/login", map[string]string{
		"email":    "second@example.com",
		"password": "secret456",
	}, "")
	if w.Code != http.StatusOK {
		t.Fatalf("login second owner: code=%d body=%s", w.Code, w.Body.String())
	}
	var resp struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}

	createTableTest(t, r, resp.Data.Token, "A1")
}

func TestAdminRoutesRequireAuth(t *testing.T) {
	db := setupTestDB()
	r := router.SetupRouter(db)

	w := doRequest(r, http.MethodGet, "/admin/orders", nil, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}
}

// ---------------------------------------------------------------
//                      helpers
// ---------------------------------------------------------------

func setupTestDB() *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to open in-memory sqlite: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Table{},
		&models.QRSession{},
		&models.CustomerSession{},
		&models.MenuCategory{},
		&models.Menu{},
		&models.Order{},
		&models.OrderItem{},
		&models.CancelReason{},
		&models.StaffCall{},
		&models.MusicRequest{},
	)
	if err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	hashed, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	db.Create(&models.User{
		Name:     "Test Owner",
		Email:    "owner@example.com",
		Password: string(hashed),
		Role:     models.RoleOwner,
	})

	return db
}

func doRequest(r *gin.Engine, method, url string, body interface{}, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}

	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func loginTest(t *testing.T, r *gin.Engine) string {
	w := doRequest(r, http.MethodPost, "/login", map[string]string{
		"email":    "owner@example.com",
		"password": "secret123",
	}, "")
	if w.Code != http.StatusOK {
		t.Fatalf("login fail: code=%d, body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	return resp.Data.Token
}

func createTableTest(t *testing.T, r *gin.Engine, token, number string) uint {
	w := doRequest(r, http.MethodPost, "/admin/tables", map[string]interface{}{
		"number":   number,
		"capacity": 4,
	}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("create table fail: code=%d, body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Data models.Table `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	return resp.Data.ID
}

func createMenuTest(t *testing.T, r *gin.Engine, token string) uint {
	w := doRequest(r, http.MethodPost, "/admin/categories", map[string]interface{}{
		"name": "Mains",
	}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("create category fail: code=%d, body=%s", w.Code, w.Body.String())
	}
	var catResp struct {
		Data models.MenuCategory `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &catResp); err != nil {
		t.Fatal(err)
	}

	w = doRequest(r, http.MethodPost, "/admin/menus", map[string]interface{}{
		"category_id": catResp.Data.ID,
		"name":        "Fried Rice",
		"price":       15000,
	}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("create menu fail: code=%d, body=%s", w.Code, w.Body.String())
	}
	var menuResp struct {
		Data models.Menu `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &menuResp); err != nil {
		t.Fatal(err)
	}
	return menuResp.Data.ID
}

func scanTest(t *testing.T, r *gin.Engine, tableID uint) string {
	w := doRequest(r, http.MethodPost, fmt.Sprintf("/qr/tables/%d/scan", tableID),
		map[string]interface{}{"customer_name": "Walk-in", "guest_count": 2}, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("scan fail: code=%d, body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	return resp.Data.Token
}

func createOrderTest(t *testing.T, r *gin.Engine, sessionToken string, menuID uint) uint {
	w := doRequest(r, http.MethodPost, "/qr/orders", map[string]interface{}{
		"token": sessionToken,
		"items": []map[string]interface{}{
			{"menu_id": menuID, "quantity": 2},
		},
	}, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("create order fail: code=%d, body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Data models.Order `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Data.TotalAmount != 30000 {
		t.Fatalf("expected total 30000, got %v", resp.Data.TotalAmount)
	}
	return resp.Data.ID
}

func staffCallTest(t *testing.T, r *gin.Engine, sessionToken string) {
	w := doRequest(r, http.MethodPost, "/qr/staff-calls", map[string]interface{}{
		"token": sessionToken,
		"type":  "water",
	}, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("staff call fail: code=%d, body=%s", w.Code, w.Body.String())
	}
}

func advanceStatusTest(t *testing.T, r *gin.Engine, token string, orderID uint, status string) {
	w := doRequest(r, http.MethodPatch,
		fmt.Sprintf("/admin/orders/%d/status", orderID),
		map[string]interface{}{"status": status}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("advance to %s fail: code=%d, body=%s", status, w.Code, w.Body.String())
	}
}

func mergeTest(t *testing.T, r *gin.Engine, token string, sourceTable, targetTable uint) {
	w := doRequest(r, http.MethodPost, "/admin/tables/merge", map[string]interface{}{
		"source_table_id": sourceTable,
		"target_table_id": targetTable,
	}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("merge fail: code=%d, body=%s", w.Code, w.Body.String())
	}
}

func checkInTest(t *testing.T, r *gin.Engine, token string) uint {
	w := doRequest(r, http.MethodPost, "/admin/sessions", map[string]interface{}{
		"party_size": 2,
	}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("check-in fail: code=%d, body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Data models.CustomerSession `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	return resp.Data.ID
}
