package events

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/tay1862/mefood-tay-sub002/models"
	"github.com/tay1862/mefood-tay-sub002/utils"
)

// Event types pushed to staff dashboards.
const (
	EventOrderUpdate   = "order_update"
	EventSessionUpdate = "session_update"
	EventTableUpdate   = "table_update"
	EventStaffCall     = "staff_call"
	EventMusicRequest  = "music_request"
	EventStaffNotif    = "staff_notification"
	EventFloorUpdate   = "floor_update"
	EventTablesMerged  = "tables_merged"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

type client struct {
	ownerID uint
	role    string
}

// Hub holds every connected staff dashboard, keyed by connection. Events are
// scoped to one restaurant: a broadcast only reaches clients whose token
// carried the same owner id.
type Hub struct {
	clients map[*websocket.Conn]client
	mutex   sync.Mutex
}

var hub = Hub{
	clients: make(map[*websocket.Conn]client),
}

// RegisterClient adds a connection with its owner scope and role.
func RegisterClient(conn *websocket.Conn, ownerID uint, role string) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	hub.clients[conn] = client{ownerID: ownerID, role: role}
}

// UnregisterClient drops a connection and closes it.
func UnregisterClient(conn *websocket.Conn) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	delete(hub.clients, conn)
	conn.Close()
}

func broadcast(ownerID uint, msg Message) {
	payload, err := json.Marshal(msg)
	if err != nil {
		utils.ErrorLogger.Printf("events: marshal %s: %v", msg.Event, err)
		return
	}

	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	for conn, cl := range hub.clients {
		if cl.ownerID != ownerID {
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			delete(hub.clients, conn)
			conn.Close()
		}
	}
}

// BroadcastOrderUpdate pushes an order's new state to the restaurant's staff.
func BroadcastOrderUpdate(order *models.Order) {
	broadcast(order.OwnerID, Message{Event: EventOrderUpdate, Data: order})
}

// BroadcastSessionUpdate pushes a walk-in session change.
func BroadcastSessionUpdate(session *models.CustomerSession) {
	broadcast(session.OwnerID, Message{Event: EventSessionUpdate, Data: session})
}

// BroadcastTableUpdate pushes a table change (status, layout, activation).
func BroadcastTableUpdate(table *models.Table) {
	broadcast(table.OwnerID, Message{Event: EventTableUpdate, Data: table})
}

// BroadcastStaffCall pushes a customer's call button press.
func BroadcastStaffCall(ownerID uint, call *models.StaffCall) {
	broadcast(ownerID, Message{Event: EventStaffCall, Data: call})
}

// BroadcastMusicRequest pushes a song request.
func BroadcastMusicRequest(ownerID uint, req *models.MusicRequest) {
	broadcast(ownerID, Message{Event: EventMusicRequest, Data: req})
}

// BroadcastStaffNotification pushes a free-form notice to staff.
func BroadcastStaffNotification(ownerID uint, text string) {
	broadcast(ownerID, Message{Event: EventStaffNotif, Data: text})
}

// BroadcastFloorUpdate announces a session moving between tables so
// dashboards refetch the floor state.
func BroadcastFloorUpdate(ownerID uint, session *models.QRSession) {
	broadcast(ownerID, Message{Event: EventFloorUpdate, Data: session})
}

// BroadcastTablesMerged announces a completed merge so dashboards refetch
// the floor state.
func BroadcastTablesMerged(ownerID uint, data interface{}) {
	broadcast(ownerID, Message{Event: EventTablesMerged, Data: data})
}
