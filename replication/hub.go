package replication

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/praditya/boardgame-venue/models"
	"github.com/praditya/boardgame-venue/utils"
)

// Applier menerima event dari terminal lain dan menerapkannya ke state
// lokal lewat jalur merge yang bebas side effect.
type Applier interface {
	ApplyRemote(kind, action, entityID string, entity, updates []byte) error
}

type clientInfo struct {
	OperatorID uint
	Role       string
}

// Hub menampung semua terminal yang terhubung dan menyiarkan event ke
// mereka. Hub tidak pernah memegang state entity, hanya payload transien.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]clientInfo
	applier Applier
}

func NewHub(applier Applier) *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]clientInfo),
		applier: applier,
	}
}

// RegisterClient -> menambahkan terminal ke set dan mengumumkan presence join
func (h *Hub) RegisterClient(conn *websocket.Conn, operatorID uint, role string) {
	h.mu.Lock()
	h.clients[conn] = clientInfo{OperatorID: operatorID, Role: role}
	h.mu.Unlock()

	h.broadcast(PresenceEvent(operatorID, role, true), conn)
}

// UnregisterClient -> melepaskan terminal dan mengumumkan presence leave
func (h *Hub) UnregisterClient(conn *websocket.Conn) {
	h.mu.Lock()
	info, exists := h.clients[conn]
	delete(h.clients, conn)
	h.mu.Unlock()
	conn.Close()

	if exists {
		h.broadcast(PresenceEvent(info.OperatorID, info.Role, false), nil)
	}
}

// Publish menyiarkan satu mutasi lokal ke semua terminal terhubung.
// Fire-and-forget: kirim yang gagal hanya dicatat di log.
func (h *Hub) Publish(ev Event) {
	h.broadcast(ev, nil)
}

// HandleInbound memproses satu pesan dari terminal lain: merge ke state
// lokal lalu relay ke terminal lain selain pengirim. Tidak pernah memicu
// side effect lokal dan tidak pernah mengirim balik ke pengirim.
func (h *Hub) HandleInbound(sender *websocket.Conn, data []byte) {
	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		// Payload rusak -> drop
		utils.ErrorLogger.Printf("dropping malformed replication payload: %v", err)
		return
	}

	if ev.Topic != TopicPresence && ev.Topic != TopicAnalytics && h.applier != nil {
		if err := h.applier.ApplyRemote(ev.Kind(), ev.Action, ev.EntityID, ev.Entity, ev.Updates); err != nil {
			utils.ErrorLogger.Printf("merge of %s %s failed: %v", ev.Topic, ev.Action, err)
			// Tetap di-relay; terminal lain mungkin bisa menerapkannya
		}
	}

	h.broadcast(ev, sender)
}

// ClientCount -> jumlah terminal terhubung (untuk observability)
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// broadcast mengirim event ke semua client kecuali pengirim. Topik
// analytics hanya dikirim ke terminal ber-role owner.
func (h *Hub) broadcast(ev Event, except *websocket.Conn) {
	data, err := json.Marshal(ev)
	if err != nil {
		utils.ErrorLogger.Printf("error marshaling replication event: %v", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for conn, info := range h.clients {
		if conn == except {
			continue
		}
		if ev.Topic == TopicAnalytics && info.Role != models.RoleOwner {
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			utils.ErrorLogger.Printf("error sending event to terminal (operator %d): %v", info.OperatorID, err)
			continue
		}
	}
}
