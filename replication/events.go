package replication

import (
	"encoding/json"
	"strings"
)

// Topik kanal replikasi. Satu topik per jenis entity, plus presence
// dan analytics (analytics hanya dikirim ke terminal ber-role owner).
const (
	TopicSession     = "session:update"
	TopicCustomer    = "customer:update"
	TopicGame        = "game:update"
	TopicPayment     = "payment:update"
	TopicTable       = "table:update"
	TopicReservation = "reservation:update"
	TopicAnalytics   = "analytics:update"
	TopicPresence    = "presence"
)

// Aksi dalam payload event.
const (
	ActionAdd    = "add"
	ActionUpdate = "update"
	ActionEnd    = "end"
	ActionDelete = "delete"
)

// Event adalah amplop yang lewat di kanal broadcast. Pengiriman at-most-once,
// tanpa urutan, tanpa ack, tanpa retry.
type Event struct {
	Topic    string          `json:"topic"`
	Action   string          `json:"action,omitempty"`
	EntityID string          `json:"entity_id,omitempty"`
	Entity   json.RawMessage `json:"entity,omitempty"`
	Updates  json.RawMessage `json:"updates,omitempty"`
}

// Kind -> jenis entity dari topik ("session:update" -> "session")
func (e Event) Kind() string {
	if i := strings.IndexByte(e.Topic, ':'); i >= 0 {
		return e.Topic[:i]
	}
	return e.Topic
}

// Presence diumumkan saat terminal join/leave. Untuk observability
// saja, bukan untuk konsistensi.
type Presence struct {
	OperatorID uint   `json:"operator_id"`
	Role       string `json:"role"`
	Joined     bool   `json:"joined"`
}

// AddEvent -> event add dengan payload entity lengkap
func AddEvent(topic, entityID string, entity interface{}) Event {
	raw, _ := json.Marshal(entity)
	return Event{Topic: topic, Action: ActionAdd, EntityID: entityID, Entity: raw}
}

// UpdateEvent -> event update yang membawa delta, bukan record penuh
func UpdateEvent(topic, entityID string, updates interface{}) Event {
	raw, _ := json.Marshal(updates)
	return Event{Topic: topic, Action: ActionUpdate, EntityID: entityID, Updates: raw}
}

// EndEvent -> menutup entity; payload membawa state final
func EndEvent(topic, entityID string, entity interface{}) Event {
	raw, _ := json.Marshal(entity)
	return Event{Topic: topic, Action: ActionEnd, EntityID: entityID, Entity: raw}
}

// DeleteEvent -> menghapus entity by id
func DeleteEvent(topic, entityID string) Event {
	return Event{Topic: topic, Action: ActionDelete, EntityID: entityID}
}

// PresenceEvent -> pengumuman join/leave operator
func PresenceEvent(operatorID uint, role string, joined bool) Event {
	raw, _ := json.Marshal(Presence{OperatorID: operatorID, Role: role, Joined: joined})
	return Event{Topic: TopicPresence, Entity: raw}
}
