package replication

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventKind(t *testing.T) {
	assert.Equal(t, "session", Event{Topic: TopicSession}.Kind())
	assert.Equal(t, "table", Event{Topic: TopicTable}.Kind())
	assert.Equal(t, "analytics", Event{Topic: TopicAnalytics}.Kind())
	assert.Equal(t, "presence", Event{Topic: TopicPresence}.Kind())
}

func TestAddEventCarriesFullEntity(t *testing.T) {
	ev := AddEvent(TopicSession, "sess-1", map[string]string{"customer_name": "Budi"})
	assert.Equal(t, ActionAdd, ev.Action)
	assert.Equal(t, "sess-1", ev.EntityID)

	var payload map[string]string
	assert.NoError(t, json.Unmarshal(ev.Entity, &payload))
	assert.Equal(t, "Budi", payload["customer_name"])
	assert.Nil(t, ev.Updates)
}

func TestUpdateEventCarriesDeltaOnly(t *testing.T) {
	ev := UpdateEvent(TopicSession, "sess-1", map[string]interface{}{"notes": "pindah meja"})
	assert.Equal(t, ActionUpdate, ev.Action)
	assert.Nil(t, ev.Entity)
	assert.NotNil(t, ev.Updates)
}

func TestDeleteEventHasNoPayload(t *testing.T) {
	ev := DeleteEvent(TopicCustomer, "cust-1")
	assert.Equal(t, ActionDelete, ev.Action)
	assert.Nil(t, ev.Entity)
	assert.Nil(t, ev.Updates)
}

func TestEventRoundTrip(t *testing.T) {
	ev := EndEvent(TopicSession, "sess-1", map[string]float64{"total_cost": 60})
	data, err := json.Marshal(ev)
	assert.NoError(t, err)

	var decoded Event
	assert.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, TopicSession, decoded.Topic)
	assert.Equal(t, ActionEnd, decoded.Action)
	assert.Equal(t, "session", decoded.Kind())
}

func TestPresenceEvent(t *testing.T) {
	ev := PresenceEvent(7, "staff", true)
	assert.Equal(t, TopicPresence, ev.Topic)

	var p Presence
	assert.NoError(t, json.Unmarshal(ev.Entity, &p))
	assert.Equal(t, uint(7), p.OperatorID)
	assert.True(t, p.Joined)
}
