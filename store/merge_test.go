package store

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/praditya/boardgame-venue/models"
)

func marshal(t *testing.T, v interface{}) []byte {
	raw, err := json.Marshal(v)
	assert.NoError(t, err)
	return raw
}

func TestMergeSessionAdd(t *testing.T) {
	s := newTestStore(t)
	sess := models.Session{
		ID: "remote-1", CustomerName: "Sari", TableID: 1, TableNumber: 1,
		PartySize: 2, Status: models.SessionActive, StartTime: time.Now(),
	}

	assert.NoError(t, s.ApplyRemote("session", ActionAdd, sess.ID, marshal(t, sess), nil))

	got, ok := s.SessionByID("remote-1")
	assert.True(t, ok)
	assert.Equal(t, "Sari", got.CustomerName)

	// Meja ikut occupied supaya invariant meja<->sesi terjaga
	table, _ := s.TableByID(1)
	assert.Equal(t, models.TableOccupied, table.Status)
	assert.Equal(t, "remote-1", *table.CurrentSessionID)
}

func TestMergeSessionAddDuplicateIgnored(t *testing.T) {
	s := newTestStore(t)
	s.AddSession(models.Session{ID: "sess-1", CustomerName: "Budi", Status: models.SessionActive})

	remote := models.Session{ID: "sess-1", CustomerName: "Penyusup", Status: models.SessionActive}
	assert.NoError(t, s.ApplyRemote("session", ActionAdd, "sess-1", marshal(t, remote), nil))

	// State lokal tidak berubah sama sekali
	sessions := s.Sessions()
	assert.Len(t, sessions, 1)
	assert.Equal(t, "Budi", sessions[0].CustomerName)
}

func TestMergeSessionUpdateUnknownDropped(t *testing.T) {
	s := newTestStore(t)

	err := s.ApplyRemote("session", ActionUpdate, "ghost", nil, []byte(`{"notes":"x"}`))
	assert.NoError(t, err)
	assert.Empty(t, s.Sessions())
}

func TestMergeSessionUpdateOverlaysFields(t *testing.T) {
	s := newTestStore(t)
	s.AddSession(models.Session{ID: "sess-1", Notes: "old", PartySize: 2, Status: models.SessionActive})

	assert.NoError(t, s.ApplyRemote("session", ActionUpdate, "sess-1", nil, []byte(`{"notes":"new"}`)))

	got, _ := s.SessionByID("sess-1")
	assert.Equal(t, "new", got.Notes)
	assert.Equal(t, 2, got.PartySize) // field lain tidak tersentuh
}

func TestMergeSessionUpdateTerminalStatusReleasesTable(t *testing.T) {
	s := newTestStore(t)
	now := time.Now()
	_, err := s.ClaimTable(1, 2, "sess-1", "Budi", now)
	assert.NoError(t, err)
	s.AddSession(models.Session{
		ID: "sess-1", TableID: 1, PartySize: 2, Status: models.SessionActive, StartTime: now,
	})

	// Terminal lain bisa mengirim delta update berisi status terminal;
	// mejanya harus ikut dilepas supaya invariant meja<->sesi terjaga
	assert.NoError(t, s.ApplyRemote("session", ActionUpdate, "sess-1", nil, []byte(`{"status":"completed"}`)))

	got, _ := s.SessionByID("sess-1")
	assert.Equal(t, models.SessionCompleted, got.Status)
	table, _ := s.TableByID(1)
	assert.Equal(t, models.TableAvailable, table.Status)
	assert.Nil(t, table.CurrentSessionID)
}

func TestMergeSessionEnd(t *testing.T) {
	s := newTestStore(t)
	now := time.Now()
	_, err := s.ClaimTable(1, 2, "sess-1", "Budi", now)
	assert.NoError(t, err)
	s.AddSession(models.Session{
		ID: "sess-1", TableID: 1, PartySize: 2, Status: models.SessionActive, StartTime: now,
	})

	end := now.Add(time.Hour)
	final := models.Session{
		ID: "sess-1", TableID: 1, PartySize: 2, Status: models.SessionCompleted,
		StartTime: now, EndTime: &end, Hours: 1.0, TotalCost: 60,
	}
	assert.NoError(t, s.ApplyRemote("session", ActionEnd, "sess-1", marshal(t, final), nil))

	got, _ := s.SessionByID("sess-1")
	assert.Equal(t, models.SessionCompleted, got.Status)
	assert.Equal(t, 60.0, got.TotalCost)

	table, _ := s.TableByID(1)
	assert.Equal(t, models.TableAvailable, table.Status)

	// End kedua kali idempotent
	assert.NoError(t, s.ApplyRemote("session", ActionEnd, "sess-1", marshal(t, final), nil))
	got2, _ := s.SessionByID("sess-1")
	assert.Equal(t, 60.0, got2.TotalCost)
}

func TestMergeSessionDeleteReleasesTable(t *testing.T) {
	s := newTestStore(t)
	now := time.Now()
	_, err := s.ClaimTable(2, 2, "sess-1", "Budi", now)
	assert.NoError(t, err)
	s.AddSession(models.Session{ID: "sess-1", TableID: 2, Status: models.SessionActive, StartTime: now})

	assert.NoError(t, s.ApplyRemote("session", ActionDelete, "sess-1", nil, nil))

	_, ok := s.SessionByID("sess-1")
	assert.False(t, ok)
	table, _ := s.TableByID(2)
	assert.Equal(t, models.TableAvailable, table.Status)

	// Delete untuk id yang sudah hilang -> no-op
	assert.NoError(t, s.ApplyRemote("session", ActionDelete, "sess-1", nil, nil))
}

func TestMergeTableUpdate(t *testing.T) {
	s := newTestStore(t)

	assert.NoError(t, s.ApplyRemote("table", ActionUpdate, "3", nil, []byte(`{"status":"maintenance"}`)))

	table, _ := s.TableByID(3)
	assert.Equal(t, models.TableMaintenance, table.Status)
}

func TestMergeCustomerLifecycle(t *testing.T) {
	s := newTestStore(t)
	cust := models.Customer{ID: "c1", Name: "Sari"}

	assert.NoError(t, s.ApplyRemote("customer", ActionAdd, "c1", marshal(t, cust), nil))
	assert.Len(t, s.Customers(), 1)

	// Duplikat diabaikan
	assert.NoError(t, s.ApplyRemote("customer", ActionAdd, "c1", marshal(t, cust), nil))
	assert.Len(t, s.Customers(), 1)

	assert.NoError(t, s.ApplyRemote("customer", ActionUpdate, "c1", nil, []byte(`{"phone":"0812"}`)))
	got, _ := s.CustomerByID("c1")
	assert.Equal(t, "0812", got.Phone)

	assert.NoError(t, s.ApplyRemote("customer", ActionDelete, "c1", nil, nil))
	assert.Empty(t, s.Customers())
}

func TestMergeUnknownKindDropped(t *testing.T) {
	s := newTestStore(t)
	assert.NoError(t, s.ApplyRemote("wormhole", ActionAdd, "x", []byte(`{}`), nil))
}

func TestMergeMalformedEntityPayload(t *testing.T) {
	s := newTestStore(t)
	err := s.ApplyRemote("session", ActionAdd, "x", []byte(`{bukan json`), nil)
	assert.Error(t, err)
	assert.Empty(t, s.Sessions())
}
