package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/praditya/boardgame-venue/models"
	"github.com/praditya/boardgame-venue/store"
)

func setupCollab(t *testing.T) (*CollabStore, *store.Store) {
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	assert.NoError(t, err)

	cs, err := NewCollabStore(db)
	assert.NoError(t, err)

	st, err := store.New(testConfig(), nil)
	assert.NoError(t, err)
	assert.NoError(t, st.Load())
	return cs, st
}

func TestCollabStoreRecordsChangeFeed(t *testing.T) {
	cs, _ := setupCollab(t)

	sess := models.Session{ID: "sess-1", CustomerName: "Budi", TableID: 1, Status: models.SessionActive}
	assert.NoError(t, cs.Create("sessions", sess.ID, &sess))
	assert.NoError(t, cs.Update("sessions", sess.ID, map[string]interface{}{"notes": "late"}, &models.Session{}))
	assert.NoError(t, cs.Delete("sessions", sess.ID, &models.Session{}))

	var changes []models.DBChange
	assert.NoError(t, cs.DB.Order("changed_at ASC").Find(&changes).Error)
	assert.Len(t, changes, 3)
	assert.Equal(t, "INSERT", changes[0].ActionType)
	assert.Equal(t, "UPDATE", changes[1].ActionType)
	assert.Equal(t, "DELETE", changes[2].ActionType)
	for _, c := range changes {
		assert.Equal(t, "sessions", c.TableName)
		assert.Equal(t, "sess-1", c.RecordID)
		assert.False(t, c.Processed)
	}
}

func TestChangeMonitorAppliesSessionInsert(t *testing.T) {
	cs, st := setupCollab(t)
	cm := NewChangeMonitor(cs.DB, st)

	sess := models.Session{
		ID: "remote-1", CustomerName: "Sari", TableID: 2, TableNumber: 2,
		PartySize: 2, Status: models.SessionActive, StartTime: time.Now(),
	}
	assert.NoError(t, cs.Create("sessions", sess.ID, &sess))

	cm.checkChanges()

	// Sesi masuk lewat jalur merge: meja ikut occupied, tanpa audit
	got, ok := st.SessionByID("remote-1")
	assert.True(t, ok)
	assert.Equal(t, "Sari", got.CustomerName)
	table, _ := st.TableByID(2)
	assert.Equal(t, models.TableOccupied, table.Status)
	assert.Empty(t, st.ActivityLogs())

	// Baris change feed ditandai processed, polling kedua tidak dobel
	var pending int64
	cs.DB.Model(&models.DBChange{}).Where("processed = ?", false).Count(&pending)
	assert.Zero(t, pending)
}

func TestChangeMonitorAppliesSessionDelete(t *testing.T) {
	cs, st := setupCollab(t)
	cm := NewChangeMonitor(cs.DB, st)

	sess := models.Session{ID: "remote-2", CustomerName: "Sari", TableID: 3, TableNumber: 3,
		Status: models.SessionActive, StartTime: time.Now()}
	assert.NoError(t, cs.Create("sessions", sess.ID, &sess))
	cm.checkChanges()
	table, _ := st.TableByID(3)
	assert.Equal(t, models.TableOccupied, table.Status)

	assert.NoError(t, cs.Delete("sessions", sess.ID, &models.Session{}))
	cm.checkChanges()

	_, ok := st.SessionByID("remote-2")
	assert.False(t, ok)
	table, _ = st.TableByID(3)
	assert.Equal(t, models.TableAvailable, table.Status)
}

func TestChangeMonitorWatchUnsubscribe(t *testing.T) {
	cs, st := setupCollab(t)
	cm := NewChangeMonitor(cs.DB, st)

	var seen []models.DBChange
	unsubscribe := cm.Watch("promotions", func(c models.DBChange) {
		seen = append(seen, c)
	})

	promo := models.Promotion{ID: "p1", Name: "Weekday", IsActive: true}
	assert.NoError(t, cs.Create("promotions", promo.ID, &promo))
	cm.checkChanges()
	assert.Len(t, seen, 1)
	assert.Equal(t, "p1", seen[0].RecordID)

	unsubscribe()
	assert.NoError(t, cs.Update("promotions", promo.ID, map[string]interface{}{"name": "Weekend"}, &models.Promotion{}))
	cm.checkChanges()
	assert.Len(t, seen, 1)
}

func TestCollabGetAllLoadsAndWatches(t *testing.T) {
	cs, st := setupCollab(t)
	cm := NewChangeMonitor(cs.DB, st)

	assert.NoError(t, cs.Create("games", "g1", &models.Game{ID: "g1", Name: "Catan"}))

	var games []models.Game
	calls := 0
	unsubscribe, err := cs.GetAll("games", &games, cm, func(models.DBChange) { calls++ })
	assert.NoError(t, err)
	assert.Len(t, games, 1)

	assert.NoError(t, cs.Create("games", "g2", &models.Game{ID: "g2", Name: "Azul"}))
	cm.checkChanges()
	assert.Equal(t, 2, calls) // insert g1 masih unprocessed saat subscribe

	unsubscribe()
}
