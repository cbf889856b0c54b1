package store

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/praditya/boardgame-venue/config"
	"github.com/praditya/boardgame-venue/models"
	"github.com/praditya/boardgame-venue/utils"
)

func TestMain(m *testing.M) {
	utils.InitLogger()
	os.Exit(m.Run())
}

func testConfig() config.Config {
	return config.Config{
		TablePoolSize: 5,
		FirstHourRate: 30,
		ExtraHourRate: 30,
		TableDefaults: []config.TableDefault{
			{FromNumber: 1, ToNumber: 3, Capacity: 4, TableType: "regular"},
			{FromNumber: 4, ToNumber: 5, Capacity: 8, TableType: "large"},
		},
	}
}

// newTestStore -> store in-memory tanpa snapshot DB, pool sudah digenerate
func newTestStore(t *testing.T) *Store {
	s, err := New(testConfig(), nil)
	assert.NoError(t, err)
	assert.NoError(t, s.Load())
	return s
}

func TestLoadGeneratesTablePool(t *testing.T) {
	s := newTestStore(t)

	tables := s.Tables()
	assert.Len(t, tables, 5)
	for _, tbl := range tables {
		assert.Equal(t, models.TableAvailable, tbl.Status)
		assert.Nil(t, tbl.CurrentSessionID)
	}
	// Kapasitas mengikuti tabel konfigurasi
	assert.Equal(t, 4, tables[0].Capacity)
	assert.Equal(t, 8, tables[4].Capacity)
	assert.Equal(t, "large", tables[4].TableType)
}

func TestClaimTable(t *testing.T) {
	s := newTestStore(t)
	now := time.Now()

	table, err := s.ClaimTable(1, 3, "sess-1", "Budi", now)
	assert.NoError(t, err)
	assert.Equal(t, models.TableOccupied, table.Status)
	assert.Equal(t, "sess-1", *table.CurrentSessionID)
	assert.Equal(t, "Budi", *table.CustomerName)

	// Klaim kedua oleh sesi lain -> conflict dengan detail penghuni
	_, err = s.ClaimTable(1, 2, "sess-2", "Sari", now)
	var conflict *ConflictError
	assert.ErrorAs(t, err, &conflict)
	assert.Equal(t, "sess-1", conflict.SessionID)

	// Klaim ulang oleh sesi yang sama idempotent
	_, err = s.ClaimTable(1, 3, "sess-1", "Budi", now)
	assert.NoError(t, err)
}

func TestClaimTableValidation(t *testing.T) {
	s := newTestStore(t)

	_, err := s.ClaimTable(99, 2, "sess-1", "Budi", time.Now())
	assert.ErrorIs(t, err, ErrTableNotFound)

	// Meja 1 kapasitas 4
	_, err = s.ClaimTable(1, 5, "sess-1", "Budi", time.Now())
	assert.ErrorIs(t, err, ErrCapacityExceeded)
}

func TestCompleteSessionReleasesTable(t *testing.T) {
	s := newTestStore(t)
	now := time.Now()

	_, err := s.ClaimTable(2, 2, "sess-1", "Budi", now)
	assert.NoError(t, err)
	s.AddSession(models.Session{
		ID: "sess-1", TableID: 2, TableNumber: 2, PartySize: 2,
		CustomerName: "Budi", Status: models.SessionActive, StartTime: now,
	})

	end := now.Add(time.Hour)
	sess, transitioned, err := s.CompleteSession("sess-1", end, 1.0, 60)
	assert.NoError(t, err)
	assert.True(t, transitioned)
	assert.Equal(t, models.SessionCompleted, sess.Status)
	assert.Equal(t, 1.0, sess.Hours)
	assert.Equal(t, 60.0, sess.TotalCost)

	table, _ := s.TableByID(2)
	assert.Equal(t, models.TableAvailable, table.Status)
	assert.Nil(t, table.CurrentSessionID)

	// Complete kedua kali -> no-op, hours/cost tidak berubah
	sess2, transitioned, err := s.CompleteSession("sess-1", end.Add(time.Hour), 99, 999)
	assert.NoError(t, err)
	assert.False(t, transitioned)
	assert.Equal(t, 1.0, sess2.Hours)
	assert.Equal(t, 60.0, sess2.TotalCost)
}

func TestTableSessionInvariant(t *testing.T) {
	s := newTestStore(t)
	now := time.Now()

	_, err := s.ClaimTable(1, 2, "sess-1", "Budi", now)
	assert.NoError(t, err)
	s.AddSession(models.Session{
		ID: "sess-1", TableID: 1, PartySize: 2, Status: models.SessionActive, StartTime: now,
	})

	assertInvariant := func() {
		for _, tbl := range s.Tables() {
			if tbl.Status == models.TableOccupied {
				assert.NotNil(t, tbl.CurrentSessionID)
				occ, ok := s.SessionByID(*tbl.CurrentSessionID)
				assert.True(t, ok)
				assert.Equal(t, models.SessionActive, occ.Status)
			} else {
				assert.Nil(t, tbl.CurrentSessionID)
			}
		}
	}

	assertInvariant()
	_, _, err = s.CompleteSession("sess-1", now.Add(time.Hour), 1, 60)
	assert.NoError(t, err)
	assertInvariant()
}

func TestSetTableStatusRejectsOccupied(t *testing.T) {
	s := newTestStore(t)

	_, err := s.ClaimTable(3, 2, "sess-1", "Budi", time.Now())
	assert.NoError(t, err)

	_, err = s.SetTableStatus(3, models.TableMaintenance)
	var conflict *ConflictError
	assert.ErrorAs(t, err, &conflict)

	table, err := s.SetTableStatus(4, models.TableMaintenance)
	assert.NoError(t, err)
	assert.Equal(t, models.TableMaintenance, table.Status)
}

func TestFirstEligiblePromotionStorageOrder(t *testing.T) {
	s := newTestStore(t)
	now := time.Now()

	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	s.AddPromotion(models.Promotion{ID: "p1", Name: "Expired", IsActive: true, EndDate: &past})
	s.AddPromotion(models.Promotion{ID: "p2", Name: "Second", IsActive: true})
	s.AddPromotion(models.Promotion{ID: "p3", Name: "Third", IsActive: true, StartDate: &past, EndDate: &future})

	// Promo pertama yang berlaku menurut urutan penyimpanan
	promo, ok := s.FirstEligiblePromotion(now)
	assert.True(t, ok)
	assert.Equal(t, "p2", promo.ID)
}

func TestResetClearsAuditAndRegeneratesTables(t *testing.T) {
	s := newTestStore(t)

	_, err := s.ClaimTable(1, 2, "sess-1", "Budi", time.Now())
	assert.NoError(t, err)
	s.AddActivity("session_start", "Budi started", 1, nil)
	assert.Len(t, s.ActivityLogs(), 1)

	s.Reset()

	assert.Empty(t, s.ActivityLogs())
	tables := s.Tables()
	assert.Len(t, tables, 5)
	for _, tbl := range tables {
		assert.Equal(t, models.TableAvailable, tbl.Status)
	}
}

func TestUpdateSessionOverlay(t *testing.T) {
	s := newTestStore(t)
	s.AddSession(models.Session{ID: "sess-1", PartySize: 2, Status: models.SessionActive, Notes: "old"})

	sess, err := s.UpdateSession("sess-1", []byte(`{"notes":"window seat","party_size":3}`))
	assert.NoError(t, err)
	assert.Equal(t, "window seat", sess.Notes)
	assert.Equal(t, 3, sess.PartySize)
	assert.Equal(t, models.SessionActive, sess.Status)

	_, err = s.UpdateSession("missing", []byte(`{"notes":"x"}`))
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
