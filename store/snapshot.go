package store

import (
	"encoding/json"
	"sync"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/praditya/boardgame-venue/utils"
)

// Kunci snapshot per koleksi. Satu blob JSON per koleksi + satu kunci
// terpisah untuk identitas operator yang sedang login.
const (
	KeyCustomers    = "customers"
	KeySessions     = "sessions"
	KeyGames        = "games"
	KeyPayments     = "payments"
	KeyPromotions   = "promotions"
	KeyTables       = "tables"
	KeyReservations = "reservations"
	KeyActivityLogs = "activityLogs"
	KeyOperator     = "operator"
)

type Snapshot struct {
	Key       string    `gorm:"type:varchar(50);primaryKey"`
	Data      []byte    `gorm:"type:blob"`
	UpdatedAt time.Time `gorm:"not null"`
}

// snapshotWriter menulis snapshot lewat satu goroutine penulis. Mutasi
// beruntun pada koleksi yang sama tidak boleh sampai ke disk terbalik
// urutannya; pending menampung state terbaru per kunci dan penulis selalu
// mengambil yang terbaru, jadi flush yang tersusul cukup di-coalesce.
type snapshotWriter struct {
	db      *gorm.DB
	mu      sync.Mutex
	pending map[string][]byte
	wake    chan struct{}
}

func newSnapshotWriter(db *gorm.DB) *snapshotWriter {
	w := &snapshotWriter{
		db:      db,
		pending: make(map[string][]byte),
		wake:    make(chan struct{}, 1),
	}
	go w.run()
	return w
}

func (w *snapshotWriter) enqueue(key string, data []byte) {
	w.mu.Lock()
	w.pending[key] = data
	w.mu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}
}

func (w *snapshotWriter) run() {
	for range w.wake {
		for {
			w.mu.Lock()
			if len(w.pending) == 0 {
				w.mu.Unlock()
				break
			}
			var key string
			var data []byte
			for k, v := range w.pending {
				key, data = k, v
				break
			}
			delete(w.pending, key)
			w.mu.Unlock()

			snap := Snapshot{Key: key, Data: data, UpdatedAt: time.Now()}
			err := w.db.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "key"}},
				DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
			}).Create(&snap).Error
			if err != nil {
				utils.ErrorLogger.Printf("snapshot flush %s failed: %v", key, err)
			}
		}
	}
}

// flush menulis satu koleksi ke snapshot secara fire-and-forget.
// Gagal flush hanya dicatat di log, tidak pernah memblokir caller.
func (s *Store) flush(key string, v interface{}) {
	if s.writer == nil {
		return
	}

	data, err := json.Marshal(v)
	if err != nil {
		utils.ErrorLogger.Printf("snapshot marshal %s failed: %v", key, err)
		return
	}
	s.writer.enqueue(key, data)
}

// loadKey membaca satu blob koleksi; kunci yang belum ada bukan error.
func (s *Store) loadKey(key string, dst interface{}) error {
	if s.snapDB == nil {
		return nil
	}

	var snap Snapshot
	if err := s.snapDB.First(&snap, "key = ?", key).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil
		}
		return err
	}
	if len(snap.Data) == 0 {
		return nil
	}
	return json.Unmarshal(snap.Data, dst)
}
