package services

import (
	"encoding/json"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/praditya/boardgame-venue/models"
	"github.com/praditya/boardgame-venue/store"
	"github.com/praditya/boardgame-venue/utils"
)

// ChangeMonitor memantau change feed hosted store untuk perubahan
// otoritatif yang datang dari luar kanal broadcast (mis. tulisan
// server-side). Perubahan sesi dialirkan ke jalur merge store, jadi
// tidak pernah memicu side effect lokal.
type ChangeMonitor struct {
	DB       *gorm.DB
	Store    *store.Store
	StopChan chan struct{}
	Interval time.Duration

	mu       sync.Mutex
	watchers map[string]map[int]func(models.DBChange)
	nextID   int
}

func NewChangeMonitor(db *gorm.DB, st *store.Store) *ChangeMonitor {
	return &ChangeMonitor{
		DB:       db,
		Store:    st,
		StopChan: make(chan struct{}),
		Interval: 1 * time.Second,
		watchers: make(map[string]map[int]func(models.DBChange)),
	}
}

func (cm *ChangeMonitor) Start() {
	go func() {
		ticker := time.NewTicker(cm.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				cm.checkChanges()
			case <-cm.StopChan:
				return
			}
		}
	}()
}

func (cm *ChangeMonitor) Stop() {
	close(cm.StopChan)
}

// Watch mendaftarkan callback untuk satu tabel dan mengembalikan
// fungsi unsubscribe.
func (cm *ChangeMonitor) Watch(table string, fn func(models.DBChange)) func() {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if cm.watchers[table] == nil {
		cm.watchers[table] = make(map[int]func(models.DBChange))
	}
	id := cm.nextID
	cm.nextID++
	cm.watchers[table][id] = fn

	return func() {
		cm.mu.Lock()
		defer cm.mu.Unlock()
		delete(cm.watchers[table], id)
	}
}

func (cm *ChangeMonitor) checkChanges() {
	var changes []models.DBChange

	tx := cm.DB.Begin()
	if err := tx.Where("processed = ?", false).
		Order("changed_at ASC").
		Limit(100).
		Find(&changes).Error; err != nil {
		tx.Rollback()
		utils.ErrorLogger.Printf("Error fetching changes: %v", err)
		return
	}

	for _, change := range changes {
		cm.apply(change)
		cm.notify(change)

		if err := tx.Model(&models.DBChange{}).
			Where("id = ?", change.ID).
			Update("processed", true).Error; err != nil {
			utils.ErrorLogger.Printf("Error marking change %d processed: %v", change.ID, err)
		}
	}

	if err := tx.Commit().Error; err != nil {
		utils.ErrorLogger.Printf("Error committing change batch: %v", err)
	}
}

// apply mengalirkan baris change feed ke state lokal. Hanya sesi yang
// otoritatif dari server; tabel lain cukup lewat watcher callback.
func (cm *ChangeMonitor) apply(change models.DBChange) {
	if cm.Store == nil || change.TableName != "sessions" {
		return
	}

	switch change.ActionType {
	case "INSERT", "UPDATE":
		var sess models.Session
		if err := cm.DB.First(&sess, "id = ?", change.RecordID).Error; err != nil {
			utils.ErrorLogger.Printf("change feed: session %s not readable: %v", change.RecordID, err)
			return
		}
		raw, err := json.Marshal(sess)
		if err != nil {
			return
		}
		action := store.ActionAdd
		if change.ActionType == "UPDATE" {
			action = store.ActionUpdate
		}
		// Record penuh dipakai sebagai delta: overwrite per field
		if err := cm.Store.ApplyRemote("session", action, sess.ID, raw, raw); err != nil {
			utils.ErrorLogger.Printf("change feed: merge session %s failed: %v", sess.ID, err)
		}
	case "DELETE":
		if err := cm.Store.ApplyRemote("session", store.ActionDelete, change.RecordID, nil, nil); err != nil {
			utils.ErrorLogger.Printf("change feed: delete session %s failed: %v", change.RecordID, err)
		}
	}
}

func (cm *ChangeMonitor) notify(change models.DBChange) {
	cm.mu.Lock()
	fns := make([]func(models.DBChange), 0, len(cm.watchers[change.TableName]))
	for _, fn := range cm.watchers[change.TableName] {
		fns = append(fns, fn)
	}
	cm.mu.Unlock()

	for _, fn := range fns {
		fn(change)
	}
}
