package services

import (
	"time"

	"gorm.io/gorm"

	"github.com/praditya/boardgame-venue/models"
)

// CollabStore adalah kontrak ke hosted store yang dipakai bersama semua
// terminal. Setiap tulisan juga mencatat baris db_changes supaya terminal
// lain bisa menangkapnya lewat change feed (lihat ChangeMonitor).
type CollabStore struct {
	DB *gorm.DB
}

func NewCollabStore(db *gorm.DB) (*CollabStore, error) {
	err := db.AutoMigrate(
		&models.Operator{},
		&models.Session{},
		&models.Payment{},
		&models.Customer{},
		&models.Promotion{},
		&models.Reservation{},
		&models.Game{},
		&models.DBChange{},
	)
	if err != nil {
		return nil, err
	}
	return &CollabStore{DB: db}, nil
}

// Create -> simpan record baru dan catat di change feed
func (cs *CollabStore) Create(table, id string, record interface{}) error {
	if err := cs.DB.Create(record).Error; err != nil {
		return err
	}
	return cs.recordChange(table, id, "INSERT")
}

// Update -> partial update by id dan catat di change feed
func (cs *CollabStore) Update(table, id string, partial map[string]interface{}, model interface{}) error {
	if err := cs.DB.Model(model).Where("id = ?", id).Updates(partial).Error; err != nil {
		return err
	}
	return cs.recordChange(table, id, "UPDATE")
}

// Delete -> hapus by id dan catat di change feed
func (cs *CollabStore) Delete(table, id string, model interface{}) error {
	if err := cs.DB.Where("id = ?", id).Delete(model).Error; err != nil {
		return err
	}
	return cs.recordChange(table, id, "DELETE")
}

// GetAll -> muat semua record satu tabel, panggil callback, lalu pantau
// perubahan berikutnya lewat monitor. Mengembalikan fungsi unsubscribe.
func (cs *CollabStore) GetAll(table string, dest interface{}, monitor *ChangeMonitor, onChange func(models.DBChange)) (func(), error) {
	if err := cs.DB.Table(table).Find(dest).Error; err != nil {
		return nil, err
	}
	if monitor == nil || onChange == nil {
		return func() {}, nil
	}
	return monitor.Watch(table, onChange), nil
}

func (cs *CollabStore) recordChange(table, id, action string) error {
	return cs.DB.Create(&models.DBChange{
		TableName:  table,
		RecordID:   id,
		ActionType: action,
		ChangedAt:  time.Now(),
	}).Error
}
