package services

import (
	"github.com/praditya/boardgame-venue/store"
)

// AssignmentValidator memeriksa kapasitas dan konflik jadwal sebelum sebuah
// sesi boleh mengklaim meja. Keduanya read-only terhadap state saat ini;
// klaim final tetap lewat store.ClaimTable yang atomik.
type AssignmentValidator struct {
	Store *store.Store
}

func NewAssignmentValidator(st *store.Store) *AssignmentValidator {
	return &AssignmentValidator{Store: st}
}

// ValidateAssignment -> gagal jika meja tidak dikenal atau rombongan
// melebihi kapasitas meja
func (v *AssignmentValidator) ValidateAssignment(tableID uint, partySize int) error {
	t, ok := v.Store.TableByID(tableID)
	if !ok {
		return store.ErrTableNotFound
	}
	if partySize > t.Capacity {
		return store.ErrCapacityExceeded
	}
	return nil
}

// CheckConflict -> gagal jika ada sesi aktif lain yang menempati meja.
// excludingSessionID dipakai saat memvalidasi ulang sesi yang sudah ada.
func (v *AssignmentValidator) CheckConflict(tableID uint, excludingSessionID string) error {
	if occ, found := v.Store.ActiveSessionForTable(tableID, excludingSessionID); found {
		t, _ := v.Store.TableByID(tableID)
		return &store.ConflictError{
			TableNumber:  t.TableNumber,
			SessionID:    occ.ID,
			CustomerName: occ.CustomerName,
		}
	}
	return nil
}
