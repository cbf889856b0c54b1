package store

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/praditya/boardgame-venue/models"
	"github.com/praditya/boardgame-venue/utils"
)

// Aksi merge dari terminal lain.
const (
	ActionAdd    = "add"
	ActionUpdate = "update"
	ActionEnd    = "end"
	ActionDelete = "delete"
)

// overlay menimpa field dst dari delta JSON (shallow, field-level overwrite).
// Last-write-wins: tidak ada causal ordering antar terminal.
func overlay(dst interface{}, updates []byte) error {
	base, err := json.Marshal(dst)
	if err != nil {
		return err
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(base, &m); err != nil {
		return err
	}
	var u map[string]json.RawMessage
	if err := json.Unmarshal(updates, &u); err != nil {
		return err
	}
	for k, v := range u {
		m[k] = v
	}
	merged, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return json.Unmarshal(merged, dst)
}

// ApplyRemote menerapkan satu event replikasi ke state lokal. Jalur ini
// bebas side effect: tidak menulis audit, tidak membuat payment, tidak
// menyiarkan ulang. Semua cabang idempotent dan tahan out-of-order:
//   - add: abaikan jika id sudah ada
//   - update: drop jika id belum ada
//   - end/delete: no-op jika sudah terminal/absen
func (s *Store) ApplyRemote(kind, action, entityID string, entity, updates []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch kind {
	case "session":
		return s.mergeSessionLocked(action, entityID, entity, updates)
	case "table":
		return s.mergeTableLocked(action, entityID, updates)
	case "customer":
		return mergeCollection(s, action, entityID, entity, updates,
			&s.customers, KeyCustomers, func(c *models.Customer) string { return c.ID })
	case "game":
		return mergeCollection(s, action, entityID, entity, updates,
			&s.games, KeyGames, func(g *models.Game) string { return g.ID })
	case "payment":
		return mergeCollection(s, action, entityID, entity, updates,
			&s.payments, KeyPayments, func(p *models.Payment) string { return p.ID })
	case "reservation":
		return mergeCollection(s, action, entityID, entity, updates,
			&s.reservations, KeyReservations, func(r *models.Reservation) string { return r.ID })
	case "analytics":
		// Hanya untuk tampilan terminal owner, tidak ada state yang di-merge
		return nil
	default:
		// Payload asing -> drop, konvergensi mengandalkan event berikutnya
		utils.ErrorLogger.Printf("dropping replication event with unknown kind %q", kind)
		return nil
	}
}

func (s *Store) mergeSessionLocked(action, entityID string, entity, updates []byte) error {
	switch action {
	case ActionAdd:
		var sess models.Session
		if err := json.Unmarshal(entity, &sess); err != nil || sess.ID == "" {
			return err
		}
		for _, existing := range s.sessions {
			if existing.ID == sess.ID {
				return nil // duplikat -> state lokal tidak berubah
			}
		}
		s.sessions = append(s.sessions, sess)
		s.flush(KeySessions, s.sessions)
		if sess.Status == models.SessionActive {
			s.occupyTableLocked(&sess)
		}

	case ActionUpdate:
		for i := range s.sessions {
			if s.sessions[i].ID == entityID {
				wasActive := s.sessions[i].Status == models.SessionActive
				if err := overlay(&s.sessions[i], updates); err != nil {
					return err
				}
				s.sessions[i].ID = entityID
				s.flush(KeySessions, s.sessions)
				// Delta yang membawa status terminal tetap harus melepas
				// meja, invariant meja<->sesi tidak boleh bocor lewat merge
				if wasActive && s.sessions[i].IsTerminal() {
					s.releaseTableLocked(s.sessions[i].TableID)
				}
				return nil
			}
		}
		// id belum dikenal -> drop, tidak membuat entity out-of-order

	case ActionEnd:
		for i := range s.sessions {
			if s.sessions[i].ID != entityID {
				continue
			}
			sess := &s.sessions[i]
			if sess.IsTerminal() {
				return nil
			}
			// Payload end membawa sesi lengkap dengan hours/cost final
			if len(entity) > 0 {
				if err := overlay(sess, entity); err != nil {
					return err
				}
				sess.ID = entityID
			}
			if !sess.IsTerminal() {
				sess.Status = models.SessionCompleted
			}
			s.flush(KeySessions, s.sessions)
			s.releaseTableLocked(sess.TableID)
			return nil
		}

	case ActionDelete:
		for i := range s.sessions {
			if s.sessions[i].ID == entityID {
				wasActive := s.sessions[i].Status == models.SessionActive
				tableID := s.sessions[i].TableID
				s.sessions = append(s.sessions[:i], s.sessions[i+1:]...)
				s.flush(KeySessions, s.sessions)
				if wasActive {
					s.releaseTableLocked(tableID)
				}
				return nil
			}
		}
	}
	return nil
}

// occupyTableLocked menjaga invariant meja<->sesi saat sesi aktif masuk
// lewat merge. Klaim ganda diselesaikan last-write-wins.
func (s *Store) occupyTableLocked(sess *models.Session) {
	for i := range s.tables {
		if s.tables[i].ID == sess.TableID {
			t := &s.tables[i]
			t.Status = models.TableOccupied
			t.CurrentSessionID = &sess.ID
			name := sess.CustomerName
			t.CustomerName = &name
			start := sess.StartTime
			t.OccupiedSince = &start
			t.UpdatedAt = time.Now()
			s.flush(KeyTables, s.tables)
			return
		}
	}
}

func (s *Store) mergeTableLocked(action, entityID string, updates []byte) error {
	id, err := strconv.ParseUint(entityID, 10, 32)
	if err != nil {
		return err
	}

	switch action {
	case ActionAdd, ActionUpdate:
		// Pool meja fixed-size: add diperlakukan sama dengan update
		for i := range s.tables {
			if s.tables[i].ID == uint(id) {
				if err := overlay(&s.tables[i], updates); err != nil {
					return err
				}
				s.tables[i].ID = uint(id)
				s.flush(KeyTables, s.tables)
				return nil
			}
		}
	case ActionEnd, ActionDelete:
		s.releaseTableLocked(uint(id))
	}
	return nil
}

// mergeCollection adalah merge generik untuk koleksi ber-id string.
func mergeCollection[T any](s *Store, action, entityID string, entity, updates []byte,
	coll *[]T, key string, id func(*T) string) error {

	switch action {
	case ActionAdd:
		var item T
		if err := json.Unmarshal(entity, &item); err != nil || id(&item) == "" {
			return err
		}
		for i := range *coll {
			if id(&(*coll)[i]) == id(&item) {
				return nil
			}
		}
		*coll = append(*coll, item)
		s.flush(key, *coll)

	case ActionUpdate:
		for i := range *coll {
			if id(&(*coll)[i]) == entityID {
				if err := overlay(&(*coll)[i], updates); err != nil {
					return err
				}
				s.flush(key, *coll)
				return nil
			}
		}

	case ActionEnd, ActionDelete:
		for i := range *coll {
			if id(&(*coll)[i]) == entityID {
				*coll = append((*coll)[:i], (*coll)[i+1:]...)
				s.flush(key, *coll)
				return nil
			}
		}
	}
	return nil
}
