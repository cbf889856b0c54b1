package store

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/praditya/boardgame-venue/config"
	"github.com/praditya/boardgame-venue/models"
	"github.com/praditya/boardgame-venue/utils"
)

var (
	ErrTableNotFound    = errors.New("table not found")
	ErrCapacityExceeded = errors.New("party size exceeds table capacity")
	ErrSessionNotFound  = errors.New("session not found")
)

// ConflictError berisi detail sesi yang sedang menempati meja,
// supaya operator tahu siapa yang harus dikonfirmasi.
type ConflictError struct {
	TableNumber  int
	SessionID    string
	CustomerName string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("table %d is occupied by %s (session %s)",
		e.TableNumber, e.CustomerName, e.SessionID)
}

// OperatorIdentity adalah identitas operator yang login di terminal ini.
// Disimpan di snapshot dengan kunci terpisah.
type OperatorIdentity struct {
	OperatorID uint   `json:"operator_id"`
	Name       string `json:"name"`
	Role       string `json:"role"`
}

// Store memegang seluruh koleksi entity untuk satu terminal. Semua mutasi
// mengubah memori secara sinkron lalu flush snapshot secara fire-and-forget.
// Komponen lain hanya membaca/mengusulkan mutasi lewat store, tidak pernah
// memegang koleksinya langsung.
type Store struct {
	mu     sync.Mutex
	cfg    config.Config
	snapDB *gorm.DB
	writer *snapshotWriter

	tables       []models.Table
	sessions     []models.Session
	customers    []models.Customer
	games        []models.Game
	payments     []models.Payment
	promotions   []models.Promotion
	reservations []models.Reservation
	activityLogs []models.ActivityLog
	operator     *OperatorIdentity
}

func New(cfg config.Config, snapDB *gorm.DB) (*Store, error) {
	s := &Store{cfg: cfg, snapDB: snapDB}
	if snapDB != nil {
		if err := snapDB.AutoMigrate(&Snapshot{}); err != nil {
			return nil, err
		}
		s.writer = newSnapshotWriter(snapDB)
	}
	return s, nil
}

// Load membaca snapshot ke memori. Record dengan identitas ganda dibuang
// (defensif terhadap snapshot korup), dan pool meja digenerate ulang jika
// jumlahnya tidak sesuai konfigurasi.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loadCollection(KeyCustomers, &s.customers)
	s.loadCollection(KeySessions, &s.sessions)
	s.loadCollection(KeyGames, &s.games)
	s.loadCollection(KeyPayments, &s.payments)
	s.loadCollection(KeyPromotions, &s.promotions)
	s.loadCollection(KeyTables, &s.tables)
	s.loadCollection(KeyReservations, &s.reservations)
	s.loadCollection(KeyActivityLogs, &s.activityLogs)

	var op OperatorIdentity
	if err := s.loadKey(KeyOperator, &op); err == nil && op.OperatorID != 0 {
		s.operator = &op
	}

	s.customers = dedupeBy(s.customers, func(c models.Customer) string { return c.ID })
	s.sessions = dedupeBy(s.sessions, func(x models.Session) string { return x.ID })
	s.games = dedupeBy(s.games, func(g models.Game) string { return g.ID })
	s.payments = dedupeBy(s.payments, func(p models.Payment) string { return p.ID })
	s.promotions = dedupeBy(s.promotions, func(p models.Promotion) string { return p.ID })
	s.reservations = dedupeBy(s.reservations, func(r models.Reservation) string { return r.ID })
	s.activityLogs = dedupeBy(s.activityLogs, func(a models.ActivityLog) string { return a.ID })
	s.tables = dedupeBy(s.tables, func(t models.Table) string { return fmt.Sprint(t.TableNumber) })

	if len(s.tables) != s.cfg.TablePoolSize {
		utils.InfoLogger.Printf("table pool size %d does not match configured %d, regenerating",
			len(s.tables), s.cfg.TablePoolSize)
		s.regenerateTablesLocked()
	}

	return nil
}

func (s *Store) loadCollection(key string, dst interface{}) {
	if err := s.loadKey(key, dst); err != nil {
		// Blob korup: mulai dari koleksi kosong, jangan fatal
		utils.ErrorLogger.Printf("snapshot %s corrupted, starting empty: %v", key, err)
	}
}

func dedupeBy[T any](items []T, id func(T) string) []T {
	seen := make(map[string]bool, len(items))
	out := items[:0]
	for _, it := range items {
		k := id(it)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, it)
	}
	return out
}

func (s *Store) regenerateTablesLocked() {
	s.tables = make([]models.Table, 0, s.cfg.TablePoolSize)
	now := time.Now()
	for n := 1; n <= s.cfg.TablePoolSize; n++ {
		capacity, tableType := s.cfg.DefaultFor(n)
		s.tables = append(s.tables, models.Table{
			ID:          uint(n),
			TableNumber: n,
			Status:      models.TableAvailable,
			Capacity:    capacity,
			TableType:   tableType,
			UpdatedAt:   now,
		})
	}
	s.flush(KeyTables, s.tables)
}

// Reset mengosongkan dan menggenerate ulang seluruh pool meja
// serta menghapus audit trail.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.regenerateTablesLocked()
	s.activityLogs = nil
	s.flush(KeyActivityLogs, s.activityLogs)
}

// ---------------------------------------------------------------
//                          TABLES
// ---------------------------------------------------------------

func (s *Store) Tables() []models.Table {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Table, len(s.tables))
	copy(out, s.tables)
	return out
}

func (s *Store) TableByID(id uint) (models.Table, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tables {
		if t.ID == id {
			return t, true
		}
	}
	return models.Table{}, false
}

// ActiveSessionForTable -> sesi aktif yang menempati meja, kecuali excludingID
func (s *Store) ActiveSessionForTable(tableID uint, excludingID string) (models.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeSessionForTableLocked(tableID, excludingID)
}

func (s *Store) activeSessionForTableLocked(tableID uint, excludingID string) (models.Session, bool) {
	for _, sess := range s.sessions {
		if sess.TableID == tableID && sess.Status == models.SessionActive && sess.ID != excludingID {
			return sess, true
		}
	}
	return models.Session{}, false
}

// ClaimTable memvalidasi dan mengklaim meja dalam satu critical section,
// menghilangkan window check-then-act di dalam satu terminal. Antar terminal
// race tetap mungkin: kanal broadcast tidak punya lock bersama, klaim ganda
// diselesaikan last-write-wins di jalur merge.
func (s *Store) ClaimTable(tableID uint, partySize int, sessionID, customerName string, now time.Time) (models.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.tables {
		if s.tables[i].ID == tableID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return models.Table{}, ErrTableNotFound
	}

	t := &s.tables[idx]
	if partySize > t.Capacity {
		return models.Table{}, ErrCapacityExceeded
	}
	if occ, found := s.activeSessionForTableLocked(tableID, sessionID); found {
		return models.Table{}, &ConflictError{
			TableNumber:  t.TableNumber,
			SessionID:    occ.ID,
			CustomerName: occ.CustomerName,
		}
	}
	if t.CurrentSessionID != nil && *t.CurrentSessionID != sessionID {
		return models.Table{}, &ConflictError{
			TableNumber:  t.TableNumber,
			SessionID:    *t.CurrentSessionID,
			CustomerName: derefString(t.CustomerName),
		}
	}

	t.Status = models.TableOccupied
	t.CurrentSessionID = &sessionID
	t.CustomerName = &customerName
	t.OccupiedSince = &now
	t.UpdatedAt = now

	s.flush(KeyTables, s.tables)
	return *t, nil
}

// ReleaseTable mengembalikan meja ke available dan menghapus back-reference.
// Idempotent: melepas meja yang sudah available bukan error.
func (s *Store) ReleaseTable(tableID uint) (models.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.releaseTableLocked(tableID)
}

func (s *Store) releaseTableLocked(tableID uint) (models.Table, error) {
	for i := range s.tables {
		if s.tables[i].ID == tableID {
			t := &s.tables[i]
			t.Status = models.TableAvailable
			t.CurrentSessionID = nil
			t.CustomerName = nil
			t.OccupiedSince = nil
			t.UpdatedAt = time.Now()
			s.flush(KeyTables, s.tables)
			return *t, nil
		}
	}
	return models.Table{}, ErrTableNotFound
}

// SetTableStatus -> perubahan status manual (reserved/maintenance).
// Meja yang sedang dipakai sesi aktif tidak boleh diubah manual.
func (s *Store) SetTableStatus(tableID uint, status string) (models.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.tables {
		if s.tables[i].ID == tableID {
			t := &s.tables[i]
			if t.CurrentSessionID != nil {
				return models.Table{}, &ConflictError{
					TableNumber:  t.TableNumber,
					SessionID:    *t.CurrentSessionID,
					CustomerName: derefString(t.CustomerName),
				}
			}
			t.Status = status
			t.UpdatedAt = time.Now()
			s.flush(KeyTables, s.tables)
			return *t, nil
		}
	}
	return models.Table{}, ErrTableNotFound
}

// ---------------------------------------------------------------
//                          SESSIONS
// ---------------------------------------------------------------

func (s *Store) Sessions() []models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Session, len(s.sessions))
	copy(out, s.sessions)
	return out
}

func (s *Store) SessionByID(id string) (models.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sess := range s.sessions {
		if sess.ID == id {
			return sess, true
		}
	}
	return models.Session{}, false
}

func (s *Store) AddSession(sess models.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = append(s.sessions, sess)
	s.flush(KeySessions, s.sessions)
}

// UpdateSession menimpa field sesi dari delta JSON (shallow merge).
func (s *Store) UpdateSession(id string, updates []byte) (models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.sessions {
		if s.sessions[i].ID == id {
			if err := overlay(&s.sessions[i], updates); err != nil {
				return models.Session{}, err
			}
			s.sessions[i].ID = id // delta tidak boleh mengganti identitas
			s.sessions[i].UpdatedAt = time.Now()
			s.flush(KeySessions, s.sessions)
			return s.sessions[i], nil
		}
	}
	return models.Session{}, ErrSessionNotFound
}

// CompleteSession menutup sesi dan melepas mejanya dalam satu critical
// section. Hours/cost ditulis sekali di sini dan tidak pernah dihitung ulang.
// Nilai balik kedua melaporkan apakah transisi active->completed benar-benar
// terjadi pada panggilan ini; caller memakainya untuk menjaga side effect
// (payment, audit, broadcast) tetap sekali saja saat ada End yang bersamaan.
func (s *Store) CompleteSession(id string, endTime time.Time, hours, cost float64) (models.Session, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.sessions {
		if s.sessions[i].ID != id {
			continue
		}
		sess := &s.sessions[i]
		if sess.Status != models.SessionActive {
			// Sudah terminal -> no-op
			return *sess, false, nil
		}
		sess.Status = models.SessionCompleted
		sess.EndTime = &endTime
		sess.Hours = hours
		sess.TotalCost = cost
		sess.UpdatedAt = time.Now()
		s.flush(KeySessions, s.sessions)

		// Penulisan status sesi otoritatif; kegagalan melepas meja dicatat,
		// tidak boleh hilang diam-diam.
		if _, err := s.releaseTableLocked(sess.TableID); err != nil {
			utils.ErrorLogger.Printf("session %s completed but table %d release failed: %v",
				id, sess.TableID, err)
		}
		return *sess, true, nil
	}
	return models.Session{}, false, ErrSessionNotFound
}

// CancelSession membatalkan sesi aktif tanpa perhitungan biaya. Nilai balik
// kedua sama artinya dengan CompleteSession.
func (s *Store) CancelSession(id string, endTime time.Time) (models.Session, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.sessions {
		if s.sessions[i].ID != id {
			continue
		}
		sess := &s.sessions[i]
		if sess.Status != models.SessionActive {
			return *sess, false, nil
		}
		sess.Status = models.SessionCancelled
		sess.EndTime = &endTime
		sess.UpdatedAt = time.Now()
		s.flush(KeySessions, s.sessions)

		if _, err := s.releaseTableLocked(sess.TableID); err != nil {
			utils.ErrorLogger.Printf("session %s cancelled but table %d release failed: %v",
				id, sess.TableID, err)
		}
		return *sess, true, nil
	}
	return models.Session{}, false, ErrSessionNotFound
}

// ---------------------------------------------------------------
//                     PAYMENTS / PROMOTIONS
// ---------------------------------------------------------------

func (s *Store) Payments() []models.Payment {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Payment, len(s.payments))
	copy(out, s.payments)
	return out
}

func (s *Store) PaymentByID(id string) (models.Payment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.payments {
		if p.ID == id {
			return p, true
		}
	}
	return models.Payment{}, false
}

func (s *Store) AddPayment(p models.Payment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payments = append(s.payments, p)
	s.flush(KeyPayments, s.payments)
}

func (s *Store) Promotions() []models.Promotion {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Promotion, len(s.promotions))
	copy(out, s.promotions)
	return out
}

func (s *Store) PromotionByID(id string) (models.Promotion, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.promotions {
		if p.ID == id {
			return p, true
		}
	}
	return models.Promotion{}, false
}

func (s *Store) AddPromotion(p models.Promotion) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.promotions = append(s.promotions, p)
	s.flush(KeyPromotions, s.promotions)
}

func (s *Store) UpdatePromotion(id string, updates []byte) (models.Promotion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.promotions {
		if s.promotions[i].ID == id {
			if err := overlay(&s.promotions[i], updates); err != nil {
				return models.Promotion{}, err
			}
			s.promotions[i].ID = id
			s.promotions[i].UpdatedAt = time.Now()
			s.flush(KeyPromotions, s.promotions)
			return s.promotions[i], nil
		}
	}
	return models.Promotion{}, gorm.ErrRecordNotFound
}

func (s *Store) DeletePromotion(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.promotions {
		if s.promotions[i].ID == id {
			s.promotions = append(s.promotions[:i], s.promotions[i+1:]...)
			s.flush(KeyPromotions, s.promotions)
			return
		}
	}
}

// FirstEligiblePromotion mengambil promo pertama (urutan penyimpanan) yang
// aktif dan window-nya memuat "now". Urutan penyimpanan dipertahankan sebagai
// perilaku yang diamati, bukan aturan prioritas.
func (s *Store) FirstEligiblePromotion(now time.Time) (models.Promotion, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.promotions {
		if p.EligibleAt(now) {
			return p, true
		}
	}
	return models.Promotion{}, false
}

// ---------------------------------------------------------------
//              CUSTOMERS / GAMES / RESERVATIONS
// ---------------------------------------------------------------

func (s *Store) Customers() []models.Customer {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Customer, len(s.customers))
	copy(out, s.customers)
	return out
}

func (s *Store) CustomerByID(id string) (models.Customer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.customers {
		if c.ID == id {
			return c, true
		}
	}
	return models.Customer{}, false
}

func (s *Store) AddCustomer(c models.Customer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customers = append(s.customers, c)
	s.flush(KeyCustomers, s.customers)
}

func (s *Store) UpdateCustomer(id string, updates []byte) (models.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.customers {
		if s.customers[i].ID == id {
			if err := overlay(&s.customers[i], updates); err != nil {
				return models.Customer{}, err
			}
			s.customers[i].ID = id
			s.customers[i].UpdatedAt = time.Now()
			s.flush(KeyCustomers, s.customers)
			return s.customers[i], nil
		}
	}
	return models.Customer{}, gorm.ErrRecordNotFound
}

func (s *Store) DeleteCustomer(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.customers {
		if s.customers[i].ID == id {
			s.customers = append(s.customers[:i], s.customers[i+1:]...)
			s.flush(KeyCustomers, s.customers)
			return
		}
	}
}

func (s *Store) Games() []models.Game {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Game, len(s.games))
	copy(out, s.games)
	return out
}

func (s *Store) AddGame(g models.Game) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games = append(s.games, g)
	s.flush(KeyGames, s.games)
}

func (s *Store) Reservations() []models.Reservation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Reservation, len(s.reservations))
	copy(out, s.reservations)
	return out
}

func (s *Store) AddReservation(r models.Reservation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reservations = append(s.reservations, r)
	s.flush(KeyReservations, s.reservations)
}

func (s *Store) UpdateReservation(id string, updates []byte) (models.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.reservations {
		if s.reservations[i].ID == id {
			if err := overlay(&s.reservations[i], updates); err != nil {
				return models.Reservation{}, err
			}
			s.reservations[i].ID = id
			s.flush(KeyReservations, s.reservations)
			return s.reservations[i], nil
		}
	}
	return models.Reservation{}, gorm.ErrRecordNotFound
}

// ---------------------------------------------------------------
//                  ACTIVITY LOG / OPERATOR
// ---------------------------------------------------------------

// AddActivity menambahkan entri audit. Hanya dipanggil oleh operasi lokal.
func (s *Store) AddActivity(action, detail string, operatorID uint, sessionID *string) models.ActivityLog {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := models.ActivityLog{
		ID:         uuid.NewString(),
		Action:     action,
		Detail:     detail,
		OperatorID: operatorID,
		SessionID:  sessionID,
		CreatedAt:  time.Now(),
	}
	s.activityLogs = append(s.activityLogs, entry)
	s.flush(KeyActivityLogs, s.activityLogs)
	return entry
}

func (s *Store) ActivityLogs() []models.ActivityLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.ActivityLog, len(s.activityLogs))
	copy(out, s.activityLogs)
	return out
}

func (s *Store) SetOperator(op *OperatorIdentity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.operator = op
	if op == nil {
		s.flush(KeyOperator, OperatorIdentity{})
		return
	}
	s.flush(KeyOperator, *op)
}

func (s *Store) Operator() *OperatorIdentity {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.operator == nil {
		return nil
	}
	op := *s.operator
	return &op
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
