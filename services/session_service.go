package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/praditya/boardgame-venue/models"
	"github.com/praditya/boardgame-venue/pricing"
	"github.com/praditya/boardgame-venue/replication"
	"github.com/praditya/boardgame-venue/store"
	"github.com/praditya/boardgame-venue/utils"
)

var (
	ErrSessionTerminal      = errors.New("session is already completed or cancelled")
	ErrTerminalStatusChange = errors.New("terminal status must be set via end or cancel")
	ErrPaymentSplitMismatch = errors.New("payment sub-amounts do not sum to the collected amount")
)

// Broadcaster menyiarkan event mutasi lokal ke terminal lain.
type Broadcaster interface {
	Publish(ev replication.Event)
}

// SessionService mengorkestrasi transisi state sesi beserta side effect
// pada meja, payment, audit trail, dan kanal replikasi.
type SessionService struct {
	Store     *store.Store
	Validator *AssignmentValidator
	Hub       Broadcaster
	Collab    *CollabStore
	Rate      pricing.Rate

	now func() time.Time
}

func NewSessionService(st *store.Store, hub Broadcaster, rate pricing.Rate) *SessionService {
	return &SessionService{
		Store:     st,
		Validator: NewAssignmentValidator(st),
		Hub:       hub,
		Rate:      rate,
		now:       time.Now,
	}
}

type StartSessionInput struct {
	CustomerID   string
	CustomerName string
	TableID      uint
	PartySize    int
	MaleCount    *int
	FemaleCount  *int
	Notes        string
	OperatorID   uint
}

// Start memulai sesi baru: validasi dulu, klaim meja secara atomik, baru
// tulis sesi. Kalau validasi gagal tidak ada state yang berubah sama sekali.
func (ss *SessionService) Start(in StartSessionInput) (models.Session, error) {
	if err := ss.Validator.ValidateAssignment(in.TableID, in.PartySize); err != nil {
		return models.Session{}, err
	}
	if err := ss.Validator.CheckConflict(in.TableID, ""); err != nil {
		return models.Session{}, err
	}

	now := ss.now()
	sess := models.Session{
		ID:           uuid.NewString(),
		CustomerID:   in.CustomerID,
		CustomerName: in.CustomerName,
		TableID:      in.TableID,
		PartySize:    in.PartySize,
		MaleCount:    in.MaleCount,
		FemaleCount:  in.FemaleCount,
		Status:       models.SessionActive,
		StartTime:    now,
		Notes:        in.Notes,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// Auto-pilih promo pertama yang berlaku (urutan penyimpanan)
	if promo, ok := ss.Store.FirstEligiblePromotion(now); ok {
		sess.PromotionID = &promo.ID
		sess.PromotionName = &promo.Name
	}

	// Validasi diulang di dalam critical section klaim, jadi dua request
	// bersamaan di terminal yang sama tidak bisa mengklaim meja yang sama.
	table, err := ss.Store.ClaimTable(in.TableID, in.PartySize, sess.ID, in.CustomerName, now)
	if err != nil {
		return models.Session{}, err
	}
	sess.TableNumber = table.TableNumber

	ss.Store.AddSession(sess)
	ss.Store.AddActivity("session_start",
		fmt.Sprintf("%s started at table %d (party of %d)", in.CustomerName, table.TableNumber, in.PartySize),
		in.OperatorID, &sess.ID)

	ss.Hub.Publish(replication.AddEvent(replication.TopicSession, sess.ID, sess))
	ss.pushToCollab(func(cs *CollabStore) error {
		return cs.Create("sessions", sess.ID, &sess)
	})
	ss.publishAnalytics()

	utils.InfoLogger.Printf("Session %s started at table %d", sess.ID, table.TableNumber)
	return sess, nil
}

// Update menimpa field non-terminal pada sesi. Perubahan status ikut
// dicatat di audit trail. Event yang disiarkan hanya membawa delta.
// Status terminal tidak boleh lewat sini: completed/cancelled hanya lewat
// End/Cancel, yang menghitung biaya dan melepas meja.
func (ss *SessionService) Update(id string, updates map[string]interface{}, operatorID uint) (models.Session, error) {
	prev, ok := ss.Store.SessionByID(id)
	if !ok {
		return models.Session{}, store.ErrSessionNotFound
	}
	if prev.IsTerminal() {
		return models.Session{}, ErrSessionTerminal
	}
	if status, ok := updates["status"].(string); ok {
		if status == models.SessionCompleted || status == models.SessionCancelled {
			return models.Session{}, ErrTerminalStatusChange
		}
	}

	raw, err := json.Marshal(updates)
	if err != nil {
		return models.Session{}, err
	}
	sess, err := ss.Store.UpdateSession(id, raw)
	if err != nil {
		return models.Session{}, err
	}

	if sess.Status != prev.Status {
		ss.Store.AddActivity("session_status",
			fmt.Sprintf("session for %s changed %s -> %s", sess.CustomerName, prev.Status, sess.Status),
			operatorID, &sess.ID)
	}

	ss.Hub.Publish(replication.UpdateEvent(replication.TopicSession, id, updates))
	ss.pushToCollab(func(cs *CollabStore) error {
		return cs.Update("sessions", id, updates, &models.Session{})
	})

	return sess, nil
}

type EndSessionInput struct {
	AmountCollected float64
	Method          string
	CashAmount      float64
	CardAmount      float64
	OnlineAmount    float64
	OperatorID      uint
}

// End menutup sesi: hitung (hours, cost) sekali lewat pricing engine,
// lepas meja, catat payment kalau ada uang masuk. Idempotent: menutup
// sesi yang sudah terminal adalah no-op tanpa payment/audit/broadcast.
func (ss *SessionService) End(id string, in EndSessionInput) (models.Session, error) {
	prev, ok := ss.Store.SessionByID(id)
	if !ok {
		return models.Session{}, store.ErrSessionNotFound
	}
	if prev.IsTerminal() {
		return prev, nil
	}

	// Pembayaran mixed harus pecah per metode dan totalnya cocok.
	// Toleransi setengah sen untuk akumulasi error float.
	if in.Method == models.PaymentMixed {
		sum := in.CashAmount + in.CardAmount + in.OnlineAmount
		if math.Abs(sum-in.AmountCollected) > 0.005 {
			return models.Session{}, ErrPaymentSplitMismatch
		}
	}

	endTime := ss.now()

	var promo *models.Promotion
	if prev.PromotionID != nil {
		if p, found := ss.Store.PromotionByID(*prev.PromotionID); found {
			promo = &p
		}
	}
	hours, cost := pricing.ComputeCost(prev.StartTime, endTime, prev.PartySize, promo, ss.Rate)

	// Transisi active->completed diputuskan di dalam mutex store. Kalau End
	// lain sudah menang duluan, jangan ulangi payment/audit/broadcast.
	sess, transitioned, err := ss.Store.CompleteSession(id, endTime, hours, cost)
	if err != nil {
		return models.Session{}, err
	}
	if !transitioned {
		return sess, nil
	}

	// Tidak ada payment record untuk sesi gratis (amount 0); sesi
	// completed-nya sendiri yang jadi jejak.
	if in.AmountCollected > 0 {
		method := in.Method
		if method == "" {
			method = models.PaymentCash
		}
		payment := models.Payment{
			ID:           uuid.NewString(),
			SessionID:    id,
			Amount:       in.AmountCollected,
			Method:       method,
			CashAmount:   in.CashAmount,
			CardAmount:   in.CardAmount,
			OnlineAmount: in.OnlineAmount,
			Status:       "success",
			CreatedAt:    endTime,
		}
		ss.Store.AddPayment(payment)
		ss.Hub.Publish(replication.AddEvent(replication.TopicPayment, payment.ID, payment))
		ss.pushToCollab(func(cs *CollabStore) error {
			return cs.Create("payments", payment.ID, &payment)
		})
	}

	ss.Store.AddActivity("session_end",
		fmt.Sprintf("%s finished at table %d: %.1f hours, cost %.2f", sess.CustomerName, sess.TableNumber, hours, cost),
		in.OperatorID, &sess.ID)

	ss.Hub.Publish(replication.EndEvent(replication.TopicSession, id, sess))
	ss.pushToCollab(func(cs *CollabStore) error {
		return cs.Update("sessions", id, map[string]interface{}{
			"status":     sess.Status,
			"end_time":   sess.EndTime,
			"hours":      sess.Hours,
			"total_cost": sess.TotalCost,
		}, &models.Session{})
	})
	ss.publishAnalytics()

	utils.InfoLogger.Printf("Session %s ended: %.1f hours, cost %.2f", id, hours, cost)
	return sess, nil
}

// Cancel membatalkan sesi aktif tanpa biaya. Idempotent seperti End.
func (ss *SessionService) Cancel(id string, operatorID uint) (models.Session, error) {
	prev, ok := ss.Store.SessionByID(id)
	if !ok {
		return models.Session{}, store.ErrSessionNotFound
	}
	if prev.IsTerminal() {
		return prev, nil
	}

	sess, transitioned, err := ss.Store.CancelSession(id, ss.now())
	if err != nil {
		return models.Session{}, err
	}
	if !transitioned {
		return sess, nil
	}

	ss.Store.AddActivity("session_cancel",
		fmt.Sprintf("session for %s at table %d cancelled", sess.CustomerName, sess.TableNumber),
		operatorID, &sess.ID)

	ss.Hub.Publish(replication.EndEvent(replication.TopicSession, id, sess))
	ss.publishAnalytics()
	return sess, nil
}

// AnalyticsSnapshot dikirim ke terminal ber-role owner setiap kali
// lifecycle berubah.
type AnalyticsSnapshot struct {
	TablesOccupied  int     `json:"tables_occupied"`
	TablesAvailable int     `json:"tables_available"`
	ActiveSessions  int     `json:"active_sessions"`
	TodayRevenue    float64 `json:"today_revenue"`
}

func (ss *SessionService) Analytics() AnalyticsSnapshot {
	var snap AnalyticsSnapshot
	for _, t := range ss.Store.Tables() {
		switch t.Status {
		case models.TableOccupied:
			snap.TablesOccupied++
		case models.TableAvailable:
			snap.TablesAvailable++
		}
	}
	today := ss.now().Truncate(24 * time.Hour)
	for _, sess := range ss.Store.Sessions() {
		if sess.Status == models.SessionActive {
			snap.ActiveSessions++
		}
		if sess.Status == models.SessionCompleted && sess.EndTime != nil && !sess.EndTime.Before(today) {
			snap.TodayRevenue += sess.TotalCost
		}
	}
	return snap
}

func (ss *SessionService) publishAnalytics() {
	raw, err := json.Marshal(ss.Analytics())
	if err != nil {
		return
	}
	ss.Hub.Publish(replication.Event{
		Topic:  replication.TopicAnalytics,
		Action: replication.ActionUpdate,
		Entity: raw,
	})
}

// pushToCollab menulis ke hosted store secara fire-and-forget.
func (ss *SessionService) pushToCollab(fn func(cs *CollabStore) error) {
	if ss.Collab == nil {
		return
	}
	cs := ss.Collab
	go func() {
		if err := fn(cs); err != nil {
			utils.ErrorLogger.Printf("collab store write failed: %v", err)
		}
	}()
}
