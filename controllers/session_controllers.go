package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/praditya/boardgame-venue/services"
	"github.com/praditya/boardgame-venue/store"
	"github.com/praditya/boardgame-venue/utils"
)

type SessionController struct {
	Service *services.SessionService
}

func NewSessionController(svc *services.SessionService) *SessionController {
	return &SessionController{Service: svc}
}

// respondStoreError -> petakan error domain ke kode HTTP
func respondStoreError(c *gin.Context, err error) {
	var conflict *store.ConflictError
	switch {
	case errors.As(err, &conflict):
		utils.RespondError(c, http.StatusConflict, err)
	case errors.Is(err, store.ErrTableNotFound), errors.Is(err, store.ErrSessionNotFound):
		utils.RespondError(c, http.StatusNotFound, err)
	case errors.Is(err, store.ErrCapacityExceeded), errors.Is(err, services.ErrSessionTerminal),
		errors.Is(err, services.ErrTerminalStatusChange), errors.Is(err, services.ErrPaymentSplitMismatch):
		utils.RespondError(c, http.StatusUnprocessableEntity, err)
	default:
		utils.RespondError(c, http.StatusInternalServerError, err)
	}
}

func operatorID(c *gin.Context) uint {
	if v, exists := c.Get("operator_id"); exists {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}

// StartSession -> mulai sesi bermain baru di satu meja
func (sc *SessionController) StartSession(c *gin.Context) {
	var req struct {
		CustomerID   string `json:"customer_id"`
		CustomerName string `json:"customer_name" binding:"required"`
		TableID      uint   `json:"table_id" binding:"required"`
		PartySize    int    `json:"party_size" binding:"required,min=1"`
		MaleCount    *int   `json:"male_count"`
		FemaleCount  *int   `json:"female_count"`
		Notes        string `json:"notes"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	sess, err := sc.Service.Start(services.StartSessionInput{
		CustomerID:   req.CustomerID,
		CustomerName: req.CustomerName,
		TableID:      req.TableID,
		PartySize:    req.PartySize,
		MaleCount:    req.MaleCount,
		FemaleCount:  req.FemaleCount,
		Notes:        req.Notes,
		OperatorID:   operatorID(c),
	})
	if err != nil {
		respondStoreError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Session started", sess)
}

// GetAllSessions -> semua sesi di terminal ini
func (sc *SessionController) GetAllSessions(c *gin.Context) {
	sessions := sc.Service.Store.Sessions()
	if status := c.Query("status"); status != "" {
		filtered := sessions[:0]
		for _, s := range sessions {
			if s.Status == status {
				filtered = append(filtered, s)
			}
		}
		sessions = filtered
	}
	utils.RespondJSON(c, http.StatusOK, "List of sessions", sessions)
}

// GetSessionByID -> detail 1 sesi
func (sc *SessionController) GetSessionByID(c *gin.Context) {
	sess, ok := sc.Service.Store.SessionByID(c.Param("session_id"))
	if !ok {
		utils.RespondError(c, http.StatusNotFound, store.ErrSessionNotFound)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Session detail", sess)
}

// UpdateSession -> update field non-terminal (mis. notes)
func (sc *SessionController) UpdateSession(c *gin.Context) {
	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	sess, err := sc.Service.Update(c.Param("session_id"), updates, operatorID(c))
	if err != nil {
		respondStoreError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Session updated", sess)
}

// EndSession -> tutup sesi, hitung biaya, catat pembayaran bila ada
func (sc *SessionController) EndSession(c *gin.Context) {
	var req struct {
		AmountCollected float64 `json:"amount_collected"`
		Method          string  `json:"method"`
		CashAmount      float64 `json:"cash_amount"`
		CardAmount      float64 `json:"card_amount"`
		OnlineAmount    float64 `json:"online_amount"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	sess, err := sc.Service.End(c.Param("session_id"), services.EndSessionInput{
		AmountCollected: req.AmountCollected,
		Method:          req.Method,
		CashAmount:      req.CashAmount,
		CardAmount:      req.CardAmount,
		OnlineAmount:    req.OnlineAmount,
		OperatorID:      operatorID(c),
	})
	if err != nil {
		respondStoreError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Session ended", sess)
}

// CancelSession -> batalkan sesi aktif tanpa biaya
func (sc *SessionController) CancelSession(c *gin.Context) {
	sess, err := sc.Service.Cancel(c.Param("session_id"), operatorID(c))
	if err != nil {
		respondStoreError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Session cancelled", sess)
}
