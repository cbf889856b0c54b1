package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/praditya/boardgame-venue/store"
	"github.com/praditya/boardgame-venue/utils"
)

type PaymentController struct {
	Store *store.Store
}

func NewPaymentController(st *store.Store) *PaymentController {
	return &PaymentController{Store: st}
}

// GetPayments -> semua pembayaran di terminal ini
func (pc *PaymentController) GetPayments(c *gin.Context) {
	payments := pc.Store.Payments()
	if sessionID := c.Query("session_id"); sessionID != "" {
		filtered := payments[:0]
		for _, p := range payments {
			if p.SessionID == sessionID {
				filtered = append(filtered, p)
			}
		}
		payments = filtered
	}
	utils.RespondJSON(c, http.StatusOK, "List of payments", payments)
}

// GetPayment -> detail 1 pembayaran
func (pc *PaymentController) GetPayment(c *gin.Context) {
	payment, ok := pc.Store.PaymentByID(c.Param("payment_id"))
	if !ok {
		utils.RespondError(c, http.StatusNotFound, errors.New("payment not found"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Payment detail", payment)
}
