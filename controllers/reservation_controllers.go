package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/praditya/boardgame-venue/models"
	"github.com/praditya/boardgame-venue/replication"
	"github.com/praditya/boardgame-venue/services"
	"github.com/praditya/boardgame-venue/store"
	"github.com/praditya/boardgame-venue/utils"
)

type ReservationController struct {
	Store *store.Store
	Hub   services.Broadcaster
}

func NewReservationController(st *store.Store, hub services.Broadcaster) *ReservationController {
	return &ReservationController{Store: st, Hub: hub}
}

// GetAllReservations -> semua reservasi
func (rc *ReservationController) GetAllReservations(c *gin.Context) {
	utils.RespondJSON(c, http.StatusOK, "List of reservations", rc.Store.Reservations())
}

// CreateReservation -> reservasi meja untuk waktu tertentu
func (rc *ReservationController) CreateReservation(c *gin.Context) {
	var req struct {
		CustomerName string    `json:"customer_name" binding:"required"`
		Phone        string    `json:"phone"`
		TableNumber  int       `json:"table_number" binding:"required"`
		PartySize    int       `json:"party_size" binding:"required,min=1"`
		ReservedFor  time.Time `json:"reserved_for" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	reservation := models.Reservation{
		ID:           uuid.NewString(),
		CustomerName: req.CustomerName,
		Phone:        req.Phone,
		TableNumber:  req.TableNumber,
		PartySize:    req.PartySize,
		ReservedFor:  req.ReservedFor,
		Status:       "pending",
		CreatedAt:    time.Now(),
	}

	rc.Store.AddReservation(reservation)
	rc.Hub.Publish(replication.AddEvent(replication.TopicReservation, reservation.ID, reservation))

	utils.InfoLogger.Printf("Reservation created for %s at table %d", req.CustomerName, req.TableNumber)
	utils.RespondJSON(c, http.StatusCreated, "Reservation created", reservation)
}

// CancelReservation -> tandai reservasi batal
func (rc *ReservationController) CancelReservation(c *gin.Context) {
	id := c.Param("reservation_id")
	updates := []byte(`{"status":"cancelled"}`)

	reservation, err := rc.Store.UpdateReservation(id, updates)
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("reservation not found"))
		return
	}

	rc.Hub.Publish(replication.UpdateEvent(replication.TopicReservation, id,
		map[string]interface{}{"status": "cancelled"}))
	utils.RespondJSON(c, http.StatusOK, "Reservation cancelled", reservation)
}
