package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/praditya/boardgame-venue/models"
	"github.com/praditya/boardgame-venue/store"
	"github.com/praditya/boardgame-venue/utils"
)

type PromotionController struct {
	Store *store.Store
}

func NewPromotionController(st *store.Store) *PromotionController {
	return &PromotionController{Store: st}
}

// GetAllPromotions -> semua promo (aktif maupun tidak)
func (pc *PromotionController) GetAllPromotions(c *gin.Context) {
	utils.RespondJSON(c, http.StatusOK, "List of promotions", pc.Store.Promotions())
}

// GetActivePromotion -> promo pertama yang berlaku saat ini, sama dengan
// yang akan dipilih otomatis saat sesi dimulai
func (pc *PromotionController) GetActivePromotion(c *gin.Context) {
	promo, ok := pc.Store.FirstEligiblePromotion(time.Now())
	if !ok {
		utils.RespondJSON(c, http.StatusOK, "No active promotion", nil)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Active promotion", promo)
}

// CreatePromotion -> menambahkan promo baru
func (pc *PromotionController) CreatePromotion(c *gin.Context) {
	var req struct {
		Name           string     `json:"name" binding:"required"`
		FirstHourPrice float64    `json:"first_hour_price" binding:"required"`
		ExtraHourPrice float64    `json:"extra_hour_price" binding:"required"`
		IsActive       *bool      `json:"is_active"`
		StartDate      *time.Time `json:"start_date"`
		EndDate        *time.Time `json:"end_date"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	now := time.Now()
	promo := models.Promotion{
		ID:             uuid.NewString(),
		Name:           req.Name,
		FirstHourPrice: req.FirstHourPrice,
		ExtraHourPrice: req.ExtraHourPrice,
		IsActive:       true,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if req.IsActive != nil {
		promo.IsActive = *req.IsActive
	}

	pc.Store.AddPromotion(promo)
	utils.InfoLogger.Printf("New promotion created: %s (%.2f/%.2f)", promo.Name, promo.FirstHourPrice, promo.ExtraHourPrice)
	utils.RespondJSON(c, http.StatusCreated, "Promotion created", promo)
}

// UpdatePromotion -> partial update promo
func (pc *PromotionController) UpdatePromotion(c *gin.Context) {
	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	raw, err := json.Marshal(updates)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	promo, err := pc.Store.UpdatePromotion(c.Param("promotion_id"), raw)
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("promotion not found"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Promotion updated", promo)
}

// DeletePromotion -> hapus promo
func (pc *PromotionController) DeletePromotion(c *gin.Context) {
	pc.Store.DeletePromotion(c.Param("promotion_id"))
	utils.RespondJSON(c, http.StatusOK, "Promotion deleted", nil)
}
