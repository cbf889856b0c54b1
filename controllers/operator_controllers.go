package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/praditya/boardgame-venue/models"
	"github.com/praditya/boardgame-venue/store"
	"github.com/praditya/boardgame-venue/utils"
)

type OperatorController struct {
	DB    *gorm.DB
	Store *store.Store
}

func NewOperatorController(db *gorm.DB, st *store.Store) *OperatorController {
	return &OperatorController{DB: db, Store: st}
}

// Register operator baru
func (oc *OperatorController) Register(c *gin.Context) {
	type request struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
		Role     string `json:"role" binding:"required,oneof=owner admin staff"`
	}
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	// Hash password
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	operator := models.Operator{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hashed),
		Role:     req.Role,
	}

	if err := oc.DB.Create(&operator).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("New operator registered: %s (role=%s)", operator.Email, operator.Role)

	utils.RespondJSON(c, http.StatusCreated, "Operator registered", gin.H{
		"operator_id": operator.ID,
	})
}

// Login operator -> return JWT dan simpan identitas di snapshot terminal
func (oc *OperatorController) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var operator models.Operator
	if err := oc.DB.Where("email = ?", input.Email).First(&operator).Error; err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid credentials"))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(operator.Password), []byte(input.Password)); err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid credentials"))
		return
	}

	token, err := utils.GenerateToken(operator.ID, operator.Role)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	oc.Store.SetOperator(&store.OperatorIdentity{
		OperatorID: operator.ID,
		Name:       operator.Name,
		Role:       operator.Role,
	})

	utils.InfoLogger.Printf("Operator %s logged in", operator.Email)
	utils.RespondJSON(c, http.StatusOK, "Login successful", gin.H{
		"token": token,
		"operator": gin.H{
			"id":    operator.ID,
			"name":  operator.Name,
			"email": operator.Email,
			"role":  operator.Role,
		},
	})
}

// Logout -> blacklist token dan hapus identitas operator dari snapshot
func (oc *OperatorController) Logout(c *gin.Context) {
	token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	if token != "" {
		utils.BlacklistToken(token)
	}
	oc.Store.SetOperator(nil)
	utils.RespondJSON(c, http.StatusOK, "Logged out", nil)
}

// GetProfile -> profil operator yang sedang login
func (oc *OperatorController) GetProfile(c *gin.Context) {
	id := operatorID(c)

	var operator models.Operator
	if err := oc.DB.First(&operator, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("operator not found"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Operator profile", gin.H{
		"id":    operator.ID,
		"name":  operator.Name,
		"email": operator.Email,
		"role":  operator.Role,
	})
}
