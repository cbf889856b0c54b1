package controllers

import (
	"encoding/json"
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

type CustomerController struct {
	Store *store.Store
	Hub   services.Broadcaster
}

func NewCustomerController(st *store.Store, hub services.Broadcaster) *CustomerController {
	return &CustomerController{Store: st, Hub: hub}
}

// GetAllCustomers -> semua customer yang dikenal terminal ini
func (cc *CustomerController) GetAllCustomers(c *gin.Context) {
	utils.RespondJSON(c, http.StatusOK, "List of customers", cc.Store.Customers())
}

// CreateCustomer -> daftarkan customer baru
func (cc *CustomerController) CreateCustomer(c *gin.Context) {
	var req struct {
		Name  string `json:"name" binding:"required"`
		Phone string `json:"phone"`
		Notes string `json:"notes"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	now := time.Now()
	customer := models.Customer{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Phone:     req.Phone,
		Notes:     req.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}

	cc.Store.AddCustomer(customer)
	cc.Hub.Publish(replication.AddEvent(replication.TopicCustomer, customer.ID, customer))

	utils.InfoLogger.Printf("New customer created: %s", customer.Name)
	utils.RespondJSON(c, http.StatusCreated, "Customer created", customer)
}

// GetCustomerByID -> detail 1 customer
func (cc *CustomerController) GetCustomerByID(c *gin.Context) {
	customer, ok := cc.Store.CustomerByID(c.Param("customer_id"))
	if !ok {
		utils.RespondError(c, http.StatusNotFound, errors.New("customer not found"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Customer detail", customer)
}

// UpdateCustomer -> partial update customer
func (cc *CustomerController) UpdateCustomer(c *gin.Context) {
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

	id := c.Param("customer_id")
	customer, err := cc.Store.UpdateCustomer(id, raw)
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("customer not found"))
		return
	}

	cc.Hub.Publish(replication.UpdateEvent(replication.TopicCustomer, id, updates))
	utils.RespondJSON(c, http.StatusOK, "Customer updated", customer)
}

// DeleteCustomer -> hapus customer
func (cc *CustomerController) DeleteCustomer(c *gin.Context) {
	id := c.Param("customer_id")
	cc.Store.DeleteCustomer(id)
	cc.Hub.Publish(replication.DeleteEvent(replication.TopicCustomer, id))
	utils.RespondJSON(c, http.StatusOK, "Customer deleted", nil)
}
