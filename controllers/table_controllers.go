package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/praditya/boardgame-venue/replication"
	"github.com/praditya/boardgame-venue/services"
	"github.com/praditya/boardgame-venue/store"
	"github.com/praditya/boardgame-venue/utils"
)

type TableController struct {
	Store *store.Store
	Hub   services.Broadcaster
}

func NewTableController(st *store.Store, hub services.Broadcaster) *TableController {
	return &TableController{Store: st, Hub: hub}
}

// GetAllTables -> menampilkan seluruh meja
func (tc *TableController) GetAllTables(c *gin.Context) {
	utils.RespondJSON(c, http.StatusOK, "List of tables", tc.Store.Tables())
}

// UpdateTableStatus -> perubahan status manual (reserved/maintenance/available).
// Meja yang sedang dipakai sesi aktif harus lewat lifecycle sesi.
func (tc *TableController) UpdateTableStatus(c *gin.Context) {
	tableID, err := strconv.ParseUint(c.Param("table_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var body struct {
		Status string `json:"status" binding:"required,oneof=available reserved maintenance"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	table, err := tc.Store.SetTableStatus(uint(tableID), body.Status)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	tc.Hub.Publish(replication.UpdateEvent(replication.TopicTable,
		strconv.FormatUint(tableID, 10),
		map[string]interface{}{"status": table.Status, "updated_at": table.UpdatedAt}))

	utils.InfoLogger.Printf("Table %d status changed to %s", table.TableNumber, table.Status)
	utils.RespondJSON(c, http.StatusOK, "Table status updated", table)
}

// ResetTables -> generate ulang seluruh pool meja dan kosongkan audit trail
func (tc *TableController) ResetTables(c *gin.Context) {
	tc.Store.Reset()
	utils.InfoLogger.Printf("Table pool reset by operator %d", operatorID(c))
	utils.RespondJSON(c, http.StatusOK, "Tables reset", tc.Store.Tables())
}
