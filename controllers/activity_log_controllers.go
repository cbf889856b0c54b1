package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/praditya/boardgame-venue/store"
	"github.com/praditya/boardgame-venue/utils"
)

type ActivityLogController struct {
	Store *store.Store
}

func NewActivityLogController(st *store.Store) *ActivityLogController {
	return &ActivityLogController{Store: st}
}

// GetAllActivityLogs -> audit trail terminal ini
func (ac *ActivityLogController) GetAllActivityLogs(c *gin.Context) {
	utils.RespondJSON(c, http.StatusOK, "List of activity logs", ac.Store.ActivityLogs())
}
