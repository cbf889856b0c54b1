package controllers

import (
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

type GameController struct {
	Store *store.Store
	Hub   services.Broadcaster
}

func NewGameController(st *store.Store, hub services.Broadcaster) *GameController {
	return &GameController{Store: st, Hub: hub}
}

// GetAllGames -> katalog board game
func (gc *GameController) GetAllGames(c *gin.Context) {
	utils.RespondJSON(c, http.StatusOK, "List of games", gc.Store.Games())
}

// CreateGame -> tambah game baru ke katalog
func (gc *GameController) CreateGame(c *gin.Context) {
	var req struct {
		Name       string `json:"name" binding:"required"`
		MinPlayers int    `json:"min_players"`
		MaxPlayers int    `json:"max_players"`
		Copies     int    `json:"copies"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	now := time.Now()
	game := models.Game{
		ID:         uuid.NewString(),
		Name:       req.Name,
		MinPlayers: max(req.MinPlayers, 1),
		MaxPlayers: max(req.MaxPlayers, 1),
		Copies:     max(req.Copies, 1),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	gc.Store.AddGame(game)
	gc.Hub.Publish(replication.AddEvent(replication.TopicGame, game.ID, game))

	utils.RespondJSON(c, http.StatusCreated, "Game created", game)
}
