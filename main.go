package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/praditya/boardgame-venue/config"
	"github.com/praditya/boardgame-venue/middlewares"
	"github.com/praditya/boardgame-venue/pricing"
	"github.com/praditya/boardgame-venue/replication"
	"github.com/praditya/boardgame-venue/router"
	"github.com/praditya/boardgame-venue/services"
	"github.com/praditya/boardgame-venue/store"
	"github.com/praditya/boardgame-venue/utils"
)

func init() {
	// Load .env di awal sebelum apapun
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading: %v", err)
	}
	utils.InitLogger()
}

func main() {
	cfg := config.Load()

	// Database snapshot per terminal
	snapDB, err := config.InitSnapshotDB()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to open snapshot database: %v", err)
	}
	utils.InitDB(snapDB)

	// Hosted store (shared antar terminal)
	collabDB, err := config.InitCollabDB()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to collab database: %v", err)
	}
	if _, err := services.NewCollabStore(collabDB); err != nil {
		utils.ErrorLogger.Fatalf("Failed to migrate collab store: %v", err)
	}

	// Set gin mode
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Local state store: muat snapshot, dedupe, cek invariant pool meja
	st, err := store.New(cfg, snapDB)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to init store: %v", err)
	}
	if err := st.Load(); err != nil {
		utils.ErrorLogger.Fatalf("Failed to load snapshot: %v", err)
	}

	// Kanal replikasi: event masuk di-merge ke store, lalu di-relay
	hub := replication.NewHub(st)

	rateCfg := pricing.Rate{FirstHour: cfg.FirstHourRate, ExtraHour: cfg.ExtraHourRate}
	sessionSvc := services.NewSessionService(st, hub, rateCfg)
	sessionSvc.Collab = &services.CollabStore{DB: collabDB}

	// Change feed dari hosted store, polling interval pendek
	monitor := services.NewChangeMonitor(collabDB, st)
	monitor.Interval = 500 * time.Millisecond
	monitor.Start()
	defer monitor.Stop()

	// Setup router + rate limiter (50 requests per detik per IP)
	r := router.SetupRouter(st, collabDB, hub, sessionSvc)
	r.Use(middlewares.NewRateLimiter(50, 1).RateLimit())

	r.SetTrustedProxies([]string{"127.0.0.1", "localhost"})

	utils.InfoLogger.Printf("Terminal listening on port %s (%d tables)", cfg.Port, cfg.TablePoolSize)
	if err := r.Run(":" + cfg.Port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}
