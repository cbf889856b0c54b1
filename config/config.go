package config

import (
	"fmt"
	"os"
	"strconv"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// TableDefault menentukan kapasitas/tipe default saat pool meja digenerate ulang.
type TableDefault struct {
	FromNumber int
	ToNumber   int
	Capacity   int
	TableType  string
}

type Config struct {
	Port          string
	TablePoolSize int
	FirstHourRate float64
	ExtraHourRate float64
	TableDefaults []TableDefault
}

// Load -> baca konfigurasi dari environment, dengan default untuk development
func Load() Config {
	cfg := Config{
		Port:          getEnv("PORT", "8080"),
		TablePoolSize: getEnvInt("TABLE_POOL_SIZE", 15),
		FirstHourRate: getEnvFloat("FIRST_HOUR_RATE", 30),
		ExtraHourRate: getEnvFloat("EXTRA_HOUR_RATE", 30),
	}

	// Tabel konfigurasi default: meja kecil di depan, meja besar di belakang.
	cfg.TableDefaults = []TableDefault{
		{FromNumber: 1, ToNumber: cfg.TablePoolSize * 2 / 3, Capacity: 4, TableType: "regular"},
		{FromNumber: cfg.TablePoolSize*2/3 + 1, ToNumber: cfg.TablePoolSize, Capacity: 8, TableType: "large"},
	}

	return cfg
}

// DefaultFor -> kapasitas/tipe default untuk satu nomor meja
func (c Config) DefaultFor(tableNumber int) (capacity int, tableType string) {
	for _, d := range c.TableDefaults {
		if tableNumber >= d.FromNumber && tableNumber <= d.ToNumber {
			return d.Capacity, d.TableType
		}
	}
	return 4, "regular"
}

// InitSnapshotDB membuka database snapshot per terminal (SQLite file).
func InitSnapshotDB() (*gorm.DB, error) {
	path := getEnv("SNAPSHOT_DB_PATH", "venue_snapshot.db")
	return gorm.Open(sqlite.Open(path), &gorm.Config{})
}

// InitCollabDB membuka hosted store. MySQL di production, SQLite untuk development.
func InitCollabDB() (*gorm.DB, error) {
	driver := getEnv("DB_DRIVER", "sqlite")
	if driver == "mysql" {
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			os.Getenv("DB_USER"),
			os.Getenv("DB_PASSWORD"),
			getEnv("DB_HOST", "127.0.0.1"),
			getEnv("DB_PORT", "3306"),
			getEnv("DB_NAME", "boardgame_venue"),
		)
		return gorm.Open(mysql.Open(dsn), &gorm.Config{})
	}
	return gorm.Open(sqlite.Open(getEnv("COLLAB_DB_PATH", "venue_collab.db")), &gorm.Config{})
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
