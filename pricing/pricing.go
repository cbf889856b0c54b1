package pricing

import (
	"math"
	"time"

	"github.com/praditya/boardgame-venue/models"
)

// Rate adalah tarif per orang: jam pertama dan jam tambahan.
type Rate struct {
	FirstHour float64
	ExtraHour float64
}

// DefaultRate dipakai kalau tidak ada promo yang berlaku.
var DefaultRate = Rate{FirstHour: 30, ExtraHour: 30}

// ComputeCost menghitung (hours, cost) untuk satu sesi:
//   - dibawah 30 menit gratis
//   - 30 s/d 90 menit dihitung satu jam pertama
//   - diatas 90 menit, tiap 60 menit berikutnya dihitung jam tambahan
//
// Promo yang aktif pada saat perhitungan menimpa tarif default. Fungsi ini
// murni: hasilnya disimpan di sesi dan tidak pernah dihitung ulang.
func ComputeCost(start, end time.Time, partySize int, promo *models.Promotion, rate Rate) (hours float64, cost float64) {
	elapsed := end.Sub(start)
	if elapsed < 0 {
		elapsed = 0
	}
	minutes := elapsed.Minutes()

	if promo != nil && promo.EligibleAt(end) {
		rate = Rate{FirstHour: promo.FirstHourPrice, ExtraHour: promo.ExtraHourPrice}
	}

	hours = math.Round(minutes/60*10) / 10
	if hours < 0.5 {
		hours = 0.5
	}

	switch {
	case minutes < 30:
		cost = 0
	case minutes < 90:
		cost = rate.FirstHour * float64(partySize)
	default:
		extraHours := math.Floor((minutes-90)/60) + 1
		cost = (rate.FirstHour + extraHours*rate.ExtraHour) * float64(partySize)
	}

	return hours, cost
}
