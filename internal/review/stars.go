package review

import (
	"math"
	"strings"

	"ambulance/internal/domain"
)

// MaxStars is the top of the rating scale.
const MaxStars = 5

// Stars renders a stored integer rating exactly.
func Stars(rating int) string {
	return render(clamp(rating))
}

// AggregateStars renders an average, flooring the fraction.
func AggregateStars(avg float64) string {
	return render(clamp(int(math.Floor(avg))))
}

func clamp(n int) int {
	if n < 0 {
		return 0
	}
	if n > MaxStars {
		return MaxStars
	}
	return n
}

func render(filled int) string {
	return strings.Repeat("★", filled) + strings.Repeat("☆", MaxStars-filled)
}

// Summary aggregates ratings over reviewed bookings.
// Each average only counts bookings where that rating was given.
type Summary struct {
	Reviewed            int
	AverageRating       float64
	AverageDriver       float64
	AverageVehicle      float64
	AverageResponseTime float64
}

type mean struct {
	sum   int
	count int
}

func (m *mean) add(v *int) {
	if v == nil {
		return
	}
	m.sum += *v
	m.count++
}

func (m mean) value() float64 {
	if m.count == 0 {
		return 0
	}
	return float64(m.sum) / float64(m.count)
}

// Summarize computes a Summary. Unreviewed bookings are ignored.
func Summarize(bookings []domain.Booking) Summary {
	var overall, driver, vehicle, response mean
	for i := range bookings {
		b := &bookings[i]
		if !b.Reviewed() {
			continue
		}
		overall.add(b.Rating)
		driver.add(b.DriverRating)
		vehicle.add(b.VehicleRating)
		response.add(b.ResponseTimeRating)
	}
	return Summary{
		Reviewed:            overall.count,
		AverageRating:       overall.value(),
		AverageDriver:       driver.value(),
		AverageVehicle:      vehicle.value(),
		AverageResponseTime: response.value(),
	}
}
