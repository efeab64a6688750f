package domain

// Hospital is read-only reference data for the nearby-hospitals view.
type Hospital struct {
	ID          string
	Name        string
	Address     string
	Phone       string
	Lat         float64
	Lng         float64
	Emergency   bool
	Specialties []string

	// DistanceKm is populated only for proximity queries.
	DistanceKm float64
}
