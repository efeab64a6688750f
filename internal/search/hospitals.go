package search

import (
	"strings"

	"ambulance/internal/domain"
)

// HospitalCriteria narrows the nearby-hospitals list.
type HospitalCriteria struct {
	Query         string
	EmergencyOnly bool
}

// FilterHospitals matches the query against name, address and specialties.
func FilterHospitals(hospitals []domain.Hospital, c HospitalCriteria) []domain.Hospital {
	query := strings.ToLower(strings.TrimSpace(c.Query))
	out := make([]domain.Hospital, 0, len(hospitals))
	for _, h := range hospitals {
		if c.EmergencyOnly && !h.Emergency {
			continue
		}
		if query != "" && !hospitalMatches(h, query) {
			continue
		}
		out = append(out, h)
	}
	return out
}

func hospitalMatches(h domain.Hospital, query string) bool {
	if strings.Contains(strings.ToLower(h.Name), query) ||
		strings.Contains(strings.ToLower(h.Address), query) {
		return true
	}
	for _, s := range h.Specialties {
		if strings.Contains(strings.ToLower(s), query) {
			return true
		}
	}
	return false
}
