package search

import (
	"errors"
	"testing"
	"time"

	"ambulance/internal/domain"
	"ambulance/internal/wire"
)

func at(s string) time.Time {
	t, err := time.ParseInLocation("2006-01-02T15:04:05", s, time.UTC)
	if err != nil {
		panic(err)
	}
	return t
}

func rating(v int) *int { return &v }

func sampleBookings() []domain.Booking {
	return []domain.Booking{
		{
			ID: "BK-1001", Status: domain.BookingStatusCompleted, ScheduledAt: at("2025-03-10T09:00:00"),
			Pickup: "12 Park Street", Dropoff: "Apollo Hospital, Salt Lake",
			Patient: domain.PatientInfo{Name: "Ravi Kumar"}, Rating: rating(4),
		},
		{
			ID: "BK-1002", Status: domain.BookingStatusCancelled, ScheduledAt: at("2025-03-15T23:00:00"),
			Pickup: "Howrah Station", Dropoff: "AMRI Hospital",
			Patient: domain.PatientInfo{Name: "Anita Das"},
		},
		{
			ID: "BK-1003", Status: domain.BookingStatusUpcoming, ScheduledAt: at("2025-03-16T00:00:00"),
			Pickup: "Salt Lake Sector V", Dropoff: "Fortis Hospital",
		},
		{
			ID: "BK-1004", Status: domain.BookingStatusCompleted, ScheduledAt: at("2025-03-01T12:30:00"),
			Pickup: "Ballygunge", Dropoff: "apollo clinic",
			Patient: domain.PatientInfo{Name: "Meera Sen"}, Rating: rating(2),
		},
	}
}

func ids(bookings []domain.Booking) []string {
	out := make([]string, len(bookings))
	for i, b := range bookings {
		out[i] = b.ID
	}
	return out
}

func assertIDs(t *testing.T, got []domain.Booking, want ...string) {
	t.Helper()
	g := ids(got)
	if len(g) != len(want) {
		t.Fatalf("expected %v, got %v", want, g)
	}
	for i := range want {
		if g[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, g)
		}
	}
}

func TestFilter_AllReturnsEverythingInOrder(t *testing.T) {
	got, err := Filter(sampleBookings(), Criteria{Status: StatusAll})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertIDs(t, got, "BK-1001", "BK-1002", "BK-1003", "BK-1004")
}

func TestFilter_StatusKeepsExactMatchesOnly(t *testing.T) {
	got, _ := Filter(sampleBookings(), Criteria{Status: "completed"})
	assertIDs(t, got, "BK-1001", "BK-1004")
	for _, b := range got {
		if b.Status != domain.BookingStatusCompleted {
			t.Errorf("unexpected status %s", b.Status)
		}
	}
}

func TestFilter_SearchIsCaseInsensitiveSubstring(t *testing.T) {
	for _, q := range []string{"apollo", "APOLLO", "  Apollo "} {
		got, _ := Filter(sampleBookings(), Criteria{Query: q})
		assertIDs(t, got, "BK-1001", "BK-1004")
	}
}

func TestFilter_SearchMatchesIDPickupAndPatientName(t *testing.T) {
	got, _ := Filter(sampleBookings(), Criteria{Query: "bk-1003"})
	assertIDs(t, got, "BK-1003")

	got, _ = Filter(sampleBookings(), Criteria{Query: "howrah"})
	assertIDs(t, got, "BK-1002")

	got, _ = Filter(sampleBookings(), Criteria{Query: "meera"})
	assertIDs(t, got, "BK-1004")
}

func TestFilter_MissingPatientNameNeverMatches(t *testing.T) {
	got, _ := Filter(sampleBookings(), Criteria{Query: "zzz"})
	if len(got) != 0 {
		t.Errorf("expected no matches, got %v", ids(got))
	}
}

func TestFilter_DateRangeIncludesWholeEndDay(t *testing.T) {
	got, err := Filter(sampleBookings(), Criteria{DateFrom: "2025-03-15", DateTo: "2025-03-15"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertIDs(t, got, "BK-1002")
}

func TestFilter_DateRangeKeepsZonelessWireTimestamp(t *testing.T) {
	b, err := wire.Booking{MongoID: "1", Status: "completed", DateTime: wire.DateTime{Date: "2025-03-15T23:00:00"}}.ToDomain()
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b.ScheduledAt.IsZero() {
		t.Fatal("zone-less timestamp decoded as zero time")
	}

	got, err := Filter([]domain.Booking{b}, Criteria{DateFrom: "2025-03-15", DateTo: "2025-03-15"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertIDs(t, got, "1")
}

func TestFilter_DateRangeNeedsBothBounds(t *testing.T) {
	got, _ := Filter(sampleBookings(), Criteria{DateFrom: "2025-03-15"})
	if len(got) != 4 {
		t.Errorf("expected date stage to be skipped, got %v", ids(got))
	}
}

func TestFilter_DateRangeExcludesUndatedBookings(t *testing.T) {
	bookings := append(sampleBookings(), domain.Booking{ID: "BK-1005", Status: domain.BookingStatusPending})
	got, _ := Filter(bookings, Criteria{DateFrom: "2025-01-01", DateTo: "2025-12-31"})
	assertIDs(t, got, "BK-1001", "BK-1002", "BK-1003", "BK-1004")
}

func TestFilter_StagesCombine(t *testing.T) {
	got, _ := Filter(sampleBookings(), Criteria{
		Status:   "completed",
		Query:    "apollo",
		DateFrom: "2025-03-05",
		DateTo:   "2025-03-31",
	})
	assertIDs(t, got, "BK-1001")
}

func TestFilter_InvalidDate(t *testing.T) {
	_, err := Filter(sampleBookings(), Criteria{DateFrom: "15/03/2025", DateTo: "2025-03-20"})
	var dateErr *DateError
	if !errors.As(err, &dateErr) || dateErr.Field != "from" {
		t.Errorf("expected DateError for from, got %v", err)
	}
}

func TestFilter_DoesNotModifyInput(t *testing.T) {
	in := sampleBookings()
	_, _ = Filter(in, Criteria{Status: "cancelled"})
	assertIDs(t, in, "BK-1001", "BK-1002", "BK-1003", "BK-1004")
}
