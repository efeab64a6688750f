package search

import (
	"fmt"
	"slices"

	"ambulance/internal/domain"
)

// Order is an explicit sort criterion. OrderNone keeps the input order.
type Order string

const (
	OrderNone    Order = ""
	OrderRecent  Order = "recent"
	OrderOldest  Order = "oldest"
	OrderHighest Order = "highest"
	OrderLowest  Order = "lowest"
)

// ParseOrder converts a raw order string.
func ParseOrder(s string) (Order, error) {
	switch o := Order(s); o {
	case OrderNone, OrderRecent, OrderOldest, OrderHighest, OrderLowest:
		return o, nil
	default:
		return "", fmt.Errorf("unknown sort order %q", s)
	}
}

// Sort returns a sorted copy. Equal elements keep their relative order.
// For rating orders, unrated bookings always come after rated ones.
func Sort(bookings []domain.Booking, order Order) []domain.Booking {
	out := slices.Clone(bookings)
	switch order {
	case OrderRecent:
		slices.SortStableFunc(out, func(a, b domain.Booking) int {
			return b.ScheduledAt.Compare(a.ScheduledAt)
		})
	case OrderOldest:
		slices.SortStableFunc(out, func(a, b domain.Booking) int {
			return a.ScheduledAt.Compare(b.ScheduledAt)
		})
	case OrderHighest:
		slices.SortStableFunc(out, byRating(true))
	case OrderLowest:
		slices.SortStableFunc(out, byRating(false))
	}
	return out
}

func byRating(desc bool) func(a, b domain.Booking) int {
	return func(a, b domain.Booking) int {
		switch {
		case a.Rating == nil && b.Rating == nil:
			return 0
		case a.Rating == nil:
			return 1
		case b.Rating == nil:
			return -1
		}
		if desc {
			return *b.Rating - *a.Rating
		}
		return *a.Rating - *b.Rating
	}
}
