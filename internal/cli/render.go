package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"ambulance/internal/api"
	"ambulance/internal/domain"
	"ambulance/internal/review"
)

func (a *app) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := api.WithIdempotencyKey(cmd.Context(), a.v.GetString("idempotency-key"))
	return context.WithTimeout(ctx, a.v.GetDuration("timeout"))
}

func table(out io.Writer, header ...string) *tabwriter.Writer {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	return tw
}

func row(tw *tabwriter.Writer, cols ...string) {
	fmt.Fprintln(tw, strings.Join(cols, "\t"))
}

func printBookings(out io.Writer, list []domain.Booking) error {
	tw := table(out, "ID", "STATUS", "SCHEDULED", "PICKUP", "DROPOFF", "TYPE", "FARE", "RATING")
	for i := range list {
		b := &list[i]
		rating := "-"
		if b.Rating != nil {
			rating = review.Stars(*b.Rating)
		}
		row(tw,
			b.ID,
			string(b.Status),
			formatTime(b),
			b.Pickup,
			b.Dropoff,
			b.AmbulanceType,
			fmt.Sprintf("%.2f", b.Fare),
			rating,
		)
	}
	return tw.Flush()
}

func formatTime(b *domain.Booking) string {
	if b.ScheduledAt.IsZero() {
		return "-"
	}
	return b.ScheduledAt.Format("2006-01-02 15:04")
}

func printContacts(out io.Writer, list []domain.EmergencyContact) error {
	tw := table(out, "ID", "NAME", "PHONE", "RELATIONSHIP", "PRIMARY")
	for _, c := range list {
		primary := ""
		if c.IsPrimary {
			primary = "yes"
		}
		row(tw, c.ID, c.Name, c.Phone, string(c.Relationship), primary)
	}
	return tw.Flush()
}

func printVehicles(out io.Writer, list []domain.Vehicle) error {
	tw := table(out, "ID", "REGISTRATION", "TYPE", "STATUS", "DRIVER", "FAULTS")
	for i := range list {
		v := &list[i]
		faults := strings.Join(v.FaultyEquipment(), ", ")
		if faults == "" {
			faults = "-"
		}
		row(tw, v.ID, v.Registration, string(v.Type), string(v.Status), v.DriverID, faults)
	}
	return tw.Flush()
}

func printHospitals(out io.Writer, list []domain.Hospital) error {
	tw := table(out, "ID", "NAME", "ADDRESS", "PHONE", "EMERGENCY", "DISTANCE")
	for _, h := range list {
		emergency := "no"
		if h.Emergency {
			emergency = "yes"
		}
		distance := "-"
		if h.DistanceKm > 0 {
			distance = fmt.Sprintf("%.1f km", h.DistanceKm)
		}
		row(tw, h.ID, h.Name, h.Address, h.Phone, emergency, distance)
	}
	return tw.Flush()
}
