package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"ambulance/internal/bookings"
	"ambulance/internal/cancellation"
	"ambulance/internal/domain"
	"ambulance/internal/review"
	"ambulance/internal/search"
	"ambulance/internal/validation"
	"ambulance/internal/wire"
)

const (
	noBookingsHint = "No bookings yet."
	noMatchesHint  = "No bookings match these filters. Drop --status, --search, --from and --to to see all bookings."
)

func (a *app) bookingsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "bookings",
		Aliases: []string{"booking", "b"},
		Short:   "List and manage bookings",
	}
	cmd.AddCommand(
		a.bookingsListCommand(),
		a.bookingsCreateCommand(),
		a.bookingsCancelCommand(),
		a.bookingsReviewCommand(),
		a.bookingsStatusCommand(),
		a.bookingsSummaryCommand(),
	)
	return cmd
}

func (a *app) bookingsListCommand() *cobra.Command {
	var (
		criteria search.Criteria
		order    string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the bookings visible to the current account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sortOrder, err := search.ParseOrder(order)
			if err != nil {
				return err
			}

			ctx, cancel := a.context(cmd)
			defer cancel()

			all, err := bookings.NewRepository(a.client, a.log).List(ctx)
			if err != nil {
				return err
			}
			if len(all) == 0 {
				fmt.Fprintln(a.out, noBookingsHint)
				return nil
			}

			matched, err := search.Filter(all, criteria)
			if err != nil {
				return err
			}
			if len(matched) == 0 {
				fmt.Fprintln(a.out, noMatchesHint)
				return nil
			}
			return printBookings(a.out, search.Sort(matched, sortOrder))
		},
	}
	f := cmd.Flags()
	f.StringVar(&criteria.Status, "status", search.StatusAll, "pending, upcoming, active, completed, cancelled or all")
	f.StringVar(&criteria.Query, "search", "", "match booking id, addresses or patient name")
	f.StringVar(&criteria.DateFrom, "from", "", "first day (YYYY-MM-DD), requires --to")
	f.StringVar(&criteria.DateTo, "to", "", "last day (YYYY-MM-DD), requires --from")
	f.StringVar(&order, "sort", "", "recent, oldest, highest or lowest")
	return cmd
}

func (a *app) bookingsCreateCommand() *cobra.Command {
	var req wire.CreateBookingRequest
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Request an ambulance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validation.Struct(req); err != nil {
				return err
			}
			if _, ok := wire.ParseDateTime(req.DateTime); !ok {
				return fmt.Errorf("invalid --date/--time %q %q", req.DateTime.Date, req.DateTime.Time)
			}

			ctx, cancel := a.context(cmd)
			defer cancel()

			b, err := a.client.CreateBooking(ctx, req)
			if err != nil {
				return err
			}
			if b == nil {
				fmt.Fprintln(a.out, "Booking requested.")
				return nil
			}
			fmt.Fprintf(a.out, "Booking %s requested (%s).\n", b.ID, b.Status)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&req.DateTime.Date, "date", "", "pickup date (YYYY-MM-DD)")
	f.StringVar(&req.DateTime.Time, "time", "", "pickup time (HH:MM)")
	f.StringVar(&req.Locations.Pickup, "pickup", "", "pickup address")
	f.StringVar(&req.Locations.Dropoff, "dropoff", "", "dropoff address")
	f.StringVar(&req.AmbulanceType, "type", string(domain.VehicleTypeBasic), "ambulance type")
	f.StringVar(&req.PatientInfo.Name, "patient", "", "patient name")
	f.IntVar(&req.PatientInfo.Age, "age", 0, "patient age")
	f.StringVar(&req.PatientInfo.MedicalCondition, "condition", "", "medical condition")
	f.StringVar(&req.PaymentMethod, "payment", "cash", "payment method")
	return cmd
}

func (a *app) bookingsCancelCommand() *cobra.Command {
	var reason string
	cmd := &cobra.Command{
		Use:   "cancel <booking-id>",
		Short: "Cancel a pending or upcoming booking",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			repo := bookings.NewRepository(a.client, a.log)
			if _, err := repo.List(ctx); err != nil {
				return err
			}

			wf := cancellation.NewWorkflow(repo, nil)
			if err := wf.Open(args[0]); err != nil {
				return err
			}
			if err := wf.SetReason(reason); err != nil {
				return err
			}
			if !wf.CanSubmit() {
				return domain.ErrReasonRequired
			}

			res, err := wf.Submit(ctx)
			if err != nil {
				return err
			}
			if !res.Success() {
				return res.Err
			}
			fmt.Fprintf(a.out, "Booking %s cancelled.\n", res.BookingID)
			return nil
		},
	}
	cmd.Flags().StringVar(&reason, "reason", "", "why the booking is cancelled (required)")
	return cmd
}

func (a *app) bookingsReviewCommand() *cobra.Command {
	var values domain.Review
	cmd := &cobra.Command{
		Use:   "review <booking-id>",
		Short: "Rate a completed booking, or edit an existing review",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			repo := bookings.NewRepository(a.client, a.log)
			if _, err := repo.List(ctx); err != nil {
				return err
			}
			b, ok := repo.Get(args[0])
			if !ok {
				return bookings.ErrNotFound
			}

			form, err := review.Open(b)
			if err != nil {
				return err
			}
			// Edits keep earlier answers for flags that were not passed.
			f := cmd.Flags()
			if f.Changed("rating") {
				form.Values.Rating = values.Rating
			}
			if f.Changed("comment") {
				form.Values.Comment = values.Comment
			}
			if f.Changed("driver-rating") {
				form.Values.DriverRating = values.DriverRating
			}
			if f.Changed("vehicle-rating") {
				form.Values.VehicleRating = values.VehicleRating
			}
			if f.Changed("response-rating") {
				form.Values.ResponseTimeRating = values.ResponseTimeRating
			}

			updated, err := form.Submit(ctx, repo)
			if err != nil {
				return err
			}
			verb := "saved"
			if form.Mode == review.ModeEdit {
				verb = "updated"
			}
			rating := 0
			if updated.Rating != nil {
				rating = *updated.Rating
			}
			fmt.Fprintf(a.out, "Review %s for %s: %s\n", verb, updated.ID, review.Stars(rating))
			return nil
		},
	}
	f := cmd.Flags()
	f.IntVar(&values.Rating, "rating", 0, "overall rating 1-5 (required)")
	f.StringVar(&values.Comment, "comment", "", "free-text review")
	f.IntVar(&values.DriverRating, "driver-rating", 0, "driver rating 1-5")
	f.IntVar(&values.VehicleRating, "vehicle-rating", 0, "vehicle rating 1-5")
	f.IntVar(&values.ResponseTimeRating, "response-rating", 0, "response time rating 1-5")
	return cmd
}

func (a *app) bookingsStatusCommand() *cobra.Command {
	var driverID string
	cmd := &cobra.Command{
		Use:   "status <booking-id> <status>",
		Short: "Accept, start or complete a booking (drivers and admins)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, ok := domain.ParseBookingStatus(args[1])
			if !ok {
				return fmt.Errorf("%w: %q", domain.ErrInvalidStatus, args[1])
			}

			ctx, cancel := a.context(cmd)
			defer cancel()

			b, err := a.client.UpdateBookingStatus(ctx, args[0], status, driverID)
			if err != nil {
				return err
			}
			if b != nil {
				status = b.Status
			}
			fmt.Fprintf(a.out, "Booking %s is now %s.\n", args[0], status)
			return nil
		},
	}
	cmd.Flags().StringVar(&driverID, "driver", "", "driver to assign when an admin accepts")
	return cmd
}

func (a *app) bookingsSummaryCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show average ratings over reviewed bookings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			all, err := bookings.NewRepository(a.client, a.log).List(ctx)
			if err != nil {
				return err
			}

			s := review.Summarize(all)
			if s.Reviewed == 0 {
				fmt.Fprintln(a.out, "No reviews yet.")
				return nil
			}
			tw := table(a.out, "RATING", "AVERAGE", "STARS")
			for _, r := range []struct {
				name string
				avg  float64
			}{
				{"overall", s.AverageRating},
				{"driver", s.AverageDriver},
				{"vehicle", s.AverageVehicle},
				{"response time", s.AverageResponseTime},
			} {
				row(tw, r.name, fmt.Sprintf("%.1f", r.avg), review.AggregateStars(r.avg))
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%d reviewed bookings\n", s.Reviewed)
			return nil
		},
	}
}
