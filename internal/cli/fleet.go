package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"

	"ambulance/internal/api"
	"ambulance/internal/domain"
	"ambulance/internal/fleet"
	"ambulance/internal/search"
)

func (a *app) hospitalsCommand() *cobra.Command {
	var (
		criteria search.HospitalCriteria
		near     api.NearbyQuery
	)
	cmd := &cobra.Command{
		Use:   "hospitals",
		Short: "List hospitals, optionally near a location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := cmd.Flags()
			var q *api.NearbyQuery
			if f.Changed("lat") || f.Changed("lng") {
				if !f.Changed("lat") || !f.Changed("lng") {
					return fmt.Errorf("--lat and --lng must be given together")
				}
				q = &near
			}

			ctx, cancel := a.context(cmd)
			defer cancel()

			all, err := a.client.ListHospitals(ctx, q)
			if err != nil {
				return err
			}
			matched := search.FilterHospitals(all, criteria)
			if len(matched) == 0 {
				fmt.Fprintln(a.out, "No hospitals match. Drop --query or --emergency, or widen --radius.")
				return nil
			}
			return printHospitals(a.out, matched)
		},
	}
	f := cmd.Flags()
	f.StringVar(&criteria.Query, "query", "", "match name, address or specialty")
	f.BoolVar(&criteria.EmergencyOnly, "emergency", false, "only hospitals with an emergency department")
	f.Float64Var(&near.Lat, "lat", 0, "latitude for a nearby search")
	f.Float64Var(&near.Lng, "lng", 0, "longitude for a nearby search")
	f.Float64Var(&near.RadiusKm, "radius", 0, "search radius in km (server default when 0)")
	return cmd
}

func (a *app) vehiclesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "vehicles",
		Aliases: []string{"vehicle"},
		Short:   "Inspect and update ambulances (drivers and admins)",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List vehicles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			all, err := fleet.NewRepository(a.client).List(ctx)
			if err != nil {
				return err
			}
			if len(all) == 0 {
				fmt.Fprintln(a.out, "No vehicles assigned.")
				return nil
			}
			return printVehicles(a.out, all)
		},
	}

	status := &cobra.Command{
		Use:   "status <vehicle-id> <status>",
		Short: "Set a vehicle's status: available, on-trip, maintenance or offline",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			repo := fleet.NewRepository(a.client)
			if _, err := repo.List(ctx); err != nil {
				return err
			}
			v, err := repo.UpdateStatus(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Vehicle %s is now %s.\n", v.ID, v.Status)
			return nil
		},
	}

	var items []string
	equipment := &cobra.Command{
		Use:     "equipment <vehicle-id>",
		Short:   "Replace the equipment checklist",
		Example: "  ambulancectl vehicles equipment v-1 --item oxygen=true --item defibrillator=false",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			checklist, err := parseEquipment(items)
			if err != nil {
				return err
			}

			ctx, cancel := a.context(cmd)
			defer cancel()

			repo := fleet.NewRepository(a.client)
			if _, err := repo.List(ctx); err != nil {
				return err
			}
			v, err := repo.UpdateEquipment(ctx, args[0], checklist)
			if err != nil {
				return err
			}
			if faulty := v.FaultyEquipment(); len(faulty) > 0 {
				fmt.Fprintf(a.out, "Checklist saved for %s. Not functional: %s\n", v.ID, strings.Join(faulty, ", "))
				return nil
			}
			fmt.Fprintf(a.out, "Checklist saved for %s. All equipment functional.\n", v.ID)
			return nil
		},
	}
	equipment.Flags().StringArrayVar(&items, "item", nil, "name=functional, repeatable")

	cmd.AddCommand(list, status, equipment)
	return cmd
}

// parseEquipment reads "name=bool" pairs. A bare name counts as functional.
func parseEquipment(items []string) ([]domain.Equipment, error) {
	out := make([]domain.Equipment, 0, len(items))
	for _, item := range items {
		name, raw, found := strings.Cut(item, "=")
		functional := true
		if found {
			v, err := cast.ToBoolE(strings.TrimSpace(raw))
			if err != nil {
				return nil, fmt.Errorf("item %q: %w", item, err)
			}
			functional = v
		}
		out = append(out, domain.Equipment{Name: strings.TrimSpace(name), Functional: functional})
	}
	return out, nil
}
