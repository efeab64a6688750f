package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"ambulance/internal/access"
	"ambulance/internal/auth"
	"ambulance/internal/domain"
)

func (a *app) routeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "route <path>",
		Short: "Show where the current session lands when opening a page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			nav := access.NewNavigator(access.DefaultTable(), a.sessions, "/", nil)
			d := nav.Navigate(args[0])
			if d.Allowed() {
				fmt.Fprintf(a.out, "allow %s\n", args[0])
			} else {
				fmt.Fprintf(a.out, "redirect %s -> %s\n", args[0], d.Redirect)
			}
			fmt.Fprintf(a.out, "home %s\n", nav.Home())
			return nil
		},
	}
}

func (a *app) tokenCommand() *cobra.Command {
	var (
		subject string
		role    string
		ttl     time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a development token signed with the server secret",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			secret := a.v.GetString("secret")
			if secret == "" {
				return fmt.Errorf("--secret or AMBULANCE_SECRET is required")
			}
			r, ok := domain.ParseRole(role)
			if !ok {
				return fmt.Errorf("unknown role %q", role)
			}

			token, err := auth.NewTokenService(secret, ttl).Issue(domain.Identity{ID: subject, Role: r})
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, token)
			return nil
		},
	}
	f := cmd.Flags()
	f.String("secret", "", "JWT secret shared with the server")
	_ = a.v.BindPFlag("secret", f.Lookup("secret"))
	f.StringVar(&subject, "sub", "", "user id")
	f.StringVar(&role, "role", string(domain.RoleUser), "user, driver or admin")
	f.DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("sub")
	return cmd
}
