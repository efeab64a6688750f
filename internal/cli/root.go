// Package cli implements ambulancectl, a terminal client for the booking API.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"ambulance/internal/api"
	"ambulance/internal/logger"
	"ambulance/internal/session"
)

const (
	envPrefix      = "AMBULANCE"
	configName     = ".ambulancectl"
	defaultServer  = "http://localhost:8080"
	defaultTimeout = 15 * time.Second
)

// app carries what every subcommand needs. It is filled in by the root
// command's PersistentPreRunE.
type app struct {
	v        *viper.Viper
	out      io.Writer
	log      *zap.Logger
	sessions *session.Store
	client   *api.Client
}

// NewRootCommand builds the ambulancectl command tree writing to out.
func NewRootCommand(out io.Writer) *cobra.Command {
	a := &app{v: viper.New(), out: out}

	root := &cobra.Command{
		Use:           "ambulancectl",
		Short:         "Manage ambulance bookings, contacts and fleet from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}
	root.SetOut(out)

	flags := root.PersistentFlags()
	flags.String("config", "", "config file (default $HOME/"+configName+".yaml)")
	flags.String("server", defaultServer, "API base URL")
	flags.String("token", "", "session token (x-auth-token)")
	flags.String("log-level", "warn", "log level written to stderr")
	flags.Duration("timeout", defaultTimeout, "request timeout")
	flags.String("idempotency-key", "", "reuse this key to retry a change without applying it twice")
	for _, name := range []string{"config", "server", "token", "log-level", "timeout", "idempotency-key"} {
		_ = a.v.BindPFlag(name, flags.Lookup(name))
	}

	a.v.SetEnvPrefix(envPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	root.AddCommand(
		a.bookingsCommand(),
		a.contactsCommand(),
		a.hospitalsCommand(),
		a.vehiclesCommand(),
		a.routeCommand(),
		a.tokenCommand(),
	)
	return root
}

// Execute runs ambulancectl with os.Args.
func Execute() int {
	root := NewRootCommand(os.Stdout)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", describe(err))
		return 1
	}
	return 0
}

func (a *app) init() error {
	if err := a.readConfig(); err != nil {
		return err
	}

	log, err := logger.New(logger.Config{
		Level:  a.v.GetString("log-level"),
		Format: "console",
		Output: []string{"stderr"},
	})
	if err != nil {
		return err
	}
	a.log = log

	a.sessions = session.NewStore()
	if token := a.v.GetString("token"); token != "" {
		if err := a.sessions.SetToken(token); err != nil {
			return fmt.Errorf("token: %w", err)
		}
	}

	a.client = api.New(a.v.GetString("server"), a.sessions, api.WithLogger(log))
	return nil
}

// readConfig loads --config, or $HOME/.ambulancectl.yaml when present.
func (a *app) readConfig() error {
	if path := a.v.GetString("config"); path != "" {
		a.v.SetConfigFile(path)
		return a.v.ReadInConfig()
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	a.v.SetConfigName(configName)
	a.v.SetConfigType("yaml")
	a.v.AddConfigPath(home)
	a.v.AddConfigPath(filepath.Join(home, ".config"))
	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return err
	}
	return nil
}
