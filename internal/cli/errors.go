package cli

import (
	"errors"

	"ambulance/internal/api"
	"ambulance/internal/session"
)

// describe turns client errors into something a person at a terminal can act on.
func describe(err error) string {
	switch {
	case errors.Is(err, session.ErrAuthMissing):
		return "not logged in: pass --token or set AMBULANCE_TOKEN"
	case errors.Is(err, api.ErrNetwork):
		return "cannot reach the server: " + err.Error()
	}

	var serverErr *api.ServerError
	if errors.As(err, &serverErr) {
		return serverErr.Error()
	}
	return err.Error()
}
