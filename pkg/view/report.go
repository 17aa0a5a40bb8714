package view

import (
	"errors"

	"github.com/nimdanitro/sensorview/pkg/sensorapi"
)

// UnknownErrorMessage is shown for failures outside the known taxonomy.
const UnknownErrorMessage = "Unknown error fetching sensor data"

// Message reduces a fetch failure to the single line shown to the user.
func Message(err error) string {
	var (
		authErr   *sensorapi.AuthError
		configErr *sensorapi.ConfigError
		httpErr   *sensorapi.HTTPError
		reqErr    *sensorapi.RequestError
		decodeErr *sensorapi.DecodeError
	)

	switch {
	case err == nil:
		return UnknownErrorMessage
	case errors.As(err, &authErr):
		return authErr.Error()
	case errors.As(err, &configErr):
		return configErr.Error()
	case errors.As(err, &httpErr):
		return httpErr.Error()
	case errors.As(err, &reqErr):
		return reqErr.Error()
	case errors.As(err, &decodeErr):
		return decodeErr.Error()
	}
	return UnknownErrorMessage
}
