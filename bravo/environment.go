package bravo

import (
	"fmt"
	"strings"
)

// Environment selects the authority endpoints. The zero value is
// deliberately invalid so an unconfigured environment is caught at
// resolution time instead of hitting production by accident.
type Environment int

const (
	Unset Environment = iota
	Test
	Production
)

func (e Environment) WsaaURL() (string, error) {
	switch e {
	case Test:
		return "https://wsaahomo.afip.gov.ar/ws/services/LoginCms", nil
	case Production:
		return "https://wsaa.afip.gov.ar/ws/services/LoginCms", nil
	}
	return "", ErrEnvironmentUnset
}

func (e Environment) WsfeURL() (string, error) {
	switch e {
	case Test:
		return "https://wswhomo.afip.gov.ar/wsfev1/service.asmx", nil
	case Production:
		return "https://servicios1.afip.gov.ar/wsfev1/service.asmx", nil
	}
	return "", ErrEnvironmentUnset
}

func (e Environment) Name() string {
	switch e {
	case Test:
		return "test"
	case Production:
		return "production"
	}
	return "unset"
}

func (e *Environment) UnmarshalText(text []byte) error {
	val := strings.ToLower(strings.TrimSpace(string(text)))

	switch val {
	case "test":
		*e = Test
	case "production", "prod":
		*e = Production
	default:
		return fmt.Errorf("invalid environment: %q (allowed: test, production)", val)
	}
	return nil
}
