package cli

import (
	"fmt"
	"strconv"
	"strings"
)

// validateEngineType accepts the engine names the resolver recognizes
func validateEngineType(input string) (string, error) {
	input = strings.ToLower(strings.TrimSpace(input))
	switch input {
	case "sqlite", "postgres":
		return input, nil
	case "postgresql":
		return "postgres", nil
	default:
		return "", fmt.Errorf("invalid database type: %s (must be sqlite or postgres)", input)
	}
}

// validatePort validates a TCP port number
func validatePort(input string) (int, error) {
	input = strings.TrimSpace(input)
	port, err := strconv.Atoi(input)
	if err != nil {
		return 0, fmt.Errorf("invalid port: %s (must be a number)", input)
	}
	if port < 1 || port > 65535 {
		return 0, fmt.Errorf("invalid port: %d (must be between 1 and 65535)", port)
	}
	return port, nil
}
