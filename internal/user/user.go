// Package user resolves the local account name used as the default
// profile display name.
package user

import (
	"os"
	"os/user"
)

// CurrentUsername returns the system username, falling back to the
// USER environment variable and finally "unknown" so callers always
// get a non-empty value.
func CurrentUsername() string {
	if current, err := user.Current(); err == nil && current.Username != "" {
		return current.Username
	}
	if name := os.Getenv("USER"); name != "" {
		return name
	}
	return "unknown"
}
