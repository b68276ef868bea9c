package user

import "testing"

func TestCurrentUsernameNonEmpty(t *testing.T) {
	if name := CurrentUsername(); name == "" {
		t.Error("CurrentUsername returned an empty string")
	}
}

func TestCurrentUsernameEnvFallbackIsStable(t *testing.T) {
	// Two calls must agree; the resolution order has no randomness.
	if a, b := CurrentUsername(), CurrentUsername(); a != b {
		t.Errorf("CurrentUsername not stable: %q vs %q", a, b)
	}
}
