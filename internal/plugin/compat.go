package plugin

import (
	"fmt"

	"github.com/Masterminds/semver/v3"

	"github.com/roach88/abacus/internal/calc"
)

// checkAPIVersion reports an error unless calc.APIVersion satisfies the
// constraint a unit declared. An empty constraint accepts any version.
func checkAPIVersion(constraint string) error {
	if constraint == "" {
		return nil
	}

	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return fmt.Errorf("invalid API version constraint %q: %w", constraint, err)
	}

	host := semver.MustParse(calc.APIVersion)
	if !c.Check(host) {
		return fmt.Errorf("requires plugin API %s, host provides %s", constraint, calc.APIVersion)
	}
	return nil
}
