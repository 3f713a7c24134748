package catalog

import (
	"fmt"
	"math"
	"sort"
)

// MaxRoughnessM is the largest roughness the catalog accepts
const MaxRoughnessM = 0.01

// ValidationRule is a catalog validation rule
type ValidationRule func(*MaterialEntry) error

// DefaultValidationRules returns the standard validation rules
func DefaultValidationRules() []ValidationRule {
	return []ValidationRule{
		validateRoughnessRange,
		validateAgedRoughness,
	}
}

// Validate checks every material against rules, in name order
func (c *Catalog) Validate(rules []ValidationRule) []error {
	names := make([]string, 0, len(c.entries))
	for name := range c.entries {
		names = append(names, name)
	}
	sort.Strings(names)

	var errs []error
	for _, name := range names {
		for _, rule := range rules {
			if err := rule(c.entries[name]); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
			}
		}
	}
	return errs
}

// validateRoughnessRange ensures roughness is finite and within [0, MaxRoughnessM]
func validateRoughnessRange(e *MaterialEntry) error {
	if math.IsNaN(e.RoughnessM) || e.RoughnessM < 0 || e.RoughnessM > MaxRoughnessM {
		return fmt.Errorf("roughness %v m outside [0, %v]", e.RoughnessM, MaxRoughnessM)
	}
	return nil
}

// validateAgedRoughness ensures aged pipe is not smoother than new pipe
func validateAgedRoughness(e *MaterialEntry) error {
	if e.AgedRoughnessM != 0 && e.AgedRoughnessM < e.RoughnessM {
		return fmt.Errorf("aged roughness %v m below new roughness %v m", e.AgedRoughnessM, e.RoughnessM)
	}
	if e.AgedRoughnessM > MaxRoughnessM {
		return fmt.Errorf("aged roughness %v m above %v", e.AgedRoughnessM, MaxRoughnessM)
	}
	return nil
}

// MustValidate panics when any entry breaks a default rule
func (c *Catalog) MustValidate() {
	errs := c.Validate(DefaultValidationRules())
	if len(errs) > 0 {
		panic(fmt.Sprintf("catalog has %d validation errors: %v", len(errs), errs))
	}
}
