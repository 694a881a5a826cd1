package registry

import (
	"strings"
)

// Override adjusts a registered descriptor from the settings layer. Nil
// fields leave the declared value untouched.
type Override struct {
	// Weight replaces the declared base weight.
	Weight *float64

	// Priority replaces the declared static priority.
	Priority *int

	// Enabled set to false removes the symbol from the generation.
	// Dependencies on a disabled symbol are treated as vacuously
	// satisfied and stripped from dependents.
	Enabled *bool
}

// ApplyOverrides folds configuration overrides into the catalogue. It must
// be called before Freeze. An override naming an unknown symbol is a
// configuration error.
func (r *Registry) ApplyOverrides(overrides map[string]Override) error {
	if len(overrides) == 0 {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return &RegistryError{Operation: "override", Message: "registry is frozen"}
	}

	var unknown []string
	for name := range overrides {
		if _, ok := r.symbols[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		return &RegistryError{
			Operation: "override",
			Message:   "unknown symbols: " + strings.Join(unknown, ", "),
		}
	}

	var disabled []string
	for name, ov := range overrides {
		d := r.symbols[name]
		if ov.Weight != nil {
			d.Weight = *ov.Weight
		}
		if ov.Priority != nil {
			d.Priority = *ov.Priority
		}
		if ov.Enabled != nil && !*ov.Enabled {
			disabled = append(disabled, name)
		}
	}

	for _, name := range disabled {
		delete(r.symbols, name)
	}
	if len(disabled) > 0 {
		gone := make(map[string]struct{}, len(disabled))
		for _, name := range disabled {
			gone[name] = struct{}{}
		}
		for _, d := range r.symbols {
			kept := d.DependsOn[:0]
			for _, dep := range d.DependsOn {
				if _, removed := gone[dep]; !removed {
					kept = append(kept, dep)
				}
			}
			d.DependsOn = kept
		}
	}

	return nil
}
