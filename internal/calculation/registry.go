package calculation

import (
	"fmt"
	"sort"
	"sync"

	"github.com/rgehrsitz/fiscalgo/internal/domain"
	"github.com/samber/lo"
)

// Registry holds the calculators by name. Registration happens at startup;
// lookups are safe from many goroutines.
type Registry struct {
	mu          sync.RWMutex
	calculators map[string]Calculator
}

// NewRegistry creates a registry with every built-in calculator bound to the
// given rate tables. The tables must have been validated.
func NewRegistry(tables *domain.RateTables) *Registry {
	r := &Registry{calculators: make(map[string]Calculator)}
	r.Register(NewBolloAutoCalculator(tables.BolloAuto))
	r.Register(NewSuperbolloCalculator(tables.Superbollo))
	r.Register(NewIPTCalculator(tables.IPT))
	r.Register(NewIRPEFCalculator(tables.IRPEF))
	r.Register(NewINPSCalculator(tables.INPS))
	r.Register(NewEnasarcoCalculator(tables.Enasarco))
	r.Register(NewRegimeCalculator(tables.Forfettario, tables.INPS, tables.IRPEF))
	r.Register(NewIMUCalculator(tables.IMU))
	r.Register(NewPrevidenzaCalculator(tables.Previdenza))
	r.Register(NewIVTMCalculator(tables.IVTM))
	r.Register(NewIRPFCalculator(tables.IRPF))
	return r
}

// Register adds or replaces a calculator
func (r *Registry) Register(c Calculator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.calculators == nil {
		r.calculators = make(map[string]Calculator)
	}
	r.calculators[c.Name()] = c
}

// Get returns a calculator by name
func (r *Registry) Get(name string) (Calculator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.calculators[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCalculator, name)
	}
	return c, nil
}

// Has reports whether a calculator is registered
func (r *Registry) Has(name string) bool {
	_, err := r.Get(name)
	return err == nil
}

// Names returns the registered calculator names in sorted order
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := lo.Keys(r.calculators)
	sort.Strings(names)
	return names
}

// Describe returns the descriptors of every calculator in name order
func (r *Registry) Describe() []Descriptor {
	return lo.Map(r.Names(), func(name string, _ int) Descriptor {
		c, _ := r.Get(name)
		return Describe(c)
	})
}

// Calculate parses raw form values with the calculator's field descriptors
// and evaluates them.
func (r *Registry) Calculate(name string, raw map[string]string) (*domain.ComputationResult, error) {
	c, err := r.Get(name)
	if err != nil {
		return nil, err
	}
	return c.Calculate(domain.ParseInput(c.Fields(), raw))
}
