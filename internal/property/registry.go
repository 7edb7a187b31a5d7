package property

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// DefaultMaxDepth bounds nested GetProperty calls within one query.
const DefaultMaxDepth = 16

// Deps is handed to every calculator factory.
type Deps struct {
	Log      *zap.Logger
	Formulas FormulaEvaluator
}

// Registration binds the inclusive range Min..Max to the calculator built by
// Factory. One calculator instance serves the whole range.
type Registration struct {
	Name    string
	Min     Property
	Max     Property
	Factory func(Deps) (Calculator, error)
}

// Single is a Registration for one property.
func Single(name string, p Property, factory func(Deps) (Calculator, error)) Registration {
	return Registration{Name: name, Min: p, Max: p, Factory: factory}
}

func static(c Calculator) func(Deps) (Calculator, error) {
	return func(Deps) (Calculator, error) { return c, nil }
}

func scripted(p Property, limit int, inputs ...Property) func(Deps) (Calculator, error) {
	return func(d Deps) (Calculator, error) {
		return NewScriptedCalculator(p, inputs, limit, d)
	}
}

// DefaultRegistrations is the built-in calculator table.
func DefaultRegistrations() []Registration {
	return []Registration{
		{Name: "stat", Min: StatFirst, Max: StatLast, Factory: static(StatCalculator{})},
		{Name: "resist", Min: ResistFirst, Max: ResistLast, Factory: static(ResistCalculator{})},
		Single("max_health", MaxHealth, static(MaxHealthCalculator{})),
		Single("max_mana", MaxMana, static(MaxManaCalculator{})),
		Single("max_speed", MaxSpeed, static(MaxSpeedCalculator{})),
		{Name: "regeneration", Min: HealthRegenerationRate, Max: EnduranceRegenerationRate, Factory: static(RegenerationCalculator{})},
		Single("armor_factor", ArmorFactor, scripted(ArmorFactor, 0, LivingEffectiveLevel)),
		Single("armor_absorption", ArmorAbsorption, scripted(ArmorAbsorption, 50)),
		Single("living_effective_level", LivingEffectiveLevel, scripted(LivingEffectiveLevel, 0)),
	}
}

// RegistryConfig tunes dispatch behaviour.
type RegistryConfig struct {
	MaxDepth int
	Policy   MultiplicativePolicy
	// OnMissing is called for every lookup of a property without calculator.
	OnMissing func(Property)
	// OnGuard is called when the recursion guard aborts a nested query.
	OnGuard func(Property)
}

// Registry is the immutable property -> calculator table shared by every
// living of a world.
type Registry struct {
	calcs [MaxProperty + 1]Calculator
	names [MaxProperty + 1]string
	cfg   RegistryConfig
	log   *zap.Logger
}

// BuildRegistry constructs every registration. A registration whose factory
// fails or panics is logged and skipped; the rest still load. The returned
// registry is always usable; err joins the individual failures.
func BuildRegistry(regs []Registration, deps Deps, cfg RegistryConfig) (*Registry, error) {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = DefaultMaxDepth
	}
	r := &Registry{cfg: cfg, log: deps.Log}

	var errs []error
	for _, reg := range regs {
		calc, err := buildOne(reg, deps)
		if err != nil {
			deps.Log.Error("property calculator failed to load",
				zap.String("calculator", reg.Name),
				zap.Stringer("min", reg.Min),
				zap.Stringer("max", reg.Max),
				zap.Error(err))
			errs = append(errs, err)
			continue
		}
		for p := reg.Min; p <= reg.Max && p.Valid(); p++ {
			if r.calcs[p] != nil {
				deps.Log.Warn("property calculator overridden",
					zap.Stringer("property", p),
					zap.String("previous", r.names[p]),
					zap.String("calculator", reg.Name))
			}
			r.calcs[p] = calc
			r.names[p] = reg.Name
		}
	}
	return r, errors.Join(errs...)
}

func buildOne(reg Registration, deps Deps) (calc Calculator, err error) {
	if reg.Factory == nil {
		return nil, fmt.Errorf("calculator %s: nil factory", reg.Name)
	}
	if !reg.Min.Valid() || !reg.Max.Valid() || reg.Min > reg.Max {
		return nil, fmt.Errorf("calculator %s: invalid range %d..%d", reg.Name, reg.Min, reg.Max)
	}
	defer func() {
		if rec := recover(); rec != nil {
			calc = nil
			err = fmt.Errorf("calculator %s: factory panic: %v", reg.Name, rec)
		}
	}()
	calc, err = reg.Factory(deps)
	if err != nil {
		return nil, fmt.Errorf("calculator %s: %w", reg.Name, err)
	}
	if calc == nil {
		return nil, fmt.Errorf("calculator %s: factory returned nil", reg.Name)
	}
	return calc, nil
}

// Lookup returns the calculator for p, or nil.
func (r *Registry) Lookup(p Property) Calculator {
	if r == nil || !p.Valid() {
		return nil
	}
	return r.calcs[p]
}

// CalculatorName returns the registration name serving p, or "".
func (r *Registry) CalculatorName(p Property) string {
	if r == nil || !p.Valid() {
		return ""
	}
	return r.names[p]
}

// Registered counts the properties that have a calculator.
func (r *Registry) Registered() int {
	n := 0
	for _, c := range r.calcs {
		if c != nil {
			n++
		}
	}
	return n
}

// NewLivingProperties creates the property facade of one living bound to
// this registry.
func (r *Registry) NewLivingProperties(name string) *LivingProperties {
	policy := PolicyProduct
	if r != nil {
		policy = r.cfg.Policy
	}
	return &LivingProperties{
		name:     name,
		registry: r,
		buffMult: NewMultiplicativeProperties(policy),
	}
}

func (r *Registry) logger() *zap.Logger {
	if r == nil || r.log == nil {
		return zap.NewNop()
	}
	return r.log
}

func (r *Registry) maxDepth() int {
	if r == nil {
		return DefaultMaxDepth
	}
	return r.cfg.MaxDepth
}

func (r *Registry) reportMissing(p Property) {
	if r != nil && r.cfg.OnMissing != nil {
		r.cfg.OnMissing(p)
	}
}

func (r *Registry) reportGuard(p Property) {
	if r != nil && r.cfg.OnGuard != nil {
		r.cfg.OnGuard(p)
	}
}
