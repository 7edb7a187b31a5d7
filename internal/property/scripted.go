package property

import (
	"fmt"

	"go.uber.org/zap"
)

// FormulaEvaluator runs named property formulas. The Lua scripting engine
// implements it.
type FormulaEvaluator interface {
	HasFunction(name string) bool
	EvalProperty(fn string, vars map[string]int) (int, error)
}

// ScriptedCalculator delegates the formula to a script function named
// "calc_<property snake name>". The script receives the calculation type,
// every category value of the property, the multiplicative percentage and
// the modified value of each declared input property.
type ScriptedCalculator struct {
	fn       string
	inputs   []Property
	cap      int
	formulas FormulaEvaluator
	log      *zap.Logger
}

// NewScriptedCalculator fails when no evaluator is configured or the script
// does not define the formula.
func NewScriptedCalculator(p Property, inputs []Property, limit int, deps Deps) (*ScriptedCalculator, error) {
	if deps.Formulas == nil {
		return nil, fmt.Errorf("scripted calculator %s: no formula engine", p)
	}
	fn := "calc_" + p.SnakeName()
	if !deps.Formulas.HasFunction(fn) {
		return nil, fmt.Errorf("scripted calculator %s: function %s not defined", p, fn)
	}
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &ScriptedCalculator{fn: fn, inputs: inputs, cap: limit, formulas: deps.Formulas, log: log}, nil
}

func (c *ScriptedCalculator) Function() string { return c.fn }

func (c *ScriptedCalculator) CalculateValue(l *LivingProperties, p Property, t CalculationType) int {
	vars := make(map[string]int, int(numCategories)+len(c.inputs)+2)
	vars["type"] = int(t)
	for cat := CategoryBase; cat < numCategories; cat++ {
		if includes(t, cat) {
			vars[cat.String()] = l.categories[cat].Get(p)
		} else {
			vars[cat.String()] = 0
		}
	}
	vars["mult"] = 100
	if t != CalcBase && t != CalcNotBuffs {
		vars["mult"] = l.buffMult.Get(p)
	}
	for _, in := range c.inputs {
		vars[in.SnakeName()] = l.GetProperty(in, t)
	}

	v, err := c.formulas.EvalProperty(c.fn, vars)
	if err != nil {
		c.log.Error("scripted property formula failed",
			zap.String("function", c.fn),
			zap.String("property", p.String()),
			zap.String("living", l.Name()),
			zap.Error(err))
		return 0
	}
	return applyCap(v, c.Cap(t))
}

func (c *ScriptedCalculator) Cap(t CalculationType) int {
	if t == CalcBase {
		return 0
	}
	return c.cap
}
