package scripting

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// APIVersion is exposed to scripts as API_VERSION.
const APIVersion = 1

// ErrNotFunction is returned when a formula name is not a Lua function.
var ErrNotFunction = errors.New("lua global is not a function")

// Engine wraps a single gopher-lua VM holding the property formulas.
// Single-goroutine access only (game loop).
type Engine struct {
	vm     *lua.LState
	log    *zap.Logger
	closed bool
}

// NewEngine creates a Lua engine and loads every script under
// scriptsDir/property. A missing directory loads nothing.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{SkipOpenLibs: false})
	vm.SetGlobal("API_VERSION", lua.LNumber(APIVersion))

	e := &Engine{vm: vm, log: log}
	e.registerHelpers()

	if err := e.loadDir(filepath.Join(scriptsDir, "property")); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load property scripts: %w", err)
	}
	return e, nil
}

// registerHelpers exposes small numeric helpers shared by formulas.
func (e *Engine) registerHelpers() {
	e.vm.SetGlobal("clamp", e.vm.NewFunction(func(L *lua.LState) int {
		v, lo, hi := L.CheckNumber(1), L.CheckNumber(2), L.CheckNumber(3)
		switch {
		case v < lo:
			v = lo
		case v > hi:
			v = hi
		}
		L.Push(v)
		return 1
	}))
	e.vm.SetGlobal("floor_zero", e.vm.NewFunction(func(L *lua.LState) int {
		v := L.CheckNumber(1)
		if v < 0 {
			v = 0
		}
		L.Push(v)
		return 1
	}))
}

// loadDir loads all .lua files in a directory, in name order.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// LoadString runs a chunk of Lua source, e.g. an operator override.
func (e *Engine) LoadString(src string) error {
	return e.vm.DoString(src)
}

// HasFunction reports whether name is a global Lua function.
func (e *Engine) HasFunction(name string) bool {
	_, ok := e.vm.GetGlobal(name).(*lua.LFunction)
	return ok
}

// EvalProperty calls fn with vars packed into a single table argument and
// returns its numeric result truncated to an int.
func (e *Engine) EvalProperty(fn string, vars map[string]int) (int, error) {
	f, ok := e.vm.GetGlobal(fn).(*lua.LFunction)
	if !ok {
		return 0, fmt.Errorf("%s: %w", fn, ErrNotFunction)
	}

	t := e.vm.NewTable()
	for k, v := range vars {
		t.RawSetString(k, lua.LNumber(v))
	}

	if err := e.vm.CallByParam(lua.P{
		Fn:      f,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		return 0, fmt.Errorf("call %s: %w", fn, err)
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)
	n, ok := result.(lua.LNumber)
	if !ok {
		return 0, fmt.Errorf("%s returned %s, want number", fn, result.Type())
	}
	return int(n), nil
}

// Close shuts down the Lua VM. Later calls do nothing.
func (e *Engine) Close() {
	if e.closed {
		return
	}
	e.closed = true
	e.vm.Close()
}

func (e *Engine) Closed() bool { return e.closed }
