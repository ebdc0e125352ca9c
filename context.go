package subsume

import (
	"fmt"
	"sync"

	"github.com/subsume-dev/subsume/gomap"
	"github.com/subsume-dev/subsume/ir"
	"github.com/subsume-dev/subsume/matchers"
)

// Mode selects how a public entry point surfaces a mismatch.
type Mode string

const (
	// ModeCheck converts a mismatch into a false return.
	ModeCheck Mode = "check"
	// ModeAssert returns the mismatch as an error.
	ModeAssert Mode = "assert"
)

func (m Mode) check() error {
	switch m {
	case ModeCheck, ModeAssert:
		return nil
	}
	return fmt.Errorf("%w: unrecognized mode %q", ErrConfig, string(m))
}

// FuncMode selects how predicate values in expected shapes are interpreted.
type FuncMode string

const (
	// FuncValue treats predicates as literal expected values, compared by
	// identity.
	FuncValue FuncMode = "value"
	// FuncMatcher invokes predicates on the candidate actual value.
	FuncMatcher FuncMode = "matcher"
)

func (m FuncMode) check() error {
	switch m {
	case FuncValue, FuncMatcher:
		return nil
	}
	return fmt.Errorf("%w: unrecognized funcmode %q", ErrConfig, string(m))
}

// SymbolSpec declares a placeholder token for one call. Matcher gates what a
// token may first bind to (default: candidate is present); a non-nil Value
// pre-resolves the token.
type SymbolSpec struct {
	Matcher ir.Predicate
	Value   any
}

type symbolState struct {
	matcher  ir.Predicate
	value    *ir.Node
	resolved bool
}

// MatchContext is the per-call state of one top-level match: current path,
// interpretation modes, symbol resolutions and the injected leaf primitives.
// A context is owned by exactly one entry-point invocation and must not be
// shared across concurrent calls.
type MatchContext struct {
	path     string
	funcMode FuncMode
	mode     Mode
	symbols  map[string]*symbolState
	funcs    *AssertionFuncs
}

// Path implements ir.Env.
func (c *MatchContext) Path() string {
	return c.path
}

// Resolved implements ir.Env, exposing bound placeholder values to
// predicates.
func (c *MatchContext) Resolved(token string) (*ir.Node, bool) {
	st := c.symbols[token]
	if st == nil || !st.resolved {
		return nil, false
	}
	return st.value, true
}

// snapshotSymbols copies the binding state so a speculative match can be
// rolled back.
func (c *MatchContext) snapshotSymbols() map[string]*symbolState {
	snap := make(map[string]*symbolState, len(c.symbols))
	for tok, st := range c.symbols {
		cp := *st
		snap[tok] = &cp
	}
	return snap
}

type config struct {
	funcMode FuncMode
	mode     *Mode
	symbols  map[string]SymbolSpec
	funcs    *AssertionFuncs
}

// Option configures one match call.
type Option func(*config)

func WithFuncMode(m FuncMode) Option {
	return func(c *config) { c.funcMode = m }
}

func WithMode(m Mode) Option {
	return func(c *config) { c.mode = &m }
}

func WithSymbols(symbols map[string]SymbolSpec) Option {
	return func(c *config) {
		if c.symbols == nil {
			c.symbols = make(map[string]SymbolSpec, len(symbols))
		}
		for tok, spec := range symbols {
			c.symbols[tok] = spec
		}
	}
}

func WithSymbol(token string, spec SymbolSpec) Option {
	return func(c *config) {
		if c.symbols == nil {
			c.symbols = make(map[string]SymbolSpec, 1)
		}
		c.symbols[token] = spec
	}
}

func WithAssertionFuncs(funcs *AssertionFuncs) Option {
	return func(c *config) { c.funcs = funcs }
}

// Sym builds a placeholder-token reference for use inside expected shapes.
func Sym(token string) ir.SymbolRef {
	return ir.SymbolRef(token)
}

// Process-wide defaults, written by SetDefaultMode. Expected discipline is a
// single writer at startup; matching only ever reads.
var defaults = struct {
	sync.RWMutex
	mode  Mode
	funcs *AssertionFuncs
}{mode: ModeCheck}

// SetDefaultMode registers the process-wide default operation mode and,
// when funcs is non-nil, the default assertion primitives.
func SetDefaultMode(mode Mode, funcs *AssertionFuncs) error {
	if err := mode.check(); err != nil {
		return err
	}
	if funcs != nil {
		if err := funcs.check(); err != nil {
			return err
		}
	}
	defaults.Lock()
	defer defaults.Unlock()
	defaults.mode = mode
	if funcs != nil {
		defaults.funcs = funcs
	}
	return nil
}

func newContext(opts []Option) (*MatchContext, error) {
	cfg := &config{funcMode: FuncValue}
	for _, opt := range opts {
		opt(cfg)
	}
	if err := cfg.funcMode.check(); err != nil {
		return nil, err
	}
	defaults.RLock()
	defMode, defFuncs := defaults.mode, defaults.funcs
	defaults.RUnlock()

	c := &MatchContext{
		path:     "$",
		funcMode: cfg.funcMode,
		mode:     defMode,
		funcs:    defFuncs,
	}
	if cfg.mode != nil {
		if err := cfg.mode.check(); err != nil {
			return nil, err
		}
		c.mode = *cfg.mode
	}
	if cfg.funcs != nil {
		c.funcs = cfg.funcs
	}
	if c.funcs == nil {
		c.funcs = builtinFuncs()
	}
	if err := c.funcs.check(); err != nil {
		return nil, err
	}
	if len(cfg.symbols) > 0 {
		c.symbols = make(map[string]*symbolState, len(cfg.symbols))
		for tok, spec := range cfg.symbols {
			st := &symbolState{matcher: spec.Matcher}
			if st.matcher == nil {
				st.matcher = matchers.Present()
			}
			if spec.Value != nil {
				node, err := gomap.FromGo(spec.Value)
				if err != nil {
					return nil, fmt.Errorf("%w: symbol %q value: %v", ErrConfig, tok, err)
				}
				st.value = node
				st.resolved = true
			}
			c.symbols[tok] = st
		}
	}
	return c, nil
}
