// Package subsume implements deep structural-inclusion matching for test
// assertions: an actual composite value is checked to contain at least the
// structure an expected partial shape describes, with order-independent
// array membership, predicate matchers and placeholder unification.
package subsume

import (
	"errors"
	"fmt"

	"github.com/subsume-dev/subsume/debug"
	"github.com/subsume-dev/subsume/gomap"
	"github.com/subsume-dev/subsume/ir"
)

// Match verifies that actual structurally contains expected. Scalars on
// either side defer to the leaf-equality primitive. In check mode a
// mismatch is (false, nil); in assert mode it is (false, *MismatchError).
// Configuration and internal errors are returned in every mode.
func Match(actual, expected any, opts ...Option) (bool, error) {
	c, aNode, eNode, err := setup(actual, expected, opts)
	if err != nil {
		return false, err
	}
	return c.boundary(c.matchNode(aNode, eNode))
}

// MatchArray verifies order-independent array inclusion: every expected
// element must consume a distinct actual element. The expected value must be
// an array; a non-array actual is a mismatch.
func MatchArray(actual, expected any, opts ...Option) (bool, error) {
	c, aNode, eNode, err := setup(actual, expected, opts)
	if err != nil {
		return false, err
	}
	if eNode.Type != ir.ArrayType {
		return false, fmt.Errorf("%w: expected shape is %s, want Array", ErrConfig, eNode.Type)
	}
	if aNode.Type != ir.ArrayType {
		return c.boundary(c.fail(fmt.Sprintf("not an array (%s)", aNode.Type)))
	}
	return c.boundary(c.matchArray(aNode, eNode))
}

// Trim projects actual down to the shape matched by expected: object fields
// absent from expected are dropped, array elements are kept only when some
// expected element matches them. Useful for focused failure output.
func Trim(actual, expected any, opts ...Option) (*ir.Node, error) {
	c, aNode, eNode, err := setup(actual, expected, opts)
	if err != nil {
		return nil, err
	}
	return c.trim(aNode, eNode), nil
}

func setup(actual, expected any, opts []Option) (*MatchContext, *ir.Node, *ir.Node, error) {
	c, err := newContext(opts)
	if err != nil {
		return nil, nil, nil, err
	}
	aNode, err := gomap.FromGo(actual)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: actual: %v", ErrConfig, err)
	}
	eNode, err := gomap.FromGo(expected)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: expected: %v", ErrConfig, err)
	}
	if err := c.checkSymbols(eNode); err != nil {
		return nil, nil, nil, err
	}
	return c, aNode, eNode, nil
}

// checkSymbols rejects expected shapes referencing placeholder tokens absent
// from the call's symbol table, before any matching runs. Dotted-string
// spellings are exempt: an unregistered ".tok" string reads as a literal.
func (c *MatchContext) checkSymbols(expected *ir.Node) error {
	return expected.Visit(func(n *ir.Node) (bool, error) {
		if n.Type != ir.SymbolType {
			return true, nil
		}
		if _, ok := c.symbols[n.Symbol]; !ok {
			return false, fmt.Errorf("%w: unknown symbol %q", ErrConfig, n.Symbol)
		}
		return true, nil
	})
}

// boundary interprets the threaded result at the top of a public call:
// mismatches convert per the requested mode, everything else passes
// through.
func (c *MatchContext) boundary(err error) (bool, error) {
	if err == nil {
		return true, nil
	}
	if IsMismatch(err) && c.mode == ModeCheck {
		return false, nil
	}
	return false, err
}

func (c *MatchContext) matchNode(actual, expected *ir.Node) error {
	if debug.Match() {
		debug.Logf("match %s against %s at %s\n", actual.Type, expected.Type, c.path)
	}
	if tok, ok := c.symbolRef(expected); ok {
		return c.resolveSymbol(tok, actual)
	}
	switch expected.Type {
	case ir.ObjectType:
		return c.matchObject(actual, expected)
	case ir.ArrayType:
		if actual.Type != ir.ArrayType {
			return c.equal(actual, expected)
		}
		return c.matchArray(actual, expected)
	case ir.MatcherType:
		return c.matchPredicate(actual, expected)
	default:
		// the only place a user-written expected literal reaches the
		// leaf primitive; unescape exactly once
		return c.equal(actual, literalNode(expected))
	}
}

func (c *MatchContext) matchPredicate(actual, expected *ir.Node) error {
	if expected.Matcher == nil {
		return fmt.Errorf("%w: nil predicate at %s", ErrConfig, c.path)
	}
	if c.funcMode == FuncMatcher {
		if expected.Matcher(actual, c) {
			return nil
		}
		return c.fail("predicate rejected value")
	}
	// value func-mode: a predicate is a literal expected value, compared
	// by identity.
	return c.equal(actual, expected)
}

func (c *MatchContext) matchObject(actual, expected *ir.Node) error {
	if actual.Type != ir.ObjectType {
		return c.equal(actual, expected)
	}
	if err := actual.Check(); err != nil {
		return err
	}
	if err := expected.Check(); err != nil {
		return err
	}
	consumed := make(map[string]bool, len(expected.Fields))
	for i, key := range expected.Fields {
		name, err := c.fieldName(key, actual, consumed)
		if err != nil {
			return err
		}
		av := ir.Get(actual, name)
		if av == nil {
			return c.fail(fmt.Sprintf("missing property %q", name))
		}
		consumed[name] = true
		save := c.path
		c.path = ir.AppendField(save, name)
		err = c.matchNode(av, expected.Values[i])
		c.path = save
		if err != nil {
			return err
		}
	}
	return nil
}

// fieldName determines which actual property an expected key refers to,
// resolving placeholder keys against the not-yet-consumed actual keys.
func (c *MatchContext) fieldName(key, actual *ir.Node, consumed map[string]bool) (string, error) {
	if tok, ok := c.symbolRef(key); ok {
		return c.resolveKeySymbol(tok, actual, consumed)
	}
	if key.Type != ir.StringType {
		return "", fmt.Errorf("%w: %s-typed key at %s", ErrConfig, key.Type, c.path)
	}
	return literalNode(key).String, nil
}

func (c *MatchContext) resolveKeySymbol(tok string, actual *ir.Node, consumed map[string]bool) (string, error) {
	st := c.symbols[tok]
	if st == nil {
		return "", fmt.Errorf("%w: unknown symbol %q at %s", ErrConfig, tok, c.path)
	}
	if st.resolved {
		if st.value.Type != ir.StringType {
			return "", c.fail(fmt.Sprintf("symbol %q bound to %s, not a key", tok, st.value.Type))
		}
		return st.value.String, nil
	}
	for _, f := range actual.Fields {
		if f.Type != ir.StringType || consumed[f.String] {
			continue
		}
		if !st.matcher(f, c) {
			continue
		}
		st.value = ir.FromString(f.String)
		st.resolved = true
		if debug.Symbols() {
			debug.Logf("bind .%s = %q at %s\n", tok, f.String, c.path)
		}
		return f.String, nil
	}
	return "", c.fail(fmt.Sprintf("no key satisfying symbol %q", tok))
}

// resolveSymbol applies the resolve-or-check protocol to a value position:
// an unresolved token binds to the candidate when its predicate accepts; a
// resolved token requires leaf equality with its binding.
func (c *MatchContext) resolveSymbol(tok string, candidate *ir.Node) error {
	st := c.symbols[tok]
	if st == nil {
		return fmt.Errorf("%w: unknown symbol %q at %s", ErrConfig, tok, c.path)
	}
	if st.resolved {
		return c.equal(candidate, st.value)
	}
	if !st.matcher(candidate, c) {
		return c.fail(fmt.Sprintf("symbol %q predicate rejected value", tok))
	}
	st.value = candidate.Clone()
	st.resolved = true
	if debug.Symbols() {
		debug.Logf("bind .%s = %s at %s\n", tok, candidate, c.path)
	}
	return nil
}

func (c *MatchContext) matchArray(actual, expected *ir.Node) error {
	used := make([]bool, len(actual.Values))
	for _, ev := range expected.Values {
		if err := c.matchArrayElem(actual, ev, used); err != nil {
			return err
		}
	}
	return nil
}

// matchArrayElem scans unconsumed actual elements left to right for the
// first fit. Composite candidates are consumed by the attempt even when the
// nested match fails; there is no backtracking, so a consumed index never
// becomes available to a later expected element.
func (c *MatchContext) matchArrayElem(actual, ev *ir.Node, used []bool) error {
	evTok, evIsSym := c.symbolRef(ev)
	lit := literalNode(ev)
	for i, av := range actual.Values {
		if used[i] {
			continue
		}
		save := c.path
		c.path = ir.AppendIndex(save, i)
		matched, err := c.matchArrayCandidate(av, ev, lit, evTok, evIsSym, used, i)
		c.path = save
		if err != nil {
			return err
		}
		if matched {
			return nil
		}
	}
	return c.fail(fmt.Sprintf("no element matching %s", debug.NodeString(ev)))
}

func (c *MatchContext) matchArrayCandidate(av, ev, lit *ir.Node, evTok string, evIsSym bool, used []bool, i int) (bool, error) {
	switch {
	case c.funcMode == FuncMatcher && ev.Type == ir.MatcherType:
		if ev.Matcher == nil {
			return false, fmt.Errorf("%w: nil predicate at %s", ErrConfig, c.path)
		}
		if ev.Matcher(av, c) {
			used[i] = true
			return true, nil
		}
	case evIsSym:
		err := c.resolveSymbol(evTok, av)
		if err == nil {
			used[i] = true
			return true, nil
		}
		if !IsMismatch(err) {
			return false, err
		}
	case av.Type != lit.Type:
		// cannot match, leave unconsumed
	case ev.Type == ir.ObjectType, ev.Type == ir.ArrayType:
		// a probed composite is consumed even when the nested match
		// fails; the nested mismatch is absorbed here to continue the
		// scan
		used[i] = true
		err := c.matchNode(av, ev)
		if err == nil {
			return true, nil
		}
		if !IsMismatch(err) {
			return false, err
		}
	default:
		if err := c.equal(av, lit); err == nil {
			used[i] = true
			return true, nil
		}
	}
	return false, nil
}

// equal defers to the injected leaf-equality primitive on the native
// renderings of both nodes. Both sides are compared verbatim: expected
// values that need the "\." unescape get it before they arrive here, and
// bound placeholder values must never be unescaped.
func (c *MatchContext) equal(actual, expected *ir.Node) error {
	msg := fmt.Sprintf("mismatch at %s", c.path)
	if err := c.funcs.Equal(gomap.ToGo(actual), gomap.ToGo(expected), msg); err != nil {
		return &MismatchError{Path: c.path, Reason: "values differ", Err: err}
	}
	return nil
}

// fail signals an unconditional structural failure through the injected
// primitive.
func (c *MatchContext) fail(reason string) error {
	msg := c.path + ": " + reason
	err := c.funcs.Fail(msg)
	if err == nil {
		// the Fail contract requires a non-nil error; keep the
		// mismatch anyway
		err = errors.New(msg)
	}
	return &MismatchError{Path: c.path, Reason: reason, Err: err}
}

// symbolRef reports whether an expected node is a placeholder reference:
// either an explicit symbol node, or a ".token" string whose token is
// registered for this call. Unregistered dotted strings stay literal.
func (c *MatchContext) symbolRef(node *ir.Node) (string, bool) {
	switch node.Type {
	case ir.SymbolType:
		return node.Symbol, true
	case ir.StringType:
		if len(node.String) > 1 && node.String[0] == '.' {
			tok := node.String[1:]
			if _, ok := c.symbols[tok]; ok {
				return tok, true
			}
		}
	}
	return "", false
}

// literalNode unescapes a leading "\." in expected strings, so that values
// and keys colliding with the placeholder-reference spelling can still be
// matched literally.
func literalNode(node *ir.Node) *ir.Node {
	if node == nil || node.Type != ir.StringType {
		return node
	}
	s := node.String
	i := 0
	for i < len(s) && s[i] == '\\' {
		i++
	}
	if i == 0 || i >= len(s) || s[i] != '.' {
		return node
	}
	out := node.Clone()
	out.String = s[1:]
	return out
}

func (c *MatchContext) trim(actual, expected *ir.Node) *ir.Node {
	switch expected.Type {
	case ir.ObjectType:
		if actual.Type != ir.ObjectType {
			return actual.Clone()
		}
		eMap := ir.ToMap(expected)
		out := make(map[string]*ir.Node)
		for i, field := range actual.Fields {
			if field.Type != ir.StringType {
				continue
			}
			ev := eMap[field.String]
			if ev == nil {
				continue
			}
			out[field.String] = c.trim(actual.Values[i], ev)
		}
		return ir.FromMap(out)
	case ir.ArrayType:
		if actual.Type != ir.ArrayType {
			return actual.Clone()
		}
		var res []*ir.Node
		used := make([]bool, len(actual.Values))
		for _, ev := range expected.Values {
			for i, av := range actual.Values {
				if used[i] {
					continue
				}
				snap := c.snapshotSymbols()
				if err := c.matchNode(av, ev); err != nil {
					// a failed probe must not leave placeholder
					// bindings behind
					c.symbols = snap
					continue
				}
				res = append(res, c.trim(av, ev))
				used[i] = true
				break
			}
		}
		return ir.FromSlice(res)
	default:
		return actual.Clone()
	}
}
