package matchers

import (
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/subsume-dev/subsume/gomap"
	"github.com/subsume-dev/subsume/ir"
)

// Expr compiles an expr-lang boolean expression into a predicate. The
// expression sees the candidate as `value`, the current location as `path`,
// and resolved placeholder bindings through `resolved(token)`.
//
//	p, err := matchers.Expr(`value startsWith "abcd"`)
func Expr(src string) (ir.Predicate, error) {
	prog, err := expr.Compile(src, expr.AsBool(), expr.AllowUndefinedVariables())
	if err != nil {
		return nil, err
	}
	return func(candidate *ir.Node, env ir.Env) bool {
		out, err := vm.Run(prog, exprEnv(candidate, env))
		if err != nil {
			return false
		}
		b, ok := out.(bool)
		return ok && b
	}, nil
}

func exprEnv(candidate *ir.Node, env ir.Env) map[string]any {
	return map[string]any{
		"value": gomap.ToGo(candidate),
		"path":  env.Path(),
		"resolved": func(token string) any {
			node, ok := env.Resolved(token)
			if !ok {
				return nil
			}
			return gomap.ToGo(node)
		},
	}
}
