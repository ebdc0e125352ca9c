package gomap

import (
	"github.com/subsume-dev/subsume/ir"
)

// ToGo maps a node back to a native Go value. Objects become
// map[string]any (symbol-typed keys are rendered by token), arrays []any.
func ToGo(node *ir.Node) any {
	if node == nil {
		return nil
	}
	switch node.Type {
	case ir.NullType:
		return nil
	case ir.StringType:
		return node.String
	case ir.BoolType:
		return node.Bool
	case ir.NumberType:
		if node.Int64 != nil {
			return *node.Int64
		}
		if node.Float64 != nil {
			return *node.Float64
		}
		return nil
	case ir.ObjectType:
		res := make(map[string]any, len(node.Fields))
		for i, field := range node.Fields {
			key := field.String
			if field.Type == ir.SymbolType {
				key = field.Symbol
			}
			res[key] = ToGo(node.Values[i])
		}
		return res
	case ir.ArrayType:
		res := make([]any, len(node.Values))
		for i, val := range node.Values {
			res[i] = ToGo(val)
		}
		return res
	case ir.MatcherType:
		return node.Matcher
	case ir.SymbolType:
		return ir.SymbolRef(node.Symbol)
	default:
		return nil
	}
}
