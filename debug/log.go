package debug

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/subsume-dev/subsume/ir"
)

var tracePrefix = func() string {
	if isatty.IsTerminal(os.Stderr.Fd()) {
		return color.CyanString("subsume| ")
	}
	return "subsume| "
}()

func Logf(msg string, args ...any) {
	for i := range args {
		switch x := args[i].(type) {
		case *ir.Node:
			args[i] = NodeString(x)
		}
	}
	fmt.Fprintf(os.Stderr, tracePrefix+msg, args...)
}

// NodeString renders a node compactly for trace output.
func NodeString(y *ir.Node) string {
	if y == nil {
		return "<nil>"
	}
	switch y.Type {
	case ir.StringType:
		return fmt.Sprintf("%q", y.String)
	case ir.BoolType:
		return fmt.Sprintf("%t", y.Bool)
	case ir.NumberType:
		if y.Int64 != nil {
			return fmt.Sprintf("%d", *y.Int64)
		}
		if y.Float64 != nil {
			return fmt.Sprintf("%g", *y.Float64)
		}
		return "<number>"
	case ir.NullType:
		return "null"
	case ir.ObjectType:
		return fmt.Sprintf("{%d fields}", len(y.Fields))
	case ir.ArrayType:
		return fmt.Sprintf("[%d values]", len(y.Values))
	case ir.MatcherType:
		return "<matcher>"
	case ir.SymbolType:
		return "." + y.Symbol
	default:
		return "<unknown>"
	}
}
