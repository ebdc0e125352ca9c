package ir

import (
	"maps"
	"slices"
)

// Env is the view of the live match state handed to predicates. It is
// implemented by the matching engine's per-call context.
type Env interface {
	// Path returns the $-rooted location currently being compared.
	Path() string
	// Resolved returns the value bound to a placeholder token, if any.
	Resolved(token string) (*Node, bool)
}

// Predicate decides whether a candidate actual node is acceptable for the
// expected slot it occupies.
type Predicate func(candidate *Node, env Env) bool

// SymbolRef marks a Go value as a placeholder-token reference when building
// expected shapes from native values.
type SymbolRef string

type Node struct {
	Type        Type
	Parent      *Node
	ParentIndex int
	ParentField string
	Fields      []*Node
	Values      []*Node

	String  string
	Bool    bool
	Float64 *float64
	Int64   *int64

	Matcher Predicate
	Symbol  string
}

func (y *Node) Clone() *Node {
	res := &Node{}
	return y.CloneTo(res)
}

func (y *Node) CloneTo(dst *Node) *Node {
	dst.Parent = y.Parent
	dst.ParentIndex = y.ParentIndex
	dst.ParentField = y.ParentField
	dst.Type = y.Type
	dst.Values = make([]*Node, len(y.Values))
	dst.Fields = make([]*Node, len(y.Fields))
	for i, yv := range y.Values {
		dstI := &Node{}
		yv.CloneTo(dstI)
		dstI.Parent = dst
		dstI.ParentIndex = i
		dstI.ParentField = yv.ParentField
		dst.Values[i] = dstI
	}
	for i, yf := range y.Fields {
		dstI := &Node{}
		yf.CloneTo(dstI)
		dstI.Parent = dst
		dstI.ParentIndex = i
		dstI.ParentField = yf.String
		dst.Fields[i] = dstI
	}
	dst.String = y.String
	if y.Float64 != nil {
		f := *y.Float64
		dst.Float64 = &f
	}
	if y.Int64 != nil {
		i := *y.Int64
		dst.Int64 = &i
	}
	dst.Bool = y.Bool
	dst.Matcher = y.Matcher
	dst.Symbol = y.Symbol
	return dst
}

func FromString(v string) *Node {
	return &Node{
		Type:   StringType,
		String: v,
	}
}

func FromInt(v int64) *Node {
	return &Node{
		Type:  NumberType,
		Int64: &v,
	}
}

func FromFloat(f float64) *Node {
	return &Node{
		Type:    NumberType,
		Float64: &f,
	}
}

func FromBool(v bool) *Node {
	return &Node{
		Type: BoolType,
		Bool: v,
	}
}

func FromPredicate(p Predicate) *Node {
	return &Node{
		Type:    MatcherType,
		Matcher: p,
	}
}

func FromSymbol(token string) *Node {
	return &Node{
		Type:   SymbolType,
		Symbol: token,
	}
}

func Null() *Node {
	return &Node{Type: NullType}
}

// ToMap flattens an object node's string-keyed fields. Symbol-typed keys are
// not representable in a map and are omitted.
func ToMap(node *Node) map[string]*Node {
	if node.Type != ObjectType {
		return nil
	}
	res := make(map[string]*Node, len(node.Fields))
	for i := range node.Fields {
		field := node.Fields[i]
		if field.Type != StringType {
			continue
		}
		res[field.String] = node.Values[i]
	}
	return res
}

func FromMap(yMap map[string]*Node) *Node {
	res := &Node{}
	res.Type = ObjectType
	res.Fields = make([]*Node, len(yMap))
	res.Values = make([]*Node, len(yMap))
	keys := slices.Sorted(maps.Keys(yMap))
	for i, key := range keys {
		y := yMap[key]
		y.Parent = res
		y.ParentIndex = i
		y.ParentField = key
		yField := &Node{
			Parent:      res,
			ParentIndex: i,
			ParentField: key,
			Type:        StringType,
			String:      key,
		}
		res.Fields[i] = yField
		res.Values[i] = y
	}
	return res
}

type KeyVal struct {
	Key *Node
	Val *Node
}

// FromKeyVals builds an object node with arbitrary key nodes, preserving
// order. This is the only way to build an object with symbol-typed keys.
func FromKeyVals(kvs []KeyVal) *Node {
	res := &Node{}
	res.Type = ObjectType
	res.Fields = make([]*Node, len(kvs))
	res.Values = make([]*Node, len(kvs))
	for i := range kvs {
		kv := &kvs[i]
		if kv.Key == nil {
			kv.Key = Null()
		} else if kv.Key.Type == StringType {
			kv.Key.ParentField = kv.Key.String
			kv.Val.ParentField = kv.Key.String
		}
		kv.Val.Parent = res
		kv.Val.ParentIndex = i
		kv.Key.Parent = res
		kv.Key.ParentIndex = i
		res.Fields[i] = kv.Key
		res.Values[i] = kv.Val
	}
	return res
}

func FromSlice(ySlice []*Node) *Node {
	res := &Node{
		Type: ArrayType,
	}
	res.Values = make([]*Node, len(ySlice))
	for i, y := range ySlice {
		res.Values[i] = y
		y.Parent = res
		y.ParentIndex = i
	}
	return res
}

func Get(y *Node, field string) *Node {
	n := len(y.Fields)
	for i := range n {
		f := y.Fields[i]
		if f.Type == StringType && f.String == field {
			return y.Values[i]
		}
	}
	return nil
}

// Visit walks the tree in document order, object keys before their values.
// The callback reports whether to descend into the node's children; a
// non-nil error stops the walk.
func (y *Node) Visit(f func(y *Node) (bool, error)) error {
	dive, err := f(y)
	if err != nil {
		return err
	}
	if !dive {
		return nil
	}
	for _, yf := range y.Fields {
		if err := yf.Visit(f); err != nil {
			return err
		}
	}
	for _, yv := range y.Values {
		if err := yv.Visit(f); err != nil {
			return err
		}
	}
	return nil
}

// Check validates container arity. Matching assumes Fields and Values stay
// parallel for objects.
func (y *Node) Check() error {
	if y.Type == ObjectType && len(y.Fields) != len(y.Values) {
		return ErrInternal
	}
	return nil
}
