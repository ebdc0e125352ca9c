package gomap

import (
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/subsume-dev/subsume/ir"
)

// FromGo maps a native Go value onto a node. Maps with string keys, slices,
// arrays, structs (honoring `json` field tags), scalars, ir.SymbolRef
// references, ir.Predicate functions and prebuilt nodes are accepted;
// anything else is an ErrDecode.
func FromGo(v any) (*ir.Node, error) {
	switch x := v.(type) {
	case nil:
		return ir.Null(), nil
	case *ir.Node:
		if x == nil {
			return ir.Null(), nil
		}
		return x, nil
	case ir.Predicate:
		return ir.FromPredicate(x), nil
	case func(candidate *ir.Node, env ir.Env) bool:
		return ir.FromPredicate(x), nil
	case ir.SymbolRef:
		return ir.FromSymbol(string(x)), nil
	case string:
		return ir.FromString(x), nil
	case bool:
		return ir.FromBool(x), nil
	case int:
		return ir.FromInt(int64(x)), nil
	case int8:
		return ir.FromInt(int64(x)), nil
	case int16:
		return ir.FromInt(int64(x)), nil
	case int32:
		return ir.FromInt(int64(x)), nil
	case int64:
		return ir.FromInt(x), nil
	case uint:
		return fromUint(uint64(x))
	case uint8:
		return ir.FromInt(int64(x)), nil
	case uint16:
		return ir.FromInt(int64(x)), nil
	case uint32:
		return ir.FromInt(int64(x)), nil
	case uint64:
		return fromUint(x)
	case float32:
		return ir.FromFloat(float64(x)), nil
	case float64:
		return ir.FromFloat(x), nil
	}
	return fromReflect(reflect.ValueOf(v))
}

func fromUint(u uint64) (*ir.Node, error) {
	if u > math.MaxInt64 {
		return nil, fmt.Errorf("%w: uint %d overflows", ErrDecode, u)
	}
	return ir.FromInt(int64(u)), nil
}

func fromReflect(val reflect.Value) (*ir.Node, error) {
	switch val.Kind() {
	case reflect.Pointer, reflect.Interface:
		if val.IsNil() {
			return ir.Null(), nil
		}
		return fromReflect(val.Elem())
	case reflect.Map:
		if val.Type().Key().Kind() != reflect.String {
			return nil, fmt.Errorf("%w: map key type %s", ErrDecode, val.Type().Key())
		}
		yMap := make(map[string]*ir.Node, val.Len())
		iter := val.MapRange()
		for iter.Next() {
			node, err := FromGo(iter.Value().Interface())
			if err != nil {
				return nil, err
			}
			yMap[iter.Key().String()] = node
		}
		return ir.FromMap(yMap), nil
	case reflect.Slice, reflect.Array:
		n := val.Len()
		vals := make([]*ir.Node, n)
		for i := range n {
			node, err := FromGo(val.Index(i).Interface())
			if err != nil {
				return nil, err
			}
			vals[i] = node
		}
		return ir.FromSlice(vals), nil
	case reflect.Struct:
		return fromStruct(val)
	case reflect.Func:
		return nil, fmt.Errorf("%w: func type %s is not an ir.Predicate", ErrDecode, val.Type())
	default:
		return nil, fmt.Errorf("%w: kind %s", ErrDecode, val.Kind())
	}
}

func fromStruct(val reflect.Value) (*ir.Node, error) {
	ty := val.Type()
	yMap := make(map[string]*ir.Node, ty.NumField())
	for i := range ty.NumField() {
		f := ty.Field(i)
		if !f.IsExported() {
			continue
		}
		name := fieldName(f)
		if name == "" {
			continue
		}
		node, err := FromGo(val.Field(i).Interface())
		if err != nil {
			return nil, err
		}
		yMap[name] = node
	}
	return ir.FromMap(yMap), nil
}

func fieldName(f reflect.StructField) string {
	tag := f.Tag.Get("json")
	if tag == "" {
		return f.Name
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}
