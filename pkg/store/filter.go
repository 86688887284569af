package store

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Op is a filter operator in the CMS filter dialect.
type Op string

const (
	OpAnd       Op = "_and"
	OpOr        Op = "_or"
	OpEq        Op = "_eq"
	OpIContains Op = "_icontains"
)

var errBadFilter = errors.New("store: malformed filter")

// Filter is a node of a filter expression. Leaves compare one field with a
// value; inner nodes combine their children with AND or OR.
//
// The CMS receives the expression in its JSON form:
//
//	{"_and":[{"_or":[{"name":{"_icontains":"oak"}}]},{"risk_level":{"_eq":"high"}}]}
//
// The same expression can be evaluated in memory with Match.
type Filter struct {
	op       Op
	field    string
	value    string
	children []*Filter
}

func Eq(field, value string) *Filter {
	return &Filter{op: OpEq, field: field, value: value}
}

func IContains(field, value string) *Filter {
	return &Filter{op: OpIContains, field: field, value: value}
}

// And combines filters, skipping nil ones. It returns nil if nothing is
// left and the single filter if only one is.
func And(filters ...*Filter) *Filter {
	return group(OpAnd, filters)
}

// Or combines filters like And does.
func Or(filters ...*Filter) *Filter {
	return group(OpOr, filters)
}

func group(op Op, filters []*Filter) *Filter {
	children := make([]*Filter, 0, len(filters))
	for _, f := range filters {
		if f != nil {
			children = append(children, f)
		}
	}
	switch len(children) {
	case 0:
		return nil
	case 1:
		if op == OpAnd {
			return children[0]
		}
	}
	return &Filter{op: op, children: children}
}

// Expr returns the expression as plain maps and slices, ready for any
// codec.
func (f *Filter) Expr() map[string]any {
	if f == nil {
		return nil
	}
	switch f.op {
	case OpAnd, OpOr:
		children := make([]any, 0, len(f.children))
		for _, c := range f.children {
			children = append(children, c.Expr())
		}
		return map[string]any{string(f.op): children}
	default:
		return map[string]any{f.field: map[string]any{string(f.op): f.value}}
	}
}

// ParseFilter reads an expression produced by Expr after it went through a
// codec. A nil input yields a nil filter.
func ParseFilter(v any) (*Filter, error) {
	if v == nil {
		return nil, nil
	}
	m, ok := asMap(v)
	if !ok || len(m) != 1 {
		return nil, fmt.Errorf("%w: expected an object with one key", errBadFilter)
	}
	for key, body := range m {
		switch Op(key) {
		case OpAnd, OpOr:
			list, ok := body.([]any)
			if !ok {
				return nil, fmt.Errorf("%w: %s expects a list", errBadFilter, key)
			}
			children := make([]*Filter, 0, len(list))
			for _, item := range list {
				c, err := ParseFilter(item)
				if err != nil {
					return nil, err
				}
				children = append(children, c)
			}
			return &Filter{op: Op(key), children: children}, nil
		}

		cond, ok := asMap(body)
		if !ok || len(cond) != 1 {
			return nil, fmt.Errorf("%w: field %s expects one operator", errBadFilter, key)
		}
		for op, value := range cond {
			switch Op(op) {
			case OpEq, OpIContains:
				return &Filter{op: Op(op), field: key, value: stringify(value)}, nil
			}
			return nil, fmt.Errorf("%w: unsupported operator %s", errBadFilter, op)
		}
	}
	return nil, errBadFilter
}

// Match evaluates f against a record rendered as a map. A nil filter
// matches everything.
func (f *Filter) Match(record map[string]any) bool {
	if f == nil {
		return true
	}
	switch f.op {
	case OpAnd:
		for _, c := range f.children {
			if !c.Match(record) {
				return false
			}
		}
		return true
	case OpOr:
		for _, c := range f.children {
			if c.Match(record) {
				return true
			}
		}
		return false
	case OpEq:
		return stringify(record[f.field]) == f.value
	case OpIContains:
		return strings.Contains(strings.ToLower(stringify(record[f.field])), strings.ToLower(f.value))
	}
	return false
}

func (f *Filter) String() string {
	if f == nil {
		return "<all>"
	}
	switch f.op {
	case OpAnd, OpOr:
		parts := make([]string, 0, len(f.children))
		for _, c := range f.children {
			parts = append(parts, c.String())
		}
		sep := " AND "
		if f.op == OpOr {
			sep = " OR "
		}
		return "(" + strings.Join(parts, sep) + ")"
	case OpIContains:
		return fmt.Sprintf("%s ~ %q", f.field, f.value)
	}
	return fmt.Sprintf("%s = %q", f.field, f.value)
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			s, ok := k.(string)
			if !ok {
				return nil, false
			}
			out[s] = val
		}
		return out, true
	}
	return nil, false
}

func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case fmt.Stringer:
		return x.String()
	}
	return fmt.Sprint(v)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
