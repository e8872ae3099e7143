package mathtree

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// ============================================================
// JSON Serialization
// ============================================================

// ToJSON encodes the subtree at n.
func ToJSON(n *Node) (string, error) {
	b, err := json.Marshal(n.toJSON())
	return string(b), err
}

func (n *Node) toJSON() map[string]interface{} {
	switch t := n.term.(type) {
	case Literal:
		return map[string]interface{}{"type": "literal", "value": strconv.FormatInt(t.Value, 10)}
	case Symbol:
		return map[string]interface{}{"type": "symbol", "value": t.Encoding()}
	case Operator:
		children := make([]interface{}, len(n.children))
		for i, c := range n.children {
			children[i] = c.toJSON()
		}
		return map[string]interface{}{"type": "operator", "op": t.Op.Symbol.String(), "children": children}
	}
	return map[string]interface{}{"type": "unset"}
}

// FromJSON decodes a tree produced by ToJSON into a new root.
func FromJSON(data map[string]interface{}) (*Node, error) {
	if data == nil {
		return nil, fmt.Errorf("node must be an object")
	}
	typ, _ := data["type"].(string)
	switch typ {
	case "unset":
		return New(), nil
	case "literal":
		v, err := jsonInt(data["value"])
		if err != nil {
			return nil, fmt.Errorf("literal: %w", err)
		}
		return NewLiteral(v), nil
	case "symbol":
		enc, ok := data["value"].(string)
		if !ok {
			return nil, fmt.Errorf("symbol: 'value' must be a string")
		}
		s, ok := ParseEncoding(enc)
		if !ok {
			return nil, fmt.Errorf("symbol: bad encoding %q", enc)
		}
		return &Node{term: s}, nil
	case "operator":
		sym, _ := data["op"].(string)
		r := []rune(sym)
		if len(r) != 1 {
			return nil, fmt.Errorf("operator: %w: %q", ErrUnknownOperator, sym)
		}
		raw, ok := data["children"].([]interface{})
		if !ok || len(raw) < 2 {
			return nil, fmt.Errorf("operator %s: need at least two children", sym)
		}
		children := make([]*Node, len(raw))
		for i, rc := range raw {
			m, ok := rc.(map[string]interface{})
			if !ok {
				return nil, fmt.Errorf("operator %s: child %d must be an object", sym, i)
			}
			c, err := FromJSON(m)
			if err != nil {
				return nil, fmt.Errorf("operator %s: child %d: %w", sym, i, err)
			}
			children[i] = c
		}
		return NewOperator(Op(r[0]), children...)
	case "":
		return nil, fmt.Errorf("missing 'type' field")
	}
	return nil, fmt.Errorf("unknown node type %q", typ)
}

// ParseJSON decodes a tree from its ToJSON text.
func ParseJSON(s string) (*Node, error) {
	var m map[string]interface{}
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return nil, err
	}
	return FromJSON(m)
}

func jsonInt(v interface{}) (int64, error) {
	switch x := v.(type) {
	case string:
		return strconv.ParseInt(x, 10, 64)
	case float64:
		if x != float64(int64(x)) {
			return 0, fmt.Errorf("%v is not an integer", x)
		}
		return int64(x), nil
	case json.Number:
		return x.Int64()
	}
	return 0, fmt.Errorf("'value' must be an integer")
}
