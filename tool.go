package mathtree

import (
	"encoding/json"
	"fmt"
	"sort"
)

// ============================================================
// MCP Tool Interface
// ============================================================

type ToolRequest struct {
	Tool   string                 `json:"tool"`
	Params map[string]interface{} `json:"params"`
}

type ToolResponse struct {
	Result interface{} `json:"result,omitempty"`
	LaTeX  string      `json:"latex,omitempty"`
	String string      `json:"string,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// ToolNames lists the tools HandleToolCall understands.
func ToolNames() []string {
	names := make([]string, 0, len(toolSpecs))
	for name := range toolSpecs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func HandleToolCall(req ToolRequest) ToolResponse {
	getTree := func(key string) (*Node, error) {
		v, ok := req.Params[key]
		if !ok {
			return nil, fmt.Errorf("missing param: %s", key)
		}
		m, ok := v.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("invalid type for param %s", key)
		}
		return FromJSON(m)
	}
	getString := func(key string) (string, error) {
		v, ok := req.Params[key]
		if !ok {
			return "", fmt.Errorf("missing param: %s", key)
		}
		s, ok := v.(string)
		if !ok {
			return "", fmt.Errorf("param %s must be a string", key)
		}
		return s, nil
	}
	getPath := func(key string) ([]int, error) {
		v, ok := req.Params[key]
		if !ok {
			return []int{}, nil
		}
		raw, ok := v.([]interface{})
		if !ok {
			return nil, fmt.Errorf("param %s must be array", key)
		}
		path := make([]int, len(raw))
		for i, r := range raw {
			f, ok := r.(float64)
			if !ok || f != float64(int(f)) {
				return nil, fmt.Errorf("param %s[%d] must be an integer", key, i)
			}
			path[i] = int(f)
		}
		return path, nil
	}
	getKeys := func(key string) ([]Key, error) {
		v, ok := req.Params[key]
		if !ok {
			return nil, fmt.Errorf("missing param: %s", key)
		}
		raw, ok := v.([]interface{})
		if !ok {
			return nil, fmt.Errorf("param %s must be array", key)
		}
		keys := make([]Key, len(raw))
		for i, r := range raw {
			switch k := r.(type) {
			case string:
				parsed, err := ParseKey(k)
				if err != nil {
					return nil, fmt.Errorf("param %s[%d]: %w", key, i, err)
				}
				keys[i] = parsed
			case map[string]interface{}:
				name, _ := k["name"].(string)
				text, _ := k["text"].(string)
				keys[i] = Key{Name: name, Text: text}
			default:
				return nil, fmt.Errorf("param %s[%d] must be a string or key object", key, i)
			}
		}
		return keys, nil
	}
	errResp := func(err error) ToolResponse { return ToolResponse{Error: err.Error()} }
	treeResp := func(root *Node, extra interface{}) ToolResponse {
		m := map[string]interface{}{"tree": root.toJSON()}
		if extra != nil {
			m["path"] = extra
		}
		return ToolResponse{Result: m, LaTeX: root.LaTeX(), String: root.String()}
	}
	target := func() (*Node, *Node, error) {
		root, err := getTree("tree")
		if err != nil {
			return nil, nil, err
		}
		path, err := getPath("path")
		if err != nil {
			return nil, nil, err
		}
		n, err := root.At(path)
		if err != nil {
			return nil, nil, err
		}
		return root, n, nil
	}

	switch req.Tool {
	case "evaluate":
		root, err := getTree("tree")
		if err != nil {
			return errResp(err)
		}
		terms, ok := root.Evaluate()
		if !ok {
			return ToolResponse{Result: nil, String: ""}
		}
		return ToolResponse{Result: map[string]int64(terms), LaTeX: terms.LaTeX(), String: terms.String()}

	case "to_latex":
		root, err := getTree("tree")
		if err != nil {
			return errResp(err)
		}
		return ToolResponse{Result: root.LaTeX(), LaTeX: root.LaTeX()}

	case "to_string":
		root, err := getTree("tree")
		if err != nil {
			return errResp(err)
		}
		return ToolResponse{Result: root.String(), String: root.String()}

	case "post_operation":
		_, n, err := target()
		if err != nil {
			return errResp(err)
		}
		op, err := getString("op")
		if err != nil {
			return errResp(err)
		}
		r := []rune(op)
		if len(r) != 1 {
			return errResp(fmt.Errorf("%w: %q", ErrUnknownOperator, op))
		}
		root, placeholder, err := n.PostOperation(Op(r[0]))
		if err != nil {
			return errResp(err)
		}
		return treeResp(root, placeholder.Path())

	case "remove_operation":
		root, n, err := target()
		if err != nil {
			return errResp(err)
		}
		folded := n.RemoveOperation()
		if folded == nil {
			return errResp(fmt.Errorf("remove_operation: node at %v has no operator to remove", n.Path()))
		}
		return treeResp(root, folded.Path())

	case "adjacent_leaf":
		_, n, err := target()
		if err != nil {
			return errResp(err)
		}
		forward, _ := req.Params["forward"].(bool)
		leaf := n.AdjacentLeaf(forward)
		if leaf == nil {
			return ToolResponse{Result: nil}
		}
		return ToolResponse{Result: leaf.Path(), String: leaf.String()}

	case "type":
		keys, err := getKeys("keys")
		if err != nil {
			return errResp(err)
		}
		var opts []EditorOption
		if _, ok := req.Params["tree"]; ok {
			root, err := getTree("tree")
			if err != nil {
				return errResp(err)
			}
			opts = append(opts, WithTree(root))
		}
		e := NewEditor(opts...)
		for _, k := range keys {
			if err := e.Apply(k); err != nil {
				return errResp(err)
			}
		}
		resp := treeResp(e.Root(), e.Focus().Path())
		resp.Result.(map[string]interface{})["state"] = e.State()
		return resp

	case "mcp_spec":
		return ToolResponse{Result: MCPToolSpec()}
	}
	return ToolResponse{Error: fmt.Sprintf("unknown tool: %s", req.Tool)}
}

// ============================================================
// MCP spec
// ============================================================

var toolSpecs = map[string]map[string]interface{}{
	"evaluate":         ts("evaluate", "Evaluate a tree to canonical terms", []string{"tree"}, map[string]string{"tree": "object"}),
	"to_latex":         ts("to_latex", "Render a tree as a LaTeX formula", []string{"tree"}, map[string]string{"tree": "object"}),
	"to_string":        ts("to_string", "Render a tree as plain infix text", []string{"tree"}, map[string]string{"tree": "object"}),
	"post_operation":   ts("post_operation", "Insert an operator after the node at path", []string{"tree", "op"}, map[string]string{"tree": "object", "path": "array", "op": "string"}),
	"remove_operation": ts("remove_operation", "Fold the operator above the leaf at path into one literal", []string{"tree", "path"}, map[string]string{"tree": "object", "path": "array"}),
	"adjacent_leaf":    ts("adjacent_leaf", "Path of the next or previous leaf in document order", []string{"tree", "path"}, map[string]string{"tree": "object", "path": "array", "forward": "boolean"}),
	"type":             ts("type", "Replay editor keys, e.g. [\"type 2+x\", \"left\", \"backspace\"]", []string{"keys"}, map[string]string{"keys": "array", "tree": "object"}),
	"mcp_spec":         ts("mcp_spec", "Return this tool schema", []string{}, map[string]string{}),
}

func MCPToolSpec() string {
	tools := make([]map[string]interface{}, 0, len(toolSpecs))
	for _, name := range ToolNames() {
		tools = append(tools, toolSpecs[name])
	}
	spec := map[string]interface{}{"tools": tools}
	b, _ := json.MarshalIndent(spec, "", "  ")
	return string(b)
}

func ts(name, description string, required []string, props map[string]string) map[string]interface{} {
	properties := map[string]interface{}{}
	for k, typ := range props {
		properties[k] = map[string]interface{}{"type": typ}
	}
	return map[string]interface{}{
		"name":        name,
		"description": description,
		"inputSchema": map[string]interface{}{
			"type":       "object",
			"properties": properties,
			"required":   required,
		},
	}
}
