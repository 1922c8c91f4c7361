// Package tools provides the tool registry, argument validation and the
// invoker that dispatches tool calls to the transport.
package tools

// ToolSpec describes a tool exposed by the tool server. It is sent to the
// completion endpoint as-is.
type ToolSpec struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"input_schema,omitempty"` // Raw JSON Schema
}

// Properties returns the schema's top-level properties, or nil.
func (s ToolSpec) Properties() map[string]any {
	props, _ := s.InputSchema["properties"].(map[string]any)
	return props
}

// Required returns the schema's required property names.
func (s ToolSpec) Required() []string {
	var out []string
	switch req := s.InputSchema["required"].(type) {
	case []string:
		out = append(out, req...)
	case []any:
		for _, r := range req {
			if name, ok := r.(string); ok {
				out = append(out, name)
			}
		}
	}
	return out
}
