package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/rs/zerolog"

	"github.com/vinzlac/mcp-server-brave-test/internal/models"
)

// Lister lists the tools a transport exposes.
type Lister interface {
	ListTools(ctx context.Context) ([]ToolSpec, error)
}

// Registry holds the tool descriptors fetched at session start. It is
// written once by NewRegistry and read-only afterwards, so it is safe to
// share between goroutines without locking.
type Registry struct {
	specs   []ToolSpec
	byName  map[string]int
	schemas map[string]*jsonschema.Resolved
}

// Load lists the transport's tools once and builds the registry. An
// unreachable transport or an empty tool list is a ConnectionError.
func Load(ctx context.Context, lister Lister, logger zerolog.Logger) (*Registry, error) {
	specs, err := lister.ListTools(ctx)
	if err != nil {
		return nil, models.NewConnectionError("failed to list tools", err)
	}
	if len(specs) == 0 {
		return nil, models.NewConnectionError("tool server exposes no tools", nil)
	}
	reg := NewRegistry(specs, logger)
	logger.Info().Strs("tools", reg.Names()).Msg("Connected to server with tools")
	return reg, nil
}

// NewRegistry indexes specs by name. Duplicate names keep the first entry.
// A spec whose schema cannot be compiled is kept but its arguments are not
// validated.
func NewRegistry(specs []ToolSpec, logger zerolog.Logger) *Registry {
	r := &Registry{
		byName:  make(map[string]int, len(specs)),
		schemas: make(map[string]*jsonschema.Resolved, len(specs)),
	}
	for _, spec := range specs {
		if _, dup := r.byName[spec.Name]; dup {
			logger.Warn().Str("tool", spec.Name).Msg("duplicate tool name ignored")
			continue
		}
		r.byName[spec.Name] = len(r.specs)
		r.specs = append(r.specs, spec)

		resolved, err := compileSchema(spec.InputSchema)
		if err != nil {
			logger.Warn().Err(err).Str("tool", spec.Name).Msg("tool schema not usable, arguments will not be validated")
			continue
		}
		if resolved != nil {
			r.schemas[spec.Name] = resolved
		}
	}
	return r
}

func compileSchema(raw map[string]any) (*jsonschema.Resolved, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	// The resolver only knows draft 2020-12; servers routinely tag older
	// drafts they do not actually depend on.
	trimmed := make(map[string]any, len(raw))
	for k, v := range raw {
		if k == "$schema" {
			continue
		}
		trimmed[k] = v
	}
	data, err := json.Marshal(trimmed)
	if err != nil {
		return nil, err
	}
	var schema jsonschema.Schema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, err
	}
	return schema.Resolve(nil)
}

// Lookup returns the descriptor for name.
func (r *Registry) Lookup(name string) (ToolSpec, bool) {
	i, ok := r.byName[name]
	if !ok {
		return ToolSpec{}, false
	}
	return r.specs[i], true
}

// Specs returns the descriptors in the order the transport listed them.
func (r *Registry) Specs() []ToolSpec {
	out := make([]ToolSpec, len(r.specs))
	copy(out, r.specs)
	return out
}

// Names returns the sorted tool names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.specs))
	for _, s := range r.specs {
		names = append(names, s.Name)
	}
	sort.Strings(names)
	return names
}

// ToolCount returns the number of registered tools.
func (r *Registry) ToolCount() int {
	return len(r.specs)
}

// Validate checks call's arguments against the tool's input schema. Unknown
// tools are reported as UnknownToolError.
func (r *Registry) Validate(call models.ToolCall) error {
	if _, ok := r.byName[call.Name]; !ok {
		return models.NewUnknownToolError(call.Name)
	}
	resolved, ok := r.schemas[call.Name]
	if !ok {
		return nil
	}
	args := call.Arguments
	if args == nil {
		args = map[string]any{}
	}
	// Validate against the JSON view of the arguments so Go-typed values
	// (ints, structs) compare the way the server will see them.
	data, err := json.Marshal(args)
	if err != nil {
		return NewValidationErrorf(call.Name, "arguments for %s are not JSON: %v", call.Name, err)
	}
	var instance any
	if err := json.Unmarshal(data, &instance); err != nil {
		return NewValidationErrorf(call.Name, "arguments for %s are not JSON: %v", call.Name, err)
	}
	if err := resolved.Validate(instance); err != nil {
		return NewValidationErrorf(call.Name, "invalid arguments for %s: %v", call.Name, err)
	}
	return nil
}

// String implements fmt.Stringer for logging.
func (r *Registry) String() string {
	return fmt.Sprintf("Registry%v", r.Names())
}
