package shadcn

import "strings"

// Args is the validated argument set of one tool. Implemented by InitArgs,
// AddArgs and ListArgs only.
type Args interface {
	Tool() string
	Dir() string
}

// InitArgs are the arguments of init_shadcn.
type InitArgs struct {
	Directory string
}

func (a InitArgs) Tool() string {
	return ToolInit
}

func (a InitArgs) Dir() string {
	return a.Directory
}

// AddArgs are the arguments of add_component. Components keep the order and
// spelling the caller sent.
type AddArgs struct {
	Directory  string
	Components []string
}

func (a AddArgs) Tool() string {
	return ToolAdd
}

func (a AddArgs) Dir() string {
	return a.Directory
}

// ListArgs are the arguments of list_components.
type ListArgs struct {
	Directory string
}

func (a ListArgs) Tool() string {
	return ToolList
}

func (a ListArgs) Dir() string {
	return a.Directory
}

// ParseArgs validates the raw argument bag for the named tool. Unknown tools
// yield MethodNotFound; missing or mistyped fields yield InvalidParams.
func ParseArgs(tool string, raw map[string]any) (Args, error) {
	if !HasTool(tool) {
		return nil, MethodNotFound(tool)
	}

	dir, err := directoryArg(raw)
	if err != nil {
		return nil, err
	}

	switch tool {
	case ToolInit:
		return InitArgs{Directory: dir}, nil
	case ToolList:
		return ListArgs{Directory: dir}, nil
	}

	components, err := componentsArg(raw)
	if err != nil {
		return nil, err
	}
	return AddArgs{Directory: dir, Components: components}, nil
}

func directoryArg(raw map[string]any) (string, error) {
	v, ok := raw["directory"]
	if !ok || v == nil {
		return "", InvalidParams("`directory` is required")
	}
	dir, ok := v.(string)
	if !ok {
		return "", InvalidParams("`directory` must be a string")
	}
	if strings.TrimSpace(dir) == "" {
		return "", InvalidParams("`directory` must not be empty")
	}
	return dir, nil
}

func componentsArg(raw map[string]any) ([]string, error) {
	var items []any
	switch v := raw["components"].(type) {
	case []any:
		items = v
	case []string:
		items = make([]any, len(v))
		for i := range v {
			items[i] = v[i]
		}
	}
	if len(items) == 0 {
		return nil, InvalidParams("`components` must be a non-empty array")
	}

	components := make([]string, 0, len(items))
	for i, item := range items {
		name, ok := item.(string)
		if !ok {
			return nil, InvalidParams("`components[%d]` must be a string", i)
		}
		if strings.TrimSpace(name) == "" {
			return nil, InvalidParams("`components[%d]` must not be empty", i)
		}
		components = append(components, name)
	}
	return components, nil
}
