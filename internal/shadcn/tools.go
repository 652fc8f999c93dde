package shadcn

import "github.com/mark3labs/mcp-go/mcp"

const (
	ToolInit = "init_shadcn"
	ToolAdd  = "add_component"
	ToolList = "list_components"
)

const directoryDescription = "Absolute path to the project root"

// ToolNames returns the registered tool names in listing order.
func ToolNames() []string {
	return []string{ToolInit, ToolAdd, ToolList}
}

// HasTool reports whether name is a registered tool.
func HasTool(name string) bool {
	switch name {
	case ToolInit, ToolAdd, ToolList:
		return true
	}
	return false
}

// Tools returns the fixed tool descriptors served on tools/list.
func Tools() []mcp.Tool {
	return []mcp.Tool{
		mcp.NewTool(ToolInit,
			mcp.WithDescription("Initialize shadcn-ui in a project directory"),
			mcp.WithString("directory", mcp.Required(), mcp.Description(directoryDescription)),
			mcp.WithToolAnnotation(writeAnnotation("Initialize shadcn-ui")),
		),
		mcp.NewTool(ToolAdd,
			mcp.WithDescription("Add one or more shadcn-ui components to a project"),
			mcp.WithString("directory", mcp.Required(), mcp.Description(directoryDescription)),
			mcp.WithArray("components",
				mcp.Required(),
				mcp.Description("Component names to add (e.g. button, card)"),
				mcp.Items(map[string]any{"type": "string"}),
			),
			mcp.WithToolAnnotation(writeAnnotation("Add shadcn-ui components")),
		),
		mcp.NewTool(ToolList,
			mcp.WithDescription("List available shadcn-ui components"),
			mcp.WithString("directory", mcp.Required(), mcp.Description(directoryDescription)),
			mcp.WithToolAnnotation(mcp.ToolAnnotation{
				Title:           "List shadcn-ui components",
				ReadOnlyHint:    mcp.ToBoolPtr(true),
				DestructiveHint: mcp.ToBoolPtr(false),
				OpenWorldHint:   mcp.ToBoolPtr(true),
			}),
		),
	}
}

// writeAnnotation marks tools that add files to the project and reach the
// package registry.
func writeAnnotation(title string) mcp.ToolAnnotation {
	return mcp.ToolAnnotation{
		Title:           title,
		ReadOnlyHint:    mcp.ToBoolPtr(false),
		DestructiveHint: mcp.ToBoolPtr(false),
		OpenWorldHint:   mcp.ToBoolPtr(true),
	}
}
