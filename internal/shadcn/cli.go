package shadcn

import "shadcn-mcp/internal/runner"

const (
	DefaultBinary  = "npx"
	DefaultPackage = "shadcn-ui@latest"
)

// CLI builds the wrapped shadcn-ui command lines. Every component name is
// its own argument; nothing is passed through a shell.
type CLI struct {
	Binary  string
	Package string
}

// DefaultCLI runs shadcn-ui through npx.
func DefaultCLI() CLI {
	return CLI{Binary: DefaultBinary, Package: DefaultPackage}
}

func (c CLI) command(dir string, args ...string) runner.Command {
	return runner.Command{
		Name: c.Binary,
		Args: append([]string{c.Package}, args...),
		Dir:  dir,
	}
}

// Init is `<package> init -y`.
func (c CLI) Init(dir string) runner.Command {
	return c.command(dir, "init", "-y")
}

// Add is `<package> add <components...>`.
func (c CLI) Add(dir string, components []string) runner.Command {
	return c.command(dir, append([]string{"add"}, components...)...)
}

// List is `<package> list`.
func (c CLI) List(dir string) runner.Command {
	return c.command(dir, "list")
}
