// Command shadcn-mcp serves the shadcn-ui CLI as MCP tools.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"shadcn-mcp/internal/config"
	"shadcn-mcp/internal/logging"
	"shadcn-mcp/internal/runner"
	"shadcn-mcp/internal/server"
	"shadcn-mcp/internal/shadcn"
)

type options struct {
	configPath string
	transport  string
	addr       string
	logLevel   string
	logFile    string
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "[shadcn-mcp] fatal:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "shadcn-mcp",
		Short: "MCP server exposing the shadcn-ui CLI",
		Long: `shadcn-mcp exposes three MCP tools (init_shadcn, add_component,
list_components) that run the shadcn-ui CLI in a caller-supplied project
directory. It speaks MCP over stdio by default.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "path to a TOML config file (default $"+config.EnvConfig+")")
	root.Flags().StringVar(&opts.transport, "transport", "", "transport to serve: stdio or http")
	root.Flags().StringVar(&opts.addr, "addr", "", "listen address for the http transport")
	root.Flags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error, off")
	root.Flags().StringVar(&opts.logFile, "log-file", "", "also write JSON logs to this rotated file")

	root.AddCommand(newToolsCmd(), newVersionCmd(opts))
	return root
}

func newToolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "Print the advertised tool descriptors as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(shadcn.Tools())
		},
	}
}

func newVersionCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the server name and version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", cfg.Server.Name, cfg.Server.Version)
			return nil
		},
	}
}

// loadConfig layers flags the user actually set over file and env settings.
func loadConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	path := opts.configPath
	if path == "" {
		path = config.ConfigPathFromEnv()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("transport") {
		cfg.Transport.Mode = strings.ToLower(strings.TrimSpace(opts.transport))
	}
	if flags.Changed("addr") {
		cfg.Transport.Addr = opts.addr
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = opts.logLevel
	}
	if flags.Changed("log-file") {
		cfg.Log.File = opts.logFile
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func serve(ctx context.Context, cfg *config.Config, stdin io.Reader, stdout, stderr io.Writer) error {
	logger, closeLog, err := logging.New(cfg.Log, stderr)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = closeLog() }()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	r := runner.NewExecRunner(runner.Config{
		Timeout: cfg.RunnerTimeout(),
		Logger:  logger.Named("runner"),
	})
	cli := shadcn.CLI{Binary: cfg.CLI.Binary, Package: cfg.CLI.Package}
	d := shadcn.NewDispatcher(r, cli, logger.Named("dispatch"))
	srv := server.New(cfg, d, logger.Named("server"))

	if err := srv.Run(ctx, stdin, stdout, stderr); err != nil {
		return fmt.Errorf("serve %s: %w", cfg.Transport.Mode, err)
	}
	return nil
}
