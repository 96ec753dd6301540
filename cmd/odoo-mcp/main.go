// odoo-mcp serves read-only Odoo ERP query tools over the Model
// Context Protocol. Logs go to stderr; stdout belongs to the stdio
// transport.
package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/effective-security/odoomcp/config"
	"github.com/effective-security/odoomcp/mcpserver"
	"github.com/effective-security/odoomcp/odoorpc"
	"github.com/effective-security/odoomcp/tools/odoo"
	"github.com/effective-security/xlog"
	"github.com/spf13/cobra"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/odoomcp", "cmd")

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var (
	flagConfig    string
	flagTransport string
	flagAddr      string
	flagDebug     bool
)

var rootCmd = &cobra.Command{
	Use:          "odoo-mcp",
	Short:        "Read-only MCP server for Odoo ERP",
	Long:         "odoo-mcp exposes search_records, get_record, list_models and get_model_fields over the Model Context Protocol.",
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringVar(&flagConfig, "config", "", "Path to a YAML config file; environment variables take precedence")
	rootCmd.Flags().StringVar(&flagTransport, "transport", "", "MCP transport: stdio or http")
	rootCmd.Flags().StringVar(&flagAddr, "addr", "", "Listen address for the http transport")
	rootCmd.Flags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")

	rootCmd.Version = mcpserver.Version
}

func run(cmd *cobra.Command, _ []string) error {
	xlog.SetFormatter(xlog.NewStringFormatter(os.Stderr))
	if flagDebug {
		xlog.SetGlobalLogLevel(xlog.DEBUG)
	} else {
		xlog.SetGlobalLogLevel(xlog.INFO)
	}

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	if flagTransport != "" {
		cfg.Server.Transport = flagTransport
	}
	if flagAddr != "" {
		cfg.Server.Addr = flagAddr
	}

	client := odoorpc.NewClient(cfg.ClientConfig())
	reg := mcpserver.NewRegistry(odoo.All(client)...)
	srv := mcpserver.New(reg)

	// termination signals cause immediate clean exit, no draining
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.KV(xlog.INFO,
		"status", "starting",
		"transport", cfg.Server.Transport,
		"odoo_url", cfg.Odoo.URL,
		"database", cfg.Odoo.Database,
	)

	switch cfg.Server.Transport {
	case "http":
		err = mcpserver.ServeHTTP(ctx, srv, cfg.Server.Addr)
	default:
		err = mcpserver.ServeStdio(ctx, srv)
	}
	if err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
