package commands

import (
	"context"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/corvids/azdo-mcp/connection"
	"github.com/corvids/azdo-mcp/tools"
)

type serveOptions struct {
	listen string
}

func newServeCommand() *cobra.Command {
	options := serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server, over stdio by default.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(options)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&options.listen, "listen", "l", "",
		"Serve over SSE on the given address instead of stdio")

	return cmd
}

// newLogger builds a production logger on stderr. Stdout carries the MCP
// protocol stream and must stay clean.
func newLogger() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

func runServe(options serveOptions) error {
	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	// Credentials are loaded per tool call, like every other remote
	// interaction, so a credential fix does not require a restart.
	provider := func(ctx context.Context) (*connection.Clients, error) {
		cfg, err := connection.LoadConfig()
		if err != nil {
			return nil, err
		}
		return connection.Open(ctx, cfg)
	}

	s := tools.NewServer(provider, log)

	if options.listen != "" {
		log.Info("serving over SSE", zap.String("addr", options.listen))
		return server.NewSSEServer(s).Start(options.listen)
	}

	log.Info("serving over stdio")
	return server.ServeStdio(s)
}
