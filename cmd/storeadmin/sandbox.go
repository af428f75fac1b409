package main

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Cloudsky01/storeadmin/internal/sandbox"
)

var (
	listenAddr  string
	sandboxAuth bool

	sandboxCmd = &cobra.Command{
		Use:   "sandbox",
		Short: "Serve an in-memory demo backend",
		Long: `Serve a seeded, in-memory copy of the store API. Changes are lost on
exit. Point the console at it with --api http://localhost:8080.

Seeded accounts: admin/admin123 and manager/manager123.`,
		RunE: runSandbox,
	}
)

func init() {
	sandboxCmd.Flags().StringVar(&listenAddr, "listen", ":8080", "Address to listen on")
	sandboxCmd.Flags().BoolVar(&sandboxAuth, "auth", false, "Require a bearer token on every endpoint except login")

	rootCmd.AddCommand(sandboxCmd)
}

func runSandbox(cmd *cobra.Command, args []string) error {
	log, err := zap.NewDevelopment()
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := sandbox.New(sandbox.Seeded(time.Now()),
		sandbox.WithAuth(sandboxAuth),
		sandbox.WithLogger(log.Named("sandbox")))

	log.Info("sandbox listening", zap.String("addr", listenAddr), zap.Bool("auth", sandboxAuth))
	return srv.Listen(ctx, listenAddr)
}
