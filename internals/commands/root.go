package commands

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"library_backend/internals/configs"
)

var envFile bool

// rootCmd: `library` tanpa subcommand = serve.
var rootCmd = &cobra.Command{
	Use:   "library",
	Short: "Library borrowing service (books, customers, borrowings)",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if envFile {
			configs.LoadEnv()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveCmd.RunE(cmd, args)
	},
	SilenceUsage: true,
}

// Execute dipanggil oleh main.main(); exit code diputuskan di main.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&envFile, "env-file", true, "Load .env from the working directory when present")
	rootCmd.AddCommand(serveCmd, migrateCmd)
}
