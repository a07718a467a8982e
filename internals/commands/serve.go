package commands

import (
	"github.com/spf13/cobra"

	"library_backend/internals/configs"
	database "library_backend/internals/databases"
	notifService "library_backend/internals/features/notifications/service"
	"library_backend/internals/server"
)

var serveMigrate bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := configs.Load()

		db, err := database.ConnectDB(cfg)
		if err != nil {
			return err
		}
		defer database.Close(db)
		database.TunePool(db)

		if serveMigrate {
			if err := database.Migrate(db); err != nil {
				return err
			}
		}

		app := server.NewApp(cfg, db, notifService.NewNotifier(cfg))
		return server.Run(cmd.Context(), app, cfg.Port)
	},
}

func init() {
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", false, "Run schema migration before serving")
}
