package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"library_backend/internals/configs"
	database "library_backend/internals/databases"
	"library_backend/internals/middlewares/auth"
	"library_backend/internals/seeds"
)

type migrateOptions struct {
	WithTestData bool
	FixturesPath string
	JWTSecret    string
}

var migrateOpts migrateOptions

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	Long: `Runs AutoMigrate for customers, books and borrowings.
With --with-test-data the YAML fixtures are loaded afterwards and a
development access token is printed for every seeded customer.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := configs.Load()
		db, err := database.ConnectDB(cfg)
		if err != nil {
			return err
		}
		defer database.Close(db)

		opts := migrateOpts
		opts.JWTSecret = cfg.JWTSecret
		return runMigrate(cmd.Context(), db, opts, cmd.OutOrStdout())
	},
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateOpts.WithTestData, "with-test-data", false, "Load test data for the library database")
	migrateCmd.Flags().StringVar(&migrateOpts.FixturesPath, "fixtures", seeds.DefaultFixturesPath, "Path to the YAML fixtures file")
}

func runMigrate(ctx context.Context, db *gorm.DB, opts migrateOptions, out io.Writer) error {
	if err := database.Migrate(db); err != nil {
		return err
	}
	if !opts.WithTestData {
		return nil
	}

	res, err := seeds.RunAllSeeds(ctx, db, opts.FixturesPath)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	fmt.Fprintf(out, "seeded %d books, %d borrowings\n", res.Books, res.Borrowings)

	if opts.JWTSecret == "" {
		fmt.Fprintln(out, "JWT_SECRET is empty, skipping dev tokens")
		return nil
	}
	for _, cust := range res.Customers {
		tok, err := auth.IssueAccessToken(opts.JWTSecret, cust, 7*24*time.Hour)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s (staff=%t): %s\n", cust.CustomerEmail, cust.CustomerIsStaff, tok)
	}
	return nil
}
