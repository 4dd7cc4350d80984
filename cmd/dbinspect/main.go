package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Skotchmaster/tourbook/pkg/config"
)

var (
	dsn   string
	limit int
)

var rootCmd = &cobra.Command{
	Use:   "dbinspect",
	Short: "One-shot queries against the tourbook database",
	Long: `dbinspect prints rows straight from the tourbook database.

Available subcommands:
  users, tours, carts, bookings - print rows
  stats                         - row counts per table
  seed                          - insert demo categories and tours
  export bookings               - write bookings to an xlsx file`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if dsn == "" {
			return fmt.Errorf("no database: set DATABASE_URL or pass --dsn")
		}
		return nil
	},
}

func main() {
	config.LoadEnvFile()

	rootCmd.PersistentFlags().StringVar(&dsn, "dsn", os.Getenv("DATABASE_URL"), "postgres connection string")
	rootCmd.PersistentFlags().IntVarP(&limit, "limit", "n", 50, "maximum rows to print")

	rootCmd.AddCommand(usersCmd, toursCmd, cartsCmd, bookingsCmd, statsCmd, seedCmd, exportCmd)
	exportCmd.AddCommand(exportBookingsCmd)

	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "", "YAML seed file (defaults to built-in demo data)")
	exportBookingsCmd.Flags().StringVarP(&exportOut, "out", "o", "bookings.xlsx", "output file")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
