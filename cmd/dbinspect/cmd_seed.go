package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Skotchmaster/tourbook/internal/inspect"
	"github.com/Skotchmaster/tourbook/internal/repo"
	"github.com/Skotchmaster/tourbook/pkg/db"
)

var (
	seedFile  string
	exportOut string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert demo categories and tours",
	Long: `Insert categories and tours from a YAML file, or the built-in demo
set when --file is not given. Rows whose slug already exists are skipped.`,
	RunE: runSeed,
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export tables to spreadsheets",
}

var exportBookingsCmd = &cobra.Command{
	Use:   "bookings",
	Short: "Write bookings to an xlsx file",
	RunE:  runExportBookings,
}

func runSeed(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	seed := inspect.DefaultSeed()
	if seedFile != "" {
		f, err := os.Open(seedFile)
		if err != nil {
			return err
		}
		defer f.Close()
		if seed, err = inspect.ParseSeed(f); err != nil {
			return err
		}
	}

	gdb, err := db.Open(ctx, dsn)
	if err != nil {
		return err
	}
	defer db.Close(gdb)

	r := repo.New(gdb)
	if err := r.Migrate(); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	res, err := inspect.ApplySeed(ctx, r, seed)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "categories: %d, tours: %d, media: %d, skipped: %d\n",
		res.Categories, res.Tours, res.Media, res.Skipped)
	return nil
}

func runExportBookings(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	ins, err := inspect.Connect(ctx, dsn)
	if err != nil {
		return err
	}
	defer ins.Close()

	n := -1
	if cmd.Flags().Changed("limit") {
		n = limit
	}
	rows, err := ins.Bookings(ctx, n)
	if err != nil {
		return err
	}

	f, err := os.Create(exportOut)
	if err != nil {
		return err
	}
	if err := inspect.WriteBookings(f, rows); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d bookings to %s\n", len(rows), exportOut)
	return nil
}
