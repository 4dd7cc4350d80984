package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/Skotchmaster/tourbook/internal/inspect"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Print users",
	RunE: withInspector(func(ctx context.Context, ins *inspect.Inspector) error {
		rows, err := ins.Users(ctx, limit)
		if err != nil {
			return err
		}
		h, r := inspect.UserTable(rows)
		return inspect.PrintTable(os.Stdout, h, r)
	}),
}

var toursCmd = &cobra.Command{
	Use:   "tours",
	Short: "Print tours with formatted prices",
	RunE: withInspector(func(ctx context.Context, ins *inspect.Inspector) error {
		rows, err := ins.Tours(ctx, limit)
		if err != nil {
			return err
		}
		h, r := inspect.TourTable(rows)
		return inspect.PrintTable(os.Stdout, h, r)
	}),
}

var cartsCmd = &cobra.Command{
	Use:   "carts",
	Short: "Print carts with item counts",
	RunE: withInspector(func(ctx context.Context, ins *inspect.Inspector) error {
		rows, err := ins.Carts(ctx, limit)
		if err != nil {
			return err
		}
		h, r := inspect.CartTable(rows)
		return inspect.PrintTable(os.Stdout, h, r)
	}),
}

var bookingsCmd = &cobra.Command{
	Use:   "bookings",
	Short: "Print bookings",
	RunE: withInspector(func(ctx context.Context, ins *inspect.Inspector) error {
		rows, err := ins.Bookings(ctx, limit)
		if err != nil {
			return err
		}
		h, r := inspect.BookingTable(rows)
		return inspect.PrintTable(os.Stdout, h, r)
	}),
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print row counts per table",
	RunE: withInspector(func(ctx context.Context, ins *inspect.Inspector) error {
		rows, err := ins.Stats(ctx)
		if err != nil {
			return err
		}
		h, r := inspect.StatsTable(rows)
		return inspect.PrintTable(os.Stdout, h, r)
	}),
}

func withInspector(run func(ctx context.Context, ins *inspect.Inspector) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		ins, err := inspect.Connect(ctx, dsn)
		if err != nil {
			return err
		}
		defer ins.Close()
		return run(ctx, ins)
	}
}
