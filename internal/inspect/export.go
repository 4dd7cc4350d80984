package inspect

import (
	"fmt"
	"io"

	"github.com/tealeg/xlsx"
)

var bookingColumns = []string{
	"Confirmation", "Email", "Tour", "Travel date", "Headcount",
	"Total (minor)", "Currency", "Total", "Status",
}

func BookingsWorkbook(rows []BookingRow) (*xlsx.File, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Bookings")
	if err != nil {
		return nil, fmt.Errorf("add sheet: %w", err)
	}

	header := sheet.AddRow()
	for _, h := range bookingColumns {
		header.AddCell().SetValue(h)
	}

	for _, b := range rows {
		row := sheet.AddRow()
		row.AddCell().SetValue(b.ConfirmationCode)
		row.AddCell().SetValue(b.Email)
		row.AddCell().SetValue(b.TourTitle)
		row.AddCell().SetValue(b.Day())
		row.AddCell().SetValue(b.Headcount)
		row.AddCell().SetValue(b.TotalMinor)
		row.AddCell().SetValue(b.Currency)
		row.AddCell().SetValue(formatAmount(b.TotalMinor, b.Currency))
		row.AddCell().SetValue(b.Status)
	}
	return file, nil
}

func WriteBookings(w io.Writer, rows []BookingRow) error {
	file, err := BookingsWorkbook(rows)
	if err != nil {
		return err
	}
	if err := file.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}
