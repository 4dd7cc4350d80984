package inspect

import (
	"strconv"

	"github.com/Skotchmaster/tourbook/pkg/money"
)

func formatAmount(minor int64, currency string) string {
	s, err := money.FormatMinor(minor, currency)
	if err != nil {
		return strconv.FormatInt(minor, 10) + " " + currency
	}
	return s
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func UserTable(rows []UserRow) ([]string, [][]string) {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{r.ID, r.Email, r.Name, r.Role, yesNo(r.EmailVerified)})
	}
	return []string{"ID", "EMAIL", "NAME", "ROLE", "VERIFIED"}, out
}

func TourTable(rows []TourRow) ([]string, [][]string) {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{r.ID, r.Title, r.Location, formatAmount(r.PriceMinor, r.Currency), yesNo(r.Published)})
	}
	return []string{"ID", "TITLE", "LOCATION", "PRICE", "PUBLISHED"}, out
}

func CartTable(rows []CartRow) ([]string, [][]string) {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{r.CartID, r.Email, strconv.Itoa(r.Items), strconv.Itoa(r.Quantity)})
	}
	return []string{"CART", "USER", "ITEMS", "QUANTITY"}, out
}

func BookingTable(rows []BookingRow) ([]string, [][]string) {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{
			r.ConfirmationCode, r.Email, r.TourTitle, r.Day(),
			strconv.Itoa(r.Headcount), formatAmount(r.TotalMinor, r.Currency), r.Status,
		})
	}
	return []string{"CODE", "USER", "TOUR", "DATE", "PEOPLE", "TOTAL", "STATUS"}, out
}

func StatsTable(rows []TableCount) ([]string, [][]string) {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{r.Table, strconv.FormatInt(r.Rows, 10)})
	}
	return []string{"TABLE", "ROWS"}, out
}
