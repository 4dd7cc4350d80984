package inspect

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

const DefaultLimit = 50

// Tables lists every table the backend migrates, in the order stats prints them.
var Tables = []string{
	"users", "refresh_tokens", "categories", "tours", "tour_media",
	"carts", "cart_items", "wishlists", "wishlist_items", "bookings",
}

type Inspector struct {
	db *sqlx.DB
}

func Connect(ctx context.Context, dsn string) (*Inspector, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	return &Inspector{db: db}, nil
}

func New(db *sqlx.DB) *Inspector {
	return &Inspector{db: db}
}

func (i *Inspector) Close() error {
	return i.db.Close()
}

type UserRow struct {
	ID            string `db:"id"`
	Email         string `db:"email"`
	Name          string `db:"name"`
	Role          string `db:"role"`
	EmailVerified bool   `db:"email_verified"`
}

type TourRow struct {
	ID         string `db:"id"`
	Title      string `db:"title"`
	Location   string `db:"location"`
	PriceMinor int64  `db:"price_minor"`
	Currency   string `db:"currency"`
	Published  bool   `db:"published"`
}

type CartRow struct {
	CartID   string `db:"cart_id"`
	Email    string `db:"email"`
	Items    int    `db:"items"`
	Quantity int    `db:"quantity"`
}

type BookingRow struct {
	ID               string `db:"id"`
	ConfirmationCode string `db:"confirmation_code"`
	Email            string `db:"email"`
	TourTitle        string `db:"tour_title"`
	TravelDate       string `db:"travel_date"`
	Headcount        int    `db:"headcount"`
	TotalMinor       int64  `db:"total_minor"`
	Currency         string `db:"currency"`
	Status           string `db:"status"`
}

// Day trims a scanned timestamp to its date part.
func (b BookingRow) Day() string {
	if len(b.TravelDate) >= 10 {
		return b.TravelDate[:10]
	}
	return b.TravelDate
}

type TableCount struct {
	Table string
	Rows  int64
}

// limitClause caps a listing. Zero means DefaultLimit, negative means no cap.
func limitClause(limit int) string {
	if limit < 0 {
		return ""
	}
	if limit == 0 {
		limit = DefaultLimit
	}
	return " LIMIT " + strconv.Itoa(limit)
}

func (i *Inspector) Users(ctx context.Context, limit int) ([]UserRow, error) {
	var rows []UserRow
	q := `SELECT id, email, name, role, email_verified FROM users ORDER BY email` + limitClause(limit)
	if err := i.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, fmt.Errorf("select users: %w", err)
	}
	return rows, nil
}

func (i *Inspector) Tours(ctx context.Context, limit int) ([]TourRow, error) {
	var rows []TourRow
	q := `SELECT id, title, location, price_minor, currency, published FROM tours ORDER BY title` + limitClause(limit)
	if err := i.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, fmt.Errorf("select tours: %w", err)
	}
	return rows, nil
}

func (i *Inspector) Carts(ctx context.Context, limit int) ([]CartRow, error) {
	var rows []CartRow
	q := `SELECT c.id AS cart_id, u.email AS email,
	             COUNT(ci.id) AS items, COALESCE(SUM(ci.quantity), 0) AS quantity
	      FROM carts c
	      JOIN users u ON u.id = c.user_id
	      LEFT JOIN cart_items ci ON ci.cart_id = c.id
	      GROUP BY c.id, u.email
	      ORDER BY u.email` + limitClause(limit)
	if err := i.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, fmt.Errorf("select carts: %w", err)
	}
	return rows, nil
}

func (i *Inspector) Bookings(ctx context.Context, limit int) ([]BookingRow, error) {
	var rows []BookingRow
	q := `SELECT b.id, b.confirmation_code, u.email AS email, t.title AS tour_title,
	             b.travel_date, b.headcount, b.total_minor, b.currency, b.status
	      FROM bookings b
	      JOIN users u ON u.id = b.user_id
	      JOIN tours t ON t.id = b.tour_id
	      ORDER BY b.travel_date, b.confirmation_code` + limitClause(limit)
	if err := i.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, fmt.Errorf("select bookings: %w", err)
	}
	return rows, nil
}

func (i *Inspector) Stats(ctx context.Context) ([]TableCount, error) {
	out := make([]TableCount, 0, len(Tables))
	for _, t := range Tables {
		var n int64
		if err := i.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM `+t); err != nil {
			return nil, fmt.Errorf("count %s: %w", t, err)
		}
		out = append(out, TableCount{Table: t, Rows: n})
	}
	return out, nil
}

// PrintTable writes rows as aligned columns.
func PrintTable(w io.Writer, header []string, rows [][]string) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, r := range rows {
		fmt.Fprintln(tw, strings.Join(r, "\t"))
	}
	return tw.Flush()
}
