// Package money formats amounts stored in ISO-4217 minor units.
package money

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var ErrUnknownCurrency = errors.New("unknown currency")

var displayLang = language.AmericanEnglish

func unit(code string) (currency.Unit, error) {
	u, err := currency.ParseISO(strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return currency.Unit{}, fmt.Errorf("%w: %q", ErrUnknownCurrency, code)
	}
	return u, nil
}

// Exponent returns the number of minor unit digits of the currency
// (2 for USD, 0 for JPY, 3 for BHD).
func Exponent(code string) (int, error) {
	u, err := unit(code)
	if err != nil {
		return 0, err
	}
	scale, _ := currency.Standard.Rounding(u)
	return scale, nil
}

// FormatMinor renders amountMinor with exactly as many fractional digits as
// the currency has minor unit digits.
func FormatMinor(amountMinor int64, code string) (string, error) {
	u, err := unit(code)
	if err != nil {
		return "", err
	}
	scale, _ := currency.Standard.Rounding(u)

	neg := amountMinor < 0
	abs := uint64(amountMinor)
	if neg {
		abs = -abs
	}

	pow := uint64(1)
	for range scale {
		pow *= 10
	}

	p := message.NewPrinter(displayLang)
	digits := p.Sprint(number.Decimal(abs / pow))
	if scale > 0 {
		digits += fmt.Sprintf(".%0*d", scale, abs%pow)
	}
	sym := p.Sprint(currency.Symbol(u))
	if isAlpha(sym) {
		sym += " "
	}

	if neg {
		return "-" + sym + digits, nil
	}
	return sym + digits, nil
}

// MustFormatMinor is FormatMinor for values already validated on write.
// Unknown codes fall back to "<amount> <CODE>".
func MustFormatMinor(amountMinor int64, code string) string {
	s, err := FormatMinor(amountMinor, code)
	if err != nil {
		return fmt.Sprintf("%d %s", amountMinor, strings.ToUpper(code))
	}
	return s
}

// Valid reports whether code is a known ISO-4217 currency.
func Valid(code string) bool {
	_, err := unit(code)
	return err == nil
}

func isAlpha(s string) bool {
	if len(s) < 2 {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) || r > unicode.MaxASCII {
			return false
		}
	}
	return true
}
