package txerpad

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"ieutils/countries"
)

var (
	// ErrUnsupportedAmount signals a money value whose dynamic type is
	// neither numeric nor string
	ErrUnsupportedAmount = errors.New("txerpad: unsupported amount type")

	// ErrUnknownInvoiceType signals an invoice type outside the known set
	ErrUnknownInvoiceType = errors.New("txerpad: unknown invoice type")
)

// amountPattern captures the leading run of digits and dots once comma
// separators have been normalized to dots. Everything after the run
// (currency codes, symbols) is discarded.
var amountPattern = regexp.MustCompile(`^[0-9.]+`)

// Parser resolves countries and invoice periods. The country catalog is
// injected; the clock seam exists because the purchase period rule depends
// on the current date.
type Parser struct {
	catalog countries.Catalog
	now     func() time.Time
}

// Option configures a Parser
type Option func(*Parser)

// WithClock overrides the clock used by the purchase period rule
func WithClock(now func() time.Time) Option {
	return func(p *Parser) {
		p.now = now
	}
}

// NewParser creates a Parser over the given country catalog
func NewParser(catalog countries.Catalog, opts ...Option) *Parser {
	p := &Parser{
		catalog: catalog,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Country converts an alpha-3 code or a country name into the alpha-2
// code. Names are matched case-insensitively against the canonical English
// name and against translations for each of the supplied locales. When
// several entries match, the first one in catalog order wins.
func (p *Parser) Country(text string, locales []string) (string, bool) {
	for _, country := range p.catalog.Countries() {
		if strings.EqualFold(country.Alpha3(), text) || p.nameMatches(country, text, locales) {
			return country.Alpha2(), true
		}
	}
	return "", false
}

func (p *Parser) nameMatches(country countries.Country, text string, locales []string) bool {
	if strings.EqualFold(country.Name(), text) {
		return true
	}
	for _, locale := range locales {
		if translated, ok := country.LocalizedName(locale); ok && strings.EqualFold(translated, text) {
			return true
		}
	}
	return false
}

// InvoicePeriod converts a trimester label ("1T".."4T") into the
// year-qualified period Txerpad expects. Sales invoices take the year of
// the issue date, parsed with the given Go layout. Purchase invoices for a
// trimester not yet reached in the current year are assumed to belong to
// the prior year.
func (p *Parser) InvoicePeriod(period string, invoiceType InvoiceType, issueDate, layout string) (string, error) {
	switch {
	case invoiceType.IsSale():
		issued, err := time.Parse(layout, issueDate)
		if err != nil {
			return "", fmt.Errorf("txerpad: parse issue date %q: %w", issueDate, err)
		}
		return fmt.Sprintf("%s%d", period, issued.Year()), nil

	case invoiceType.IsPurchase():
		trimester, err := strconv.Atoi(strings.TrimSuffix(period, "T"))
		if err != nil {
			return "", fmt.Errorf("txerpad: invalid period %q: %w", period, err)
		}

		now := p.now()
		currentTrimester := (int(now.Month()) - 1) / 3
		year := now.Year()
		if trimester > currentTrimester {
			year--
		}
		return fmt.Sprintf("%s%d", period, year), nil

	default:
		return "", ErrUnknownInvoiceType
	}
}

// ParseMoney converts an amount into an exact decimal. Numeric inputs
// convert directly. Strings tolerate currency suffixes and both European
// and English separator conventions: every comma becomes a dot, then all
// dots but the last are treated as thousands separators.
func ParseMoney(amount any) (decimal.Decimal, error) {
	switch v := amount.(type) {
	case decimal.Decimal:
		return v, nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int32:
		return decimal.NewFromInt32(v), nil
	case int64:
		return decimal.NewFromInt(v), nil
	case float32:
		return decimal.NewFromFloat32(v), nil
	case float64:
		return decimal.NewFromFloat(v), nil
	case string:
		return parseMoneyText(v)
	default:
		return decimal.Decimal{}, ErrUnsupportedAmount
	}
}

func parseMoneyText(text string) (decimal.Decimal, error) {
	normalized := strings.ReplaceAll(text, ",", ".")
	run := amountPattern.FindString(normalized)
	if run == "" {
		return decimal.Decimal{}, fmt.Errorf("txerpad: no amount in %q", text)
	}

	segments := strings.Split(run, ".")
	if len(segments) > 1 {
		run = strings.Join(segments[:len(segments)-1], "") + "." + segments[len(segments)-1]
	}

	value, err := decimal.NewFromString(run)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("txerpad: parse amount %q: %w", text, err)
	}
	return value, nil
}
