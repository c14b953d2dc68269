// Package statement parses the bank's tab-separated statement export into
// transaction rows for attribution.
package statement

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// The export prefixes the payer name with a fixed-width transaction-type
// column, and pads the account number field past its useful length.
const (
	namePrefixLen = 12
	accountNumLen = 15
)

var dateFormats = []string{"02 Jan 2006", "02/01/2006", "2006-01-02"}

// Row is one bank transaction as delivered in the statement export.
type Row struct {
	Date          time.Time
	AccountName   string
	AccountNumber string
	Amount        decimal.Decimal
	Balance       decimal.Decimal
}

// Parse reads the tab-separated export. Columns are Date, Name, AC Num,
// an always-blank column, Value and Balance; currency values carry a £
// prefix. Rows are returned in file order.
func Parse(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.Comma = '\t'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var rows []Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading statement: %w", err)
		}
		if len(record) < 6 {
			return nil, fmt.Errorf("statement row %d: expected 6 columns, got %d", len(rows)+1, len(record))
		}

		date, err := parseDate(strings.TrimSpace(record[0]))
		if err != nil {
			return nil, fmt.Errorf("statement row %d: %w", len(rows)+1, err)
		}
		amount, err := parseMoney(record[4])
		if err != nil {
			return nil, fmt.Errorf("statement row %d value: %w", len(rows)+1, err)
		}
		balance, err := parseMoney(record[5])
		if err != nil {
			return nil, fmt.Errorf("statement row %d balance: %w", len(rows)+1, err)
		}

		rows = append(rows, Row{
			Date:          date,
			AccountName:   trimName(record[1]),
			AccountNumber: trimAccountNumber(record[2]),
			Amount:        amount,
			Balance:       balance,
		})
	}
	return rows, nil
}

// FilterWindow keeps rows dated within [from, to).
func FilterWindow(rows []Row, from, to time.Time) []Row {
	var kept []Row
	for _, row := range rows {
		if row.Date.Before(from) || !row.Date.Before(to) {
			continue
		}
		kept = append(kept, row)
	}
	return kept
}

func trimName(raw string) string {
	if len(raw) > namePrefixLen {
		raw = raw[namePrefixLen:]
	}
	return strings.TrimSpace(raw)
}

func trimAccountNumber(raw string) string {
	if len(raw) > accountNumLen {
		raw = raw[:accountNumLen]
	}
	return strings.TrimSpace(raw)
}

func parseDate(raw string) (time.Time, error) {
	for _, format := range dateFormats {
		if d, err := time.Parse(format, raw); err == nil {
			return d, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", raw)
}

func parseMoney(raw string) (decimal.Decimal, error) {
	cleaned := strings.TrimPrefix(strings.TrimSpace(raw), "£")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing amount %q: %w", raw, err)
	}
	return amount, nil
}
