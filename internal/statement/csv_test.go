package statement_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jhodges/shuttlepay/internal/statement"
	"github.com/stretchr/testify/require"
)

// Payer names carry the bank's fixed 12-character transaction-type prefix.
const sample = "06 Aug 2022\tFPS CREDIT  SMITH J\t12-34-56 1234567 extra\t\t£4.40\t£104.40\n" +
	"08 Aug 2022\tFPS CREDIT  KHAN A\t12-34-56 7654321 extra\t\t£8.80\t£113.20\n" +
	"15 Aug 2022\tFPS CREDIT  LATE K\t12-34-56 1111111 extra\t\t£4.40\t£117.60\n"

func TestParse(t *testing.T) {
	rows, err := statement.Parse(strings.NewReader(sample))
	require.NoError(t, err)
	require.Len(t, rows, 3)

	require.Equal(t, "SMITH J", rows[0].AccountName)
	require.Equal(t, "12-34-56 123456", rows[0].AccountNumber)
	require.Equal(t, "4.40", rows[0].Amount.StringFixed(2))
	require.Equal(t, "104.40", rows[0].Balance.StringFixed(2))
	require.Equal(t, time.Date(2022, 8, 6, 0, 0, 0, 0, time.UTC), rows[0].Date)
	require.Equal(t, "8.80", rows[1].Amount.StringFixed(2))
}

func TestParse_MalformedRow(t *testing.T) {
	_, err := statement.Parse(strings.NewReader("06 Aug 2022\tonly two\n"))
	require.Error(t, err)
}

func TestParse_BadAmount(t *testing.T) {
	bad := "06 Aug 2022\tFASTER PAYMENTSMITH J\t12-34-56 1234567\t\t£oops\t£1.00\n"
	_, err := statement.Parse(strings.NewReader(bad))
	require.Error(t, err)
}

func TestFilterWindow(t *testing.T) {
	rows, err := statement.Parse(strings.NewReader(sample))
	require.NoError(t, err)

	from := time.Date(2022, 8, 6, 0, 0, 0, 0, time.UTC)
	to := time.Date(2022, 8, 13, 0, 0, 0, 0, time.UTC)
	kept := statement.FilterWindow(rows, from, to)
	require.Len(t, kept, 2)
	require.Equal(t, "SMITH J", kept[0].AccountName)
	require.Equal(t, "KHAN A", kept[1].AccountName)
}

func TestLatestFile(t *testing.T) {
	dir := t.TempDir()
	older := filepath.Join(dir, "Statement Download 2022-Aug-15.csv")
	newer := filepath.Join(dir, "Statement Download 2022-Aug-18.csv")
	require.NoError(t, os.WriteFile(older, []byte(sample), 0o644))
	require.NoError(t, os.WriteFile(newer, []byte(sample), 0o644))
	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(older, past, past))

	found, err := statement.LatestFile(dir)
	require.NoError(t, err)
	require.Equal(t, newer, found)
}

func TestLatestFile_Empty(t *testing.T) {
	_, err := statement.LatestFile(t.TempDir())
	require.ErrorIs(t, err, statement.ErrNoStatement)
}
