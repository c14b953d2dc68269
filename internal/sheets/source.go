// Package sheets reads session sign-up sheets exported from the club
// spreadsheet as tab-separated grids: one directory per month, one file per
// session day, named after the sheet tab.
package sheets

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jhodges/shuttlepay/internal/domain/roster"
	"github.com/shopspring/decimal"
)

// Fixed cell positions in the sign-up sheet template.
const (
	courtsRow, courtsCol = 0, 3
	firstNameRow         = 1
	lastNameRow          = 34
	attendanceRow        = 35
	chargeRow, chargeCol = 36, 3
)

// FileSource reads session data from exported sheet files under a base
// directory. It implements roster.Source.
type FileSource struct {
	dir string
}

// NewFileSource creates a source rooted at dir.
func NewFileSource(dir string) *FileSource {
	return &FileSource{dir: dir}
}

// SessionData loads the export for the session date. The file lives at
// <dir>/<Mon YYYY>/<day>.tsv, mirroring the monthly spreadsheet with one
// tab per session day.
func (s *FileSource) SessionData(ctx context.Context, sessionTime time.Time) (*roster.ImportData, error) {
	path := filepath.Join(s.dir, sessionTime.Format("Jan 2006"), strconv.Itoa(sessionTime.Day())+".tsv")

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, roster.ErrNoRoster
		}
		return nil, fmt.Errorf("opening sheet export: %w", err)
	}
	defer file.Close()

	grid, err := readGrid(file)
	if err != nil {
		return nil, fmt.Errorf("reading sheet export %s: %w", path, err)
	}

	courts, err := intCell(grid, courtsRow, courtsCol)
	if err != nil {
		return nil, fmt.Errorf("sheet export %s courts: %w", path, err)
	}
	attendance, err := intCell(grid, attendanceRow, 0)
	if err != nil {
		return nil, fmt.Errorf("sheet export %s attendance: %w", path, err)
	}
	charge, err := moneyCell(grid, chargeRow, chargeCol)
	if err != nil {
		return nil, fmt.Errorf("sheet export %s charge: %w", path, err)
	}

	var names []string
	for row := firstNameRow; row <= lastNameRow; row++ {
		if name := cell(grid, row, 0); name != "" {
			names = append(names, name)
		}
	}

	return &roster.ImportData{
		RawNames:   names,
		Attendance: attendance,
		Charge:     charge,
		Courts:     courts,
	}, nil
}

// readGrid splits the export line by line rather than through encoding/csv,
// which drops blank records and would shift the fixed cell positions.
func readGrid(r io.Reader) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	grid := make([][]string, len(lines))
	for i, line := range lines {
		grid[i] = strings.Split(strings.TrimSuffix(line, "\r"), "\t")
	}
	return grid, nil
}

func cell(grid [][]string, row, col int) string {
	if row >= len(grid) || col >= len(grid[row]) {
		return ""
	}
	return strings.TrimSpace(grid[row][col])
}

func intCell(grid [][]string, row, col int) (int, error) {
	raw := cell(grid, row, col)
	if raw == "" {
		return 0, fmt.Errorf("cell %d,%d is empty", row, col)
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("cell %d,%d: %w", row, col, err)
	}
	return value, nil
}

func moneyCell(grid [][]string, row, col int) (decimal.Decimal, error) {
	raw := cell(grid, row, col)
	if raw == "" {
		return decimal.Zero, fmt.Errorf("cell %d,%d is empty", row, col)
	}
	amount, err := decimal.NewFromString(strings.TrimPrefix(raw, "£"))
	if err != nil {
		return decimal.Zero, fmt.Errorf("cell %d,%d: %w", row, col, err)
	}
	return amount, nil
}
