// Package obsfile reads whitespace-delimited observation files. Each data
// row carries at least three columns, time, value, and sigma; '#' starts a
// comment and blank lines are skipped. Extra columns are ignored so files
// exported with quality flags or airmass columns load unchanged.
package obsfile

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Columns holds the three parsed observation arrays, index-aligned.
type Columns struct {
	Times  []float64
	Values []float64
	Sigmas []float64
}

// Len returns the number of parsed rows.
func (c Columns) Len() int { return len(c.Times) }

// Read parses the observation file at path.
func Read(path string) (Columns, error) {
	f, err := os.Open(path)
	if err != nil {
		return Columns{}, fmt.Errorf("obsfile: open %s: %w", path, err)
	}
	defer f.Close()

	var cols Columns
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if len(fields) < 3 {
			return Columns{}, fmt.Errorf("obsfile: %s:%d: %d columns, need at least 3 (time value sigma)", path, lineNo, len(fields))
		}

		row := make([]float64, 3)
		for i := range row {
			v, err := strconv.ParseFloat(fields[i], 64)
			if err != nil {
				return Columns{}, fmt.Errorf("obsfile: %s:%d: column %d: %w", path, lineNo, i+1, err)
			}
			row[i] = v
		}
		cols.Times = append(cols.Times, row[0])
		cols.Values = append(cols.Values, row[1])
		cols.Sigmas = append(cols.Sigmas, row[2])
	}
	if err := scanner.Err(); err != nil {
		return Columns{}, fmt.Errorf("obsfile: read %s: %w", path, err)
	}
	return cols, nil
}
