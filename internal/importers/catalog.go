package importers

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// catalogColumns is the column order of a catalog CSV. The header row itself
// is skipped, not matched, so files exported with other header labels load too.
var catalogColumns = []string{"isbn", "title", "author", "year"}

// CatalogRow is one data line of a catalog CSV, unconverted. ISBN and Year are
// trimmed; Title and Author are kept exactly as written.
type CatalogRow struct {
	Line   int
	ISBN   string
	Title  string
	Author string
	Year   string
}

// ParseCatalog reads a catalog CSV with columns isbn,title,author,year.
// Returns the parsed rows, per-line problems, and a fatal error if the input
// cannot be read at all.
func ParseCatalog(r io.Reader) ([]CatalogRow, []string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // Checked per line to report every bad row

	if _, err := reader.Read(); err != nil {
		if err == io.EOF {
			return nil, nil, fmt.Errorf("catalog is empty")
		}
		return nil, nil, fmt.Errorf("failed to read header: %w", err)
	}

	var rows []CatalogRow
	var problems []string
	seen := make(map[string]int)
	lineNum := 1

	for {
		lineNum++
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			problems = append(problems, fmt.Sprintf("Line %d: %v", lineNum, err))
			continue
		}

		if len(record) != len(catalogColumns) {
			problems = append(problems, fmt.Sprintf("Line %d: expected %d fields (%s), got %d",
				lineNum, len(catalogColumns), strings.Join(catalogColumns, ","), len(record)))
			continue
		}

		row := CatalogRow{
			Line:   lineNum,
			ISBN:   strings.TrimSpace(record[0]),
			Title:  record[1],
			Author: record[2],
			Year:   strings.TrimSpace(record[3]),
		}

		if row.ISBN == "" {
			problems = append(problems, fmt.Sprintf("Line %d: missing isbn", lineNum))
			continue
		}
		if first, ok := seen[row.ISBN]; ok {
			problems = append(problems, fmt.Sprintf("Line %d: isbn %s already listed on line %d", lineNum, row.ISBN, first))
			continue
		}
		seen[row.ISBN] = lineNum

		rows = append(rows, row)
	}

	return rows, problems, nil
}
