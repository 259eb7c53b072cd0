package parsers

import (
	"bytes"
	"fmt"
	"strings"

	handlelinkdomain "github.com/open-ladder/ranksync/app/modules/handlelink/domain"
	"github.com/xuri/excelize/v2"
)

// ParseLinksWorkbook extracts (member, handle) rows from an uploaded XLSX
// sheet. The first sheet is used; the header row is located by column names
// so exports from different tools still parse.
func ParseLinksWorkbook(data []byte) ([]handlelinkdomain.ImportRow, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("XLSX file has no sheets")
	}

	sheetName := sheets[0]
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheetName, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheetName)
	}

	headerIdx, memberCol, handleCol, err := findHeaderRow(rows)
	if err != nil {
		return nil, err
	}

	var imports []handlelinkdomain.ImportRow
	for _, row := range rows[headerIdx+1:] {
		memberID := cellAt(row, memberCol)
		handle := cellAt(row, handleCol)
		if memberID == "" && handle == "" {
			continue
		}
		imports = append(imports, handlelinkdomain.ImportRow{
			MemberID: memberID,
			Handle:   handle,
		})
	}

	if len(imports) == 0 {
		return nil, fmt.Errorf("sheet %q has no link rows", sheetName)
	}
	return imports, nil
}

// findHeaderRow locates the row naming the member and handle columns.
func findHeaderRow(rows [][]string) (headerIdx, memberCol, handleCol int, err error) {
	for i, row := range rows {
		memberCol, handleCol = -1, -1
		for j, cell := range row {
			name := strings.ToLower(strings.TrimSpace(cell))
			switch {
			case strings.Contains(name, "member") || strings.Contains(name, "user"):
				memberCol = j
			case strings.Contains(name, "handle"):
				handleCol = j
			}
		}
		if memberCol >= 0 && handleCol >= 0 {
			return i, memberCol, handleCol, nil
		}
	}
	return 0, 0, 0, fmt.Errorf("no header row with member and handle columns")
}

// cellAt reads a cell tolerating short rows, as excelize trims trailing
// empty cells.
func cellAt(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}
