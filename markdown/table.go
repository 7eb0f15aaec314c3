package markdown

import (
	"strings"

	"github.com/foomo/buildin-mcp/service/vo"
)

// renderTable renders the table_row children of a table block.
// The first row always becomes the markdown header row since markdown tables
// require one, and it is never repeated as a data row, whether or not the
// table flags a column header.
func renderTable(table vo.Block) string {
	var rows [][]string
	for _, row := range table.Children {
		if row.Type != vo.BlockTypeTableRow || row.Data.Cells == nil {
			continue
		}
		cells := make([]string, len(row.Data.Cells))
		for i, cell := range row.Data.Cells {
			cells[i] = RenderRichText(cell)
		}
		rows = append(rows, cells)
	}
	if len(rows) == 0 {
		return ""
	}

	columns := 0
	for _, row := range rows {
		columns = max(columns, len(row))
	}
	for i, row := range rows {
		for len(row) < columns {
			row = append(row, "")
		}
		rows[i] = row
	}

	var sb strings.Builder
	writeRow(&sb, rows[0])
	separator := make([]string, columns)
	for i := range separator {
		separator[i] = "---"
	}
	writeRow(&sb, separator)
	for _, row := range rows[1:] {
		writeRow(&sb, row)
	}
	sb.WriteString("\n")
	return sb.String()
}

func writeRow(sb *strings.Builder, cells []string) {
	sb.WriteString("| " + strings.Join(cells, " | ") + " |\n")
}
