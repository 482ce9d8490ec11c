package level

import "strings"

const (
	startMarker = "<start>"
	endMarker   = "<end>"
)

// Parse extracts the grid from map file contents.
//
// Lines before <start> are ignored and reading stops at <end> (or at end
// of input). Inside the body a line starting with '#' counts as an empty
// row. Fewer than seven rows leaves the rest empty; more is an error.
func Parse(data []byte) (Grid, error) {
	var g Grid

	text := strings.TrimSuffix(strings.ReplaceAll(string(data), "\r", ""), "\n")
	row := -1
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if row < 0 {
			if trimmed == startMarker {
				row = 0
			}
			continue
		}
		if trimmed == endMarker {
			break
		}
		if row >= Rows {
			return Grid{}, &ContentError{
				Code:    CodeTooManyRows,
				Row:     row,
				Col:     -1,
				Message: "map body has more than 7 rows",
			}
		}
		if strings.HasPrefix(line, "#") {
			line = ""
		}
		g[row] = line
		row++
	}

	if row < 0 {
		return Grid{}, contentErr(CodeNoStart, "missing <start> marker")
	}
	return g, nil
}
