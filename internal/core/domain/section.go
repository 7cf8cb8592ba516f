package domain

import "sort"

// EmbeddedPath is the relative path reported for rows outside every section.
const EmbeddedPath = "<embedded>"

// Section is the inclusive row range one module occupies in a snapshot script.
type Section struct {
	RelativePath string `json:"relativePath"`
	StartRow     int    `json:"startRow"`
	EndRow       int    `json:"endRow"`
}

// RowLocation is a snapshot row mapped back to its module.
type RowLocation struct {
	RelativePath string `json:"relativePath"`
	Row          int    `json:"row"`
}

// TranslateRow maps a 1-based snapshot row to the owning module and the row
// relative to that module's start. Sections must be sorted by StartRow.
func TranslateRow(sections []Section, row int) RowLocation {
	i := sort.Search(len(sections), func(i int) bool {
		return sections[i].EndRow >= row
	})
	if i < len(sections) && sections[i].StartRow <= row && row <= sections[i].EndRow {
		return RowLocation{RelativePath: sections[i].RelativePath, Row: row - sections[i].StartRow}
	}
	return RowLocation{RelativePath: EmbeddedPath, Row: row}
}
