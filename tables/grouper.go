package tables

import (
	"sort"

	"github.com/tsawler/scanprep/model"
)

// Group is a set of cells sharing a row or column index.
type Group struct {
	Index int
	Cells []model.TableCell
}

// GroupCells buckets the cells of a table region by row index and by column
// index. Every cell appears in exactly one row group and one column group.
// Groups are sorted by ascending index.
func GroupCells(cells []model.TableCell) (rows, cols []Group) {
	rowMap := make(map[int][]model.TableCell)
	colMap := make(map[int][]model.TableCell)

	for _, cell := range cells {
		rowMap[cell.Row] = append(rowMap[cell.Row], cell)
		colMap[cell.Col] = append(colMap[cell.Col], cell)
	}

	return sortGroups(rowMap), sortGroups(colMap)
}

func sortGroups(m map[int][]model.TableCell) []Group {
	groups := make([]Group, 0, len(m))
	for idx, cells := range m {
		groups = append(groups, Group{Index: idx, Cells: cells})
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Index < groups[j].Index
	})
	return groups
}
