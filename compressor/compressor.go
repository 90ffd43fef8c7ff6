// Package compressor shrinks sparse two-dimensional tables while keeping constant-time lookups.
package compressor

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

type OriginalTable[E comparable] struct {
	entries  []E
	rowCount int
	colCount int
}

// NewOriginalTable views entries as a row-major table having colCount columns.
func NewOriginalTable[E comparable](entries []E, colCount int) (*OriginalTable[E], error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("entries is empty")
	}
	if colCount <= 0 {
		return nil, fmt.Errorf("colCount must be >=1")
	}
	if len(entries)%colCount != 0 {
		return nil, fmt.Errorf("entries length or column count are incorrect; entries length: %v, column count: %v", len(entries), colCount)
	}

	return &OriginalTable[E]{
		entries:  entries,
		rowCount: len(entries) / colCount,
		colCount: colCount,
	}, nil
}

func (t *OriginalTable[E]) row(row int) []E {
	return t.entries[row*t.colCount : (row+1)*t.colCount]
}

type Compressor[E comparable] interface {
	Compress(orig *OriginalTable[E]) error
	Lookup(row, col int) (E, error)
	OriginalTableSize() (int, int)
}

// UniqueEntriesTable keeps one copy of each distinct row.
type UniqueEntriesTable[E comparable] struct {
	EmptyValue       E
	UniqueEntries    []E
	RowNums          []int
	OriginalRowCount int
	OriginalColCount int
}

func NewUniqueEntriesTable[E comparable](emptyValue E) *UniqueEntriesTable[E] {
	return &UniqueEntriesTable[E]{
		EmptyValue: emptyValue,
	}
}

func (tab *UniqueEntriesTable[E]) Lookup(row, col int) (E, error) {
	if row < 0 || row >= tab.OriginalRowCount || col < 0 || col >= tab.OriginalColCount {
		return tab.EmptyValue, fmt.Errorf("indexes are out of range: [%v, %v]", row, col)
	}
	return tab.UniqueEntries[tab.RowNums[row]*tab.OriginalColCount+col], nil
}

func (tab *UniqueEntriesTable[E]) OriginalTableSize() (int, int) {
	return tab.OriginalRowCount, tab.OriginalColCount
}

// UniqueTable returns the table consisting of the distinct rows. The row r of the original table is
// the row RowNums[r] of the result.
func (tab *UniqueEntriesTable[E]) UniqueTable() (*OriginalTable[E], error) {
	return NewOriginalTable(tab.UniqueEntries, tab.OriginalColCount)
}

func (tab *UniqueEntriesTable[E]) Compress(orig *OriginalTable[E]) error {
	var uniqueEntries []E
	rowNums := make([]int, orig.rowCount)

	// Rows are bucketed by the columns of their non-empty entries, then compared entry by entry.
	buckets := map[string][]int{}
	nextRowNum := 0
	for row := 0; row < orig.rowCount; row++ {
		entries := orig.row(row)
		var key strings.Builder
		for col, e := range entries {
			if e == tab.EmptyValue {
				continue
			}
			key.WriteString(strconv.Itoa(col))
			key.WriteByte(',')
		}

		rowNum := -1
		for _, num := range buckets[key.String()] {
			if equalRows(entries, uniqueEntries[num*orig.colCount:(num+1)*orig.colCount]) {
				rowNum = num
				break
			}
		}
		if rowNum < 0 {
			rowNum = nextRowNum
			nextRowNum++
			buckets[key.String()] = append(buckets[key.String()], rowNum)
			uniqueEntries = append(uniqueEntries, entries...)
		}
		rowNums[row] = rowNum
	}

	tab.UniqueEntries = uniqueEntries
	tab.RowNums = rowNums
	tab.OriginalRowCount = orig.rowCount
	tab.OriginalColCount = orig.colCount

	return nil
}

func equalRows[E comparable](a, b []E) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

const ForbiddenValue = -1

// RowDisplacementTable overlaps rows so that the non-empty entries of a row fill the empty slots of
// the others. Bounds records the owner row of each slot.
type RowDisplacementTable[E comparable] struct {
	OriginalRowCount int
	OriginalColCount int
	EmptyValue       E
	Entries          []E
	Bounds           []int
	RowDisplacement  []int
}

func NewRowDisplacementTable[E comparable](emptyValue E) *RowDisplacementTable[E] {
	return &RowDisplacementTable[E]{
		EmptyValue: emptyValue,
	}
}

func (tab *RowDisplacementTable[E]) Lookup(row int, col int) (E, error) {
	if row < 0 || row >= tab.OriginalRowCount || col < 0 || col >= tab.OriginalColCount {
		return tab.EmptyValue, fmt.Errorf("indexes are out of range: [%v, %v]", row, col)
	}
	d := tab.RowDisplacement[row]
	if d+col >= len(tab.Bounds) || tab.Bounds[d+col] != row {
		return tab.EmptyValue, nil
	}
	return tab.Entries[d+col], nil
}

func (tab *RowDisplacementTable[E]) OriginalTableSize() (int, int) {
	return tab.OriginalRowCount, tab.OriginalColCount
}

type rowInfo struct {
	rowNum      int
	nonEmptyCol []int
}

func (tab *RowDisplacementTable[E]) Compress(orig *OriginalTable[E]) error {
	rows := make([]rowInfo, orig.rowCount)
	for row := 0; row < orig.rowCount; row++ {
		rows[row].rowNum = row
		for col, e := range orig.row(row) {
			if e != tab.EmptyValue {
				rows[row].nonEmptyCol = append(rows[row].nonEmptyCol, col)
			}
		}
	}
	// Placing dense rows first leaves the sparse ones to fill the gaps.
	sort.SliceStable(rows, func(i int, j int) bool {
		return len(rows[i].nonEmptyCol) > len(rows[j].nonEmptyCol)
	})

	size := len(orig.entries)
	entries := make([]E, size)
	bounds := make([]int, size)
	for i := 0; i < size; i++ {
		entries[i] = tab.EmptyValue
		bounds[i] = ForbiddenValue
	}
	rowDisplacement := make([]int, orig.rowCount)
	resultBottom := 0

	nextRowDisplacement := 0
	for _, r := range rows {
		if len(r.nonEmptyCol) == 0 {
			continue
		}

		d := nextRowDisplacement
		for !fits(bounds, d, r.nonEmptyCol) {
			d++
		}
		rowDisplacement[r.rowNum] = d
		for _, col := range r.nonEmptyCol {
			entries[d+col] = orig.entries[r.rowNum*orig.colCount+col]
			bounds[d+col] = r.rowNum
		}
		if bottom := d + r.nonEmptyCol[len(r.nonEmptyCol)-1] + 1; bottom > resultBottom {
			resultBottom = bottom
		}
		nextRowDisplacement = d + 1
	}

	tab.OriginalRowCount = orig.rowCount
	tab.OriginalColCount = orig.colCount
	tab.Entries = entries[:resultBottom]
	tab.Bounds = bounds[:resultBottom]
	tab.RowDisplacement = rowDisplacement

	return nil
}

func fits(bounds []int, d int, cols []int) bool {
	for _, col := range cols {
		if bounds[d+col] != ForbiddenValue {
			return false
		}
	}
	return true
}
