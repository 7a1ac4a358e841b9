package model

// TableCell is a single cell polygon inside a table region, positioned by
// its logical row and column index in the table.
type TableCell struct {
	ID      string
	Row     int
	Col     int
	Outline Ring
}

// TableRegion is an annotated table on a page, with the region outline and
// the cell polygons it contains.
type TableRegion struct {
	ID      string
	Outline Ring
	Cells   []TableCell
}

// PageAnnotation is the parsed layout annotation for a single scanned page.
type PageAnnotation struct {
	// PageID identifies the page; it matches the image filename stem.
	PageID string
	// ImageFilename is the image file the annotation refers to, as recorded
	// in the annotation file. May be empty for files that omit it.
	ImageFilename string
	// Width and Height are the page dimensions as recorded in the
	// annotation file, 0 when absent.
	Width  int
	Height int

	Regions []TableRegion
}

// NewPageAnnotation creates an empty annotation for the given page ID.
func NewPageAnnotation(pageID string) *PageAnnotation {
	return &PageAnnotation{
		PageID:  pageID,
		Regions: make([]TableRegion, 0),
	}
}

// AddRegion appends a table region to the page.
func (p *PageAnnotation) AddRegion(region TableRegion) {
	p.Regions = append(p.Regions, region)
}

// CellCount returns the total number of cells across all regions.
func (p *PageAnnotation) CellCount() int {
	count := 0
	for _, region := range p.Regions {
		count += len(region.Cells)
	}
	return count
}
