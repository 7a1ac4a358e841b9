package coco

import (
	"github.com/tsawler/scanprep/model"
)

// Category IDs of the table recognition schema. This is the only schema the
// toolkit supports.
const (
	CategoryTableRow    = 1
	CategoryTableColumn = 2
)

// Categories returns the fixed category schema: TableRow and TableColumn
// under the "layout" supercategory.
func Categories() []Category {
	return []Category{
		{Supercategory: "layout", ID: CategoryTableRow, Name: "TableRow"},
		{Supercategory: "layout", ID: CategoryTableColumn, Name: "TableColumn"},
	}
}

// DefaultInfo returns the dataset info block used when the caller supplies
// none.
func DefaultInfo() Info {
	return Info{
		Description: "Dutch East India Company table recognition dataset",
		Version:     "1.0",
		Year:        2025,
		Contributor: "Gerhard de Kok",
		DateCreated: "2025/01/06",
	}
}

// NewDataset creates an empty dataset with the given info block and the
// fixed category schema. Licenses is initialized empty so it marshals as
// [] rather than null.
func NewDataset(info Info) *Dataset {
	return &Dataset{
		Info:        info,
		Licenses:    []License{},
		Images:      []Image{},
		Annotations: []Annotation{},
		Categories:  Categories(),
	}
}

// AddImage appends an image record.
func (d *Dataset) AddImage(img Image) {
	d.Images = append(d.Images, img)
}

// AddAnnotation appends an annotation record.
func (d *Dataset) AddAnnotation(anno Annotation) {
	d.Annotations = append(d.Annotations, anno)
}

// NewImage creates an image record.
func NewImage(id int, fileName string, width, height int) Image {
	return Image{
		FileName: fileName,
		Height:   height,
		Width:    width,
		ID:       id,
	}
}

// NewAnnotation creates a polygon annotation from an outline ring. The
// segmentation is the flattened ring, the bounding box spans the ring's
// extremes, and the area comes from the shoelace formula.
func NewAnnotation(id, imageID int, ring model.Ring, categoryID int) Annotation {
	bounds := ring.Bounds()
	return Annotation{
		Segmentation: [][]float64{ring.Flatten()},
		Area:         ring.Area(),
		IsCrowd:      0,
		ImageID:      imageID,
		BBox:         [4]float64{bounds.X, bounds.Y, bounds.Width, bounds.Height},
		CategoryID:   categoryID,
		ID:           id,
	}
}
