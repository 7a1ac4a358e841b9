// Package coco builds, writes, and splits COCO object-detection annotation
// files.
//
// Only the subset of the COCO format used for table recognition training is
// modelled: dataset info, images, polygon annotations, and the fixed
// two-category schema (TableRow and TableColumn).
package coco

// Dataset is a complete COCO annotation file.
type Dataset struct {
	Info        Info         `json:"info"`
	Licenses    []License    `json:"licenses"`
	Images      []Image      `json:"images"`
	Annotations []Annotation `json:"annotations"`
	Categories  []Category   `json:"categories"`
}

// Info describes the dataset.
type Info struct {
	Description string `json:"description"`
	Version     string `json:"version"`
	Year        int    `json:"year"`
	Contributor string `json:"contributor"`
	DateCreated string `json:"date_created"`
}

// License is a dataset license entry.
type License struct {
	URL  string `json:"url"`
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Image is one image record. ID is referenced by annotations.
type Image struct {
	FileName string `json:"file_name"`
	Height   int    `json:"height"`
	Width    int    `json:"width"`
	ID       int    `json:"id"`
}

// Annotation is one object annotation: a polygon with its bounding box.
type Annotation struct {
	// Segmentation holds one or more flattened polygons [x0,y0,x1,y1,...].
	Segmentation [][]float64 `json:"segmentation"`
	Area         float64     `json:"area"`
	IsCrowd      int         `json:"iscrowd"`
	ImageID      int         `json:"image_id"`
	// BBox is [x, y, width, height] with x,y the top-left corner.
	BBox       [4]float64 `json:"bbox"`
	CategoryID int        `json:"category_id"`
	ID         int        `json:"id"`
}

// Category is one object category.
type Category struct {
	Supercategory string `json:"supercategory"`
	ID            int    `json:"id"`
	Name          string `json:"name"`
}
