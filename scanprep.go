// Package scanprep provides a fluent API for preparing historical document
// table-recognition datasets.
//
// Two pipelines are offered. Conversion turns a directory of PAGE layout
// XML annotations into a COCO object-detection annotation file, deriving
// table row and table column outlines from the annotated cells:
//
//	report, err := scanprep.Dataset("data/voc").ConvertCOCO("data/voc/annotations.json")
//	if err != nil {
//	    // handle error
//	}
//	if len(report.Warnings) > 0 {
//	    log.Println("Warnings:", scanprep.FormatWarnings(report.Warnings))
//	}
//
// Downloading cross-references an EAD finding aid against per-volume METS
// manifests to fetch the scanned page images the annotations refer to:
//
//	report, err := scanprep.Fetch("data/xml", "data/images").Run(ctx)
//
// Both pipelines are configured fluently:
//
//	scanprep.Dataset("data/voc").
//	    Annotations("XML").
//	    Images("Images").
//	    NoSplit().
//	    ConvertCOCO("annotations.json")
//
// For advanced use cases, the lower-level pagexml, tables, coco, ead, mets
// and fetch packages are also available.
package scanprep

import "strings"

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	report := scanprep.Must(scanprep.Dataset("data/voc").ConvertCOCO("out.json"))
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// FormatWarnings joins warnings into a single newline-separated string for
// display.
func FormatWarnings(warnings []string) string {
	return strings.Join(warnings, "\n")
}
