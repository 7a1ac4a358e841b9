package scanprep

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tsawler/scanprep/coco"
	"github.com/tsawler/scanprep/imagemeta"
	"github.com/tsawler/scanprep/pagexml"
	"github.com/tsawler/scanprep/tables"
)

// Converter converts a directory of PAGE XML annotations into a COCO
// dataset. Create one with [Dataset] and configure it fluently.
type Converter struct {
	basePath    string
	annoDir     string
	imageDir    string
	info        coco.Info
	split       bool
	splitRatio  float64
	splitSeed   int64
	simplifyTol float64
}

// Dataset creates a Converter rooted at a dataset directory. By default
// annotations are read from the "XML" subdirectory and images from the
// "Images" subdirectory, and the combined annotation file is followed by a
// deterministic 90/10 train/val split.
func Dataset(basePath string) *Converter {
	return &Converter{
		basePath:   basePath,
		annoDir:    "XML",
		imageDir:   "Images",
		info:       coco.DefaultInfo(),
		split:      true,
		splitRatio: coco.DefaultSplitRatio,
		splitSeed:  coco.DefaultSplitSeed,
	}
}

// Annotations sets the annotation subdirectory (default "XML").
func (c *Converter) Annotations(dir string) *Converter {
	c.annoDir = dir
	return c
}

// Images sets the image subdirectory (default "Images").
func (c *Converter) Images(dir string) *Converter {
	c.imageDir = dir
	return c
}

// Info sets the dataset info block written to the annotation file.
func (c *Converter) Info(info coco.Info) *Converter {
	c.info = info
	return c
}

// NoSplit disables the train/val split.
func (c *Converter) NoSplit() *Converter {
	c.split = false
	return c
}

// SplitRatio sets the train fraction of the split (default 0.9).
func (c *Converter) SplitRatio(ratio float64) *Converter {
	c.splitRatio = ratio
	return c
}

// Seed sets the shuffle seed of the split (default 24).
func (c *Converter) Seed(seed int64) *Converter {
	c.splitSeed = seed
	return c
}

// SimplifyTolerance enables Douglas-Peucker simplification of the derived
// outlines at the given tolerance in pixels. Zero (the default) disables
// simplification.
func (c *Converter) SimplifyTolerance(tolerance float64) *Converter {
	c.simplifyTol = tolerance
	return c
}

// ConvertReport summarizes a completed conversion.
type ConvertReport struct {
	// Dataset is the combined annotation set that was written.
	Dataset *coco.Dataset
	// Pages is the number of annotation files found.
	Pages int
	// SkippedPages is the number of pages dropped because their image was
	// missing or unreadable.
	SkippedPages int
	// TrainPath and ValPath are set when a split was written.
	TrainPath string
	ValPath   string
	// Warnings are non-fatal problems encountered along the way.
	Warnings []string
}

// ConvertCOCO runs the conversion and writes the annotation file to
// savePath. Unless disabled, the train/val split is written next to it as
// "<base>-train.json" and "<base>-val.json".
func (c *Converter) ConvertCOCO(savePath string) (*ConvertReport, error) {
	report, err := c.Build()
	if err != nil {
		return nil, err
	}

	if err := report.Dataset.Write(savePath); err != nil {
		return nil, err
	}

	if c.split {
		train, val, err := report.Dataset.Split(c.splitRatio, c.splitSeed)
		if err != nil {
			return nil, fmt.Errorf("splitting dataset: %w", err)
		}

		trainPath, valPath := coco.TrainValPaths(savePath)
		if err := train.Write(trainPath); err != nil {
			return nil, err
		}
		if err := val.Write(valPath); err != nil {
			return nil, err
		}
		report.TrainPath = trainPath
		report.ValPath = valPath
	}

	return report, nil
}

// Build runs the conversion in memory without writing anything.
func (c *Converter) Build() (*ConvertReport, error) {
	ids, err := c.pageIDs()
	if err != nil {
		return nil, err
	}

	report := &ConvertReport{Pages: len(ids)}
	dataset := coco.NewDataset(c.info)
	annoID := 0

	for idx, pageID := range ids {
		imagePath := filepath.Join(c.basePath, c.imageDir, pageID+".jpg")

		// A page without its image contributes nothing, but the image ID
		// is positional: later pages keep their index.
		width, height, err := imagemeta.Size(imagePath)
		if err != nil {
			report.warnf("page %s: image not usable, skipped: %v", pageID, err)
			report.SkippedPages++
			continue
		}
		dataset.AddImage(coco.NewImage(idx, filepath.Base(imagePath), width, height))

		doc, err := c.openAnnotation(pageID)
		if err != nil {
			return nil, err
		}
		for _, warning := range doc.Warnings() {
			report.warnf("page %s: %s", pageID, warning)
		}

		for _, region := range doc.Regions() {
			rowGroups, colGroups := tables.GroupCells(region.Cells)
			opts := tables.Options{SimplifyTolerance: c.simplifyTol}

			rowOutlines, warns := tables.GroupOutlines(rowGroups, opts)
			for _, w := range warns {
				report.warnf("page %s: region %s: row %s", pageID, region.ID, w)
			}
			for _, outline := range rowOutlines {
				if outline.Ring.Len() < 3 {
					continue
				}
				dataset.AddAnnotation(coco.NewAnnotation(annoID, idx, outline.Ring, coco.CategoryTableRow))
				annoID++
			}

			colOutlines, warns := tables.GroupOutlines(colGroups, opts)
			for _, w := range warns {
				report.warnf("page %s: region %s: column %s", pageID, region.ID, w)
			}
			for _, outline := range colOutlines {
				if outline.Ring.Len() < 3 {
					continue
				}
				dataset.AddAnnotation(coco.NewAnnotation(annoID, idx, outline.Ring, coco.CategoryTableColumn))
				annoID++
			}
		}
	}

	report.Dataset = dataset
	return report, nil
}

// pageIDs lists the annotation files and derives their page IDs. Glob
// results come back sorted, which keeps image IDs stable across runs.
func (c *Converter) pageIDs() ([]string, error) {
	pattern := filepath.Join(c.basePath, c.annoDir, "*.xml")
	files, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("listing annotations %s: %w", pattern, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no annotation files match %s", pattern)
	}

	ids := make([]string, len(files))
	for i, f := range files {
		ids[i] = pagexml.PageID(f)
	}
	return ids, nil
}

// openAnnotation loads a page's annotation file, preferring the "pc-"
// prefixed name. Corpora mix both spellings.
func (c *Converter) openAnnotation(pageID string) (*pagexml.Document, error) {
	annoPath := filepath.Join(c.basePath, c.annoDir, "pc-"+pageID+".xml")
	if _, err := os.Stat(annoPath); err != nil {
		annoPath = filepath.Join(c.basePath, c.annoDir, pageID+".xml")
	}
	return pagexml.Open(annoPath)
}

func (r *ConvertReport) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}
