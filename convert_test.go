package scanprep

import (
	"fmt"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tsawler/scanprep/coco"
)

// gridPageXML is a page with one table region of four cells in a 2x2 grid,
// each cell 20x20 pixels.
const gridPageXML = `<?xml version="1.0" encoding="UTF-8"?>
<PcGts xmlns="http://schema.primaresearch.org/PAGE/gts/pagecontent/2019-07-15">
  <Page imageFilename="%s.jpg" imageWidth="100" imageHeight="80">
    <TableRegion id="t1">
      <Coords points="0,0 40,0 40,40 0,40"/>
      <TableCell id="c00" row="0" col="0">
        <Coords points="0,0 20,0 20,20 0,20"/>
      </TableCell>
      <TableCell id="c01" row="0" col="1">
        <Coords points="20,0 40,0 40,20 20,20"/>
      </TableCell>
      <TableCell id="c10" row="1" col="0">
        <Coords points="0,20 20,20 20,40 0,40"/>
      </TableCell>
      <TableCell id="c11" row="1" col="1">
        <Coords points="20,20 40,20 40,40 20,40"/>
      </TableCell>
    </TableRegion>
  </Page>
</PcGts>`

const emptyPageXML = `<?xml version="1.0" encoding="UTF-8"?>
<PcGts>
  <Page imageFilename="%s.jpg" imageWidth="100" imageHeight="80"/>
</PcGts>`

// writeDataset lays out a dataset directory: a grid annotation per page ID,
// with the image written only for IDs in withImage.
func writeDataset(t *testing.T, base string, pageIDs []string, withImage map[string]bool, content string) {
	t.Helper()

	annoDir := filepath.Join(base, "XML")
	imageDir := filepath.Join(base, "Images")
	for _, dir := range []string{annoDir, imageDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("creating %s: %v", dir, err)
		}
	}

	for _, id := range pageIDs {
		xml := fmt.Sprintf(content, id)
		path := filepath.Join(annoDir, "pc-"+id+".xml")
		if err := os.WriteFile(path, []byte(xml), 0o644); err != nil {
			t.Fatalf("writing %s: %v", path, err)
		}

		if !withImage[id] {
			continue
		}
		f, err := os.Create(filepath.Join(imageDir, id+".jpg"))
		if err != nil {
			t.Fatalf("creating image: %v", err)
		}
		if err := jpeg.Encode(f, image.NewRGBA(image.Rect(0, 0, 100, 80)), nil); err != nil {
			t.Fatalf("encoding image: %v", err)
		}
		f.Close()
	}
}

func TestConverterBuild(t *testing.T) {
	base := t.TempDir()
	writeDataset(t, base,
		[]string{"page-a", "page-b", "page-c"},
		map[string]bool{"page-a": true, "page-c": true},
		gridPageXML)
	// page-c has an image but no table regions.
	path := filepath.Join(base, "XML", "pc-page-c.xml")
	if err := os.WriteFile(path, []byte(fmt.Sprintf(emptyPageXML, "page-c")), 0o644); err != nil {
		t.Fatalf("rewriting page-c: %v", err)
	}

	report, err := Dataset(base).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if report.Pages != 3 {
		t.Errorf("Pages = %d, want 3", report.Pages)
	}
	if report.SkippedPages != 1 {
		t.Errorf("SkippedPages = %d, want 1", report.SkippedPages)
	}

	ds := report.Dataset
	if len(ds.Images) != 2 {
		t.Fatalf("got %d images, want 2", len(ds.Images))
	}
	// Image IDs are positional over the sorted page list, so the page after
	// a skipped one keeps its index.
	if ds.Images[0].ID != 0 || ds.Images[1].ID != 2 {
		t.Errorf("image IDs = %d, %d, want 0, 2", ds.Images[0].ID, ds.Images[1].ID)
	}
	if ds.Images[0].FileName != "page-a.jpg" {
		t.Errorf("FileName = %q, want %q", ds.Images[0].FileName, "page-a.jpg")
	}
	if ds.Images[0].Width != 100 || ds.Images[0].Height != 80 {
		t.Errorf("image dimensions = %dx%d, want 100x80", ds.Images[0].Width, ds.Images[0].Height)
	}

	// The 2x2 grid yields two row outlines and two column outlines.
	if len(ds.Annotations) != 4 {
		t.Fatalf("got %d annotations, want 4", len(ds.Annotations))
	}
	counts := map[int]int{}
	for i, anno := range ds.Annotations {
		if anno.ID != i {
			t.Errorf("annotation ID = %d, want %d", anno.ID, i)
		}
		if anno.ImageID != 0 {
			t.Errorf("annotation %d: ImageID = %d, want 0", i, anno.ImageID)
		}
		if anno.Area != 800 {
			t.Errorf("annotation %d: Area = %v, want 800", i, anno.Area)
		}
		counts[anno.CategoryID]++
	}
	if counts[coco.CategoryTableRow] != 2 || counts[coco.CategoryTableColumn] != 2 {
		t.Errorf("category counts = %v, want 2 rows and 2 columns", counts)
	}

	// Each row spans both cells.
	row := ds.Annotations[0]
	if row.BBox != [4]float64{0, 0, 40, 20} {
		t.Errorf("first row BBox = %v, want [0 0 40 20]", row.BBox)
	}
}

func TestConverterMissingAnnotations(t *testing.T) {
	if _, err := Dataset(t.TempDir()).Build(); err == nil {
		t.Fatal("expected error for empty dataset directory")
	}
}

func TestConvertCOCO(t *testing.T) {
	base := t.TempDir()
	pageIDs := []string{"page-a", "page-b", "page-c"}
	writeDataset(t, base, pageIDs,
		map[string]bool{"page-a": true, "page-b": true, "page-c": true},
		gridPageXML)

	savePath := filepath.Join(base, "annotations.json")
	report, err := Dataset(base).ConvertCOCO(savePath)
	if err != nil {
		t.Fatalf("ConvertCOCO: %v", err)
	}

	combined, err := coco.Read(savePath)
	if err != nil {
		t.Fatalf("reading combined file: %v", err)
	}
	if len(combined.Images) != 3 || len(combined.Annotations) != 12 {
		t.Errorf("combined: %d images, %d annotations, want 3 and 12",
			len(combined.Images), len(combined.Annotations))
	}

	if report.TrainPath == "" || report.ValPath == "" {
		t.Fatal("split paths not set")
	}
	train, err := coco.Read(report.TrainPath)
	if err != nil {
		t.Fatalf("reading train file: %v", err)
	}
	val, err := coco.Read(report.ValPath)
	if err != nil {
		t.Fatalf("reading val file: %v", err)
	}
	if len(train.Images) != 2 || len(val.Images) != 1 {
		t.Errorf("split: %d train, %d val images, want 2 and 1",
			len(train.Images), len(val.Images))
	}
	if len(train.Annotations)+len(val.Annotations) != 12 {
		t.Errorf("split annotations total %d, want 12",
			len(train.Annotations)+len(val.Annotations))
	}
}

func TestConvertCOCONoSplit(t *testing.T) {
	base := t.TempDir()
	writeDataset(t, base, []string{"page-a"}, map[string]bool{"page-a": true}, gridPageXML)

	savePath := filepath.Join(base, "annotations.json")
	report, err := Dataset(base).NoSplit().ConvertCOCO(savePath)
	if err != nil {
		t.Fatalf("ConvertCOCO: %v", err)
	}
	if report.TrainPath != "" || report.ValPath != "" {
		t.Error("split paths should be empty with NoSplit")
	}
	trainPath, _ := coco.TrainValPaths(savePath)
	if _, err := os.Stat(trainPath); err == nil {
		t.Error("train file should not exist with NoSplit")
	}
}

func TestConverterPlainAnnotationNames(t *testing.T) {
	base := t.TempDir()
	annoDir := filepath.Join(base, "scans")
	imageDir := filepath.Join(base, "jpg")
	os.MkdirAll(annoDir, 0o755)
	os.MkdirAll(imageDir, 0o755)

	xml := fmt.Sprintf(gridPageXML, "page-a")
	if err := os.WriteFile(filepath.Join(annoDir, "page-a.xml"), []byte(xml), 0o644); err != nil {
		t.Fatalf("writing annotation: %v", err)
	}
	f, err := os.Create(filepath.Join(imageDir, "page-a.jpg"))
	if err != nil {
		t.Fatalf("creating image: %v", err)
	}
	if err := jpeg.Encode(f, image.NewRGBA(image.Rect(0, 0, 100, 80)), nil); err != nil {
		t.Fatalf("encoding image: %v", err)
	}
	f.Close()

	report, err := Dataset(base).Annotations("scans").Images("jpg").NoSplit().Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(report.Dataset.Annotations) != 4 {
		t.Errorf("got %d annotations, want 4", len(report.Dataset.Annotations))
	}
	for _, w := range report.Warnings {
		if strings.Contains(w, "skipped") {
			t.Errorf("unexpected skip warning: %s", w)
		}
	}
}
