package scanprep

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/tsawler/scanprep/ead"
	"github.com/tsawler/scanprep/fetch"
	"github.com/tsawler/scanprep/imagemeta"
	"github.com/tsawler/scanprep/mets"
)

// DefaultArchiveCode is the inventory of the Dutch East India Company
// archive at the Nationaal Archief, the corpus this toolkit was built for.
const DefaultArchiveCode = "1.04.02"

// defaultFindingAidURL derives the finding aid download URL from an
// archive code.
func defaultFindingAidURL(archiveCode string) string {
	return fmt.Sprintf("https://www.nationaalarchief.nl/onderzoeken/archief/%s/download/xml", archiveCode)
}

// Downloader fetches the scanned page images for a directory of page XML
// files. Create one with [Fetch] and configure it fluently.
type Downloader struct {
	sourceDir     string
	targetDir     string
	archiveCode   string
	findingAid    string
	findingAidURL string
	keepManifests bool
	client        *fetch.Client
	logger        *slog.Logger
}

// Fetch creates a Downloader that reads page XML files from sourceDir and
// writes images (and temporary METS manifests) to targetDir.
func Fetch(sourceDir, targetDir string) *Downloader {
	return &Downloader{
		sourceDir:   sourceDir,
		targetDir:   targetDir,
		archiveCode: DefaultArchiveCode,
		client:      fetch.NewClient(),
	}
}

// ArchiveCode sets the archive code used to locate the finding aid and to
// extract inventory numbers from filenames (default "1.04.02").
func (d *Downloader) ArchiveCode(code string) *Downloader {
	d.archiveCode = code
	return d
}

// FindingAid sets the local path of the EAD finding aid. Default is
// "<archiveCode>.xml" in the working directory; the file is downloaded
// there when absent.
func (d *Downloader) FindingAid(path string) *Downloader {
	d.findingAid = path
	return d
}

// FindingAidURL overrides the URL the finding aid is downloaded from.
func (d *Downloader) FindingAidURL(url string) *Downloader {
	d.findingAidURL = url
	return d
}

// KeepManifests keeps the downloaded METS manifests in the target
// directory instead of deleting them at the end.
func (d *Downloader) KeepManifests() *Downloader {
	d.keepManifests = true
	return d
}

// Client sets the HTTP client used for all requests.
func (d *Downloader) Client(client *fetch.Client) *Downloader {
	d.client = client
	return d
}

// Logger sets a logger for per-file progress. Without one the pipeline is
// silent and only the report speaks.
func (d *Downloader) Logger(logger *slog.Logger) *Downloader {
	d.logger = logger
	return d
}

// DownloadReport summarizes a completed download run.
type DownloadReport struct {
	// Renamed is the number of source files whose numeric prefix was
	// stripped.
	Renamed int
	// Fetched, Skipped and Failed count page images: fetched now, already
	// present, and unresolvable or broken.
	Fetched int
	Skipped int
	Failed  int
	// Warnings are non-fatal problems encountered along the way.
	Warnings []string
}

func (r *DownloadReport) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Run executes the download pipeline: normalize source filenames, ensure
// the finding aid is present, then resolve and fetch the image for every
// page XML file. An image is fetched precisely when its label resolves in
// the volume's METS manifest and the file is not already present.
func (d *Downloader) Run(ctx context.Context) (*DownloadReport, error) {
	if info, err := os.Stat(d.sourceDir); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("source directory does not exist: %s", d.sourceDir)
	}
	if err := os.MkdirAll(d.targetDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating target directory: %w", err)
	}

	report := &DownloadReport{}

	pageFiles, err := d.normalizeSourceNames(report)
	if err != nil {
		return nil, err
	}

	index, err := d.loadFindingAid(ctx)
	if err != nil {
		return nil, err
	}
	d.logf("finding aid loaded", "inventories", index.Len(), "pages", len(pageFiles))

	manifests := make(map[string]*mets.Manifest)
	var manifestPaths []string

	for _, pageFile := range pageFiles {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if err := d.processPage(ctx, pageFile, index, manifests, &manifestPaths, report); err != nil {
			return report, err
		}
	}

	if !d.keepManifests {
		for _, path := range manifestPaths {
			if err := os.Remove(path); err != nil {
				report.warnf("deleting manifest %s: %v", path, err)
			}
		}
	}

	return report, nil
}

// normalizeSourceNames strips the "NNNN_" scan-order prefix some export
// tools prepend to page XML filenames, and returns all page XML paths.
func (d *Downloader) normalizeSourceNames(report *DownloadReport) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(d.sourceDir, "*.xml"))
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", d.sourceDir, err)
	}

	var out []string
	for _, path := range files {
		name := filepath.Base(path)
		if !hasOrderPrefix(name) {
			out = append(out, path)
			continue
		}

		newPath := filepath.Join(d.sourceDir, name[5:])
		if err := os.Rename(path, newPath); err != nil {
			return nil, fmt.Errorf("renaming %s: %w", path, err)
		}
		d.logf("renamed", "from", name, "to", name[5:])
		report.Renamed++
		out = append(out, newPath)
	}
	return out, nil
}

// hasOrderPrefix reports whether a filename starts with four digits and an
// underscore.
func hasOrderPrefix(name string) bool {
	if len(name) < 5 || name[4] != '_' {
		return false
	}
	for _, r := range name[:4] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// loadFindingAid parses the finding aid, downloading it first when the
// local file is absent.
func (d *Downloader) loadFindingAid(ctx context.Context) (*ead.Index, error) {
	path := d.findingAid
	if path == "" {
		path = d.archiveCode + ".xml"
	}

	if _, err := os.Stat(path); err != nil {
		url := d.findingAidURL
		if url == "" {
			url = defaultFindingAidURL(d.archiveCode)
		}
		d.logf("downloading finding aid", "url", url, "path", path)
		if err := d.client.Download(ctx, url, path); err != nil {
			return nil, fmt.Errorf("fetching finding aid: %w", err)
		}
	}

	return ead.Open(path)
}

// processPage downloads the image for one page XML file. Resolution
// failures are warnings, not errors: the remaining pages still get their
// images.
func (d *Downloader) processPage(ctx context.Context, pageFile string, index *ead.Index,
	manifests map[string]*mets.Manifest, manifestPaths *[]string, report *DownloadReport) error {

	name := filepath.Base(pageFile)

	inv, err := inventoryNumber(name, d.archiveCode)
	if err != nil {
		report.warnf("%s: %v", name, err)
		report.Failed++
		return nil
	}

	manifest, ok := manifests[inv]
	if !ok {
		manifestURL, found := index.Resolve(inv)
		if !found {
			report.warnf("%s: no METS manifest for inventory number %s", name, inv)
			report.Failed++
			return nil
		}

		manifestPath := filepath.Join(d.targetDir, inv+".xml")
		d.logf("downloading manifest", "inventory", inv)
		if err := d.client.Download(ctx, manifestURL, manifestPath); err != nil {
			return fmt.Errorf("fetching manifest for %s: %w", inv, err)
		}
		*manifestPaths = append(*manifestPaths, manifestPath)

		manifest, err = mets.Open(manifestPath)
		if err != nil {
			return err
		}
		manifests[inv] = manifest
	}

	label := strings.TrimSuffix(name, filepath.Ext(name))
	imageURL, found := manifest.ImageURL(label)
	if !found {
		report.warnf("%s: no METS div matches label %q", name, label)
		report.Failed++
		return nil
	}

	imagePath := filepath.Join(d.targetDir, label+".jpg")
	if _, err := os.Stat(imagePath); err == nil {
		d.logf("already exists", "image", imagePath)
		report.Skipped++
		return nil
	}

	d.logf("downloading image", "label", label)
	if err := d.client.Download(ctx, imageURL, imagePath); err != nil {
		return fmt.Errorf("fetching image for %s: %w", name, err)
	}

	if err := d.verifyImage(imagePath); err != nil {
		os.Remove(imagePath)
		report.warnf("%s: %v", name, err)
		report.Failed++
		return nil
	}

	report.Fetched++
	return nil
}

// verifyImage checks that a downloaded file actually starts like an image.
// Some archive servers answer errors with status 200 and an HTML body,
// which would otherwise end up saved as a .jpg.
func (d *Downloader) verifyImage(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	head := make([]byte, 16)
	n, _ := f.Read(head)
	if !imagemeta.IsImage(head[:n]) {
		return fmt.Errorf("server response is not an image")
	}
	return nil
}

// inventoryNumber extracts the inventory number from a page filename of
// the form "<anything><archiveCode>_<inventory>_<page>.xml".
func inventoryNumber(filename, archiveCode string) (string, error) {
	marker := archiveCode + "_"
	idx := strings.Index(filename, marker)
	if idx < 0 {
		return "", fmt.Errorf("invalid filename format: %s", filename)
	}

	rest := filename[idx+len(marker):]
	if cut := strings.Index(rest, "_"); cut >= 0 {
		return rest[:cut], nil
	}
	rest = strings.TrimSuffix(rest, filepath.Ext(rest))
	if rest == "" {
		return "", fmt.Errorf("invalid filename format: %s", filename)
	}
	return rest, nil
}

func (d *Downloader) logf(msg string, args ...any) {
	if d.logger != nil {
		d.logger.Info(msg, args...)
	}
}
