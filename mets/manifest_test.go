package mets

import (
	"strings"
	"testing"
)

const sampleMETS = `<?xml version="1.0" encoding="UTF-8"?>
<mets:mets xmlns:mets="http://www.loc.gov/METS/" xmlns:xlink="http://www.w3.org/1999/xlink">
  <mets:fileSec>
    <mets:fileGrp USE="DEFAULT">
      <mets:file ID="FILE-0001DEF" MIMETYPE="image/jpeg">
        <mets:FLocat LOCTYPE="URL" xlink:href="https://example.org/iip/0001.jpg"/>
      </mets:file>
      <mets:file ID="FILE-0002DEF" MIMETYPE="image/jpeg">
        <mets:FLocat LOCTYPE="URL" xlink:href="https://example.org/iip/0002.jpg"/>
      </mets:file>
      <mets:file ID="FILE-0003DEF" MIMETYPE="image/jpeg"/>
    </mets:fileGrp>
  </mets:fileSec>
  <mets:structMap>
    <mets:div TYPE="volume">
      <mets:div ID="FILE-0001" LABEL="NL-HaNA_1.04.02_1234_0001.tif" TYPE="page"/>
      <mets:div ID="FILE-0002" LABEL="NL-HaNA_1.04.02_1234_0002.jpg" TYPE="page"/>
      <mets:div ID="FILE-0003" LABEL="NL-HaNA_1.04.02_1234_0003.tif" TYPE="page"/>
    </mets:div>
  </mets:structMap>
</mets:mets>`

func TestImageURL(t *testing.T) {
	m, err := Parse(strings.NewReader(sampleMETS))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	if m.Labels() != 3 {
		t.Errorf("Labels() = %d, want 3", m.Labels())
	}

	tests := []struct {
		name    string
		label   string
		wantURL string
		wantOK  bool
	}{
		{"tif label", "NL-HaNA_1.04.02_1234_0001", "https://example.org/iip/0001.jpg", true},
		{"jpg label", "NL-HaNA_1.04.02_1234_0002", "https://example.org/iip/0002.jpg", true},
		{"div without file location", "NL-HaNA_1.04.02_1234_0003", "", false},
		{"unknown label", "NL-HaNA_1.04.02_1234_9999", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			url, ok := m.ImageURL(tt.label)
			if ok != tt.wantOK || url != tt.wantURL {
				t.Errorf("ImageURL(%q) = %q, %v; want %q, %v", tt.label, url, ok, tt.wantURL, tt.wantOK)
			}
		})
	}
}

func TestParseUnprefixed(t *testing.T) {
	// Local-name matching must also handle manifests with a default
	// namespace and unprefixed elements.
	const plain = `<mets xmlns="http://www.loc.gov/METS/">
	  <fileSec><fileGrp>
	    <file ID="F1DEF"><FLocat href="https://example.org/f1.jpg"/></file>
	  </fileGrp></fileSec>
	  <structMap><div ID="F1" LABEL="page_0001.tif"/></structMap>
	</mets>`

	m, err := Parse(strings.NewReader(plain))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	url, ok := m.ImageURL("page_0001")
	if !ok || url != "https://example.org/f1.jpg" {
		t.Errorf("ImageURL() = %q, %v", url, ok)
	}
}

func TestTrimLabelExt(t *testing.T) {
	tests := []struct{ in, want string }{
		{"page.tif", "page"},
		{"page.jpg", "page"},
		{"page.xml", "page.xml"},
		{"page", "page"},
	}
	for _, tt := range tests {
		if got := TrimLabelExt(tt.in); got != tt.want {
			t.Errorf("TrimLabelExt(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
