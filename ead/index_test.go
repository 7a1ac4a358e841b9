package ead

import (
	"strings"
	"testing"
)

const sampleEAD = `<?xml version="1.0" encoding="UTF-8"?>
<ead xmlns="urn:isbn:1-931666-00-8" xmlns:xlink="http://www.w3.org/1999/xlink">
  <archdesc>
    <dsc>
      <c level="file">
        <did>
          <unitid>1234</unitid>
          <dao xlink:href="https://example.org/mets/1234" xlink:role="METS"/>
        </did>
      </c>
      <c level="file">
        <did>
          <unitid> 5678 </unitid>
          <dao xlink:href="https://example.org/mets/5678"/>
        </did>
      </c>
      <c level="file">
        <did>
          <unitid>9999</unitid>
          <!-- no dao: not digitized -->
        </did>
      </c>
      <c level="file">
        <did>
          <!-- no unitid -->
          <dao xlink:href="https://example.org/mets/orphan"/>
        </did>
      </c>
    </dsc>
  </archdesc>
</ead>`

func TestParse(t *testing.T) {
	ix, err := Parse(strings.NewReader(sampleEAD))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	if ix.Len() != 2 {
		t.Errorf("Len() = %d, want 2", ix.Len())
	}

	url, ok := ix.Resolve("1234")
	if !ok {
		t.Fatal("Resolve(1234) not found")
	}
	if url != "https://example.org/mets/1234" {
		t.Errorf("Resolve(1234) = %q", url)
	}

	// Whitespace around the unitid is trimmed on both sides of the lookup.
	if _, ok := ix.Resolve("5678"); !ok {
		t.Error("Resolve(5678) not found despite padded unitid")
	}
	if _, ok := ix.Resolve(" 5678 "); !ok {
		t.Error("Resolve with padding not found")
	}

	if _, ok := ix.Resolve("9999"); ok {
		t.Error("Resolve(9999) found, but entry has no dao")
	}
	if _, ok := ix.Resolve("0000"); ok {
		t.Error("Resolve(0000) found, want miss")
	}
}

func TestParseUnprefixed(t *testing.T) {
	// Some finding aids ship without any namespace declarations.
	const plain = `<ead><archdesc><did>
      <unitid>42A</unitid>
      <dao href="https://example.org/mets/42A"/>
    </did></archdesc></ead>`

	ix, err := Parse(strings.NewReader(plain))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if url, ok := ix.Resolve("42A"); !ok || url != "https://example.org/mets/42A" {
		t.Errorf("Resolve(42A) = %q, %v", url, ok)
	}
}

func TestResolveNormalized(t *testing.T) {
	// A decomposed e + combining acute in the finding aid must match a
	// composed lookup key.
	const decomposed = `<ead><did>
      <unitid>dép-1</unitid>
      <dao href="https://example.org/mets/dep"/>
    </did></ead>`

	ix, err := Parse(strings.NewReader(strings.ReplaceAll(decomposed, `́`, "́")))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if _, ok := ix.Resolve("dép-1"); !ok {
		t.Error("composed lookup failed against decomposed unitid")
	}
}

func TestParseNoRoot(t *testing.T) {
	if _, err := Parse(strings.NewReader("")); err == nil {
		t.Error("Parse(empty) did not fail")
	}
}
