package extract

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

// zipFixture builds an in-memory zip with the given name -> content entries.
func zipFixture(t *testing.T, entries map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range entries {
		fw, err := w.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := fw.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func xlsxFixture(t *testing.T, cells map[string]string) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for cell, value := range cells {
		if err := f.SetCellValue("Sheet1", cell, value); err != nil {
			t.Fatal(err)
		}
	}
	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestExtractBytes_Plain(t *testing.T) {
	e := NewExtractor()
	for _, ext := range []string{".txt", ".md", ".rst", "", ".log"} {
		got, err := e.ExtractBytes([]byte("hello world"), ext)
		if err != nil {
			t.Fatalf("ext %q: %v", ext, err)
		}
		if got != "hello world" {
			t.Errorf("ext %q: got %q", ext, got)
		}
	}
}

func TestExtractBytes_PlainInvalidUTF8(t *testing.T) {
	e := NewExtractor()
	got, err := e.ExtractBytes([]byte{'o', 'k', 0xff, 0xfe}, ".txt")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(got, "ok") {
		t.Errorf("got %q", got)
	}
	if strings.ContainsRune(got, 0xff) {
		t.Errorf("invalid bytes not replaced: %q", got)
	}
}

func TestExtractBytes_Docx(t *testing.T) {
	e := NewExtractor()
	doc := `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body><w:p w:rsidR="00A"><w:r><w:t xml:space="preserve">quarterly report</w:t></w:r></w:p></w:body></w:document>`
	got, err := e.ExtractBytes(zipFixture(t, map[string]string{"word/document.xml": doc}), ".docx")
	if err != nil {
		t.Fatal(err)
	}
	if got != "quarterly report" {
		t.Errorf("got %q", got)
	}
}

func TestExtractBytes_DocxMainPartFromContentTypes(t *testing.T) {
	e := NewExtractor()
	doc := `<w:document><w:body><w:p><w:r><w:t>alternate part</w:t></w:r></w:p></w:body></w:document>`
	for name, types := range map[string]string{
		"PartName first": `<Types><Override PartName="/word/document2.xml" ContentType="` + wordMainContentType + `"/></Types>`,
		"PartName last":  `<Types><Override ContentType="` + wordMainContentType + `" PartName="/word/document2.xml"/></Types>`,
	} {
		t.Run(name, func(t *testing.T) {
			content := zipFixture(t, map[string]string{
				contentTypesPath:     types,
				"word/document2.xml": doc,
			})
			got, err := e.ExtractBytes(content, ".docx")
			if err != nil {
				t.Fatal(err)
			}
			if got != "alternate part" {
				t.Errorf("got %q", got)
			}
		})
	}
}

func TestExtractBytes_DocxNotZip(t *testing.T) {
	e := NewExtractor()
	if _, err := e.ExtractBytes([]byte("not a zip"), ".docx"); err == nil {
		t.Fatal("expected error for non-zip docx")
	}
}

func TestExtractBytes_Pptx(t *testing.T) {
	e := NewExtractor()
	content := zipFixture(t, map[string]string{
		"ppt/slides/slide1.xml": `<p:sld><p:txBody><a:p><a:r><a:t>first slide</a:t></a:r></a:p></p:txBody></p:sld>`,
		"ppt/slides/slide2.xml": `<p:sld><p:txBody><a:p><a:r><a:t>second slide</a:t></a:r></a:p></p:txBody></p:sld>`,
		"ppt/notes/note1.xml":   `<a:t>ignored</a:t>`,
	})
	got, err := e.ExtractBytes(content, ".pptx")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "first slide") || !strings.Contains(got, "second slide") {
		t.Errorf("got %q", got)
	}
	if strings.Contains(got, "ignored") {
		t.Errorf("non-slide part extracted: %q", got)
	}
}

func TestExtractBytes_Odp(t *testing.T) {
	e := NewExtractor()
	content := zipFixture(t, map[string]string{
		odfContentPath: `<office:document><office:body><text:h outline-level="1">Title</text:h><draw:text-box><text:p>slide body</text:p></draw:text-box></office:body></office:document>`,
	})
	got, err := e.ExtractBytes(content, ".odp")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "Title") || !strings.Contains(got, "slide body") {
		t.Errorf("got %q", got)
	}
}

func TestExtractBytes_OdpMissingContent(t *testing.T) {
	e := NewExtractor()
	content := zipFixture(t, map[string]string{"meta.xml": `<meta/>`})
	if _, err := e.ExtractBytes(content, ".odp"); err == nil {
		t.Fatal("expected error when content.xml missing")
	}
}

func TestExtractBytes_Ods(t *testing.T) {
	e := NewExtractor()
	content := zipFixture(t, map[string]string{
		odfContentPath: `<office:document><table:table><table:table-row><table:table-cell><text:p>alpha</text:p></table:table-cell><table:table-cell><text:p>beta</text:p></table:table-cell></table:table-row></table:table></office:document>`,
	})
	got, err := e.ExtractBytes(content, ".ods")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "alpha") || !strings.Contains(got, "beta") {
		t.Errorf("got %q", got)
	}
}

func TestExtractBytes_Xlsx(t *testing.T) {
	e := NewExtractor()
	content := xlsxFixture(t, map[string]string{"A1": "revenue", "B1": "12000"})
	got, err := e.ExtractBytes(content, ".xlsx")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "revenue") || !strings.Contains(got, "12000") {
		t.Errorf("got %q", got)
	}
}

func TestExtract_File(t *testing.T) {
	e := NewExtractor()
	dir := t.TempDir()

	path := filepath.Join(dir, "note.md")
	if err := os.WriteFile(path, []byte("# heading\n\nbody"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := e.Extract(path)
	if err != nil {
		t.Fatal(err)
	}
	if got != "# heading\n\nbody" {
		t.Errorf("got %q", got)
	}

	xlsxPath := filepath.Join(dir, "sheet.xlsx")
	if err := os.WriteFile(xlsxPath, xlsxFixture(t, map[string]string{"A1": "cell value"}), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err = e.Extract(xlsxPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "cell value") {
		t.Errorf("got %q", got)
	}
}

func TestExtract_MissingFile(t *testing.T) {
	e := NewExtractor()
	if _, err := e.Extract(filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestSupported(t *testing.T) {
	e := NewExtractor()
	for _, ext := range []string{".pdf", ".docx", ".xlsx", ".PPTX", ".odp", ".ods"} {
		if !e.Supported(ext) {
			t.Errorf("Supported(%q) = false", ext)
		}
	}
	for _, ext := range []string{".txt", ".md", ".exe", ""} {
		if e.Supported(ext) {
			t.Errorf("Supported(%q) = true", ext)
		}
	}
}
