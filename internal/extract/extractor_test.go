package extract

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func writeTempFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestExtract_PlainFile(t *testing.T) {
	path := writeTempFile(t, "notes.txt", []byte("Hello world.\nSecond line here."))

	doc, err := NewExtractor().Extract(path)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if doc.FullText != "Hello world.\nSecond line here." {
		t.Errorf("full text = %q", doc.FullText)
	}
	if doc.Filename != "notes.txt" || doc.FileType != "txt" {
		t.Errorf("identity = %s/%s", doc.Filename, doc.FileType)
	}
	if doc.Metadata.Title != "notes" {
		t.Errorf("title = %q", doc.Metadata.Title)
	}
	if doc.Metadata.WordCount != 5 {
		t.Errorf("word count = %d, want 5", doc.Metadata.WordCount)
	}
	if doc.Metadata.PageCount != 1 {
		t.Errorf("page count = %d, want 1", doc.Metadata.PageCount)
	}
}

func TestExtract_UnknownExtensionFallsBackToPlain(t *testing.T) {
	path := writeTempFile(t, "data.xyz", []byte("raw content"))
	doc, err := NewExtractor().Extract(path)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if doc.FullText != "raw content" {
		t.Errorf("full text = %q", doc.FullText)
	}
}

func TestExtract_Nonexistent(t *testing.T) {
	if _, err := NewExtractor().Extract("/nonexistent/path/file.txt"); err == nil {
		t.Error("expected error for nonexistent file")
	}
}

func TestExtract_ExcelFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.xlsx")
	f := excelize.NewFile()
	f.SetCellValue("Sheet1", "A1", "Title")
	f.SetCellValue("Sheet1", "A2", "Value 1")
	f.SetCellValue("Sheet1", "B2", "Value 2")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs: %v", err)
	}
	f.Close()

	doc, err := NewExtractor().Extract(path)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if doc.FullText != "Title\nValue 1\tValue 2" {
		t.Errorf("full text = %q", doc.FullText)
	}
	if doc.FileType != "xlsx" {
		t.Errorf("file type = %q", doc.FileType)
	}
}

func TestExtractPlain_InvalidUTF8(t *testing.T) {
	got, err := extractPlain([]byte("hello\x80world"))
	if err != nil {
		t.Fatal(err)
	}
	if got != "hello�world" {
		t.Errorf("got %q", got)
	}
}

// minimalDocx builds a .docx zip whose word/document.xml holds text in <w:t> tags.
func minimalDocx(text string) []byte {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	fw, _ := w.Create("word/document.xml")
	_, _ = fw.Write([]byte(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body><w:p><w:r><w:t>` + text + `</w:t></w:r></w:p></w:body></w:document>`))
	_ = w.Close()
	return buf.Bytes()
}

func TestExtract_DocxFile(t *testing.T) {
	path := writeTempFile(t, "report.docx", minimalDocx("Searchable docx content"))
	doc, err := NewExtractor().Extract(path)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if doc.FullText != "Searchable docx content" {
		t.Errorf("full text = %q", doc.FullText)
	}
	if doc.Metadata.Title != "report" {
		t.Errorf("title = %q", doc.Metadata.Title)
	}
}

func TestExtractDOCX_ContentTypesOverride(t *testing.T) {
	// Main document at a non-standard path, referenced from [Content_Types].xml.
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	ct, _ := w.Create("[Content_Types].xml")
	_, _ = ct.Write([]byte(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Override PartName="/word/document2.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`))
	fw, _ := w.Create("word/document2.xml")
	_, _ = fw.Write([]byte(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body><w:p><w:r><w:t>Content from document2</w:t></w:r></w:p></w:body></w:document>`))
	_ = w.Close()

	got, err := extractDOCX(buf.Bytes())
	if err != nil {
		t.Fatalf("extractDOCX: %v", err)
	}
	if got != "Content from document2" {
		t.Errorf("got %q", got)
	}
}

func TestExtractDOCX_ContentTypesReversedAttributes(t *testing.T) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	ct, _ := w.Create("[Content_Types].xml")
	_, _ = ct.Write([]byte(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Override ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml" PartName="/word/document3.xml"/>
</Types>`))
	fw, _ := w.Create("word/document3.xml")
	_, _ = fw.Write([]byte(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body><w:p><w:r><w:t>Reversed order test</w:t></w:r></w:p></w:body></w:document>`))
	_ = w.Close()

	got, err := extractDOCX(buf.Bytes())
	if err != nil {
		t.Fatalf("extractDOCX: %v", err)
	}
	if got != "Reversed order test" {
		t.Errorf("got %q", got)
	}
}

func TestExtractDOCX_NotZip(t *testing.T) {
	if _, err := extractDOCX([]byte("not a zip")); err == nil {
		t.Error("expected error for invalid docx")
	}
}

func TestIsSupported(t *testing.T) {
	for _, ext := range []string{".pdf", ".docx", ".odt", ".rtf", ".xlsx", ".txt", ".md", ".rst"} {
		if !IsSupported(ext) {
			t.Errorf("%s should be supported", ext)
		}
	}
	if IsSupported(".exe") {
		t.Error(".exe should not be supported")
	}
	if !IsSupported(".PDF") {
		t.Error("extension check should be case-insensitive")
	}
}
