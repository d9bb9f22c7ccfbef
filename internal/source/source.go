// Package source supplies the still images the compositor transitions
// between. A source is a flat list of pages: image files, a directory of
// image files, or the pages of a PDF document. All file and document I/O
// stays here; callers only ever see decoded pixel buffers.
package source

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gen2brain/go-fitz"

	"github.com/ivlev/slidemorph/internal/raster"
)

// Source is an ordered list of renderable pages. RenderPage decodes page
// index into a pixel buffer; dpi applies only to vector-backed sources.
type Source interface {
	PageCount() int
	RenderPage(index int, dpi int) (*raster.Buffer, error)
	Close() error
}

// usableExt reports whether a file name looks like an input this package can
// decode.
func usableExt(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf", ".jpg", ".jpeg", ".png":
		return true
	}
	return false
}

// Open picks a source implementation from the path: a .pdf file becomes a
// PDFSource, anything else an ImageSource.
func Open(path string) (Source, error) {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return NewPDFSource(path)
	}
	return NewImageSource(path)
}

// FindLatest returns the most recently modified usable input (PDF or image)
// in dir.
func FindLatest(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	var latestFile string
	var latestTime time.Time
	for _, entry := range entries {
		if entry.IsDir() || !usableExt(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(latestTime) {
			latestTime = info.ModTime()
			latestFile = filepath.Join(dir, entry.Name())
		}
	}

	if latestFile == "" {
		return "", fmt.Errorf("no PDF or image files in %s", dir)
	}
	return latestFile, nil
}

// PDFSource renders PDF pages through go-fitz. The document held by the
// struct only answers PageCount; RenderPage opens a per-call handle so pages
// can be rendered from worker goroutines.
type PDFSource struct {
	doc  *fitz.Document
	path string
}

func NewPDFSource(path string) (*PDFSource, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", path, err)
	}
	return &PDFSource{doc: doc, path: path}, nil
}

func (s *PDFSource) PageCount() int {
	return s.doc.NumPage()
}

func (s *PDFSource) RenderPage(index int, dpi int) (*raster.Buffer, error) {
	if index < 0 || index >= s.doc.NumPage() {
		return nil, fmt.Errorf("page %d out of range (document has %d)", index, s.doc.NumPage())
	}
	doc, err := fitz.New(s.path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", s.path, err)
	}
	defer doc.Close()

	img, err := doc.ImageDPI(index, float64(dpi))
	if err != nil {
		return nil, fmt.Errorf("render page %d of %s: %w", index, s.path, err)
	}
	return raster.FromImage(img), nil
}

func (s *PDFSource) Close() error {
	return s.doc.Close()
}
