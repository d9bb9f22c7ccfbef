package source

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ivlev/slidemorph/internal/raster"
)

// ImageSource serves decoded image files: either a single file or every
// image in a directory, ordered by file name.
type ImageSource struct {
	pages []string
}

func NewImageSource(path string) (*ImageSource, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !fi.IsDir() {
		return &ImageSource{pages: []string{path}}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	var pages []string
	for _, entry := range entries {
		if entry.IsDir() || !usableExt(entry.Name()) {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			continue
		}
		pages = append(pages, filepath.Join(path, entry.Name()))
	}
	sort.Strings(pages)
	if len(pages) == 0 {
		return nil, fmt.Errorf("no image files in %s", path)
	}
	return &ImageSource{pages: pages}, nil
}

func (s *ImageSource) PageCount() int {
	return len(s.pages)
}

// RenderPage decodes the image file at index into a pixel buffer. The dpi
// argument only matters for vector sources and is ignored here.
func (s *ImageSource) RenderPage(index int, dpi int) (*raster.Buffer, error) {
	if index < 0 || index >= len(s.pages) {
		return nil, fmt.Errorf("page %d out of range (source has %d)", index, len(s.pages))
	}
	f, err := os.Open(s.pages[index])
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.pages[index], err)
	}
	return raster.FromImage(img), nil
}

func (s *ImageSource) Close() error {
	return nil
}
