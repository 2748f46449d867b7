package domain

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"qrMenu/internal/shared/format"
)

// MaxFiles caps a multi-image upload.
const MaxFiles = 10

var (
	ErrNoFiles       = errors.New("no files to upload")
	ErrTooManyFiles  = fmt.Errorf("at most %d files can be uploaded at once", MaxFiles)
	ErrEmptyFilename = errors.New("filename is required")
)

// Result describes a stored upload.
type Result struct {
	Filename     string `json:"filename"`
	OriginalName string `json:"originalName"`
	Size         int64  `json:"size"`
	MimeType     string `json:"mimeType"`
	URL          string `json:"url"`
}

// CSVPreview is the server's parse of an uploaded CSV sheet.
type CSVPreview struct {
	Data    []map[string]any `json:"data"`
	Headers []string         `json:"headers"`
}

// File is one file to upload.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Content     io.Reader
}

// ValidateImage applies the image type and size limits.
func (f File) ValidateImage() error {
	if err := format.ValidateImage(f.ContentType, f.Size); err != nil {
		return fmt.Errorf("%s: %w", f.Name, err)
	}
	return nil
}

// OpenFile opens path for upload and resolves its content type from the extension, falling
// back to sniffing the first bytes. The caller closes the returned file.
func OpenFile(path string) (File, *os.File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return File{}, nil, err
	}
	info, err := fh.Stat()
	if err != nil {
		fh.Close()
		return File{}, nil, err
	}
	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		head := make([]byte, 512)
		n, _ := io.ReadFull(fh, head)
		contentType = http.DetectContentType(head[:n])
		if _, err := fh.Seek(0, io.SeekStart); err != nil {
			fh.Close()
			return File{}, nil, err
		}
	}
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		contentType = mediaType
	}
	return File{Name: filepath.Base(path), ContentType: contentType, Size: info.Size(), Content: fh}, fh, nil
}
