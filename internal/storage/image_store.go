package storage

import (
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
)

// DefaultMaxImageBytes is the upload ceiling for menu images.
const DefaultMaxImageBytes = 5 << 20

var (
	// ErrUnsupportedImage is returned when the extension or content is not an allowed image type.
	ErrUnsupportedImage = errors.New("file upload only supports images (jpeg, jpg, png, gif)")
	// ErrImageTooLarge is returned when the upload exceeds the size ceiling.
	ErrImageTooLarge = errors.New("image exceeds the maximum upload size")
)

var (
	allowedExtensions = map[string]bool{".jpeg": true, ".jpg": true, ".png": true, ".gif": true}
	allowedMIMETypes  = []string{"image/jpeg", "image/png", "image/gif"}
)

// ImageStore persists uploaded images and resolves their public paths.
type ImageStore interface {
	Validate(fh *multipart.FileHeader) error
	Save(fh *multipart.FileHeader) (string, error)
	Remove(publicPath string) error
	Exists(publicPath string) bool
	Files() ([]StoredFile, error)
}

// StoredFile describes one file in the managed directory.
type StoredFile struct {
	PublicPath string
	ModTime    time.Time
}

// DiskStore keeps images in a single directory served under a URL prefix.
type DiskStore struct {
	dir       string
	urlPrefix string
	maxBytes  int64
}

var _ ImageStore = (*DiskStore)(nil)

// NewDiskStore creates the upload directory if needed.
func NewDiskStore(dir, urlPrefix string, maxBytes int64) (*DiskStore, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxImageBytes
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &DiskStore{
		dir:       dir,
		urlPrefix: "/" + strings.Trim(urlPrefix, "/"),
		maxBytes:  maxBytes,
	}, nil
}

// Dir returns the directory images are written to.
func (s *DiskStore) Dir() string { return s.dir }

// URLPrefix returns the public path prefix for stored images.
func (s *DiskStore) URLPrefix() string { return s.urlPrefix }

// Validate checks extension, size and sniffed content type of an upload.
func (s *DiskStore) Validate(fh *multipart.FileHeader) error {
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !allowedExtensions[ext] {
		return ErrUnsupportedImage
	}
	if fh.Size > s.maxBytes {
		return ErrImageTooLarge
	}

	f, err := fh.Open()
	if err != nil {
		return fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	mtype, err := mimetype.DetectReader(f)
	if err != nil {
		return fmt.Errorf("detect upload type: %w", err)
	}
	for _, allowed := range allowedMIMETypes {
		if mtype.Is(allowed) {
			return nil
		}
	}
	return ErrUnsupportedImage
}

// Save writes the upload under a generated collision-resistant name and
// returns its public path.
func (s *DiskStore) Save(fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	var (
		dst  *os.File
		name string
	)
	for attempt := 0; attempt < 5; attempt++ {
		name = generateName(ext)
		dst, err = os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil || !os.IsExist(err) {
			break
		}
	}
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}

	written, err := io.Copy(dst, io.LimitReader(src, s.maxBytes+1))
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	if err == nil && written > s.maxBytes {
		err = ErrImageTooLarge
	}
	if err != nil {
		_ = os.Remove(dst.Name())
		return "", fmt.Errorf("write image file: %w", err)
	}

	return path.Join(s.urlPrefix, name), nil
}

// Remove deletes the file behind a public path. Missing files are not an error.
func (s *DiskStore) Remove(publicPath string) error {
	name, ok := s.fileName(publicPath)
	if !ok {
		return nil
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove image %s: %w", name, err)
	}
	return nil
}

// Exists reports whether the file behind a public path is present.
func (s *DiskStore) Exists(publicPath string) bool {
	name, ok := s.fileName(publicPath)
	if !ok {
		return false
	}
	info, err := os.Stat(filepath.Join(s.dir, name))
	return err == nil && info.Mode().IsRegular()
}

// Files lists regular files in the managed directory.
func (s *DiskStore) Files() ([]StoredFile, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read upload dir: %w", err)
	}
	files := make([]StoredFile, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, StoredFile{
			PublicPath: path.Join(s.urlPrefix, entry.Name()),
			ModTime:    info.ModTime(),
		})
	}
	return files, nil
}

// fileName reduces a public path to a bare file name inside the managed
// directory; anything else is rejected.
func (s *DiskStore) fileName(publicPath string) (string, bool) {
	if publicPath == "" {
		return "", false
	}
	name := path.Base(publicPath)
	if name == "." || name == "/" || name == ".." {
		return "", false
	}
	return name, true
}

func generateName(ext string) string {
	return fmt.Sprintf("%d-%d%s", time.Now().UnixMilli(), rand.Int64N(1e9), ext)
}
