package pages

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ArchiveType identifies an archive family by its magic bytes.
type ArchiveType int

const (
	// ArchiveUnknown means the file is not a recognized archive.
	ArchiveUnknown ArchiveType = iota
	// ArchiveZip covers ZIP and CBZ files.
	ArchiveZip
	// ArchiveRar covers RAR and CBR files.
	ArchiveRar
	// ArchiveSevenZip covers 7z files.
	ArchiveSevenZip
	// ArchiveGzip covers gzip streams, typically renamed tarballs.
	ArchiveGzip
)

// String returns a string representation of the archive type.
func (t ArchiveType) String() string {
	switch t {
	case ArchiveZip:
		return "zip"
	case ArchiveRar:
		return "rar"
	case ArchiveSevenZip:
		return "7z"
	case ArchiveGzip:
		return "gzip"
	default:
		return "unknown"
	}
}

// archiveMagic maps leading byte signatures to archive types. Comic
// archives are routinely renamed (.cbz hiding a RAR, .tar.gz hiding
// behind .cbz), so sniffing beats trusting the extension.
var archiveMagic = []struct {
	prefix []byte
	typ    ArchiveType
}{
	{[]byte("PK\x03\x04"), ArchiveZip},
	{[]byte("PK\x05\x06"), ArchiveZip}, // empty archive
	{[]byte("Rar!"), ArchiveRar},
	{[]byte("7z\xbc\xaf"), ArchiveSevenZip},
	{[]byte{0x1f, 0x8b}, ArchiveGzip},
}

// Sniff detects the archive type of a file from its magic bytes.
func Sniff(path string) (ArchiveType, error) {
	f, err := os.Open(path)
	if err != nil {
		return ArchiveUnknown, fmt.Errorf("pages: opening %s: %w", path, err)
	}
	defer f.Close()

	header := make([]byte, 8)
	n, err := io.ReadFull(f, header)
	if err != nil && n == 0 {
		return ArchiveUnknown, fmt.Errorf("pages: reading %s: %w", path, err)
	}
	header = header[:n]

	for _, m := range archiveMagic {
		if bytes.HasPrefix(header, m.prefix) {
			return m.typ, nil
		}
	}
	return ArchiveUnknown, nil
}

// IsArchive reports whether the path looks like a comic archive by
// extension.
func IsArchive(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".cbz", ".zip", ".cbr", ".rar", ".7z", ".gz":
		return true
	}
	return false
}

// Extract unpacks a ZIP/CBZ archive into destDir and returns the page
// images it contained, in natural order. Non-ZIP archive families are
// rejected with a descriptive error; a .cbz that is secretly a RAR is
// reported as such instead of failing with a cryptic decode error.
func Extract(archivePath, destDir string) ([]string, error) {
	typ, err := Sniff(archivePath)
	if err != nil {
		return nil, err
	}
	if typ != ArchiveZip {
		return nil, fmt.Errorf("pages: %s: unsupported archive type %s (only zip/cbz is supported)", archivePath, typ)
	}

	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, fmt.Errorf("pages: opening archive %s: %w", archivePath, err)
	}
	defer r.Close()

	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if err := extractFile(f, destDir); err != nil {
			return nil, err
		}
	}

	return List(destDir)
}

// extractFile writes one archive entry under destDir, refusing paths
// that would escape it.
func extractFile(f *zip.File, destDir string) error {
	name := filepath.Clean(f.Name)
	if name == ".." || strings.HasPrefix(name, ".."+string(filepath.Separator)) || filepath.IsAbs(name) {
		return fmt.Errorf("pages: archive entry %q escapes destination", f.Name)
	}

	target := filepath.Join(destDir, name)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("pages: creating %s: %w", filepath.Dir(target), err)
	}

	src, err := f.Open()
	if err != nil {
		return fmt.Errorf("pages: reading archive entry %s: %w", f.Name, err)
	}
	defer src.Close()

	dst, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("pages: creating %s: %w", target, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("pages: extracting %s: %w", f.Name, err)
	}
	return nil
}
