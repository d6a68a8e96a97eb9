/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: dist.go
Description: Readers for Python distribution archives. Dispatches on the
artifact filename to a zip-backed or tar-backed reader and exposes a uniform
member listing and extraction interface with per-member size caps.
*/

package distribution

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
)

// maxMemberSize caps a single extracted archive member. Archives can
// claim arbitrary sizes in their headers, so extraction is bounded.
const maxMemberSize = 32 << 20

var (
	// ErrUnsupported marks a filename whose extension no reader handles.
	ErrUnsupported = errors.New("distribution: unsupported archive format")
	// ErrMemberNotFound marks a path absent from the archive listing.
	ErrMemberNotFound = errors.New("distribution: member not found")
	// ErrMemberTooLarge marks a member above the extraction cap.
	ErrMemberTooLarge = errors.New("distribution: member exceeds size limit")
)

// Dist is a readable distribution archive.
type Dist interface {
	// Namelist returns the archive member paths in sorted order.
	Namelist() []string
	// Contents extracts one member by its archive path.
	Contents(path string) ([]byte, error)
}

// Open selects a reader for the artifact by filename extension.
// Wheels, eggs and plain zips share the zip reader; sdists use the
// gzipped tar reader.
func Open(filename string, data []byte) (Dist, error) {
	lower := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(lower, ".whl"),
		strings.HasSuffix(lower, ".egg"),
		strings.HasSuffix(lower, ".zip"):
		return openZip(data)
	case strings.HasSuffix(lower, ".tar.gz"),
		strings.HasSuffix(lower, ".tgz"):
		return openTarGz(data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, filename)
	}
}

// zipDist reads wheel, egg and zip artifacts.
type zipDist struct {
	reader *zip.Reader
	names  []string
}

func openZip(data []byte) (*zipDist, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open zip archive: %w", err)
	}

	names := make([]string, 0, len(reader.File))
	for _, f := range reader.File {
		if strings.HasSuffix(f.Name, "/") {
			continue
		}
		names = append(names, f.Name)
	}
	sort.Strings(names)
	return &zipDist{reader: reader, names: names}, nil
}

func (d *zipDist) Namelist() []string {
	return d.names
}

func (d *zipDist) Contents(path string) ([]byte, error) {
	for _, f := range d.reader.File {
		if f.Name != path {
			continue
		}
		if f.UncompressedSize64 > maxMemberSize {
			return nil, fmt.Errorf("%w: %s", ErrMemberTooLarge, path)
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open member %s: %w", path, err)
		}
		defer rc.Close()
		return readCapped(rc, path)
	}
	return nil, fmt.Errorf("%w: %s", ErrMemberNotFound, path)
}

// tarDist reads sdist artifacts. The whole archive is decompressed into
// a member map at open time because tar has no central directory.
type tarDist struct {
	names   []string
	members map[string][]byte
}

func openTarGz(data []byte) (*tarDist, error) {
	gz, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open gzip stream: %w", err)
	}
	defer gz.Close()

	d := &tarDist{members: make(map[string][]byte)}
	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read tar archive: %w", err)
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		if hdr.Size > maxMemberSize {
			return nil, fmt.Errorf("%w: %s", ErrMemberTooLarge, hdr.Name)
		}
		contents, err := readCapped(tr, hdr.Name)
		if err != nil {
			return nil, err
		}
		d.members[hdr.Name] = contents
		d.names = append(d.names, hdr.Name)
	}
	sort.Strings(d.names)
	return d, nil
}

func (d *tarDist) Namelist() []string {
	return d.names
}

func (d *tarDist) Contents(path string) ([]byte, error) {
	contents, ok := d.members[path]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMemberNotFound, path)
	}
	return contents, nil
}

// readCapped reads at most maxMemberSize bytes and errors if the
// source has more. Header sizes are untrusted, so the stream itself
// is bounded.
func readCapped(r io.Reader, path string) ([]byte, error) {
	contents, err := io.ReadAll(io.LimitReader(r, maxMemberSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to extract member %s: %w", path, err)
	}
	if len(contents) > maxMemberSize {
		return nil, fmt.Errorf("%w: %s", ErrMemberTooLarge, path)
	}
	return contents, nil
}
