// Package payload locates and validates the byte region appended to the
// running executable. The region layout, back to front, is the 8-byte
// big-endian payload size, preceded by the ASCII marker, preceded by the
// payload bytes themselves. Extraction is out of scope here; this package
// only answers whether a well-formed region is present.
package payload

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// Marker separates appended payload data from its trailing size field.
const Marker = "<<< HERE BE ME TREASURE >>>"

// MaxSize is the largest payload the extractor will accept.
const MaxSize = 100 << 20 // 100 MiB

// sizeFieldLen is the width of the big-endian size field after the marker.
const sizeFieldLen = 8

// scanChunk is the window used when searching backward for the marker.
const scanChunk = 64 << 10

// Info describes a located payload region.
type Info struct {
	// MarkerOffset is the byte offset of the marker from the start of the file.
	MarkerOffset int64
	// Size is the declared payload byte count.
	Size uint64
}

// Scan searches path for the last occurrence of the marker and validates the
// trailing size field. It returns one of the package sentinel errors when
// the region is absent or malformed.
func Scan(path string) (Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return Info{}, fmt.Errorf("open executable: %w", err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return Info{}, fmt.Errorf("stat executable: %w", err)
	}

	offset, err := findMarker(f, st.Size())
	if err != nil {
		return Info{}, err
	}

	return validate(f, st.Size(), offset)
}

// ScanReader is Scan over an already-open file, used by tests.
func ScanReader(r io.ReaderAt, fileSize int64) (Info, error) {
	offset, err := findMarker(r, fileSize)
	if err != nil {
		return Info{}, err
	}
	return validate(r, fileSize, offset)
}

// findMarker scans backward in overlapping chunks and returns the offset of
// the last occurrence of the marker.
func findMarker(r io.ReaderAt, fileSize int64) (int64, error) {
	marker := []byte(Marker)
	if fileSize < int64(len(marker)) {
		return 0, ErrMarkerNotFound
	}

	// Each window overlaps the previous one by len(marker)-1 bytes so a
	// marker straddling a chunk boundary is still seen.
	buf := make([]byte, scanChunk+len(marker)-1)
	end := fileSize
	for end > 0 {
		start := end - scanChunk
		if start < 0 {
			start = 0
		}
		n := end - start
		window := buf[:n+int64(len(marker))-1]
		if start+int64(len(window)) > fileSize {
			window = window[:fileSize-start]
		}
		if _, err := r.ReadAt(window, start); err != nil && err != io.EOF {
			return 0, fmt.Errorf("read executable: %w", err)
		}
		if idx := bytes.LastIndex(window, marker); idx >= 0 {
			return start + int64(idx), nil
		}
		end = start
	}
	return 0, ErrMarkerNotFound
}

// validate reads and bounds-checks the size field following the marker.
func validate(r io.ReaderAt, fileSize, markerOffset int64) (Info, error) {
	sizePos := markerOffset + int64(len(Marker))
	if sizePos+sizeFieldLen > fileSize {
		return Info{}, ErrSizeFieldShort
	}

	var field [sizeFieldLen]byte
	if _, err := r.ReadAt(field[:], sizePos); err != nil {
		return Info{}, fmt.Errorf("read size field: %w", err)
	}

	info := Info{
		MarkerOffset: markerOffset,
		Size:         binary.BigEndian.Uint64(field[:]),
	}

	switch {
	case info.Size == 0:
		return info, ErrSizeZero
	case info.Size > MaxSize:
		return info, fmt.Errorf("%w: %d bytes, maximum %d", ErrSizeExceedsMaximum, info.Size, int64(MaxSize))
	case info.Size > uint64(markerOffset):
		return info, fmt.Errorf(
			"%w: size %d, only %d bytes before marker", ErrSizeExceedsSpace, info.Size, markerOffset)
	}
	return info, nil
}
