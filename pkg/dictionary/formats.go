package dictionary

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// FileFormat represents the dictionary file formats the store can load.
type FileFormat int

const (
	FormatUnknown  FileFormat = iota
	FormatBinary              // Binary record file
	FormatCombined            // Combined text layout
)

// FormatInfo contains metadata about a dictionary file format
type FormatInfo struct {
	Format      FileFormat
	Description string
	Extensions  []string
	MinSize     int64 // Minimum expected file size in bytes
}

var supportedFormats = map[FileFormat]FormatInfo{
	FormatBinary: {
		Format:      FormatBinary,
		Description: "Binary Record Dictionary",
		Extensions:  []string{".bin"},
		MinSize:     headerSize,
	},
	FormatCombined: {
		Format:      FormatCombined,
		Description: "Combined Text Dictionary",
		Extensions:  []string{".txt", ".combined"},
		MinSize:     1,
	},
}

var fileMagic = [4]byte{'T', 'Y', 'P', 'D'}

const (
	fileVersion uint16 = 1
	headerSize         = 4 + 2 + 4

	// maxEntryCount is a sanity bound on the header's entry count.
	maxEntryCount = 10_000_000

	initialEntryCapacity = 4096
)

// ValidateFileFormat checks if a file matches the expected format
func ValidateFileFormat(filename string, expectedFormat FileFormat) error {
	fileInfo, err := os.Stat(filename)
	if err != nil {
		return fmt.Errorf("failed to stat file %s: %w", filename, err)
	}

	formatInfo, exists := supportedFormats[expectedFormat]
	if !exists {
		return fmt.Errorf("unknown format: %v", expectedFormat)
	}

	if fileInfo.Size() < formatInfo.MinSize {
		return fmt.Errorf("file %s is too small (%d bytes) for format %s (minimum: %d bytes)",
			filename, fileInfo.Size(), formatInfo.Description, formatInfo.MinSize)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	validExt := false
	for _, validExtension := range formatInfo.Extensions {
		if ext == validExtension {
			validExt = true
			break
		}
	}
	if !validExt {
		return fmt.Errorf("file %s has invalid extension %s for format %s (expected: %v)",
			filename, ext, formatInfo.Description, formatInfo.Extensions)
	}

	if expectedFormat == FormatBinary {
		return validateBinaryFormat(filename)
	}
	return nil
}

// validateBinaryFormat reads only the header of a record file.
func validateBinaryFormat(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", filename, err)
	}
	defer file.Close()

	count, err := readHeader(file)
	if err != nil {
		return fmt.Errorf("invalid header in %s: %w", filename, err)
	}
	log.Debugf("Binary file %s validated: %d entries", filename, count)
	return nil
}

// DetectFileFormat picks the format of a file from its extension and header.
func DetectFileFormat(filename string) (FileFormat, error) {
	for _, format := range []FileFormat{FormatBinary, FormatCombined} {
		if err := ValidateFileFormat(filename, format); err == nil {
			return format, nil
		}
	}
	return FormatUnknown, fmt.Errorf("unable to detect format for file %s", filename)
}

// GetFormatInfo returns information about a specific format
func GetFormatInfo(format FileFormat) (FormatInfo, bool) {
	info, exists := supportedFormats[format]
	return info, exists
}

// WriteEntries writes raw records in the binary record layout:
//
//	header:  magic "TYPD" | uint16 version | int32 entry count
//	entry:   uint8 flags
//	         array   code points
//	         block   attributes
//	         uint16 n, n x array    bigram targets
//	         uint16 n, n x block    bigram attributes
//	         uint16 n, n x array    shortcut targets
//	         uint16 n, n x int32    shortcut weights
//
// array is a uint16 length followed by int32 code points (terminator
// included), block is a uint8 length followed by int32 values. All values
// are little-endian. Arrays are written as given so that the reader sees
// exactly what the writer held.
func WriteEntries(w io.Writer, entries []RawEntry) error {
	var buf bytes.Buffer
	buf.Write(fileMagic[:])
	le := binary.LittleEndian
	_ = binary.Write(&buf, le, fileVersion)
	_ = binary.Write(&buf, le, int32(len(entries)))

	for i, e := range entries {
		if err := writeEntry(&buf, e); err != nil {
			return fmt.Errorf("entry %d: %w", i, err)
		}
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write entries: %w", err)
	}
	return nil
}

// ReadEntries reads records written by WriteEntries. Records are returned
// undecoded. When the records stop before the header's count, the ones read
// so far are returned with a *TruncatedFileError.
func ReadEntries(r io.Reader) ([]RawEntry, error) {
	count, err := readHeader(r)
	if err != nil {
		return nil, err
	}
	// the count is untrusted until the records are actually there
	entries := make([]RawEntry, 0, min(count, initialEntryCapacity))
	for i := 0; i < count; i++ {
		e, err := readEntry(r)
		if err != nil {
			return entries, &TruncatedFileError{Read: i, Expected: count, Err: err}
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func readHeader(r io.Reader) (int, error) {
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return 0, fmt.Errorf("failed to read magic: %w", err)
	}
	if magic != fileMagic {
		return 0, fmt.Errorf("bad magic %q", magic[:])
	}
	var version uint16
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return 0, fmt.Errorf("failed to read version: %w", err)
	}
	if version != fileVersion {
		return 0, fmt.Errorf("unsupported version %d", version)
	}
	var count int32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return 0, fmt.Errorf("failed to read entry count: %w", err)
	}
	if count < 0 || count > maxEntryCount {
		return 0, fmt.Errorf("invalid entry count %d", count)
	}
	return int(count), nil
}

func writeEntry(buf *bytes.Buffer, e RawEntry) error {
	buf.WriteByte(e.Flags)
	if err := writeArray(buf, e.CodePoints); err != nil {
		return err
	}
	if err := writeBlock(buf, e.Attributes); err != nil {
		return err
	}
	if err := writeArrays(buf, e.BigramTargets, writeArray); err != nil {
		return err
	}
	if err := writeArrays(buf, e.BigramAttributes, writeBlock); err != nil {
		return err
	}
	if err := writeArrays(buf, e.ShortcutTargets, writeArray); err != nil {
		return err
	}
	return writeArray(buf, e.ShortcutWeights)
}

func writeArrays(buf *bytes.Buffer, arrays [][]int32, write func(*bytes.Buffer, []int32) error) error {
	if len(arrays) > 0xFFFF {
		return fmt.Errorf("too many arrays: %d", len(arrays))
	}
	_ = binary.Write(buf, binary.LittleEndian, uint16(len(arrays)))
	for _, a := range arrays {
		if err := write(buf, a); err != nil {
			return err
		}
	}
	return nil
}

func writeArray(buf *bytes.Buffer, values []int32) error {
	if len(values) > 0xFFFF {
		return fmt.Errorf("array too long: %d", len(values))
	}
	_ = binary.Write(buf, binary.LittleEndian, uint16(len(values)))
	return binary.Write(buf, binary.LittleEndian, values)
}

func writeBlock(buf *bytes.Buffer, values []int32) error {
	if len(values) > 0xFF {
		return fmt.Errorf("attribute block too long: %d", len(values))
	}
	buf.WriteByte(uint8(len(values)))
	return binary.Write(buf, binary.LittleEndian, values)
}

func readEntry(r io.Reader) (RawEntry, error) {
	var e RawEntry
	var err error
	if err = binary.Read(r, binary.LittleEndian, &e.Flags); err != nil {
		return e, err
	}
	if e.CodePoints, err = readArray(r); err != nil {
		return e, err
	}
	if e.Attributes, err = readBlock(r); err != nil {
		return e, err
	}
	if e.BigramTargets, err = readArrays(r, readArray); err != nil {
		return e, err
	}
	if e.BigramAttributes, err = readArrays(r, readBlock); err != nil {
		return e, err
	}
	if e.ShortcutTargets, err = readArrays(r, readArray); err != nil {
		return e, err
	}
	if e.ShortcutWeights, err = readArray(r); err != nil {
		return e, err
	}
	if len(e.ShortcutWeights) == 0 {
		e.ShortcutWeights = nil
	}
	return e, nil
}

func readArrays(r io.Reader, read func(io.Reader) ([]int32, error)) ([][]int32, error) {
	var n uint16
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	out := make([][]int32, n)
	for i := range out {
		a, err := read(r)
		if err != nil {
			return nil, err
		}
		out[i] = a
	}
	return out, nil
}

func readArray(r io.Reader) ([]int32, error) {
	var n uint16
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, err
	}
	values := make([]int32, n)
	if err := binary.Read(r, binary.LittleEndian, values); err != nil {
		return nil, err
	}
	return values, nil
}

func readBlock(r io.Reader) ([]int32, error) {
	var n uint8
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, err
	}
	values := make([]int32, n)
	if err := binary.Read(r, binary.LittleEndian, values); err != nil {
		return nil, err
	}
	return values, nil
}
