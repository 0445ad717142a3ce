package dictionary

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEntries() []RawEntry {
	return []RawEntry{
		helloRaw(),
		{
			CodePoints:      EncodeText("über"),
			Flags:           FlagHasShortcuts,
			Attributes:      attrs(55, 1700000000, 1, 2),
			ShortcutTargets: [][]int32{EncodeText("uber")},
			ShortcutWeights: []int32{13},
		},
	}
}

func TestWriteReadEntries(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteEntries(&buf, sampleEntries()))

	got, err := ReadEntries(&buf)
	require.NoError(t, err)
	assert.Equal(t, sampleEntries(), got)
}

func TestReadEntriesKeepsMalformedRecords(t *testing.T) {
	broken := helloRaw()
	broken.CodePoints = []int32{'h', 'e'}

	var buf bytes.Buffer
	require.NoError(t, WriteEntries(&buf, []RawEntry{broken}))

	got, err := ReadEntries(&buf)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, []int32{'h', 'e'}, got[0].CodePoints)

	_, err = Decode(got[0])
	assert.ErrorIs(t, err, ErrMalformedEntry)
}

func TestReadEntriesBadHeader(t *testing.T) {
	testCases := []struct {
		data        []byte
		description string
	}{
		{[]byte{}, "empty"},
		{[]byte("NOPE\x01\x00\x00\x00\x00\x00"), "bad magic"},
		{[]byte("TYPD\x09\x00\x00\x00\x00\x00"), "bad version"},
		{[]byte("TYPD\x01\x00\xff\xff\xff\xff"), "negative count"},
		{[]byte("TYPD\x01\x00\x02\x00\x00\x00"), "truncated entries"},
	}
	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			_, err := ReadEntries(bytes.NewReader(tc.data))
			assert.Error(t, err)
		})
	}
}

func TestReadEntriesTruncated(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteEntries(&buf, sampleEntries()))
	data := buf.Bytes()

	got, err := ReadEntries(bytes.NewReader(data[:len(data)-3]))
	var truncated *TruncatedFileError
	require.ErrorAs(t, err, &truncated)
	assert.Equal(t, 1, truncated.Read)
	assert.Equal(t, 2, truncated.Expected)
	assert.Equal(t, sampleEntries()[:1], got)
}

func TestReadEntriesDoesNotTrustCount(t *testing.T) {
	var header bytes.Buffer
	header.Write(fileMagic[:])
	require.NoError(t, binary.Write(&header, binary.LittleEndian, fileVersion))
	require.NoError(t, binary.Write(&header, binary.LittleEndian, int32(maxEntryCount)))

	var before, after runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&before)
	got, err := ReadEntries(bytes.NewReader(header.Bytes()))
	runtime.ReadMemStats(&after)

	var truncated *TruncatedFileError
	require.ErrorAs(t, err, &truncated)
	assert.Equal(t, maxEntryCount, truncated.Expected)
	assert.Empty(t, got)
	assert.Less(t, after.TotalAlloc-before.TotalAlloc, uint64(16<<20))
}

func TestDetectFileFormat(t *testing.T) {
	dir := t.TempDir()

	bin := filepath.Join(dir, "words.bin")
	var buf bytes.Buffer
	require.NoError(t, WriteEntries(&buf, sampleEntries()))
	require.NoError(t, os.WriteFile(bin, buf.Bytes(), 0o644))

	txt := filepath.Join(dir, "words.txt")
	require.NoError(t, os.WriteFile(txt, []byte(" word=a,f=1\n"), 0o644))

	junk := filepath.Join(dir, "junk.bin")
	require.NoError(t, os.WriteFile(junk, []byte("not a dictionary"), 0o644))

	format, err := DetectFileFormat(bin)
	require.NoError(t, err)
	assert.Equal(t, FormatBinary, format)

	format, err = DetectFileFormat(txt)
	require.NoError(t, err)
	assert.Equal(t, FormatCombined, format)

	_, err = DetectFileFormat(junk)
	assert.Error(t, err)

	_, err = DetectFileFormat(filepath.Join(dir, "missing.bin"))
	assert.Error(t, err)
}
