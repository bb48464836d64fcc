package persistence

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestBinaryFormat_WriteRead(t *testing.T) {
	vectors := [][]float32{
		{1.0, 2.0, 3.0, 4.0},
		{5.0, 6.0, 7.0, 8.0},
	}
	ids := [][IDSize]byte{
		{0x01, 0x02},
		{0xff, 0xee, 0xdd},
	}
	metadata := [][]byte{
		[]byte(`{"title":"first"}`),
		nil,
	}

	var buf bytes.Buffer
	writer := NewWriter(&buf)

	header := &Header{
		RecordCount: uint64(len(vectors)),
		Dimension:   4,
	}

	if err := writer.WriteHeader(header); err != nil {
		t.Fatalf("WriteHeader failed: %v", err)
	}

	for i := range vectors {
		if err := writer.WriteID(ids[i]); err != nil {
			t.Fatalf("WriteID failed: %v", err)
		}
		if err := writer.WriteFloat32Slice(vectors[i]); err != nil {
			t.Fatalf("WriteFloat32Slice failed: %v", err)
		}
		if err := writer.WriteBytes(metadata[i]); err != nil {
			t.Fatalf("WriteBytes failed: %v", err)
		}
	}

	reader := NewReader(&buf)

	readHeader, err := reader.ReadHeader()
	if err != nil {
		t.Fatalf("ReadHeader failed: %v", err)
	}

	if readHeader.RecordCount != header.RecordCount {
		t.Errorf("RecordCount mismatch: got %d, want %d", readHeader.RecordCount, header.RecordCount)
	}

	if readHeader.Dimension != header.Dimension {
		t.Errorf("Dimension mismatch: got %d, want %d", readHeader.Dimension, header.Dimension)
	}

	for i := range vectors {
		id, err := reader.ReadID()
		if err != nil {
			t.Fatalf("ReadID failed: %v", err)
		}
		if id != ids[i] {
			t.Errorf("ID %d mismatch: got %x, want %x", i, id, ids[i])
		}

		vec, err := reader.ReadFloat32Slice(int(header.Dimension))
		if err != nil {
			t.Fatalf("ReadFloat32Slice failed: %v", err)
		}
		for j, v := range vec {
			if v != vectors[i][j] {
				t.Errorf("Vector %d mismatch at index %d: got %f, want %f", i, j, v, vectors[i][j])
			}
		}

		md, err := reader.ReadBytes()
		if err != nil {
			t.Fatalf("ReadBytes failed: %v", err)
		}
		if !bytes.Equal(md, metadata[i]) {
			t.Errorf("Metadata %d mismatch: got %q, want %q", i, md, metadata[i])
		}
	}
}

func TestBinaryFormat_HeaderLayout(t *testing.T) {
	var buf bytes.Buffer
	writer := NewWriter(&buf)

	if err := writer.WriteHeader(&Header{RecordCount: 3, Dimension: 128}); err != nil {
		t.Fatalf("WriteHeader failed: %v", err)
	}

	raw := buf.Bytes()
	if len(raw) != HeaderSize {
		t.Fatalf("Header size mismatch: got %d, want %d", len(raw), HeaderSize)
	}

	if string(raw[:4]) != Magic {
		t.Errorf("Magic mismatch: got %q, want %q", raw[:4], Magic)
	}
	if v := binary.LittleEndian.Uint32(raw[4:8]); v != Version {
		t.Errorf("Version mismatch: got %d, want %d", v, Version)
	}
	if c := binary.LittleEndian.Uint64(raw[8:16]); c != 3 {
		t.Errorf("RecordCount mismatch: got %d, want 3", c)
	}
	if d := binary.LittleEndian.Uint32(raw[16:20]); d != 128 {
		t.Errorf("Dimension mismatch: got %d, want 128", d)
	}
	for i, b := range raw[20:] {
		if b != 0 {
			t.Errorf("Reserved byte %d not zero: got %#x", i, b)
		}
	}
}

func TestReadHeader_InvalidMagic(t *testing.T) {
	data := []byte("NOPE\x01\x00\x00\x00")

	_, err := NewReader(bytes.NewReader(data)).ReadHeader()
	if !errors.Is(err, ErrInvalidMagic) {
		t.Fatalf("expected ErrInvalidMagic, got %v", err)
	}
}

func TestReadHeader_InvalidVersion(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString(Magic)
	_ = binary.Write(&buf, binary.LittleEndian, uint32(Version+1))
	_ = binary.Write(&buf, binary.LittleEndian, uint64(0))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(0))
	buf.Write(make([]byte, ReservedSize))

	_, err := NewReader(&buf).ReadHeader()
	if !errors.Is(err, ErrInvalidVersion) {
		t.Fatalf("expected ErrInvalidVersion, got %v", err)
	}
}

func TestReadHeader_Truncated(t *testing.T) {
	var buf bytes.Buffer
	_ = NewWriter(&buf).WriteHeader(&Header{RecordCount: 1, Dimension: 2})

	full := buf.Bytes()
	for cut := 0; cut < len(full); cut++ {
		_, err := NewReader(bytes.NewReader(full[:cut])).ReadHeader()
		if err == nil {
			t.Fatalf("expected error for header truncated at %d bytes", cut)
		}
	}
}

func TestReadBytes_TruncatedPayload(t *testing.T) {
	var buf bytes.Buffer
	_ = binary.Write(&buf, binary.LittleEndian, uint32(100))
	buf.Write([]byte("short"))

	_, err := NewReader(&buf).ReadBytes()
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("expected ErrUnexpectedEOF, got %v", err)
	}
}

func TestReadBytes_HugeLengthPrefix(t *testing.T) {
	// A corrupt length prefix must surface as a short read, not an
	// out-of-memory allocation.
	var buf bytes.Buffer
	_ = binary.Write(&buf, binary.LittleEndian, uint32(0xFFFFFFFF))
	buf.Write(make([]byte, 1024))

	_, err := NewReader(&buf).ReadBytes()
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("expected ErrUnexpectedEOF, got %v", err)
	}
}

func TestWriteBytes_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := NewWriter(&buf).WriteBytes(nil); err != nil {
		t.Fatalf("WriteBytes failed: %v", err)
	}
	if buf.Len() != 4 {
		t.Fatalf("expected bare length prefix, got %d bytes", buf.Len())
	}

	p, err := NewReader(&buf).ReadBytes()
	if err != nil {
		t.Fatalf("ReadBytes failed: %v", err)
	}
	if len(p) != 0 {
		t.Fatalf("expected empty payload, got %d bytes", len(p))
	}
}

func TestSaveLoadFile(t *testing.T) {
	tmpfile := filepath.Join(t.TempDir(), "records.yavs")

	testVector := []float32{1.1, 2.2, 3.3, 4.4}

	err := SaveToFile(tmpfile, func(w io.Writer) error {
		writer := NewWriter(w)
		if err := writer.WriteHeader(&Header{RecordCount: 1, Dimension: 4}); err != nil {
			return err
		}
		if err := writer.WriteID([IDSize]byte{0xab}); err != nil {
			return err
		}
		return writer.WriteFloat32Slice(testVector)
	})
	if err != nil {
		t.Fatalf("SaveToFile failed: %v", err)
	}

	var loaded []float32
	err = LoadFromFile(tmpfile, func(r io.Reader) error {
		reader := NewReader(r)
		if _, err := reader.ReadHeader(); err != nil {
			return err
		}
		if _, err := reader.ReadID(); err != nil {
			return err
		}
		var err error
		loaded, err = reader.ReadFloat32Slice(4)
		return err
	})
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}

	for i, v := range loaded {
		if v != testVector[i] {
			t.Errorf("Vector mismatch at %d: got %f, want %f", i, v, testVector[i])
		}
	}
}

func TestSaveToFile_WriteErrorLeavesTargetIntact(t *testing.T) {
	tmpfile := filepath.Join(t.TempDir(), "records.yavs")

	err := SaveToFile(tmpfile, func(w io.Writer) error {
		return NewWriter(w).WriteHeader(&Header{RecordCount: 0, Dimension: 2})
	})
	if err != nil {
		t.Fatalf("SaveToFile failed: %v", err)
	}

	original, err := os.ReadFile(tmpfile)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}

	wantErr := errors.New("encode failed")
	err = SaveToFile(tmpfile, func(w io.Writer) error {
		_, _ = w.Write([]byte("partial"))
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected encode error, got %v", err)
	}

	after, err := os.ReadFile(tmpfile)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if !bytes.Equal(original, after) {
		t.Error("failed save overwrote the target file")
	}

	entries, err := os.ReadDir(filepath.Dir(tmpfile))
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("temp file left behind: %d entries in dir", len(entries))
	}
}

func BenchmarkWriteFloat32Slice(b *testing.B) {
	vec := make([]float32, 128)
	for i := range vec {
		vec[i] = float32(i)
	}

	var buf bytes.Buffer
	writer := NewWriter(&buf)

	b.ResetTimer()
	for b.Loop() {
		buf.Reset()
		writer.WriteFloat32Slice(vec)
	}
}

func BenchmarkReadFloat32Slice(b *testing.B) {
	vec := make([]float32, 128)
	for i := range vec {
		vec[i] = float32(i)
	}

	var buf bytes.Buffer
	writer := NewWriter(&buf)
	writer.WriteFloat32Slice(vec)

	data := buf.Bytes()

	b.ResetTimer()
	for b.Loop() {
		reader := NewReader(bytes.NewReader(data))
		reader.ReadFloat32Slice(128)
	}
}
