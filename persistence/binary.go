// Package persistence implements the YAVS binary stream format.
//
// The format is little-endian throughout and identical for every byte sink:
// encoding to a file and encoding to an in-memory buffer produce the same
// bytes, and either output is decodable from the other path.
package persistence

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
)

// maxPrealloc caps speculative allocations driven by untrusted header
// fields. A corrupt record count or metadata length still fails with a
// short read, just without a giant up-front allocation.
const maxPrealloc = 1 << 20

// Writer encodes YAVS header and record fields onto an io.Writer.
type Writer struct {
	w         io.Writer
	byteOrder binary.ByteOrder
	scratch   []byte
}

// NewWriter creates a new Writer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{
		w:         w,
		byteOrder: binary.LittleEndian,
	}
}

// WriteHeader writes the fixed stream header. Magic, version and the
// zero-filled reserved block are supplied by the writer.
func (bw *Writer) WriteHeader(h *Header) error {
	if _, err := bw.w.Write([]byte(Magic)); err != nil {
		return err
	}
	if err := binary.Write(bw.w, bw.byteOrder, uint32(Version)); err != nil {
		return err
	}
	if err := binary.Write(bw.w, bw.byteOrder, h.RecordCount); err != nil {
		return err
	}
	if err := binary.Write(bw.w, bw.byteOrder, h.Dimension); err != nil {
		return err
	}
	var reserved [ReservedSize]byte
	_, err := bw.w.Write(reserved[:])
	return err
}

// WriteID writes the raw 16 identifier bytes.
func (bw *Writer) WriteID(id [IDSize]byte) error {
	_, err := bw.w.Write(id[:])
	return err
}

// WriteFloat32Slice writes vec as a sequence of little-endian IEEE 754
// float32 values.
func (bw *Writer) WriteFloat32Slice(vec []float32) error {
	if len(vec) == 0 {
		return nil
	}
	if cap(bw.scratch) < len(vec)*4 {
		bw.scratch = make([]byte, len(vec)*4)
	}
	buf := bw.scratch[:len(vec)*4]
	for i, v := range vec {
		bw.byteOrder.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	_, err := bw.w.Write(buf)
	return err
}

// WriteBytes writes p with a u32 length prefix.
func (bw *Writer) WriteBytes(p []byte) error {
	if uint64(len(p)) > math.MaxUint32 {
		return fmt.Errorf("byte field too large: %d", len(p))
	}
	if err := binary.Write(bw.w, bw.byteOrder, uint32(len(p))); err != nil {
		return err
	}
	_, err := bw.w.Write(p)
	return err
}

// Reader decodes YAVS header and record fields from an io.Reader.
type Reader struct {
	r         io.Reader
	byteOrder binary.ByteOrder
	scratch   []byte
}

// NewReader creates a new Reader.
func NewReader(r io.Reader) *Reader {
	return &Reader{
		r:         r,
		byteOrder: binary.LittleEndian,
	}
}

// ReadHeader reads and validates the fixed stream header.
// It fails with ErrInvalidMagic or ErrInvalidVersion before consuming any
// record data; the reserved block is skipped, not validated.
func (br *Reader) ReadHeader() (*Header, error) {
	var magic [4]byte
	if _, err := io.ReadFull(br.r, magic[:]); err != nil {
		return nil, err
	}
	if string(magic[:]) != Magic {
		return nil, fmt.Errorf("%w: got %q", ErrInvalidMagic, magic[:])
	}

	var version uint32
	if err := binary.Read(br.r, br.byteOrder, &version); err != nil {
		return nil, err
	}
	if version != Version {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidVersion, version, Version)
	}

	var h Header
	if err := binary.Read(br.r, br.byteOrder, &h.RecordCount); err != nil {
		return nil, err
	}
	if err := binary.Read(br.r, br.byteOrder, &h.Dimension); err != nil {
		return nil, err
	}

	var reserved [ReservedSize]byte
	if _, err := io.ReadFull(br.r, reserved[:]); err != nil {
		return nil, err
	}
	return &h, nil
}

// ReadID reads the raw 16 identifier bytes.
func (br *Reader) ReadID() ([IDSize]byte, error) {
	var id [IDSize]byte
	_, err := io.ReadFull(br.r, id[:])
	return id, err
}

// ReadFloat32Slice reads count little-endian float32 values.
func (br *Reader) ReadFloat32Slice(count int) ([]float32, error) {
	if count == 0 {
		return nil, nil
	}
	if cap(br.scratch) < count*4 {
		br.scratch = make([]byte, count*4)
	}
	buf := br.scratch[:count*4]
	if _, err := io.ReadFull(br.r, buf); err != nil {
		return nil, err
	}
	vec := make([]float32, count)
	for i := range vec {
		vec[i] = math.Float32frombits(br.byteOrder.Uint32(buf[i*4:]))
	}
	return vec, nil
}

// ReadBytes reads a u32 length prefix followed by that many raw bytes.
func (br *Reader) ReadBytes() ([]byte, error) {
	var length uint32
	if err := binary.Read(br.r, br.byteOrder, &length); err != nil {
		return nil, err
	}
	if length == 0 {
		return nil, nil
	}

	// Grow incrementally for large fields so a corrupt length prefix
	// cannot force a multi-GiB allocation before the short read surfaces.
	if length > maxPrealloc {
		p := make([]byte, 0, maxPrealloc)
		remaining := int64(length)
		for remaining > 0 {
			chunk := remaining
			if chunk > maxPrealloc {
				chunk = maxPrealloc
			}
			off := len(p)
			p = append(p, make([]byte, chunk)...)
			if _, err := io.ReadFull(br.r, p[off:]); err != nil {
				return nil, err
			}
			remaining -= chunk
		}
		return p, nil
	}

	p := make([]byte, length)
	if _, err := io.ReadFull(br.r, p); err != nil {
		return nil, err
	}
	return p, nil
}

// SaveToFile writes a stream to filename atomically: the data goes to a
// temp file in the same directory which is renamed over the target on
// success, so readers never observe a truncated file.
func SaveToFile(filename string, writeFunc func(io.Writer) error) error {
	dir := filepath.Dir(filename)
	base := filepath.Base(filename)

	tmp, err := os.CreateTemp(dir, base+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	_ = tmp.Chmod(0644)

	buf := bufio.NewWriterSize(tmp, 64*1024)
	if err := writeFunc(buf); err != nil {
		return err
	}
	if err := buf.Flush(); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Rename(tmpName, filename); err != nil {
		return err
	}

	// Best-effort: fsync the directory so the rename is durable on POSIX.
	if d, err := os.Open(dir); err == nil {
		_ = d.Sync()
		_ = d.Close()
	}

	tmpName = ""
	return nil
}

// LoadFromFile opens filename and hands a buffered reader to readFunc.
func LoadFromFile(filename string, readFunc func(io.Reader) error) error {
	f, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	buf := bufio.NewReaderSize(f, 64*1024)
	return readFunc(buf)
}
