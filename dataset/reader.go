package dataset

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/katalvlaran/epsjoin/geom"
	"github.com/katalvlaran/epsjoin/object"
)

// headerSize is the fixed trailing header length in bytes.
const headerSize = 16 + 2*geom.Dims*8

var (
	// ErrBadHeader indicates a missing or inconsistent trailing header.
	ErrBadHeader = errors.New("dataset: bad header")

	// ErrTruncated indicates a body shorter than the header promises.
	ErrTruncated = errors.New("dataset: truncated record stream")
)

// Reader streams the records of one dataset file.
// Not safe for concurrent use.
type Reader struct {
	f        *os.File
	br       *bufio.Reader
	name     string
	kind     object.Kind
	count    uint64
	recSize  int
	universe geom.Box
	read     uint64
	buf      []byte
}

// Open opens a dataset file, parses and validates the trailing header
// and positions the stream at the first record.
func Open(name string) (*Reader, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("dataset: open %s: %w", name, err)
	}
	r := &Reader{f: f, name: name}
	if err := r.loadHeader(); err != nil {
		f.Close()
		return nil, err
	}
	return r, nil
}

func (r *Reader) loadHeader() error {
	fi, err := r.f.Stat()
	if err != nil {
		return fmt.Errorf("dataset: stat %s: %w", r.name, err)
	}
	if fi.Size() < headerSize {
		return fmt.Errorf("%w: %s is %d bytes, smaller than the header", ErrBadHeader, r.name, fi.Size())
	}
	hdr := make([]byte, headerSize)
	if _, err := r.f.ReadAt(hdr, fi.Size()-headerSize); err != nil {
		return fmt.Errorf("dataset: read header of %s: %w", r.name, err)
	}

	r.kind = object.Kind(binary.LittleEndian.Uint32(hdr[0:]))
	r.count = binary.LittleEndian.Uint64(hdr[4:])
	r.recSize = int(binary.LittleEndian.Uint32(hdr[12:]))
	off := 16
	for i := 0; i < geom.Dims; i++ {
		r.universe.Lo[i] = math.Float64frombits(binary.LittleEndian.Uint64(hdr[off:]))
		off += 8
	}
	for i := 0; i < geom.Dims; i++ {
		r.universe.Hi[i] = math.Float64frombits(binary.LittleEndian.Uint64(hdr[off:]))
		off += 8
	}
	r.universe.Empty = r.count == 0

	if !r.kind.Valid() {
		return fmt.Errorf("%w: %s carries unknown kind tag %d", ErrBadHeader, r.name, uint32(r.kind))
	}
	want, err := object.SizeOf(r.kind)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrBadHeader, r.name, err)
	}
	if r.recSize != want {
		return fmt.Errorf("%w: %s declares %d-byte %s records, want %d",
			ErrBadHeader, r.name, r.recSize, object.TitleOf(r.kind), want)
	}
	body := fi.Size() - headerSize
	if need := int64(r.count) * int64(r.recSize); body < need {
		return fmt.Errorf("%w: %s body holds %d bytes, header promises %d", ErrTruncated, r.name, body, need)
	}

	if _, err := r.f.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("dataset: rewind %s: %w", r.name, err)
	}
	r.br = bufio.NewReaderSize(r.f, 1<<16)
	r.buf = make([]byte, r.recSize)
	return nil
}

// Kind returns the object kind of the dataset.
func (r *Reader) Kind() object.Kind { return r.kind }

// Count returns the record count declared by the header.
func (r *Reader) Count() uint64 { return r.count }

// Universe returns the dataset bounds declared by the header.
func (r *Reader) Universe() geom.Box { return r.universe }

// HasNext reports whether another record is available.
func (r *Reader) HasNext() bool { return r.read < r.count }

// Next decodes and returns the next record.
// Complexity: O(recordSize).
func (r *Reader) Next() (object.Object, error) {
	if !r.HasNext() {
		return nil, io.EOF
	}
	if _, err := io.ReadFull(r.br, r.buf); err != nil {
		return nil, fmt.Errorf("%w: %s record %d: %v", ErrTruncated, r.name, r.read, err)
	}
	obj, err := object.New(r.kind)
	if err != nil {
		return nil, err
	}
	if err := obj.UnmarshalBinary(r.buf); err != nil {
		return nil, fmt.Errorf("dataset: %s record %d: %w", r.name, r.read, err)
	}
	r.read++
	return obj, nil
}

// Close releases the underlying file.
func (r *Reader) Close() error { return r.f.Close() }
