package dataset

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/katalvlaran/epsjoin/geom"
	"github.com/katalvlaran/epsjoin/object"
)

// ErrKindMismatch is returned when a written object's kind differs from
// the kind the writer was created for.
var ErrKindMismatch = errors.New("dataset: object kind mismatch")

// Writer streams records into a dataset file and emits the trailing
// header on Close. The universe is accumulated from the written
// objects' MBRs. Not safe for concurrent use.
type Writer struct {
	f        *os.File
	bw       *bufio.Writer
	name     string
	kind     object.Kind
	recSize  int
	count    uint64
	universe geom.Box
}

// Create opens (truncates) a dataset file for the given object kind.
func Create(name string, kind object.Kind) (*Writer, error) {
	recSize, err := object.SizeOf(kind)
	if err != nil {
		return nil, err
	}
	f, err := os.Create(name)
	if err != nil {
		return nil, fmt.Errorf("dataset: create %s: %w", name, err)
	}
	return &Writer{
		f:        f,
		bw:       bufio.NewWriterSize(f, 1<<16),
		name:     name,
		kind:     kind,
		recSize:  recSize,
		universe: geom.EmptyBox(),
	}, nil
}

// Write appends one record and folds its MBR into the universe.
func (w *Writer) Write(obj object.Object) error {
	if obj.Kind() != w.kind {
		return fmt.Errorf("%w: writing %s into a %s dataset",
			ErrKindMismatch, object.TitleOf(obj.Kind()), object.TitleOf(w.kind))
	}
	data, err := obj.MarshalBinary()
	if err != nil {
		return err
	}
	if _, err := w.bw.Write(data); err != nil {
		return fmt.Errorf("dataset: write %s: %w", w.name, err)
	}
	w.universe = geom.CombineSafe(w.universe, obj.MBR())
	w.count++
	return nil
}

// Count returns the number of records written so far.
func (w *Writer) Count() uint64 { return w.count }

// Close writes the trailing header and closes the file.
func (w *Writer) Close() error {
	hdr := make([]byte, headerSize)
	binary.LittleEndian.PutUint32(hdr[0:], uint32(w.kind))
	binary.LittleEndian.PutUint64(hdr[4:], w.count)
	binary.LittleEndian.PutUint32(hdr[12:], uint32(w.recSize))
	off := 16
	for i := 0; i < geom.Dims; i++ {
		binary.LittleEndian.PutUint64(hdr[off:], math.Float64bits(w.universe.Lo[i]))
		off += 8
	}
	for i := 0; i < geom.Dims; i++ {
		binary.LittleEndian.PutUint64(hdr[off:], math.Float64bits(w.universe.Hi[i]))
		off += 8
	}
	if _, err := w.bw.Write(hdr); err != nil {
		w.f.Close()
		return fmt.Errorf("dataset: write header of %s: %w", w.name, err)
	}
	if err := w.bw.Flush(); err != nil {
		w.f.Close()
		return fmt.Errorf("dataset: flush %s: %w", w.name, err)
	}
	return w.f.Close()
}
