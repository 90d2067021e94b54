package object

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/katalvlaran/epsjoin/geom"
)

// coder walks a record buffer in layout order. All fields are
// little-endian; scalars are float64, identifiers uint32.
type coder struct {
	buf []byte
	off int
}

func (c *coder) putF64(v float64) {
	binary.LittleEndian.PutUint64(c.buf[c.off:], math.Float64bits(v))
	c.off += scalarSize
}

func (c *coder) putU32(v uint32) {
	binary.LittleEndian.PutUint32(c.buf[c.off:], v)
	c.off += idSize
}

func (c *coder) putVertex(v geom.Vertex) {
	for i := 0; i < geom.Dims; i++ {
		c.putF64(v[i])
	}
}

func (c *coder) f64() float64 {
	v := math.Float64frombits(binary.LittleEndian.Uint64(c.buf[c.off:]))
	c.off += scalarSize
	return v
}

func (c *coder) u32() uint32 {
	v := binary.LittleEndian.Uint32(c.buf[c.off:])
	c.off += idSize
	return v
}

func (c *coder) vertex() geom.Vertex {
	var v geom.Vertex
	for i := 0; i < geom.Dims; i++ {
		v[i] = c.f64()
	}
	return v
}

// checkSize validates an unmarshal buffer against the fixed record size.
func checkSize(kind Kind, data []byte) error {
	want, err := SizeOf(kind)
	if err != nil {
		return err
	}
	if len(data) != want {
		return fmt.Errorf("object: %s record is %d bytes, want %d", TitleOf(kind), len(data), want)
	}
	return nil
}
