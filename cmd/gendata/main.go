// Command gendata generates uniform random binary datasets for the
// join engine: points, boxes, spheres or segments scattered inside a
// configurable universe box. Handy for benchmarks and fixtures.
package main

import (
	"fmt"
	"math/rand"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/katalvlaran/epsjoin/dataset"
	"github.com/katalvlaran/epsjoin/extsort"
	"github.com/katalvlaran/epsjoin/geom"
	"github.com/katalvlaran/epsjoin/object"
)

func main() {
	app := &cli.App{
		Name:  "gendata",
		Usage: "generate uniform random spatial datasets in the engine's binary format",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Required: true, Usage: "output file path"},
			&cli.StringFlag{Name: "kind", Aliases: []string{"k"}, Value: "point", Usage: "object kind: point, box, sphere, segment"},
			&cli.Uint64Flag{Name: "count", Aliases: []string{"c"}, Value: 1000, Usage: "number of objects"},
			&cli.Float64Flag{Name: "universe", Aliases: []string{"u"}, Value: 10, Usage: "universe edge length, cube from the origin"},
			&cli.Float64Flag{Name: "size", Value: 0.1, Usage: "object extent (box edge, sphere radius; segments span a random offset of up to size/2 per axis with radius size/10)"},
			&cli.Int64Flag{Name: "seed", Value: 1, Usage: "random seed"},
			&cli.BoolFlag{Name: "sorted", Usage: "route objects through the external sorter (x axis) before writing"},
		},
		Action: generate,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func kindOf(name string) (object.Kind, error) {
	switch name {
	case "point":
		return object.KindPoint, nil
	case "box":
		return object.KindBox, nil
	case "sphere":
		return object.KindSphere, nil
	case "segment":
		return object.KindSegment, nil
	default:
		return 0, fmt.Errorf("unsupported kind %q", name)
	}
}

func generate(c *cli.Context) error {
	kind, err := kindOf(c.String("kind"))
	if err != nil {
		return err
	}
	edge := c.Float64("universe")
	world := geom.NewBox(geom.V(0, 0, 0), geom.V(edge, edge, edge))
	rng := rand.New(rand.NewSource(c.Int64("seed")))
	size := c.Float64("size")
	count := c.Uint64("count")

	newObj := func() object.Object { return randomObject(rng, world, kind, size) }

	w, err := dataset.Create(c.String("out"), kind)
	if err != nil {
		return err
	}

	if !c.Bool("sorted") {
		for i := uint64(0); i < count; i++ {
			if err := w.Write(newObj()); err != nil {
				w.Close()
				return err
			}
		}
		if err := w.Close(); err != nil {
			return err
		}
		fmt.Printf("wrote %d %s records to %s\n", count, object.TitleOf(kind), c.String("out"))
		return nil
	}

	// Sorted output: spill through the external sorter keyed on the
	// x coordinate of the object center.
	recSize, err := object.SizeOf(kind)
	if err != nil {
		return err
	}
	sorter := extsort.New[object.Object](objCodec{kind: kind, size: recSize},
		func(a, b object.Object) bool { return a.SortKey(0) < b.SortKey(0) })
	defer sorter.Close()

	for i := uint64(0); i < count; i++ {
		if err := sorter.Push(newObj()); err != nil {
			w.Close()
			return err
		}
	}
	if err := sorter.Sort(); err != nil {
		w.Close()
		return err
	}
	for sorter.HasNext() {
		obj, err := sorter.Next()
		if err != nil {
			w.Close()
			return err
		}
		if err := w.Write(obj); err != nil {
			w.Close()
			return err
		}
	}
	if err := w.Close(); err != nil {
		return err
	}
	fmt.Printf("wrote %d sorted %s records to %s\n", count, object.TitleOf(kind), c.String("out"))
	return nil
}

func randomObject(rng *rand.Rand, world geom.Box, kind object.Kind, size float64) object.Object {
	switch kind {
	case object.KindBox:
		return &object.Box{B: geom.RandomBox(rng, world, size)}
	case object.KindSphere:
		return &object.Sphere{Pos: geom.RandomPoint(rng, world), Radius: size}
	case object.KindSegment:
		begin := geom.RandomPoint(rng, world)
		dir := geom.V(rng.Float64()-0.5, rng.Float64()-0.5, rng.Float64()-0.5)
		return &object.Segment{
			Begin:       begin,
			End:         begin.Add(dir.Scale(size)),
			RadiusBegin: size / 10,
			RadiusEnd:   size / 10,
			NeuronID:    rng.Uint32(),
		}
	default:
		return &object.Point{Pos: geom.RandomPoint(rng, world)}
	}
}

// objCodec serializes spatial objects for the external sorter.
type objCodec struct {
	kind object.Kind
	size int
}

func (c objCodec) Size() int { return c.size }

func (c objCodec) Encode(rec object.Object, buf []byte) error {
	data, err := rec.MarshalBinary()
	if err != nil {
		return err
	}
	copy(buf, data)
	return nil
}

func (c objCodec) Decode(buf []byte) (object.Object, error) {
	obj, err := object.New(c.kind)
	if err != nil {
		return nil, err
	}
	if err := obj.UnmarshalBinary(buf); err != nil {
		return nil, err
	}
	return obj, nil
}
