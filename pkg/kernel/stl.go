package kernel

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// WriteSTL writes meshes as one binary STL solid. The 80-byte header
// carries name.
func WriteSTL(w io.Writer, name string, meshes []*Mesh) error {
	total := 0
	for _, m := range meshes {
		total += m.TriangleCount()
	}
	if total > math.MaxUint32 {
		return fmt.Errorf("stl: %d triangles exceeds format limit", total)
	}

	bw := bufio.NewWriter(w)
	var header [80]byte
	copy(header[:], name)
	if _, err := bw.Write(header[:]); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, uint32(total)); err != nil {
		return err
	}

	// normal, three vertices, attribute byte count
	var rec [12]float32
	for _, m := range meshes {
		for i := 0; i < m.TriangleCount(); i++ {
			a, b, c := m.Triangle(i)
			n := m.Normal(a)
			copy(rec[0:3], n[:])
			for j, vi := range [3]uint32{a, b, c} {
				v := m.Vertex(vi)
				copy(rec[3+3*j:6+3*j], v[:])
			}
			if err := binary.Write(bw, binary.LittleEndian, rec); err != nil {
				return err
			}
			if err := binary.Write(bw, binary.LittleEndian, uint16(0)); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}
