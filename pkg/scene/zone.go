package scene

import "github.com/chazu/zonelabel/pkg/geom"

// Zone is a labeled oriented volume. In the host model this is a scope
// box and its label is the box name.
type Zone struct {
	Label  string
	Volume geom.Volume
}

// NewZone returns a zone whose local box spans min..max under t.
func NewZone(label string, t geom.Transform, min, max geom.Point3) Zone {
	return Zone{Label: label, Volume: geom.NewVolume(t, min, max)}
}

// Scene bundles the inputs of one classification pass. Order is
// significant for both slices: elements are reported in order and the
// first zone in order wins when zones overlap.
type Scene struct {
	Elements []Element
	Zones    []Zone
}
