// Package geom is the geometry kernel used for zone classification.
// It provides affine transforms stored in the host CAD model's
// origin-plus-basis form, oriented volumes with a closed-interval
// containment test, and the curve types elements are located by.
// Vectors, matrices and boxes come from github.com/deadsy/sdfx.
package geom
