// Package scene defines the inputs of a classification pass: elements
// with a category and a geometry descriptor, and labeled zones. Scene
// values are read-only once constructed; a pass never mutates them.
package scene
