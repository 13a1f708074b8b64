// Package geom provides the spatial value types shared by the rest of
// Galley: axis-aligned bounding boxes and decomposed transforms.
package geom
