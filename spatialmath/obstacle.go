package spatialmath

import (
	"github.com/golang/geo/r3"
)

// Circle is a static circular obstacle in the world frame. Only the X and Y
// components of the center are meaningful.
type Circle struct {
	center r3.Vector
	radius float64
}

// NewCircle constructs a circular obstacle from a center point and radius.
func NewCircle(center r3.Vector, radius float64) (*Circle, error) {
	if radius <= 0 {
		return nil, newBadRadiusError(radius)
	}
	return &Circle{center: center, radius: radius}, nil
}

// Center returns the center of the circle.
func (c *Circle) Center() r3.Vector {
	return c.center
}

// Radius returns the radius of the circle.
func (c *Circle) Radius() float64 {
	return c.radius
}

// Contains reports whether the given point lies inside or on the circle.
func (c *Circle) Contains(pt r3.Vector) bool {
	dx := pt.X - c.center.X
	dy := pt.Y - c.center.Y
	return dx*dx+dy*dy <= c.radius*c.radius
}
