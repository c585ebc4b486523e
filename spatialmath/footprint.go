package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"

	"go.viam.com/mppi/kinematics"
)

// Footprint approximates the body of a differential-drive base as a
// rectangle with rounded corners. Collision checks test a fixed set of
// boundary points plus the body center against each obstacle, which keeps
// the predicate cheap enough for per-step use inside rollouts.
type Footprint struct {
	halfLength float64
	halfWidth  float64
	corner     float64
	points     []r3.Vector // body-frame sample points
}

// NewFootprint constructs a footprint for a base of the given overall length
// and width. Both dimensions are inflated by marginRate before sampling, so
// a rate of 0.1 checks a body ten percent larger than the physical one.
func NewFootprint(length, width, marginRate float64) (*Footprint, error) {
	if length <= 0 || width <= 0 {
		return nil, newBadFootprintError(length, width)
	}
	if marginRate < 0 {
		return nil, newBadMarginError(marginRate)
	}
	f := &Footprint{
		halfLength: length * (1 + marginRate) / 2,
		halfWidth:  width * (1 + marginRate) / 2,
	}
	f.corner = math.Min(f.halfLength, f.halfWidth) / 2
	f.points = f.samplePoints()
	return f, nil
}

// samplePoints returns the body-frame points checked against obstacles: the
// center, the midpoint of each edge, and one point on each corner arc. The
// center point makes the predicate positive whenever the body origin itself
// is inside an obstacle, however small.
func (f *Footprint) samplePoints() []r3.Vector {
	pts := []r3.Vector{
		{},
		{X: f.halfLength},
		{X: -f.halfLength},
		{Y: f.halfWidth},
		{Y: -f.halfWidth},
	}
	d := f.corner / math.Sqrt2
	cx := f.halfLength - f.corner
	cy := f.halfWidth - f.corner
	for _, sx := range []float64{1, -1} {
		for _, sy := range []float64{1, -1} {
			pts = append(pts, r3.Vector{X: sx * (cx + d), Y: sy * (cy + d)})
		}
	}
	return pts
}

// Collides reports whether any sample point of the footprint, placed at the
// given pose, falls inside any of the obstacles.
func (f *Footprint) Collides(pose kinematics.State, obstacles []*Circle) bool {
	if len(obstacles) == 0 {
		return false
	}
	sin, cos := math.Sincos(pose.Theta)
	for _, pt := range f.points {
		world := r3.Vector{
			X: pose.X + pt.X*cos - pt.Y*sin,
			Y: pose.Y + pt.X*sin + pt.Y*cos,
		}
		for _, obs := range obstacles {
			if obs.Contains(world) {
				return true
			}
		}
	}
	return false
}
