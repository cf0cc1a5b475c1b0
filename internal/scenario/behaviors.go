package scenario

import (
	"errors"
	"fmt"
	"math"

	"kinematics-sim/internal/common"
	"kinematics-sim/internal/simulation"
)

// ErrDiverged is returned by a behavior whose state is no longer finite.
var ErrDiverged = errors.New("body state diverged")

// Body is the part of a renderable entity the behaviors drive.
type Body interface {
	GetPosition() common.Vec2
	SetPosition(pos common.Vec2)
	VerticalEdgeBounceFactor(vx float64) float64
	HorizontalEdgeBounceFactor(vy float64) float64
}

func checkFinite(values ...float64) error {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %v", ErrDiverged, values)
		}
	}
	return nil
}

// ConstantVelocity moves the body horizontally at v m/s. The side walls are
// checked after the move and reverse the velocity for the next step.
func ConstantVelocity(b Body, v float64) simulation.UpdateFunc {
	return func(dt float64) error {
		// s(t2) = s(t1) + s'(t1) * (t2 - t1)
		pos := b.GetPosition().Add(common.NewVec2(v, 0).MultiplyByScalar(dt))
		if err := checkFinite(pos.X); err != nil {
			return err
		}
		b.SetPosition(pos)
		v *= b.VerticalEdgeBounceFactor(v)
		return nil
	}
}

// FreeFall accelerates the body vertically from rest, bouncing on the floor.
func FreeFall(b Body, a float64) simulation.UpdateFunc {
	return VerticalThrow(b, a, 0)
}

// VerticalThrow launches the body vertically at vy m/s under acceleration a.
func VerticalThrow(b Body, a, vy float64) simulation.UpdateFunc {
	return AcceleratedBounce(b, 0, a, 0, vy)
}

// ObliqueThrow launches the body horizontally at vx m/s while it falls under
// vertical acceleration ay.
func ObliqueThrow(b Body, ay, vx float64) simulation.UpdateFunc {
	return AcceleratedBounce(b, 0, ay, vx, 0)
}

// AcceleratedBounce moves the body under constant acceleration on both axes,
// reflecting off every wall.
func AcceleratedBounce(b Body, ax, ay, vx, vy float64) simulation.UpdateFunc {
	acc := common.NewVec2(ax, ay)
	vel := common.NewVec2(vx, vy)
	return func(dt float64) error {
		next := vel.Add(acc.MultiplyByScalar(dt))
		next.X *= b.VerticalEdgeBounceFactor(next.X)
		next.Y *= b.HorizontalEdgeBounceFactor(next.Y)

		pos := b.GetPosition().Add(next.MultiplyByScalar(dt))
		if err := checkFinite(next.X, next.Y, pos.X, pos.Y); err != nil {
			return err
		}
		vel = next
		b.SetPosition(pos)
		return nil
	}
}
