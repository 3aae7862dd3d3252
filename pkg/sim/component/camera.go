package component

import "github.com/go-gl/mathgl/mgl32"

// Camera holds the projection parameters the presentation layer needs to render from an
// entity's point of view.
type Camera struct {
	FovY float32 `json:"fov_y"` // Vertical field of view in degrees
	Near float32 `json:"near"`
	Far  float32 `json:"far"`
}

// DefaultCamera returns a 60 degree perspective camera.
func DefaultCamera() Camera {
	return Camera{FovY: 60, Near: 0.1, Far: 1000}
}

// Projection returns the perspective projection matrix for the given viewport aspect ratio.
func (c Camera) Projection(aspect float32) mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FovY), aspect, c.Near, c.Far)
}

// View returns the view matrix of a camera mounted at t, looking along t.Forward.
func (c Camera) View(t Transform) mgl32.Mat4 {
	return mgl32.LookAtV(t.Position, t.Position.Add(t.Forward()), t.Up())
}
