// Package kind defines the entity kinds of the asteroid field and the gameplay systems that act
// on them.
package kind

import (
	"github.com/argus-labs/astro/pkg/sim/component"
	"github.com/go-gl/mathgl/mgl32"
)

// Ship is the player's vessel. The scene is viewed through its camera.
type Ship struct {
	Camera  component.Camera       `json:"camera"`
	Physics component.PhysicalBody `json:"physics"`
}

func (Ship) Name() string                     { return "ship" }
func (s *Ship) Body() *component.PhysicalBody { return &s.Physics }
func (s *Ship) Lens() *component.Camera       { return &s.Camera }

// Asteroid is a drifting rock. Size scales its radius and mass.
type Asteroid struct {
	Size    int                    `json:"size"`
	Hull    component.Collider     `json:"hull"`
	Physics component.PhysicalBody `json:"physics"`
}

func (Asteroid) Name() string                     { return "asteroid" }
func (a *Asteroid) Body() *component.PhysicalBody { return &a.Physics }
func (a *Asteroid) Collider() *component.Collider { return &a.Hull }

// Bullet is a short-lived projectile fired by a ship.
type Bullet struct {
	Owner   component.EntityID     `json:"owner"`
	TTL     float32                `json:"ttl"` // Seconds left before the bullet expires
	Hull    component.Collider     `json:"hull"`
	Physics component.PhysicalBody `json:"physics"`
}

func (Bullet) Name() string                     { return "bullet" }
func (b *Bullet) Body() *component.PhysicalBody { return &b.Physics }
func (b *Bullet) Collider() *component.Collider { return &b.Hull }

// Explosion is a visual effect left behind by an impact.
type Explosion struct {
	Age      float32 `json:"age"`
	Duration float32 `json:"duration"`
	Radius   float32 `json:"radius"`
}

func (Explosion) Name() string { return "explosion" }

// Progress returns how far the explosion is through its lifetime, in [0, 1].
func (e Explosion) Progress() float32 {
	if e.Duration <= 0 {
		return 1
	}
	return mgl32.Clamp(e.Age/e.Duration, 0, 1)
}

// HUDElement is a screen-space label. Anchor is in normalized screen coordinates.
type HUDElement struct {
	Label  string     `json:"label"`
	Anchor mgl32.Vec2 `json:"anchor"`
}

func (HUDElement) Name() string { return "hud" }
