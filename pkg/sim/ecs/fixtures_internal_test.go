package ecs

import (
	"github.com/argus-labs/astro/pkg/sim/component"
	"github.com/go-gl/mathgl/mgl32"
)

// Test kinds. rock carries a body and a collider, drifter only a body and label neither.

type rock struct {
	Size float32                `json:"size"`
	Phys component.PhysicalBody `json:"phys"`
	Hull component.Collider     `json:"hull"`
}

func (rock) Name() string                     { return "rock" }
func (r *rock) Body() *component.PhysicalBody { return &r.Phys }
func (r *rock) Collider() *component.Collider { return &r.Hull }

type drifter struct {
	Phys component.PhysicalBody `json:"phys"`
}

func (drifter) Name() string                     { return "drifter" }
func (d *drifter) Body() *component.PhysicalBody { return &d.Phys }

type label struct {
	Text string `json:"text"`
}

func (label) Name() string { return "label" }

// impostor reuses rock's name under a different type.
type impostor struct{}

func (impostor) Name() string { return "rock" }

func newRock(size float32) rock {
	phys, _ := component.NewPhysicalBody(size, 1, 0)
	hull, _ := component.NewCollider(size)
	return rock{Size: size, Phys: phys, Hull: hull}
}

func newDrifter(mass float32) drifter {
	phys, _ := component.NewPhysicalBody(mass, 1, 0)
	return drifter{Phys: phys}
}

func at(x, y, z float32) component.Transform {
	return component.NewTransform(mgl32.Vec3{x, y, z})
}
