package compiler

import (
	"slices"

	"github.com/kamstrup/intmap"

	"github.com/vovakirdan/gravity/internal/core"
)

// Kind is the type of a placed map element.
type Kind uint8

const (
	KindBlock Kind = iota
	KindDecor      // Gray block that does not collide
	KindSpike
	KindObstacle
	KindPlayer
	KindFlag
)

func (k Kind) String() string {
	switch k {
	case KindBlock:
		return "block"
	case KindDecor:
		return "decor"
	case KindSpike:
		return "spike"
	case KindObstacle:
		return "obstacle"
	case KindPlayer:
		return "player"
	case KindFlag:
		return "flag"
	}
	return "unknown"
}

// Collision tags used by merged meshes and dynamic actors.
const (
	TagPlatform = "platform"
	TagSpike    = "spike"
	TagObstacle = "obstacle"
	TagFlag     = "flag"
)

// Euler is a rotation in degrees about each axis.
type Euler struct {
	X, Y, Z float64
}

var (
	spikeRotation = Euler{Z: 45}
	flagRotation  = Euler{Y: 180}
)

// Placement is one element instantiated from a map cell.
type Placement struct {
	Kind     Kind
	Zone     Zone
	Row, Col int
	Pos      core.Vec2
	Rotation Euler
}

// ObstacleSpec describes a moving obstacle.
type ObstacleSpec struct {
	Spawn core.Vec2
	Speed float64 // Signed: negative travels down
}

// PlayerSpec describes the player spawn.
type PlayerSpec struct {
	Spawn       core.Vec2
	GravitySign float64 // +1 pulls up, -1 pulls down
}

// Mesh is a merged static collider: the union of its boxes.
type Mesh struct {
	Tag   string
	Boxes []core.Box
	Cells int // Source cells merged into the boxes
}

// Bounds returns the box covering the whole mesh.
func (m Mesh) Bounds() (core.Box, bool) {
	if len(m.Boxes) == 0 {
		return core.Box{}, false
	}
	b := m.Boxes[0]
	for _, o := range m.Boxes[1:] {
		b = b.Union(o)
	}
	return b, true
}

// VoidSet is a set of integer lanes with no block.
type VoidSet struct {
	m     *intmap.Map[int, struct{}]
	lanes []int
}

func newVoidSet() *VoidSet {
	return &VoidSet{m: intmap.New[int, struct{}](16)}
}

func (v *VoidSet) add(lane int) {
	if v.m.Has(lane) {
		return
	}
	v.m.Put(lane, struct{}{})
	v.lanes = append(v.lanes, lane)
}

// Has reports whether lane is void.
func (v *VoidSet) Has(lane int) bool {
	return v != nil && v.m.Has(lane)
}

// Len returns the number of void lanes.
func (v *VoidSet) Len() int {
	if v == nil {
		return 0
	}
	return v.m.Len()
}

// Lanes returns the void lanes in ascending order.
func (v *VoidSet) Lanes() []int {
	if v == nil {
		return nil
	}
	out := slices.Clone(v.lanes)
	slices.Sort(out)
	return out
}

// Plan is the compiled form of a map. It is immutable once returned.
type Plan struct {
	Level      int
	Width      int
	Placements []Placement

	Blocks    Mesh // Every colliding block, tagged platform
	Spikes    Mesh // Every spike, tagged spike
	Obstacles []ObstacleSpec
	Player    PlayerSpec
	Flag      core.Vec2

	TotalDistance float64
	TopVoids      *VoidSet
	BottomVoids   *VoidSet
}

// IsVoid reports whether lane has a void in either the top or bottom row.
func (p *Plan) IsVoid(lane int) bool {
	return p.TopVoids.Has(lane) || p.BottomVoids.Has(lane)
}

// InZone returns the placements grouped under zone z, in map order.
func (p *Plan) InZone(z Zone) []Placement {
	var out []Placement
	for _, pl := range p.Placements {
		if pl.Zone == z {
			out = append(out, pl)
		}
	}
	return out
}

// Count returns the number of placements of kind k.
func (p *Plan) Count(k Kind) int {
	n := 0
	for _, pl := range p.Placements {
		if pl.Kind == k {
			n++
		}
	}
	return n
}
