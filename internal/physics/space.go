package physics

import (
	"slices"

	"github.com/solarlune/resolv"

	"github.com/vovakirdan/gravity/internal/core"
)

const (
	// pixelsPerUnit converts world units to resolv's integer cell grid.
	pixelsPerUnit = 16
	tagBody       = "body"
	tagProbe      = "probe"
	skin          = 0.02
)

// ContactListener receives a body's collision events.
type ContactListener interface {
	OnContactBegin(tag string)
	OnContactEnd(tag string)
	OnTriggerEnter(tag string)
}

// Bounds is the world area covered by a space.
type Bounds struct {
	MinX, MaxX float64
	MinY, MaxY float64
}

// Trigger is a dynamic non-solid volume, such as an obstacle or the flag.
type Trigger struct {
	tag     string
	box     core.Box
	obj     *resolv.Object
	space   *Space
	enabled bool
}

// Tag returns the trigger's collision tag.
func (t *Trigger) Tag() string { return t.tag }

// Box returns the trigger volume.
func (t *Trigger) Box() core.Box { return t.box }

// Move centers the trigger on pos.
func (t *Trigger) Move(pos core.Vec2) {
	t.box.Center = pos
	t.space.place(t.obj, t.box)
}

// SetEnabled turns overlap reporting on or off.
func (t *Trigger) SetEnabled(on bool) { t.enabled = on }

// Space holds static colliders, triggers and bodies.
type Space struct {
	space  *resolv.Space
	bounds Bounds
	solid  string

	boxes    map[*resolv.Object]core.Box
	triggers map[*resolv.Object]*Trigger
	order    []*Trigger
	bodies   []*Body
	probe    *resolv.Object
	contacts []string // Non-solid static tags, in insertion order
}

// NewSpace creates an empty space. Static colliders tagged solidTag block
// bodies; other static colliders only report contacts.
func NewSpace(b Bounds, solidTag string) *Space {
	w := int((b.MaxX - b.MinX + 1) * pixelsPerUnit)
	h := int((b.MaxY - b.MinY + 1) * pixelsPerUnit)
	s := &Space{
		space:    resolv.NewSpace(w, h, pixelsPerUnit, pixelsPerUnit),
		bounds:   b,
		solid:    solidTag,
		boxes:    make(map[*resolv.Object]core.Box),
		triggers: make(map[*resolv.Object]*Trigger),
	}
	s.probe = resolv.NewObject(0, 0, 1, 1, tagProbe)
	s.space.Add(s.probe)
	return s
}

// place positions a resolv object over a world box. resolv's y axis grows
// downward, so world y is mirrored against the top of the bounds.
func (s *Space) place(obj *resolv.Object, b core.Box) {
	obj.X = (b.MinX() - s.bounds.MinX) * pixelsPerUnit
	obj.Y = (s.bounds.MaxY - b.MaxY()) * pixelsPerUnit
	obj.W = (b.MaxX() - b.MinX()) * pixelsPerUnit
	obj.H = (b.MaxY() - b.MinY()) * pixelsPerUnit
	obj.Update()
	s.boxes[obj] = b
}

// AddStatic adds fixed colliders sharing one tag.
func (s *Space) AddStatic(tag string, boxes ...core.Box) {
	if tag != s.solid && !slices.Contains(s.contacts, tag) {
		s.contacts = append(s.contacts, tag)
	}
	for _, b := range boxes {
		obj := resolv.NewObject(0, 0, 1, 1, tag)
		s.space.Add(obj)
		s.place(obj, b)
	}
}

// AddTrigger adds a movable trigger volume.
func (s *Space) AddTrigger(tag string, box core.Box) *Trigger {
	obj := resolv.NewObject(0, 0, 1, 1, tag)
	s.space.Add(obj)
	t := &Trigger{tag: tag, box: box, obj: obj, space: s, enabled: true}
	s.place(obj, box)
	s.triggers[obj] = t
	s.order = append(s.order, t)
	return t
}

// NewBody adds a dynamic body reporting to l.
func (s *Space) NewBody(box core.Box, l ContactListener) *Body {
	obj := resolv.NewObject(0, 0, 1, 1, tagBody)
	s.space.Add(obj)
	b := &Body{
		space:    s,
		obj:      obj,
		box:      box,
		listener: l,
		enabled:  true,
		inside:   make(map[*Trigger]bool),
		touching: make(map[string]bool),
	}
	s.place(obj, box)
	s.bodies = append(s.bodies, b)
	return b
}

// Len returns the number of colliders, triggers and bodies in the space.
func (s *Space) Len() int {
	n := len(s.boxes)
	if _, ok := s.boxes[s.probe]; ok {
		n--
	}
	return n
}

// Clear removes everything from the space.
func (s *Space) Clear() {
	for obj := range s.boxes {
		if obj != s.probe {
			s.space.Remove(obj)
			delete(s.boxes, obj)
		}
	}
	clear(s.triggers)
	s.order = nil
	s.bodies = nil
	s.contacts = nil
}

// query returns the colliders with tag whose boxes overlap box.
func (s *Space) query(box core.Box, tag string) []core.Box {
	s.place(s.probe, box)
	coll := s.probe.Check(0, 0, tag)
	if coll == nil {
		return nil
	}
	var out []core.Box
	for _, obj := range coll.Objects {
		if ob, ok := s.boxes[obj]; ok && ob.Overlaps(box) {
			out = append(out, ob)
		}
	}
	return out
}

// overlappingTriggers returns the set of enabled triggers overlapping box.
func (s *Space) overlappingTriggers(box core.Box) map[*Trigger]bool {
	s.place(s.probe, box)
	coll := s.probe.Check(0, 0)
	out := make(map[*Trigger]bool)
	if coll == nil {
		return out
	}
	for _, obj := range coll.Objects {
		if t, ok := s.triggers[obj]; ok && t.enabled && t.box.Overlaps(box) {
			out[t] = true
		}
	}
	return out
}

// Step advances every enabled body by dt seconds and dispatches contact
// events.
func (s *Space) Step(dt float64) {
	if dt <= 0 {
		return
	}
	for _, b := range s.bodies {
		if b.enabled {
			b.step(dt)
		}
	}
}
