package interact

import (
	"github.com/papapumpkin/kouan/internal/board"
	"github.com/papapumpkin/kouan/internal/geom"
)

// Tool is the pointer mode of a controller.
type Tool int

// Pointer modes. Pan moves a whole layer and never selects.
const (
	ToolSelect Tool = iota
	ToolPan
)

// String names the tool for the status bar.
func (t Tool) String() string {
	if t == ToolPan {
		return "pan"
	}
	return "select"
}

// State is the interaction state of one element.
type State int

// Element states.
const (
	StateIdle State = iota
	StateSelected
	StateDragging
	StateResizing
)

var stateNames = [...]string{"idle", "selected", "dragging", "resizing"}

// String returns the lower-case state name.
func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

type gesture int

const (
	gestureNone gesture = iota
	gestureDrag
	gestureResize
	gesturePan
)

// Controller runs the select, drag and resize state machine on top of a
// shared Selection. Drags apply on every move and flush the document when
// released; resizes only mark it dirty.
type Controller struct {
	sel  *Selection
	tool Tool

	gesture gesture
	target  board.Element
	layer   *board.Layer
	handle  geom.Handle
	start   geom.Point
	last    geom.Point
}

// NewController returns a controller in select mode using sel.
func NewController(sel *Selection) *Controller {
	return &Controller{sel: sel}
}

// Selection returns the shared selection.
func (c *Controller) Selection() *Selection { return c.sel }

// Tool returns the current pointer mode.
func (c *Controller) Tool() Tool { return c.tool }

// SetTool switches the pointer mode. Any gesture in flight is finished
// first, and entering pan mode drops the selection.
func (c *Controller) SetTool(t Tool) {
	if t == c.tool {
		return
	}
	c.finish()
	c.tool = t
	if t == ToolPan {
		c.sel.Clear()
	}
}

// State reports the interaction state of el.
func (c *Controller) State(el board.Element) State {
	if el == nil {
		return StateIdle
	}
	if c.target == el {
		switch c.gesture {
		case gestureDrag:
			return StateDragging
		case gestureResize:
			return StateResizing
		}
	}
	if c.sel.Is(el) {
		return StateSelected
	}
	return StateIdle
}

// Busy reports whether a gesture is in flight.
func (c *Controller) Busy() bool { return c.gesture != gestureNone }

// PointerDown handles a press on el at p. In select mode el becomes the sole
// selection and a drag starts; in pan mode the press starts a pan of el's
// layer.
func (c *Controller) PointerDown(el board.Element, p geom.Point) {
	if el == nil {
		return
	}
	c.finish()
	if c.tool == ToolPan {
		c.beginPan(el.Layer(), p)
		return
	}
	c.sel.Select(el)
	c.gesture = gestureDrag
	c.target = el
	c.start, c.last = p, p
}

// PointerDownEmpty handles a press on the bare layer l. In select mode it
// clears the selection; in pan mode it starts a pan of l.
func (c *Controller) PointerDownEmpty(l *board.Layer, p geom.Point) {
	c.finish()
	if c.tool == ToolPan {
		c.beginPan(l, p)
		return
	}
	c.sel.Clear()
}

func (c *Controller) beginPan(l *board.Layer, p geom.Point) {
	if l == nil {
		return
	}
	c.gesture = gesturePan
	c.layer = l
	c.start, c.last = p, p
}

// BeginResize starts a resize of el by grip h with the pointer at p. The
// element is selected and records its current geometry as the origin every
// later move is measured from.
func (c *Controller) BeginResize(el board.Element, h geom.Handle, p geom.Point) {
	if el == nil || c.tool != ToolSelect {
		return
	}
	c.finish()
	c.sel.Select(el)
	el.BeginResize()
	c.gesture = gestureResize
	c.target = el
	c.handle = h
	c.start, c.last = p, p
}

// PointerMove applies the live effect of the gesture in flight.
func (c *Controller) PointerMove(p geom.Point) {
	switch c.gesture {
	case gestureDrag:
		d := p.Sub(c.last)
		r := c.target.Bounds()
		c.target.MoveTo(r.X+d.X, r.Y+d.Y)
	case gesturePan:
		c.layer.Pan(p.Sub(c.last))
	case gestureResize:
		c.target.ResizeBy(c.handle, p.Sub(c.start))
		if l := c.target.Layer(); l != nil {
			l.MarkDirty()
		}
	default:
		return
	}
	c.last = p
}

// PointerUp ends the gesture in flight at p.
func (c *Controller) PointerUp(p geom.Point) {
	if c.gesture == gestureNone {
		return
	}
	c.PointerMove(p)
	c.finish()
}

// EndResize ends a resize without flushing; the owning document stays dirty
// until the next flush.
func (c *Controller) EndResize() {
	if c.gesture == gestureResize {
		c.finish()
	}
}

// finish closes the current gesture. Drags and pans become durable here.
func (c *Controller) finish() {
	switch c.gesture {
	case gestureDrag:
		if l := c.target.Layer(); l != nil {
			l.Flush()
		}
	case gesturePan:
		c.layer.Flush()
	}
	c.gesture = gestureNone
	c.target = nil
	c.layer = nil
}

// Delete removes el if it is the current selection. The owning document is
// flushed either way. It reports whether el was removed.
func (c *Controller) Delete(el board.Element) bool {
	if el == nil {
		return false
	}
	l := el.Layer()
	removed := false
	if c.sel.Is(el) {
		if c.target == el {
			c.gesture = gestureNone
			c.target = nil
		}
		c.sel.Clear()
		if l != nil {
			removed = l.RemoveElement(el)
		}
	}
	if l != nil {
		l.Flush()
	}
	return removed
}

// DeleteSelected removes the current selection, if any.
func (c *Controller) DeleteSelected() bool {
	return c.Delete(c.sel.Current())
}
