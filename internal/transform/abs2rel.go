package transform

import (
	"math"

	"github.com/moisrex/foresight/internal/event"
	"github.com/moisrex/foresight/internal/evcodes"
	"github.com/moisrex/foresight/internal/pipeline"
)

// AxisInfo mirrors the fields of struct input_absinfo that AbsToRel needs
// to convert a tablet's absolute coordinate space into pixel-sized
// relative deltas.
type AxisInfo struct {
	Minimum, Maximum int32
	Resolution       int32
}

// AbsToRel converts ABS_X/ABS_Y events from an absolute pointing device
// (a graphics tablet, a touchscreen) into REL_X/REL_Y deltas, so the rest
// of the pipeline and the uinput sink only ever have to deal with
// relative motion. It also reinterprets the handful of ABS-adjacent
// button codes a tablet reports (pressure, stylus, eraser, touch) as the
// corresponding mouse buttons.
type AbsToRel struct {
	X, Y AxisInfo

	// ConfiguredScale is the denominator of each axis's scaling factor:
	// scaling factor = resolution / ConfiguredScale. Raising it makes the
	// same physical tablet motion produce a smaller relative delta. A
	// zero value (the type's default) is treated as 1, reproducing the
	// device's native resolution.
	ConfiguredScale float64

	// PressureThreshold is the ABS_PRESSURE value above which the stylus
	// is considered to be touching the surface, generating a BTN_LEFT
	// press; below it, a release.
	PressureThreshold int32

	lastX, lastY int32
	haveLastX    bool
	haveLastY    bool
	pressureDown bool
	activeTool   uint16
}

var _ pipeline.Mutator = (*AbsToRel)(nil)

// NewAbsToRel returns an AbsToRel converter for the given axis ranges,
// scaled by configuredScale.
func NewAbsToRel(x, y AxisInfo, configuredScale float64, pressureThreshold int32) *AbsToRel {
	return &AbsToRel{X: x, Y: y, ConfiguredScale: configuredScale, PressureThreshold: pressureThreshold}
}

// Name satisfies [pipeline.Stage].
func (a *AbsToRel) Name() string { return "transform.AbsToRel" }

// Mutate rewrites the current event in place, or reports IgnoreEvent for
// an event that should not reach later stages at all.
func (a *AbsToRel) Mutate(ctx *pipeline.Context) (pipeline.Action, error) {
	ev := &ctx.Event

	switch {
	case ev.Type == evcodes.EV_ABS && (ev.Code == evcodes.ABS_TILT_X || ev.Code == evcodes.ABS_TILT_Y):
		return pipeline.IgnoreEvent, nil

	case ev.Type == evcodes.EV_ABS && ev.Code == evcodes.ABS_X:
		return a.convertAxis(ev, &a.lastX, &a.haveLastX, a.X)
	case ev.Type == evcodes.EV_ABS && ev.Code == evcodes.ABS_Y:
		return a.convertAxis(ev, &a.lastY, &a.haveLastY, a.Y)

	case ev.Type == evcodes.EV_REL && ev.Code == evcodes.REL_X:
		a.lastX += ev.Value
		a.haveLastX = true
		return pipeline.Next, nil
	case ev.Type == evcodes.EV_REL && ev.Code == evcodes.REL_Y:
		a.lastY += ev.Value
		a.haveLastY = true
		return pipeline.Next, nil

	case ev.Type == evcodes.EV_ABS && ev.Code == evcodes.ABS_PRESSURE:
		return a.convertPressure(ev)

	case ev.Type == evcodes.EV_KEY && ev.Code == evcodes.BTN_STYLUS:
		ev.Code = evcodes.BTN_RIGHT
		return pipeline.Next, nil

	case ev.Type == evcodes.EV_KEY && ev.Code == evcodes.BTN_TOOL_RUBBER:
		if ev.Value != 0 {
			a.activeTool = ev.Code
		}
		ev.Code = evcodes.BTN_MIDDLE
		return pipeline.Next, nil

	case ev.Type == evcodes.EV_KEY && isToolKindCode(ev.Code):
		// BTN_TOOL_PEN and its relatives (brush, pencil, airbrush, ...)
		// only set which tool is in contact with the surface; they carry
		// no click semantics of their own and are dropped.
		if ev.Value != 0 {
			a.activeTool = ev.Code
		}
		return pipeline.IgnoreEvent, nil

	case ev.Type == evcodes.EV_KEY && ev.Code == evcodes.BTN_TOUCH:
		return pipeline.IgnoreEvent, nil
	}

	return pipeline.Next, nil
}

// isToolKindCode reports whether code is one of the BTN_TOOL_* keys that
// announce which tool (pen, brush, pencil, airbrush, finger, ...) is
// active, as opposed to BTN_TOOL_RUBBER, which is handled separately
// because it doubles as a middle-click remap.
func isToolKindCode(code uint16) bool {
	switch code {
	case evcodes.BTN_TOOL_PEN,
		evcodes.BTN_TOOL_BRUSH,
		evcodes.BTN_TOOL_PENCIL,
		evcodes.BTN_TOOL_AIRBRUSH,
		evcodes.BTN_TOOL_FINGER,
		evcodes.BTN_TOOL_MOUSE,
		evcodes.BTN_TOOL_LENS,
		evcodes.BTN_TOOL_QUINTTAP,
		evcodes.BTN_TOOL_DOUBLETAP,
		evcodes.BTN_TOOL_TRIPLETAP,
		evcodes.BTN_TOOL_QUADTAP:
		return true
	default:
		return false
	}
}

// convertAxis rewrites an absolute axis sample into the relative delta
// since the last sample on that axis, scaled by axis.Resolution /
// ConfiguredScale so a tablet's native units land in roughly
// screen-pixel-sized steps. The first sample for a freshly (re)grabbed
// device has no previous value to diff against, so it only seeds the
// baseline and is dropped rather than reported as a jump from zero.
func (a *AbsToRel) convertAxis(ev *event.Event, last *int32, have *bool, axis AxisInfo) (pipeline.Action, error) {
	value := ev.Value

	if !*have {
		*last = value
		*have = true
		return pipeline.IgnoreEvent, nil
	}

	rawDelta := value - *last
	*last = value

	if rawDelta == 0 {
		return pipeline.IgnoreEvent, nil
	}

	delta := int32(math.Round(float64(rawDelta) * a.scaleFactor(axis)))
	if delta == 0 {
		return pipeline.IgnoreEvent, nil
	}

	ev.Type = evcodes.EV_REL
	if ev.Code == evcodes.ABS_X {
		ev.Code = evcodes.REL_X
	} else {
		ev.Code = evcodes.REL_Y
	}
	ev.Value = delta

	return pipeline.Next, nil
}

// scaleFactor returns resolution / ConfiguredScale for axis. A
// resolution of 0 (the device didn't report one, or the caller didn't
// set it) is treated as "unscaled" rather than literally zeroing every
// delta.
func (a *AbsToRel) scaleFactor(axis AxisInfo) float64 {
	if axis.Resolution == 0 {
		return 1
	}

	scale := a.ConfiguredScale
	if scale == 0 {
		scale = 1
	}

	return float64(axis.Resolution) / scale
}

// ActiveTool reports the most recently announced BTN_TOOL_* code (pen,
// rubber, brush, ...), or 0 if none has been seen yet.
func (a *AbsToRel) ActiveTool() uint16 {
	return a.activeTool
}

// convertPressure turns a pressure-threshold crossing into a BTN_LEFT
// press or release, and suppresses in-range samples that don't cross the
// threshold so the typist/uinput side never sees raw pressure values.
func (a *AbsToRel) convertPressure(ev *event.Event) (pipeline.Action, error) {
	down := ev.Value >= a.PressureThreshold
	if down == a.pressureDown {
		return pipeline.IgnoreEvent, nil
	}
	a.pressureDown = down

	ev.Type = evcodes.EV_KEY
	ev.Code = evcodes.BTN_LEFT
	if down {
		ev.Value = 1
	} else {
		ev.Value = 0
	}

	return pipeline.Next, nil
}
