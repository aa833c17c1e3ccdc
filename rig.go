package rig

import "math"

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default slot tint (no color modification).
var ColorWhite = Color{1, 1, 1, 1}

// lerp returns the component-wise interpolation from c toward to by t.
func (c Color) lerp(to Color, t float64) Color {
	return Color{
		R: c.R + (to.R-c.R)*t,
		G: c.G + (to.G-c.G)*t,
		B: c.B + (to.B-c.B)*t,
		A: c.A + (to.A-c.A)*t,
	}
}

// Vec2 is a 2D vector used for positions and offsets throughout the API.
type Vec2 struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle in skeleton world space.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// MixBlend selects how a sampled timeline value is combined with the value
// currently stored in the target bone or slot field.
type MixBlend uint8

const (
	BlendReplace  MixBlend = iota // field = lerp(current, sampled, alpha)
	BlendSetup                    // field = sampled, alpha ignored
	BlendFirst                    // field = lerp(setup, sampled, alpha); stale values never leak
	BlendAdditive                 // field += (sampled - setup) * alpha
)

// String returns the blend name.
func (b MixBlend) String() string {
	switch b {
	case BlendReplace:
		return "replace"
	case BlendSetup:
		return "setup"
	case BlendFirst:
		return "first"
	case BlendAdditive:
		return "additive"
	default:
		return "unknown"
	}
}

// TransformMode controls which parts of the parent's world transform a bone
// inherits.
type TransformMode uint8

const (
	TransformNormal                 TransformMode = iota // inherit rotation, scale, shear and reflection
	TransformOnlyTranslation                             // inherit position only
	TransformNoRotationOrReflection                      // inherit scale, drop parent rotation
	TransformNoScale                                     // inherit rotation and reflection, drop parent scale
	TransformNoScaleOrReflection                         // inherit rotation, drop parent scale and reflection
)

// AttachmentType tags the variant stored in an Attachment.
type AttachmentType uint8

const (
	AttachmentPoint       AttachmentType = iota // single named point with a rotation
	AttachmentRegion                            // textured quad placed by offset, rotation and size
	AttachmentBoundingBox                       // polygon used for hit testing
)

// TrackState is the playback state of one AnimationState track.
type TrackState uint8

const (
	TrackEmpty       TrackState = iota // nothing playing
	TrackPlaying                       // one entry applied at full mix
	TrackCrossfading                   // current entry mixing in over one or more outgoing entries
)

// TrackEventType identifies a playback notification.
type TrackEventType uint8

const (
	EventStart     TrackEventType = iota // entry became the current entry of its track
	EventInterrupt                       // entry was replaced while still playing
	EventEnd                             // entry will never be applied again
	EventComplete                        // entry reached the end of its animation (each loop for looping entries)
	EventKeyed                           // an EventTimeline key was crossed
)

// String returns the event type name.
func (t TrackEventType) String() string {
	switch t {
	case EventStart:
		return "start"
	case EventInterrupt:
		return "interrupt"
	case EventEnd:
		return "end"
	case EventComplete:
		return "complete"
	case EventKeyed:
		return "event"
	default:
		return "unknown"
	}
}

const (
	degRad = math.Pi / 180
	radDeg = 180 / math.Pi
)

func cosDeg(deg float64) float64 { return math.Cos(deg * degRad) }
func sinDeg(deg float64) float64 { return math.Sin(deg * degRad) }

// wrapDegrees maps an angle difference into (-180, 180].
func wrapDegrees(d float64) float64 {
	return d - math.Ceil(d/360-0.5)*360
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
