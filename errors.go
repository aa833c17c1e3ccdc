package rig

import "errors"

// Sentinel errors. Functions wrap these with fmt.Errorf("...: %w") so callers
// can test with errors.Is.
var (
	// ErrInvalidTransform is returned when a local transform value is NaN or
	// infinite. The value is never stored.
	ErrInvalidTransform = errors.New("rig: invalid transform")

	// ErrSingularMatrix is returned when inverting a matrix whose determinant
	// is approximately zero.
	ErrSingularMatrix = errors.New("rig: singular matrix")

	ErrUnknownAnimation  = errors.New("rig: unknown animation")
	ErrUnknownBone       = errors.New("rig: unknown bone")
	ErrUnknownSlot       = errors.New("rig: unknown slot")
	ErrUnknownSkin       = errors.New("rig: unknown skin")
	ErrUnknownAttachment = errors.New("rig: unknown attachment")

	// ErrKeyframeOrder is returned when keyframe times are not strictly
	// increasing, or a time is negative or not finite.
	ErrKeyframeOrder = errors.New("rig: keyframe times must be strictly increasing")

	// ErrInvalidParent is returned when a bone's parent does not precede it.
	ErrInvalidParent = errors.New("rig: parent bone must precede child")

	ErrDuplicateName = errors.New("rig: duplicate name")
)
