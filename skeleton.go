package rig

import (
	"fmt"
	"math"
	"time"
)

// Skeleton is one posable instance of a SkeletonData. It owns its bones and
// slots in flat slices indexed by bone and slot index; bones are stored
// parents-first so UpdateWorldTransform is a single forward pass.
//
// A Skeleton is not safe for concurrent use. Independent skeletons built
// from the same SkeletonData may be updated on different goroutines.
type Skeleton struct {
	Data *SkeletonData

	bones     []Bone
	slots     []Slot
	drawOrder []*Slot
	skin      *Skin

	// Root placement. ScaleX/ScaleY of -1 flip the whole skeleton.
	X, Y           float64
	ScaleX, ScaleY float64

	Color Color

	debug    bool
	stats    debugStats
	vertsBuf []float64
}

// NewSkeleton creates a skeleton in its setup pose with world transforms
// already computed.
func NewSkeleton(data *SkeletonData) *Skeleton {
	s := &Skeleton{
		Data:   data,
		ScaleX: 1,
		ScaleY: 1,
		Color:  ColorWhite,
	}
	s.bones = make([]Bone, len(data.Bones))
	for i, bd := range data.Bones {
		s.bones[i] = Bone{Data: bd, skeleton: s, parent: bd.Parent}
	}
	s.slots = make([]Slot, len(data.Slots))
	s.drawOrder = make([]*Slot, len(data.Slots))
	for i, sd := range data.Slots {
		s.slots[i] = Slot{Data: sd, skeleton: s}
		s.drawOrder[i] = &s.slots[i]
	}
	s.SetToSetupPose()
	s.UpdateWorldTransform()
	return s
}

// UpdateWorldTransform recomputes every bone's world matrix from its local
// transform in stored order. Calling it twice without touching local values
// yields bit-identical matrices.
func (s *Skeleton) UpdateWorldTransform() {
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}
	for i := range s.bones {
		s.bones[i].UpdateWorld()
	}
	if s.debug {
		s.stats.worldTime = time.Since(t0)
		s.stats.boneCount = len(s.bones)
		for i := range s.bones {
			debugCheckWorld(&s.bones[i])
		}
		s.debugLog()
	}
}

// SetToSetupPose resets bones and slots to the setup pose.
func (s *Skeleton) SetToSetupPose() {
	s.SetBonesToSetupPose()
	s.SetSlotsToSetupPose()
}

// SetBonesToSetupPose resets every bone's local transform.
func (s *Skeleton) SetBonesToSetupPose() {
	for i := range s.bones {
		s.bones[i].SetToSetupPose()
	}
}

// SetSlotsToSetupPose resets slot tints, attachments and draw order.
func (s *Skeleton) SetSlotsToSetupPose() {
	for i := range s.slots {
		s.drawOrder[i] = &s.slots[i]
		s.slots[i].SetToSetupPose()
	}
}

// Bones returns the bones in update order. The slice must not be modified.
func (s *Skeleton) Bones() []Bone {
	return s.bones
}

// Bone returns the bone at index i.
func (s *Skeleton) Bone(i int) *Bone {
	return &s.bones[i]
}

// RootBone returns the first bone, or nil for an empty skeleton.
func (s *Skeleton) RootBone() *Bone {
	if len(s.bones) == 0 {
		return nil
	}
	return &s.bones[0]
}

// FindBone returns the bone named name or ErrUnknownBone.
func (s *Skeleton) FindBone(name string) (*Bone, error) {
	if i, ok := s.Data.boneIndex[name]; ok {
		return &s.bones[i], nil
	}
	return nil, fmt.Errorf("bone %q: %w", name, ErrUnknownBone)
}

// Slot returns the slot at index i.
func (s *Skeleton) Slot(i int) *Slot {
	return &s.slots[i]
}

// FindSlot returns the slot named name or ErrUnknownSlot.
func (s *Skeleton) FindSlot(name string) (*Slot, error) {
	if i, ok := s.Data.slotIndex[name]; ok {
		return &s.slots[i], nil
	}
	return nil, fmt.Errorf("slot %q: %w", name, ErrUnknownSlot)
}

// DrawOrder returns the slots in draw order. The slice must not be modified.
func (s *Skeleton) DrawOrder() []*Slot {
	return s.drawOrder
}

// Skin returns the active skin, or nil when only the default skin is used.
func (s *Skeleton) Skin() *Skin {
	return s.skin
}

// SetSkin activates the named skin. Slots whose current attachment name also
// exists in the new skin switch to the new skin's attachment.
func (s *Skeleton) SetSkin(name string) error {
	skin := s.Data.FindSkin(name)
	if skin == nil {
		return fmt.Errorf("set skin %q: %w", name, ErrUnknownSkin)
	}
	s.skin = skin
	for i := range s.slots {
		slot := &s.slots[i]
		name := slot.Data.AttachmentName
		if slot.attachment != nil {
			name = slot.attachment.Name
		}
		if name == "" {
			continue
		}
		if a := skin.Attachment(i, name); a != nil {
			slot.attachment = a
		}
	}
	return nil
}

// Attachment looks name up for the slot index in the active skin, then in the
// default skin. It returns nil when neither has it.
func (s *Skeleton) Attachment(slot int, name string) *Attachment {
	if s.skin != nil {
		if a := s.skin.Attachment(slot, name); a != nil {
			return a
		}
	}
	if s.Data.DefaultSkin != nil {
		return s.Data.DefaultSkin.Attachment(slot, name)
	}
	return nil
}

// SetAttachment sets the named slot's attachment. An empty attachment name
// hides the slot.
func (s *Skeleton) SetAttachment(slotName, attachmentName string) error {
	slot, err := s.FindSlot(slotName)
	if err != nil {
		return fmt.Errorf("set attachment %q: %w", attachmentName, err)
	}
	return slot.setAttachmentName(attachmentName)
}

// Bounds returns the axis-aligned box around every visible attachment's world
// vertices. ok is false when no slot has an attachment.
func (s *Skeleton) Bounds() (r Rect, ok bool) {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, slot := range s.drawOrder {
		a := slot.attachment
		if a == nil {
			continue
		}
		s.vertsBuf = a.ComputeWorldVertices(slot.Bone(), s.vertsBuf[:0])
		for i := 0; i+1 < len(s.vertsBuf); i += 2 {
			x, y := s.vertsBuf[i], s.vertsBuf[i+1]
			minX = math.Min(minX, x)
			minY = math.Min(minY, y)
			maxX = math.Max(maxX, x)
			maxY = math.Max(maxY, y)
			ok = true
		}
	}
	if !ok {
		return Rect{}, false
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}, true
}

// SetDebugMode enables per-frame timing output and world matrix validation.
func (s *Skeleton) SetDebugMode(on bool) {
	s.debug = on
	if on {
		for i := range s.bones {
			debugCheckTreeDepth(&s.bones[i])
		}
	}
}

func unknownAttachment(slot, name string) error {
	return fmt.Errorf("slot %q attachment %q: %w", slot, name, ErrUnknownAttachment)
}
