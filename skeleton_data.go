package rig

import "fmt"

// SkeletonData is the immutable setup shared by every Skeleton instance:
// bones in topological order, slots in setup draw order, skins and
// animations. Build it once, then treat it as read-only; it may then be
// shared across goroutines.
type SkeletonData struct {
	Name string

	Bones       []*BoneData
	Slots       []*SlotData
	Skins       []*Skin
	DefaultSkin *Skin
	Animations  []*Animation

	boneIndex map[string]int
	slotIndex map[string]int
}

// NewSkeletonData creates an empty SkeletonData.
func NewSkeletonData(name string) *SkeletonData {
	return &SkeletonData{
		Name:      name,
		boneIndex: make(map[string]int),
		slotIndex: make(map[string]int),
	}
}

// AddBone appends a bone. Its parent must already have been added, which
// keeps the bone list topologically sorted. The stored copy is returned with
// Index filled in.
func (d *SkeletonData) AddBone(bone BoneData) (*BoneData, error) {
	if _, ok := d.boneIndex[bone.Name]; ok {
		return nil, fmt.Errorf("add bone %q: %w", bone.Name, ErrDuplicateName)
	}
	if bone.Parent < -1 || bone.Parent >= len(d.Bones) {
		return nil, fmt.Errorf("add bone %q with parent %d: %w", bone.Name, bone.Parent, ErrInvalidParent)
	}
	if len(d.Bones) > 0 && bone.Parent < 0 {
		return nil, fmt.Errorf("add bone %q: second root: %w", bone.Name, ErrInvalidParent)
	}
	if err := bone.validate(); err != nil {
		return nil, fmt.Errorf("add bone: %w", err)
	}
	bone.Index = len(d.Bones)
	b := &bone
	d.Bones = append(d.Bones, b)
	d.boneIndex[b.Name] = b.Index
	return b, nil
}

// AddSlot appends a slot bound to an existing bone.
func (d *SkeletonData) AddSlot(slot SlotData) (*SlotData, error) {
	if _, ok := d.slotIndex[slot.Name]; ok {
		return nil, fmt.Errorf("add slot %q: %w", slot.Name, ErrDuplicateName)
	}
	if slot.Bone < 0 || slot.Bone >= len(d.Bones) {
		return nil, fmt.Errorf("add slot %q on bone %d: %w", slot.Name, slot.Bone, ErrUnknownBone)
	}
	slot.Index = len(d.Slots)
	s := &slot
	d.Slots = append(d.Slots, s)
	d.slotIndex[s.Name] = s.Index
	return s, nil
}

// AddSkin registers a skin. A skin named "default" becomes DefaultSkin.
func (d *SkeletonData) AddSkin(skin *Skin) error {
	if d.FindSkin(skin.Name) != nil {
		return fmt.Errorf("add skin %q: %w", skin.Name, ErrDuplicateName)
	}
	for key := range skin.attachments {
		if key.slot < 0 || key.slot >= len(d.Slots) {
			return fmt.Errorf("add skin %q: attachment %q on slot %d: %w", skin.Name, key.name, key.slot, ErrUnknownSlot)
		}
	}
	d.Skins = append(d.Skins, skin)
	if skin.Name == "default" {
		d.DefaultSkin = skin
	}
	return nil
}

// AddAnimation registers an animation after checking that every timeline
// targets an existing bone or slot.
func (d *SkeletonData) AddAnimation(anim *Animation) error {
	if _, err := d.FindAnimation(anim.Name); err == nil {
		return fmt.Errorf("add animation %q: %w", anim.Name, ErrDuplicateName)
	}
	for _, tl := range anim.Timelines {
		if err := d.checkTarget(tl); err != nil {
			return fmt.Errorf("add animation %q: %w", anim.Name, err)
		}
	}
	d.Animations = append(d.Animations, anim)
	return nil
}

func (d *SkeletonData) checkTarget(tl Timeline) error {
	switch t := tl.(type) {
	case *FloatTimeline:
		if t.Bone < 0 || t.Bone >= len(d.Bones) {
			return fmt.Errorf("%s timeline bone %d: %w", t.Property, t.Bone, ErrUnknownBone)
		}
	case *ColorTimeline:
		if t.Slot < 0 || t.Slot >= len(d.Slots) {
			return fmt.Errorf("color timeline slot %d: %w", t.Slot, ErrUnknownSlot)
		}
	case *AttachmentTimeline:
		if t.Slot < 0 || t.Slot >= len(d.Slots) {
			return fmt.Errorf("attachment timeline slot %d: %w", t.Slot, ErrUnknownSlot)
		}
	}
	return nil
}

// FindBone returns the bone named name, or nil.
func (d *SkeletonData) FindBone(name string) *BoneData {
	if i, ok := d.boneIndex[name]; ok {
		return d.Bones[i]
	}
	return nil
}

// FindSlot returns the slot named name, or nil.
func (d *SkeletonData) FindSlot(name string) *SlotData {
	if i, ok := d.slotIndex[name]; ok {
		return d.Slots[i]
	}
	return nil
}

// FindSkin returns the skin named name, or nil.
func (d *SkeletonData) FindSkin(name string) *Skin {
	for _, s := range d.Skins {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// FindAnimation returns the animation named name or ErrUnknownAnimation.
func (d *SkeletonData) FindAnimation(name string) (*Animation, error) {
	for _, a := range d.Animations {
		if a.Name == name {
			return a, nil
		}
	}
	return nil, fmt.Errorf("animation %q: %w", name, ErrUnknownAnimation)
}
