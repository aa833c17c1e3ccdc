package rig

// SlotData is the setup definition of a slot.
type SlotData struct {
	Index int
	Name  string
	Bone  int

	Color          Color
	AttachmentName string // setup attachment, "" for none
}

// NewSlotData returns a SlotData bound to the bone index with a white tint
// and no setup attachment.
func NewSlotData(name string, bone int) SlotData {
	return SlotData{Name: name, Bone: bone, Color: ColorWhite}
}

// Slot holds the current attachment and tint for one bone, in draw order.
type Slot struct {
	Data  *SlotData
	Color Color

	skeleton   *Skeleton
	attachment *Attachment
}

// Bone returns the bone the slot is attached to.
func (s *Slot) Bone() *Bone {
	return &s.skeleton.bones[s.Data.Bone]
}

// Attachment returns the current attachment, or nil.
func (s *Slot) Attachment() *Attachment {
	return s.attachment
}

// SetAttachment replaces the current attachment. nil hides the slot.
func (s *Slot) SetAttachment(a *Attachment) {
	s.attachment = a
}

// SetToSetupPose restores the setup tint and attachment.
func (s *Slot) SetToSetupPose() {
	s.Color = s.Data.Color
	s.attachment = nil
	if s.Data.AttachmentName != "" {
		s.attachment = s.skeleton.Attachment(s.Data.Index, s.Data.AttachmentName)
	}
}

// setAttachmentName resolves name through the skeleton's skins. "" clears the
// attachment.
func (s *Slot) setAttachmentName(name string) error {
	if name == "" {
		s.attachment = nil
		return nil
	}
	a := s.skeleton.Attachment(s.Data.Index, name)
	if a == nil {
		return unknownAttachment(s.Data.Name, name)
	}
	s.attachment = a
	return nil
}
