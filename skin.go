package rig

type skinKey struct {
	slot int
	name string
}

// Skin maps (slot index, attachment name) pairs to attachments. Skins are
// built once while assembling SkeletonData and are read-only afterwards.
type Skin struct {
	Name        string
	attachments map[skinKey]*Attachment
}

// NewSkin creates an empty skin.
func NewSkin(name string) *Skin {
	return &Skin{Name: name, attachments: make(map[skinKey]*Attachment)}
}

// SetAttachment registers a under name for the slot index.
func (s *Skin) SetAttachment(slot int, name string, a *Attachment) {
	s.attachments[skinKey{slot, name}] = a
}

// Attachment returns the attachment registered for the slot index and name,
// or nil.
func (s *Skin) Attachment(slot int, name string) *Attachment {
	return s.attachments[skinKey{slot, name}]
}

// Len returns the number of registered attachments.
func (s *Skin) Len() int {
	return len(s.attachments)
}
