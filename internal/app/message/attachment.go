package message

import (
	"strings"

	"relaychat/internal/pkg/errs"
)

const (
	// MaxAttachmentsPerMessage caps the attachment list on a single message.
	MaxAttachmentsPerMessage = 5

	// MaxAttachmentSize is the per-file size ceiling in bytes.
	MaxAttachmentSize = 10 << 20 // 10 MB
)

// AttachmentKind classifies an attachment descriptor.
type AttachmentKind string

const (
	AttachmentImage AttachmentKind = "image"
	AttachmentFile  AttachmentKind = "file"
)

// Attachment describes one file attached to a message. The URL points at
// object storage; the server never stores file bodies itself.
type Attachment struct {
	Kind     AttachmentKind `json:"kind"`
	URL      string         `json:"url"`
	Filename string         `json:"filename"`
	Size     int64          `json:"size"`
}

// ValidateAttachments checks the attachment list on an inbound send.
func ValidateAttachments(attachments []Attachment) *errs.CustomError {
	if len(attachments) > MaxAttachmentsPerMessage {
		return errs.New(errs.ErrInvalidAttachment)
	}

	for _, a := range attachments {
		if a.Kind != AttachmentImage && a.Kind != AttachmentFile {
			return errs.New(errs.ErrInvalidAttachment)
		}
		if strings.TrimSpace(a.URL) == "" || strings.TrimSpace(a.Filename) == "" {
			return errs.New(errs.ErrInvalidAttachment)
		}
		if a.Size <= 0 || a.Size > MaxAttachmentSize {
			return errs.New(errs.ErrInvalidAttachment)
		}
	}

	return nil
}
