package services

import (
	"context"
	"errors"
	"strings"

	"github.com/silver1953366/gravure-frontend/internal/apiclient"
	"github.com/silver1953366/gravure-frontend/internal/domain"
	applog "github.com/silver1953366/gravure-frontend/internal/log"
)

// MaxAttachmentSize matches the backend's upload limit (10 MB).
const MaxAttachmentSize = 10 << 20

var ErrAttachmentTooLarge = errors.New("attachment exceeds 10 MB")

var attachmentTypes = []string{"image/", "application/pdf", "application/postscript", "image/svg+xml"}

type AttachmentService struct {
	API *apiclient.Client
}

func NewAttachmentService(api *apiclient.Client) *AttachmentService {
	return &AttachmentService{API: api}
}

// Upload sends one file for a saved quote (QuoteID) or a quote still being written
// (TempQuoteID). size is the declared size of the part.
func (s *AttachmentService) Upload(ctx context.Context, sess *Session, up apiclient.AttachmentUpload, size int64) (domain.Attachment, error) {
	if up.QuoteID <= 0 && up.TempQuoteID == "" {
		return domain.Attachment{}, &FieldError{Field: "file", Message: "Aucun devis associé au fichier."}
	}
	if size > MaxAttachmentSize {
		return domain.Attachment{}, &FieldError{Field: "file", Message: "Le fichier dépasse 10 Mo.", Err: ErrAttachmentTooLarge}
	}
	if !allowedType(up.ContentType) {
		return domain.Attachment{}, &FieldError{Field: "file", Message: "Type de fichier non pris en charge."}
	}
	a, err := s.API.UploadAttachment(sess.Context(ctx), up)
	if err != nil {
		return domain.Attachment{}, err
	}
	applog.FromContext(ctx).Info("attachment.uploaded", "attachment_id", a.ID, "quote_id", up.QuoteID, "size", size)
	return a, nil
}

func (s *AttachmentService) Delete(ctx context.Context, sess *Session, id int64) error {
	return s.API.DeleteAttachment(sess.Context(ctx), id)
}

func allowedType(ct string) bool {
	for _, p := range attachmentTypes {
		if strings.HasPrefix(ct, p) {
			return true
		}
	}
	return false
}
