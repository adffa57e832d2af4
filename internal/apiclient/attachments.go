package apiclient

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"github.com/silver1953366/gravure-frontend/internal/domain"
)

// AttachmentUpload targets either a saved quote or a temporary id used while the quote
// form is still being filled.
type AttachmentUpload struct {
	QuoteID     int64
	TempQuoteID string
	Name        string
	ContentType string
	Content     io.Reader
}

func (c *Client) UploadAttachment(ctx context.Context, up AttachmentUpload) (domain.Attachment, error) {
	fields := map[string]string{}
	if up.QuoteID > 0 {
		fields["quote_id"] = strconv.FormatInt(up.QuoteID, 10)
	}
	if up.TempQuoteID != "" {
		fields["temp_quote_id"] = up.TempQuoteID
	}
	var out domain.Attachment
	err := c.doMultipart(ctx, "/attachments", Form{
		Fields: fields,
		Files:  []File{{Field: "file", Name: up.Name, ContentType: up.ContentType, Content: up.Content}},
	}, &out, "attachment", "data")
	return out, err
}

func (c *Client) DeleteAttachment(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, idPath("/attachments/%d", id), nil, nil, nil)
}
