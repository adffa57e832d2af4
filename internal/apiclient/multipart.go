package apiclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"sort"
)

// File is one uploaded file part.
type File struct {
	Field       string
	Name        string
	ContentType string
	Content     io.Reader
}

// Form is a multipart body. When MethodOverride is set the form is POSTed with a
// _method field so the backend routes it as that verb; browsers and the backend's
// form parsing only accept files on POST.
type Form struct {
	Fields         map[string]string
	Files          []File
	MethodOverride string
}

func (f Form) encode() (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	if f.MethodOverride != "" {
		if err := w.WriteField("_method", f.MethodOverride); err != nil {
			return nil, "", err
		}
	}
	keys := make([]string, 0, len(f.Fields))
	for k := range f.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := w.WriteField(k, f.Fields[k]); err != nil {
			return nil, "", err
		}
	}
	for _, file := range f.Files {
		if file.Content == nil {
			continue
		}
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, file.Field, file.Name))
		ct := file.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h.Set("Content-Type", ct)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(part, file.Content); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf, w.FormDataContentType(), nil
}

func (c *Client) doMultipart(ctx context.Context, path string, form Form, out any, envelope ...string) error {
	body, ct, err := form.encode()
	if err != nil {
		return fmt.Errorf("POST %s: encode form: %w", path, err)
	}
	raw, _, err := c.send(ctx, call{method: http.MethodPost, path: path, body: body, contentType: ct})
	if err != nil {
		return err
	}
	if err := decode(raw, out, envelope...); err != nil {
		return fmt.Errorf("POST %s: decode: %w", path, err)
	}
	return nil
}

func boolField(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
