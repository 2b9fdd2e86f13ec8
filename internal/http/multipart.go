package http

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"

	"github.com/harvestline/agriconsole/internal/constants"
	"github.com/harvestline/agriconsole/pkg/console"
)

const defaultFileField = "file"

// MultipartBody is a multipart/form-data upload body.
type MultipartBody struct {
	// Fields are simple key-value form fields.
	Fields map[string]string
	// Files are the file parts.
	Files []console.FileUpload
}

// encode builds the body and returns it with its Content-Type, which carries
// the boundary.
func (m *MultipartBody) encode() (io.Reader, string, error) {
	if m == nil || len(m.Files) == 0 {
		return nil, "", constants.ErrNoFileProvided
	}

	var buf bytes.Buffer

	writer := multipart.NewWriter(&buf)

	for key, value := range m.Fields {
		err := writer.WriteField(key, value)
		if err != nil {
			return nil, "", fmt.Errorf("writing form field %s: %w", key, err)
		}
	}

	for _, file := range m.Files {
		fieldName := file.FieldName
		if fieldName == "" {
			fieldName = defaultFileField
		}

		var (
			part io.Writer
			err  error
		)

		if file.ContentType != "" {
			header := make(textproto.MIMEHeader)
			header.Set("Content-Disposition",
				`form-data; name="`+escapeQuotes(fieldName)+`"; filename="`+escapeQuotes(file.FileName)+`"`)
			header.Set(constants.HeaderContentType, file.ContentType)
			part, err = writer.CreatePart(header)
		} else {
			part, err = writer.CreateFormFile(fieldName, file.FileName)
		}

		if err != nil {
			return nil, "", fmt.Errorf("creating form file %s: %w", file.FileName, err)
		}

		if file.Data != nil {
			_, err = part.Write(file.Data)
		} else if file.Reader != nil {
			_, err = io.Copy(part, file.Reader)
		}

		if err != nil {
			return nil, "", fmt.Errorf("writing form file %s: %w", file.FileName, err)
		}
	}

	err := writer.Close()
	if err != nil {
		return nil, "", fmt.Errorf("closing multipart writer: %w", err)
	}

	return &buf, writer.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
