package handlers

import (
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/aashari/go-eduverse-backend/internal/errors"
)

// upload is one file part of a multipart request
type upload struct {
	Data        []byte
	Filename    string
	ContentType string
}

// parseMultipart bounds and parses the request body. A non-multipart body is
// not an error here; the required-field checks report what is missing.
func parseMultipart(w http.ResponseWriter, r *http.Request, limit int64) (*errors.APIError, int) {
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	err := r.ParseMultipartForm(32 << 20)
	if err == nil || stderrors.Is(err, http.ErrNotMultipart) {
		return nil, 0
	}

	var maxBytesErr *http.MaxBytesError
	if stderrors.As(err, &maxBytesErr) {
		apiErr := errors.NewValidationError(fmt.Sprintf("Request body exceeds %d bytes", maxBytesErr.Limit))
		apiErr.Code = errors.CodeInvalidInput
		return apiErr, http.StatusRequestEntityTooLarge
	}

	apiErr := errors.NewValidationError("Malformed multipart body: " + err.Error())
	apiErr.Code = errors.CodeInvalidInput
	return apiErr, http.StatusBadRequest
}

// formFile reads the named part; it returns nil when the part is absent or empty
func formFile(r *http.Request, field string) (*upload, error) {
	if r.MultipartForm == nil || len(r.MultipartForm.File[field]) == 0 {
		return nil, nil
	}

	header := r.MultipartForm.File[field][0]
	file, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", field, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", field, err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}

	return &upload{Data: data, Filename: header.Filename, ContentType: contentType}, nil
}

// formValue reads a text field from the parsed multipart form or the URL query
func formValue(r *http.Request, field string) string {
	if r.MultipartForm != nil {
		if values := r.MultipartForm.Value[field]; len(values) > 0 {
			return values[0]
		}
	}
	return r.URL.Query().Get(field)
}

func invalidField(field string) *errors.APIError {
	apiErr := errors.NewValidationError(fmt.Sprintf("Field '%s' is not a valid number", field))
	apiErr.Code = errors.CodeInvalidInput
	return apiErr
}

func optionalInt(r *http.Request, field string) (*int, *errors.APIError) {
	raw := formValue(r, field)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return nil, invalidField(field)
	}
	return &value, nil
}

func optionalFloat(r *http.Request, field string) (*float32, *errors.APIError) {
	raw := formValue(r, field)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseFloat(raw, 32)
	if err != nil {
		return nil, invalidField(field)
	}
	f := float32(value)
	return &f, nil
}
