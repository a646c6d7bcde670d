package validators

import (
	"encoding/json"
	"mime/multipart"
	"net/http"

	pkgerrors "github.com/kalaasetu/kalaasetu-backend/pkg/errors"
)

const maxMultipartMemory = 8 << 20

// DecodeMultipartBody parses a multipart form carrying a JSON payload part
// plus an optional file part. The JSON part is decoded into dest and run
// through the struct validator; the file part is returned open for the caller
// to consume, or nil when absent.
func DecodeMultipartBody(r *http.Request, jsonField, fileField string, dest any) (multipart.File, *multipart.FileHeader, error) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart body")
	}

	raw := r.FormValue(jsonField)
	if raw == "" {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "request payload is required").
			WithDetails(map[string]string{jsonField: "is required"})
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request payload").
			WithDetails(map[string]any{jsonField: err.Error()})
	}
	if err := validate.Struct(dest); err != nil {
		return nil, nil, formatValidationErrors(err)
	}

	file, header, err := r.FormFile(fileField)
	if err != nil {
		if err == http.ErrMissingFile {
			return nil, nil, nil
		}
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid file upload")
	}
	return file, header, nil
}
