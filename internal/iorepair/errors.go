package iorepair

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gnames/cfgrepair/pkg/errcode"
	"github.com/gnames/gn"
)

// ErrInvalidJSON is the cause of ParseDocumentError.
var ErrInvalidJSON = errors.New("invalid JSON")

// ParseDocumentError is returned when a document is not valid JSON.
func ParseDocumentError(data []byte) error {
	msg := "Document is not valid JSON: %s"
	cause := syntaxCause(data)
	vars := []any{cause.Error()}
	return &gn.Error{
		Code: errcode.ParseDocumentError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("cannot parse document: %w", cause),
	}
}

// syntaxCause describes where the document breaks. gjson only tells
// that it does.
func syntaxCause(data []byte) error {
	var raw json.RawMessage
	err := json.Unmarshal(data, &raw)
	var synErr *json.SyntaxError
	switch {
	case errors.As(err, &synErr):
		return fmt.Errorf("%w: %s (offset %d)",
			ErrInvalidJSON, synErr.Error(), synErr.Offset)
	case err != nil:
		return fmt.Errorf("%w: %s", ErrInvalidJSON, err.Error())
	default:
		return ErrInvalidJSON
	}
}

// UpdateDocumentError is returned when a default cannot be removed from
// a valid document.
func UpdateDocumentError(path string, err error) error {
	msg := "Cannot remove <em>%s</em> from the document"
	vars := []any{path}
	return &gn.Error{
		Code: errcode.UpdateDocumentError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("cannot delete %s: %w", path, err),
	}
}

// withPath adds the document path to a parse error.
func withPath(path string, err error) error {
	var gnErr *gn.Error
	if !errors.As(err, &gnErr) || gnErr.Code != errcode.ParseDocumentError {
		return err
	}
	return &gn.Error{
		Code: gnErr.Code,
		Msg:  "Cannot parse <em>%s</em>: %s",
		Vars: append([]any{path}, gnErr.Vars...),
		Err:  fmt.Errorf("%s: %w", path, gnErr.Err),
	}
}
