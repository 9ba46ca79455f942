package ioreport

import (
	"fmt"

	"github.com/gnames/cfgrepair/pkg/errcode"
	"github.com/gnames/gn"
)

// EncodeReportError is returned when a report cannot be encoded or
// written out.
func EncodeReportError(format string, err error) error {
	msg := "Cannot write <em>%s</em> report"
	vars := []any{format}
	return &gn.Error{
		Code: errcode.EncodeReportError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("cannot write %s report: %w", format, err),
	}
}

// UnknownFormatError is returned for report formats other than
// text, json and yaml.
func UnknownFormatError(format string) error {
	msg := `Unknown report format <em>%s</em>

<em>Supported formats:</em>
  - text
  - json
  - yaml`
	vars := []any{format}
	return &gn.Error{
		Code: errcode.UnknownReportFormatError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("unknown report format %q", format),
	}
}
