package errcode

import (
	"github.com/gnames/gn"
)

const (
	UnknownError gn.ErrorCode = iota

	// File System errors
	CreateDirError
	CopyFileError
	ReadFileError
	WriteFileError

	// Logging errors
	CreateLogFileError

	// Repair errors
	ParseDocumentError
	UpdateDocumentError

	// Report errors
	EncodeReportError
	UnknownReportFormatError
)
