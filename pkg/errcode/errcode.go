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
	RemoveFileError

	// Logging errors
	CreateLogFileError

	// Invalid request errors
	QueryNoCriteriaError
	QueryUnknownFieldsError
	QueryUnknownAssertionsError
	QueryInvalidReasonError
	QueryNoEmailError
	QueryInvalidEmailError

	// HTTP errors
	HTTPRequestError
	HTTPStatusError
	HTTPDecodeError

	// Vocabulary errors
	VocabFetchError
	VocabCacheError

	// Download job errors
	DownloadNoStatusURLError
	DownloadJobStatusError
	DownloadRecoveryFailedError
	DownloadJobTimeoutError
	DownloadArchiveError
	DownloadCancelledError

	// Archive errors
	ArchiveOpenError
	ArchiveParseError
)
