package constants

// DocStatus is the canonical per-document outcome for rows in run_documents.
type DocStatus string

// Stable values (store these exact strings in DB).
const (
	DocStatusSucceeded DocStatus = "SUCCEEDED" // packaged into the archive
	DocStatusFailed    DocStatus = "FAILED"    // terminal failure, archive untouched
)

// ErrorKind classifies a per-document failure by the stage that produced it.
type ErrorKind string

const (
	ErrorKindNone      ErrorKind = ""
	ErrorKindDecode    ErrorKind = "DECODE"
	ErrorKindOracle    ErrorKind = "ORACLE"
	ErrorKindMalformed ErrorKind = "MALFORMED_RESPONSE"
	ErrorKindPackaging ErrorKind = "PACKAGING"
	ErrorKindInternal  ErrorKind = "INTERNAL"
)
