// Package oracle defines the boundary to the external vision service that
// turns a scanned page into a structured text description.
package oracle

import "context"

// RecognizeRequest carries one scanned page to the oracle.
type RecognizeRequest struct {
	ImageBytes []byte
	MIMEType   string
	SourceName string
}

// Recognizer is the interface the pipeline depends on. Implementations own
// their credentials and transport; the engine holds no key state and applies
// no retry policy of its own.
type Recognizer interface {
	Recognize(ctx context.Context, req RecognizeRequest) (string, error)
}
