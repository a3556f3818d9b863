package quiz

import "errors"

var (
	// ErrInvalidSource means the input is not a readable CSV or zip package.
	ErrInvalidSource = errors.New("invalid source")
	// ErrNoAssessment means the package holds no QTI assessment document.
	ErrNoAssessment = errors.New("QTI assessment document not found in package")
	// ErrMalformedXML wraps XML parse failures of package documents.
	ErrMalformedXML = errors.New("malformed XML")
)
