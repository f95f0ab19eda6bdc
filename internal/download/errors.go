package download

import (
	"errors"
	"fmt"
)

// Operations reported in Error
const (
	OpInspect  = "inspect"
	OpDownload = "download"
)

// Error is a failure reported by the extraction or download engine
type Error struct {
	Op  string
	URL string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsDownloadError reports whether err came from the download engine
func IsDownloadError(err error) bool {
	var de *Error
	return errors.As(err, &de)
}
