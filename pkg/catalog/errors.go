package catalog

import (
	"errors"

	"github.com/doingodswork/ertflix-jellyfin/pkg/ertflix"
)

var (
	// ErrSectionNotFound signals that no section matched the requested codename or section ID.
	ErrSectionNotFound = errors.New("section not found")
	// ErrEmptySection signals that the matched section doesn't reference any tiles.
	ErrEmptySection = errors.New("section has no tiles")
)

// Error kinds as returned by ErrorKind
const (
	KindTransport       = "transport"
	KindDecode          = "decode"
	KindSectionNotFound = "sectionNotFound"
	KindEmptySection    = "emptySection"
	KindUnknown         = "unknown"
)

// ErrorKind returns the kind of a pipeline error, for logging.
func ErrorKind(err error) string {
	var transportErr *ertflix.TransportError
	var decodeErr *ertflix.DecodeError
	switch {
	case errors.As(err, &transportErr):
		return KindTransport
	case errors.As(err, &decodeErr):
		return KindDecode
	case errors.Is(err, ErrSectionNotFound):
		return KindSectionNotFound
	case errors.Is(err, ErrEmptySection):
		return KindEmptySection
	default:
		return KindUnknown
	}
}
