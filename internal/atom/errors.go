package atom

import (
	"errors"
	"fmt"
)

// ErrWireFormat is returned when a service response cannot be decoded.
var ErrWireFormat = errors.New("malformed wire document")

// ErrMissingImageID is returned when an image upload response carries no
// hatena:syntax identifier.
var ErrMissingImageID = fmt.Errorf("%w: missing image identifier", ErrWireFormat)
