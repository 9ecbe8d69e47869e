package domain

import "io"

// Transformer defines the interface for parsing a raw listing body into Images.
type Transformer interface {
	Transform(reader io.Reader) ([]Image, error)
}
