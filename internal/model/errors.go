package model

import "errors"

// ErrUnknownDomain is returned when a domain name does not match any
// supported domain.
var ErrUnknownDomain = errors.New("unknown domain")
