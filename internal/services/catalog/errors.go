package catalog

import "errors"

var ErrInvalidProduct = errors.New("invalid product")
