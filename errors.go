package ogm2sqlite

import "errors"

// ErrNoIdentifier marks a record whose id field is missing or empty
// after normalization. The identifier keys all three structures, so
// there is nothing such a record could be stored under.
var ErrNoIdentifier = errors.New("ogm2sqlite: record has no identifier")
