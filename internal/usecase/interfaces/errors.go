package interfaces

import "errors"

// ErrAlreadyExists is returned by repository Create methods when the store's
// insert-if-absent condition fails. Usecases translate it into their
// entity-specific conflict error.
var ErrAlreadyExists = errors.New("record already exists")
