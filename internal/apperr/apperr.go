package apperr

import "errors"

var (
  // ErrNotFound covers missing lectures, sections, suggestions and
  // teacher-ownership mismatches.
  ErrNotFound = errors.New("not found")
  // ErrInvalidArgument covers bad reaction types, missing creation
  // fields and empty publish batches.
  ErrInvalidArgument = errors.New("invalid argument")
  // ErrExternalService marks AI proposer failures. Callers recover by
  // returning empty results; this never reaches the HTTP layer.
  ErrExternalService = errors.New("external service failure")
)
