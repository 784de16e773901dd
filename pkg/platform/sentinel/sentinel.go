package sentinel

import "errors"

// Sentinel errors for infrastructure facts. The catalog returns
// these (optionally wrapped) so services can translate them into domain errors.
//
// For malformed template documents, use component.ParseError or
// pkg/domain-errors directly.
var ErrNotFound = errors.New("not found")
