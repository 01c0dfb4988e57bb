// API error definitions.
package api

import "errors"

// ErrMissingOwnerID is returned when owner_id is missing from context.
var ErrMissingOwnerID = errors.New("missing owner_id in context")
