package atom

import "github.com/liumiaowilson/atom/id"

// ID is the primary identifier type for all Atom entities.
type ID = id.ID

// Prefix identifies the entity type encoded in a TypeID.
type Prefix = id.Prefix
