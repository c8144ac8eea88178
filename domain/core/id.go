package core

import (
	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	// Use UUID v7 for time-ordered, sortable IDs
	// Falls back to v4 if v7 is not available (for compatibility)
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types
type (
	// InvocationID identifies one analysis request end to end.
	InvocationID ID
	// AgentID names a classifier agent ("vigilante-v2", "sentinel-x").
	AgentID string
	// ModuleID names a forensic module ("metadata", "ela", "geometry").
	ModuleID string
)

// NewInvocationID creates a fresh invocation identifier.
func NewInvocationID() InvocationID { return InvocationID(NewID()) }

// String conversions for domain IDs
func (id InvocationID) String() string { return ID(id).String() }
func (id AgentID) String() string      { return string(id) }
func (id ModuleID) String() string     { return string(id) }
