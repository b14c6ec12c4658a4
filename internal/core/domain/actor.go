package domain

import "strings"

// Capability is a permission granted to an actor by the identity provider.
type Capability string

const (
	CapCreator   Capability = "CREATOR"
	CapVerifier  Capability = "VERIFIER"
	CapApprover  Capability = "APPROVER"
	CapTreasurer Capability = "TREASURER"
	CapAuditor   Capability = "AUDITOR"
)

// AllCapabilities lists every capability the engine understands.
var AllCapabilities = []Capability{CapCreator, CapVerifier, CapApprover, CapTreasurer, CapAuditor}

// ParseCapability accepts a capability name in any case.
func ParseCapability(s string) (Capability, bool) {
	c := Capability(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range AllCapabilities {
		if c == known {
			return c, true
		}
	}
	return "", false
}

// Actor is the user performing an operation.
type Actor struct {
	ID           string       `json:"id"`
	Capabilities []Capability `json:"capabilities"`
}

// NewActor builds an actor with the given capabilities.
func NewActor(id string, caps ...Capability) Actor {
	return Actor{ID: id, Capabilities: caps}
}

// Has reports whether the actor holds c.
func (a Actor) Has(c Capability) bool {
	for _, have := range a.Capabilities {
		if have == c {
			return true
		}
	}
	return false
}

// HasAny reports whether the actor holds at least one of caps.
func (a Actor) HasAny(caps ...Capability) bool {
	for _, c := range caps {
		if a.Has(c) {
			return true
		}
	}
	return false
}
