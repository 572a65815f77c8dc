package types

import "strings"

// Identity holds the optional git user name and email.
// Empty values mean "leave the existing configuration alone".
type Identity struct {
	Name  string
	Email string
}

// Normalized returns the identity with surrounding whitespace trimmed.
func (i Identity) Normalized() Identity {
	return Identity{
		Name:  strings.TrimSpace(i.Name),
		Email: strings.TrimSpace(i.Email),
	}
}

// IsEmpty reports whether neither field carries a value.
func (i Identity) IsEmpty() bool {
	n := i.Normalized()
	return n.Name == "" && n.Email == ""
}
