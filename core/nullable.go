package core

import (
	"bytes"
	"encoding/json"
)

// NullableID is an optional, nullable identifier in a partial-update payload.
// Set reports whether the key was present at all; Valid whether it held a non-null value.
type NullableID struct {
	ID    string
	Valid bool
	Set   bool
}

// SomeID returns a set, non-null NullableID.
func SomeID(id string) NullableID {
	return NullableID{ID: id, Valid: true, Set: true}
}

// NullID returns a set, null NullableID.
func NullID() NullableID {
	return NullableID{Set: true}
}

// Ptr returns the identifier as a pointer, nil when null.
func (n NullableID) Ptr() *string {
	if !n.Valid {
		return nil
	}
	id := n.ID
	return &id
}

func (n *NullableID) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(data, []byte("null")) {
		n.ID, n.Valid = "", false
		return nil
	}
	if err := json.Unmarshal(data, &n.ID); err != nil {
		return err
	}
	n.Valid = true
	return nil
}

func (n NullableID) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.ID)
}

// UnmarshalParam makes binders that walk struct fields treat NullableID as a single value.
func (n *NullableID) UnmarshalParam(src string) error {
	*n = SomeID(src)
	return nil
}
