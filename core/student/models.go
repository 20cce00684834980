package student

import (
	"encoding/json"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/portal/core"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

func (s Status) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

type Student struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	ClassID   *string   `json:"classId"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"createdAt"` // UTC
	UpdatedAt time.Time `json:"updatedAt"` // UTC
}

func (s Student) IsActive() bool {
	return s.Status == StatusActive
}

// InClass reports whether the student is enrolled in class id.
func (s Student) InClass(id string) bool {
	return s.ClassID != nil && *s.ClassID == id
}

type NewStudent struct {
	Name    string  `json:"name" validate:"notblank"`
	Email   string  `json:"email" validate:"notblank"`
	ClassID *string `json:"classId"`
	Status  Status  `json:"status" validate:"studentstatus"`
}

func (ns *NewStudent) Validate(validate *validator.Validate) error {
	ns.clean()
	return validate.Struct(ns)
}

func (ns *NewStudent) clean() {
	ns.Name = core.CleanString(ns.Name)
	ns.Email = core.CleanString(ns.Email)
	if ns.ClassID != nil && core.CleanString(*ns.ClassID) == "" {
		ns.ClassID = nil
	}
}

// UpdateStudent is a partial update: nil fields and an unset ClassID are left unchanged.
// A set, null ClassID detaches the student from their class.
type UpdateStudent struct {
	Name    *string         `json:"name,omitempty"`
	Email   *string         `json:"email,omitempty"`
	ClassID core.NullableID `json:"classId"`
	Status  *Status         `json:"status,omitempty" validate:"omitempty,studentstatus"`
}

func (us *UpdateStudent) Validate(validate *validator.Validate) error {
	if us.Name != nil {
		name := core.CleanString(*us.Name)
		if name == "" {
			return core.NewFieldValidationError("name", msgNameRequired)
		}
		us.Name = &name
	}
	if us.Email != nil {
		email := core.CleanString(*us.Email)
		if email == "" {
			return core.NewFieldValidationError("email", msgEmailRequired)
		}
		us.Email = &email
	}
	if us.ClassID.Valid && core.CleanString(us.ClassID.ID) == "" {
		us.ClassID = core.NullID()
	}
	return validate.Struct(us)
}

// TouchesClass reports whether the update may move the student between classes.
func (us UpdateStudent) TouchesClass() bool {
	return us.ClassID.Set
}

// MarshalJSON only encodes the fields that are part of the update.
func (us UpdateStudent) MarshalJSON() ([]byte, error) {
	m := make(map[string]interface{}, 4)
	if us.Name != nil {
		m["name"] = *us.Name
	}
	if us.Email != nil {
		m["email"] = *us.Email
	}
	if us.ClassID.Set {
		m["classId"] = us.ClassID
	}
	if us.Status != nil {
		m["status"] = *us.Status
	}
	return json.Marshal(m)
}

// Changes is what the repository applies on update.
type Changes struct {
	Name      *string
	Email     *string
	Status    *Status
	ClassID   core.NullableID
	UpdatedAt time.Time
}
