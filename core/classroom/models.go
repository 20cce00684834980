package classroom

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/portal/core"
)

const (
	msgNameBlank        = "Nome da turma não pode ser vazio."
	msgInvalidCapacity  = "Capacidade inválida."
	msgCapacityTooSmall = "Capacidade deve ser pelo menos 1."
	msgCapacityTooLow   = "A capacidade não pode ser menor que o número de alunos matriculados."
)

type ClassRoom struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Capacity   int       `json:"capacity"`
	StudentIDs []string  `json:"studentIds"`
	CreatedAt  time.Time `json:"createdAt"` // UTC
	UpdatedAt  time.Time `json:"updatedAt"` // UTC
}

func (c ClassRoom) Enrolled() int {
	return len(c.StudentIDs)
}

func (c ClassRoom) IsFull() bool {
	return c.Enrolled() >= c.Capacity
}

func (c ClassRoom) HasStudent(id string) bool {
	for _, sid := range c.StudentIDs {
		if sid == id {
			return true
		}
	}
	return false
}

// Capacity is a class capacity as sent by clients: a JSON number or a numeric string.
type Capacity struct {
	value float64
	valid bool
	set   bool
}

func NewCapacity(n int) Capacity {
	return Capacity{value: float64(n), valid: true, set: true}
}

func (c *Capacity) UnmarshalJSON(data []byte) error {
	c.set = true
	c.valid = false
	data = bytes.TrimSpace(data)

	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil // reported by Normalize
	}
	switch v := raw.(type) {
	case nil:
		c.value = 0 // null and blank text count as zero
	case float64:
		c.value = v
	case string:
		if strings.TrimSpace(v) == "" {
			c.value = 0
			break
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil
		}
		c.value = f
	default:
		return nil
	}
	c.valid = !math.IsNaN(c.value) && !math.IsInf(c.value, 0)
	return nil
}

func (c Capacity) MarshalJSON() ([]byte, error) {
	if !c.set || !c.valid {
		return []byte("null"), nil
	}
	return json.Marshal(c.value)
}

func (c Capacity) IsSet() bool {
	return c.set
}

// Normalize floors the capacity and checks it is a whole number of at least 1.
func (c Capacity) Normalize() (int, error) {
	if !c.set || !c.valid {
		return 0, core.NewFieldValidationError("capacity", msgInvalidCapacity)
	}
	n := math.Floor(c.value)
	if n < 1 {
		return 0, core.NewFieldValidationError("capacity", msgCapacityTooSmall)
	}
	if n > math.MaxInt32 {
		return 0, core.NewFieldValidationError("capacity", msgInvalidCapacity)
	}
	return int(n), nil
}

type NewClass struct {
	Name     string   `json:"name" validate:"notblank"`
	Capacity Capacity `json:"capacity"`
}

func (nc *NewClass) Validate(validate *validator.Validate) error {
	nc.Name = core.CleanString(nc.Name)
	if err := validate.Struct(nc); err != nil {
		return err
	}
	_, err := nc.Capacity.Normalize()
	return err
}

// UpdateClass is a partial update: a nil Name and an unset Capacity are left unchanged.
// A null capacity is set, and rejected by Validate.
type UpdateClass struct {
	Name     *string  `json:"name,omitempty"`
	Capacity Capacity `json:"capacity"`
}

func (uc *UpdateClass) Validate() error {
	if uc.Name != nil {
		name := core.CleanString(*uc.Name)
		if name == "" {
			return core.NewFieldValidationError("name", msgNameBlank)
		}
		uc.Name = &name
	}
	if uc.Capacity.IsSet() {
		if _, err := uc.Capacity.Normalize(); err != nil {
			return err
		}
	}
	return nil
}

// MarshalJSON only encodes the fields that are part of the update.
func (uc UpdateClass) MarshalJSON() ([]byte, error) {
	m := make(map[string]interface{}, 2)
	if uc.Name != nil {
		m["name"] = *uc.Name
	}
	if uc.Capacity.IsSet() {
		m["capacity"] = uc.Capacity
	}
	return json.Marshal(m)
}

// Changes is what the repository applies on update.
type Changes struct {
	Name      *string
	Capacity  *int
	UpdatedAt time.Time
}
