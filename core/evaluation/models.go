package evaluation

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/portal/core"
)

type Criterion struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
}

// Config holds the grading criteria of a class.
type Config struct {
	ClassID   string      `json:"classId"`
	Criteria  []Criterion `json:"criteria"`
	UpdatedAt time.Time   `json:"updatedAt"` // UTC
}

func (c Config) TotalWeight() float64 {
	var total float64
	for _, cr := range c.Criteria {
		total += cr.Weight
	}
	return total
}

func (c Config) IsBalanced() bool {
	return IsBalanced(c.TotalWeight())
}

// Upcoming is a scheduled evaluation. Its ClassID may reference a deleted class.
type Upcoming struct {
	ID          string    `json:"id"`
	ClassID     string    `json:"classId"`
	Title       string    `json:"title"`
	ScheduledAt time.Time `json:"scheduledAt"` // UTC
}

type CriterionInput struct {
	ID     string  `json:"id,omitempty"`
	Name   string  `json:"name" validate:"notblank"`
	Weight float64 `json:"weight" validate:"gt=0"`
}

type UpdateConfig struct {
	Criteria []CriterionInput `json:"criteria" validate:"min=1,dive"`
}

// Validate checks the shape of every criterion. The weight total is a form-level rule, see CheckCriteria.
func (uc *UpdateConfig) Validate(validate *validator.Validate) error {
	for i := range uc.Criteria {
		uc.Criteria[i].Name = core.CleanString(uc.Criteria[i].Name)
		uc.Criteria[i].ID = core.CleanString(uc.Criteria[i].ID)
	}
	return validate.Struct(uc)
}

type NewUpcoming struct {
	ClassID     string    `json:"classId" validate:"notblank"`
	Title       string    `json:"title" validate:"notblank"`
	ScheduledAt time.Time `json:"scheduledAt" validate:"required"`
}

func (nu *NewUpcoming) Validate(validate *validator.Validate) error {
	nu.ClassID = core.CleanString(nu.ClassID)
	nu.Title = core.CleanString(nu.Title)
	return validate.Struct(nu)
}
