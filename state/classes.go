package state

import (
	"context"

	"github.com/trezcool/portal/core/classroom"
)

type ClassAPI interface {
	ClassLister
	Create(ctx context.Context, nc classroom.NewClass) (classroom.ClassRoom, error)
	Update(ctx context.Context, id string, uc classroom.UpdateClass) (classroom.ClassRoom, error)
	Delete(ctx context.Context, id string) error
}

// ClassesSummary aggregates the capacity of every class. OccupancyRate is in [0, 1].
type ClassesSummary struct {
	TotalClasses         int
	FilledClasses        int
	ClassesWithVacancies int
	TotalCapacity        int
	TotalEnrolled        int
	OccupancyRate        float64
}

func Summarize(classes []classroom.ClassRoom) ClassesSummary {
	sum := ClassesSummary{TotalClasses: len(classes)}
	for _, c := range classes {
		sum.TotalCapacity += c.Capacity
		sum.TotalEnrolled += c.Enrolled()
		if c.IsFull() {
			sum.FilledClasses++
		} else {
			sum.ClassesWithVacancies++
		}
	}
	if sum.TotalCapacity > 0 {
		sum.OccupancyRate = float64(sum.TotalEnrolled) / float64(sum.TotalCapacity)
	}
	return sum
}

type Classes struct {
	base
	api     ClassAPI
	classes []classroom.ClassRoom
	summary ClassesSummary
}

func NewClasses(api ClassAPI) *Classes {
	return &Classes{
		base: newBase("Erro inesperado ao processar operação com turmas."),
		api:  api,
	}
}

func (c *Classes) Classes() []classroom.ClassRoom {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]classroom.ClassRoom, len(c.classes))
	copy(out, c.classes)
	return out
}

func (c *Classes) Summary() ClassesSummary {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.summary
}

// setClasses must be called under the write lock.
func (c *Classes) setClasses(classes []classroom.ClassRoom) {
	c.classes = classes
	c.summary = Summarize(classes)
}

func (c *Classes) fetch(ctx context.Context) error {
	classes, err := c.api.List(ctx)
	if err != nil {
		return err
	}
	c.update(func() { c.setClasses(classes) })
	return nil
}

func (c *Classes) Load(ctx context.Context) error {
	return c.load(func() error { return c.fetch(ctx) })
}

func (c *Classes) Refresh(ctx context.Context) error {
	return c.refresh(func() error { return c.fetch(ctx) })
}

func (c *Classes) Create(ctx context.Context, nc classroom.NewClass) (classroom.ClassRoom, error) {
	var created classroom.ClassRoom
	err := c.mutate(func() (err error) {
		if created, err = c.api.Create(ctx, nc); err != nil {
			return err
		}
		c.update(func() {
			c.setClasses(append(c.classes, created))
		})
		return nil
	})
	return created, err
}

func (c *Classes) Update(ctx context.Context, id string, uc classroom.UpdateClass) (classroom.ClassRoom, error) {
	var updated classroom.ClassRoom
	err := c.mutate(func() (err error) {
		if updated, err = c.api.Update(ctx, id, uc); err != nil {
			return err
		}
		c.update(func() {
			classes := make([]classroom.ClassRoom, len(c.classes))
			for i, cls := range c.classes {
				if cls.ID == id {
					cls = updated
				}
				classes[i] = cls
			}
			c.setClasses(classes)
		})
		return nil
	})
	return updated, err
}

func (c *Classes) Delete(ctx context.Context, id string) error {
	return c.mutate(func() error {
		if err := c.api.Delete(ctx, id); err != nil {
			return err
		}
		c.update(func() {
			classes := make([]classroom.ClassRoom, 0, len(c.classes))
			for _, cls := range c.classes {
				if cls.ID != id {
					classes = append(classes, cls)
				}
			}
			c.setClasses(classes)
		})
		return nil
	})
}
