package dashboard

import (
	"math"
	"sort"
	"time"

	"github.com/trezcool/portal/core/classroom"
	"github.com/trezcool/portal/core/evaluation"
	"github.com/trezcool/portal/core/student"
)

// UnknownClassName labels evaluations and configs whose class no longer exists.
const UnknownClassName = "Turma desconhecida"

// CapacityAlertThreshold is the occupancy percentage from which a class raises an alert.
const CapacityAlertThreshold = 80

type (
	// Snapshot is a point-in-time copy of every collection of the portal.
	Snapshot struct {
		Classes             []classroom.ClassRoom `json:"classes"`
		Students            []student.Student     `json:"students"`
		EvaluationConfigs   []evaluation.Config   `json:"evaluationConfigs"`
		UpcomingEvaluations []evaluation.Upcoming `json:"upcomingEvaluations"`
	}

	Metrics struct {
		Students       int `json:"students"`
		Classes        int `json:"classes"`
		ActiveStudents int `json:"activeStudents"`
	}

	Evaluation struct {
		ID          string    `json:"id"`
		Title       string    `json:"title"`
		ClassID     string    `json:"classId"`
		ClassName   string    `json:"className"`
		ScheduledAt time.Time `json:"scheduledAt"`
	}

	ClassSummary struct {
		ID               string `json:"id"`
		Name             string `json:"name"`
		Capacity         int    `json:"capacity"`
		TotalStudents    int    `json:"totalStudents"`
		ActiveCount      int    `json:"activeCount"`
		InactiveCount    int    `json:"inactiveCount"`
		OccupancyPercent int    `json:"occupancyPercent"`
	}

	CapacityAlert struct {
		ID               string `json:"id"`
		Name             string `json:"name"`
		OccupancyPercent int    `json:"occupancyPercent"`
		Capacity         int    `json:"capacity"`
		TotalStudents    int    `json:"totalStudents"`
	}

	PendingEvaluation struct {
		ID            string    `json:"id"`
		Name          string    `json:"name"`
		StudentCount  int       `json:"studentCount"`
		LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	}

	ConfigSummary struct {
		ID               string    `json:"id"` // class ID
		ClassName        string    `json:"className"`
		CriteriaCount    int       `json:"criteriaCount"`
		TotalWeight      float64   `json:"totalWeight"`
		IsWeightBalanced bool      `json:"isWeightBalanced"`
		UpdatedAt        time.Time `json:"updatedAt"`
	}

	StudentStatus struct {
		Active            int `json:"active"`
		Inactive          int `json:"inactive"`
		Total             int `json:"total"`
		EngagementPercent int `json:"engagementPercent"`
	}

	Overview struct {
		Metrics            Metrics             `json:"metrics"`
		Evaluations        []Evaluation        `json:"evaluations"`
		NextEvaluation     *Evaluation         `json:"nextEvaluation"`
		ClassSummaries     []ClassSummary      `json:"classSummaries"`
		CapacityAlerts     []CapacityAlert     `json:"capacityAlerts"`
		PendingEvaluations []PendingEvaluation `json:"pendingEvaluations"`
		EvaluationConfigs  []ConfigSummary     `json:"evaluationConfigs"`
		StudentStatus      StudentStatus       `json:"studentStatus"`
	}
)

// Build derives the dashboard from a snapshot. It does not modify the snapshot.
func Build(snap Snapshot) Overview {
	classNames := make(map[string]string, len(snap.Classes))
	for _, c := range snap.Classes {
		classNames[c.ID] = c.Name
	}
	byClass := studentsByClass(snap.Students)

	evaluations := buildEvaluations(snap.UpcomingEvaluations, classNames)
	summaries := buildClassSummaries(snap.Classes, byClass)
	status := buildStudentStatus(snap.Students)

	var next *Evaluation
	if len(evaluations) > 0 {
		first := evaluations[0]
		next = &first
	}

	return Overview{
		Metrics: Metrics{
			Students:       len(snap.Students),
			Classes:        len(snap.Classes),
			ActiveStudents: status.Active,
		},
		Evaluations:        evaluations,
		NextEvaluation:     next,
		ClassSummaries:     summaries,
		CapacityAlerts:     buildCapacityAlerts(summaries),
		PendingEvaluations: buildPendingEvaluations(snap.Classes, byClass, evaluations),
		EvaluationConfigs:  buildConfigSummaries(snap.EvaluationConfigs, classNames),
		StudentStatus:      status,
	}
}

// OccupancyPercent is enrolled/capacity as a whole percentage capped at 100; 0 without capacity.
func OccupancyPercent(enrolled, capacity int) int {
	if capacity <= 0 {
		return 0
	}
	pct := int(math.Round(float64(enrolled) / float64(capacity) * 100))
	if pct > 100 {
		return 100
	}
	return pct
}

func className(names map[string]string, id string) string {
	if name, ok := names[id]; ok {
		return name
	}
	return UnknownClassName
}

func studentsByClass(students []student.Student) map[string][]student.Student {
	byClass := make(map[string][]student.Student)
	for _, s := range students {
		if s.ClassID == nil {
			continue
		}
		byClass[*s.ClassID] = append(byClass[*s.ClassID], s)
	}
	return byClass
}

func buildEvaluations(upcoming []evaluation.Upcoming, names map[string]string) []Evaluation {
	evaluations := make([]Evaluation, 0, len(upcoming))
	for _, u := range upcoming {
		evaluations = append(evaluations, Evaluation{
			ID:          u.ID,
			Title:       u.Title,
			ClassID:     u.ClassID,
			ClassName:   className(names, u.ClassID),
			ScheduledAt: u.ScheduledAt,
		})
	}
	sort.SliceStable(evaluations, func(i, j int) bool {
		return evaluations[i].ScheduledAt.Before(evaluations[j].ScheduledAt)
	})
	return evaluations
}

func buildClassSummaries(classes []classroom.ClassRoom, byClass map[string][]student.Student) []ClassSummary {
	summaries := make([]ClassSummary, 0, len(classes))
	for _, c := range classes {
		students := byClass[c.ID]
		var active int
		for _, s := range students {
			if s.IsActive() {
				active++
			}
		}
		summaries = append(summaries, ClassSummary{
			ID:               c.ID,
			Name:             c.Name,
			Capacity:         c.Capacity,
			TotalStudents:    len(students),
			ActiveCount:      active,
			InactiveCount:    len(students) - active,
			OccupancyPercent: OccupancyPercent(len(students), c.Capacity),
		})
	}
	return summaries
}

func buildCapacityAlerts(summaries []ClassSummary) []CapacityAlert {
	alerts := make([]CapacityAlert, 0)
	for _, s := range summaries {
		if s.Capacity > 0 && s.OccupancyPercent >= CapacityAlertThreshold {
			alerts = append(alerts, CapacityAlert{
				ID:               s.ID,
				Name:             s.Name,
				OccupancyPercent: s.OccupancyPercent,
				Capacity:         s.Capacity,
				TotalStudents:    s.TotalStudents,
			})
		}
	}
	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].OccupancyPercent > alerts[j].OccupancyPercent
	})
	return alerts
}

func buildPendingEvaluations(
	classes []classroom.ClassRoom,
	byClass map[string][]student.Student,
	evaluations []Evaluation,
) []PendingEvaluation {
	scheduled := make(map[string]bool, len(evaluations))
	for _, e := range evaluations {
		scheduled[e.ClassID] = true
	}

	pending := make([]PendingEvaluation, 0)
	for _, c := range classes {
		if scheduled[c.ID] {
			continue
		}
		pending = append(pending, PendingEvaluation{
			ID:            c.ID,
			Name:          c.Name,
			StudentCount:  len(byClass[c.ID]),
			LastUpdatedAt: c.UpdatedAt,
		})
	}
	sort.SliceStable(pending, func(i, j int) bool {
		return pending[i].StudentCount > pending[j].StudentCount
	})
	return pending
}

func buildConfigSummaries(configs []evaluation.Config, names map[string]string) []ConfigSummary {
	summaries := make([]ConfigSummary, 0, len(configs))
	for _, cfg := range configs {
		total := cfg.TotalWeight()
		summaries = append(summaries, ConfigSummary{
			ID:               cfg.ClassID,
			ClassName:        className(names, cfg.ClassID),
			CriteriaCount:    len(cfg.Criteria),
			TotalWeight:      total,
			IsWeightBalanced: evaluation.IsBalanced(total),
			UpdatedAt:        cfg.UpdatedAt,
		})
	}
	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].UpdatedAt.After(summaries[j].UpdatedAt)
	})
	return summaries
}

func buildStudentStatus(students []student.Student) StudentStatus {
	var status StudentStatus
	for _, s := range students {
		if s.IsActive() {
			status.Active++
		} else {
			status.Inactive++
		}
	}
	status.Total = status.Active + status.Inactive
	if status.Total > 0 {
		status.EngagementPercent = int(math.Round(float64(status.Active) / float64(status.Total) * 100))
	}
	return status
}
