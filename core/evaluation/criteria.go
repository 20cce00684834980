package evaluation

import (
	"fmt"
	"math"

	"github.com/trezcool/portal/core"
)

// BalancedTotal is the weight total a criteria set must reach.
const BalancedTotal = 100

const (
	MsgCriterionNameRequired = "Informe o nome do critério."
	MsgCriterionNameTaken    = "Este nome já está sendo utilizado."
	MsgCriterionWeight       = "Informe um peso maior que zero."
	MsgTotalWeight           = "A soma dos pesos deve totalizar 100%."
	MsgNoCriteria            = "Adicione pelo menos um critério."
)

const weightEpsilon = 1e-9

// IsBalanced reports whether a weight total is BalancedTotal.
func IsBalanced(total float64) bool {
	return math.Abs(total-BalancedTotal) < weightEpsilon
}

// RoundsToBalanced is the lenient check used while editing: the total rounds to BalancedTotal.
func RoundsToBalanced(total float64) bool {
	return math.Round(total) == BalancedTotal
}

func TotalWeight(criteria []CriterionInput) float64 {
	var total float64
	for _, cr := range criteria {
		total += cr.Weight
	}
	return total
}

// DuplicateNames returns the normalized (trimmed, lower-cased) names used by more than one criterion.
func DuplicateNames(criteria []CriterionInput) map[string]bool {
	counts := make(map[string]int, len(criteria))
	for _, cr := range criteria {
		if name := core.CleanString(cr.Name, true /* lower */); name != "" {
			counts[name]++
		}
	}
	dups := make(map[string]bool)
	for name, n := range counts {
		if n > 1 {
			dups[name] = true
		}
	}
	return dups
}

// CheckCriteria returns every rule a criteria set breaks. Each row sharing a duplicated name is flagged.
// Row errors are keyed "criteria[i].name" / "criteria[i].weight"; set-level ones "criteria".
func CheckCriteria(criteria []CriterionInput) []core.FieldError {
	var flds []core.FieldError
	if len(criteria) == 0 {
		return append(flds, core.FieldError{Field: "criteria", Error: MsgNoCriteria})
	}

	dups := DuplicateNames(criteria)
	for i, cr := range criteria {
		name := core.CleanString(cr.Name, true /* lower */)
		switch {
		case name == "":
			flds = append(flds, core.FieldError{Field: rowField(i, "name"), Error: MsgCriterionNameRequired})
		case dups[name]:
			flds = append(flds, core.FieldError{Field: rowField(i, "name"), Error: MsgCriterionNameTaken})
		}
		if !(cr.Weight > 0) || math.IsInf(cr.Weight, 0) {
			flds = append(flds, core.FieldError{Field: rowField(i, "weight"), Error: MsgCriterionWeight})
		}
	}
	if !RoundsToBalanced(TotalWeight(criteria)) {
		flds = append(flds, core.FieldError{Field: "criteria", Error: MsgTotalWeight})
	}
	return flds
}

func rowField(i int, name string) string {
	return fmt.Sprintf("criteria[%d].%s", i, name)
}
