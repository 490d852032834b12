package scheduling

import (
	"sort"

	"github.com/sojournlabs/sojourn/app/models"
)

// TemplateSource is the read slice of the store the resolver needs. The
// engine Repository satisfies it, as does the read-side template repository,
// so API reads resolve through the same code path as enrollment.
type TemplateSource interface {
	TemplatesByRoutine(routineID uint) ([]models.HabitTemplate, error)
	TemplatesAssignedToRoutine(routineID uint) ([]models.HabitTemplate, error)
}

// ResolveTemplates computes the set of habit templates that apply to a
// routine at the given intensity. Templates reach a routine through two
// association paths (the direct routine_id reference and the routine_habits
// junction); both are merged and deduplicated by template id. The lite tier
// keeps only lite-tagged templates, intense keeps everything. Result order
// is stable: order_index, then id.
func ResolveTemplates(src TemplateSource, routineID uint, intensity string) ([]models.HabitTemplate, error) {
	direct, err := src.TemplatesByRoutine(routineID)
	if err != nil {
		return nil, err
	}
	assigned, err := src.TemplatesAssignedToRoutine(routineID)
	if err != nil {
		return nil, err
	}

	seen := make(map[uint]struct{}, len(direct)+len(assigned))
	merged := make([]models.HabitTemplate, 0, len(direct)+len(assigned))
	for _, tpl := range append(direct, assigned...) {
		if _, ok := seen[tpl.ID]; ok {
			continue
		}
		seen[tpl.ID] = struct{}{}
		if intensity == models.INTENSITY_LITE && tpl.Intensity != models.INTENSITY_LITE {
			continue
		}
		merged = append(merged, tpl)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].OrderIndex != merged[j].OrderIndex {
			return merged[i].OrderIndex < merged[j].OrderIndex
		}
		return merged[i].ID < merged[j].ID
	})

	return merged, nil
}
