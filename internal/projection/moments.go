package projection

import (
	"alizia-planner/internal/domain"
	"fmt"
)

type MomentView struct {
	Type       domain.MomentType `json:"type"`
	Title      string            `json:"title"`
	Activities []string          `json:"activities"`
	Content    string            `json:"content"`
}

// MomentViews lays out the three class moments of a lesson plan in teaching
// order. Unknown activity ids render as "Act {id}".
func MomentViews(plan *domain.Document, activities map[int64]string) []MomentView {
	out := make([]MomentView, 0, len(domain.MomentSequence))
	for _, t := range domain.MomentSequence {
		view := MomentView{Type: t, Title: t.DisplayName(), Activities: []string{}}
		if plan != nil && plan.Moments != nil {
			m := plan.Moments.Get(t)
			view.Content = m.GeneratedContent
			for _, id := range m.Activities {
				name, ok := activities[id]
				if !ok {
					name = fmt.Sprintf("Act %d", id)
				}
				view.Activities = append(view.Activities, name)
			}
		}
		out = append(out, view)
	}
	return out
}

// LessonPlanCategoryNames resolves the top-level category ids of a plan.
func LessonPlanCategoryNames(plan *domain.Document, categories map[int64]string) []string {
	if plan == nil {
		return []string{}
	}
	return ClassCategoryNames(categories, domain.ClassEntry{CategoryIDs: plan.CategoryIDs})
}
