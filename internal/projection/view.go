package projection

import "alizia-planner/internal/domain"

type ClassView struct {
	Number     int      `json:"class_number"`
	Title      string   `json:"title"`
	Categories []string `json:"categories"`
}

type SubjectView struct {
	ID      int64       `json:"id"`
	Name    string      `json:"name"`
	Color   string      `json:"color"`
	Classes []ClassView `json:"classes"`
}

// DocumentView is everything the coordination document page renders.
type DocumentView struct {
	Name       string        `json:"name"`
	Status     domain.Status `json:"status"`
	StartDate  string        `json:"start_date"`
	EndDate    string        `json:"end_date"`
	Strategies string        `json:"methodological_strategies"`
	Subjects   []SubjectView `json:"subjects"`
	Unassigned []CategoryRef `json:"unassigned_categories"`
	Weeks      []Week        `json:"weeks"`
	HasContent bool          `json:"has_content"`
}

// LessonPlanView is everything the lesson plan page renders.
type LessonPlanView struct {
	Name       string        `json:"name"`
	Status     domain.Status `json:"status"`
	Categories []string      `json:"categories"`
	Moments    []MomentView  `json:"moments"`
	HasContent bool          `json:"has_content"`
}

func BuildDocumentView(doc *domain.Document) *DocumentView {
	if doc == nil {
		return nil
	}
	names := CategoryMap(doc)
	colors := SubjectColors(doc)
	view := &DocumentView{
		Name:       doc.Name,
		Status:     doc.Status,
		StartDate:  FormatDate(doc.StartDate),
		EndDate:    FormatDate(doc.EndDate),
		Strategies: doc.Content.MethodologicalStrategies,
		Subjects:   make([]SubjectView, 0, len(doc.Content.Subjects)),
		Unassigned: UnassignedCategories(doc),
		Weeks:      WeekGrouping(doc),
		HasContent: domain.HasContent(doc),
	}
	for _, s := range doc.Content.Subjects {
		sv := SubjectView{ID: s.ID, Name: s.Name, Color: colors[s.ID], Classes: []ClassView{}}
		for _, c := range doc.Content.ClassPlan(s.ID) {
			title := c.Title
			if title == "" {
				title = "Sin título"
			}
			sv.Classes = append(sv.Classes, ClassView{
				Number:     c.ClassNumber,
				Title:      title,
				Categories: ClassCategoryNames(names, c),
			})
		}
		view.Subjects = append(view.Subjects, sv)
	}
	return view
}

func BuildLessonPlanView(plan *domain.Document, categories, activities map[int64]string) *LessonPlanView {
	if plan == nil {
		return nil
	}
	return &LessonPlanView{
		Name:       plan.Name,
		Status:     plan.Status,
		Categories: LessonPlanCategoryNames(plan, categories),
		Moments:    MomentViews(plan, activities),
		HasContent: domain.HasContent(plan),
	}
}
