package projection

import (
	"alizia-planner/internal/domain"
	"fmt"
)

type CategoryRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CategoryMap indexes the category names embedded in the document content.
func CategoryMap(doc *domain.Document) map[int64]string {
	out := make(map[int64]string)
	if doc == nil {
		return out
	}
	for _, c := range doc.Content.Categories {
		out[c.ID] = c.Name
	}
	return out
}

// UnassignedCategories lists the document categories that no class of any
// subject covers, in document order. It is a warning for the view only.
func UnassignedCategories(doc *domain.Document) []CategoryRef {
	out := []CategoryRef{}
	if doc == nil {
		return out
	}
	names := CategoryMap(doc)

	assigned := make(map[int64]struct{})
	for _, data := range doc.Content.SubjectsData {
		for _, class := range data.ClassPlan {
			for _, id := range class.CategoryIDs {
				assigned[id] = struct{}{}
			}
		}
	}

	for _, id := range doc.Content.CategoryIDs {
		if _, ok := assigned[id]; ok {
			continue
		}
		name, ok := names[id]
		if !ok {
			name = fmt.Sprintf("Categoría %d", id)
		}
		out = append(out, CategoryRef{ID: id, Name: name})
	}
	return out
}

// ClassCategoryNames are the badge labels of one class entry.
func ClassCategoryNames(names map[int64]string, entry domain.ClassEntry) []string {
	out := make([]string, 0, len(entry.CategoryIDs))
	for _, id := range entry.CategoryIDs {
		if name, ok := names[id]; ok {
			out = append(out, name)
			continue
		}
		out = append(out, fmt.Sprintf("Cat %d", id))
	}
	return out
}
