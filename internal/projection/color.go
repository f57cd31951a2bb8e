package projection

import "alizia-planner/internal/domain"

// Palette is assigned to subjects by their position in the subject list.
var Palette = []string{
	"#735FE3",
	"#F2994A",
	"#27AE60",
	"#2D9CDB",
	"#EB5757",
	"#BB6BD9",
	"#F2C94C",
	"#56CCF2",
}

// SubjectColor picks the palette entry for the subject at index i.
func SubjectColor(i int) string {
	if i < 0 {
		i = -i
	}
	return Palette[i%len(Palette)]
}

// SubjectColors maps each subject of doc to its palette color.
func SubjectColors(doc *domain.Document) map[int64]string {
	out := make(map[int64]string)
	if doc == nil {
		return out
	}
	for i, s := range doc.Content.Subjects {
		out[s.ID] = SubjectColor(i)
	}
	return out
}
