package projection

import (
	"alizia-planner/internal/domain"
	"fmt"
	"sort"
	"time"
)

// ClassesPerWeek is how many scheduled classes fill one week bucket.
const ClassesPerWeek = 4

type ScheduledClass struct {
	SubjectID    int64    `json:"subject_id"`
	SubjectName  string   `json:"subject_name"`
	SubjectColor string   `json:"subject_color"`
	ClassNumber  int      `json:"class_number"`
	Title        string   `json:"title"`
	Date         string   `json:"date,omitempty"`
	CategoryIDs  []int64  `json:"category_ids"`
	Categories   []string `json:"categories"`
}

type Week struct {
	Index   int              `json:"index"`
	Label   string           `json:"label"`
	Start   *time.Time       `json:"start,omitempty"`
	End     *time.Time       `json:"end,omitempty"`
	Classes []ScheduledClass `json:"classes"`
}

// FlattenClasses collects every class entry of every subject, tagged with
// its subject, ordered by class number then subject name.
func FlattenClasses(doc *domain.Document) []ScheduledClass {
	out := []ScheduledClass{}
	if doc == nil {
		return out
	}
	names := CategoryMap(doc)
	for i, s := range doc.Content.Subjects {
		for _, c := range doc.Content.ClassPlan(s.ID) {
			out = append(out, ScheduledClass{
				SubjectID:    s.ID,
				SubjectName:  s.Name,
				SubjectColor: SubjectColor(i),
				ClassNumber:  c.ClassNumber,
				Title:        c.Title,
				Date:         c.Date,
				CategoryIDs:  c.CategoryIDs,
				Categories:   ClassCategoryNames(names, c),
			})
		}
	}
	sort.SliceStable(out, func(a, b int) bool {
		if out[a].ClassNumber != out[b].ClassNumber {
			return out[a].ClassNumber < out[b].ClassNumber
		}
		return out[a].SubjectName < out[b].SubjectName
	})
	return out
}

// WeekGrouping buckets the flattened classes into weeks of ClassesPerWeek.
// Week k spans start_date+7k through six days later; without a usable
// start date weeks are labelled "Semana N".
func WeekGrouping(doc *domain.Document) []Week {
	classes := FlattenClasses(doc)
	weeks := []Week{}

	var start time.Time
	hasStart := false
	if doc != nil {
		start, hasStart = ParseDate(doc.StartDate)
	}

	for i := 0; i < len(classes); i += ClassesPerWeek {
		end := min(i+ClassesPerWeek, len(classes))
		k := i / ClassesPerWeek
		week := Week{
			Index:   k,
			Classes: classes[i:end],
		}
		if hasStart {
			from := start.AddDate(0, 0, 7*k)
			to := from.AddDate(0, 0, 6)
			week.Start, week.End = &from, &to
			week.Label = fmt.Sprintf("%s - %s", LongDate(from), LongDate(to))
		} else {
			week.Label = fmt.Sprintf("Semana %d", k+1)
		}
		weeks = append(weeks, week)
	}
	return weeks
}
