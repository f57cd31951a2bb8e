package domain

import (
	"fmt"
	"strings"
)

// Kind identifies which family of planning document a session works on.
type Kind string

const (
	KindCoordination Kind = "coordination"
	KindLessonPlan   Kind = "lesson_plan"
)

// Scope returns the remote endpoint prefix for the kind.
func (k Kind) Scope() string {
	switch k {
	case KindLessonPlan:
		return "/teacher-lesson-plans"
	default:
		return "/coordination-documents"
	}
}

// ParseKind accepts the kind names used in URLs and CLI flags.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "coordination", "coordination-document", "document", "doc":
		return KindCoordination, nil
	case "lesson_plan", "lesson-plan", "plan", "teacher-lesson-plan":
		return KindLessonPlan, nil
	}
	return "", fmt.Errorf("unknown document kind %q", s)
}

type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

// Document is a coordination document or a teacher lesson plan. Lesson
// plans carry Moments and CourseSubjectID; coordination documents carry the
// class schedule inside Content.
type Document struct {
	ID              int64    `json:"id"`
	Kind            Kind     `json:"kind,omitempty"`
	Name            string   `json:"name"`
	Status          Status   `json:"status"`
	StartDate       string   `json:"start_date,omitempty"`
	EndDate         string   `json:"end_date,omitempty"`
	AreaID          int64    `json:"area_id,omitempty"`
	NucleusIDs      []int64  `json:"nucleus_ids,omitempty"`
	CourseSubjectID int64    `json:"course_subject_id,omitempty"`
	CategoryIDs     []int64  `json:"category_ids,omitempty"`
	Content         Content  `json:"content"`
	Moments         *Moments `json:"moments,omitempty"`
}

type Content struct {
	MethodologicalStrategies string                 `json:"methodological_strategies"`
	CategoryIDs              []int64                `json:"category_ids"`
	Categories               []Category             `json:"categories,omitempty"`
	Subjects                 []SubjectStub          `json:"subjects"`
	SubjectsData             map[string]SubjectData `json:"subjects_data"`
}

type SubjectStub struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type SubjectData struct {
	ClassPlan []ClassEntry `json:"class_plan"`
}

type ClassEntry struct {
	ClassNumber int     `json:"class_number"`
	Title       string  `json:"title"`
	Date        string  `json:"date,omitempty"`
	CategoryIDs []int64 `json:"category_ids"`
}

// ClassPlan returns the class entries planned for a subject, nil when none.
func (c Content) ClassPlan(subjectID int64) []ClassEntry {
	if c.SubjectsData == nil {
		return nil
	}
	return c.SubjectsData[fmt.Sprint(subjectID)].ClassPlan
}

// Clone returns a deep copy so callers can mutate without touching the cached value.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	out := *d
	out.NucleusIDs = append([]int64(nil), d.NucleusIDs...)
	out.CategoryIDs = append([]int64(nil), d.CategoryIDs...)
	out.Content.CategoryIDs = append([]int64(nil), d.Content.CategoryIDs...)
	out.Content.Categories = append([]Category(nil), d.Content.Categories...)
	out.Content.Subjects = append([]SubjectStub(nil), d.Content.Subjects...)
	if d.Content.SubjectsData != nil {
		out.Content.SubjectsData = make(map[string]SubjectData, len(d.Content.SubjectsData))
		for k, v := range d.Content.SubjectsData {
			plan := make([]ClassEntry, len(v.ClassPlan))
			for i, c := range v.ClassPlan {
				c.CategoryIDs = append([]int64(nil), c.CategoryIDs...)
				plan[i] = c
			}
			out.Content.SubjectsData[k] = SubjectData{ClassPlan: plan}
		}
	}
	if d.Moments != nil {
		m := *d.Moments
		m.Apertura.Activities = append([]int64(nil), d.Moments.Apertura.Activities...)
		m.Desarrollo.Activities = append([]int64(nil), d.Moments.Desarrollo.Activities...)
		m.Cierre.Activities = append([]int64(nil), d.Moments.Cierre.Activities...)
		out.Moments = &m
	}
	return &out
}

// HasContent reports whether the generated text of the document exists.
// It gates automatic generation; Status plays no part in it.
func HasContent(d *Document) bool {
	if d == nil {
		return false
	}
	if d.Kind == KindLessonPlan || d.Moments != nil {
		if d.Moments == nil {
			return false
		}
		for _, m := range MomentSequence {
			if strings.TrimSpace(d.Moments.Get(m).GeneratedContent) == "" {
				return false
			}
		}
		return true
	}
	return strings.TrimSpace(d.Content.MethodologicalStrategies) != ""
}

// Patch carries the fields of a partial update. Nil fields are left unchanged
// by the remote store.
type Patch struct {
	Name    *string  `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Content *Content `json:"content,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Name == nil && p.Content == nil
}
