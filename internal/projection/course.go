package projection

import (
	"alizia-planner/internal/domain"
	"slices"
)

type TopicStatus string

const (
	TopicPending    TopicStatus = "pending"
	TopicInProgress TopicStatus = "in_progress"
	TopicCompleted  TopicStatus = "completed"
)

type Topic struct {
	ID              int64       `json:"id"`
	Name            string      `json:"name"`
	Status          TopicStatus `json:"status"`
	CategoriesCount int         `json:"categories_count"`
	DocumentID      *int64      `json:"document_id,omitempty"`
}

type Section struct {
	ID     int     `json:"id"`
	Name   string  `json:"name"`
	Topics []Topic `json:"topics"`
}

// CourseInputs is the reference data a course overview is built from.
type CourseInputs struct {
	AreaID         int64
	Nuclei         []domain.Nucleus
	KnowledgeAreas []domain.KnowledgeArea
	Categories     []domain.Category
	Documents      []domain.DocumentSummary
}

// CourseSections splits the nuclei into two terms at the rounded-up
// midpoint. Each nucleus becomes a topic whose status follows the first
// coordination document of the area that covers it.
func CourseSections(in CourseInputs) []Section {
	sections := []Section{}
	if in.AreaID == 0 || len(in.Nuclei) == 0 {
		return sections
	}

	var docs []domain.DocumentSummary
	for _, d := range in.Documents {
		if d.AreaID == in.AreaID {
			docs = append(docs, d)
		}
	}

	midpoint := (len(in.Nuclei) + 1) / 2
	first, second := in.Nuclei[:midpoint], in.Nuclei[midpoint:]

	if len(first) > 0 {
		sections = append(sections, Section{ID: 1, Name: "Primer cuatrimestre", Topics: buildTopics(first, docs, in)})
	}
	if len(second) > 0 {
		sections = append(sections, Section{ID: 2, Name: "Segundo cuatrimestre", Topics: buildTopics(second, docs, in)})
	}
	return sections
}

func buildTopics(nuclei []domain.Nucleus, docs []domain.DocumentSummary, in CourseInputs) []Topic {
	topics := make([]Topic, 0, len(nuclei))
	for _, n := range nuclei {
		areas := make(map[int64]struct{})
		for _, ka := range in.KnowledgeAreas {
			if ka.NucleusID == n.ID {
				areas[ka.ID] = struct{}{}
			}
		}
		count := 0
		for _, c := range in.Categories {
			if _, ok := areas[c.KnowledgeAreaID]; ok {
				count++
			}
		}

		topic := Topic{ID: n.ID, Name: n.Name, Status: TopicPending, CategoriesCount: count}
		for _, d := range docs {
			if !slices.Contains(d.NucleusIDs, n.ID) {
				continue
			}
			id := d.ID
			topic.DocumentID = &id
			topic.Status = TopicInProgress
			if d.Status == domain.StatusPublished {
				topic.Status = TopicCompleted
			}
			break
		}
		topics = append(topics, topic)
	}
	return topics
}
