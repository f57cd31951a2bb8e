package domain

// Reference data is loaded from the remote API and never modified here.

type Subject struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Category struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	KnowledgeAreaID int64  `json:"knowledge_area_id,omitempty"`
}

type Activity struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Nucleus struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type KnowledgeArea struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	NucleusID int64  `json:"nucleus_id"`
}

type Area struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Course struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	AreaID int64  `json:"area_id,omitempty"`
}

type Student struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// DocumentSummary is the list form of a coordination document.
type DocumentSummary struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Status     Status  `json:"status"`
	AreaID     int64   `json:"area_id"`
	NucleusIDs []int64 `json:"nucleus_ids"`
}
