package reference

import (
	"alizia-planner/internal/domain"
	"fmt"
)

// Names maps ids of one reference kind to display names.
type Names struct {
	label string
	names map[int64]string
}

func newNames[T any](label string, items []T, key func(T) (int64, string)) Names {
	n := Names{label: label, names: make(map[int64]string, len(items))}
	for _, it := range items {
		id, name := key(it)
		n.names[id] = name
	}
	return n
}

// Name falls back to "{label} {id}" for ids missing from the list.
func (n Names) Name(id int64) string {
	if name, ok := n.names[id]; ok {
		return name
	}
	return fmt.Sprintf("%s %d", n.label, id)
}

// Map exposes the known names for the projection helpers.
func (n Names) Map() map[int64]string {
	return n.names
}

func (d *Data) CategoryNames() Names {
	return newNames("Categoría", d.Categories, func(c domain.Category) (int64, string) { return c.ID, c.Name })
}

func (d *Data) ActivityNames() Names {
	return newNames("Actividad", d.Activities, func(a domain.Activity) (int64, string) { return a.ID, a.Name })
}

func (d *Data) Course(id int64) (domain.Course, bool) {
	for _, c := range d.Courses {
		if c.ID == id {
			return c, true
		}
	}
	return domain.Course{}, false
}
