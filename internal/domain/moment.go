package domain

import "fmt"

type MomentType string

const (
	MomentApertura   MomentType = "apertura"
	MomentDesarrollo MomentType = "desarrollo"
	MomentCierre     MomentType = "cierre"
)

// MomentSequence is the order in which moments are generated and displayed.
var MomentSequence = []MomentType{MomentApertura, MomentDesarrollo, MomentCierre}

var momentNames = map[MomentType]string{
	MomentApertura:   "Apertura/Motivación",
	MomentDesarrollo: "Desarrollo/Construcción",
	MomentCierre:     "Cierre/Metacognición",
}

// DisplayName is the heading shown for the moment in the lesson plan view.
func (m MomentType) DisplayName() string {
	if name, ok := momentNames[m]; ok {
		return name
	}
	return string(m)
}

type Moment struct {
	Activities       []int64 `json:"activities"`
	GeneratedContent string  `json:"generatedContent"`
}

// Moments has exactly the three fixed lesson phases.
type Moments struct {
	Apertura   Moment `json:"apertura"`
	Desarrollo Moment `json:"desarrollo"`
	Cierre     Moment `json:"cierre"`
}

func (m *Moments) Get(t MomentType) Moment {
	if m == nil {
		return Moment{}
	}
	switch t {
	case MomentApertura:
		return m.Apertura
	case MomentDesarrollo:
		return m.Desarrollo
	case MomentCierre:
		return m.Cierre
	}
	return Moment{}
}

func ParseMomentType(s string) (MomentType, error) {
	for _, m := range MomentSequence {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown moment %q", s)
}
