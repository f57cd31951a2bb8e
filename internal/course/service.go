package course

import (
	"alizia-planner/internal/domain"
	"alizia-planner/internal/errors"
	"alizia-planner/internal/projection"
	"alizia-planner/internal/reference"
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Remote is the part of the API a course overview reads.
type Remote interface {
	CourseStudents(ctx context.Context, courseID int64) ([]domain.Student, error)
	ListDocuments(ctx context.Context) ([]domain.DocumentSummary, error)
}

type References interface {
	Load(ctx context.Context) (*reference.Data, error)
}

type Overview struct {
	Course   domain.Course        `json:"course"`
	Title    string               `json:"title"`
	Students []domain.Student     `json:"students"`
	Sections []projection.Section `json:"sections"`
}

type Service interface {
	GetOverview(ctx context.Context, courseID, areaID int64) (*Overview, error)
}

type DefaultService struct {
	remote     Remote
	references References
	logger     zerolog.Logger
}

func NewService(remote Remote, references References, logger zerolog.Logger) *DefaultService {
	return &DefaultService{
		remote:     remote,
		references: references,
		logger:     logger.With().Str("component", "course").Logger(),
	}
}

// GetOverview returns the students of a course and the coordination
// document progress of each nucleus for the given area. Without an area
// there are no sections.
func (s *DefaultService) GetOverview(ctx context.Context, courseID, areaID int64) (*Overview, error) {
	data, err := s.references.Load(ctx)
	if err != nil {
		return nil, err
	}
	course, ok := data.Course(courseID)
	if !ok {
		return nil, errors.NotFound("Curso no encontrado", nil)
	}

	var (
		students []domain.Student
		docs     []domain.DocumentSummary
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		students, err = s.remote.CourseStudents(gctx, courseID)
		return err
	})
	g.Go(func() (err error) {
		docs, err = s.remote.ListDocuments(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error().Err(err).Int64("course_id", courseID).Msg("loading course data")
		return nil, err
	}
	if students == nil {
		students = []domain.Student{}
	}

	return &Overview{
		Course:   course,
		Title:    fmt.Sprintf("Curso %s", course.Name),
		Students: students,
		Sections: projection.CourseSections(projection.CourseInputs{
			AreaID:         areaID,
			Nuclei:         data.Nuclei,
			KnowledgeAreas: data.KnowledgeAreas,
			Categories:     data.Categories,
			Documents:      docs,
		}),
	}, nil
}
