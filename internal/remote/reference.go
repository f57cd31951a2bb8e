package remote

import (
	"alizia-planner/internal/domain"
	"context"
	"fmt"
	"net/http"
)

func getList[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	var items []T
	if err := c.do(ctx, http.MethodGet, path, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) Subjects(ctx context.Context) ([]domain.Subject, error) {
	return getList[domain.Subject](ctx, c, "/subjects")
}

func (c *Client) Categories(ctx context.Context) ([]domain.Category, error) {
	return getList[domain.Category](ctx, c, "/categories")
}

func (c *Client) Activities(ctx context.Context) ([]domain.Activity, error) {
	return getList[domain.Activity](ctx, c, "/activities")
}

func (c *Client) Nuclei(ctx context.Context) ([]domain.Nucleus, error) {
	return getList[domain.Nucleus](ctx, c, "/nuclei")
}

func (c *Client) KnowledgeAreas(ctx context.Context) ([]domain.KnowledgeArea, error) {
	return getList[domain.KnowledgeArea](ctx, c, "/knowledge-areas")
}

func (c *Client) Areas(ctx context.Context) ([]domain.Area, error) {
	return getList[domain.Area](ctx, c, "/areas")
}

func (c *Client) Courses(ctx context.Context) ([]domain.Course, error) {
	return getList[domain.Course](ctx, c, "/courses")
}

func (c *Client) CourseStudents(ctx context.Context, courseID int64) ([]domain.Student, error) {
	return getList[domain.Student](ctx, c, fmt.Sprintf("/courses/%d/students", courseID))
}
