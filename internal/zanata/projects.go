package zanata

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	zerrors "github.com/tildaslashalef/zanata-sync/internal/errors"
)

const (
	projectsPath  = "/rest/projects"
	projectPath   = "/rest/projects/p/{project}"
	versionPath   = "/rest/projects/p/{project}/iterations/i/{version}"
	localesPath   = "/rest/projects/p/{project}/iterations/i/{version}/locales"
	resourcesPath = "/rest/projects/p/{project}/iterations/i/{version}/r"
	docStatsPath  = "/rest/stats/proj/{project}/iter/{version}/doc/{doc}"
)

// List returns all projects visible to the user
func (c *Client) List(ctx context.Context) ([]Project, error) {
	var projects []Project
	_, err := c.do("list projects", c.request(ctx).SetResult(&projects), http.MethodGet, projectsPath)
	if err != nil {
		return nil, err
	}
	return projects, nil
}

// Info returns the details of one project
func (c *Client) Info(ctx context.Context, project string) (*ProjectInfo, error) {
	var info ProjectInfo
	req := c.request(ctx).
		SetPathParam("project", project).
		SetResult(&info)

	if _, err := c.do("project info", req, http.MethodGet, projectPath); err != nil {
		return nil, err
	}
	return &info, nil
}

// VersionInfo returns the locales configured for a version
func (c *Client) VersionInfo(ctx context.Context, project, version string) ([]Locale, error) {
	var locales []Locale
	req := c.request(ctx).
		SetPathParams(map[string]string{"project": project, "version": version}).
		SetResult(&locales)

	if _, err := c.do("version info", req, http.MethodGet, localesPath); err != nil {
		return nil, err
	}
	return locales, nil
}

// CreateVersion creates a version. An existing version yields ErrVersionExists.
func (c *Client) CreateVersion(ctx context.Context, project, version, projectType string) (*Version, error) {
	params := map[string]string{"project": project, "version": version}

	_, err := c.do("check version", c.request(ctx).SetPathParams(params), http.MethodGet, versionPath)
	switch {
	case err == nil:
		return nil, zerrors.Remote("create version", fmt.Errorf("%w: Version '%s' already exists", ErrVersionExists, version))
	case !errors.Is(err, ErrNotFound):
		return nil, err
	}

	if projectType == "" {
		projectType = ProjectTypeGettext
	}
	created := Version{ID: version, Status: StatusActive, ProjectType: projectType}

	req := c.request(ctx).
		SetPathParams(params).
		SetHeader("Content-Type", "application/json").
		SetBody(created)

	if _, err := c.do("create version", req, http.MethodPut, versionPath); err != nil {
		return nil, err
	}
	return &created, nil
}

// PullSources lists the source documents of a version
func (c *Client) PullSources(ctx context.Context, project, version string) ([]SourceDoc, error) {
	var docs []SourceDoc
	req := c.request(ctx).
		SetPathParams(map[string]string{"project": project, "version": version}).
		SetResult(&docs)

	if _, err := c.do("list documents", req, http.MethodGet, resourcesPath); err != nil {
		return nil, err
	}
	return docs, nil
}

// Stats returns word-level statistics for one document
func (c *Client) Stats(ctx context.Context, project, version, doc string) (*DocStats, error) {
	var stats DocStats
	req := c.request(ctx).
		SetPathParams(map[string]string{"project": project, "version": version, "doc": doc}).
		SetQueryParam("word", "true").
		SetResult(&stats)

	if _, err := c.do("document stats", req, http.MethodGet, docStatsPath); err != nil {
		return nil, err
	}
	return &stats, nil
}
