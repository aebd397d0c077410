package zanata

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/go-git/go-billy/v5/util"
	"github.com/go-resty/resty/v2"

	zerrors "github.com/tildaslashalef/zanata-sync/internal/errors"
)

const (
	sourceDownloadPath      = "/rest/file/source/{project}/{version}/pot"
	translationDownloadPath = "/rest/file/translation/{project}/{version}/{locale}/po"
	sourceUploadPath        = "/rest/file/source/{project}/{version}"
	translationUploadPath   = "/rest/file/translation/{project}/{version}/{locale}"
	copyTransPath           = "/rest/copytrans/proj/{project}/iter/{version}/doc/{doc}"

	uploadTypeGettext = "GETTEXT"
)

// Pull downloads the documents of a version. Every file is handed to onItem
// before the next request; the returned summary is only valid when the whole
// pull succeeded.
func (c *Client) Pull(ctx context.Context, p PullParams, onItem PullHandler) (*PullSummary, error) {
	docs, err := c.PullSources(ctx, p.Project, p.Version)
	if err != nil {
		return nil, err
	}

	summary := &PullSummary{Documents: len(docs)}
	for _, doc := range docs {
		if p.Scope.IncludesSource() {
			data, err := c.download(ctx, "pull source", sourceDownloadPath, map[string]string{
				"project": p.Project, "version": p.Version,
			}, doc.Name)
			if err != nil {
				return nil, err
			}
			if err := onItem(PullItem{Type: ItemSource, Document: doc.Name, Data: data}); err != nil {
				return nil, err
			}
			summary.Sources++
		}

		if !p.Scope.IncludesTranslations() {
			continue
		}
		for _, loc := range p.Locales {
			data, err := c.download(ctx, "pull translation", translationDownloadPath, map[string]string{
				"project": p.Project, "version": p.Version, "locale": loc,
			}, doc.Name)
			if errors.Is(err, ErrNotFound) {
				c.logger.Warn("No translation on server", "document", doc.Name, "locale", loc)
				summary.Skipped++
				continue
			}
			if err != nil {
				return nil, err
			}
			if err := onItem(PullItem{Type: ItemTranslation, Document: doc.Name, Locale: loc, Data: data}); err != nil {
				return nil, err
			}
			summary.Translations++
		}
	}

	return summary, nil
}

func (c *Client) download(ctx context.Context, op, path string, params map[string]string, doc string) ([]byte, error) {
	req := c.request(ctx).
		SetHeader("Accept", "*/*").
		SetPathParams(params).
		SetQueryParam("docId", doc)

	resp, err := c.do(fmt.Sprintf("%s %s", op, doc), req, http.MethodGet, path)
	if err != nil {
		return nil, err
	}
	return resp.Body(), nil
}

// Push uploads the staged files in p.SrcDir. Templates become documents
// named after their stem; translations are uploaded to every document.
func (c *Client) Push(ctx context.Context, p PushParams) (*PushSummary, error) {
	entries, err := c.fs.ReadDir(p.SrcDir)
	if err != nil {
		return nil, zerrors.Filesystem("read push directory", err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	wanted := make(map[string]struct{}, len(p.Locales))
	for _, l := range p.Locales {
		wanted[l] = struct{}{}
	}

	var sources, translations []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch filepath.Ext(e.Name()) {
		case ".pot":
			sources = append(sources, e.Name())
		case ".po":
			if _, ok := wanted[strings.TrimSuffix(e.Name(), ".po")]; ok {
				translations = append(translations, e.Name())
			}
		}
	}

	docs := make([]string, 0, len(sources))
	for _, name := range sources {
		docs = append(docs, strings.TrimSuffix(name, ".pot"))
	}

	summary := &PushSummary{}
	if p.Scope.IncludesSource() {
		for _, name := range sources {
			doc := strings.TrimSuffix(name, ".pot")
			if err := c.uploadSource(ctx, p, doc, c.fs.Join(p.SrcDir, name)); err != nil {
				return nil, err
			}
			summary.Sources++

			if p.CopyTrans {
				if err := c.copyTrans(ctx, p.Project, p.Version, doc); err != nil {
					return nil, err
				}
			}
		}
	}

	if p.Scope.IncludesTranslations() && len(translations) > 0 {
		if len(docs) == 0 {
			remote, err := c.PullSources(ctx, p.Project, p.Version)
			if err != nil {
				return nil, err
			}
			for _, d := range remote {
				docs = append(docs, d.Name)
			}
		}

		for _, name := range translations {
			loc := strings.TrimSuffix(name, ".po")
			for _, doc := range docs {
				if err := c.uploadTranslation(ctx, p, doc, loc, c.fs.Join(p.SrcDir, name)); err != nil {
					return nil, err
				}
				summary.Translations++
			}
		}
	}

	summary.Documents = len(docs)
	return summary, nil
}

func (c *Client) uploadSource(ctx context.Context, p PushParams, doc, path string) error {
	req, err := c.uploadRequest(ctx, path)
	if err != nil {
		return err
	}
	req.SetPathParams(map[string]string{"project": p.Project, "version": p.Version}).
		SetQueryParam("docId", doc)

	_, err = c.do(fmt.Sprintf("push source %s", doc), req, http.MethodPost, sourceUploadPath)
	return err
}

func (c *Client) uploadTranslation(ctx context.Context, p PushParams, doc, loc, path string) error {
	req, err := c.uploadRequest(ctx, path)
	if err != nil {
		return err
	}
	req.SetPathParams(map[string]string{"project": p.Project, "version": p.Version, "locale": loc}).
		SetQueryParams(map[string]string{"docId": doc, "merge": "auto"})

	_, err = c.do(fmt.Sprintf("push translation %s/%s", doc, loc), req, http.MethodPost, translationUploadPath)
	return err
}

// uploadRequest builds a single-chunk multipart upload for a staged file
func (c *Client) uploadRequest(ctx context.Context, path string) (*resty.Request, error) {
	data, err := util.ReadFile(c.fs, path)
	if err != nil {
		return nil, zerrors.Filesystem("read staged file", err)
	}

	sum := md5.Sum(data)
	return c.request(ctx).
		SetFileReader("file", filepath.Base(path), bytes.NewReader(data)).
		SetMultipartFormData(map[string]string{
			"type":  uploadTypeGettext,
			"first": "true",
			"last":  "true",
			"hash":  hex.EncodeToString(sum[:]),
			"size":  strconv.Itoa(len(data)),
		}), nil
}

func (c *Client) copyTrans(ctx context.Context, project, version, doc string) error {
	req := c.request(ctx).
		SetPathParams(map[string]string{"project": project, "version": version, "doc": doc})

	_, err := c.do(fmt.Sprintf("copy translations %s", doc), req, http.MethodPost, copyTransPath)
	return err
}
