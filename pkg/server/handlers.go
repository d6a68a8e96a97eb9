/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: handlers.go
Description: Route handlers for the inspector pages. Implements the project,
release, distribution, and file views with canonical-name redirects, artifact
fetching, archive listing, and fallback decoding of member contents.
*/

package server

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/kleascm/pypi-inspector/pkg/analysis"
	"github.com/kleascm/pypi-inspector/pkg/distribution"
	"github.com/kleascm/pypi-inspector/pkg/pypi"
)

const binaryMessage = "Binary files are not supported."

// distCache keeps a server's most recently fetched artifacts in memory
// so a listing followed by file views does not re-download the archive.
type distCache struct {
	mu      sync.Mutex
	entries map[string][]byte
}

const distCacheLimit = 8

// handleIndex renders the landing page, or redirects a ?project=
// search straight to the project view.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if project := strings.TrimSpace(r.URL.Query().Get("project")); project != "" {
		http.Redirect(w, r, "/project/"+url.PathEscape(project)+"/", http.StatusFound)
		return
	}
	s.render(w, http.StatusOK, indexPage, pageData{})
}

// handleVersions lists a project's releases newest-first.
func (s *Server) handleVersions(w http.ResponseWriter, r *http.Request) {
	project := r.PathValue("project")
	if !pypi.IsCanonical(project) {
		http.Redirect(w, r, "/project/"+pypi.CanonicalName(project)+"/", http.StatusMovedPermanently)
		return
	}

	pypiProjectURL := "https://pypi.org/project/" + project
	meta, err := s.client.Project(r.Context(), project)
	if errors.Is(err, pypi.ErrProjectNotFound) {
		// Self-host the not-found page to mitigate iframe embeds.
		s.render(w, http.StatusNotFound, notFoundPage, pageData{})
		return
	}
	if err != nil {
		s.logger.WithError(err).Error("Failed to fetch project metadata")
		http.Redirect(w, r, pypiProjectURL, http.StatusTemporaryRedirect)
		return
	}

	s.render(w, http.StatusOK, releasesPage, pageData{
		Versions: meta.SortedVersions(),
		Breadcrumbs: Breadcrumbs{
			H2:          project,
			H2Link:      "/project/" + project,
			H2Paren:     "View this project on PyPI",
			H2ParenLink: pypiProjectURL,
		},
	})
}

// handleDistributions lists the artifacts of one release as relative
// links into the packages tree.
func (s *Server) handleDistributions(w http.ResponseWriter, r *http.Request) {
	project := r.PathValue("project")
	version := r.PathValue("version")
	if !pypi.IsCanonical(project) {
		http.Redirect(w, r,
			fmt.Sprintf("/project/%s/%s/", pypi.CanonicalName(project), version),
			http.StatusMovedPermanently)
		return
	}

	var links []string
	release, err := s.client.Release(r.Context(), project, version)
	switch {
	case err == nil:
		links = make([]string, 0, len(release.URLs))
		for _, file := range release.URLs {
			parsed, err := url.Parse(file.URL)
			if err != nil {
				continue
			}
			links = append(links, "."+parsed.Path+"/")
		}
	case errors.Is(err, pypi.ErrProjectNotFound):
		http.Redirect(w, r, "/project/"+project+"/", http.StatusFound)
		return
	default:
		// The JSON API is flaky at times; the simple index usually
		// still answers.
		s.logger.WithError(err).Warn("Release metadata unavailable, trying simple index")
		links = s.simpleReleaseLinks(r, project, version)
		if links == nil {
			http.Redirect(w, r, "/project/"+project+"/", http.StatusFound)
			return
		}
	}

	s.render(w, http.StatusOK, linksPage, pageData{
		Links:       links,
		Breadcrumbs: s.releaseBreadcrumbs(r, project, version),
	})
}

// simpleReleaseLinks rebuilds the distribution links of one release
// from the simple-index page, used when the JSON API fails. Returns nil
// when the page cannot be fetched or lists nothing for the version.
func (s *Server) simpleReleaseLinks(r *http.Request, project, version string) []string {
	files, err := s.client.SimpleLinks(r.Context(), project)
	if err != nil {
		s.logger.WithError(err).Error("Failed to fetch simple index page")
		return nil
	}

	var links []string
	for _, file := range files {
		if !strings.Contains(file.Filename, "-"+version+"-") &&
			!strings.Contains(file.Filename, "-"+version+".") {
			continue
		}
		parsed, err := url.Parse(file.URL)
		if err != nil {
			continue
		}
		links = append(links, "."+parsed.Path+"/")
	}
	return links
}

// handleDistribution lists the members of one distribution archive.
func (s *Server) handleDistribution(w http.ResponseWriter, r *http.Request) {
	project := r.PathValue("project")
	version := r.PathValue("version")
	if !pypi.IsCanonical(project) {
		http.Redirect(w, r, canonicalPackagesPath(r, project, ""), http.StatusMovedPermanently)
		return
	}

	dist, distname, ok := s.openDist(w, r)
	if !ok {
		return
	}

	names := dist.Namelist()
	links := make([]string, 0, len(names))
	for _, name := range names {
		links = append(links, "./"+escapeMemberPath(name))
	}

	crumbs := s.releaseBreadcrumbs(r, project, version)
	crumbs.H4 = distname
	crumbs.H4Link = r.URL.Path

	s.render(w, http.StatusOK, linksPage, pageData{
		Links:       links,
		Breadcrumbs: crumbs,
	})
}

// handleFile renders one archive member through the fallback decoder.
func (s *Server) handleFile(w http.ResponseWriter, r *http.Request) {
	project := r.PathValue("project")
	version := r.PathValue("version")
	filepath := r.PathValue("filepath")
	if !pypi.IsCanonical(project) {
		http.Redirect(w, r, canonicalPackagesPath(r, project, filepath), http.StatusMovedPermanently)
		return
	}

	dist, distname, ok := s.openDist(w, r)
	if !ok {
		return
	}

	contents, err := dist.Contents(filepath)
	if errors.Is(err, distribution.ErrMemberNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	result := s.engine.Decode(contents)
	s.access.LogDecode(filepath, result.Encoding, result.Binary, len(contents), nil)
	if result.Binary {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprint(w, binaryMessage)
		return
	}

	details := analysis.BasicDetails(filepath, contents)
	crumbs := s.releaseBreadcrumbs(r, project, version)
	crumbs.H4 = distname
	crumbs.H4Link = strings.TrimSuffix(r.URL.Path, filepath)
	crumbs.H5 = filepath
	crumbs.H5Link = r.URL.Path

	s.render(w, http.StatusOK, codePage, pageData{
		Code: result.Text,
		FileDetails: detailLines(
			details.Path, details.Size, details.SHA256,
			details.LineCount, details.TypeHint),
		ReportLink:  reportLink(project, version, filepath),
		Breadcrumbs: crumbs,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	fmt.Fprint(w, "OK")
}

func (s *Server) handleRobots(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, "User-agent: *\nDisallow: /\n")
}

// openDist downloads and opens the archive addressed by the packages
// path segments. On failure it writes the response itself and returns
// ok false.
func (s *Server) openDist(w http.ResponseWriter, r *http.Request) (distribution.Dist, string, bool) {
	distname := r.PathValue("distname")
	artifactURL := fmt.Sprintf("%s/packages/%s/%s/%s/%s",
		s.filesHost,
		r.PathValue("first"), r.PathValue("second"), r.PathValue("rest"), distname)

	data, err := s.fetchCached(r, artifactURL)
	if err != nil {
		s.logger.WithError(err).Error("Failed to fetch artifact")
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return nil, "", false
	}

	dist, err := distribution.Open(distname, data)
	if errors.Is(err, distribution.ErrUnsupported) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprint(w, "Distribution type not supported")
		return nil, "", false
	}
	if err != nil {
		s.logger.WithError(err).Error("Failed to open artifact")
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return nil, "", false
	}
	return dist, distname, true
}

// fetchCached serves an artifact from the server's in-memory cache or
// downloads it. The cache is cleared wholesale when it grows past its
// limit.
func (s *Server) fetchCached(r *http.Request, artifactURL string) ([]byte, error) {
	s.cache.mu.Lock()
	data, ok := s.cache.entries[artifactURL]
	s.cache.mu.Unlock()
	if ok {
		return data, nil
	}

	data, err := s.fetcher.Fetch(r.Context(), artifactURL)
	if err != nil {
		return nil, err
	}

	s.cache.mu.Lock()
	if len(s.cache.entries) >= distCacheLimit {
		s.cache.entries = make(map[string][]byte)
	}
	s.cache.entries[artifactURL] = data
	s.cache.mu.Unlock()
	return data, nil
}

// releaseBreadcrumbs builds the project and release heading chain,
// flagging entries that no longer exist on the index.
func (s *Server) releaseBreadcrumbs(r *http.Request, project, version string) Breadcrumbs {
	projectParen := "View this project on PyPI"
	if _, err := s.client.Project(r.Context(), project); errors.Is(err, pypi.ErrProjectNotFound) {
		projectParen = "❌ Project no longer on PyPI"
	}
	releaseParen := "View this release on PyPI"
	if _, err := s.client.Release(r.Context(), project, version); errors.Is(err, pypi.ErrProjectNotFound) {
		releaseParen = "❌ Release no longer on PyPI"
	}

	return Breadcrumbs{
		H2:          project,
		H2Link:      "/project/" + project,
		H2Paren:     projectParen,
		H2ParenLink: "https://pypi.org/project/" + project,
		H3:          fmt.Sprintf("%s==%s", project, version),
		H3Link:      fmt.Sprintf("/project/%s/%s", project, version),
		H3Paren:     releaseParen,
		H3ParenLink: fmt.Sprintf("https://pypi.org/project/%s/%s", project, version),
	}
}

// canonicalPackagesPath rebuilds a packages URL with the canonical
// project name, preserving the remaining segments.
func canonicalPackagesPath(r *http.Request, project, filepath string) string {
	path := fmt.Sprintf("/project/%s/%s/packages/%s/%s/%s/%s/",
		pypi.CanonicalName(project),
		r.PathValue("version"),
		r.PathValue("first"), r.PathValue("second"),
		r.PathValue("rest"), r.PathValue("distname"))
	if filepath != "" {
		path += filepath
	}
	return path
}

// escapeMemberPath percent-encodes each segment of an archive member
// path while keeping the separators readable.
func escapeMemberPath(name string) string {
	segments := strings.Split(name, "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return strings.Join(segments, "/")
}

// reportLink builds the mailto link for reporting a malicious file.
func reportLink(project, version, filepath string) string {
	subject := fmt.Sprintf("Malicious file report: %s", project)
	body := fmt.Sprintf("Project: %s\nVersion: %s\nFile: %s\n", project, version, filepath)
	return "mailto:security@pypi.org?subject=" +
		url.QueryEscape(subject) + "&body=" + url.QueryEscape(body)
}
