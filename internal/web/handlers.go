package web

import (
	"errors"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/r9s-ai/sdmxrest/internal/queryspec"
	"github.com/r9s-ai/sdmxrest/pkg/apiversion"
	"github.com/r9s-ai/sdmxrest/pkg/config"
	"github.com/r9s-ai/sdmxrest/pkg/qb"
	"github.com/r9s-ai/sdmxrest/pkg/sdmxerr"
)

type versionView struct {
	Label    string   `json:"label"`
	Number   string   `json:"number"`
	Features []string `json:"features"`
}

type endpointView struct {
	Name       string `json:"name"`
	URL        string `json:"url"`
	Kind       string `json:"kind"`
	APIVersion string `json:"api_version,omitempty"`
	Default    bool   `json:"default"`
}

type urlView struct {
	APIVersion string `json:"api_version,omitempty"`
	Path       string `json:"path"`
	URL        string `json:"url"`
	Accept     string `json:"accept,omitempty"`
}

type matrixRowView struct {
	APIVersion string     `json:"api_version"`
	URL        string     `json:"url,omitempty"`
	Error      *errorView `json:"error,omitempty"`
}

type errorView struct {
	Kind        string `json:"kind"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Field       string `json:"field,omitempty"`
}

func (s *Server) handleVersions(c *gin.Context) {
	byVersion := map[apiversion.ApiVersion][]string{}
	for f, v := range apiversion.Features() {
		byVersion[v] = append(byVersion[v], string(f))
	}
	out := make([]versionView, 0, len(apiversion.All()))
	for _, v := range apiversion.All() {
		features := byVersion[v]
		sort.Strings(features)
		if features == nil {
			features = []string{}
		}
		out = append(out, versionView{Label: v.String(), Number: v.Number(), Features: features})
	}
	c.JSON(http.StatusOK, gin.H{"versions": out})
}

func (s *Server) handleEndpoints(c *gin.Context) {
	cfg := s.Config()
	out := make([]endpointView, 0, len(cfg.Endpoints))
	for _, e := range cfg.Endpoints {
		out = append(out, endpointView{
			Name:       e.Name,
			URL:        e.URL,
			Kind:       e.Kind,
			APIVersion: e.APIVersion,
			Default:    e.Name == cfg.DefaultEndpoint,
		})
	}
	c.JSON(http.StatusOK, gin.H{"endpoints": out})
}

func (s *Server) handleFormats(c *gin.Context) {
	family := c.Param("family")
	names := qb.FormatNames(family)
	if len(names) == 0 {
		writeError(c, sdmxerr.ClientError("Unknown resource", "no formats are defined for %q", family).WithField("family"))
		return
	}
	v, _, err := s.target(c)
	if err != nil {
		writeError(c, err)
		return
	}
	available := gin.H{}
	for _, n := range names {
		if accept, err := qb.AcceptFor(family, n, v); err == nil {
			available[n] = accept
		}
	}
	c.JSON(http.StatusOK, gin.H{"api_version": v.String(), "formats": available})
}

func (s *Server) handleURL(c *gin.Context) {
	family := strings.ToLower(c.Param("family"))
	params := queryspec.FromValues(c.Request.URL.Query())
	short := truthy(c.Query("short"))

	if family == queryspec.FamilyGDS {
		base := ""
		if e, ok, err := s.endpoint(c.Query("endpoint")); err != nil {
			writeError(c, err)
			return
		} else if ok && e.Kind == config.KindGDS {
			base = e.URL
		} else if strings.TrimSpace(c.Query("endpoint")) == "" {
			if g, found := s.Config().FirstOfKind(config.KindGDS); found {
				base = g.URL
			}
		}
		path, err := params.BuildGds().Path()
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, urlView{Path: path, URL: base + path, Accept: "application/json"})
		return
	}

	v, e, err := s.target(c)
	if err != nil {
		writeError(c, err)
		return
	}
	q, err := params.Build(family)
	if err != nil {
		writeError(c, err)
		return
	}
	path, err := q.URL(v, short)
	if err != nil {
		writeError(c, err)
		return
	}
	format := c.Query("format")
	if format == "" {
		format = e.Format(q.Resource())
	}
	accept, err := qb.AcceptFor(q.Resource(), format, v)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, urlView{APIVersion: v.String(), Path: path, URL: e.URL + path, Accept: accept})
}

func (s *Server) handleMatrix(c *gin.Context) {
	q, err := queryspec.FromValues(c.Request.URL.Query()).Build(c.Param("family"))
	if err != nil {
		writeError(c, err)
		return
	}
	rows := qb.Matrix(q, truthy(c.Query("short")))
	out := make([]matrixRowView, 0, len(rows))
	for _, r := range rows {
		row := matrixRowView{APIVersion: r.Version.String(), URL: r.URL}
		if !r.OK() {
			row.URL = ""
			row.Error = toErrorView(r.Err)
		}
		out = append(out, row)
	}
	resp := gin.H{"resource": q.Resource(), "rows": out}
	if v, ok := qb.FirstSupported(q); ok {
		resp["first_supported"] = v.String()
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleReload(c *gin.Context) {
	if err := s.Reload(); err != nil {
		s.log.Warn().Err(err).Msg("reload failed (api)")
		c.JSON(http.StatusConflict, gin.H{"error": errorView{Kind: "ReloadFailed", Description: err.Error()}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "endpoints": s.Config().EndpointNames()})
}

// target resolves the API version from ?api_version, falling back to the
// selected endpoint's version and then to the newest version.
func (s *Server) target(c *gin.Context) (apiversion.ApiVersion, config.Endpoint, error) {
	e, ok, err := s.endpoint(c.Query("endpoint"))
	if err != nil {
		return apiversion.ApiVersion{}, config.Endpoint{}, err
	}
	if ok && e.Kind != config.KindRegistry {
		e = config.Endpoint{}
		ok = false
	}
	if raw := strings.TrimSpace(c.Query("api_version")); raw != "" {
		v, err := apiversion.Parse(raw)
		return v, e, err
	}
	if ok {
		v, err := e.Version()
		return v, e, err
	}
	return apiversion.Latest(), e, nil
}

// endpoint returns the named endpoint, or the default one for an empty
// name. ok is false when no endpoint applies.
func (s *Server) endpoint(name string) (config.Endpoint, bool, error) {
	cfg := s.Config()
	if strings.TrimSpace(name) == "" && cfg.DefaultEndpoint == "" {
		return config.Endpoint{}, false, nil
	}
	e, err := cfg.Endpoint(name)
	if err != nil {
		return config.Endpoint{}, false, sdmxerr.ClientError("Unknown endpoint", "%s", err.Error()).WithField("endpoint")
	}
	return e, true, nil
}

func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch kind, _ := sdmxerr.KindOf(err); kind {
	case sdmxerr.KindClientError:
		status = http.StatusBadRequest
	case sdmxerr.KindInvalid:
		status = http.StatusUnprocessableEntity
	case sdmxerr.KindNotFound:
		status = http.StatusNotFound
	case sdmxerr.KindUnavailable:
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"error": toErrorView(err)})
}

func toErrorView(err error) *errorView {
	var e *sdmxerr.Error
	if errors.As(err, &e) {
		return &errorView{Kind: e.Kind.String(), Title: e.Title, Description: e.Description, Field: e.Field}
	}
	return &errorView{Kind: sdmxerr.KindInternal.String(), Description: err.Error()}
}

func truthy(s string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	return err == nil && b
}
