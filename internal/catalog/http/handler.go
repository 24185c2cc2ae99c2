package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/serp-db/serp-backend/internal/auth"
	"github.com/serp-db/serp-backend/internal/catalog/domain"
	"github.com/serp-db/serp-backend/internal/catalog/service"
	"github.com/serp-db/serp-backend/internal/logging"
)

// Catalog is the part of service.CatalogService the handlers use.
type Catalog interface {
	Run(ctx context.Context) (*service.Result, error)
	MyProjects(ctx context.Context, externalID string) (*service.Result, error)
	InspirationBin(ctx context.Context, externalID string) (*service.Result, error)
}

// Runs reads stored cycle reports.
type Runs interface {
	Get(ctx context.Context, runID string) (*domain.CycleReport, error)
	ListRecent(ctx context.Context, limit int) ([]domain.CycleReport, error)
}

type Handler struct {
	catalog Catalog
	runs    Runs
}

// New creates the catalogue handlers. runs may be nil when run reports are disabled.
func New(catalog Catalog, runs Runs) *Handler {
	return &Handler{catalog: catalog, runs: runs}
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/projects", h.listProjects)
	rg.GET("/projects/mine", h.myProjects)
	rg.GET("/inspiration-bin", h.inspirationBin)
	rg.GET("/catalog/runs", h.listRuns)
	rg.GET("/catalog/runs/:id", h.getRun)
}

func (h *Handler) listProjects(c *gin.Context) {
	ctx := c.Request.Context()

	var res *service.Result
	q := service.NewQuery(func(ctx context.Context) ([]domain.Project, error) {
		r, err := h.catalog.Run(ctx)
		if err != nil {
			return nil, err
		}
		res = r
		return r.Projects, nil
	})
	q.Start(ctx)

	st, err := q.Wait(ctx)
	if err != nil {
		// client went away; the cycle was cancelled with it
		c.Abort()
		return
	}
	if st.Err != nil {
		h.fail(c, "catalog.list_projects", st.Err)
		return
	}

	filter := service.Filter{
		Search:     c.Query("q"),
		Category:   c.Query("category"),
		Cost:       c.Query("cost"),
		SchoolYear: c.Query("schoolYear"),
	}

	body := gin.H{
		"ok":          true,
		"runId":       res.RunID,
		"projects":    filter.Apply(st.Projects),
		"schoolYears": service.SchoolYears(st.Projects),
	}
	if poty, ok := service.ProjectOfTheYear(st.Projects); ok {
		body["projectOfTheYear"] = poty
	} else {
		body["projectOfTheYear"] = nil
	}
	c.JSON(http.StatusOK, body)
}

func (h *Handler) myProjects(c *gin.Context) {
	externalID, ok := requireSubject(c)
	if !ok {
		return
	}

	res, err := h.catalog.MyProjects(c.Request.Context(), externalID)
	if err != nil {
		h.fail(c, "catalog.my_projects", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "runId": res.RunID, "projects": res.Projects})
}

func (h *Handler) inspirationBin(c *gin.Context) {
	externalID, ok := requireSubject(c)
	if !ok {
		return
	}

	res, err := h.catalog.InspirationBin(c.Request.Context(), externalID)
	if err != nil {
		h.fail(c, "catalog.inspiration_bin", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "runId": res.RunID, "projects": res.Projects})
}

func (h *Handler) listRuns(c *gin.Context) {
	if h.runs == nil {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "run history is disabled"})
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid limit"})
		return
	}

	runs, err := h.runs.ListRecent(c.Request.Context(), limit)
	if err != nil {
		logging.NewLogger(c.Request.Context()).LogError("catalog.list_runs", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "runs": runs})
}

func (h *Handler) getRun(c *gin.Context) {
	if h.runs == nil {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "run history is disabled"})
		return
	}

	run, err := h.runs.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, domain.ErrRunNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "run not found"})
		return
	}
	if err != nil {
		logging.NewLogger(c.Request.Context()).LogError("catalog.get_run", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "run": run})
}

func requireSubject(c *gin.Context) (string, bool) {
	externalID := auth.ExternalID(auth.Subject(c))
	if externalID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "sign in required"})
		c.Abort()
		return "", false
	}
	return externalID, true
}

// fail maps a cycle error to a status code. Cancelled requests get no body.
func (h *Handler) fail(c *gin.Context, op string, err error) {
	if errors.Is(err, domain.ErrCancelled) || c.Request.Context().Err() != nil {
		c.Abort()
		return
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrTimeout):
		status = http.StatusGatewayTimeout
	case errors.Is(err, domain.ErrStoreUnavailable):
		status = http.StatusServiceUnavailable
	}

	logging.NewLogger(c.Request.Context()).LogErrorf(op, "status=%d: %v", status, err)
	c.JSON(status, gin.H{"ok": false, "error": err.Error()})
}
