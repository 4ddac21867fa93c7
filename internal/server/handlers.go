package server

import (
	"errors"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/spigell/jobhunter/internal/applications"
	"github.com/spigell/jobhunter/internal/jobs"
	"github.com/spigell/jobhunter/internal/tracker"
)

type matchRequest struct {
	Description string `json:"description" binding:"required"`
}

type updateStatusRequest struct {
	Company string `json:"company" binding:"required"`
	Status  string `json:"status" binding:"required"`
	Notes   string `json:"notes"`
}

type markAppliedRequest struct {
	Company   string `json:"company" binding:"required"`
	JobTitle  string `json:"job_title" binding:"required"`
	Timestamp string `json:"timestamp"`
}

func fail(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"success": false, "error": message})
}

func (h *handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *handler) dashboard(c *gin.Context) {
	if h.Tracker == nil {
		fail(c, http.StatusServiceUnavailable, "tracker is not configured")
		return
	}
	c.JSON(http.StatusOK, h.Tracker.Statistics(h.Now()))
}

func (h *handler) applications(c *gin.Context) {
	if h.Store == nil {
		c.JSON(http.StatusOK, []applications.Info{})
		return
	}

	infos, err := h.Store.List()
	if err != nil {
		_ = c.Error(err)
		fail(c, http.StatusInternalServerError, "failed to list applications")
		return
	}
	c.JSON(http.StatusOK, infos)
}

func (h *handler) application(c *gin.Context) {
	if h.Store == nil {
		fail(c, http.StatusNotFound, "Application not found")
		return
	}

	details, err := h.Store.Details(c.Param("folder"))
	if err != nil {
		h.storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

func (h *handler) download(c *gin.Context) {
	kind := c.Param("type")
	if kind != applications.KindResume && kind != applications.KindCoverLetter {
		fail(c, http.StatusBadRequest, "Invalid file type")
		return
	}
	if h.Store == nil {
		fail(c, http.StatusNotFound, "File not found")
		return
	}

	path, err := h.Store.File(c.Param("folder"), kind)
	if err != nil {
		h.storeError(c, err)
		return
	}
	c.FileAttachment(path, filepath.Base(path))
}

func (h *handler) storeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, applications.ErrInvalidKind):
		fail(c, http.StatusBadRequest, "Invalid file type")
	case errors.Is(err, applications.ErrOutsideDir):
		fail(c, http.StatusBadRequest, "Invalid folder")
	case errors.Is(err, applications.ErrNotFound):
		fail(c, http.StatusNotFound, "Application not found")
	default:
		_ = c.Error(err)
		fail(c, http.StatusInternalServerError, "failed to read application")
	}
}

func (h *handler) loadJobs(c *gin.Context) (*jobs.Jobs, bool) {
	if h.JobsFile == "" {
		return &jobs.Jobs{}, true
	}

	v, err := jobs.Load(h.JobsFile)
	if err != nil {
		_ = c.Error(err)
		fail(c, http.StatusInternalServerError, "failed to load jobs")
		return nil, false
	}
	return v, true
}

func (h *handler) jobs(c *gin.Context) {
	v, ok := h.loadJobs(c)
	if !ok {
		return
	}

	items := v.Items
	if items == nil {
		items = []*jobs.Job{}
	}
	c.JSON(http.StatusOK, items)
}

func (h *handler) prioritized(c *gin.Context) {
	v, ok := h.loadJobs(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.Scorer.Categorize(v).Output())
}

func (h *handler) match(c *gin.Context) {
	var req matchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	skills := h.Profile.SkillSet()
	c.JSON(http.StatusOK, h.Matcher.Match(req.Description, skills))
}

func (h *handler) updateStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	if h.Tracker == nil {
		fail(c, http.StatusServiceUnavailable, "tracker is not configured")
		return
	}

	status, ok := tracker.ParseStatus(req.Status)
	if !ok {
		fail(c, http.StatusBadRequest, "unknown status")
		return
	}

	app, found := h.Tracker.FindByCompany(req.Company)
	if !found {
		fail(c, http.StatusNotFound, "Application not found")
		return
	}

	if err := h.Tracker.UpdateStatus(app.ID, status, req.Notes); err != nil {
		_ = c.Error(err)
		fail(c, http.StatusInternalServerError, "failed to update status")
		return
	}

	h.Logger.Info("status updated", zap.Int("id", app.ID), zap.String("company", app.Company), zap.String("status", string(status)))
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *handler) markApplied(c *gin.Context) {
	var req markAppliedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	if h.Store == nil {
		fail(c, http.StatusNotFound, "Application not found")
		return
	}

	info, err := h.Store.MarkApplied(req.Company, req.JobTitle, req.Timestamp)
	if err != nil {
		h.storeError(c, err)
		return
	}

	h.Logger.Info("application marked as applied", zap.String("folder", info.Folder))
	c.JSON(http.StatusOK, gin.H{"success": true})
}
