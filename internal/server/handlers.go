package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/practiz/internal/exercisegen"
	"github.com/abhisek/practiz/internal/logger"
	"github.com/abhisek/practiz/internal/practice"
)

type apiError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Field   string `json:"field,omitempty"`
}

type errorEnvelope struct {
	Error apiError `json:"error"`
}

type handler struct {
	svc Practice
	log *logger.Logger
}

func (h *handler) health(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// POST /api/v1/exercises/generate
func (h *handler) generate(c *gin.Context) {
	var req practice.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}

	resp, err := h.svc.Generate(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// POST /api/v1/exercises/submit
func (h *handler) submit(c *gin.Context) {
	var req practice.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}

	resp, err := h.svc.Submit(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GET /api/v1/exercises/:id
func (h *handler) get(c *gin.Context) {
	ex, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ex)
}

// GET /api/v1/exercises/:id/hints?count=N&all=true
func (h *handler) hints(c *gin.Context) {
	n := 1
	if v := c.Query("count"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			respondError(c, http.StatusBadRequest, "bad_request", errors.New("count must be a non-negative integer"))
			return
		}
		n = parsed
	}
	all, _ := strconv.ParseBool(c.Query("all"))

	hints, err := h.svc.Hints(c.Request.Context(), c.Param("id"), n, all)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"hints": hints})
}

func (h *handler) fail(c *gin.Context, err error) {
	var reqErr *exercisegen.RequestError
	switch {
	case errors.As(err, &reqErr):
		c.JSON(http.StatusBadRequest, errorEnvelope{Error: apiError{
			Message: reqErr.Error(),
			Code:    "invalid_request",
			Field:   reqErr.Field,
		}})
	case errors.Is(err, practice.ErrExerciseNotFound):
		respondError(c, http.StatusNotFound, "not_found", err)
	default:
		h.log.Error("request failed", "path", c.FullPath(), "error", err)
		respondError(c, http.StatusInternalServerError, "internal", errors.New("internal error"))
	}
}

func respondError(c *gin.Context, status int, code string, err error) {
	c.JSON(status, errorEnvelope{Error: apiError{Message: err.Error(), Code: code}})
}
