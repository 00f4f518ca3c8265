package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bennati/checklist-bff/internal/api/metrics"
	"github.com/bennati/checklist-bff/internal/core/domain"
	"github.com/bennati/checklist-bff/internal/core/ports"
)

// ChecklistHandler exposes the session's checklist.
type ChecklistHandler struct{}

func NewChecklistHandler() *ChecklistHandler {
	return &ChecklistHandler{}
}

// Get returns the active checklist with its progress.
//
// @Summary      Active checklist
// @Tags         checklist
// @Produce      json
// @Success      200  {object}  checklistResponse
// @Failure      401  {object}  map[string]string
// @Failure      422  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Security     BearerAuth
// @Router       /api/checklist [get]
func (h *ChecklistHandler) Get(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	cl, err := ws.Checklist.EnsureLoaded(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, checklistResponse{Checklist: cl, Progress: cl.Progress()})
}

// UpdateTask answers one task.
//
// @Summary      Update task
// @Tags         checklist
// @Accept       json
// @Produce      json
// @Param        id    path      int                true  "Task response id"
// @Param        body  body      taskUpdateRequest  true  "Fields to change"
// @Success      200   {object}  domain.TaskResponse
// @Failure      400   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Security     BearerAuth
// @Router       /api/checklist/tasks/{id} [put]
func (h *ChecklistHandler) UpdateTask(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	taskID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req taskUpdateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	update := domain.TaskUpdate{
		Completed:     req.Completed,
		TextResponse:  req.TextResponse,
		YesNoResponse: req.YesNoResponse,
	}
	if update.Empty() {
		return echo.NewHTTPError(http.StatusBadRequest, "no field to update")
	}

	if _, err := ws.Checklist.EnsureLoaded(c.Request().Context()); err != nil {
		return err
	}
	task, err := ws.Checklist.UpdateTask(c.Request().Context(), taskID, update)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, task)
}

// UploadPhoto attaches a photo to a task. Files above 10 MB are refused
// before anything is sent to the backend.
//
// @Summary      Upload task photo
// @Tags         checklist
// @Accept       multipart/form-data
// @Produce      json
// @Param        id    path      int   true  "Task response id"
// @Param        file  formData  file  true  "Photo"
// @Success      200   {object}  checklistResponse
// @Failure      400   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Security     BearerAuth
// @Router       /api/checklist/tasks/{id}/photo [post]
func (h *ChecklistHandler) UploadPhoto(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	taskID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	fh, err := c.FormFile("file")
	if errors.Is(err, echo.ErrStatusRequestEntityTooLarge) {
		return domain.PhotoTooLarge()
	}
	if err != nil {
		return domain.NewValidationError(domain.CodeMissingField, "nessun file selezionato")
	}
	// Rejected before anything is fetched from the backend.
	if err := domain.CheckPhotoSize(fh.Size); err != nil {
		return err
	}

	if _, err := ws.Checklist.EnsureLoaded(c.Request().Context()); err != nil {
		return err
	}

	f, err := fh.Open()
	if err != nil {
		return err
	}
	defer f.Close()
	photo := ports.PhotoUpload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(echo.HeaderContentType),
		Size:        fh.Size,
		Content:     f,
	}

	cl, err := ws.Checklist.UploadPhoto(c.Request().Context(), taskID, photo)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, checklistResponse{Checklist: cl, Progress: cl.Progress()})
}

// SaveNotes stores the checklist notes.
//
// @Summary      Save notes
// @Tags         checklist
// @Accept       json
// @Produce      json
// @Param        body  body      notesRequest  true  "Notes"
// @Success      200   {object}  checklistResponse
// @Failure      422   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Security     BearerAuth
// @Router       /api/checklist/notes [put]
func (h *ChecklistHandler) SaveNotes(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	var req notesRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if _, err := ws.Checklist.EnsureLoaded(c.Request().Context()); err != nil {
		return err
	}
	cl, err := ws.Checklist.SaveNotes(c.Request().Context(), req.Notes)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, checklistResponse{Checklist: cl, Progress: cl.Progress()})
}

// Complete marks the checklist as done. Every required task must be
// completed first.
//
// @Summary      Complete checklist
// @Tags         checklist
// @Accept       json
// @Produce      json
// @Param        body  body      completeRequest  false  "Final notes, current notes when absent"
// @Success      200   {object}  checklistResponse
// @Failure      422   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Security     BearerAuth
// @Router       /api/checklist/complete [post]
func (h *ChecklistHandler) Complete(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	var req completeRequest
	if c.Request().ContentLength != 0 {
		if err := bindAndValidate(c, &req); err != nil {
			return err
		}
	}

	current, err := ws.Checklist.EnsureLoaded(c.Request().Context())
	if err != nil {
		return err
	}
	notes := current.Notes
	if req.Notes != nil {
		notes = *req.Notes
	}

	cl, err := ws.Checklist.Complete(c.Request().Context(), notes)
	if err != nil {
		return err
	}
	metrics.ChecklistCompletionsTotal.Inc()
	return c.JSON(http.StatusOK, checklistResponse{Checklist: cl, Progress: cl.Progress()})
}
