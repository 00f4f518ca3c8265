package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// TaskType controls which response a task expects.
type TaskType string

const (
	TaskCheckbox TaskType = "checkbox"
	TaskText     TaskType = "text"
	TaskYesNo    TaskType = "yes_no"
	TaskPhoto    TaskType = "photo"
)

// MaxPhotoBytes is the largest upload accepted for a photo task.
const MaxPhotoBytes int64 = 10 << 20

// CheckPhotoSize rejects a photo larger than MaxPhotoBytes.
func CheckPhotoSize(size int64) error {
	if size > MaxPhotoBytes {
		return PhotoTooLarge()
	}
	return nil
}

// PhotoTooLarge is the error shown for an oversize photo.
func PhotoTooLarge() error {
	return NewValidationError(CodeFileTooLarge, "il file supera la dimensione massima di %d MB", MaxPhotoBytes>>20)
}

// TaskTemplate is the read-only definition a TaskResponse answers.
type TaskTemplate struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Required    bool     `json:"required"`
	TaskType    TaskType `json:"task_type"`
	OrderIndex  int      `json:"order_index"`
}

// PhotoPaths is the ordered list of uploaded file names for a task.
type PhotoPaths []string

// UnmarshalJSON accepts either a JSON array or a string holding a JSON
// array, which is how the backend persists the list.
func (p *PhotoPaths) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*p = nil
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*p = list
		return nil
	}
	var encoded string
	if err := json.Unmarshal(data, &encoded); err != nil {
		return err
	}
	if encoded == "" {
		*p = nil
		return nil
	}
	if err := json.Unmarshal([]byte(encoded), &list); err != nil {
		return err
	}
	*p = list
	return nil
}

// TaskResponse is the operator's answer to one task of a checklist.
type TaskResponse struct {
	ID             int64         `json:"id"`
	TaskTemplateID int64         `json:"task_template_id"`
	Completed      bool          `json:"completed"`
	TextResponse   *string       `json:"text_response,omitempty"`
	YesNoResponse  *bool         `json:"yes_no_response,omitempty"`
	PhotoPaths     PhotoPaths    `json:"photo_paths,omitempty"`
	TaskTemplate   *TaskTemplate `json:"task_template,omitempty"`
}

// Required reports whether the task must be completed before the checklist can be.
func (t TaskResponse) Required() bool {
	return t.TaskTemplate != nil && t.TaskTemplate.Required
}

// TaskUpdate is a partial update; nil fields are left untouched.
type TaskUpdate struct {
	Completed     *bool   `json:"completed,omitempty"`
	TextResponse  *string `json:"text_response,omitempty"`
	YesNoResponse *bool   `json:"yes_no_response,omitempty"`
}

// Empty reports whether the update carries no field.
func (u TaskUpdate) Empty() bool {
	return u.Completed == nil && u.TextResponse == nil && u.YesNoResponse == nil
}

// ChecklistUpdate is the partial body of a checklist update.
// naiveLayouts are the offset-less forms the backend writes for UTC columns.
var naiveLayouts = []string{"2006-01-02T15:04:05.999999999", "2006-01-02 15:04:05.999999999", time.DateOnly}

// Timestamp decodes RFC 3339 and the backend's naive UTC timestamps
// ("2024-01-01T00:00:00"). It always encodes as RFC 3339.
type Timestamp struct {
	time.Time
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	if raw == "" {
		t.Time = time.Time{}
		return nil
	}
	if parsed, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		t.Time = parsed
		return nil
	}
	for _, layout := range naiveLayouts {
		if parsed, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("timestamp: unsupported format %q", raw)
}

type ChecklistUpdate struct {
	Completed *bool   `json:"completed,omitempty"`
	Notes     *string `json:"notes,omitempty"`
}

// Checklist is one cleaning run for an apartment. Once Completed is true the
// client must not mutate any of its task responses or notes.
type Checklist struct {
	ID            int64          `json:"id"`
	UserID        int64          `json:"user_id,omitempty"`
	ApartmentID   int64          `json:"apartment_id,omitempty"`
	Date          *Timestamp     `json:"date,omitempty"`
	Completed     bool           `json:"completed"`
	CompletedAt   *Timestamp     `json:"completed_at,omitempty"`
	Notes         string         `json:"notes"`
	TaskResponses []TaskResponse `json:"task_responses"`
}

// Clone returns a copy whose task slice can be modified independently.
func (c *Checklist) Clone() *Checklist {
	if c == nil {
		return nil
	}
	out := *c
	out.TaskResponses = make([]TaskResponse, len(c.TaskResponses))
	copy(out.TaskResponses, c.TaskResponses)
	return &out
}

// RequiredIncomplete returns the required tasks that are not completed yet.
func (c *Checklist) RequiredIncomplete() []TaskResponse {
	var out []TaskResponse
	for _, t := range c.TaskResponses {
		if t.Required() && !t.Completed {
			out = append(out, t)
		}
	}
	return out
}

// Task returns the index of the task response with the given id, or -1.
func (c *Checklist) Task(id int64) int {
	for i := range c.TaskResponses {
		if c.TaskResponses[i].ID == id {
			return i
		}
	}
	return -1
}

// Progress summarises how far a checklist is.
type Progress struct {
	Completed int     `json:"completed"`
	Total     int     `json:"total"`
	Percent   float64 `json:"percent"`
}

// Progress counts completed tasks. An empty checklist is at 0%.
func (c *Checklist) Progress() Progress {
	p := Progress{Total: len(c.TaskResponses)}
	for _, t := range c.TaskResponses {
		if t.Completed {
			p.Completed++
		}
	}
	if p.Total > 0 {
		p.Percent = float64(p.Completed) / float64(p.Total) * 100
	}
	return p
}
