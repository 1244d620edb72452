package httpapi

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/linimasa/internal/chat"
	"github.com/alexanderramin/linimasa/internal/dashboard"
	"github.com/alexanderramin/linimasa/internal/domain"
	"github.com/alexanderramin/linimasa/internal/stats"
	"github.com/alexanderramin/linimasa/internal/timeline"
)

// TaskDTO is the wire form of a task. Dates are YYYY-MM-DD.
type TaskDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	DueDate     string `json:"dueDate"`
	Progress    int    `json:"progress"`
	Assignee    string `json:"assignee"`
	Priority    string `json:"priority"`
	Status      string `json:"status"`
	Description string `json:"description,omitempty"`
	Project     string `json:"project,omitempty"`
}

func toTaskDTO(t domain.Task) TaskDTO {
	return TaskDTO{
		ID:          t.ID,
		Name:        t.Name,
		StartDate:   t.StartDate.Format(domain.DateLayout),
		EndDate:     t.EndDate.Format(domain.DateLayout),
		DueDate:     t.DueDate().Format(domain.DateLayout),
		Progress:    t.Progress,
		Assignee:    t.Assignee,
		Priority:    string(t.Priority),
		Status:      string(t.Status),
		Description: t.Description,
		Project:     t.Project,
	}
}

func toTaskDTOs(tasks []domain.Task) []TaskDTO {
	out := make([]TaskDTO, len(tasks))
	for i, t := range tasks {
		out[i] = toTaskDTO(t)
	}
	return out
}

// TaskInput is the POST /tasks body.
type TaskInput struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Progress    int    `json:"progress"`
	Assignee    string `json:"assignee"`
	Priority    string `json:"priority,omitempty"`
	Status      string `json:"status,omitempty"`
	Description string `json:"description,omitempty"`
	Project     string `json:"project,omitempty"`
}

func parseDateField(field, value string) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return time.Time{}, &domain.ValidationError{Field: field, Reason: "is required"}
	}
	d, err := domain.ParseDate(value)
	if err != nil {
		return time.Time{}, &domain.ValidationError{Field: field, Reason: fmt.Sprintf("invalid date %q (expected YYYY-MM-DD)", value)}
	}
	return d, nil
}

func (in TaskInput) toTask() (domain.Task, error) {
	start, err := parseDateField("startDate", in.StartDate)
	if err != nil {
		return domain.Task{}, err
	}
	end, err := parseDateField("endDate", in.EndDate)
	if err != nil {
		return domain.Task{}, err
	}
	t := domain.Task{
		ID:          strings.TrimSpace(in.ID),
		Name:        in.Name,
		StartDate:   start,
		EndDate:     end,
		Progress:    in.Progress,
		Assignee:    in.Assignee,
		Description: in.Description,
		Project:     in.Project,
	}
	if in.Priority != "" {
		if t.Priority, err = domain.ParsePriority(in.Priority); err != nil {
			return domain.Task{}, err
		}
	}
	if in.Status != "" {
		if t.Status, err = domain.ParseStatus(in.Status); err != nil {
			return domain.Task{}, err
		}
	}
	return t, nil
}

// TaskPatchInput is the PATCH /tasks/{id} body. Absent fields are kept.
type TaskPatchInput struct {
	Name        *string `json:"name,omitempty"`
	StartDate   *string `json:"startDate,omitempty"`
	EndDate     *string `json:"endDate,omitempty"`
	Progress    *int    `json:"progress,omitempty"`
	Assignee    *string `json:"assignee,omitempty"`
	Priority    *string `json:"priority,omitempty"`
	Status      *string `json:"status,omitempty"`
	Description *string `json:"description,omitempty"`
	Project     *string `json:"project,omitempty"`
}

func (in TaskPatchInput) toPatch() (domain.TaskPatch, error) {
	p := domain.TaskPatch{
		Name:        in.Name,
		Progress:    in.Progress,
		Assignee:    in.Assignee,
		Description: in.Description,
		Project:     in.Project,
	}
	if in.StartDate != nil {
		d, err := parseDateField("startDate", *in.StartDate)
		if err != nil {
			return domain.TaskPatch{}, err
		}
		p.StartDate = &d
	}
	if in.EndDate != nil {
		d, err := parseDateField("endDate", *in.EndDate)
		if err != nil {
			return domain.TaskPatch{}, err
		}
		p.EndDate = &d
	}
	if in.Priority != nil {
		v, err := domain.ParsePriority(*in.Priority)
		if err != nil {
			return domain.TaskPatch{}, err
		}
		p.Priority = &v
	}
	if in.Status != nil {
		v, err := domain.ParseStatus(*in.Status)
		if err != nil {
			return domain.TaskPatch{}, err
		}
		p.Status = &v
	}
	return p, nil
}

type TickDTO struct {
	Date  string `json:"date"`
	Label string `json:"label"`
}

type BarDTO struct {
	TaskID        string  `json:"taskId"`
	Name          string  `json:"name"`
	Offset        float64 `json:"offset"`
	Length        float64 `json:"length"`
	OverlayLength float64 `json:"overlayLength"`
	Clipped       bool    `json:"clipped"`
}

// TimelineDTO is the GET /timeline response.
type TimelineDTO struct {
	Anchor      string    `json:"anchor"`
	Granularity string    `json:"granularity"`
	Label       string    `json:"label"`
	CellWidth   float64   `json:"cellWidth"`
	Width       float64   `json:"width"`
	Ticks       []TickDTO `json:"ticks"`
	Bars        []BarDTO  `json:"bars"`
}

func toTimelineDTO(view timeline.ViewState, tasks []domain.Task) TimelineDTO {
	ticks := timeline.Ticks(view)
	bars := timeline.LayoutAll(tasks, view)
	out := TimelineDTO{
		Anchor:      view.Anchor.Format(domain.DateLayout),
		Granularity: string(view.Granularity),
		Label:       view.Label(),
		CellWidth:   view.Granularity.CellWidth(),
		Width:       timeline.Width(view),
		Ticks:       make([]TickDTO, len(ticks)),
		Bars:        make([]BarDTO, len(bars)),
	}
	for i, tk := range ticks {
		out.Ticks[i] = TickDTO{Date: tk.Date.Format(domain.DateLayout), Label: tk.Label}
	}
	for i, b := range bars {
		out.Bars[i] = BarDTO{
			TaskID:        b.Task.ID,
			Name:          b.Task.Name,
			Offset:        b.Bar.Offset,
			Length:        b.Bar.Length,
			OverlayLength: b.Bar.OverlayLength,
			Clipped:       b.Bar.Clipped,
		}
	}
	return out
}

// StatsDTO is the GET /stats response.
type StatsDTO struct {
	Today           string         `json:"today"`
	Total           int            `json:"total"`
	Overdue         int            `json:"overdue"`
	DueSoon         int            `json:"dueSoon"`
	ByStatus        map[string]int `json:"byStatus"`
	ByPriority      map[string]int `json:"byPriority"`
	AverageProgress float64        `json:"averageProgress"`
}

func toStatsDTO(s stats.Summary, today time.Time) StatsDTO {
	out := StatsDTO{
		Today:           today.Format(domain.DateLayout),
		Total:           s.Total,
		Overdue:         s.Overdue,
		DueSoon:         s.DueSoon,
		ByStatus:        make(map[string]int, len(s.ByStatus)),
		ByPriority:      make(map[string]int, len(s.ByPriority)),
		AverageProgress: s.AverageProgress,
	}
	for k, v := range s.ByStatus {
		out.ByStatus[string(k)] = v
	}
	for k, v := range s.ByPriority {
		out.ByPriority[string(k)] = v
	}
	return out
}

type DeadlineDTO struct {
	Task         TaskDTO `json:"task"`
	DaysUntilDue int     `json:"daysUntilDue"`
	Urgency      string  `json:"urgency"`
	Label        string  `json:"label"`
}

func toDeadlineDTOs(ds []dashboard.Deadline) []DeadlineDTO {
	out := make([]DeadlineDTO, len(ds))
	for i, d := range ds {
		out[i] = DeadlineDTO{
			Task:         toTaskDTO(d.Task),
			DaysUntilDue: d.DaysUntilDue,
			Urgency:      string(d.Urgency),
			Label:        d.Label,
		}
	}
	return out
}

type RoomDTO struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toRoomDTO(r chat.Room) RoomDTO {
	return RoomDTO{ID: r.ID, Title: r.Title, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt}
}

type AttachmentDTO struct {
	Name      string `json:"name"`
	MediaType string `json:"mediaType"`
	Size      int64  `json:"size"`
}

type MessageDTO struct {
	ID         string         `json:"id"`
	RoomID     string         `json:"roomId"`
	Role       string         `json:"role"`
	Content    string         `json:"content"`
	Attachment *AttachmentDTO `json:"attachment,omitempty"`
	CreatedAt  time.Time      `json:"createdAt"`
}

func toMessageDTO(m chat.Message) MessageDTO {
	out := MessageDTO{
		ID:        m.ID,
		RoomID:    m.RoomID,
		Role:      string(m.Role),
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	}
	if a := m.Attachment; a != nil {
		out.Attachment = &AttachmentDTO{Name: a.Name, MediaType: a.MediaType, Size: a.Size}
	}
	return out
}

type RoomInput struct {
	Title string `json:"title"`
}

// SendInput is the body for posting a chat message.
type SendInput struct {
	Content    string         `json:"content"`
	Attachment *AttachmentDTO `json:"attachment,omitempty"`
}

func (in SendInput) toDraft() chat.Draft {
	d := chat.Draft{Text: in.Content}
	if a := in.Attachment; a != nil {
		d.Attachment = &chat.Attachment{Name: a.Name, MediaType: a.MediaType, Size: a.Size}
	}
	return d
}
