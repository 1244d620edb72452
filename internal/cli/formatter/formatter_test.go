package formatter

import (
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/linimasa/internal/chat"
	"github.com/alexanderramin/linimasa/internal/dashboard"
	"github.com/alexanderramin/linimasa/internal/domain"
	"github.com/alexanderramin/linimasa/internal/registry"
	"github.com/alexanderramin/linimasa/internal/testutil"
	"github.com/alexanderramin/linimasa/internal/timeline"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func plain(s string) string {
	return ansi.Strip(s)
}

func TestRelativeDateFrom(t *testing.T) {
	now := time.Date(2026, 2, 7, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		input time.Time
		want  string
	}{
		{"today", now, "Today"},
		{"tomorrow", now.Add(24 * time.Hour), "Tomorrow"},
		{"yesterday", now.Add(-24 * time.Hour), "Yesterday"},
		{"3 days future", now.Add(3 * 24 * time.Hour), "In 3d"},
		{"3 days past", now.Add(-3 * 24 * time.Hour), "3d ago"},
		{"3 weeks future", now.Add(21 * 24 * time.Hour), "In 3w"},
		{"3 months future", now.Add(90 * 24 * time.Hour), "In 3mo"},
		{"2 weeks past", now.Add(-14 * 24 * time.Hour), "2w ago"},
		{"3 months past", now.Add(-90 * 24 * time.Hour), "3mo ago"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RelativeDateFrom(tt.input, now))
		})
	}
}

func TestHumanTimestamp(t *testing.T) {
	now := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "Just now", HumanTimestamp(now.Add(-10*time.Second), now))
	assert.Equal(t, "5m ago", HumanTimestamp(now.Add(-5*time.Minute), now))
	assert.Equal(t, "3h ago", HumanTimestamp(now.Add(-3*time.Hour), now))
	assert.Equal(t, "Oct 12 12:00", HumanTimestamp(now.Add(-48*time.Hour), now))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "Design", Truncate("Design", 10))
	assert.Equal(t, "Desi…", Truncate("Design Phase", 5))
	assert.Equal(t, "…", Truncate("Design", 1))
	assert.Equal(t, "", Truncate("Design", 0))
}

func TestDateRange(t *testing.T) {
	assert.Equal(t, "Jan 8 – Jan 21", DateRange(testutil.Date(2024, 1, 8), testutil.Date(2024, 1, 21)))
	assert.Equal(t, "Dec 25 2023 – Jan 4 2024", DateRange(testutil.Date(2023, 12, 25), testutil.Date(2024, 1, 4)))
}

func TestRenderProgress(t *testing.T) {
	tests := []struct {
		name string
		pct  float64
		want string
	}{
		{"empty", 0, "[░░░░░░░░░░]   0%"},
		{"half", 0.5, "[█████░░░░░]  50%"},
		{"full", 1, "[██████████] 100%"},
		{"over 100% clamps", 1.5, "[██████████] 100%"},
		{"negative clamps", -0.5, "[░░░░░░░░░░]   0%"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, plain(RenderProgress(tt.pct, 10)))
		})
	}
}

func TestRenderCompactBar(t *testing.T) {
	got := plain(RenderCompactBar(0.75, 4))
	assert.Equal(t, "███░", got)
	assert.NotContains(t, got, "[")
	assert.Equal(t, "░░", plain(RenderCompactBar(0, 1)), "tiny width clamps to 2")
}

func TestRenderTable_AlignsStyledCells(t *testing.T) {
	out := plain(RenderTable(
		[]string{"ID", "NAME"},
		[][]string{{StyleRed.Render("1"), "Project Planning"}, {"22", "Design"}},
	))
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "ID  NAME", lines[0])
	assert.Equal(t, "──  ────────────────", lines[1])
	assert.Equal(t, "1   Project Planning", lines[2])
	assert.Equal(t, "22  Design", lines[3])
	assert.Empty(t, RenderTable(nil, nil))
}

func TestStatusPillAndPriorityDot(t *testing.T) {
	assert.Equal(t, "● In Progress", plain(StatusPill(domain.StatusInProgress)))
	assert.Equal(t, "✔ Completed", plain(StatusPill(domain.StatusCompleted)))
	assert.Equal(t, "● Critical", plain(PriorityDot(domain.PriorityCritical)))
	assert.Equal(t, "● --", plain(PriorityDot("")))
}

func TestFormatTaskTable(t *testing.T) {
	out := plain(FormatTaskTable(testutil.GanttTasks()))
	assert.Contains(t, out, "Design Phase")
	assert.Contains(t, out, "Jan 8 – Jan 21")
	assert.Contains(t, out, "75%")
	assert.Contains(t, out, "Jane Smith")
	assert.Equal(t, "No tasks.\n", plain(FormatTaskTable(nil)))
}

func TestFormatTaskDetail_SkipsEmptyFields(t *testing.T) {
	task := testutil.NewTestTask("Security Audit", testutil.WithID("9"))
	out := plain(FormatTaskDetail(task, testutil.Date(2024, 1, 5)))
	assert.Contains(t, out, "Security Audit")
	assert.Contains(t, out, "2024-01-07 · In 2d")
	assert.Contains(t, out, "╭")
	assert.Contains(t, out, "Test Team")
	assert.NotContains(t, out, "Project")
	assert.NotContains(t, out, "Notes")
}

func TestColumnsPerCell(t *testing.T) {
	assert.Equal(t, 3, ColumnsPerCell(domain.GranularityDay))
	assert.Equal(t, 6, ColumnsPerCell(domain.GranularityWeek))
	assert.Equal(t, 8, ColumnsPerCell(domain.GranularityMonth))
}

func newSnapshot(t *testing.T, g domain.Granularity, anchor time.Time) dashboard.Snapshot {
	t.Helper()
	reg := registry.New()
	for _, task := range testutil.GanttTasks() {
		_, err := reg.Add(task)
		require.NoError(t, err)
	}
	board := dashboard.NewBoard(reg, timeline.NewViewState(anchor, g),
		dashboard.WithClock(testutil.FixedClock(testutil.Date(2024, 1, 15))))
	return board.Snapshot()
}

func TestRenderTimeline_DayView(t *testing.T) {
	snap := newSnapshot(t, domain.GranularityDay, testutil.Date(2024, 1, 1))
	out := plain(RenderTimeline(snap.View, snap.Ticks, snap.Bars, TimelineOptions{Selected: "2", Today: snap.Now}))
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 8)

	assert.Equal(t, "January 2024  day view", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], strings.Repeat(" ", 22)+"1  2  3  "))

	pad := strings.Repeat(" ", nameColumnWidth-len("Design Phase"))
	// 7 days from the window start at 3 columns each, 13 days long, 75% filled.
	design := "› Design Phase" + pad + strings.Repeat(" ", 21) +
		strings.Repeat(barFill, 29) + strings.Repeat(barTrack, 10)
	assert.Equal(t, design, lines[4])

	assert.True(t, strings.HasPrefix(lines[3], "  Project Planning"))
	assert.True(t, strings.HasSuffix(lines[5], overflowMarker), "development runs past the window")
	assert.True(t, strings.HasSuffix(lines[7], overflowMarker), "deployment starts after the window")
}

func TestRenderTimeline_ClippedBarGetsMarker(t *testing.T) {
	snap := newSnapshot(t, domain.GranularityWeek, testutil.Date(2024, 2, 1))
	out := plain(RenderTimeline(snap.View, snap.Ticks, snap.Bars, TimelineOptions{}))
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	assert.Contains(t, lines[1], "W1")
	assert.Contains(t, lines[3], clippedMarker)
}

func TestRenderTimeline_Empty(t *testing.T) {
	view := timeline.NewViewState(testutil.Date(2024, 1, 1), domain.GranularityMonth)
	out := plain(RenderTimeline(*view, nil, nil, TimelineOptions{}))
	assert.Contains(t, out, "No tasks")
}

func TestFormatStats(t *testing.T) {
	snap := newSnapshot(t, domain.GranularityDay, testutil.Date(2024, 1, 1))
	out := plain(FormatStats(snap))
	assert.Contains(t, out, "Total tasks")
	assert.Contains(t, out, "41%")
	assert.Contains(t, out, "BY STATUS")
	assert.Contains(t, out, "8 days overdue")
	assert.Contains(t, out, "6 days left")
}

func TestFormatDeadlines_Limit(t *testing.T) {
	snap := newSnapshot(t, domain.GranularityDay, testutil.Date(2024, 1, 1))
	out := plain(FormatDeadlines(snap.Deadlines, 2))
	assert.Equal(t, 2, strings.Count(out, "\n"))
	assert.Contains(t, plain(FormatDeadlines(nil, 0)), "No upcoming deadlines")
}

func TestFormatMessage(t *testing.T) {
	now := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)
	msg := chat.Message{
		Role:       chat.RoleUser,
		Content:    "Lihat lampiran",
		Attachment: &chat.Attachment{Name: "plan.pdf", MediaType: "application/pdf", Size: 2048},
		CreatedAt:  now,
	}
	out := plain(FormatMessage(msg, nil, 80, now))
	assert.Contains(t, out, "You Just now")
	assert.Contains(t, out, "plan.pdf")
	assert.Contains(t, out, "2.0 KB")
	assert.Contains(t, out, "Lihat lampiran")
}

func TestFormatTranscript_MarksUnansweredTurns(t *testing.T) {
	now := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)
	msgs := []chat.Message{
		{Role: chat.RoleUser, Content: "first", CreatedAt: now},
		{Role: chat.RoleAssistant, Content: "answered", CreatedAt: now},
		{Role: chat.RoleUser, Content: "cancelled one", CreatedAt: now},
		{Role: chat.RoleUser, Content: "last", CreatedAt: now},
	}
	blocks := FormatTranscript(msgs, nil, 80, now)
	require.Len(t, blocks, 4)
	assert.NotContains(t, plain(blocks[0]), noReplyNote)
	assert.NotContains(t, plain(blocks[1]), noReplyNote)
	assert.Contains(t, plain(blocks[2]), noReplyNote)
	assert.Contains(t, plain(blocks[3]), noReplyNote)
	assert.Empty(t, FormatTranscript(nil, nil, 80, now))
}

func TestMarkdownRenderer(t *testing.T) {
	var md MarkdownRenderer
	assert.Empty(t, md.Render("   ", 80))

	out := plain(md.Render("**Design Phase** ends soon", 80))
	assert.Contains(t, out, "Design Phase")
	assert.NotContains(t, out, "**")
}

func TestFormatRoomList(t *testing.T) {
	now := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)
	out := plain(FormatRoomList([]chat.Room{{ID: "room-1", Title: "Standup", UpdatedAt: now}}, now))
	assert.Contains(t, out, "room-1")
	assert.Contains(t, out, "Standup")
	assert.Contains(t, plain(FormatRoomList(nil, now)), "No conversations")
}

func TestSpinner_StopClearsLineAndIsIdempotent(t *testing.T) {
	var buf strings.Builder
	stop := StartSpinner(&buf, "Thinking...")
	stop()
	stop()
	assert.True(t, strings.HasSuffix(buf.String(), "\r\033[K"))
}

func TestElapsedLabel(t *testing.T) {
	assert.Equal(t, "0s", elapsedLabel(400*time.Millisecond))
	assert.Equal(t, "2s", elapsedLabel(2900*time.Millisecond))
}
