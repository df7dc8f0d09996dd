package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azhengyongqin/blockedby/internal/model"
)

var testTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func finishedState() *model.CrawlState {
	st := model.NewCrawlState()
	for st.Pending.Len() > 0 {
		st.Pending.PopFront()
	}
	st.AuthenticatedUserID = "1"
	st.Distance1.Add("a", "b")
	st.Distance2.Set("a", model.NewIDSet("x", "y"))
	st.Distance2.Set("b", model.NewIDSet("x"))
	st.BlockedUsers.Set("x", &model.BlockedUser{ID: "x", Name: "Ex", Handle: "ex", Introducers: model.NewIDSet("a", "b")})
	st.Failed = append(st.Failed, model.FetchDistance2{Direction: model.Outgoing, SubjectID: "c", Cursor: "-1"})
	return st
}

func TestFromState(t *testing.T) {
	r := FromState(finishedState(), testTime)

	assert.Equal(t, "1", r.AccountID)
	assert.True(t, r.Complete)
	assert.Equal(t, 2, r.Distance1)
	assert.Equal(t, 2, r.Distance2)
	assert.Equal(t, []BlockedUser{{ID: "x", Name: "Ex", Handle: "ex", Introducers: []string{"a", "b"}}}, r.BlockedUsers)
	assert.Equal(t, []string{"fetch_distance2(outgoing, subject=c, cursor=-1)"}, r.FailedTasks)
}

func TestFromState_InProgress(t *testing.T) {
	r := FromState(model.NewCrawlState(), testTime)
	assert.False(t, r.Complete)
	assert.Equal(t, 3, r.Remaining)
	assert.NotNil(t, r.BlockedUsers)
	assert.NotNil(t, r.FailedTasks)
}

func TestWriteMarkdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMarkdown(&buf, FromState(finishedState(), testTime)))

	out := buf.String()
	assert.Contains(t, out, "# Blocked-by Report")
	assert.Contains(t, out, "## Blocked Users")
	assert.Contains(t, out, "@ex")
	assert.Contains(t, out, "a, b")
	assert.Contains(t, out, "fetch_distance2(outgoing, subject=c, cursor=-1)")
	assert.Contains(t, out, "2024-05-01 12:00:00 UTC")
}

func TestWriteMarkdown_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMarkdown(&buf, FromState(model.NewCrawlState(), testTime)))
	assert.Contains(t, buf.String(), "In progress (3 remaining)")
	assert.Contains(t, buf.String(), "None.")
}

func TestEscapeCell(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"a|b", `a\|b`},
		{`a\|b`, `a\\\|b`},
		{"line1\nline2", "line1 line2"},
		{"line1\r\nline2", "line1 line2"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, escapeCell(tt.in))
		})
	}
}

func TestWriteMarkdown_EscapesCells(t *testing.T) {
	st := finishedState()
	st.BlockedUsers.Set("x", &model.BlockedUser{ID: "x", Name: "A | B\nC", Handle: "x|y", Introducers: model.NewIDSet("a")})

	var buf bytes.Buffer
	require.NoError(t, WriteMarkdown(&buf, FromState(st, testTime)))
	out := buf.String()

	// 竖线被转义，换行被折叠，行不会被拆开
	assert.Contains(t, out, `A \| B C`)
	assert.Contains(t, out, `@x\|y`)
	assert.NotContains(t, out, "A | B")
	assert.NotContains(t, out, "@x|y")
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FromState(finishedState(), testTime), FormatJSON))

	var got Result
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "1", got.AccountID)
	assert.Len(t, got.BlockedUsers, 1)
}

func TestWrite_UnknownFormat(t *testing.T) {
	assert.Error(t, Write(&bytes.Buffer{}, Result{}, Format("pdf")))
}

func TestWriteFile(t *testing.T) {
	tests := []struct {
		name   string
		file   string
		prefix string
	}{
		{name: "markdown", file: "report.md", prefix: "# Blocked-by Report"},
		{name: "json", file: "report.JSON", prefix: "{"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			require.NoError(t, WriteFile(path, FromState(finishedState(), testTime)))

			b, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(b, []byte(tt.prefix)), string(b))
		})
	}
}
