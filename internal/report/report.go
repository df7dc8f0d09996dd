// Package report 根据爬取状态生成结果报告（Markdown / JSON）。
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/nao1215/markdown"

	"github.com/azhengyongqin/blockedby/internal/model"
)

// BlockedUser 报告中的拉黑用户
type BlockedUser struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Handle      string   `json:"handle"`
	Introducers []string `json:"introducers"`
}

// Result 爬取结果
type Result struct {
	AccountID    string        `json:"account_id"`
	Complete     bool          `json:"complete"`
	Remaining    int           `json:"remaining"`
	Distance1    int           `json:"distance1"`
	Distance2    int           `json:"distance2"`
	BlockedUsers []BlockedUser `json:"blocked_users"`
	FailedTasks  []string      `json:"failed_tasks"`
	GeneratedAt  time.Time     `json:"generated_at"`
}

// FromState 从状态构建结果；队列为空即视为完成
func FromState(st *model.CrawlState, now time.Time) Result {
	r := Result{
		AccountID:    st.AuthenticatedUserID,
		Complete:     st.Pending.Len() == 0,
		Remaining:    st.Pending.Len(),
		Distance1:    st.Distance1.Len(),
		Distance2:    st.Distance2Count(),
		BlockedUsers: make([]BlockedUser, 0, st.BlockedUsers.Len()),
		FailedTasks:  make([]string, 0, len(st.Failed)),
		GeneratedAt:  now,
	}
	st.BlockedUsers.Range(func(_ string, u *model.BlockedUser) bool {
		introducers := []string{}
		if u.Introducers != nil {
			introducers = u.Introducers.Values()
		}
		r.BlockedUsers = append(r.BlockedUsers, BlockedUser{
			ID:          u.ID,
			Name:        u.Name,
			Handle:      u.Handle,
			Introducers: introducers,
		})
		return true
	})
	for _, t := range st.Failed {
		r.FailedTasks = append(r.FailedTasks, model.Describe(t))
	}
	return r
}

// Format 输出格式
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// FormatForPath 按扩展名选择格式，默认 Markdown
func FormatForPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatMarkdown
}

// Write 以指定格式输出
func Write(w io.Writer, r Result, f Format) error {
	switch f {
	case FormatJSON:
		return WriteJSON(w, r)
	case FormatMarkdown, "":
		return WriteMarkdown(w, r)
	default:
		return fmt.Errorf("unknown report format %q", f)
	}
}

// WriteFile 写入报告文件
func WriteFile(path string, r Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	if err := Write(f, r, FormatForPath(path)); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func WriteJSON(w io.Writer, r Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

func WriteMarkdown(w io.Writer, r Result) error {
	md := markdown.NewMarkdown(w)

	md.H1("Blocked-by Report")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Account", "`" + r.AccountID + "`"},
			{"Generated", r.GeneratedAt.Format("2006-01-02 15:04:05 MST")},
			{"Distance-1 accounts", strconv.Itoa(r.Distance1)},
			{"Distance-2 accounts", strconv.Itoa(r.Distance2)},
			{"Blocked by", strconv.Itoa(len(r.BlockedUsers))},
			{"Failed fetches", strconv.Itoa(len(r.FailedTasks))},
			{"Status", statusText(r)},
		},
	})
	md.PlainText("")

	switch {
	case !r.Complete:
		md.Importantf("Crawl still in progress, %d task(s) remaining. Results are partial.", r.Remaining)
	case len(r.BlockedUsers) > 0:
		md.Warningf("%d account(s) at distance two have blocked this account.", len(r.BlockedUsers))
	default:
		md.Tip("No distance-two account has blocked this account.")
	}
	md.PlainText("")

	md.H2("Blocked Users")
	md.PlainText("")
	if len(r.BlockedUsers) == 0 {
		md.PlainText("None.")
	} else {
		rows := make([][]string, 0, len(r.BlockedUsers))
		for _, u := range r.BlockedUsers {
			rows = append(rows, []string{
				"@" + escapeCell(u.Handle),
				escapeCell(u.Name),
				escapeCell(u.ID),
				escapeCell(joinOrDash(u.Introducers)),
			})
		}
		md.Table(markdown.TableSet{
			Header: []string{"Handle", "Name", "ID", "Introducers"},
			Rows:   rows,
		})
	}
	md.PlainText("")

	md.H2("Failed Tasks")
	md.PlainText("")
	if len(r.FailedTasks) == 0 {
		md.PlainText("None.")
	} else {
		md.BulletList(r.FailedTasks...)
	}

	return md.Build()
}

func statusText(r Result) string {
	if r.Complete {
		return "Complete"
	}
	return fmt.Sprintf("In progress (%d remaining)", r.Remaining)
}

// escapeCell 用户名等来自外部，| 和换行会破坏表格
func escapeCell(s string) string {
	return cellEscaper.Replace(s)
}

var cellEscaper = strings.NewReplacer(
	`\`, `\\`,
	"|", `\|`,
	"\r\n", " ",
	"\n", " ",
	"\r", " ",
)

func joinOrDash(ids []string) string {
	if len(ids) == 0 {
		return "-"
	}
	return strings.Join(ids, ", ")
}
