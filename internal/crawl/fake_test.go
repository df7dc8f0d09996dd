package crawl

import (
	"context"
	"errors"
	"time"

	"github.com/azhengyongqin/blockedby/internal/checkpoint"
	"github.com/azhengyongqin/blockedby/internal/model"
)

var errUpstream = errors.New("upstream unavailable")

func pageKey(dir model.Direction, subjectID, cursor string) string {
	return string(dir) + "/" + subjectID + "/" + cursor
}

// fakeClient 按 方向/用户/游标 返回预置的分页；未配置的请求返回空的最后一页
type fakeClient struct {
	me        string
	verifyErr error
	pages     map[string]model.ConnectionPage
	listErr   map[string]error
	blocked   map[string]bool
	lookupErr error

	listCalls []string
	lookups   [][]string
}

func newFakeClient(me string) *fakeClient {
	return &fakeClient{
		me:      me,
		pages:   map[string]model.ConnectionPage{},
		listErr: map[string]error{},
		blocked: map[string]bool{},
	}
}

func (c *fakeClient) page(dir model.Direction, subjectID, cursor string, next string, ids ...string) *fakeClient {
	c.pages[pageKey(dir, subjectID, cursor)] = model.ConnectionPage{IDs: ids, NextCursor: next}
	return c
}

func (c *fakeClient) VerifyIdentity(_ context.Context) (string, error) {
	if c.verifyErr != nil {
		return "", c.verifyErr
	}
	return c.me, nil
}

func (c *fakeClient) ListConnections(_ context.Context, dir model.Direction, subjectID, cursor string) (model.ConnectionPage, error) {
	key := pageKey(dir, subjectID, cursor)
	c.listCalls = append(c.listCalls, key)
	if err, ok := c.listErr[key]; ok {
		return model.ConnectionPage{}, err
	}
	if p, ok := c.pages[key]; ok {
		return p, nil
	}
	return model.ConnectionPage{NextCursor: model.LastCursor}, nil
}

func (c *fakeClient) LookupBlockedStatus(_ context.Context, ids []string) ([]model.UserStatus, error) {
	c.lookups = append(c.lookups, append([]string(nil), ids...))
	if c.lookupErr != nil {
		return nil, c.lookupErr
	}
	out := make([]model.UserStatus, 0, len(ids))
	for _, id := range ids {
		out = append(out, model.UserStatus{
			ID:              id,
			Name:            "name-" + id,
			Handle:          "h_" + id,
			BlockedByViewer: c.blocked[id],
		})
	}
	return out, nil
}

// memStore 以编码后的字节保存检查点，Load 总是返回新的副本
type memStore struct {
	data    []byte
	saves   int
	saveErr error
	loadErr error
}

func (s *memStore) Load(_ context.Context) (*model.CrawlState, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	if s.data == nil {
		return nil, checkpoint.ErrNoCheckpoint
	}
	return checkpoint.Decode(s.data)
}

func (s *memStore) Save(_ context.Context, st *model.CrawlState) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	data, err := checkpoint.Encode(st)
	if err != nil {
		return err
	}
	s.data = data
	s.saves++
	return nil
}

// recordingWait 记录每次等待的时长，不真正睡眠
type recordingWait struct {
	delays []time.Duration
}

func (w *recordingWait) wait(ctx context.Context, d time.Duration) error {
	w.delays = append(w.delays, d)
	return ctx.Err()
}

func newTestRunner(client Client, store Store, opts ...Option) (*Runner, *recordingWait) {
	r := NewRunner(client, store, opts...)
	w := &recordingWait{}
	r.wait = w.wait
	return r, w
}
