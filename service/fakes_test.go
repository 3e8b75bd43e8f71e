package service

import (
	"context"
	"errors"
	"sync"
	"time"

	dmn "github.com/beka-birhanu/vinom-rollmaze/domain"
	"github.com/beka-birhanu/vinom-rollmaze/service/i"
	"github.com/google/uuid"
)

type fakeLogger struct {
	sync.Mutex
	infos, warnings, errors []string
}

func (l *fakeLogger) Info(msg string) {
	l.Lock()
	defer l.Unlock()
	l.infos = append(l.infos, msg)
}

func (l *fakeLogger) Warning(msg string) {
	l.Lock()
	defer l.Unlock()
	l.warnings = append(l.warnings, msg)
}

func (l *fakeLogger) Error(msg string) {
	l.Lock()
	defer l.Unlock()
	l.errors = append(l.errors, msg)
}

func (l *fakeLogger) errorCount() int {
	l.Lock()
	defer l.Unlock()
	return len(l.errors)
}

type fakeLeaderboard struct {
	sync.Mutex
	best map[uuid.UUID]time.Duration
	err  error
}

func (f *fakeLeaderboard) Record(_ context.Context, playerID uuid.UUID, solve time.Duration) (bool, error) {
	f.Lock()
	defer f.Unlock()
	if f.err != nil {
		return false, f.err
	}
	if f.best == nil {
		f.best = map[uuid.UUID]time.Duration{}
	}
	if prev, ok := f.best[playerID]; ok && prev <= solve {
		return false, nil
	}
	f.best[playerID] = solve
	return true, nil
}

func (f *fakeLeaderboard) Top(_ context.Context, limit int64) ([]i.LeaderboardEntry, error) {
	f.Lock()
	defer f.Unlock()
	entries := []i.LeaderboardEntry{}
	for id, d := range f.best {
		if int64(len(entries)) == limit {
			break
		}
		entries = append(entries, i.LeaderboardEntry{PlayerID: id, SolveMillis: d.Milliseconds()})
	}
	return entries, nil
}

type fakePublisher struct {
	sync.Mutex
	events []i.Event
}

func (p *fakePublisher) Publish(ctx context.Context, e i.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.Lock()
	defer p.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *fakePublisher) types() []string {
	p.Lock()
	defer p.Unlock()
	types := make([]string, 0, len(p.events))
	for _, e := range p.events {
		types = append(types, e.Type)
	}
	return types
}

var errNotFound = errors.New("not found")

type fakeUserRepo struct {
	sync.Mutex
	users map[uuid.UUID]*dmn.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uuid.UUID]*dmn.User{}}
}

func (r *fakeUserRepo) Save(user *dmn.User) error {
	r.Lock()
	defer r.Unlock()
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) ByID(id uuid.UUID) (*dmn.User, error) {
	r.Lock()
	defer r.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, errNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) ByUsername(username string) (*dmn.User, error) {
	r.Lock()
	defer r.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, errNotFound
}

func (r *fakeUserRepo) RecordWin(id uuid.UUID) error {
	r.Lock()
	defer r.Unlock()
	u, ok := r.users[id]
	if !ok {
		return errNotFound
	}
	u.Wins++
	return nil
}

type fakeTokenizer struct {
	claims map[string]interface{}
	ttl    time.Duration
}

func (t *fakeTokenizer) Generate(claims map[string]interface{}, expTime time.Duration) (string, error) {
	t.claims = claims
	t.ttl = expTime
	return "signed-token", nil
}

func (t *fakeTokenizer) Decode(string) (map[string]interface{}, error) {
	return t.claims, nil
}
