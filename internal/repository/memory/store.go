// Package memory is an in-process implementation of the repository contracts.
// Transactions work on a copy of the committed state which replaces it on
// success, so readers always observe a consistent snapshot.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/spec-kit/staff-service/internal/domain"
	"github.com/spec-kit/staff-service/internal/pagination"
	"github.com/spec-kit/staff-service/internal/repository"
)

type state struct {
	users        map[string]domain.User
	teams        map[string]domain.Team
	roles        map[string]domain.Role
	userRoles    map[string]map[string]struct{}
	absences     map[string]domain.Absence
	absenceTypes map[string]domain.AbsenceType
}

func newState() *state {
	return &state{
		users:        map[string]domain.User{},
		teams:        map[string]domain.Team{},
		roles:        map[string]domain.Role{},
		userRoles:    map[string]map[string]struct{}{},
		absences:     map[string]domain.Absence{},
		absenceTypes: map[string]domain.AbsenceType{},
	}
}

func (s *state) clone() *state {
	out := &state{
		users:        make(map[string]domain.User, len(s.users)),
		teams:        make(map[string]domain.Team, len(s.teams)),
		roles:        make(map[string]domain.Role, len(s.roles)),
		userRoles:    make(map[string]map[string]struct{}, len(s.userRoles)),
		absences:     make(map[string]domain.Absence, len(s.absences)),
		absenceTypes: make(map[string]domain.AbsenceType, len(s.absenceTypes)),
	}
	for k, v := range s.users {
		out.users[k] = cloneUser(v)
	}
	for k, v := range s.teams {
		out.teams[k] = cloneTeam(v)
	}
	for k, v := range s.roles {
		out.roles[k] = v
	}
	for k, v := range s.userRoles {
		set := make(map[string]struct{}, len(v))
		for roleID := range v {
			set[roleID] = struct{}{}
		}
		out.userRoles[k] = set
	}
	for k, v := range s.absences {
		out.absences[k] = cloneAbsence(v)
	}
	for k, v := range s.absenceTypes {
		out.absenceTypes[k] = v
	}
	return out
}

// DB holds the committed state. Writers are serialized; readers never block on
// a running writer because committed state is never mutated in place.
type DB struct {
	writeMu   sync.Mutex
	mu        sync.RWMutex
	committed *state
	now       func() time.Time
}

// NewDB returns an empty database.
func NewDB() *DB {
	return &DB{committed: newState(), now: func() time.Time { return time.Now().UTC() }}
}

// NewStore returns a repository.Store backed by a fresh memory database.
func NewStore() *repository.Store {
	return NewDB().Store()
}

// Store exposes db through the repository contracts.
func (db *DB) Store() *repository.Store {
	return &repository.Store{
		Tx:           db,
		Users:        &userRepository{db: db},
		Teams:        &teamRepository{db: db},
		Roles:        &roleRepository{db: db},
		Absences:     &absenceRepository{db: db},
		AbsenceTypes: &absenceTypeRepository{db: db},
		Ping:         func(context.Context) error { return nil },
	}
}

type txKey struct{}

type tx struct {
	db       *DB
	st       *state
	writable bool
}

func txFrom(ctx context.Context, db *DB) *tx {
	t, ok := ctx.Value(txKey{}).(*tx)
	if !ok || t.db != db {
		return nil
	}
	return t
}

func (db *DB) current() *state {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.committed
}

// WithinTx implements repository.Transactor.
func (db *DB) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if t := txFrom(ctx, db); t != nil {
		if !t.writable {
			return repository.ErrReadOnly
		}
		return fn(ctx)
	}

	db.writeMu.Lock()
	defer db.writeMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	work := db.current().clone()
	if err := fn(context.WithValue(ctx, txKey{}, &tx{db: db, st: work, writable: true})); err != nil {
		return err
	}

	db.mu.Lock()
	db.committed = work
	db.mu.Unlock()
	return nil
}

// WithinSnapshot implements repository.Transactor.
func (db *DB) WithinSnapshot(ctx context.Context, fn func(ctx context.Context) error) error {
	if txFrom(ctx, db) != nil {
		return fn(ctx)
	}
	return fn(context.WithValue(ctx, txKey{}, &tx{db: db, st: db.current()}))
}

func (db *DB) read(ctx context.Context, fn func(st *state) error) error {
	if t := txFrom(ctx, db); t != nil {
		return fn(t.st)
	}
	return fn(db.current())
}

func (db *DB) write(ctx context.Context, fn func(st *state) error) error {
	if t := txFrom(ctx, db); t != nil {
		if !t.writable {
			return repository.ErrReadOnly
		}
		return fn(t.st)
	}
	return db.WithinTx(ctx, func(ctx context.Context) error {
		return fn(txFrom(ctx, db).st)
	})
}

// page sorts items by id and applies the keyset window.
func page[T any](items []T, id func(T) string, w pagination.Window) []T {
	sort.Slice(items, func(i, j int) bool { return id(items[i]) < id(items[j]) })

	out := make([]T, 0, len(items))
	for _, item := range items {
		if w.AfterID != "" && id(item) <= w.AfterID {
			continue
		}
		out = append(out, item)
		if w.Limit > 0 && len(out) == w.Limit {
			break
		}
	}
	return out
}

func foreignKey(constraint string) error {
	return &repository.ConstraintError{Kind: repository.ForeignKeyViolation, Constraint: constraint}
}

func unique(constraint string) error {
	return &repository.ConstraintError{Kind: repository.UniqueViolation, Constraint: constraint}
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.Clone(*s)
	return &v
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func cloneUser(u domain.User) domain.User {
	u.Image = cloneString(u.Image)
	u.TeamID = cloneString(u.TeamID)
	u.Roles = nil
	return u
}

func cloneAbsence(a domain.Absence) domain.Absence {
	a.StartTimeAt = cloneTime(a.StartTimeAt)
	a.EndTimeAt = cloneTime(a.EndTimeAt)
	return a
}
