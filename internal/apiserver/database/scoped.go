package database

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/amoylab/hireloop/internal/common/cnst"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

const tenantColumn = "tenant_id"

var schemaCache sync.Map

// Filter matches rows by column equality. Slice values match with IN.
type Filter map[string]any

// Updates maps columns to their new values
type Updates map[string]any

// Query selects rows for FindMany and FindFirst
type Query struct {
	Filter Filter
	Order  string
	Limit  int
	Offset int
}

type tenantRecord[T any] interface {
	*T
	GetTenantID() string
	SetTenantID(id string)
}

// Option configures a TenantStore
type Option func(*TenantStore)

// WithCrossTenantWrites lets writes carry a tenant id other than the bound
// one. Only platform tooling should use it.
func WithCrossTenantWrites() Option {
	return func(s *TenantStore) {
		s.allowCross = true
	}
}

// TenantStore is the data access facade bound to one tenant. It only hands
// out accessors for tenant-owned tables.
type TenantStore struct {
	db         *gorm.DB
	tenantID   string
	allowCross bool
}

// ForTenant binds db to tenantID.
func ForTenant(db *gorm.DB, tenantID string, opts ...Option) (*TenantStore, error) {
	if tenantID == "" {
		return nil, errors.New("tenant id is required")
	}
	s := &TenantStore{db: db, tenantID: tenantID}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// TenantID returns the bound tenant id
func (s *TenantStore) TenantID() string { return s.tenantID }

func (s *TenantStore) Jobs() *Scoped[Job, *Job] {
	return newScoped[Job](s)
}

func (s *TenantStore) Candidates() *Scoped[Candidate, *Candidate] {
	return newScoped[Candidate](s)
}

// Applications checks on create and on update that the referenced job and
// candidate belong to the application's tenant.
func (s *TenantStore) Applications() *Scoped[Application, *Application] {
	apps := newScoped[Application](s)
	apps.beforeCreate = func(ctx context.Context, app *Application) error {
		return s.checkApplicationRefs(ctx, app)
	}
	apps.beforeUpdate = s.checkApplicationUpdate
	return apps
}

func (s *TenantStore) Notes() *Scoped[Note, *Note] {
	return newScoped[Note](s)
}

func (s *TenantStore) Tags() *Scoped[Tag, *Tag] {
	return newScoped[Tag](s)
}

func (s *TenantStore) Templates() *Scoped[EmailTemplate, *EmailTemplate] {
	return newScoped[EmailTemplate](s)
}

func (s *TenantStore) ActivityLogs() *Scoped[ActivityLog, *ActivityLog] {
	return newScoped[ActivityLog](s)
}

// ScoringEvents can only be appended and read.
func (s *TenantStore) ScoringEvents() *AppendOnly[ScoringEvent, *ScoringEvent] {
	return &AppendOnly[ScoringEvent, *ScoringEvent]{inner: newScoped[ScoringEvent](s)}
}

var applicationRefs = []struct {
	model  any
	kind   string
	column string
}{
	{&Job{}, "job", "job_id"},
	{&Candidate{}, "candidate", "candidate_id"},
}

func (s *TenantStore) checkApplicationRefs(ctx context.Context, app *Application) error {
	ids := map[string]string{"job_id": app.JobID, "candidate_id": app.CandidateID}
	for _, ref := range applicationRefs {
		if err := s.checkRef(ctx, ref.model, ref.kind, ids[ref.column], app.TenantID); err != nil {
			return err
		}
	}
	return nil
}

// checkApplicationUpdate validates re-pointed references against the tenant
// the rows end up in. Moving applications to another tenant requires both
// references to be re-pointed along with them.
func (s *TenantStore) checkApplicationUpdate(ctx context.Context, u Updates) error {
	target := s.tenantID
	v, moves := u[tenantColumn]
	if moves {
		id, ok := v.(string)
		if !ok {
			return fmt.Errorf("%w: tenant_id must be a string, got %T", cnst.ErrCrossTenantWrite, v)
		}
		moves = id != s.tenantID
		target = id
	}
	for _, ref := range applicationRefs {
		v, ok := u[ref.column]
		if !ok {
			if moves {
				return fmt.Errorf("%w: %s must be re-pointed when moving to tenant %s", cnst.ErrCrossTenantReference, ref.column, target)
			}
			continue
		}
		id, ok := v.(string)
		if !ok {
			return fmt.Errorf("%w: %s must be a string id, got %T", cnst.ErrCrossTenantReference, ref.column, v)
		}
		if err := s.checkRef(ctx, ref.model, ref.kind, id, target); err != nil {
			return err
		}
	}
	return nil
}

func (s *TenantStore) checkRef(ctx context.Context, model any, kind, id, tenantID string) error {
	var n int64
	err := getDBFromContext(ctx, s.db).Model(model).
		Where("id = ? AND "+tenantColumn+" = ?", id, tenantID).
		Count(&n).Error
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s %q is not in tenant %s", cnst.ErrCrossTenantReference, kind, id, tenantID)
	}
	return nil
}

// Scoped exposes one tenant-owned table through the bound tenant. Every read
// and bulk operation is filtered by the tenant unless the caller filters on
// tenant_id explicitly, and every write is stamped with it.
type Scoped[T any, P tenantRecord[T]] struct {
	db           *gorm.DB
	tenantID     string
	allowCross   bool
	beforeCreate func(ctx context.Context, rec P) error
	beforeUpdate func(ctx context.Context, u Updates) error
}

func newScoped[T any, P tenantRecord[T]](s *TenantStore) *Scoped[T, P] {
	return &Scoped[T, P]{db: s.db, tenantID: s.tenantID, allowCross: s.allowCross}
}

func (s *Scoped[T, P]) scope(ctx context.Context, f Filter) *gorm.DB {
	q := getDBFromContext(ctx, s.db).Model(P(new(T)))
	if _, explicit := f[tenantColumn]; !explicit {
		q = q.Where(tenantColumn+" = ?", s.tenantID)
	}
	if len(f) > 0 {
		q = q.Where(map[string]any(f))
	}
	return q
}

func (s *Scoped[T, P]) query(ctx context.Context, q Query) *gorm.DB {
	tx := s.scope(ctx, q.Filter)
	if q.Order != "" {
		tx = tx.Order(q.Order)
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}
	if q.Offset > 0 {
		tx = tx.Offset(q.Offset)
	}
	return tx
}

// FindMany returns all matching rows.
func (s *Scoped[T, P]) FindMany(ctx context.Context, q Query) ([]P, error) {
	var out []P
	if err := s.query(ctx, q).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// FindFirst returns the first matching row or an error wrapping
// cnst.ErrNotFound.
func (s *Scoped[T, P]) FindFirst(ctx context.Context, q Query) (P, error) {
	rec := P(new(T))
	tx := s.query(ctx, q)
	var err error
	if q.Order != "" {
		err = tx.Take(rec).Error
	} else {
		err = tx.First(rec).Error
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %v", cnst.ErrNotFound, map[string]any(q.Filter))
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Lookup finds a row by id within the bound tenant. A row owned by another
// tenant is reported as not found.
func (s *Scoped[T, P]) Lookup(ctx context.Context, id string) (P, error) {
	return s.FindFirst(ctx, Query{Filter: Filter{"id": id}})
}

// Count returns the number of matching rows.
func (s *Scoped[T, P]) Count(ctx context.Context, f Filter) (int64, error) {
	var n int64
	err := s.scope(ctx, f).Count(&n).Error
	return n, err
}

// Create stamps rec with the bound tenant and inserts it.
func (s *Scoped[T, P]) Create(ctx context.Context, rec P) error {
	if err := s.stamp(rec); err != nil {
		return err
	}
	if s.beforeCreate != nil {
		if err := s.beforeCreate(ctx, rec); err != nil {
			return err
		}
	}
	return getDBFromContext(ctx, s.db).Create(rec).Error
}

// CreateMany validates every record before inserting any of them.
func (s *Scoped[T, P]) CreateMany(ctx context.Context, recs []P) error {
	if len(recs) == 0 {
		return nil
	}
	for _, rec := range recs {
		if err := s.stamp(rec); err != nil {
			return err
		}
	}
	if s.beforeCreate != nil {
		for _, rec := range recs {
			if err := s.beforeCreate(ctx, rec); err != nil {
				return err
			}
		}
	}
	return getDBFromContext(ctx, s.db).Create(&recs).Error
}

// UpdateMany applies u to every matching row and returns the number of rows
// changed. Keys of u may name a column or a struct field.
func (s *Scoped[T, P]) UpdateMany(ctx context.Context, f Filter, u Updates) (int64, error) {
	if len(u) == 0 {
		return 0, nil
	}
	if err := s.checkMutationFilter(f); err != nil {
		return 0, err
	}
	u, err := s.columns(u)
	if err != nil {
		return 0, err
	}
	if v, ok := u[tenantColumn]; ok && !s.allowCross {
		if id, _ := v.(string); id != s.tenantID {
			return 0, fmt.Errorf("%w: update moves rows to tenant %v", cnst.ErrCrossTenantWrite, v)
		}
	}
	if s.beforeUpdate != nil {
		if err := s.beforeUpdate(ctx, u); err != nil {
			return 0, err
		}
	}
	res := s.scope(ctx, f).Updates(map[string]any(u))
	return res.RowsAffected, res.Error
}

// DeleteMany removes every matching row and returns the number removed.
func (s *Scoped[T, P]) DeleteMany(ctx context.Context, f Filter) (int64, error) {
	if err := s.checkMutationFilter(f); err != nil {
		return 0, err
	}
	res := s.scope(ctx, f).Delete(P(new(T)))
	return res.RowsAffected, res.Error
}

// checkMutationFilter rejects bulk writes aimed at another tenant's rows
// through an explicit tenant_id filter.
func (s *Scoped[T, P]) checkMutationFilter(f Filter) error {
	v, ok := f[tenantColumn]
	if !ok || s.allowCross {
		return nil
	}
	if id, _ := v.(string); id != s.tenantID {
		return fmt.Errorf("%w: filter targets tenant %v, store is bound to %s", cnst.ErrCrossTenantWrite, v, s.tenantID)
	}
	return nil
}

// columns rewrites the keys of u to the column names gorm writes, so a field
// name cannot slip past the tenant_id checks.
func (s *Scoped[T, P]) columns(u Updates) (Updates, error) {
	sch, err := schema.Parse(P(new(T)), &schemaCache, s.db.NamingStrategy)
	if err != nil {
		return nil, err
	}
	out := make(Updates, len(u))
	for k, v := range u {
		field := sch.LookUpField(k)
		if field == nil || field.DBName == "" {
			return nil, fmt.Errorf("unknown column %q for %s", k, sch.Table)
		}
		if _, dup := out[field.DBName]; dup {
			return nil, fmt.Errorf("column %q is set more than once", field.DBName)
		}
		out[field.DBName] = v
	}
	return out, nil
}

func (s *Scoped[T, P]) stamp(rec P) error {
	switch id := rec.GetTenantID(); {
	case id == "":
		rec.SetTenantID(s.tenantID)
	case id != s.tenantID && !s.allowCross:
		return fmt.Errorf("%w: record targets tenant %s, store is bound to %s", cnst.ErrCrossTenantWrite, id, s.tenantID)
	}
	return nil
}

// AppendOnly exposes a tenant-owned table that supports inserts and reads
// only.
type AppendOnly[T any, P tenantRecord[T]] struct {
	inner *Scoped[T, P]
}

// Append stamps rec with the bound tenant and inserts it.
func (a *AppendOnly[T, P]) Append(ctx context.Context, rec P) error {
	return a.inner.Create(ctx, rec)
}

// List returns the matching rows of the bound tenant.
func (a *AppendOnly[T, P]) List(ctx context.Context, q Query) ([]P, error) {
	return a.inner.FindMany(ctx, q)
}

// Count returns the number of matching rows of the bound tenant.
func (a *AppendOnly[T, P]) Count(ctx context.Context, f Filter) (int64, error) {
	return a.inner.Count(ctx, f)
}

// RawKeyLookup fetches rows by primary key with no tenant filter. It is the
// only unscoped read path and cannot be obtained from a TenantStore.
type RawKeyLookup[T any] struct {
	db *gorm.DB
}

// Raw returns a key lookup over T.
func Raw[T any](db *gorm.DB) *RawKeyLookup[T] {
	return &RawKeyLookup[T]{db: db}
}

// ByID returns the row with the given primary key, whatever its tenant.
func (r *RawKeyLookup[T]) ByID(ctx context.Context, id string) (*T, error) {
	rec := new(T)
	err := getDBFromContext(ctx, r.db).Where("id = ?", id).Take(rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", cnst.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}
