package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"sort"
	"strconv"
	"strings"
	"testing"

	"github.com/facecheck/attendance-api/internal/core/domain"
	"github.com/facecheck/attendance-api/internal/core/ports"
)

// ── employees ────────────────────────────────────────────────────────────────

type stubEmployeeRepo struct {
	employees map[string]*domain.Employee
	nextID    int
	err       error // returned by every call when set
}

func newStubEmployeeRepo(employees ...*domain.Employee) *stubEmployeeRepo {
	r := &stubEmployeeRepo{employees: make(map[string]*domain.Employee)}
	for _, e := range employees {
		r.employees[e.ID] = cloneEmployee(e)
	}
	return r
}

func cloneEmployee(e *domain.Employee) *domain.Employee {
	if e == nil {
		return nil
	}
	c := *e
	return &c
}

func (r *stubEmployeeRepo) Create(_ context.Context, e *domain.Employee) (*domain.Employee, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, existing := range r.employees {
		if e.Email != "" && existing.Email == e.Email {
			return nil, domain.ErrDuplicate
		}
	}
	r.nextID++
	c := cloneEmployee(e)
	c.ID = "emp-" + strconv.Itoa(r.nextID)
	r.employees[c.ID] = c
	return cloneEmployee(c), nil
}

func (r *stubEmployeeRepo) FindByID(_ context.Context, id string) (*domain.Employee, error) {
	if r.err != nil {
		return nil, r.err
	}
	e, ok := r.employees[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneEmployee(e), nil
}

func (r *stubEmployeeRepo) FindActiveByFaceIdentity(_ context.Context, identity string) (*domain.Employee, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, e := range r.employees {
		if e.FaceIdentity == identity && e.IsActive() {
			return cloneEmployee(e), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *stubEmployeeRepo) FindByIDs(_ context.Context, ids []string) (map[string]*domain.Employee, error) {
	if r.err != nil {
		return nil, r.err
	}
	out := make(map[string]*domain.Employee, len(ids))
	for _, id := range ids {
		if e, ok := r.employees[id]; ok {
			out[id] = cloneEmployee(e)
		}
	}
	return out, nil
}

func (r *stubEmployeeRepo) ExistsByEmailOrCode(_ context.Context, email, code string) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	for _, e := range r.employees {
		if (email != "" && e.Email == email) || (code != "" && e.EmployeeCode == code) {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubEmployeeRepo) List(_ context.Context, filter ports.EmployeeFilter) ([]*domain.Employee, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []*domain.Employee
	for _, e := range r.employees {
		if filter.Status != "" && string(e.Status) != filter.Status {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(e.FullName), strings.ToLower(filter.Search)) {
			continue
		}
		out = append(out, cloneEmployee(e))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return out, nil
}

func (r *stubEmployeeRepo) Update(_ context.Context, id string, u ports.EmployeeUpdate) (*domain.Employee, error) {
	if r.err != nil {
		return nil, r.err
	}
	e, ok := r.employees[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if u.FullName != nil {
		e.FullName = *u.FullName
	}
	if u.Email != nil {
		e.Email = *u.Email
	}
	if u.Department != nil {
		e.Department = *u.Department
	}
	if u.Status != nil {
		e.Status = *u.Status
	}
	return cloneEmployee(e), nil
}

func (r *stubEmployeeRepo) SetFaceIdentity(_ context.Context, id, identity string) error {
	if r.err != nil {
		return r.err
	}
	for otherID, e := range r.employees {
		if otherID != id && e.FaceIdentity == identity {
			return domain.ErrDuplicate
		}
	}
	e, ok := r.employees[id]
	if !ok {
		return domain.ErrNotFound
	}
	e.FaceIdentity = identity
	return nil
}

func (r *stubEmployeeRepo) Delete(_ context.Context, id string) error {
	if r.err != nil {
		return r.err
	}
	if _, ok := r.employees[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.employees, id)
	return nil
}

func (r *stubEmployeeRepo) CountActive(_ context.Context) (int64, error) {
	if r.err != nil {
		return 0, r.err
	}
	var n int64
	for _, e := range r.employees {
		if e.IsActive() {
			n++
		}
	}
	return n, nil
}

// ── attendance ───────────────────────────────────────────────────────────────

type stubAttendanceRepo struct {
	records   []*domain.AttendanceRecord
	findErr   error
	createErr error
}

func (r *stubAttendanceRepo) Create(_ context.Context, rec *domain.AttendanceRecord) (*domain.AttendanceRecord, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	for _, existing := range r.records {
		if existing.EmployeeID == rec.EmployeeID && existing.Date == rec.Date {
			return nil, domain.ErrAlreadyMarked
		}
	}
	c := *rec
	c.ID = "att-" + strconv.Itoa(len(r.records)+1)
	r.records = append(r.records, &c)
	out := c
	return &out, nil
}

func (r *stubAttendanceRepo) FindByEmployeeAndDate(_ context.Context, employeeID, date string) (*domain.AttendanceRecord, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, rec := range r.records {
		if rec.EmployeeID == employeeID && rec.Date == date {
			c := *rec
			return &c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *stubAttendanceRepo) List(_ context.Context, filter ports.HistoryFilter) ([]*domain.AttendanceRecord, error) {
	var out []*domain.AttendanceRecord
	for _, rec := range r.records {
		if filter.EmployeeID != "" && rec.EmployeeID != filter.EmployeeID {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func (r *stubAttendanceRepo) ListByDate(_ context.Context, date string, limit int) ([]*domain.AttendanceRecord, error) {
	var out []*domain.AttendanceRecord
	for _, rec := range r.records {
		if rec.Date == date {
			out = append(out, rec)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *stubAttendanceRepo) CountByStatus(_ context.Context, date string) (map[domain.AttendanceStatus]int64, error) {
	out := make(map[domain.AttendanceStatus]int64)
	for _, rec := range r.records {
		if rec.Date == date {
			out[rec.Status]++
		}
	}
	return out, nil
}

type stubAuditRecorder struct {
	entries []domain.AuditEntry
}

func (a *stubAuditRecorder) Record(_ context.Context, e domain.AuditEntry) {
	a.entries = append(a.entries, e)
}

type stubNotifier struct {
	notified []*domain.AttendanceRecord
}

func (n *stubNotifier) NotifyCheckIn(r *domain.AttendanceRecord, _ *domain.Employee) {
	n.notified = append(n.notified, r)
}

// ── recognizer ───────────────────────────────────────────────────────────────

type stubRecognizer struct {
	recognition *ports.Recognition
	err         error
	enrollment  *ports.Enrollment
	enrollErr   error
	enrolled    []string
	health      ports.RecognizerHealth
}

func (r *stubRecognizer) Recognize(_ context.Context, _ []byte) (*ports.Recognition, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.recognition, nil
}

func (r *stubRecognizer) Enroll(_ context.Context, name string, _ []byte) (*ports.Enrollment, error) {
	r.enrolled = append(r.enrolled, name)
	if r.enrollErr != nil {
		return nil, r.enrollErr
	}
	return r.enrollment, nil
}

func (r *stubRecognizer) Health(_ context.Context) ports.RecognizerHealth {
	return r.health
}

// ── settings ─────────────────────────────────────────────────────────────────

type stubSettingsRepo struct {
	values    map[string]string
	err       error
	upsertErr error
	reads     int
	// afterRead runs once after All has taken its snapshot.
	afterRead func()
}

func newStubSettingsRepo(values map[string]string) *stubSettingsRepo {
	if values == nil {
		values = make(map[string]string)
	}
	return &stubSettingsRepo{values: values}
}

func (r *stubSettingsRepo) All(_ context.Context) (map[string]string, error) {
	r.reads++
	if r.err != nil {
		return nil, r.err
	}
	out := make(map[string]string, len(r.values))
	for k, v := range r.values {
		out[k] = v
	}
	if hook := r.afterRead; hook != nil {
		r.afterRead = nil
		hook()
	}
	return out, nil
}

func (r *stubSettingsRepo) Upsert(_ context.Context, key, value string) error {
	if r.upsertErr != nil {
		return r.upsertErr
	}
	r.values[key] = value
	return nil
}

type stubSettingsCache struct {
	values      map[string]string
	invalidated int
}

func (c *stubSettingsCache) Load(_ context.Context) (map[string]string, bool, error) {
	if c.values == nil {
		return nil, false, nil
	}
	return c.values, true, nil
}

func (c *stubSettingsCache) Store(_ context.Context, values map[string]string) error {
	c.values = values
	return nil
}

func (c *stubSettingsCache) Invalidate(_ context.Context) error {
	c.values = nil
	c.invalidated++
	return nil
}

// ── departments ──────────────────────────────────────────────────────────────

type stubDepartmentRepo struct {
	departments map[string]*domain.Department
	err         error
}

func newStubDepartmentRepo() *stubDepartmentRepo {
	return &stubDepartmentRepo{departments: make(map[string]*domain.Department)}
}

func (r *stubDepartmentRepo) List(_ context.Context) ([]*domain.Department, error) {
	if r.err != nil {
		return nil, r.err
	}
	out := make([]*domain.Department, 0, len(r.departments))
	for _, d := range r.departments {
		c := *d
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *stubDepartmentRepo) ExistsByName(_ context.Context, name string) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	for _, d := range r.departments {
		if d.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubDepartmentRepo) Create(_ context.Context, d *domain.Department) (*domain.Department, error) {
	if r.err != nil {
		return nil, r.err
	}
	c := *d
	c.ID = "dep-" + strconv.Itoa(len(r.departments)+1)
	r.departments[c.ID] = &c
	out := c
	return &out, nil
}

func (r *stubDepartmentRepo) Delete(_ context.Context, id string) error {
	if r.err != nil {
		return r.err
	}
	if _, ok := r.departments[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.departments, id)
	return nil
}

// ── images ───────────────────────────────────────────────────────────────────

// pngPayload returns a small base64-encoded PNG.
func pngPayload(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 200, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}
