package storage

import (
	"context"
	stderrors "errors"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"steam-toolbox/core/solver"
	"steam-toolbox/core/types"
	"steam-toolbox/internal/errors"
)

var columns = []string{"id", "name", "fluid", "pressure_drop_pa", "fingerprint", "request", "result", "created_at"}

func ctx(t *testing.T) context.Context {
	t.Helper()
	c, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	t.Cleanup(cancel)
	return c
}

func newMock(t *testing.T) (*SQLStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewSQLiteStore(db), mock
}

func solvedRecord(t *testing.T, name string) *Record {
	t.Helper()
	req := solver.Request{
		Fluid: types.FluidSpec{Class: types.FluidWater},
		Thermo: types.ThermodynamicInput{
			Manual: &types.ManualProperties{DensityKgM3: 997, ViscosityPaS: 0.001},
		},
		Geometry: types.PipeGeometry{DiameterM: 0.1, LengthM: 50, RoughnessM: 4.5e-5},
		Flow:     types.VolumetricFlow(0.01),
	}
	res, err := solver.Solve(req)
	if err != nil {
		t.Fatal(err)
	}
	rec, err := NewRecord(name, req, res)
	if err != nil {
		t.Fatal(err)
	}
	return rec
}

func TestNewRecord(t *testing.T) {
	rec := solvedRecord(t, "cw-1")
	if rec.Fluid != "water" || rec.PressureDropPa <= 0 || rec.Fingerprint == "" {
		t.Errorf("record = %+v", rec)
	}
	res, err := rec.SolveResult()
	if err != nil {
		t.Fatal(err)
	}
	if res.PressureDropPa != rec.PressureDropPa {
		t.Errorf("decoded ΔP = %v, want %v", res.PressureDropPa, rec.PressureDropPa)
	}
}

func TestSQLiteSave(t *testing.T) {
	store, mock := newMock(t)

	mock.ExpectExec("INSERT INTO calculations").
		WithArgs(sqlmock.AnyArg(), "case-1", "water", 1234.5, "fp", `{"a":1}`, `{"b":2}`, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rec := &Record{
		Name:           " case-1 ",
		Fluid:          "water",
		PressureDropPa: 1234.5,
		Fingerprint:    "fp",
		Request:        []byte(`{"a":1}`),
		Result:         []byte(`{"b":2}`),
	}
	if err := store.Save(ctx(t), rec); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if rec.ID == "" || rec.CreatedAt.IsZero() {
		t.Errorf("ID and CreatedAt must be set, got %+v", rec)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestSQLiteSaveError(t *testing.T) {
	store, mock := newMock(t)
	mock.ExpectExec("INSERT INTO calculations").WillReturnError(stderrors.New("disk full"))

	err := store.Save(ctx(t), &Record{Fluid: "air", Request: []byte("{}"), Result: []byte("{}")})
	if !errors.IsType(err, errors.TypeStorage) {
		t.Fatalf("expected storage error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestSQLiteGet(t *testing.T) {
	store, mock := newMock(t)

	rows := sqlmock.NewRows(columns).
		AddRow("id-1", nil, "steam", 8800.0, "fp", `{}`, `{"pressure_drop_pa":8800}`, "2026-03-04 05:06:07.089")
	mock.ExpectQuery(regexp.QuoteMeta("FROM calculations WHERE id = ?")).
		WithArgs("id-1").
		WillReturnRows(rows)

	rec, err := store.Get(ctx(t), "id-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	want := time.Date(2026, 3, 4, 5, 6, 7, 89e6, time.UTC)
	if rec.Name != "" || rec.Fluid != "steam" || !rec.CreatedAt.Equal(want) {
		t.Errorf("record = %+v", rec)
	}
	res, err := rec.SolveResult()
	if err != nil || res.PressureDropPa != 8800 {
		t.Errorf("result = %+v, %v", res, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestSQLiteGetNotFound(t *testing.T) {
	store, mock := newMock(t)
	mock.ExpectQuery("FROM calculations WHERE id").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(columns))

	if _, err := store.Get(ctx(t), "missing"); !errors.IsType(err, errors.TypeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSQLiteGetBadTimestamp(t *testing.T) {
	store, mock := newMock(t)
	mock.ExpectQuery("FROM calculations WHERE id").
		WithArgs("id-1").
		WillReturnRows(sqlmock.NewRows(columns).AddRow("id-1", "n", "air", 1.0, "fp", "{}", "{}", "yesterday"))

	if _, err := store.Get(ctx(t), "id-1"); !errors.IsType(err, errors.TypeStorage) {
		t.Fatalf("expected storage error, got %v", err)
	}
}

func TestSQLiteListFilters(t *testing.T) {
	store, mock := newMock(t)

	since := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(columns).
		AddRow("b", "second", "steam", 2.0, "fp2", "{}", "{}", "2026-01-03 00:00:00.000").
		AddRow("a", "first", "steam", 1.0, "fp1", "{}", "{}", "2026-01-02 00:00:00.000")
	mock.ExpectQuery(regexp.QuoteMeta("WHERE fluid = ? AND created_at >= ? ORDER BY created_at DESC, id ASC LIMIT ? OFFSET ?")).
		WithArgs("steam", "2026-01-01 00:00:00.000", 10, 5).
		WillReturnRows(rows)

	out, err := store.List(ctx(t), &ListFilter{Fluid: "steam", Since: since, Limit: 10, Offset: 5})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(out) != 2 || out[0].ID != "b" || out[1].Name != "first" {
		t.Errorf("list = %+v", out)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestSQLiteListNoFilter(t *testing.T) {
	store, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM calculations ORDER BY created_at DESC")).
		WithArgs(-1, 0).
		WillReturnRows(sqlmock.NewRows(columns))

	out, err := store.List(ctx(t), nil)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("expected empty list, got %d", len(out))
	}
}

func TestSQLiteDelete(t *testing.T) {
	store, mock := newMock(t)
	mock.ExpectExec("DELETE FROM calculations").WithArgs("id-1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM calculations").WithArgs("gone").WillReturnResult(sqlmock.NewResult(0, 0))

	if err := store.Delete(ctx(t), "id-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := store.Delete(ctx(t), "gone"); !errors.IsType(err, errors.TypeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestRebind(t *testing.T) {
	q := "SELECT * FROM t WHERE a = ? AND b = ? LIMIT ?"
	if got := sqliteDialect.rebind(q); got != q {
		t.Errorf("sqlite rebind changed the query: %s", got)
	}
	if got, want := postgresDialect.rebind(q), "SELECT * FROM t WHERE a = $1 AND b = $2 LIMIT $3"; got != want {
		t.Errorf("postgres rebind = %s, want %s", got, want)
	}
}

func TestPostgresStore(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	store := NewPostgresStore(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE fluid = $1 ORDER BY created_at DESC, id ASC LIMIT $2 OFFSET $3")).
		WithArgs("air", nil, 0).
		WillReturnRows(sqlmock.NewRows(columns).AddRow("a", "n", "air", 3.0, "fp", "{}", "{}", "2026-02-01 00:00:00.000"))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM calculations WHERE id = $1")).
		WithArgs("a").
		WillReturnResult(sqlmock.NewResult(0, 1))

	out, err := store.List(ctx(t), &ListFilter{Fluid: "air"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(out) != 1 || out[0].PressureDropPa != 3 {
		t.Errorf("list = %+v", out)
	}
	if err := store.Delete(ctx(t), "a"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	for i, fluid := range []string{"steam", "water", "steam"} {
		rec := &Record{ID: string(rune('a' + i)), Fluid: fluid, PressureDropPa: float64(100 * (i + 1)), CreatedAt: base.Add(time.Duration(i) * time.Minute)}
		if err := s.Save(ctx(t), rec); err != nil {
			t.Fatal(err)
		}
	}

	all, err := s.List(ctx(t), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d records", len(all))
	}
	if all[0].ID != "c" || all[2].ID != "a" {
		t.Errorf("expected newest first, got %v %v %v", all[0].ID, all[1].ID, all[2].ID)
	}

	steam, _ := s.List(ctx(t), &ListFilter{Fluid: "steam", Limit: 1})
	if len(steam) != 1 || steam[0].ID != "c" {
		t.Errorf("filtered = %+v", steam)
	}
	past, _ := s.List(ctx(t), &ListFilter{Offset: 5})
	if len(past) != 0 {
		t.Errorf("offset past end = %+v", past)
	}

	cmp, err := Compare(ctx(t), s, "a", "c")
	if err != nil {
		t.Fatal(err)
	}
	if cmp.Delta != 200 || cmp.DeltaPercent != 200 {
		t.Errorf("compare = %+v", cmp)
	}

	if err := s.Delete(ctx(t), "b"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(ctx(t), "b"); !errors.IsType(err, errors.TypeNotFound) {
		t.Errorf("expected not found after delete, got %v", err)
	}
	if _, err := Compare(ctx(t), s, "a", "b"); !errors.IsType(err, errors.TypeNotFound) {
		t.Errorf("compare with missing record: %v", err)
	}
}

func TestSQLiteRoundTrip(t *testing.T) {
	store, err := Open(BackendSQLite, filepath.Join(t.TempDir(), "history", "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	first := solvedRecord(t, "first")
	second := solvedRecord(t, "second")
	second.CreatedAt = time.Now().Add(time.Second)
	for _, rec := range []*Record{first, second} {
		if err := store.Save(ctx(t), rec); err != nil {
			t.Fatal(err)
		}
	}

	got, err := store.Get(ctx(t), first.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Fingerprint != first.Fingerprint || got.Name != "first" {
		t.Errorf("got %+v", got)
	}

	list, err := store.List(ctx(t), &ListFilter{Fluid: "water"})
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0].ID != second.ID {
		t.Errorf("list order wrong: %+v", list)
	}

	cmp, err := Compare(ctx(t), store, first.ID, second.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !cmp.SameResult || cmp.Delta != 0 {
		t.Errorf("identical inputs must compare equal: %+v", cmp)
	}

	if _, err := Open("s3", ""); !errors.IsType(err, errors.TypeConfig) {
		t.Errorf("unknown backend: %v", err)
	}
	if _, err := Open(BackendPostgres, ""); !errors.IsType(err, errors.TypeConfig) {
		t.Errorf("postgres without DSN: %v", err)
	}
}
