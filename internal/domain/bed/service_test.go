package bed

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/google/uuid"
)

// -- Mock Repository --

type mockRepo struct {
	types map[string]*TypeSetting
	beds  map[uuid.UUID]*Bed
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		types: make(map[string]*TypeSetting),
		beds:  make(map[uuid.UUID]*Bed),
	}
}

func (m *mockRepo) CreateType(_ context.Context, t *TypeSetting) error {
	t.ID = uuid.New()
	m.types[t.Code] = t
	return nil
}

func (m *mockRepo) GetTypeByCode(_ context.Context, code string) (*TypeSetting, error) {
	t, ok := m.types[code]
	if !ok {
		return nil, ErrNotFound
	}
	return t, nil
}

func (m *mockRepo) UpdateType(_ context.Context, t *TypeSetting) error {
	m.types[t.Code] = t
	return nil
}

func (m *mockRepo) DeleteType(_ context.Context, id uuid.UUID) error {
	for code, t := range m.types {
		if t.ID == id {
			delete(m.types, code)
		}
	}
	return nil
}

func (m *mockRepo) ListTypes(_ context.Context) ([]*TypeSetting, error) {
	var result []*TypeSetting
	for _, t := range m.types {
		result = append(result, t)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Code < result[j].Code })
	return result, nil
}

func (m *mockRepo) CreateBed(_ context.Context, b *Bed) error {
	b.ID = uuid.New()
	m.beds[b.ID] = b
	return nil
}

func (m *mockRepo) GetBed(_ context.Context, id uuid.UUID) (*Bed, error) {
	b, ok := m.beds[id]
	if !ok {
		return nil, ErrNotFound
	}
	return b, nil
}

func (m *mockRepo) UpdateBed(_ context.Context, b *Bed) error {
	m.beds[b.ID] = b
	return nil
}

func (m *mockRepo) ListBedsByType(_ context.Context, typeCode string) ([]*Bed, error) {
	var result []*Bed
	for _, b := range m.beds {
		if b.TypeCode == typeCode && b.Status != StatusRetired {
			result = append(result, b)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Label < result[j].Label })
	return result, nil
}

func (m *mockRepo) ListBeds(_ context.Context) ([]*Bed, error) {
	var result []*Bed
	for _, b := range m.beds {
		if b.Status != StatusRetired {
			result = append(result, b)
		}
	}
	return result, nil
}

func (m *mockRepo) countByStatus(typeCode, status string) int {
	n := 0
	for _, b := range m.beds {
		if b.TypeCode == typeCode && b.Status == status {
			n++
		}
	}
	return n
}

func seedType(t *testing.T, repo *mockRepo, code string, target int) {
	t.Helper()
	if err := repo.CreateType(context.Background(), &TypeSetting{Code: code, LabelTH: "เตียง", TargetCount: target}); err != nil {
		t.Fatalf("seed type: %v", err)
	}
}

func seedBed(repo *mockRepo, typeCode, status string) *Bed {
	b := &Bed{TypeCode: typeCode, Label: typeCode + "-" + uuid.NewString()[:4], Status: status}
	if status == StatusOccupied {
		pid := uuid.New()
		b.PatientID = &pid
	}
	_ = repo.CreateBed(context.Background(), b)
	return b
}

// -- Tests --

func TestReconcileCreatesMissing(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	seedType(t, repo, "ward", 3)
	seedBed(repo, "ward", StatusIdle)

	res, err := svc.Reconcile(context.Background(), "ward")
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if res.Created != 2 || res.Retired != 0 {
		t.Errorf("expected 2 created, 0 retired, got %+v", res)
	}
	if n := repo.countByStatus("ward", StatusIdle); n != 3 {
		t.Errorf("expected 3 idle beds, got %d", n)
	}
}

func TestReconcileRetiresSurplusIdle(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	seedType(t, repo, "ward", 1)
	seedBed(repo, "ward", StatusIdle)
	seedBed(repo, "ward", StatusIdle)
	seedBed(repo, "ward", StatusIdle)

	res, err := svc.Reconcile(context.Background(), "ward")
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if res.Created != 0 || res.Retired != 2 {
		t.Errorf("expected 0 created, 2 retired, got %+v", res)
	}
	if n := repo.countByStatus("ward", StatusIdle); n != 1 {
		t.Errorf("expected 1 idle bed, got %d", n)
	}
}

func TestReconcileNeverRetiresOccupied(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	seedType(t, repo, "icu", 1)
	seedBed(repo, "icu", StatusOccupied)
	seedBed(repo, "icu", StatusOccupied)
	seedBed(repo, "icu", StatusIdle)

	res, err := svc.Reconcile(context.Background(), "icu")
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	// target 1 with 2 occupied: only the idle bed is retirable
	if res.Retired != 1 {
		t.Errorf("expected 1 retired, got %+v", res)
	}
	if n := repo.countByStatus("icu", StatusOccupied); n != 2 {
		t.Errorf("occupied beds must survive reconciliation, got %d", n)
	}
	if n := repo.countByStatus("icu", StatusIdle); n != 0 {
		t.Errorf("expected 0 idle beds, got %d", n)
	}
}

func TestReconcileAtTargetIsNoop(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	seedType(t, repo, "ward", 2)
	seedBed(repo, "ward", StatusIdle)
	seedBed(repo, "ward", StatusOccupied)

	res, err := svc.Reconcile(context.Background(), "ward")
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if res.Created != 0 || res.Retired != 0 {
		t.Errorf("expected no changes at target, got %+v", res)
	}
}

func TestReconcileUnknownType(t *testing.T) {
	svc := NewService(newMockRepo())
	if _, err := svc.Reconcile(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestOccupyAndRelease(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	seedType(t, repo, "ward", 1)
	b := seedBed(repo, "ward", StatusIdle)
	ctx := context.Background()

	patient := uuid.New()
	got, err := svc.Occupy(ctx, b.ID, patient)
	if err != nil {
		t.Fatalf("Occupy: %v", err)
	}
	if got.Status != StatusOccupied || got.PatientID == nil || *got.PatientID != patient {
		t.Errorf("unexpected bed after occupy: %+v", got)
	}

	if _, err := svc.Occupy(ctx, b.ID, uuid.New()); !errors.Is(err, ErrOccupied) {
		t.Errorf("expected ErrOccupied, got %v", err)
	}

	got, err = svc.Release(ctx, b.ID)
	if err != nil {
		t.Fatalf("Release: %v", err)
	}
	if got.Status != StatusIdle || got.PatientID != nil {
		t.Errorf("unexpected bed after release: %+v", got)
	}
}

func TestCreateTypeValidation(t *testing.T) {
	svc := NewService(newMockRepo())
	ctx := context.Background()

	if err := svc.CreateType(ctx, &TypeSetting{LabelTH: "x"}); err == nil {
		t.Error("expected missing code to fail")
	}
	if err := svc.CreateType(ctx, &TypeSetting{Code: "ward"}); err == nil {
		t.Error("expected missing label to fail")
	}
	if err := svc.CreateType(ctx, &TypeSetting{Code: "ward", LabelTH: "x", TargetCount: -1}); err == nil {
		t.Error("expected negative target to fail")
	}
	if err := svc.CreateType(ctx, &TypeSetting{Code: "ward", LabelTH: "x", TargetCount: 2}); err != nil {
		t.Errorf("expected valid type to pass, got %v", err)
	}
	if err := svc.CreateType(ctx, &TypeSetting{Code: "ward", LabelTH: "y"}); err == nil {
		t.Error("expected duplicate code to fail")
	}
}
