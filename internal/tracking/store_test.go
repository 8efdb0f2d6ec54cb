package tracking_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/maxrep/maxrep-cli/internal/catalog"
	"github.com/maxrep/maxrep-cli/internal/model"
	"github.com/maxrep/maxrep-cli/internal/session"
	"github.com/maxrep/maxrep-cli/internal/tracking"
)

type fakeBackend struct {
	nextID  int64
	created []model.MealLog
	deleted []int64
	failOn  string
}

func (f *fakeBackend) Create(_ context.Context, m model.MealLog) (model.MealLog, error) {
	if f.failOn == "create" {
		return model.MealLog{}, errors.New("create failed")
	}
	f.nextID++
	m.ID = f.nextID
	f.created = append(f.created, m)
	return m, nil
}

func (f *fakeBackend) Update(_ context.Context, id int64, m model.MealLog) (model.MealLog, error) {
	if f.failOn == "update" {
		return model.MealLog{}, fmt.Errorf("PUT /tracking/meals/logs/%d: %w", id, session.ErrNotFound)
	}
	m.ID = id
	return m, nil
}

func (f *fakeBackend) Delete(_ context.Context, id int64) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func meal(id int64, food string, qty float64) model.MealLog {
	return model.MealLog{ID: id, Date: "2024-01-10", MealType: catalog.MealBreakfast, FoodName: food, Quantity: qty, Unit: "piece", Calories: 78 * qty}
}

func collect(bus *tracking.Bus) *[]tracking.Event {
	events := &[]tracking.Event{}
	bus.Subscribe(func(e tracking.Event) { *events = append(*events, e) })
	return events
}

func TestRemoveThenUndoRecreatesEntry(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{nextID: 100}
	bus := tracking.NewBus()
	events := collect(bus)
	store := tracking.NewStore[model.MealLog](tracking.KindMeal, backend, bus)
	store.Replace([]model.MealLog{meal(7, "egg", 2), meal(8, "banana", 1)})

	removed, err := store.Remove(context.Background(), 7)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if removed.FoodName != "egg" || len(store.All()) != 1 {
		t.Fatalf("expected egg removed, got %+v and %d remaining", removed, len(store.All()))
	}

	restored, ok, err := store.UndoLastRemove(context.Background())
	if err != nil || !ok {
		t.Fatalf("undo: ok=%v err=%v", ok, err)
	}
	if restored.FoodName != "egg" || restored.Quantity != 2 || restored.ID != 101 {
		t.Fatalf("expected egg recreated with a new id, got %+v", restored)
	}
	if len(store.All()) != 2 {
		t.Fatalf("expected 2 entries after undo, got %d", len(store.All()))
	}

	_, ok, err = store.UndoLastRemove(context.Background())
	if err != nil || ok {
		t.Fatalf("expected second undo to be a no-op, got ok=%v err=%v", ok, err)
	}
	if len(backend.created) != 1 {
		t.Fatalf("expected a single re-create, got %d", len(backend.created))
	}

	if len(*events) != 2 || (*events)[0].Action != tracking.ActionRemove || (*events)[1].Action != tracking.ActionUndo {
		t.Fatalf("expected remove and undo events, got %+v", *events)
	}
	for _, e := range *events {
		if e.Name != tracking.EventTrackingUpdated || e.Kind != tracking.KindMeal {
			t.Fatalf("unexpected event %+v", e)
		}
	}
}

func TestUndoSlotKeepsOnlyLatestRemoval(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{nextID: 10}
	store := tracking.NewStore[model.MealLog](tracking.KindMeal, backend, nil)
	store.Replace([]model.MealLog{meal(1, "egg", 1), meal(2, "apple", 1)})

	if _, err := store.Remove(context.Background(), 1); err != nil {
		t.Fatalf("remove 1: %v", err)
	}
	if _, err := store.Remove(context.Background(), 2); err != nil {
		t.Fatalf("remove 2: %v", err)
	}
	restored, ok, err := store.UndoLastRemove(context.Background())
	if err != nil || !ok || restored.FoodName != "apple" {
		t.Fatalf("expected apple restored, got %+v ok=%v err=%v", restored, ok, err)
	}
}

func TestUpdateUnknownIDReturnsNotFound(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{}
	store := tracking.NewStore[model.MealLog](tracking.KindMeal, backend, nil)
	store.Replace([]model.MealLog{meal(3, "egg", 1)})

	if _, err := store.Update(context.Background(), 42, meal(0, "egg", 2)); !errors.Is(err, tracking.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := store.Remove(context.Background(), 42); !errors.Is(err, tracking.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on remove, got %v", err)
	}

	backend.failOn = "update"
	_, err := store.Update(context.Background(), 3, meal(0, "egg", 2))
	if !errors.Is(err, tracking.ErrNotFound) || !errors.Is(err, session.ErrNotFound) {
		t.Fatalf("expected server 404 mapped to ErrNotFound, got %v", err)
	}
}

func TestUpdateReplacesInPlaceAndPublishes(t *testing.T) {
	t.Parallel()

	bus := tracking.NewBus()
	events := collect(bus)
	store := tracking.NewStore[model.MealLog](tracking.KindMeal, &fakeBackend{}, bus)
	store.Replace([]model.MealLog{meal(3, "egg", 1)})

	if _, err := store.Update(context.Background(), 3, meal(0, "egg", 3)); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, ok := store.Get(3)
	if !ok || got.Quantity != 3 {
		t.Fatalf("expected quantity 3, got %+v", got)
	}
	if len(*events) != 1 || (*events)[0].Action != tracking.ActionUpdate || (*events)[0].ID != 3 {
		t.Fatalf("expected one update event, got %+v", *events)
	}
}

func TestValidatorRejectsOffStepQuantity(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{}
	bus := tracking.NewBus()
	events := collect(bus)
	store := tracking.NewStore[model.MealLog](tracking.KindMeal, backend, bus, tracking.WithValidator(tracking.ValidateMeal))

	if _, err := store.Add(context.Background(), meal(0, "egg", 0.75)); !errors.Is(err, catalog.ErrOffStep) {
		t.Fatalf("expected ErrOffStep, got %v", err)
	}
	if _, err := store.Add(context.Background(), meal(0, "egg", 0.25)); !errors.Is(err, catalog.ErrBelowMinimum) {
		t.Fatalf("expected ErrBelowMinimum, got %v", err)
	}
	if len(backend.created) != 0 || len(*events) != 0 {
		t.Fatalf("expected nothing sent or published, got %d creates and %d events", len(backend.created), len(*events))
	}
	added, err := store.Add(context.Background(), meal(0, "egg", 1.5))
	if err != nil {
		t.Fatalf("add valid meal: %v", err)
	}
	if len(store.OnDate("2024-01-10")) != 1 || added.ID == 0 {
		t.Fatalf("expected entry stored for its date, got %+v", store.All())
	}
	if len(*events) != 1 || (*events)[0].Action != tracking.ActionAdd {
		t.Fatalf("expected add event, got %+v", *events)
	}
}

type mapStorage map[string][]byte

func (m mapStorage) Save(kind string, payload []byte) error { m[kind] = payload; return nil }
func (m mapStorage) Load(kind string) ([]byte, bool, error) {
	v, ok := m[kind]
	return v, ok, nil
}
func (m mapStorage) Clear(kind string) error { delete(m, kind); return nil }

func TestJSONSlotSurvivesNewStore(t *testing.T) {
	t.Parallel()

	storage := mapStorage{}
	backend := &fakeBackend{nextID: 50}
	first := tracking.NewStore[model.MealLog](tracking.KindMeal, backend, nil,
		tracking.WithUndoSlot(tracking.NewJSONSlot[model.MealLog](storage, tracking.KindMeal)))
	first.Replace([]model.MealLog{meal(9, "orange", 2)})
	if _, err := first.Remove(context.Background(), 9); err != nil {
		t.Fatalf("remove: %v", err)
	}

	second := tracking.NewStore[model.MealLog](tracking.KindMeal, backend, nil,
		tracking.WithUndoSlot(tracking.NewJSONSlot[model.MealLog](storage, tracking.KindMeal)))
	restored, ok, err := second.UndoLastRemove(context.Background())
	if err != nil || !ok || restored.FoodName != "orange" {
		t.Fatalf("expected orange restored from persisted slot, got %+v ok=%v err=%v", restored, ok, err)
	}
	if _, ok := storage[tracking.KindMeal]; ok {
		t.Fatalf("expected persisted slot cleared after undo")
	}
}

func TestFailedUndoKeepsSlot(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{}
	store := tracking.NewStore[model.MealLog](tracking.KindMeal, backend, nil)
	store.Replace([]model.MealLog{meal(4, "egg", 1)})
	if _, err := store.Remove(context.Background(), 4); err != nil {
		t.Fatalf("remove: %v", err)
	}
	backend.failOn = "create"
	if _, _, err := store.UndoLastRemove(context.Background()); err == nil {
		t.Fatalf("expected undo to fail")
	}
	backend.failOn = ""
	if _, ok, err := store.UndoLastRemove(context.Background()); err != nil || !ok {
		t.Fatalf("expected retry of undo to succeed, got ok=%v err=%v", ok, err)
	}
}
