package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/maxrep/maxrep-cli/internal/model"
)

var (
	ErrNotFound      = errors.New("food not found")
	ErrBelowMinimum  = errors.New("quantity below minimum")
	ErrOffStep       = errors.New("quantity off step")
	ErrDuplicateName = errors.New("food already exists")
	ErrUnitMismatch  = errors.New("unit does not match catalog unit")
	ErrBadQuantity   = errors.New("quantity is not a finite number")
)

type Source string

const (
	SourceDefault Source = "default"
	SourceCustom  Source = "custom"
)

type Macros struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein_g"`
	Carbs    float64 `json:"carbs_g"`
	Fats     float64 `json:"fats_g"`
}

// Scale multiplies each field by quantity and rounds it independently.
func (m Macros) Scale(quantity float64) Macros {
	return Macros{
		Calories: Round2(m.Calories * quantity),
		Protein:  Round2(m.Protein * quantity),
		Carbs:    Round2(m.Carbs * quantity),
		Fats:     Round2(m.Fats * quantity),
	}
}

type Food struct {
	Name         string
	Unit         string
	PerUnit      Macros
	Source       Source
	AllowedMeals []string
}

type Resolved struct {
	Food     Food
	Quantity float64
	Unit     string
	Macros   Macros
}

// CustomFoodStore persists custom foods, normally the tracking API.
type CustomFoodStore interface {
	CreateCustomFood(ctx context.Context, food model.CustomFood) (model.CustomFood, error)
}

// ConfirmationPort asks the user whether an unknown food should be created.
type ConfirmationPort interface {
	ConfirmCreate(ctx context.Context, name string) (bool, error)
}

type NewFood struct {
	Name    string
	Unit    string
	PerUnit Macros
	// OverridePreset allows a custom food to shadow a preset of the same name.
	OverridePreset bool
}

// Draft is the in-progress meal entry used to derive per-unit values for an
// unknown food.
type Draft struct {
	Quantity float64
	Unit     string
	Totals   Macros
}

type Resolver struct {
	store   CustomFoodStore
	confirm ConfirmationPort

	mu           sync.Mutex
	presets      map[string]Food
	custom       map[string]Food
	lastPrompted string
}

func NewResolver(store CustomFoodStore, confirm ConfirmationPort) *Resolver {
	return &Resolver{
		store:   store,
		confirm: confirm,
		presets: Presets(),
		custom:  map[string]Food{},
	}
}

func NormalizeName(name string) string {
	return strings.TrimSpace(strings.ToLower(name))
}

// Lookup finds a food by name. Custom entries win over presets.
func (r *Resolver) Lookup(name string) (Food, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lookupLocked(NormalizeName(name))
}

func (r *Resolver) lookupLocked(key string) (Food, bool) {
	if f, ok := r.custom[key]; ok {
		return f, true
	}
	if f, ok := r.presets[key]; ok {
		return f, true
	}
	return Food{}, false
}

// Resolve computes macros for quantity units of name. An empty unit means the
// catalog unit.
func (r *Resolver) Resolve(name string, quantity float64, unit string) (Resolved, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := NormalizeName(name)
	food, ok := r.lookupLocked(key)
	if !ok {
		return Resolved{}, fmt.Errorf("resolve %q: %w", key, ErrNotFound)
	}
	unit = strings.TrimSpace(unit)
	if unit == "" {
		unit = food.Unit
	}
	if unit != food.Unit {
		return Resolved{}, fmt.Errorf("resolve %q in %s (catalog unit %s): %w", key, unit, food.Unit, ErrUnitMismatch)
	}
	if !finite(quantity) {
		return Resolved{}, fmt.Errorf("resolve %q: %w: %g", key, ErrBadQuantity, quantity)
	}
	cfg := QuantityConfigFor(key, unit)
	if quantity < cfg.Min {
		return Resolved{}, fmt.Errorf("resolve %q: %w: %g is below %g", key, ErrBelowMinimum, quantity, cfg.Min)
	}
	if r.lastPrompted == key {
		r.lastPrompted = ""
	}
	return Resolved{Food: food, Quantity: quantity, Unit: unit, Macros: food.PerUnit.Scale(quantity)}, nil
}

// RegisterCustomFood persists a new custom food and makes it resolvable.
func (r *Resolver) RegisterCustomFood(ctx context.Context, in NewFood) (Food, error) {
	key := NormalizeName(in.Name)
	if key == "" {
		return Food{}, fmt.Errorf("food name is required")
	}
	unit := strings.TrimSpace(in.Unit)
	if unit == "" {
		return Food{}, fmt.Errorf("food unit is required")
	}
	for _, v := range []float64{in.PerUnit.Calories, in.PerUnit.Protein, in.PerUnit.Carbs, in.PerUnit.Fats} {
		if v < 0 {
			return Food{}, fmt.Errorf("per-unit macros must be >= 0")
		}
	}

	r.mu.Lock()
	_, inCustom := r.custom[key]
	_, inPresets := r.presets[key]
	r.mu.Unlock()
	if inCustom || (inPresets && !in.OverridePreset) {
		return Food{}, fmt.Errorf("register %q: %w", key, ErrDuplicateName)
	}

	food := Food{Name: key, Unit: unit, PerUnit: in.PerUnit, Source: SourceCustom}
	if r.store != nil {
		created, err := r.store.CreateCustomFood(ctx, model.CustomFood{
			Name:            key,
			Unit:            unit,
			CaloriesPerUnit: in.PerUnit.Calories,
			ProteinPerUnit:  in.PerUnit.Protein,
			CarbsPerUnit:    in.PerUnit.Carbs,
			FatsPerUnit:     in.PerUnit.Fats,
		})
		if err != nil {
			return Food{}, fmt.Errorf("register %q: %w", key, err)
		}
		food = fromModel(created)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.custom[key]; exists {
		return Food{}, fmt.Errorf("register %q: %w", key, ErrDuplicateName)
	}
	r.custom[key] = food
	return food, nil
}

// ReplaceCustom swaps the custom catalog for the server's copy.
func (r *Resolver) ReplaceCustom(foods []model.CustomFood) {
	next := make(map[string]Food, len(foods))
	for _, f := range foods {
		food := fromModel(f)
		if food.Name == "" {
			continue
		}
		next[food.Name] = food
	}
	r.mu.Lock()
	r.custom = next
	r.mu.Unlock()
}

// MealOptions lists the preset names allowed for mealType plus every custom
// food, sorted.
func (r *Resolver) MealOptions(mealType string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := map[string]struct{}{}
	for name, f := range r.presets {
		for _, m := range f.AllowedMeals {
			if m == mealType {
				seen[name] = struct{}{}
				break
			}
		}
	}
	for name := range r.custom {
		seen[name] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Foods returns every resolvable food, custom entries replacing presets.
func (r *Resolver) Foods() []Food {
	r.mu.Lock()
	defer r.mu.Unlock()

	merged := make(map[string]Food, len(r.presets)+len(r.custom))
	for k, f := range r.presets {
		merged[k] = f
	}
	for k, f := range r.custom {
		merged[k] = f
	}
	out := make([]Food, 0, len(merged))
	for _, f := range merged {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// EnsureKnown reports whether name can be logged. An unknown name is offered
// to the confirmation port once per session; on confirmation it is registered
// with per-unit values derived from draft.
func (r *Resolver) EnsureKnown(ctx context.Context, name string, draft Draft) (bool, error) {
	key := NormalizeName(name)
	if key == "" {
		return false, nil
	}

	r.mu.Lock()
	if _, ok := r.lookupLocked(key); ok {
		if r.lastPrompted == key {
			r.lastPrompted = ""
		}
		r.mu.Unlock()
		return true, nil
	}
	if r.lastPrompted == key {
		r.mu.Unlock()
		return false, nil
	}
	r.lastPrompted = key
	r.mu.Unlock()

	if r.confirm == nil {
		return false, nil
	}
	ok, err := r.confirm.ConfirmCreate(ctx, key)
	if err != nil {
		return false, fmt.Errorf("confirm %q: %w", key, err)
	}
	if !ok {
		return false, nil
	}

	unit := strings.TrimSpace(draft.Unit)
	if unit == "" {
		unit = "serving"
	}
	if _, err := r.RegisterCustomFood(ctx, NewFood{Name: key, Unit: unit, PerUnit: PerUnitFromTotals(draft)}); err != nil {
		return false, err
	}
	return true, nil
}

// LastPrompted is the unknown name most recently offered for creation.
func (r *Resolver) LastPrompted() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastPrompted
}

// PerUnitFromTotals divides a draft's totals by its quantity. A non-positive
// quantity counts as one unit.
func PerUnitFromTotals(d Draft) Macros {
	qty := d.Quantity
	if qty <= 0 {
		qty = 1
	}
	return Macros{
		Calories: Round2(d.Totals.Calories / qty),
		Protein:  Round2(d.Totals.Protein / qty),
		Carbs:    Round2(d.Totals.Carbs / qty),
		Fats:     Round2(d.Totals.Fats / qty),
	}
}

func fromModel(f model.CustomFood) Food {
	return Food{
		Name: NormalizeName(f.Name),
		Unit: strings.TrimSpace(f.Unit),
		PerUnit: Macros{
			Calories: f.CaloriesPerUnit,
			Protein:  f.ProteinPerUnit,
			Carbs:    f.CarbsPerUnit,
			Fats:     f.FatsPerUnit,
		},
		Source:       SourceCustom,
		AllowedMeals: AllMeals,
	}
}
