package catalog

// Meal types accepted by the tracking API.
const (
	MealBreakfast       = "breakfast"
	MealLunch           = "lunch"
	MealDinner          = "dinner"
	MealEveningSnacks   = "evening_snacks"
	MealMidMorningSnack = "mid_morning_snack"
	MealPreWorkout      = "pre_workout"
	MealPostWorkout     = "post_workout"
)

var AllMeals = []string{
	MealBreakfast,
	MealLunch,
	MealDinner,
	MealEveningSnacks,
	MealMidMorningSnack,
	MealPreWorkout,
	MealPostWorkout,
}

func IsMealType(v string) bool {
	for _, m := range AllMeals {
		if m == v {
			return true
		}
	}
	return false
}

type presetRow struct {
	name     string
	unit     string
	calories float64
	protein  float64
	carbs    float64
	fats     float64
}

var presetTable = []presetRow{
	{"oats", "50g", 194, 8.4, 33, 3.5},
	{"muesli", "50g", 190, 6, 33, 4},
	{"cornflakes", "30g", 114, 2.4, 25, 0.3},
	{"egg", "piece", 78, 6.3, 0.6, 5.3},
	{"milk", "250ml", 155, 8, 12, 8},
	{"banana", "piece", 105, 1.3, 27, 0.4},
	{"apple", "piece", 95, 0.5, 25, 0.3},
	{"orange", "piece", 62, 1.2, 15, 0.2},
	{"bread", "slice", 70, 2.5, 12, 1},
	{"peanut butter", "tbsp", 95, 4, 3, 8},
	{"greek yogurt", "100g", 97, 9, 3.6, 5},
	{"paneer", "100g", 265, 18, 6, 20},
	{"tofu", "100g", 144, 17, 3, 8},
	{"chicken breast", "100g", 165, 31, 0, 3.6},
	{"fish", "100g", 206, 22, 0, 12},
	{"rice", "cup", 205, 4.3, 45, 0.4},
	{"brown rice", "cup", 216, 5, 45, 1.8},
	{"quinoa", "cup", 222, 8, 39, 3.6},
	{"roti", "piece", 120, 3, 20, 2.5},
	{"lentils", "cup", 230, 18, 40, 0.8},
	{"chickpeas", "cup", 269, 14.5, 45, 4},
	{"kidney beans", "cup", 225, 15, 40, 0.9},
	{"potato", "100g", 77, 2, 17, 0.1},
	{"sweet potato", "100g", 86, 1.6, 20, 0.1},
	{"almonds", "10g", 58, 2, 2, 5},
	{"walnuts", "10g", 65, 1.5, 1.3, 6.5},
	{"whey protein", "scoop", 120, 24, 3, 1.5},
	{"salad", "bowl", 80, 2.5, 12, 2},
	{"mixed vegetables", "bowl", 120, 4, 20, 2.5},
	{"avocado", "100g", 160, 2, 9, 15},
	{"cheese", "30g", 120, 7, 1, 10},
}

// Presets returns the built-in catalog keyed by name. Every call builds a
// fresh map so callers cannot mutate the table.
func Presets() map[string]Food {
	out := make(map[string]Food, len(presetTable))
	for _, row := range presetTable {
		out[row.name] = Food{
			Name:         row.name,
			Unit:         row.unit,
			PerUnit:      Macros{Calories: row.calories, Protein: row.protein, Carbs: row.carbs, Fats: row.fats},
			Source:       SourceDefault,
			AllowedMeals: AllMeals,
		}
	}
	return out
}
