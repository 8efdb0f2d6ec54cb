package model

type AuthUser struct {
	ID         int64  `json:"id"`
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
	TenantID   int64  `json:"tenant_id"`
	TenantSlug string `json:"tenant_slug"`
	Role       string `json:"role"`
	Tier       string `json:"tier"`
}

type LoginRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	TenantSlug string `json:"tenant_slug,omitempty"`
}

type RegisterRequest struct {
	TenantName    string  `json:"tenant_name"`
	TenantSlug    string  `json:"tenant_slug,omitempty"`
	FullName      string  `json:"full_name"`
	Email         string  `json:"email"`
	Password      string  `json:"password"`
	Age           int     `json:"age,omitempty"`
	Gender        string  `json:"gender,omitempty"`
	HeightCm      float64 `json:"height_cm,omitempty"`
	WeightKg      float64 `json:"weight_kg,omitempty"`
	ActivityLevel string  `json:"activity_level,omitempty"`
	Goal          string  `json:"goal,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// CustomFood is the server representation of a catalog item. Default foods
// use the same shape without an id. Timestamps stay in the server's text form.
type CustomFood struct {
	ID              int64   `json:"id,omitempty"`
	Name            string  `json:"name"`
	Unit            string  `json:"unit"`
	CaloriesPerUnit float64 `json:"calories_per_unit"`
	ProteinPerUnit  float64 `json:"protein_per_unit"`
	CarbsPerUnit    float64 `json:"carbs_per_unit"`
	FatsPerUnit     float64 `json:"fats_per_unit"`
	CreatedAt       string  `json:"created_at,omitempty"`
}

type MealLog struct {
	ID        int64   `json:"id,omitempty"`
	Date      string  `json:"date"`
	MealType  string  `json:"meal_type"`
	FoodName  string  `json:"food_name"`
	Quantity  float64 `json:"quantity"`
	Unit      string  `json:"unit"`
	Calories  float64 `json:"calories"`
	ProteinG  float64 `json:"protein_g"`
	CarbsG    float64 `json:"carbs_g"`
	FatsG     float64 `json:"fats_g"`
	Source    string  `json:"source"`
	CreatedAt string  `json:"created_at,omitempty"`
	UpdatedAt string  `json:"updated_at,omitempty"`
}

func (m MealLog) LogID() int64 { return m.ID }
func (m MealLog) LogDate() string { return m.Date }
func (m MealLog) WithID(id int64) MealLog {
	m.ID = id
	return m
}

type WorkoutLog struct {
	ID                 int64    `json:"id,omitempty"`
	Date               string   `json:"date"`
	Category           string   `json:"category"`
	Name               string   `json:"name"`
	Sets               *int     `json:"sets"`
	Reps               *int     `json:"reps"`
	DurationMinutes    *float64 `json:"duration_minutes"`
	CaloriesBurnedKcal float64  `json:"calories_burned_kcal"`
	Notes              *string  `json:"notes"`
	CreatedAt          string   `json:"created_at,omitempty"`
	UpdatedAt          string   `json:"updated_at,omitempty"`
}

func (w WorkoutLog) LogID() int64 { return w.ID }
func (w WorkoutLog) LogDate() string { return w.Date }
func (w WorkoutLog) WithID(id int64) WorkoutLog {
	w.ID = id
	return w
}

// Minutes returns the logged duration, treating a missing value as zero.
func (w WorkoutLog) Minutes() float64 {
	if w.DurationMinutes == nil {
		return 0
	}
	return *w.DurationMinutes
}

type AnalyticsPoint struct {
	Date             string  `json:"date"`
	ConsistencyScore float64 `json:"consistency_score"`
	CaloriesConsumed float64 `json:"calories_consumed"`
	WaterMl          float64 `json:"water_ml"`
	ProteinG         float64 `json:"protein_g"`
	CarbsG           float64 `json:"carbs_g"`
	FatsG            float64 `json:"fats_g"`
	WorkoutMinutes   float64 `json:"workout_minutes"`
	WorkoutEntries   int     `json:"workout_entries"`
}

type TrackingSummary struct {
	CaloriesConsumed          float64 `json:"calories_consumed"`
	CalorieTarget             float64 `json:"calorie_target"`
	DeficitOrSurplus          float64 `json:"deficit_or_surplus"`
	NutrientCompletionPercent float64 `json:"nutrient_completion_percent"`
	WaterCompletionPercent    float64 `json:"water_completion_percent"`
	WorkoutCompleted          bool    `json:"workout_completed"`
	ConsistencyScore          float64 `json:"consistency_score"`
	StreakCount               int     `json:"streak_count"`
	ProteinG                  float64 `json:"protein_g"`
	CarbsG                    float64 `json:"carbs_g"`
	FatsG                     float64 `json:"fats_g"`
	LastUpdatedAt             *string `json:"last_updated_at"`
	LastRecordedDate          *string `json:"last_recorded_date"`
}

type AdvancedAnalysis struct {
	Period           string           `json:"period"`
	LastUpdatedAt    *string          `json:"last_updated_at"`
	LastRecordedDate *string          `json:"last_recorded_date"`
	Points           []AnalyticsPoint `json:"points"`
	Suggestions      []string         `json:"suggestions"`
}

type Notification struct {
	ID      int64  `json:"id"`
	Kind    string `json:"kind"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

type PerformanceAnalysisRequest struct {
	EntryText       string  `json:"entry_text"`
	MaintenanceKcal float64 `json:"maintenance_kcal,omitempty"`
	Goal            string  `json:"goal,omitempty"`
	BodyWeightKg    float64 `json:"body_weight_kg,omitempty"`
	SaveToDailyLog  bool    `json:"save_to_daily_log"`
}

type MealMacroBreakdown struct {
	CaloriesKcal float64 `json:"calories_kcal"`
	ProteinG     float64 `json:"protein_g"`
	CarbsG       float64 `json:"carbs_g"`
	FatsG        float64 `json:"fats_g"`
}

type MealReportItem struct {
	Meal              string             `json:"meal"`
	DetectedItems     []string           `json:"detected_items"`
	EstimatedPortions []string           `json:"estimated_portions"`
	Macros            MealMacroBreakdown `json:"macros"`
}

type NutritionReport struct {
	Meals                     []MealReportItem   `json:"meals"`
	TotalCaloriesKcal         float64            `json:"total_calories_kcal"`
	TotalProteinG             float64            `json:"total_protein_g"`
	TotalCarbsG               float64            `json:"total_carbs_g"`
	TotalFatsG                float64            `json:"total_fats_g"`
	MacroDistributionPercent  map[string]float64 `json:"macro_distribution_percent"`
	CalorieBalanceKcal        float64            `json:"calorie_balance_kcal"`
	CalorieBalanceLabel       string             `json:"calorie_balance_label"`
	ProteinAdequacyStatus     string             `json:"protein_adequacy_status"`
	NutritionQualityScore     float64            `json:"nutrition_quality_score"`
	NutritionPerformanceScore float64            `json:"nutrition_performance_score"`
}

type WorkoutReport struct {
	TrainingVolume              int      `json:"training_volume"`
	Intensity                   string   `json:"intensity"`
	MuscleGroupsTrained         []string `json:"muscle_groups_trained"`
	EstimatedCaloriesBurnedKcal float64  `json:"estimated_calories_burned_kcal"`
	TotalActivityBurnKcal       float64  `json:"total_activity_burn_kcal"`
	EffortAnalysis              string   `json:"effort_analysis"`
	WorkoutScore                float64  `json:"workout_score"`
	RecoveryInsights            []string `json:"recovery_insights"`
}

type HydrationReport struct {
	ConsumedLiters    float64 `json:"consumed_liters"`
	TargetLiters      float64 `json:"target_liters"`
	CompletionPercent float64 `json:"completion_percent"`
	DehydrationRisk   string  `json:"dehydration_risk"`
	Status            string  `json:"status"`
}

type PerformanceDashboard struct {
	TotalCaloriesConsumedKcal float64 `json:"total_calories_consumed_kcal"`
	TotalCaloriesBurnedKcal   float64 `json:"total_calories_burned_kcal"`
	NetCaloriesKcal           float64 `json:"net_calories_kcal"`
	HydrationLevelPercent     float64 `json:"hydration_level_percent"`
	HydrationStatus           string  `json:"hydration_status"`
	ActivityLevel             string  `json:"activity_level"`
	RecoveryStatus            string  `json:"recovery_status"`
	OverallPerformanceScore   float64 `json:"overall_max_rep_performance_score"`
}

type PerformanceAnalysisResponse struct {
	NutritionReport NutritionReport      `json:"nutrition_report"`
	WorkoutReport   WorkoutReport        `json:"workout_report"`
	HydrationReport HydrationReport      `json:"hydration_report"`
	Dashboard       PerformanceDashboard `json:"dashboard"`
}
