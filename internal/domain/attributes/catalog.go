package attributes

// Attribute and category keys used across the model.
const (
	CategoryPhysical          = "physical"
	CategoryMental            = "mental"
	CategoryTechnicalCreation = "technical_creation"
	CategoryTechnicalDefense  = "technical_defense"
	CategoryTechnicalAttack   = "technical_attack"
)

// Score color buckets for display.
const (
	colorExcellent = "#4aff7c" // score >= 16
	colorGood      = "#6cbfcf" // 13-16
	colorAverage   = "#489ccb" // 10-13
	colorWeak      = "#e8e8e7" // < 10
)

// Comparison statuses against the population median.
const (
	ComparisonAbove  = "above"
	ComparisonMedian = "median"
	ComparisonBelow  = "below"
)

// Spec describes one attribute: its display label and what the number
// behind it measures.
type Spec struct {
	Key         string
	Label       string
	Explanation string
}

// Category groups attributes for radar and table display.
type Category struct {
	Key        string
	Label      string
	Color      string
	Attributes []Spec
}

// Catalog returns the five fixed categories in display order.
func Catalog() []Category {
	return []Category{
		{
			Key:   CategoryPhysical,
			Label: "Physical",
			Color: "#ff6384",
			Attributes: []Spec{
				{Key: "speed", Label: "Speed", Explanation: "Top speed (PSV99 scale)"},
				{Key: "acceleration", Label: "Acceleration", Explanation: "Time to reach sprint speed"},
				{Key: "stamina", Label: "Stamina", Explanation: "Total distance per 90min"},
				{Key: "activity", Label: "Activity", Explanation: "Sprint distance per 90min"},
			},
		},
		{
			Key:   CategoryMental,
			Label: "Mental",
			Color: "#489ccb",
			Attributes: []Spec{
				{Key: "off_ball", Label: "Off-Ball", Explanation: "Average off-ball movement score per 90min"},
				{Key: "positioning", Label: "Positioning", Explanation: "Average positioning score per 90min"},
				{Key: "decision_making", Label: "Decision Making", Explanation: "Mean diff in pass score vs optimal pass"},
			},
		},
		{
			Key:   CategoryTechnicalCreation,
			Label: "Technical - Creation",
			Color: "#ff9f43",
			Attributes: []Spec{
				{Key: "ball_retention", Label: "Ball Retention", Explanation: "xLoss delta under pressure"},
				{Key: "passing", Label: "Passing", Explanation: "xPass delta value"},
				{Key: "crossing", Label: "Crossing", Explanation: "xCross delta value"},
			},
		},
		{
			Key:   CategoryTechnicalDefense,
			Label: "Technical - Defense",
			Color: "#4aff7c",
			Attributes: []Spec{
				{Key: "aerial_ability", Label: "Aerial", Explanation: "Aerial duel win rate (Beta smoothing)"},
				{Key: "pressing", Label: "Pressing", Explanation: "Pressures per 90min"},
				{Key: "tackling", Label: "Tackling", Explanation: "Ball recoveries per 90min"},
				{Key: "marking", Label: "Marking", Explanation: "Avg distance to ball carrier when defending"},
			},
		},
		{
			Key:   CategoryTechnicalAttack,
			Label: "Technical - Attack",
			Color: "#c56cf0",
			Attributes: []Spec{
				{Key: "finishing", Label: "Finishing", Explanation: "xG delta on close-range shots"},
				{Key: "long_shots", Label: "Long Shots", Explanation: "xG delta on long-range shots"},
			},
		},
	}
}

// AttributeKeys returns all attribute keys in catalog order.
func AttributeKeys() []string {
	var keys []string
	for _, cat := range Catalog() {
		for _, attr := range cat.Attributes {
			keys = append(keys, attr.Key)
		}
	}
	return keys
}

// ScoreColor returns the display color for a 0-20 score.
func ScoreColor(score float64) string {
	switch {
	case score >= 16:
		return colorExcellent
	case score >= 13:
		return colorGood
	case score >= 10:
		return colorAverage
	default:
		return colorWeak
	}
}

// comparisonStatus classifies a percentile against the median.
func comparisonStatus(percentile float64) (status, symbol string) {
	switch {
	case percentile > 0.5:
		return ComparisonAbove, "▲"
	case percentile == 0.5:
		return ComparisonMedian, "●"
	default:
		return ComparisonBelow, "▼"
	}
}
