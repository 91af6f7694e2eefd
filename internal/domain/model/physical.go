package model

import "math"

// PhysicalProfile is a player's tracking-derived physical aggregate row.
// Missing measurements stay NaN so consumers can fall back per field.
type PhysicalProfile struct {
	PlayerID string

	// MinutesFullAll is the total minutes played across the dataset.
	MinutesFullAll float64

	// PSV99Top5 is the mean of the five highest peak sprint velocities.
	PSV99Top5 float64

	// TimeToSprintTop3 is the mean of the three fastest times to reach
	// sprint speed.
	TimeToSprintTop3 float64

	// TotalDistanceFullAll is the total distance covered.
	TotalDistanceFullAll float64

	// SprintDistanceFullAll is the distance covered at sprint speed.
	SprintDistanceFullAll float64
}

// NewPhysicalProfile returns a profile with every measurement set to NaN.
func NewPhysicalProfile(playerID string) PhysicalProfile {
	nan := math.NaN()
	return PhysicalProfile{
		PlayerID:              playerID,
		MinutesFullAll:        nan,
		PSV99Top5:             nan,
		TimeToSprintTop3:      nan,
		TotalDistanceFullAll:  nan,
		SprintDistanceFullAll: nan,
	}
}
