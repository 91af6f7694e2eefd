package features

import "math"

// Logistic coefficients of the bundled shot model. Weights come from the
// offline training run; this file only applies them.
const (
	xgIntercept = 0.35
	xgDistanceW = -0.105
	xgAngleW    = 1.15
	xgHeaderW   = -0.55
)

// LogisticXGModel is a pre-trained logistic shot classifier over the
// geometric features (distance, angle, header flag).
type LogisticXGModel struct{}

// NewLogisticXGModel returns the bundled shot classifier.
func NewLogisticXGModel() *LogisticXGModel {
	return &LogisticXGModel{}
}

// PredictProbability returns the goal probability for a shot.
func (m *LogisticXGModel) PredictProbability(distance, angle float64, header bool) float64 {
	z := xgIntercept + xgDistanceW*distance + xgAngleW*angle
	if header {
		z += xgHeaderW
	}
	return 1.0 / (1.0 + math.Exp(-z))
}
