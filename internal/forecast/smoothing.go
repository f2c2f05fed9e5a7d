package forecast

import (
	"math"

	"indicli/pkg/contracts/domain"
)

// exponentialSmoothing runs single exponential smoothing over the history
// and forecasts the flat final state for every horizon year. There is no
// trend component. The fit error is the mean absolute residual between each
// observation and the smoothed state before it absorbed that observation.
func exponentialSmoothing(points []domain.Observation, horizon int, alpha float64) ([]float64, float64) {
	state := points[0].Value

	var absResiduals float64
	for _, p := range points[1:] {
		absResiduals += math.Abs(p.Value - state)
		state = alpha*p.Value + (1-alpha)*state
	}
	fitError := absResiduals / float64(len(points)-1)

	predictions := make([]float64, horizon)
	for i := range predictions {
		predictions[i] = state
	}

	return predictions, fitError
}
