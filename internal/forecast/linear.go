package forecast

import (
	"indicli/pkg/contracts/domain"
)

// linearRegression fits value = intercept + slope*year by ordinary least
// squares and evaluates the line at the next horizon years. The fit error is
// the residual sum of squares over the history.
func linearRegression(points []domain.Observation, horizon int) ([]float64, float64) {
	n := float64(len(points))

	var sumX, sumY float64
	for _, p := range points {
		sumX += float64(p.Year)
		sumY += p.Value
	}
	meanX := sumX / n
	meanY := sumY / n

	var sxx, sxy float64
	for _, p := range points {
		dx := float64(p.Year) - meanX
		sxx += dx * dx
		sxy += dx * (p.Value - meanY)
	}

	// Years are strictly increasing, so sxx is never zero here.
	slope := sxy / sxx
	intercept := meanY - slope*meanX

	var rss float64
	for _, p := range points {
		residual := p.Value - (intercept + slope*float64(p.Year))
		rss += residual * residual
	}

	lastYear := points[len(points)-1].Year
	predictions := make([]float64, horizon)
	for i := range predictions {
		predictions[i] = intercept + slope*float64(lastYear+i+1)
	}

	return predictions, rss
}
