package forecast

import (
	"fmt"

	"indicli/internal/config"
	apperrors "indicli/internal/errors"
	"indicli/pkg/contracts/domain"
)

// Params carries the method-specific tuning knobs.
type Params struct {
	// Alpha is the exponential smoothing factor, required in (0, 1].
	// Ignored by linear regression.
	Alpha float64
}

// Forecast predicts the series at last_year+1 .. last_year+horizon using the
// selected method. The result is ordered by horizon year and every point
// carries the same fit error. The series must hold at least two
// observations with strictly increasing years.
func Forecast(series domain.Series, method domain.ForecastMethod, horizon int, params Params) ([]domain.ForecastResult, error) {
	if !method.Valid() {
		return nil, apperrors.NewInvalidParameterError("method", string(method))
	}
	if horizon <= 0 {
		return nil, apperrors.NewInvalidParameterError("horizon", fmt.Sprintf("%d", horizon))
	}
	if series.Len() < config.MinSeriesLength {
		return nil, apperrors.NewInsufficientDataError(series.Len(), config.MinSeriesLength)
	}
	if !series.Sorted() {
		return nil, apperrors.NewInvariantError(
			fmt.Sprintf("series %s/%s years are not strictly increasing", series.CountryISO3, series.IndicatorCode))
	}

	var predictions []float64
	var fitError float64
	switch method {
	case domain.MethodLinearRegression:
		predictions, fitError = linearRegression(series.Points, horizon)
	case domain.MethodExponentialSmoothing:
		if params.Alpha <= 0 || params.Alpha > 1 {
			return nil, apperrors.NewInvalidParameterError("smoothing_alpha", fmt.Sprintf("%g", params.Alpha))
		}
		predictions, fitError = exponentialSmoothing(series.Points, horizon, params.Alpha)
	}

	lastYear := series.LastYear()
	out := make([]domain.ForecastResult, 0, horizon)
	for i, p := range predictions {
		out = append(out, domain.ForecastResult{
			CountryISO3:    series.CountryISO3,
			IndicatorCode:  series.IndicatorCode,
			Method:         method,
			HorizonYear:    lastYear + i + 1,
			PredictedValue: p,
			FitError:       fitError,
		})
	}

	return out, nil
}
