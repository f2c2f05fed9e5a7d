package domain

// ForecastMethod selects the model used for a forecast request.
type ForecastMethod string

const (
	MethodLinearRegression     ForecastMethod = "linear_regression"
	MethodExponentialSmoothing ForecastMethod = "exponential_smoothing"
)

// Valid reports whether the method is one of the supported models.
func (m ForecastMethod) Valid() bool {
	return m == MethodLinearRegression || m == MethodExponentialSmoothing
}

// ForecastResult is one predicted point of a forecast horizon. FitError is
// the residual sum of squares for linear regression and the mean absolute
// smoothing residual for exponential smoothing; it is identical for every
// horizon year of the same request.
type ForecastResult struct {
	CountryISO3    string         `json:"country_iso3"`
	IndicatorCode  string         `json:"indicator_code"`
	Method         ForecastMethod `json:"method"`
	HorizonYear    int            `json:"horizon_year"`
	PredictedValue float64        `json:"predicted_value"`
	FitError       float64        `json:"fit_error"`
}
