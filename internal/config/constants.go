package config

// Application constants for the indicli pipeline
const (
	// Application Info
	AppName    = "indicli"
	AppVersion = "1.0.0"

	// Missing-value strategies
	StrategyDrop        = "drop"
	StrategyForwardFill = "forward_fill"
	StrategyInterpolate = "interpolate"
	StrategyMeanFill    = "mean_fill"

	// Forecast methods
	MethodLinearRegression     = "linear_regression"
	MethodExponentialSmoothing = "exponential_smoothing"

	// Pipeline defaults
	DefaultMissingValueStrategy = StrategyForwardFill
	DefaultRollingWindow        = 3
	DefaultForecastMethod       = MethodLinearRegression
	DefaultForecastHorizon      = 5
	DefaultSmoothingAlpha       = 0.5

	// MinSeriesLength is the smallest series either forecast method accepts.
	MinSeriesLength = 2

	// Null token used by World Bank wide exports for missing values
	MissingValueToken = ".."

	// Rate Limiting
	DefaultRateLimit = 100 // requests per second
	DefaultBurstSize = 50
)
