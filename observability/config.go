package observability

type (
	metricsConfig struct {
		enabled bool
	}

	Config struct {
		metrics metricsConfig
	}
)
