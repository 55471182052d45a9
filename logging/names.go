package logging

const (
	NameBenOrNode     = "BenOrNode"
	NameBenOrInstance = "BenOrInstance"
	NameTransport     = "Transport"
	NameAPIServer     = "APIServer"
	NameLocalNet      = "LocalNet"
	NameMetrics       = "MetricsHandler"
	NameObservability = "Observability"
)
