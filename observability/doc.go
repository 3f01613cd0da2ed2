// Package observability wires the client into OpenTelemetry.
//
// Applications that already run an OpenTelemetry SDK need nothing from here:
// spans and metrics go to the global providers. Init sets those providers up
// with OTLP HTTP exporters for applications that do not.
//
//	tel, err := observability.Init(ctx, observability.Config{Enabled: true})
//	defer tel.Stop(ctx)
//
//	metrics, err := observability.NewMetrics(tel.Meter("cloudkit"))
//
// A nil *Metrics is valid and records nothing.
package observability
