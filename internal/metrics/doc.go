// Package metrics provides observability hooks for compilation runs.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so no nil checks are needed at call sites:
//
//	driver := pipeline.NewDriver(cfg, pipeline.WithRecorder(metrics.NoopRecorder{}))
//
// PrometheusRecorder backs the interface with client_golang collectors. The
// CLI writes its registry to a node_exporter textfile when --metrics-file is
// set, since a compiler run is too short lived to be scraped.
package metrics
