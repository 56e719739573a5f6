// Package metric provides Prometheus metrics for the smsauth client.
//
// The client is short-lived, so nothing is scraped over HTTP. Metrics are
// written to a node_exporter textfile when the process exits (see
// Registry.WriteTextfile).
package metric
