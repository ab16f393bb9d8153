// Package metrics declares the docker/go-metrics namespaces the rsync CLI
// registers its counters and timers under.
package metrics

import "github.com/docker/go-metrics"

const (
	// NamespacePrefix is the namespace of all rsyncdiff prometheus metrics.
	NamespacePrefix = "rsyncdiff"
)

var (
	// SignatureNamespace covers signature construction: signatures built
	// and time spent.
	SignatureNamespace = metrics.NewNamespace(NamespacePrefix, "signature", nil)

	// DiffNamespace covers delta computation: blocks matched, CRC
	// collisions blacklisted, bytes emitted as literal, time spent.
	DiffNamespace = metrics.NewNamespace(NamespacePrefix, "diff", nil)

	// ApplyNamespace covers delta application: deltas applied and deltas
	// rejected.
	ApplyNamespace = metrics.NewNamespace(NamespacePrefix, "apply", nil)
)

func init() {
	metrics.Register(SignatureNamespace)
	metrics.Register(DiffNamespace)
	metrics.Register(ApplyNamespace)
}
