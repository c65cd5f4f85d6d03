// Package metrics provides build, serve and daemon metrics for the docs site.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so call sites never check for nil:
//
//	type Generator struct {
//	    recorder metrics.Recorder
//	}
//
//	func NewGenerator() *Generator {
//	    return &Generator{recorder: metrics.NoopRecorder{}}
//	}
//
// PrometheusRecorder registers its collectors on the registry it is given and
// HTTPHandler exposes that registry for scraping.
package metrics
