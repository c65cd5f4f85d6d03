// Package build generates the static site tree.
//
// A Generator enumerates routes, renders them on a bounded worker pool and
// writes index.html files, sitemap.xml, robots.txt, 404.html and
// build-manifest.json below the output directory. Only enumerated routes are
// ever written. A page that fails to render becomes a Diagnostic and the build
// continues; output errors and cancellation end it.
package build
