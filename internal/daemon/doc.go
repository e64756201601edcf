// Package daemon glues shaded's parts together: it carries D-Bus requests
// onto the UI thread, watches the config directory and turns config
// changes into the minimal set of updates.
package daemon
