// Package x11 talks to the X server directly for the few things GTK4 no
// longer exposes on X11: keeping a window above others, making it ignore
// pointer input and placing it at absolute coordinates.
package x11
