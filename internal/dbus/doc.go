// Package dbus exposes shaded's brightness controls on the session bus as
// io.github.jmylchreest.shade.Control and provides the client used by the
// shade CLI. Owning the bus name also keeps a second daemon from starting.
package dbus
