// Package tray publishes shaded's system tray icon as a freedesktop
// StatusNotifierItem with a com.canonical.dbusmenu context menu. It talks
// to the session bus directly and needs no toolkit.
package tray
