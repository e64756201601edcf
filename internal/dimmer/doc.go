// Package dimmer holds the brightness model of shade and the state machine
// behind the slider popup. Every mutating method must run on the UI thread;
// other goroutines go through the Request* methods, which only enqueue work.
package dimmer
