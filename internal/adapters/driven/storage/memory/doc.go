// Package memory provides in-memory implementations of driven port interfaces.
// Nothing survives a restart; it backs tests and the "memory" store setting.
package memory
