package model

// Message is the value carried by a transfer channel: either a payload or the
// shutdown marker. A payload never doubles as a shutdown request.
type Message[T any] struct {
	value    T
	shutdown bool
}

// Payload wraps v into a data message.
func Payload[T any](v T) Message[T] {
	return Message[T]{value: v}
}

// Shutdown returns the marker meaning no more messages will follow.
func Shutdown[T any]() Message[T] {
	return Message[T]{shutdown: true}
}

// IsShutdown reports whether m is the shutdown marker.
func (m Message[T]) IsShutdown() bool {
	return m.shutdown
}

// Value returns the payload. It is the zero value for a shutdown marker.
func (m Message[T]) Value() T {
	return m.value
}
