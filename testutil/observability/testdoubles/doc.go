// Package testdoubles provides spy implementations of the eventstore
// observability interfaces, capturing every call for inspection in tests.
package testdoubles
