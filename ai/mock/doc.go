// Package mock provides test doubles for the ai package interfaces.
// The doubles default to deterministic behavior and support custom
// behavior injection through function fields.
package mock
