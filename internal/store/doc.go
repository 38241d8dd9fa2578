// Package store provides abstractions and shared errors for data
// persistence. Concrete implementations live under internal/platform.
package store
