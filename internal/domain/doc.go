// Package domain contains the core business entities of the application
// and their validation rules. Entities are plain structs with no knowledge
// of persistence or transport concerns.
package domain
