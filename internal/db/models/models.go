// Package models defines the persisted entities of the project database
package models

// All returns every model managed by the project database migrations, in
// dependency order.
func All() []interface{} {
	return []interface{}{
		&Project{},
		&ProjectTag{},
		&Task{},
	}
}
