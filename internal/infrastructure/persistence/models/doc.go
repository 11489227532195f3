// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer free
// of ORM concerns.
//
// Mappers on each model convert between the domain entity and the table row;
// repositories only ever hand domain entities to their callers.
package models
