// Package models contains GORM persistence models for the shipping configuration tables.
// Domain types in internal/domain/shipping stay free of ORM tags; each model converts
// to and from its domain counterpart with ToDomain / FromDomain.
package models
