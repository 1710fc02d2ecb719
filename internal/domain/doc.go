// Package domain defines the core domain types and interfaces.
//
// Concept-oriented files (errors.go, feedback.go, credential.go, model.go, geo.go, news.go)
// hold shared record types and the contracts the adapters implement. No implementation code.
// Interfaces live here so adapters and the app layer never import each other.
package domain
