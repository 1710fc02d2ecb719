// Package app is the use-case layer behind the HTTP handlers.
//
// It turns uploads and form input into scored, charted results, keeps model
// failures visible as warnings instead of errors, validates records before they
// reach a store, and owns registration and login.
package app
