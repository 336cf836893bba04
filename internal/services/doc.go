// Package services contains the business layer of the admin dashboard.
// Services sit between the HTTP transport and the platform client: they
// normalize requests, validate payloads, assemble exports and dashboard
// views, and publish activity to connected websocket clients.
package services
