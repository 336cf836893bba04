// Package http contains the chi handlers behind /api: fleet CRUD proxies,
// the dashboard summary, the activity feed, system error monitoring, entity
// exports, health checks, and the websocket upgrade endpoint. All errors
// render as RFC 7807 problem details.
package http
