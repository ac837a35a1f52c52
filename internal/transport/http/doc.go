// Package http serves the series operations over HTTP. Handlers are thin:
// they parse query and path parameters, call the services layer and render
// JSON with go-chi/render.
//
// Successful responses wrap their payload:
//
//	{"status": "success", "data": {...}}
//
// Failures are RFC 7807 problem documents produced by errors.ErrorHandler:
//
//	{
//	    "type": "/errors/data/not-found",
//	    "title": "Not Found",
//	    "status": 404,
//	    "detail": "No data for month 2023-05",
//	    "instance": "/api/series/month/2023-05"
//	}
//
// Routes:
//
//	GET /api/series/period?start=&end=
//	GET /api/series/month/{month}
//	GET /api/series/monthly
//	GET /api/series/deviation?threshold=
//	GET /api/series/stats
//	GET /api/health, /api/health/ready, /api/health/live
//	GET /api/version
package http
