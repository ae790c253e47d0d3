// Package http implements the HTTP handlers of the stock dashboard API.
// Handlers stay thin: they parse the request, call the dashboard service and
// render the result or an RFC 7807 problem.
//
// # Routes
//
//	POST   /api/datasets                     upload a price file (multipart "file")
//	GET    /api/datasets/{id}                describe a stored dataset
//	DELETE /api/datasets/{id}                discard a stored dataset
//	POST   /api/datasets/{id}/dashboard      KPIs, cards and charts for a DashboardConfig
//	GET    /api/datasets/{id}/export         filtered table as CSV or XLSX
//	POST   /api/dashboard                    one-shot dashboard, nothing is stored
//	POST   /api/logs                         browser log lines
//	GET    /api/health[/ready|/live]         health probes
//	GET    /api/version                      build information
//	GET    /metrics                          Prometheus exposition
//
// # Request Flow
//
//	HTTP Request → Chi Router → Middleware → Handler → DashboardService → Dataset Store
//	                                              ↓
//	HTTP Response ← Handler ← Service Response ←─┘
//
// # Error Handling
//
// Service errors are translated by mapError and written by the shared
// ErrorHandler:
//
//	{
//	    "type": "/errors/data/missing-columns",
//	    "title": "Unprocessable Entity",
//	    "status": 422,
//	    "detail": "The file must have the following columns: date, open, high, low, close, volume",
//	    "instance": "/api/datasets",
//	    "error_code": "MISSING_COLUMNS",
//	    "details": {"required": [...], "missing": ["volume"]}
//	}
//
// # Testing
//
// Handlers are tested with httptest against a testify mock of
// DashboardServiceInterface, plus one end-to-end pass over the real service.
package http
