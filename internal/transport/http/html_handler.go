package http

import (
	"html/template"
	"net/http"
	"time"

	"github.com/waqarulwahab/stock-data-visualizer-web-app/internal/config"
)

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head>
    <title>Stock Data Visualizer</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 40px; }
        .status { padding: 10px; margin: 10px 0; border-radius: 4px; background-color: #d1ecf1; color: #0c5460; }
        code { background-color: #f4f4f4; padding: 2px 4px; }
    </style>
</head>
<body>
    <h1>Stock Data Visualizer</h1>
    <div class="status">
        <strong>Version:</strong> {{.Version}}
        <br><strong>Time:</strong> {{.Time}}
    </div>
    <h2>API</h2>
    <ul>
        <li><code>POST {{.Datasets}}</code> upload a CSV or XLSX price file</li>
        <li><code>POST {{.Datasets}}/{id}/dashboard</code> KPIs and charts for a selection</li>
        <li><code>GET {{.Datasets}}/{id}/export?format=csv</code> download the filtered table</li>
        <li><code>POST {{.Dashboard}}</code> one-shot dashboard for an upload</li>
        <li><a href="{{.Health}}">Health Check</a></li>
        <li><a href="{{.VersionPath}}">Version Info</a></li>
        <li><a href="{{.Metrics}}">Metrics</a></li>
    </ul>
</body>
</html>
`))

// ServeIndex serves a landing page listing the API endpoints
func ServeIndex(version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")

		data := map[string]string{
			"Version":     version,
			"Time":        time.Now().Format("2006-01-02 15:04:05"),
			"Datasets":    config.DatasetsPath,
			"Dashboard":   config.DashboardPath,
			"Health":      config.HealthEndpoint,
			"VersionPath": config.VersionEndpoint,
			"Metrics":     config.MetricsEndpoint,
		}
		if err := indexTemplate.Execute(w, data); err != nil {
			http.Error(w, "Error rendering page", http.StatusInternalServerError)
		}
	}
}
