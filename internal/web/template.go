package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/homefilter/dual-sensor/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
	"temp": func(v *float64) string {
		if v == nil {
			return "—"
		}
		return fmt.Sprintf("%.2f", *v)
	},
	"presence": func(on bool) string {
		if on {
			return "ON"
		}
		return "OFF"
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Dual Sensor</title>
<style>
body { font-family: monospace; max-width: 800px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
.on { color: green; font-weight: bold; }
.off { color: #888; }
.connected { color: green; }
.disconnected { color: red; }
</style>
</head>
<body>
<h1>Dual Sensor</h1>

<h2>Devices</h2>
<table>
<tr><th>Device</th><th>Temperature</th><th>Average</th><th>Presence</th><th>Samples</th><th>Published</th><th>Suppressed</th><th>Rejected</th></tr>
{{range .Devices}}<tr>
<td>{{.ID}}</td>
<td>{{temp .Temperature}}</td>
<td>{{temp .Average}}</td>
<td class="{{if .Presence}}on{{else}}off{{end}}">{{presence .Presence}}</td>
<td>{{.Samples}}</td>
<td>{{.Counts.TempPublished}}</td>
<td>{{.Counts.TempSuppressed}}</td>
<td>{{.Rejected}}</td>
</tr>
{{end}}</table>

<h2>Presence Counters</h2>
<table>
<tr><th>Device</th><th>Accepted</th><th>Debounced</th><th>Expired</th></tr>
{{range .Devices}}<tr>
<td>{{.ID}}</td>
<td>{{.Counts.PresenceAccepted}}</td>
<td>{{.Counts.PresenceDebounced}}</td>
<td>{{.Counts.PresenceExpired}}</td>
</tr>
{{end}}</table>

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Devices file</th><td>{{.Config.DevicesFile}}</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPAddr}}</td></tr>
</table>

<p><a href="/index.json">JSON</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	// Snapshot has Uptime() method but the template needs a Duration field.
	data := struct {
		status.Snapshot
		Uptime time.Duration
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
	}
	indexTmpl.Execute(w, data)
}
