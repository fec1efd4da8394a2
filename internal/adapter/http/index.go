package http

import (
	"html/template"

	"github.com/couchcryptid/oregon-fire-report/internal/dashboard"
	"github.com/couchcryptid/oregon-fire-report/internal/domain"
)

type indexData struct {
	Options dashboard.Options
	Figure  dashboard.Render
}

var indexTemplate = template.Must(template.New("index").Funcs(template.FuncMap{
	"classPlaceholder": func() string { return domain.SizeClassPlaceholder },
	"causePlaceholder": func() string { return domain.CausePlaceholder },
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Oregon Fires Dashboard</title>
<style>
body { font-family: sans-serif; margin: 2rem; }
.controls { display: flex; gap: 1.5rem; align-items: center; margin-bottom: 1rem; }
#error { color: #b00020; min-height: 1.2em; }
img { max-width: 100%; }
</style>
</head>
<body>
<h1 id="title">{{.Figure.Title}}</h1>
<div class="controls">
  <label>Size class
    <select data-control="size_class">
      <option value="{{classPlaceholder}}">{{classPlaceholder}}</option>
      {{- range .Options.SizeClasses}}
      <option value="{{.}}"{{if eq . $.Figure.Selection.SizeClass}} selected{{end}}>{{.}}</option>
      {{- end}}
    </select>
  </label>
  <label>Cause
    <select data-control="cause">
      <option value="{{causePlaceholder}}">{{causePlaceholder}}</option>
      {{- range .Options.Causes}}
      <option value="{{.}}"{{if eq . $.Figure.Selection.Cause}} selected{{end}}>{{.}}</option>
      {{- end}}
    </select>
  </label>
  <label>Year <span id="year">{{.Figure.Selection.Year}}</span>
    <input type="range" data-control="year" min="{{.Options.MinYear}}" max="{{.Options.MaxYear}}" step="1"
      value="{{.Figure.Selection.Year}}" list="years">
    <datalist id="years">{{range .Options.Years}}<option value="{{.}}"></option>{{end}}</datalist>
  </label>
</div>
<div id="error"></div>
<img id="chart" src="/chart.png" alt="dashboard chart">
<script>
document.querySelectorAll("[data-control]").forEach(function (el) {
  el.addEventListener("change", function () {
    fetch("/api/selection", {
      method: "POST",
      headers: {"Content-Type": "application/json"},
      body: JSON.stringify({control: el.dataset.control, value: el.value})
    }).then(function (resp) {
      return resp.json().then(function (body) { return {ok: resp.ok, body: body}; });
    }).then(function (r) {
      var fig = r.ok ? r.body : r.body.figure;
      document.getElementById("error").textContent = r.ok ? "" : r.body.error;
      if (fig) {
        document.getElementById("title").textContent = fig.title;
        document.getElementById("year").textContent = fig.selection.year;
        document.querySelector("[data-control=year]").value = fig.selection.year;
      }
      document.getElementById("chart").src = "/chart.png?t=" + Date.now();
    });
  });
});
</script>
</body>
</html>
`))
