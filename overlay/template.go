package overlay

import "html/template"

var overlayTemplate = template.Must(template.New("overlay").Parse(overlayHTML))

const overlayHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>{{.Styles}}</style>
</head>
<body>
<header class="toolbar">
  <h1>{{.Title}}</h1>
  <div class="toggles">
    {{- range .Kinds}}
    <label class="toggle">
      <input type="checkbox" data-type="{{.Kind}}" checked>
      <span class="swatch" style="background:{{.Color}}"></span>{{.Kind}}
    </label>
    {{- end}}
    <label class="toggle">
      <input type="checkbox" id="toggle-cells" checked>
      <span class="swatch" style="background:{{.CellColor}}"></span>cells
    </label>
  </div>
  <div class="stats">{{.Summary}}</div>
</header>
<main>
{{- range .Pages}}
<section class="sheet">
  <div class="page-label">Page {{.PageNo}}</div>
  <div class="page" style="width:{{.Width}}px;height:{{.Height}}px">
    {{- if .DataURI}}
    <img src="{{.DataURI}}" width="{{.Width}}" height="{{.Height}}" alt="page {{.PageNo}}">
    {{- end}}
    <svg class="annotations" width="{{.Width}}" height="{{.Height}}" viewBox="0 0 {{.Width}} {{.Height}}">
      {{- range .Layers}}
      <g class="layer" data-type="{{.Kind}}">
        {{- range .Shapes}}
        <g class="item" data-seq="{{.Seq}}">
          <rect x="{{.Box.X}}" y="{{.Box.Y}}" width="{{.Box.Width}}" height="{{.Box.Height}}" stroke="{{.Color}}" fill="{{.Color}}" fill-opacity="0.12">
            <title>#{{.Seq}} {{.Kind}}{{if .Label}} ({{.Label}}){{end}}{{if .Text}}: {{.Text}}{{end}}</title>
          </rect>
          {{- range .Cells}}
          <rect class="cell" x="{{.Box.X}}" y="{{.Box.Y}}" width="{{.Box.Width}}" height="{{.Box.Height}}" stroke="{{$.CellColor}}" fill="none" stroke-dasharray="3,2">
            <title>[{{.Row}},{{.Col}}]{{if .Header}} header{{end}}{{if .Text}}: {{.Text}}{{end}}</title>
          </rect>
          {{- end}}
        </g>
        {{- end}}
      </g>
      {{- end}}
    </svg>
  </div>
</section>
{{- end}}
</main>
<footer id="inspector" hidden></footer>
<script>
const docData = {{.DocJSON}};
document.querySelectorAll('input[data-type]').forEach(function (cb) {
  cb.addEventListener('change', function () {
    var sel = 'g.layer[data-type="' + cb.dataset.type + '"]';
    document.querySelectorAll(sel).forEach(function (g) {
      g.style.display = cb.checked ? '' : 'none';
    });
  });
});
document.getElementById('toggle-cells').addEventListener('change', function () {
  var show = this.checked;
  document.querySelectorAll('rect.cell').forEach(function (r) {
    r.style.display = show ? '' : 'none';
  });
});
var inspector = document.getElementById('inspector');
document.querySelectorAll('g.item').forEach(function (g) {
  g.addEventListener('click', function () {
    var title = g.querySelector('title');
    inspector.textContent = title ? title.textContent : '#' + g.dataset.seq;
    inspector.hidden = false;
  });
});
</script>
</body>
</html>
`
