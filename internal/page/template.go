package page

import (
	"fmt"
	"html/template"
	"io"
	"strings"
)

// 页面外观完全由主题样式表决定，这里只输出结构与事件转发脚本。
const pageTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Resume Builder</title>
    <link id="theme-stylesheet" rel="stylesheet" href="{{.Stylesheet}}">
</head>
<body>
    <div class="toolbar">
        {{range .Themes}}
        <button id="theme-{{.}}" class="theme-btn{{if index $.Active .}} active{{end}}" data-control="theme-{{.}}">{{. | title}}</button>
        {{end}}
        <button id="print" data-control="print">Print</button>
        <button id="clear" data-control="clear">Clear All</button>
    </div>
    <div class="editor">
        <form class="form" onsubmit="return false">
            {{range .Slots}}{{if .HasInput}}
            <label for="{{.Input}}">{{.Input | title}}</label>
            {{if .Multiline}}
            <textarea id="{{.Input}}" data-field="{{.Input}}" placeholder="{{.Placeholder}}">{{.Value}}</textarea>
            {{else}}
            <input id="{{.Input}}" data-field="{{.Input}}" type="text" placeholder="{{.Placeholder}}" value="{{.Value}}">
            {{end}}
            {{end}}{{end}}
        </form>
        <div class="resume-preview" id="resume-preview">
            {{range .Slots}}{{if .HasPreview}}
            <div id="{{.Preview}}" class="preview-field{{if .Multiline}} multiline{{end}}">{{.PreviewHTML | safeHTML}}</div>
            {{end}}{{end}}
        </div>
    </div>
    <script>
    (function () {
      const post = (path, body) => fetch(path, {
        method: 'POST',
        headers: {'Content-Type': 'application/json'},
        body: JSON.stringify(body || {})
      });
      // 序号跨页面刷新单调递增，服务端据此丢弃乱序到达的旧值。
      const seqBase = Date.now() * 1000;
      document.querySelectorAll('[data-field]').forEach((el) => {
        const id = el.dataset.field;
        let seq = seqBase;
        let pending = Promise.resolve();
        const send = (path) => {
          const body = {value: el.value, seq: ++seq};
          pending = pending.then(() => post(path, body)).catch(() => {});
        };
        el.addEventListener('input', () => send('/v1/fields/' + id));
        el.addEventListener('paste', () => setTimeout(() => send('/v1/fields/' + id + '/paste'), 0));
      });
      document.querySelectorAll('[data-control]').forEach((el) => {
        const control = el.dataset.control;
        el.addEventListener('click', () => {
          if (control === 'clear') {
            post('/v1/clear', {confirmed: window.confirm('Are you sure you want to clear all fields? This cannot be undone.')});
          } else if (control === 'print') {
            post('/v1/print');
          } else {
            post('/v1/theme/' + control.replace('theme-', ''));
          }
        });
      });
      const ws = new WebSocket((location.protocol === 'https:' ? 'wss://' : 'ws://') + location.host + '/v1/ws');
      ws.onmessage = (msg) => {
        const change = JSON.parse(msg.data);
        if (change.kind === 'preview') {
          const el = document.getElementById(change.target);
          if (el) el.innerHTML = change.html;
        } else if (change.kind === 'input') {
          const el = document.getElementById(change.target);
          if (el && el.value !== change.value) el.value = change.value || '';
        } else if (change.kind === 'stylesheet') {
          document.getElementById('theme-stylesheet').href = change.value;
        } else if (change.kind === 'theme') {
          const el = document.getElementById('theme-' + change.target);
          if (el) el.classList.toggle('active', !!change.active);
        } else if (change.kind === 'printed' && /^https?:/.test(change.value || '')) {
          window.open(change.value, '_blank');
        }
      };
    })();
    </script>
</body>
</html>
`

var tmpl = template.Must(template.New("page").Funcs(template.FuncMap{
	"safeHTML": func(s string) template.HTML { return template.HTML(s) },
	"title":    titleCase,
}).Parse(pageTemplate))

// Render writes the full editor page for v.
func Render(w io.Writer, v View) error {
	return tmpl.Execute(w, v)
}

// previewTemplate is the print-only page: previews without the editor.
const previewTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    {{if .BaseURL}}<base href="{{.BaseURL}}">{{end}}
    {{if .Stylesheet}}<link rel="stylesheet" href="{{.Stylesheet}}">{{end}}
    <style>@page { size: A4; margin: 0; }</style>
</head>
<body>
    <div class="resume-preview" id="resume-preview">
        {{range .Slots}}{{if .HasPreview}}
        <div id="{{.Preview}}" class="preview-field{{if .Multiline}} multiline{{end}}">{{.PreviewHTML | safeHTML}}</div>
        {{end}}{{end}}
    </div>
</body>
</html>
`

var printTmpl = template.Must(template.New("print").Funcs(template.FuncMap{
	"safeHTML": func(s string) template.HTML { return template.HTML(s) },
}).Parse(previewTemplate))

// RenderPrint writes the print-only page for v. A non-empty baseURL is
// emitted as <base href> so the theme stylesheet resolves outside the browser.
func RenderPrint(w io.Writer, v View, baseURL string) error {
	return printTmpl.Execute(w, struct {
		View
		BaseURL string
	}{View: v, BaseURL: baseURL})
}

func titleCase(v any) string {
	s := fmt.Sprint(v)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
