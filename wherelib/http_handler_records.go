package wherelib

import (
	"bytes"
	"html/template"
	"net/http"
)

var recordsTemplate = template.Must(template.New("records").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Saved Locations</title>
</head>
<body>
<h2>Saved Locations</h2>
{{- if .Rows }}
<table border="1" cellpadding="6" cellspacing="0">
<thead>
<tr>{{ range .Columns }}<th>{{ . }}</th>{{ end }}</tr>
</thead>
<tbody>
{{- range .Rows }}
<tr>{{ range . }}<td>{{ . }}</td>{{ end }}</tr>
{{- end }}
</tbody>
</table>
{{- else }}
<p>No records yet.</p>
{{- end }}
</body>
</html>
`))

type recordsTemplateContext struct {
	Columns []string
	Rows    [][]string
}

func (h httpHandler) handleRecords(w http.ResponseWriter, req *http.Request) {
	records, err := h.app.Records(req.Context())
	if err != nil {
		http.Error(w, "Cannot load records", http.StatusInternalServerError)

		return
	}

	tplContext := recordsTemplateContext{
		Columns: RecordColumns,
		Rows:    make([][]string, 0, len(records)),
	}

	for i := range records {
		tplContext.Rows = append(tplContext.Rows, records[i].Strings())
	}

	// render into a buffer so a template failure still can be reported
	// with a correct status code.
	buf := bytes.Buffer{}

	if err := recordsTemplate.Execute(&buf, tplContext); err != nil {
		http.Error(w, "Cannot render records", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w) // nolint: errcheck
}
