package handlers

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"net/http"
)

//go:embed views
var views embed.FS

type index struct {
	page []byte
}

// newIndex renders the index page once since its content never changes.
func newIndex(build string, eventsURL string) (*index, error) {
	tmpl, err := template.ParseFS(views, "views/index.html")
	if err != nil {
		return nil, err
	}

	data := struct {
		Build     string
		EventsURL string
	}{
		Build:     build,
		EventsURL: eventsURL,
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, err
	}

	return &index{page: buf.Bytes()}, nil
}

func (ig *index) handler(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, err := w.Write(ig.page)
	return err
}
