// Package mei writes exported scores as MEI documents, the format the
// engraving renderer reads.
package mei

import (
	"bytes"
	"embed"
	"io"
	"path/filepath"
	"text/template"

	"github.com/Masterminds/sprig"
	"github.com/pkg/errors"
	"github.com/vsariola/stave"
)

//go:embed templates/*
var templateFS embed.FS

// Writer renders exports with a template named "mei.xml".
type Writer struct {
	Template *template.Template
	Title    string
}

// New returns a Writer using the built-in template.
func New() (*Writer, error) {
	tmpl, err := template.New("base").Funcs(sprig.TxtFuncMap()).ParseFS(templateFS, "templates/*")
	if err != nil {
		return nil, errors.Wrap(err, "could not create templates")
	}
	return &Writer{Template: tmpl}, nil
}

// NewFromTemplates returns a Writer using the templates in a directory
// instead of the built-in one.
func NewFromTemplates(templateDirectory string) (*Writer, error) {
	tmpl, err := template.New("base").Funcs(sprig.TxtFuncMap()).ParseGlob(filepath.Join(templateDirectory, "*"))
	if err != nil {
		return nil, errors.Wrapf(err, "could not create templates from directory %v", templateDirectory)
	}
	return &Writer{Template: tmpl}, nil
}

// Write renders the export. Nothing is written if rendering fails.
func (w *Writer) Write(out io.Writer, export stave.Export) error {
	data := struct {
		Title  string
		Export stave.Export
	}{w.Title, export}
	var buf bytes.Buffer
	if err := w.Template.ExecuteTemplate(&buf, "mei.xml", data); err != nil {
		return errors.Wrap(err, "could not execute template mei.xml")
	}
	_, err := out.Write(buf.Bytes())
	return err
}

// WriteScore exports the score and writes it with the built-in template.
func WriteScore(out io.Writer, score stave.Score) error {
	export, err := score.Export()
	if err != nil {
		return err
	}
	w, err := New()
	if err != nil {
		return err
	}
	return w.Write(out, export)
}
