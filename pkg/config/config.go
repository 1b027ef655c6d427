// Package config loads view configurations from YAML files.
//
// A configuration looks like this:
//
//	sortingDirection: descending
//	groupBy: category
//	filter: item.done == false
//	header: 'Tasks ({{ now | date "Jan 2" }})'
//	placeholder: Nothing to do
//	item: '{{ .Fields.title | default .ID }}'
//	group: '[{{ . | upper }}]'
//
// Templates use the text/template syntax with the sprig functions. The item
// template is executed with the datasource.Item, the group template with the
// group key, and the header and placeholder templates with no data.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
	"src.boundview.dev/pkg/collview"
	"src.boundview.dev/pkg/datasource"
	"src.boundview.dev/pkg/filter"
	"src.boundview.dev/pkg/logutil"
	"src.boundview.dev/pkg/renderlist"
)

var logger = logutil.GetLogger("[config] ")

// View is the configuration of a view.
type View struct {
	SortingDirection string `yaml:"sortingDirection" validate:"omitempty,oneof=ascending descending"`
	// Name of the field to group items by. Empty means no grouping.
	GroupBy string `yaml:"groupBy" validate:"omitempty,printascii"`
	// Filter expression, see package filter. Empty means no filtering.
	Filter      string `yaml:"filter"`
	Header      string `yaml:"header"`
	Placeholder string `yaml:"placeholder"`
	Item        string `yaml:"item" validate:"required"`
	Group       string `yaml:"group" validate:"required_with=GroupBy"`
}

// Default returns the configuration used when no file is given.
func Default() View {
	return View{
		Placeholder: "(no items)",
		Item:        "{{ .ID }}",
		Group:       "{{ . }}",
	}
}

var validate = validator.New()

// Load loads a configuration file. Settings missing from the file keep their
// default values.
func Load(path string) (View, error) {
	f, err := os.Open(path)
	if err != nil {
		return View{}, err
	}
	defer f.Close()
	v, err := Parse(f)
	if err != nil {
		return View{}, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}

// Parse parses and validates a configuration. Unknown settings are errors.
func Parse(r io.Reader) (View, error) {
	v := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&v); err != nil && !errors.Is(err, io.EOF) {
		return View{}, err
	}
	if err := validate.Struct(v); err != nil {
		return View{}, err
	}
	return v, nil
}

// Spec compiles the configuration into a collview.Spec. Render nodes are
// strings. The returned Spec has no data source.
func (v View) Spec() (collview.Spec, error) {
	var spec collview.Spec
	dir, err := collview.ParseDirection(v.SortingDirection)
	if err != nil {
		return spec, err
	}
	spec.Direction = dir
	if v.GroupBy != "" {
		spec.GroupBy = collview.GroupByField(v.GroupBy)
	}
	if v.Filter != "" {
		spec.Filter, err = filter.Compile(v.Filter)
		if err != nil {
			return spec, err
		}
	}

	item, err := parseTemplate("item", v.Item)
	if err != nil {
		return spec, err
	}
	spec.Templates.Item = func(it datasource.Item) renderlist.Node {
		return execute(item, it, it.ID)
	}
	group, err := parseTemplate("group", v.Group)
	if err != nil {
		return spec, err
	}
	spec.Templates.Group = func(key string) renderlist.Node {
		return execute(group, key, key)
	}
	if v.Header != "" {
		header, err := parseTemplate("header", v.Header)
		if err != nil {
			return spec, err
		}
		spec.Templates.Header = func() renderlist.Node { return execute(header, nil, "") }
	}
	if v.Placeholder != "" {
		placeholder, err := parseTemplate("placeholder", v.Placeholder)
		if err != nil {
			return spec, err
		}
		spec.Templates.Placeholder = func() renderlist.Node { return execute(placeholder, nil, "") }
	}
	return spec, nil
}

func parseTemplate(name, text string) (*template.Template, error) {
	t, err := template.New(name).Funcs(sprig.TxtFuncMap()).Option("missingkey=zero").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("%s template: %w", name, err)
	}
	return t, nil
}

// Executes t, falling back to the given string on errors.
func execute(t *template.Template, data any, fallback string) string {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		logger.Warn("template failed", "template", t.Name(), "err", err)
		return fallback
	}
	// Each entry takes one line.
	return strings.ReplaceAll(buf.String(), "\n", " ")
}
