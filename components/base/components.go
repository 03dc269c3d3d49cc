package base

import (
	"encoding/json"
	"fmt"

	"github.com/a-h/templ"
)

func Card(title templ.Component, children ...templ.Component) templ.Component {
	body := make([]templ.Component, 0, len(children)+1)
	if title != nil {
		body = append(body, Element("h3", Attrs{{"class", "card-title"}}, title))
	}
	body = append(body, children...)
	return Element("section", Attrs{{"class", "card"}}, body...)
}

type Variant string

const (
	VariantPrimary   Variant = "primary"
	VariantSecondary Variant = "secondary"
	VariantDanger    Variant = "danger"
)

func Submit(label templ.Component, variant Variant) templ.Component {
	return Element("button", Attrs{{"type", "submit"}, {"class", "btn btn-" + string(variant)}}, label)
}

func LinkButton(href string, label templ.Component, variant Variant) templ.Component {
	return Element("a", Attrs{{"href", href}, {"class", "btn btn-" + string(variant)}}, label)
}

type FormProps struct {
	Action    string
	Multipart bool
	Class     string
}

func Form(p FormProps, children ...templ.Component) templ.Component {
	attrs := Attrs{{"method", "post"}, {"action", p.Action}}
	if p.Multipart {
		attrs = append(attrs, [2]string{"enctype", "multipart/form-data"})
	}
	if p.Class != "" {
		attrs = append(attrs, [2]string{"class", p.Class})
	}
	return Element("form", attrs, children...)
}

type InputProps struct {
	Label       string
	Name        string
	Type        string
	Value       string
	Placeholder string
	Required    bool
	Accept      string
	Min, Max    string
	// Error is a validation message shown under the control.
	Error string
}

func Input(p InputProps) templ.Component {
	typ := p.Type
	if typ == "" {
		typ = "text"
	}
	attrs := Attrs{{"id", p.Name}, {"name", p.Name}, {"type", typ}}
	if p.Value != "" && typ != "password" && typ != "file" {
		attrs = append(attrs, [2]string{"value", p.Value})
	}
	if p.Placeholder != "" {
		attrs = append(attrs, [2]string{"placeholder", p.Placeholder})
	}
	if p.Accept != "" {
		attrs = append(attrs, [2]string{"accept", p.Accept})
	}
	if p.Min != "" {
		attrs = append(attrs, [2]string{"min", p.Min})
	}
	if p.Max != "" {
		attrs = append(attrs, [2]string{"max", p.Max})
	}
	if p.Required {
		attrs = append(attrs, [2]string{"required", ""})
	}
	return field(p.Label, p.Name, p.Error, Void("input", attrs))
}

type Option struct {
	Value string
	Label string
}

type SelectProps struct {
	Label    string
	Name     string
	Value    string
	Options  []Option
	Required bool
	Error    string
}

func Select(p SelectProps) templ.Component {
	options := make([]templ.Component, 0, len(p.Options))
	for _, o := range p.Options {
		attrs := Attrs{{"value", o.Value}}
		if o.Value == p.Value {
			attrs = append(attrs, [2]string{"selected", ""})
		}
		options = append(options, Element("option", attrs, T(o.Label)))
	}
	attrs := Attrs{{"id", p.Name}, {"name", p.Name}}
	if p.Required {
		attrs = append(attrs, [2]string{"required", ""})
	}
	return field(p.Label, p.Name, p.Error, Element("select", attrs, options...))
}

type TextareaProps struct {
	Label       string
	Name        string
	Value       string
	Placeholder string
	Rows        int
}

func Textarea(p TextareaProps) templ.Component {
	rows := p.Rows
	if rows == 0 {
		rows = 8
	}
	attrs := Attrs{{"id", p.Name}, {"name", p.Name}, {"rows", fmt.Sprint(rows)}}
	if p.Placeholder != "" {
		attrs = append(attrs, [2]string{"placeholder", p.Placeholder})
	}
	return field(p.Label, p.Name, "", Element("textarea", attrs, Text(p.Value)))
}

func Checkbox(label, name string, checked bool) templ.Component {
	attrs := Attrs{{"id", name}, {"name", name}, {"type", "checkbox"}, {"value", "true"}}
	if checked {
		attrs = append(attrs, [2]string{"checked", ""})
	}
	return Element("label", Attrs{{"class", "checkbox"}}, Void("input", attrs), T(label))
}

func field(label, name, errMsg string, control templ.Component) templ.Component {
	class := "field"
	var hint templ.Component
	if errMsg != "" {
		class += " field-invalid"
		hint = Element("small", Attrs{{"class", "field-error"}}, Text(errMsg))
	}
	return Element("div", Attrs{{"class", class}},
		Element("label", Attrs{{"for", name}}, T(label)),
		control,
		hint,
	)
}

// Alert renders an inline message box. Severity is one of info, success,
// warning or error.
func Alert(severity string, message templ.Component) templ.Component {
	return Element("div", Attrs{{"class", "alert alert-" + severity}, {"role", "alert"}}, message)
}

type Tab struct {
	Key    string
	Label  string
	Href   string
	Active bool
}

func Tabs(tabs []Tab) templ.Component {
	items := make([]templ.Component, 0, len(tabs))
	for _, t := range tabs {
		class := "tab"
		if t.Active {
			class += " active"
		}
		items = append(items, Element("a", Attrs{{"href", t.Href}, {"class", class}, {"data-tab", t.Key}}, T(t.Label)))
	}
	return Element("nav", Attrs{{"class", "tabs"}}, items...)
}

// Table renders headers (translated) and rows of plain text cells.
func Table(headers []string, rows [][]string) templ.Component {
	head := make([]templ.Component, 0, len(headers))
	for _, h := range headers {
		head = append(head, Element("th", nil, T(h)))
	}
	body := make([]templ.Component, 0, len(rows))
	for _, row := range rows {
		cells := make([]templ.Component, 0, len(row))
		for _, c := range row {
			cells = append(cells, Element("td", nil, Text(c)))
		}
		body = append(body, Element("tr", nil, cells...))
	}
	return Element("table", Attrs{{"class", "table"}},
		Element("thead", nil, Element("tr", nil, head...)),
		Element("tbody", nil, body...),
	)
}

type Pair struct {
	Label string
	Value string
}

// Definitions renders a label/value list.
func Definitions(pairs []Pair) templ.Component {
	items := make([]templ.Component, 0, len(pairs)*2)
	for _, p := range pairs {
		items = append(items, Element("dt", nil, T(p.Label)), Element("dd", nil, Text(p.Value)))
	}
	return Element("dl", Attrs{{"class", "definitions"}}, items...)
}

func Badge(label string, class string) templ.Component {
	return Element("span", Attrs{{"class", "badge " + class}}, Text(label))
}

// JSON pretty-prints raw as a preformatted block.
func JSON(raw json.RawMessage) templ.Component {
	var v interface{}
	text := string(raw)
	if err := json.Unmarshal(raw, &v); err == nil {
		if b, err := json.MarshalIndent(v, "", "  "); err == nil {
			text = string(b)
		}
	}
	return Element("pre", Attrs{{"class", "json"}}, Text(text))
}

func Empty(message string) templ.Component {
	return Element("p", Attrs{{"class", "empty"}}, T(message))
}
