// Package base holds the HTML primitives every screen is assembled from.
// Components are plain templ.ComponentFunc values; all text goes through
// templ.EscapeString.
package base

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// Attrs renders as HTML attributes in insertion order. Empty values are
// rendered as boolean attributes.
type Attrs [][2]string

func (a Attrs) String() string {
	var b strings.Builder
	for _, kv := range a {
		b.WriteByte(' ')
		b.WriteString(kv[0])
		if kv[1] != "" {
			b.WriteString(`="`)
			b.WriteString(templ.EscapeString(kv[1]))
			b.WriteByte('"')
		}
	}
	return b.String()
}

// Element wraps children in tag with attrs.
func Element(tag string, attrs Attrs, children ...templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, "<"+tag+attrs.String()+">"); err != nil {
			return err
		}
		if err := renderAll(ctx, w, children); err != nil {
			return err
		}
		_, err := io.WriteString(w, "</"+tag+">")
		return err
	})
}

// Void renders a self-closing element such as input.
func Void(tag string, attrs Attrs) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, "<"+tag+attrs.String()+">")
		return err
	})
}

func Text(s string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, templ.EscapeString(s))
		return err
	})
}

// T renders the translation of id for the request locale.
func T(id string, data ...map[string]interface{}) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, templ.EscapeString(Translate(ctx, id, data...)))
		return err
	})
}

func Group(children ...templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return renderAll(ctx, w, children)
	})
}

func renderAll(ctx context.Context, w io.Writer, children []templ.Component) error {
	for _, c := range children {
		if c == nil {
			continue
		}
		if err := c.Render(ctx, w); err != nil {
			return err
		}
	}
	return nil
}
