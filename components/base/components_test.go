package base

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

func TestText_Escapes(t *testing.T) {
	assert.Equal(t, "&lt;script&gt;x&lt;/script&gt;", render(t, Text("<script>x</script>")))
}

func TestElement_Attrs(t *testing.T) {
	out := render(t, Element("a", Attrs{{"href", `/x?a="b"`}, {"hidden", ""}}, Text("go")))
	assert.Equal(t, `<a href="/x?a=&#34;b&#34;" hidden>go</a>`, out)
}

func TestT_FallsBackToMessageID(t *testing.T) {
	assert.Equal(t, "Common.Save", render(t, T("Common.Save")))
}

func TestInput_NeverEchoesPasswords(t *testing.T) {
	out := render(t, Input(InputProps{Label: "L", Name: "password", Type: "password", Value: "secret"}))
	assert.NotContains(t, out, "secret")
	assert.Contains(t, out, `type="password"`)
}

func TestSelect_MarksSelected(t *testing.T) {
	out := render(t, Select(SelectProps{
		Name:    "op",
		Value:   "b",
		Options: []Option{{Value: "a", Label: "A"}, {Value: "b", Label: "B"}},
	}))
	assert.Contains(t, out, `<option value="b" selected>B</option>`)
	assert.Contains(t, out, `<option value="a">A</option>`)
}

func TestTable(t *testing.T) {
	out := render(t, Table([]string{"H"}, [][]string{{"<v>"}}))
	assert.Contains(t, out, "<th>H</th>")
	assert.Contains(t, out, "<td>&lt;v&gt;</td>")
}

func TestJSON_PrettyPrints(t *testing.T) {
	out := render(t, JSON(json.RawMessage(`{"a":1}`)))
	assert.Contains(t, out, "{\n  &#34;a&#34;: 1\n}")
}
