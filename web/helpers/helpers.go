package helpers

import (
	"bytes"
	"os"

	"github.com/nevofinance/nevo/internal/assets"
	"github.com/nevofinance/nevo/web/templates"
	. "maragu.dev/gomponents"
)

// RenderStaticToRaw will return an empty string when the file isn't found
func RenderStaticToRaw(filePath string) Node {
	stuff, err := os.ReadFile(assets.StaticDir + "/" + filePath)
	if err != nil {
		return Raw("")
	}

	return Raw(string(stuff))
}

// RenderSVG will return an empty string when the icon is not found,
// to avoid returning an error
func RenderSVG(name, classes string) Node {
	var buf bytes.Buffer
	if err := templates.Icons.ExecuteTemplate(&buf, name, classes); err != nil {
		return Raw("")
	}

	return Raw(buf.String())
}

// Fragment renders n for a datastar fragment merge.
func Fragment(n Node) string {
	var buf bytes.Buffer
	if err := n.Render(&buf); err != nil {
		panic(err)
	}
	return buf.String()
}
