package server

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/arbor-ui/arbor/client"
	"github.com/arbor-ui/arbor/pkg/compose"
	"github.com/arbor-ui/arbor/pkg/render"
)

// RootID is the id of the element wrapping every page's composed
// output. Patches that replace the whole page target this element.
const RootID = "arbor-root"

// Page builds a page's element tree. The body must Emit a *render.El.
type Page func(s *compose.Scope)

func newPageComposer(logger *slog.Logger) *compose.Composer {
	return compose.New(compose.WithLogger(logger))
}

// renderRoot runs one composition over the page and returns the markup
// of the root wrapper.
func renderRoot(c *compose.Composer, page Page) (string, error) {
	c.Compose(func(s *compose.Scope) {
		page(s)
	})
	return rootHTML(c)
}

// rootHTML serializes the composer's current output inside the root
// wrapper. The output must already be up to date; callers flush the
// scheduler first.
func rootHTML(c *compose.Composer) (string, error) {
	out, ok := c.Output().(*render.El)
	if !ok {
		return "", fmt.Errorf("page emitted %T, want *render.El", c.Output())
	}
	return render.ToHTML(render.Element("div", render.A("id", RootID), out))
}

// renderDocument assembles a complete HTML document around the
// composed root. The bootloader script is inlined in head so early
// interactions work before hydration.
func renderDocument(title, rootHTML string, head *render.HeadSink) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n")
	b.WriteString(`<meta charset="utf-8"/>` + "\n")
	b.WriteString(`<meta name="viewport" content="width=device-width, initial-scale=1"/>` + "\n")
	b.WriteString("<title>")
	b.WriteString(render.EscapeHTML(title))
	b.WriteString("</title>\n")
	if head != nil {
		for _, el := range head.Elements() {
			b.WriteString(el)
			b.WriteString("\n")
		}
	}
	b.WriteString("<script>\n")
	b.Write(client.BootJS)
	b.WriteString("\n</script>\n")
	b.WriteString("</head>\n<body>\n")
	b.WriteString(rootHTML)
	b.WriteString("\n</body>\n</html>\n")
	return b.String()
}
