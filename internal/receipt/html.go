package receipt

import (
	"bytes"
	"fmt"
)

func (g *Generator) renderHTML(c Content) ([]byte, error) {
	var buf bytes.Buffer
	if err := g.html.ExecuteTemplate(&buf, "receipt", c); err != nil {
		return nil, fmt.Errorf("render receipt html: %w", err)
	}
	return buf.Bytes(), nil
}
