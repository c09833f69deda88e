package feed

import (
	"bytes"
	"cmp"
	"encoding/xml"
	"fmt"
	"html"
)

// Generator renders a ParsedFeed back out as a normalized Google
// Shopping-style RSS document, the service's re-export surface for parsed
// catalogs.
type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

func (g *Generator) Run(feed *ParsedFeed) (string, error) {
	if feed == nil {
		return "", fmt.Errorf("no feed to generate")
	}

	var buf bytes.Buffer

	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	buf.WriteString("\n")
	buf.WriteString(`<rss version="2.0" xmlns:g="http://base.google.com/ns/1.0">`)
	buf.WriteString("\n  <channel>\n")

	g.writeElement(&buf, "title", cmp.Or(feed.FeedTitle, "Product Feed"), 4)
	g.writeElement(&buf, "description", cmp.Or(feed.FeedDescription, fmt.Sprintf("Normalized product feed with %d products", feed.TotalCount)), 4)

	for _, product := range feed.Products {
		g.writeProduct(&buf, product)
	}

	buf.WriteString("  </channel>\n</rss>")

	return buf.String(), nil
}

func (g *Generator) writeProduct(buf *bytes.Buffer, product Product) {
	buf.WriteString("    <item>\n")

	g.writeElement(buf, "g:id", cmp.Or(product.ID, NormalizeTitle(product.Title)), 6)
	g.writeElement(buf, "g:title", product.Title, 6)
	g.writeElement(buf, "g:description", product.Description, 6)
	g.writeElement(buf, "g:link", product.ProductURL, 6)
	g.writeElement(buf, "g:brand", product.Brand, 6)

	if product.Price != "" {
		price := product.Price
		if product.Currency != "" {
			price = fmt.Sprintf("%s %s", product.Price, product.Currency)
		}
		g.writeElement(buf, "g:price", price, 6)
	}

	g.writeElement(buf, "g:availability", product.Availability, 6)
	g.writeElement(buf, "g:condition", product.Condition, 6)
	g.writeElement(buf, "g:gender", product.Gender, 6)
	g.writeElement(buf, "g:age_group", product.AgeGroup, 6)
	g.writeElement(buf, "g:size", product.Size, 6)
	g.writeElement(buf, "g:color", product.Color, 6)
	g.writeElement(buf, "g:material", product.Material, 6)
	g.writeElement(buf, "g:product_type", product.Category, 6)
	g.writeElement(buf, "g:gtin", product.GTIN, 6)
	g.writeElement(buf, "g:mpn", product.MPN, 6)
	g.writeElement(buf, "g:shipping_weight", product.Weight, 6)

	for i, image := range product.Images {
		if i == 0 {
			buf.WriteString(fmt.Sprintf("      <g:image_link>%s</g:image_link>\n", html.EscapeString(image.URL)))
			continue
		}
		buf.WriteString(fmt.Sprintf("      <g:additional_image_link>%s</g:additional_image_link>\n", html.EscapeString(image.URL)))
	}

	buf.WriteString("    </item>\n")
}

func (g *Generator) writeElement(buf *bytes.Buffer, tag, content string, indent int) {
	if content == "" {
		return
	}

	for i := 0; i < indent; i++ {
		buf.WriteByte(' ')
	}

	buf.WriteString("<")
	buf.WriteString(tag)
	buf.WriteString(">")
	xml.EscapeText(buf, []byte(content))
	buf.WriteString("</")
	buf.WriteString(tag)
	buf.WriteString(">\n")
}
