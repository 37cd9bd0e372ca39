package crawler

import (
	"bytes"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/charmbracelet/log"
	"github.com/go-playground/validator/v10"
	"golang.org/x/net/html"

	"qazaq-scraper/pkg/models"
)

// Selectors locate a product inside the listing markup.
type Selectors struct {
	Item  string
	Name  string
	Price string
}

type Parser struct {
	// Origin is prepended to each item's site-relative href.
	Origin    string
	Selectors Selectors
	Logger    *log.Logger

	validate *validator.Validate
}

// candidate holds the raw fields pulled from one container element.
type candidate struct {
	Title string `validate:"required"`
	Href  string `validate:"required"`
	Price string
}

func NewParser(origin string, selectors Selectors, logger *log.Logger) *Parser {
	return &Parser{
		Origin:    origin,
		Selectors: selectors,
		Logger:    logger,
		validate:  validator.New(),
	}
}

// ParseBytes is Extract over an in-memory document.
func (p *Parser) ParseBytes(markup []byte) ([]models.Product, error) {
	return p.Extract(bytes.NewReader(markup))
}

// Extract returns the products found in r in document order. Items without a
// title or link are skipped; no matches yields an empty slice.
func (p *Parser) Extract(r io.Reader) ([]models.Product, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	doc := goquery.NewDocumentFromNode(root)

	items := doc.Find(p.Selectors.Item)
	p.Logger.Info("Found product elements", "count", items.Length())

	products := make([]models.Product, 0, items.Length())
	items.Each(func(index int, item *goquery.Selection) {
		c := candidate{
			Title: strings.TrimSpace(item.Find(p.Selectors.Name).Text()),
			Price: strings.TrimSpace(item.Find(p.Selectors.Price).Text()),
		}
		// The link lives on the container itself, not on a child.
		c.Href, _ = item.Attr("href")

		p.Logger.Debug("candidate", "index", index, "title", c.Title, "link", c.Href, "price", c.Price)

		if err := p.validate.Struct(c); err != nil {
			p.Logger.Warn("Skipping product element due to missing title or link", "index", index)
			return
		}

		price := c.Price
		if price == "" {
			price = models.PriceUnavailable
		}
		products = append(products, models.Product{
			Title: c.Title,
			Price: price,
			Link:  p.Origin + c.Href,
		})
	})

	p.Logger.Debug("Parsed products", "products", products)
	return products, nil
}
