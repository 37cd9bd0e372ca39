package crawler

import (
	"context"

	"qazaq-scraper/pkg/models"
)

// ProductProcessor implements engine.Processor for a catalog listing page.
type ProductProcessor struct {
	Fetcher Fetcher
	Parser  *Parser
}

func NewProductProcessor(fetcher Fetcher, parser *Parser) *ProductProcessor {
	return &ProductProcessor{Fetcher: fetcher, Parser: parser}
}

// Process fetches url and extracts its products. Parsing only starts once the
// whole page has been read.
func (p *ProductProcessor) Process(ctx context.Context, url string) ([]models.Product, error) {
	markup, err := p.Fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	return p.Parser.ParseBytes(markup)
}
