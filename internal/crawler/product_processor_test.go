package crawler

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductProcessor_Process(t *testing.T) {
	markup := []byte(`<a class="catalog_item" href="/p/hat"><span class="catalog_item__name">Hat</span><span class="catalog_item__price">5 000 ₸</span></a>`)
	proc := NewProductProcessor(&stubFetcher{body: markup}, newTestParser())

	products, err := proc.Process(context.Background(), "https://qazaqrepublic.com/en/shop?category=sale")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Hat", products[0].Title)
	assert.Equal(t, "5 000 ₸", products[0].Price)
	assert.Equal(t, "https://qazaqrepublic.com/p/hat", products[0].Link)
}

func TestProductProcessor_FetchErrorPropagates(t *testing.T) {
	fetchErr := &FetchError{URL: "u", Attempts: 4, Err: errors.New("down")}
	proc := NewProductProcessor(fetcherFunc(func(context.Context, string) ([]byte, error) {
		return nil, fetchErr
	}), newTestParser())

	products, err := proc.Process(context.Background(), "u")
	assert.Nil(t, products)
	assert.Same(t, fetchErr, err)
}

type fetcherFunc func(ctx context.Context, url string) ([]byte, error)

func (f fetcherFunc) Fetch(ctx context.Context, url string) ([]byte, error) { return f(ctx, url) }
