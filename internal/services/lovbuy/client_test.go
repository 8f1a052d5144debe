package lovbuy

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sourcer/internal/logger"
)

func testLogger() *logger.Logger {
	return logger.New("error")
}

func TestExtractOfferID(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"long form", "https://detail.1688.com/offer/625742832015.html", "625742832015"},
		{"long form with query", "https://detail.1688.com/offer/625742832015.html?spm=a26352", "625742832015"},
		{"short form", "https://m.1688.com/625742832015.html", "625742832015"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractOfferID(tt.url)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractOfferIDRejectsUnrecognizedURL(t *testing.T) {
	_, err := ExtractOfferID("https://detail.1688.com/page/about.html")

	assert.ErrorIs(t, err, ErrNoOfferID)
}

func TestGetProductInfoSendsExpectedQuery(t *testing.T) {
	var gotPath string
	var gotQuery map[string]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = map[string]string{
			"key":     r.URL.Query().Get("key"),
			"item_id": r.URL.Query().Get("item_id"),
			"lang":    r.URL.Query().Get("lang"),
		}
		w.Write([]byte(`{"result": {"success": true, "result": {"productInfo": {"subject": "Widget"}}}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", testLogger())

	resp, err := client.GetProductInfo(context.Background(), "625742832015")
	require.NoError(t, err)

	assert.Equal(t, "/1688api/getproductinfo2.php", gotPath)
	assert.Equal(t, map[string]string{
		"key":     "test-key",
		"item_id": "625742832015",
		"lang":    "en",
	}, gotQuery)
	assert.Equal(t, "Widget", resp.Result.Result.ProductInfo.Subject.String())
}

func TestGetProductInfoNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusForbidden)
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", testLogger())

	_, err := client.GetProductInfo(context.Background(), "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestGetProductInfoAPIRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result": {"success": "false", "message": "invalid key"}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "bad-key", testLogger())

	_, err := client.GetProductInfo(context.Background(), "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid key")
}

func TestProductByURLEndToEnd(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"result": {
				"success": true,
				"result": {
					"productInfo": {
						"subject": "Canvas tote bag",
						"image": {"images": ["https://img.example.com/main.jpg"]}
					},
					"productSaleInfo": {
						"priceRangeList": [{"startQuantity": 100, "price": "5.00"}],
						"minOrderQuantity": 100
					}
				}
			}
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", testLogger())

	product, err := client.ProductByURL(context.Background(), "https://detail.1688.com/offer/625742832015.html")
	require.NoError(t, err)

	assert.Equal(t, "625742832015", product.OfferID)
	assert.Equal(t, "Canvas tote bag", product.Title)
	assert.Equal(t, "https://detail.1688.com/offer/625742832015.html", product.SourceURL)
	require.Len(t, product.Tiers, 1)
	assert.Equal(t, 100, product.Tiers[0].StartQuantity)
	assert.Equal(t, "5.00", product.Tiers[0].UnitPrice)
	assert.Equal(t, 100, product.DefaultMoq)
}

func TestProductByURLBadURLShortCircuits(t *testing.T) {
	client := NewClient("http://unused.invalid", "test-key", testLogger())

	_, err := client.ProductByURL(context.Background(), "https://example.com/no-offer-here")
	assert.ErrorIs(t, err, ErrNoOfferID)
}
