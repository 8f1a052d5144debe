package lovbuy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"time"

	"sourcer/internal/logger"
	"sourcer/internal/models"
)

const productInfoEndpoint = "/1688api/getproductinfo2.php"

// ErrNoOfferID is returned when a product URL carries no recognizable
// numeric offer id.
var ErrNoOfferID = errors.New("no offer id found in product URL")

var offerIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`offer/(\d+)\.html`),
	regexp.MustCompile(`/(\d+)\.html`),
}

type Client struct {
	baseURL     string
	apiKey      string
	httpClient  *http.Client
	transformer *Transformer
	logger      *logger.Logger
}

func NewClient(baseURL, apiKey string, logger *logger.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		transformer: NewTransformer(logger),
		logger:      logger,
	}
}

// ExtractOfferID pulls the numeric offer id out of a 1688 product URL.
// The long-form offer/NNN.html pattern is tried before the bare /NNN.html
// fallback used by shortened links.
func ExtractOfferID(productURL string) (string, error) {
	for _, re := range offerIDPatterns {
		if m := re.FindStringSubmatch(productURL); m != nil {
			return m[1], nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNoOfferID, productURL)
}

// GetProductInfo fetches the raw product document for an offer id.
func (c *Client) GetProductInfo(ctx context.Context, offerID string) (*ProductResponse, error) {
	reqURL := c.baseURL + productInfoEndpoint

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	q := req.URL.Query()
	q.Set("key", c.apiKey)
	q.Set("item_id", offerID)
	q.Set("lang", "en")
	req.URL.RawQuery = q.Encode()

	c.logger.Debug("Fetching product info for offer %s", offerID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API request failed: %d - %s", resp.StatusCode, string(body))
	}

	var productResp ProductResponse
	if err := json.NewDecoder(resp.Body).Decode(&productResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if productResp.Result.Success.String() == "false" {
		return nil, fmt.Errorf("API rejected request: %s", productResp.Result.Message)
	}

	return &productResp, nil
}

// ProductByURL resolves a 1688 product URL to the canonical product model.
func (c *Client) ProductByURL(ctx context.Context, productURL string) (*models.Product, error) {
	if _, err := url.Parse(productURL); err != nil {
		return nil, fmt.Errorf("invalid product URL: %w", err)
	}

	offerID, err := ExtractOfferID(productURL)
	if err != nil {
		return nil, err
	}

	resp, err := c.GetProductInfo(ctx, offerID)
	if err != nil {
		return nil, err
	}

	return c.transformer.Transform(resp, offerID, productURL), nil
}
