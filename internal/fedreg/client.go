package fedreg

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// DefaultBaseURL is the Federal Register documents endpoint.
const DefaultBaseURL = "https://www.federalregister.gov/api/v1/documents"

// perPage is the service's maximum page size. Only the first page is fetched;
// a year with more results than one page will silently undercount.
const perPage = 100

// listingFields is the field set requested from the listing endpoint.
var listingFields = []string{
	"executive_order_number",
	"title",
	"raw_text_url",
	"html_url",
	"signing_date",
	"publication_date",
	"president",
	"executive_order_notes",
	"disposition_notes",
}

// Client fetches executive order listings and raw text documents from the
// Federal Register. Both the JSON listing endpoint and arbitrary raw-text
// URLs go through the same FetchPage path.
type Client struct {
	BaseURL string
	client  *http.Client
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// President is the upstream president metadata attached to a document.
type President struct {
	Name       string `json:"name"`
	Identifier string `json:"identifier"`
}

// Document is one entry of a listing response. Fields not requested in the
// query are absent and decode to their zero values.
type Document struct {
	ExecutiveOrderNumber json.Number `json:"executive_order_number"`
	Title                string      `json:"title"`
	RawTextURL           string      `json:"raw_text_url"`
	HTMLURL              string      `json:"html_url"`
	SigningDate          string      `json:"signing_date"`
	PublicationDate      string      `json:"publication_date"`
	President            *President  `json:"president"`
	ExecutiveOrderNotes  string      `json:"executive_order_notes"`
	DispositionNotes     string      `json:"disposition_notes"`
}

// Listing is a decoded listing response page.
type Listing struct {
	Count   int        `json:"count"`
	Results []Document `json:"results"`
}

// ListingURL builds the listing query for one publication year: executive
// orders only, the fixed field set, maximum page size, ordered by order number.
func (c *Client) ListingURL(year int) string {
	params := url.Values{}
	params.Add("conditions[type][]", "PRESDOCU")
	params.Add("conditions[presidential_document_type][]", "executive_order")
	params.Add("conditions[correction]", "0")
	for _, field := range listingFields {
		params.Add("fields[]", field)
	}
	params.Add("per_page", strconv.Itoa(perPage))
	params.Add("order", "executive_order_number")
	params.Add("conditions[publication_date][year]", strconv.Itoa(year))

	return c.BaseURL + "?" + params.Encode()
}

// FetchPage issues a single GET and returns the response body. A non-2xx
// status or transport fault is an error; callers log it and skip the item
// rather than aborting the batch.
func (c *Client) FetchPage(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response from %s: %w", pageURL, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("fetch %s returned status %d", pageURL, resp.StatusCode)
	}

	return string(body), nil
}

// FetchListing fetches and decodes one year's listing page.
func (c *Client) FetchListing(ctx context.Context, year int) (*Listing, error) {
	body, err := c.FetchPage(ctx, c.ListingURL(year))
	if err != nil {
		return nil, err
	}

	var listing Listing
	if err := json.Unmarshal([]byte(body), &listing); err != nil {
		return nil, fmt.Errorf("failed to parse listing response: %w", err)
	}
	return &listing, nil
}
