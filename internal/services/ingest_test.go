package services

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/jalextowle/what-the-gov/internal/fedreg"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listingEntry(number, title, rawURL, signed string, president *fedreg.President) fedreg.Document {
	return fedreg.Document{
		ExecutiveOrderNumber: json.Number(number),
		Title:                title,
		RawTextURL:           rawURL,
		HTMLURL:              "https://example.test/html/" + number,
		SigningDate:          signed,
		President:            president,
	}
}

func TestIngestYearStoresNewOrders(t *testing.T) {
	biden := &fedreg.President{Name: "Joseph R. Biden Jr."}
	registry := &fakeRegistry{
		listings: map[int]*fedreg.Listing{
			2024: {Count: 2, Results: []fedreg.Document{
				listingEntry("14100", "First Order", "https://example.test/raw/14100", "2024-03-01", biden),
				listingEntry("14101", "Second Order", "https://example.test/raw/14101", "2024-04-15", biden),
			}},
		},
		pages: map[string]string{
			"https://example.test/raw/14100": "full text of the first order",
			"https://example.test/raw/14101": "full text of the second order",
		},
	}
	repo := &fakeOrderRepo{}

	svc := NewIngestService(registry, repo)
	added, err := svc.IngestYear(context.Background(), 2024)
	require.NoError(t, err)
	assert.Equal(t, 2, added)

	require.Len(t, repo.orders, 2)
	assert.Equal(t, "14100", repo.orders[0].OrderNumber)
	assert.Equal(t, "full text of the first order", repo.orders[0].FullText)
	assert.Equal(t, "Joseph R. Biden", repo.orders[0].President)
	assert.Equal(t, "Biden Administration (2021-2025)", repo.orders[0].Administration)
	assert.Equal(t, 2024, repo.orders[0].DateSigned.Year())
}

func TestIngestYearIdempotent(t *testing.T) {
	registry := &fakeRegistry{
		listings: map[int]*fedreg.Listing{
			2024: {Count: 1, Results: []fedreg.Document{
				listingEntry("14100", "First Order", "https://example.test/raw/14100", "2024-03-01", nil),
			}},
		},
		pages: map[string]string{
			"https://example.test/raw/14100": "full text",
		},
	}
	repo := &fakeOrderRepo{}
	svc := NewIngestService(registry, repo)

	added, err := svc.IngestYear(context.Background(), 2024)
	require.NoError(t, err)
	assert.Equal(t, 1, added)

	// Same listing in a second run adds nothing and leaves one stored record
	added, err = svc.IngestYear(context.Background(), 2024)
	require.NoError(t, err)
	assert.Equal(t, 0, added)
	assert.Len(t, repo.orders, 1)
}

func TestIngestYearSkipsMalformedEntries(t *testing.T) {
	registry := &fakeRegistry{
		listings: map[int]*fedreg.Listing{
			2025: {Count: 5, Results: []fedreg.Document{
				// Missing order number
				listingEntry("", "No Number", "https://example.test/raw/x", "2025-01-21", nil),
				// Unparseable signing date
				listingEntry("14200", "Bad Date", "https://example.test/raw/14200", "January 21, 2025", nil),
				// Missing raw text URL
				listingEntry("14201", "No Raw Text", "", "2025-01-22", nil),
				// Raw text fetch fails
				listingEntry("14202", "Fetch Fails", "https://example.test/raw/14202", "2025-01-23", nil),
				// Good entry
				listingEntry("14203", "Good Order", "https://example.test/raw/14203", "2025-01-24", nil),
			}},
		},
		pages: map[string]string{
			"https://example.test/raw/14203": "the only fetchable text",
		},
		pageErrs: map[string]error{
			"https://example.test/raw/14202": fmt.Errorf("fetch returned status 500"),
		},
	}
	repo := &fakeOrderRepo{}
	svc := NewIngestService(registry, repo)

	added, err := svc.IngestYear(context.Background(), 2025)
	require.NoError(t, err)
	assert.Equal(t, 1, added)
	require.Len(t, repo.orders, 1)
	assert.Equal(t, "14203", repo.orders[0].OrderNumber)
}

func TestIngestYearNeverStoresEmptyFullText(t *testing.T) {
	registry := &fakeRegistry{
		listings: map[int]*fedreg.Listing{
			2024: {Count: 1, Results: []fedreg.Document{
				listingEntry("14100", "Empty Body", "https://example.test/raw/14100", "2024-03-01", nil),
			}},
		},
		// Fetch succeeds but the body is empty
		pages: map[string]string{"https://example.test/raw/14100": ""},
	}
	repo := &fakeOrderRepo{}
	svc := NewIngestService(registry, repo)

	added, err := svc.IngestYear(context.Background(), 2024)
	require.NoError(t, err)
	assert.Zero(t, added)
	assert.Empty(t, repo.orders)
}

func TestIngestYearListingFailure(t *testing.T) {
	registry := &fakeRegistry{listingErr: fmt.Errorf("status 503")}
	repo := &fakeOrderRepo{}
	svc := NewIngestService(registry, repo)

	added, err := svc.IngestYear(context.Background(), 2024)
	assert.Error(t, err)
	assert.Zero(t, added)
}

func TestIngestYearInsertFailureDoesNotAbortBatch(t *testing.T) {
	registry := &fakeRegistry{
		listings: map[int]*fedreg.Listing{
			2024: {Count: 2, Results: []fedreg.Document{
				listingEntry("14100", "First Order", "https://example.test/raw/14100", "2024-03-01", nil),
				// Same number again in the same listing; the second insert
				// hits the unique constraint and is skipped
				listingEntry("14100", "First Order Again", "https://example.test/raw/14100b", "2024-03-02", nil),
			}},
		},
		pages: map[string]string{
			"https://example.test/raw/14100":  "text one",
			"https://example.test/raw/14100b": "text two",
		},
	}
	repo := &fakeOrderRepo{}
	svc := NewIngestService(registry, repo)

	added, err := svc.IngestYear(context.Background(), 2024)
	require.NoError(t, err)
	assert.Equal(t, 1, added)
	assert.Len(t, repo.orders, 1)
}

func TestClassifyPresident(t *testing.T) {
	tests := []struct {
		name          string
		president     *fedreg.President
		wantPresident string
		wantAdmin     string
	}{
		{
			name:          "biden",
			president:     &fedreg.President{Name: "Joseph R. Biden Jr."},
			wantPresident: "Joseph R. Biden",
			wantAdmin:     "Biden Administration (2021-2025)",
		},
		{
			name:          "trump",
			president:     &fedreg.President{Name: "Donald J. Trump"},
			wantPresident: "Donald J. Trump",
			wantAdmin:     "Trump Administration (2025-)",
		},
		{
			name:          "other president derives last-word label",
			president:     &fedreg.President{Name: "Barack Obama"},
			wantPresident: "Barack Obama",
			wantAdmin:     "Obama Administration",
		},
		{
			name:          "missing president data",
			president:     nil,
			wantPresident: "Unknown",
			wantAdmin:     "Unknown Administration",
		},
		{
			name:          "empty name",
			president:     &fedreg.President{Name: ""},
			wantPresident: "Unknown",
			wantAdmin:     "Unknown Administration",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			president, admin := classifyPresident(tt.president)
			assert.Equal(t, tt.wantPresident, president)
			assert.Equal(t, tt.wantAdmin, admin)
		})
	}
}
