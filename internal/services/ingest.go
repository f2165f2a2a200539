package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/jalextowle/what-the-gov/internal/fedreg"
	"github.com/jalextowle/what-the-gov/internal/middleware"
	"github.com/jalextowle/what-the-gov/internal/models"

	"go.opentelemetry.io/otel/attribute"
)

const signingDateLayout = "2006-01-02"

// IngestService pulls executive order listings from the Federal Register,
// normalizes entries into records, and persists the ones not already stored.
type IngestService struct {
	registry RegistryClient
	orders   OrderRepository
}

// NewIngestService creates a new ingestion service.
func NewIngestService(registry RegistryClient, orders OrderRepository) *IngestService {
	return &IngestService{
		registry: registry,
		orders:   orders,
	}
}

// IngestYear runs the fetch → normalize → persist pipeline for one publication
// year and returns the number of newly stored orders. Per-entry failures
// (missing fields, bad dates, failed text fetches, insert conflicts) are
// logged and skipped; only a failure to retrieve the listing itself is an
// error.
func (s *IngestService) IngestYear(ctx context.Context, year int) (int, error) {
	ctx, span := middleware.StartSpan(ctx, "Ingest.IngestYear",
		attribute.Int("year", year),
	)
	defer span.End()

	log.Printf("Starting to ingest executive orders for year %d", year)

	listing, err := s.registry.FetchListing(ctx, year)
	if err != nil {
		middleware.AddSpanError(ctx, err)
		return 0, fmt.Errorf("failed to fetch listing for %d: %w", year, err)
	}

	candidates := s.normalize(ctx, listing)
	log.Printf("Parsed %d executive orders from the %d listing", len(candidates), year)

	added := 0
	for _, candidate := range candidates {
		exists, err := s.orders.ExistsByOrderNumber(ctx, candidate.OrderNumber)
		if err != nil {
			log.Printf("Failed to check for EO %s: %v", candidate.OrderNumber, err)
			continue
		}
		if exists {
			log.Printf("EO %s already exists in database", candidate.OrderNumber)
			continue
		}

		if err := s.orders.Create(ctx, candidate); err != nil {
			// Rolled back by the repository; one bad record must not
			// abort the batch
			log.Printf("Failed to add EO %s to database: %v", candidate.OrderNumber, err)
			continue
		}

		log.Printf("Added EO %s - %s (signed %s, %s)",
			candidate.OrderNumber,
			candidate.Title,
			candidate.DateSigned.Format(signingDateLayout),
			candidate.President,
		)
		added++
	}

	middleware.AddSpanEvent(ctx, "ingest_year_completed",
		attribute.Int("candidates", len(candidates)),
		attribute.Int("added", added),
	)

	log.Printf("Finished ingesting %d new executive orders for %d", added, year)
	return added, nil
}

// normalize maps listing entries into candidate records. Entries missing an
// order number, a parseable signing date, a raw text URL, or fetchable text
// are skipped with a log line. It does not deduplicate or persist.
func (s *IngestService) normalize(ctx context.Context, listing *fedreg.Listing) []*models.ExecutiveOrder {
	candidates := make([]*models.ExecutiveOrder, 0, len(listing.Results))

	for _, entry := range listing.Results {
		orderNumber := entry.ExecutiveOrderNumber.String()
		if orderNumber == "" {
			log.Printf("No executive order number found for document %q", entry.Title)
			continue
		}

		dateSigned, err := time.Parse(signingDateLayout, entry.SigningDate)
		if err != nil {
			log.Printf("Failed to parse signing date for EO %s: %v", orderNumber, err)
			continue
		}

		if entry.RawTextURL == "" {
			log.Printf("No raw text URL found for EO %s", orderNumber)
			continue
		}

		fullText, err := s.registry.FetchPage(ctx, entry.RawTextURL)
		if err != nil {
			log.Printf("Failed to fetch full text for EO %s: %v", orderNumber, err)
			continue
		}
		if fullText == "" {
			log.Printf("Empty full text for EO %s, skipping", orderNumber)
			continue
		}

		president, administration := classifyPresident(entry.President)

		candidates = append(candidates, &models.ExecutiveOrder{
			OrderNumber:    orderNumber,
			Title:          entry.Title,
			DateSigned:     dateSigned,
			President:      president,
			Administration: administration,
			URL:            entry.HTMLURL,
			FullText:       fullText,
		})
	}

	return candidates
}

// classifyPresident derives the president and administration labels from the
// registry's president metadata. Known names get fixed label pairs; anything
// else falls back to "<LastWord> Administration"; missing data gets the
// Unknown sentinel.
func classifyPresident(p *fedreg.President) (string, string) {
	if p == nil || p.Name == "" {
		return "Unknown", "Unknown Administration"
	}

	switch {
	case strings.Contains(p.Name, "Biden"):
		return "Joseph R. Biden", "Biden Administration (2021-2025)"
	case strings.Contains(p.Name, "Trump"):
		return "Donald J. Trump", "Trump Administration (2025-)"
	default:
		parts := strings.Fields(p.Name)
		return p.Name, fmt.Sprintf("%s Administration", parts[len(parts)-1])
	}
}
