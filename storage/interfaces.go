package storage

import "ozon-radar/models"

// ReportWriter is the interface any export backend must satisfy.
type ReportWriter interface {
	WriteListings(listings []*models.Listing) error
	Close() error
}
