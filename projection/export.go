package projection

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/sync/singleflight"
)

// DefaultCustomerName is used when the visitor's name is unknown.
const DefaultCustomerName = "Valued Customer"

var ErrExportFailed = errors.New("projection: export failed")

// Document is a rendered report ready for download.
type Document struct {
	Filename    string
	ContentType string
	Body        []byte
}

// Exporter renders a report to a downloadable document.
type Exporter interface {
	Export(ctx context.Context, r Report, customerName string) (*Document, error)
}

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9]+`)

// Filename builds "Land_Report_<customer>.<ext>" from a free-text name.
func Filename(customerName, ext string) string {
	name := strings.Trim(unsafeName.ReplaceAllString(customerName, "_"), "_")
	if name == "" {
		name = strings.ReplaceAll(DefaultCustomerName, " ", "_")
	}
	return "Land_Report_" + name + "." + ext
}

// GuardedExporter coalesces concurrent exports with the same key into one
// render and turns render failures, panics included, into ErrExportFailed.
// It never touches the report it is given.
type GuardedExporter struct {
	next  Exporter
	group singleflight.Group
}

func NewGuardedExporter(next Exporter) *GuardedExporter {
	return &GuardedExporter{next: next}
}

// Export renders r; concurrent calls sharing key wait for the same result.
func (g *GuardedExporter) Export(ctx context.Context, key string, r Report, customerName string) (doc *Document, shared bool, err error) {
	if strings.TrimSpace(customerName) == "" {
		customerName = DefaultCustomerName
	}
	v, err, shared := g.group.Do(key, func() (any, error) {
		return g.safeExport(ctx, r, customerName)
	})
	if err != nil {
		return nil, shared, err
	}
	return v.(*Document), shared, nil
}

func (g *GuardedExporter) safeExport(ctx context.Context, r Report, customerName string) (doc *Document, err error) {
	defer func() {
		if p := recover(); p != nil {
			doc, err = nil, fmt.Errorf("%w: %v", ErrExportFailed, p)
		}
	}()
	doc, err = g.next.Export(ctx, r, customerName)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExportFailed, err)
	}
	return doc, nil
}
