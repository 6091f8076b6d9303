package directory

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"atlas-service/internal/directory"
	"atlas-service/internal/domain/professional"
)

var exportHeader = []string{
	"id", "full_name", "brokerage", "type", "phone", "email", "website",
	"service_area_type", "service_area", "service_areas", "tags",
	"latitude", "longitude", "rating", "submitted_by", "address_last_deal",
	"notes", "created_at",
}

// ExportCSV renders the visible roster slice as CSV, honoring the same
// criteria as the list and map surfaces so the export matches the screen.
func (s *DirectoryService) ExportCSV(ctx context.Context, c directory.Criteria) ([]byte, error) {
	visible, err := s.Visible(ctx, c)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(exportHeader); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}
	for i := range visible {
		if err := w.Write(exportRow(&visible[i])); err != nil {
			return nil, fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

func exportRow(p *professional.Professional) []string {
	return []string{
		p.ID,
		p.FullName,
		p.Brokerage,
		p.Type,
		p.Phone,
		p.Email,
		p.Website,
		p.ServiceAreaType,
		p.ServiceArea,
		strings.Join(p.ServiceAreas, ";"),
		strings.Join(p.Tags, ";"),
		formatCoord(p.Latitude),
		formatCoord(p.Longitude),
		p.Rating,
		p.SubmittedBy,
		p.AddressLastDeal,
		p.Notes,
		p.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

func formatCoord(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
