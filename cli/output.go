package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"estate_browser/models"
	"estate_browser/query"
)

func printJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

func formatPrice(price int64) string {
	return "$" + humanize.Comma(price)
}

func formatBaths(baths float64) string {
	return strconv.FormatFloat(baths, 'f', -1, 64)
}

// propertyLine renders one listing as a single aligned row
func propertyLine(p *models.Property) string {
	return fmt.Sprintf("%-12s %12s  %dbd/%sba  %7s sqft  %-9s  %s, %s, %s %s",
		p.ID,
		formatPrice(p.Price),
		p.Bedrooms, formatBaths(p.Bathrooms),
		humanize.Comma(int64(p.SquareFeet)),
		p.PropertyType,
		p.Address, p.City, p.State, p.PostalCode,
	)
}

func printResult(w io.Writer, res query.Result) error {
	if formatFlag == "json" {
		return printJSON(w, res)
	}
	for i := range res.Properties {
		fmt.Fprintln(w, propertyLine(&res.Properties[i]))
	}
	fmt.Fprintf(w, "%d of %d listings\n", len(res.Properties), res.Total)
	return nil
}

func printProperty(w io.Writer, detail *models.PropertyDetail) error {
	if formatFlag == "json" {
		return printJSON(w, detail)
	}
	p := &detail.Property
	fmt.Fprintf(w, "%s, %s, %s %s\n", p.Address, p.City, p.State, p.PostalCode)
	fmt.Fprintf(w, "  %s  %s\n", formatPrice(p.Price), p.Status)
	fmt.Fprintf(w, "  %d bed, %s bath, %s sqft %s", p.Bedrooms, formatBaths(p.Bathrooms), humanize.Comma(int64(p.SquareFeet)), p.PropertyType)
	if p.YearBuilt > 0 {
		fmt.Fprintf(w, ", built %d", p.YearBuilt)
	}
	fmt.Fprintln(w)
	if !p.ListingDate.IsZero() {
		fmt.Fprintf(w, "  listed %s (%s)\n", p.ListingDate.Format("2006-01-02"), humanize.Time(p.ListingDate))
	}
	if len(p.Features) > 0 {
		fmt.Fprintf(w, "  features: %s\n", strings.Join(p.Features, ", "))
	}
	if p.Description != "" {
		fmt.Fprintf(w, "  %s\n", p.Description)
	}
	if detail.IsSaved {
		fmt.Fprintf(w, "  saved as %s", detail.SavedID)
		if detail.Notes != "" {
			fmt.Fprintf(w, "  note: %s", detail.Notes)
		}
		fmt.Fprintln(w)
	}
	return nil
}

func printSaved(w io.Writer, listings []models.SavedListing) error {
	if formatFlag == "json" {
		return printJSON(w, listings)
	}
	for i := range listings {
		l := &listings[i]
		fmt.Fprintf(w, "%s  saved %s\n", propertyLine(&l.Property), humanize.Time(l.SavedDate))
		fmt.Fprintf(w, "    saved id %s", l.SavedID)
		if l.Notes != "" {
			fmt.Fprintf(w, "  note: %s", l.Notes)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "%d saved\n", len(listings))
	return nil
}

func printSyncRuns(w io.Writer, runs []models.SyncRun) error {
	if formatFlag == "json" {
		return printJSON(w, runs)
	}
	for _, r := range runs {
		fmt.Fprintf(w, "#%-4d %-9s %-8s %s  fetched %d, upserted %d, skipped %d, deleted %d",
			r.ID, r.Status, r.Source, humanize.Time(r.StartedAt), r.Fetched, r.Upserted, r.Skipped, r.Deleted)
		if r.Error != "" {
			fmt.Fprintf(w, "  error: %s", r.Error)
		}
		fmt.Fprintln(w)
	}
	return nil
}
