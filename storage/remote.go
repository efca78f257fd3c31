package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"estate_browser/models"
)

const (
	propertyTable = "property"
	savedTable    = "saved_property"
)

// RemoteConfig addresses a record service project
type RemoteConfig struct {
	BaseURL   string
	ProjectID string
	APIKey    string
}

// RemoteStore talks to the hosted record service. Records arrive in either
// snake_case or camelCase depending on the table version; both are mapped
// onto the canonical models here and nowhere else.
type RemoteStore struct {
	cfg    RemoteConfig
	client *http.Client
}

func NewRemoteStore(cfg RemoteConfig, client *http.Client) *RemoteStore {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &RemoteStore{cfg: cfg, client: client}
}

type record map[string]json.RawMessage

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Results []struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		Data    record `json:"data"`
	} `json:"results"`
}

func (s *RemoteStore) recordsURL(table string, id string) string {
	u := s.cfg.BaseURL + "/tables/" + url.PathEscape(table) + "/records"
	if id != "" {
		u += "/" + url.PathEscape(id)
	}
	return u
}

// do sends one request and decodes the envelope. A 404 yields a nil envelope.
func (s *RemoteStore) do(ctx context.Context, method, target string, body any) (*envelope, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Project-ID", s.cfg.ProjectID)
	if s.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("record service error %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if !env.Success {
		return nil, fmt.Errorf("record service: %s", env.Message)
	}
	for _, r := range env.Results {
		if !r.Success {
			return nil, fmt.Errorf("record service: %s", r.Message)
		}
	}
	return &env, nil
}

func (s *RemoteStore) fetchAll(ctx context.Context, table string) ([]record, error) {
	env, err := s.do(ctx, http.MethodGet, s.recordsURL(table, ""), nil)
	if err != nil {
		return nil, err
	}
	if env == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil, nil
	}
	var records []record
	if err := json.Unmarshal(env.Data, &records); err != nil {
		return nil, fmt.Errorf("decode %s records: %w", table, err)
	}
	return records, nil
}

func (s *RemoteStore) fetchOne(ctx context.Context, table, id string) (record, error) {
	env, err := s.do(ctx, http.MethodGet, s.recordsURL(table, id), nil)
	if err != nil || env == nil {
		return nil, err
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil, nil
	}
	var rec record
	if err := json.Unmarshal(env.Data, &rec); err != nil {
		return nil, fmt.Errorf("decode %s record: %w", table, err)
	}
	return rec, nil
}

func (s *RemoteStore) write(ctx context.Context, method, table string, rec map[string]any) (record, error) {
	env, err := s.do(ctx, method, s.recordsURL(table, ""), map[string]any{"records": []map[string]any{rec}})
	if err != nil {
		return nil, err
	}
	if env == nil {
		return nil, models.ErrNotFound
	}
	if len(env.Results) == 0 {
		return nil, nil
	}
	return env.Results[0].Data, nil
}

func (s *RemoteStore) remove(ctx context.Context, table, id string) error {
	env, err := s.do(ctx, http.MethodDelete, s.recordsURL(table, ""), map[string]any{"RecordIds": []string{id}})
	if err != nil {
		return err
	}
	if env == nil {
		return fmt.Errorf("%s %s: %w", table, id, models.ErrNotFound)
	}
	return nil
}

// =============================================================================
// Properties
// =============================================================================

func (s *RemoteStore) ListProperties(ctx context.Context) ([]models.Property, error) {
	records, err := s.fetchAll(ctx, propertyTable)
	if err != nil {
		return nil, err
	}
	props := make([]models.Property, 0, len(records))
	for _, rec := range records {
		p, err := decodeProperty(rec)
		if err != nil {
			return nil, err
		}
		props = append(props, *p)
	}
	return props, nil
}

func (s *RemoteStore) GetProperty(ctx context.Context, id string) (*models.Property, error) {
	if id == "" {
		return nil, nil
	}
	rec, err := s.fetchOne(ctx, propertyTable, id)
	if err != nil || rec == nil {
		return nil, err
	}
	return decodeProperty(rec)
}

func (s *RemoteStore) UpsertProperty(ctx context.Context, p *models.Property) error {
	existing, err := s.GetProperty(ctx, p.ID)
	if err != nil {
		return err
	}

	rec := encodeProperty(p)
	method := http.MethodPost
	if existing != nil {
		rec["Id"] = p.ID
		method = http.MethodPatch
	}

	out, err := s.write(ctx, method, propertyTable, rec)
	if err != nil {
		return err
	}
	if id := text(out, "Id", "id"); id != "" {
		p.ID = id
	}
	return nil
}

func (s *RemoteStore) DeleteProperty(ctx context.Context, id string) error {
	return s.remove(ctx, propertyTable, id)
}

// =============================================================================
// Saved properties
// =============================================================================

func (s *RemoteStore) ListSaved(ctx context.Context) ([]models.SavedProperty, error) {
	records, err := s.fetchAll(ctx, savedTable)
	if err != nil {
		return nil, err
	}
	saved := make([]models.SavedProperty, 0, len(records))
	for _, rec := range records {
		sp, err := decodeSaved(rec)
		if err != nil {
			return nil, err
		}
		saved = append(saved, *sp)
	}
	return saved, nil
}

func (s *RemoteStore) GetSaved(ctx context.Context, id string) (*models.SavedProperty, error) {
	if id == "" {
		return nil, nil
	}
	rec, err := s.fetchOne(ctx, savedTable, id)
	if err != nil || rec == nil {
		return nil, err
	}
	return decodeSaved(rec)
}

// GetSavedByPropertyID scans the table; the service has no secondary index lookup.
func (s *RemoteStore) GetSavedByPropertyID(ctx context.Context, propertyID string) (*models.SavedProperty, error) {
	saved, err := s.ListSaved(ctx)
	if err != nil {
		return nil, err
	}
	for i := range saved {
		if saved[i].PropertyID == propertyID {
			return &saved[i], nil
		}
	}
	return nil, nil
}

func (s *RemoteStore) InsertSaved(ctx context.Context, sp *models.SavedProperty) error {
	existing, err := s.GetSavedByPropertyID(ctx, sp.PropertyID)
	if err != nil {
		return err
	}
	if existing != nil {
		return fmt.Errorf("property %s: %w", sp.PropertyID, models.ErrAlreadySaved)
	}

	out, err := s.write(ctx, http.MethodPost, savedTable, map[string]any{
		"Name":        sp.ID,
		"property_id": sp.PropertyID,
		"saved_date":  sp.SavedDate.UTC().Format(time.RFC3339),
		"notes":       sp.Notes,
	})
	if err != nil {
		return err
	}
	if id := text(out, "Id", "id"); id != "" {
		sp.ID = id
	}
	return nil
}

func (s *RemoteStore) UpdateSavedNotes(ctx context.Context, id, notes string) (*models.SavedProperty, error) {
	existing, err := s.GetSaved(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, fmt.Errorf("saved property %s: %w", id, models.ErrNotFound)
	}

	if _, err := s.write(ctx, http.MethodPatch, savedTable, map[string]any{"Id": id, "notes": notes}); err != nil {
		return nil, err
	}
	existing.Notes = notes
	return existing, nil
}

func (s *RemoteStore) DeleteSaved(ctx context.Context, id string) error {
	existing, err := s.GetSaved(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return fmt.Errorf("saved property %s: %w", id, models.ErrNotFound)
	}
	return s.remove(ctx, savedTable, id)
}

func (s *RemoteStore) DeleteSavedByPropertyID(ctx context.Context, propertyID string) error {
	existing, err := s.GetSavedByPropertyID(ctx, propertyID)
	if err != nil {
		return err
	}
	if existing == nil {
		return fmt.Errorf("saved property for %s: %w", propertyID, models.ErrNotFound)
	}
	return s.remove(ctx, savedTable, existing.ID)
}

// =============================================================================
// Record mapping
// =============================================================================

func decodeProperty(rec record) (*models.Property, error) {
	p := &models.Property{
		ID:           text(rec, "Id", "id"),
		Address:      text(rec, "address"),
		City:         text(rec, "city"),
		State:        text(rec, "state"),
		PostalCode:   text(rec, "zip_code", "zipCode", "postal_code", "postalCode"),
		PropertyType: models.PropertyType(text(rec, "property_type", "propertyType")),
		Description:  text(rec, "description"),
		Status:       text(rec, "status"),
		Features:     list(rec, "features"),
		Images:       list(rec, "images"),
	}
	if p.ID == "" {
		return nil, fmt.Errorf("record without id")
	}

	var err error
	if p.Price, err = integer(rec, "price"); err != nil {
		return nil, fmt.Errorf("property %s: %w", p.ID, err)
	}
	bedrooms, err := integer(rec, "bedrooms")
	if err != nil {
		return nil, fmt.Errorf("property %s: %w", p.ID, err)
	}
	p.Bedrooms = int(bedrooms)
	if p.Bathrooms, err = number(rec, "bathrooms"); err != nil {
		return nil, fmt.Errorf("property %s: %w", p.ID, err)
	}
	sqft, err := integer(rec, "square_feet", "squareFeet")
	if err != nil {
		return nil, fmt.Errorf("property %s: %w", p.ID, err)
	}
	p.SquareFeet = int(sqft)
	yearBuilt, err := integer(rec, "year_built", "yearBuilt")
	if err != nil {
		return nil, fmt.Errorf("property %s: %w", p.ID, err)
	}
	p.YearBuilt = int(yearBuilt)
	if p.ListingDate, err = timestamp(rec, "listing_date", "listingDate"); err != nil {
		return nil, fmt.Errorf("property %s: %w", p.ID, err)
	}
	p.Coordinates = coordinates(rec, "coordinates")
	return p, nil
}

func encodeProperty(p *models.Property) map[string]any {
	rec := map[string]any{
		"Name":          p.Address,
		"address":       p.Address,
		"city":          p.City,
		"state":         p.State,
		"zip_code":      p.PostalCode,
		"price":         p.Price,
		"bedrooms":      p.Bedrooms,
		"bathrooms":     p.Bathrooms,
		"square_feet":   p.SquareFeet,
		"property_type": string(p.PropertyType),
		"year_built":    p.YearBuilt,
		"description":   p.Description,
		"features":      strings.Join(p.Features, ","),
		"images":        strings.Join(p.Images, ","),
		"listing_date":  p.ListingDate.UTC().Format(time.RFC3339),
		"status":        p.Status,
	}
	if p.Coordinates != nil {
		rec["coordinates"] = p.Coordinates
	}
	return rec
}

func decodeSaved(rec record) (*models.SavedProperty, error) {
	sp := &models.SavedProperty{
		ID:         text(rec, "Id", "id"),
		PropertyID: text(rec, "property_id", "propertyId"),
		Notes:      text(rec, "notes"),
	}
	if sp.ID == "" || sp.PropertyID == "" {
		return nil, fmt.Errorf("saved record missing id or property id")
	}
	var err error
	if sp.SavedDate, err = timestamp(rec, "saved_date", "savedDate"); err != nil {
		return nil, fmt.Errorf("saved property %s: %w", sp.ID, err)
	}
	return sp, nil
}

// field returns the first non-null value among the given key spellings
func field(rec record, keys ...string) json.RawMessage {
	for _, k := range keys {
		if v, ok := rec[k]; ok && len(v) > 0 && string(v) != "null" {
			return v
		}
	}
	return nil
}

// text accepts strings and numbers, so numeric record IDs become strings
func text(rec record, keys ...string) string {
	v := field(rec, keys...)
	if v == nil {
		return ""
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(v, &n); err == nil {
		return n.String()
	}
	return ""
}

func number(rec record, keys ...string) (float64, error) {
	v := field(rec, keys...)
	if v == nil {
		return 0, nil
	}
	var f float64
	if err := json.Unmarshal(v, &f); err == nil {
		return f, nil
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return 0, fmt.Errorf("%s: not a number: %s", keys[0], v)
	}
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", keys[0], err)
	}
	return f, nil
}

// integer rejects fractional and out of range values instead of truncating them
func integer(rec record, keys ...string) (int64, error) {
	f, err := number(rec, keys...)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("%s: not a whole number: %v", keys[0], f)
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, fmt.Errorf("%s: out of range: %v", keys[0], f)
	}
	return int64(f), nil
}

// list accepts a JSON array or a comma separated string
func list(rec record, keys ...string) []string {
	v := field(rec, keys...)
	if v == nil {
		return []string{}
	}
	var arr []string
	if err := json.Unmarshal(v, &arr); err == nil {
		return arr
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return []string{}
	}
	out := []string{}
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ';' }) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func timestamp(rec record, keys ...string) (time.Time, error) {
	s := text(rec, keys...)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%s: unrecognized time %q", keys[0], s)
}

// coordinates accepts an object or a JSON string holding one
func coordinates(rec record, keys ...string) *models.Coordinates {
	v := field(rec, keys...)
	if v == nil {
		return nil
	}
	var c models.Coordinates
	if err := json.Unmarshal(v, &c); err == nil {
		return &c
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil && json.Unmarshal([]byte(s), &c) == nil {
		return &c
	}
	return nil
}
