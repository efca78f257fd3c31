package query

import (
	"net/url"
	"strconv"
	"strings"

	"estate_browser/models"
)

// ParseParams reads browse parameters from URL query values:
//
//	q, price_min, price_max, beds_min, baths_min, sqft_min, type, feature,
//	sort, limit, offset
//
// type and feature may repeat or hold comma separated lists; both are matched
// case-insensitively against the known names. Malformed numbers
// and filters that fail models.Filter.Validate yield a *models.ValidationError.
func ParseParams(values url.Values) (Params, error) {
	p := Params{
		Search: values.Get("q"),
		Sort:   models.SortKey(strings.TrimSpace(values.Get("sort"))),
	}
	if p.Sort == "" {
		p.Sort = models.DefaultSort
	}

	var err error
	if p.Filter.PriceMin, err = optionalInt64(values, "price_min"); err != nil {
		return Params{}, err
	}
	if p.Filter.PriceMax, err = optionalInt64(values, "price_max"); err != nil {
		return Params{}, err
	}
	if p.Filter.BedroomsMin, err = optionalInt(values, "beds_min"); err != nil {
		return Params{}, err
	}
	if p.Filter.BathroomsMin, err = optionalFloat(values, "baths_min"); err != nil {
		return Params{}, err
	}
	if p.Filter.SquareFeetMin, err = optionalInt(values, "sqft_min"); err != nil {
		return Params{}, err
	}

	for _, t := range splitList(values["type"]) {
		p.Filter.PropertyTypes = append(p.Filter.PropertyTypes, canonicalType(t))
	}
	for _, f := range splitList(values["feature"]) {
		p.Filter.Features = append(p.Filter.Features, canonicalFeature(f))
	}

	if limit, err := optionalInt(values, "limit"); err != nil {
		return Params{}, err
	} else if limit != nil {
		p.Limit = *limit
	}
	if offset, err := optionalInt(values, "offset"); err != nil {
		return Params{}, err
	} else if offset != nil {
		p.Offset = *offset
	}
	if p.Limit < 0 {
		return Params{}, &models.ValidationError{Field: "limit", Message: "must not be negative"}
	}
	if p.Offset < 0 {
		return Params{}, &models.ValidationError{Field: "offset", Message: "must not be negative"}
	}

	if err := p.Filter.Validate(); err != nil {
		return Params{}, err
	}
	return p, nil
}

func optionalInt64(values url.Values, key string) (*int64, error) {
	raw := strings.TrimSpace(values.Get(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(strings.ReplaceAll(raw, ",", ""), 10, 64)
	if err != nil {
		return nil, &models.ValidationError{Field: key, Message: "not a whole number: " + raw}
	}
	return &v, nil
}

func optionalInt(values url.Values, key string) (*int, error) {
	v, err := optionalInt64(values, key)
	if err != nil || v == nil {
		return nil, err
	}
	i := int(*v)
	return &i, nil
}

func optionalFloat(values url.Values, key string) (*float64, error) {
	raw := strings.TrimSpace(values.Get(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, &models.ValidationError{Field: key, Message: "not a number: " + raw}
	}
	return &v, nil
}

func splitList(raw []string) []string {
	var out []string
	for _, entry := range raw {
		for _, part := range strings.Split(entry, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// canonicalFeature maps "hardwood floors" to "Hardwood Floors". Names outside
// the vocabulary are kept as typed, since listings may carry other features.
func canonicalFeature(name string) string {
	for _, f := range models.FeatureVocabulary {
		if strings.EqualFold(f, name) {
			return f
		}
	}
	return name
}

// canonicalType maps "condo" to "Condo"; unknown names pass through for
// validation to reject.
func canonicalType(name string) models.PropertyType {
	for _, t := range models.PropertyTypes {
		if strings.EqualFold(string(t), name) {
			return t
		}
	}
	return models.PropertyType(name)
}
