package cli

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"estate_browser/models"
	"estate_browser/query"
)

func init() {
	cmd := &cobra.Command{
		Use:   "query [search terms]",
		Short: "Search, filter and sort listings",
		Long:  "Search matches address, city, state, postal code and property type. Filters are inclusive; every --feature must be present.",
		RunE:  runQuery,
	}

	cmd.Flags().String("price-min", "", "Minimum price")
	cmd.Flags().String("price-max", "", "Maximum price")
	cmd.Flags().String("beds-min", "", "Minimum bedrooms")
	cmd.Flags().String("baths-min", "", "Minimum bathrooms (half steps allowed)")
	cmd.Flags().String("sqft-min", "", "Minimum square feet")
	cmd.Flags().StringSliceP("type", "t", nil, "Property types (House, Apartment, Condo, Townhouse, Duplex, Land)")
	cmd.Flags().StringArray("feature", nil, "Required feature, repeatable ("+strings.Join(models.FeatureVocabulary, ", ")+")")
	cmd.Flags().StringP("sort", "s", string(models.DefaultSort), "Sort: price-low, price-high, newest, size-large, bedrooms")
	cmd.Flags().IntP("limit", "l", 0, "Maximum results (0 = all)")
	cmd.Flags().Int("offset", 0, "Skip this many results")

	RootCmd.AddCommand(cmd)

	show := &cobra.Command{
		Use:   "show <property-id>",
		Short: "Show one listing",
		Args:  cobra.ExactArgs(1),
		RunE:  runShow,
	}
	RootCmd.AddCommand(show)
}

// queryValues maps flags onto the same parameters the HTTP API accepts
func queryValues(cmd *cobra.Command, args []string) url.Values {
	values := url.Values{}
	values.Set("q", strings.Join(args, " "))
	for flag, key := range map[string]string{
		"price-min": "price_min",
		"price-max": "price_max",
		"beds-min":  "beds_min",
		"baths-min": "baths_min",
		"sqft-min":  "sqft_min",
		"sort":      "sort",
	} {
		if v, _ := cmd.Flags().GetString(flag); v != "" {
			values.Set(key, v)
		}
	}
	types, _ := cmd.Flags().GetStringSlice("type")
	values["type"] = types
	features, _ := cmd.Flags().GetStringArray("feature")
	values["feature"] = features
	if limit, _ := cmd.Flags().GetInt("limit"); limit != 0 {
		values.Set("limit", strconv.Itoa(limit))
	}
	if offset, _ := cmd.Flags().GetInt("offset"); offset != 0 {
		values.Set("offset", strconv.Itoa(offset))
	}
	return values
}

func runQuery(cmd *cobra.Command, args []string) error {
	params, err := query.ParseParams(queryValues(cmd, args))
	if err != nil {
		return err
	}

	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.browse.Query(cmd.Context(), params)
	if err != nil {
		return err
	}
	return printResult(cmd.OutOrStdout(), res)
}

func runShow(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	detail, err := a.browse.Details(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return printProperty(cmd.OutOrStdout(), detail)
}
