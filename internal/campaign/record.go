package campaign

import (
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the date format used in the flat file.
const DateLayout = "2006-01-02"

// Columns is the flat-file header, in output order.
var Columns = []string{
	"date", "channel", "campaign_type", "product",
	"impressions", "clicks", "conversions", "spend", "revenue",
	"ctr", "conversion_rate", "cac", "roas", "profit",
}

// Record is one (date, channel) row of the dataset.
type Record struct {
	Date         time.Time
	Channel      string
	CampaignType string
	Product      string

	Impressions int64
	Clicks      int64
	Conversions int64
	Spend       decimal.Decimal
	Revenue     decimal.Decimal

	// Derived metrics, see Derive.
	CTR            decimal.Decimal
	ConversionRate decimal.Decimal
	CAC            decimal.Decimal
	ROAS           decimal.Decimal
	Profit         decimal.Decimal
}

// Strings returns the record as flat-file fields in Columns order.
func (r Record) Strings() []string {
	return []string{
		r.Date.Format(DateLayout),
		r.Channel,
		r.CampaignType,
		r.Product,
		strconv.FormatInt(r.Impressions, 10),
		strconv.FormatInt(r.Clicks, 10),
		strconv.FormatInt(r.Conversions, 10),
		r.Spend.StringFixed(2),
		r.Revenue.StringFixed(2),
		r.CTR.StringFixed(2),
		r.ConversionRate.StringFixed(2),
		r.CAC.StringFixed(2),
		r.ROAS.StringFixed(2),
		r.Profit.StringFixed(2),
	}
}

// ParseRecord parses flat-file fields in Columns order.
func ParseRecord(fields []string) (Record, error) {
	if len(fields) != len(Columns) {
		return Record{}, fmt.Errorf("expected %d fields, got %d", len(Columns), len(fields))
	}

	var r Record
	var err error

	if r.Date, err = time.Parse(DateLayout, fields[0]); err != nil {
		return Record{}, fmt.Errorf("invalid date %q: %w", fields[0], err)
	}
	r.Channel = fields[1]
	r.CampaignType = fields[2]
	r.Product = fields[3]

	ints := []*int64{&r.Impressions, &r.Clicks, &r.Conversions}
	for i, dst := range ints {
		col := 4 + i
		if *dst, err = strconv.ParseInt(fields[col], 10, 64); err != nil {
			return Record{}, fmt.Errorf("invalid %s %q: %w", Columns[col], fields[col], err)
		}
	}

	decs := []*decimal.Decimal{&r.Spend, &r.Revenue, &r.CTR, &r.ConversionRate, &r.CAC, &r.ROAS, &r.Profit}
	for i, dst := range decs {
		col := 7 + i
		if *dst, err = decimal.NewFromString(fields[col]); err != nil {
			return Record{}, fmt.Errorf("invalid %s %q: %w", Columns[col], fields[col], err)
		}
	}

	return r, nil
}
