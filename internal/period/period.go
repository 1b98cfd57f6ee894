// Package period partitions financial records into calendar months, quarters
// and years and computes aggregate totals over the buckets. All functions are
// pure; malformed rows are skipped rather than failing the whole aggregation.
package period

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// Range is an inclusive [Start, End] pair of calendar days.
type Range struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls on or between Start and End, comparing by
// calendar day.
func (r Range) Contains(t time.Time) bool {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return !day.Before(r.Start) && !day.After(r.End)
}

// MonthRange returns the first and last calendar day of a month. The end day
// is computed as day zero of the following month so short months and leap
// years fall out of the date arithmetic.
func MonthRange(year, month int) Range {
	return Range{
		Start: time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(year, time.Month(month+1), 0, 0, 0, 0, 0, time.UTC),
	}
}

// QuarterRange returns the day range of quarter q (1..4); the start month is
// (q-1)*3+1 and the end is the last day of start month plus two.
func QuarterRange(year, q int) Range {
	startMonth := (q-1)*3 + 1
	return Range{
		Start: time.Date(year, time.Month(startMonth), 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(year, time.Month(startMonth+3), 0, 0, 0, 0, 0, time.UTC),
	}
}

// YearRange returns January 1 through December 31 of a year.
func YearRange(year int) Range {
	return Range{
		Start: time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC),
	}
}

// ParseDate parses a wire-format date. The empty string is an error so
// callers exclude undated rows from bucketed views.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(s))
}

// Key identifies one month bucket. Ordering is by numeric (year, month)
// tuple, never by the string form, so "2024-10" sorts after "2024-9".
type Key struct {
	Year  int
	Month int
}

// KeyOf returns the bucket key for a date.
func KeyOf(t time.Time) Key {
	return Key{Year: t.Year(), Month: int(t.Month())}
}

// ParseKey accepts both "2024-9" and "2024-09".
func ParseKey(s string) (Key, error) {
	parts := strings.SplitN(strings.TrimSpace(s), "-", 2)
	if len(parts) != 2 {
		return Key{}, fmt.Errorf("invalid month key %q", s)
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return Key{}, fmt.Errorf("invalid month key %q", s)
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return Key{}, fmt.Errorf("invalid month key %q", s)
	}
	return Key{Year: year, Month: month}, nil
}

// String renders the zero-padded "YYYY-MM" form.
func (k Key) String() string {
	return fmt.Sprintf("%04d-%02d", k.Year, k.Month)
}

// Label renders a human month name, e.g. "September 2024".
func (k Key) Label() string {
	return fmt.Sprintf("%s %d", time.Month(k.Month).String(), k.Year)
}

// Before compares by (year, month).
func (k Key) Before(other Key) bool {
	if k.Year != other.Year {
		return k.Year < other.Year
	}
	return k.Month < other.Month
}

// SortKeysDesc orders bucket keys most recent first.
func SortKeysDesc(keys []Key) {
	sort.Slice(keys, func(i, j int) bool { return keys[j].Before(keys[i]) })
}

// Record is the slice of a financial row the aggregator needs. Date is the
// raw wire value of the entity's designated bucketing field; which field that
// is (service date vs. payment date) is the caller's decision.
type Record struct {
	Date          string
	Charged       float64
	InsurancePay  float64
	PatientPay    float64
	TotalPay      *float64
	Status        string
	PaymentStatus string
}

// TotalPayment resolves a record's contribution to a total-pay aggregate:
// the stored total when present, else insurance plus patient components.
func (r Record) TotalPayment() float64 {
	if r.TotalPay != nil {
		return *r.TotalPay
	}
	return r.InsurancePay + r.PatientPay
}

// Totals is the aggregate over one set of records.
type Totals struct {
	Count         int            `json:"count"`
	Charged       float64        `json:"charged"`
	InsurancePay  float64        `json:"insurance_pay"`
	PatientPay    float64        `json:"patient_pay"`
	TotalPay      float64        `json:"total_pay"`
	NotPaidCount  int            `json:"not_paid_count"`
	StatusCounts  map[string]int `json:"status_counts"`
	ExcludedCount int            `json:"excluded_count,omitempty"`
}

// Summarize aggregates a set of records. Status counting is case-insensitive;
// "not paid" counts records with a non-empty status not equal to "paid".
func Summarize(records []Record) Totals {
	totals := Totals{StatusCounts: map[string]int{}}
	for _, r := range records {
		totals.Count++
		totals.Charged += r.Charged
		totals.InsurancePay += r.InsurancePay
		totals.PatientPay += r.PatientPay
		totals.TotalPay += r.TotalPayment()

		status := strings.ToLower(strings.TrimSpace(r.Status))
		if status != "" {
			totals.StatusCounts[status]++
			if status != "paid" {
				totals.NotPaidCount++
			}
		}
	}
	return totals
}

// Filter returns the records whose date parses and falls inside the range.
// Rows with a missing or unparseable date are excluded, never crash.
func Filter(records []Record, r Range) []Record {
	var out []Record
	for _, rec := range records {
		t, err := ParseDate(rec.Date)
		if err != nil {
			continue
		}
		if r.Contains(t) {
			out = append(out, rec)
		}
	}
	return out
}

// GroupByMonth buckets records by the month of their date field, skipping
// rows whose date does not parse.
func GroupByMonth(records []Record) map[Key][]Record {
	buckets := map[Key][]Record{}
	for _, rec := range records {
		t, err := ParseDate(rec.Date)
		if err != nil {
			continue
		}
		k := KeyOf(t)
		buckets[k] = append(buckets[k], rec)
	}
	return buckets
}

// MonthSummary pairs a bucket key with its totals.
type MonthSummary struct {
	Key    Key    `json:"-"`
	Month  string `json:"month"`
	Label  string `json:"label"`
	Totals Totals `json:"totals"`
}

// SummarizeByMonth groups, aggregates and orders records most recent month
// first.
func SummarizeByMonth(records []Record) []MonthSummary {
	buckets := GroupByMonth(records)
	keys := make([]Key, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	SortKeysDesc(keys)

	out := make([]MonthSummary, 0, len(keys))
	for _, k := range keys {
		out = append(out, MonthSummary{
			Key:    k,
			Month:  k.String(),
			Label:  k.Label(),
			Totals: Summarize(buckets[k]),
		})
	}
	return out
}
