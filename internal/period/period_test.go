package period

import (
	"testing"
	"time"
)

func TestMonthRange(t *testing.T) {
	tests := []struct {
		year, month int
		wantEnd     string
	}{
		{2024, 2, "2024-02-29"}, // leap year
		{2023, 2, "2023-02-28"},
		{2024, 9, "2024-09-30"},
		{2024, 12, "2024-12-31"},
		{2024, 1, "2024-01-31"},
	}
	for _, tt := range tests {
		r := MonthRange(tt.year, tt.month)
		if got := r.End.Format(DateLayout); got != tt.wantEnd {
			t.Errorf("MonthRange(%d, %d).End = %s, want %s", tt.year, tt.month, got, tt.wantEnd)
		}
		if r.Start.Day() != 1 {
			t.Errorf("MonthRange(%d, %d).Start day = %d", tt.year, tt.month, r.Start.Day())
		}
	}
}

func TestQuarterRange(t *testing.T) {
	tests := []struct {
		q         int
		wantStart string
		wantEnd   string
	}{
		{1, "2024-01-01", "2024-03-31"},
		{2, "2024-04-01", "2024-06-30"},
		{3, "2024-07-01", "2024-09-30"},
		{4, "2024-10-01", "2024-12-31"},
	}
	for _, tt := range tests {
		r := QuarterRange(2024, tt.q)
		if got := r.Start.Format(DateLayout); got != tt.wantStart {
			t.Errorf("QuarterRange(2024, %d).Start = %s, want %s", tt.q, got, tt.wantStart)
		}
		if got := r.End.Format(DateLayout); got != tt.wantEnd {
			t.Errorf("QuarterRange(2024, %d).End = %s, want %s", tt.q, got, tt.wantEnd)
		}
	}
}

func TestRangeContains(t *testing.T) {
	r := MonthRange(2024, 9)
	for _, day := range []string{"2024-09-01", "2024-09-15", "2024-09-30"} {
		d, _ := time.Parse(DateLayout, day)
		if !r.Contains(d) {
			t.Errorf("%s should be inside September 2024", day)
		}
	}
	for _, day := range []string{"2024-08-31", "2024-10-01"} {
		d, _ := time.Parse(DateLayout, day)
		if r.Contains(d) {
			t.Errorf("%s should be outside September 2024", day)
		}
	}
}

func TestKeyOrdering(t *testing.T) {
	keys := []Key{{2024, 9}, {2024, 10}, {2023, 12}, {2024, 1}}
	SortKeysDesc(keys)
	want := []Key{{2024, 10}, {2024, 9}, {2024, 1}, {2023, 12}}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("keys = %v, want %v", keys, want)
		}
	}
}

func TestParseKey(t *testing.T) {
	for _, s := range []string{"2024-9", "2024-09"} {
		k, err := ParseKey(s)
		if err != nil {
			t.Fatalf("ParseKey(%q): %v", s, err)
		}
		if k != (Key{2024, 9}) {
			t.Errorf("ParseKey(%q) = %v", s, k)
		}
	}
	for _, s := range []string{"", "2024", "2024-13", "abc-09"} {
		if _, err := ParseKey(s); err == nil {
			t.Errorf("ParseKey(%q) should fail", s)
		}
	}
}

func TestTotalPayFallback(t *testing.T) {
	stored := 200.0
	records := []Record{
		{InsurancePay: 100, PatientPay: 25},                    // fallback: 125
		{InsurancePay: 100, PatientPay: 25, TotalPay: &stored}, // stored wins: 200
	}
	totals := Summarize(records)
	if totals.TotalPay != 325 {
		t.Errorf("TotalPay = %v, want 325", totals.TotalPay)
	}
}

func TestNotPaidCountCaseInsensitive(t *testing.T) {
	records := []Record{
		{Status: "Paid"},
		{Status: "PAID"},
		{Status: "paid"},
		{Status: "Pending"},
		{Status: "Claim Sent"},
		{Status: ""},
	}
	totals := Summarize(records)
	if totals.NotPaidCount != 2 {
		t.Errorf("NotPaidCount = %d, want 2", totals.NotPaidCount)
	}
	if totals.StatusCounts["paid"] != 3 {
		t.Errorf("StatusCounts[paid] = %d, want 3", totals.StatusCounts["paid"])
	}
}

func TestFilterExcludesBadDates(t *testing.T) {
	records := []Record{
		{Date: "2024-09-05", Charged: 100},
		{Date: "", Charged: 50},
		{Date: "not a date", Charged: 50},
		{Date: "2024-08-30", Charged: 75},
	}
	got := Filter(records, MonthRange(2024, 9))
	if len(got) != 1 || got[0].Charged != 100 {
		t.Errorf("Filter = %v", got)
	}
}

func TestSummarizeByMonthOrder(t *testing.T) {
	records := []Record{
		{Date: "2024-09-10", InsurancePay: 10},
		{Date: "2024-10-02", InsurancePay: 20},
		{Date: "2024-09-20", InsurancePay: 5},
		{Date: "garbage"},
	}
	out := SummarizeByMonth(records)
	if len(out) != 2 {
		t.Fatalf("buckets = %d, want 2", len(out))
	}
	if out[0].Month != "2024-10" || out[1].Month != "2024-09" {
		t.Errorf("order = %s, %s; want 2024-10 first", out[0].Month, out[1].Month)
	}
	if out[1].Totals.InsurancePay != 15 {
		t.Errorf("september insurance = %v, want 15", out[1].Totals.InsurancePay)
	}
}
