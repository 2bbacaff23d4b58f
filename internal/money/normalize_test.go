package money

import (
	"errors"
	"math"
	"testing"

	"github.com/subtrackr/subtrackr/internal/model"
)

func TestAnnualFactor(t *testing.T) {
	tests := []struct {
		cycle model.BillingCycle
		want  float64
	}{
		{model.CycleMonthly, 12},
		{model.CycleYearly, 1},
		{model.CycleQuarterly, 4},
		{model.CycleWeekly, 52},
		{model.CycleBiAnnually, 0.5},
		{model.CycleOther, 0},
	}
	for _, tt := range tests {
		if got := AnnualFactor(tt.cycle); got != tt.want {
			t.Errorf("AnnualFactor(%s) = %v, want %v", tt.cycle, got, tt.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name   string
		cost   float64
		cycle  model.BillingCycle
		period Period
		want   float64
	}{
		{"yearly to monthly", 119.88, model.CycleYearly, PeriodMonthly, 9.99},
		{"monthly to annual", 9.99, model.CycleMonthly, PeriodAnnually, 119.88},
		{"weekly to annual", 2.00, model.CycleWeekly, PeriodAnnually, 104},
		{"quarterly to monthly", 30, model.CycleQuarterly, PeriodMonthly, 10},
		{"bi-annual to annual", 100, model.CycleBiAnnually, PeriodAnnually, 50},
		{"other contributes nothing monthly", 50, model.CycleOther, PeriodMonthly, 0},
		{"other contributes nothing annually", 50, model.CycleOther, PeriodAnnually, 0},
		{"zero cost", 0, model.CycleMonthly, PeriodMonthly, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.cost, tt.cycle, tt.period)
			if err != nil {
				t.Fatalf("Normalize() error = %v", err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Normalize() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNormalizeInvalidPeriod(t *testing.T) {
	if _, err := Normalize(10, model.CycleMonthly, Period("weekly")); !errors.Is(err, ErrInvalidPeriod) {
		t.Errorf("Normalize() error = %v, want ErrInvalidPeriod", err)
	}
}

// Normalizing to monthly and scaling back up agrees with normalizing
// straight to annual for every schedulable cycle.
func TestNormalizeRoundTrip(t *testing.T) {
	cycles := []model.BillingCycle{
		model.CycleMonthly,
		model.CycleYearly,
		model.CycleQuarterly,
		model.CycleWeekly,
		model.CycleBiAnnually,
	}
	for _, cycle := range cycles {
		for _, cost := range []float64{0.01, 9.99, 120, 383.64} {
			monthly, err := Normalize(cost, cycle, PeriodMonthly)
			if err != nil {
				t.Fatalf("Normalize(%s) error = %v", cycle, err)
			}
			annual, err := Normalize(cost, cycle, PeriodAnnually)
			if err != nil {
				t.Fatalf("Normalize(%s) error = %v", cycle, err)
			}
			if math.Abs(monthly*12-annual) > 1e-9 {
				t.Errorf("cycle %s cost %v: monthly*12 = %v, annual = %v", cycle, cost, monthly*12, annual)
			}
		}
	}
}

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		in      string
		want    Period
		wantErr bool
	}{
		{"monthly", PeriodMonthly, false},
		{"Annually", PeriodAnnually, false},
		{" MONTHLY ", PeriodMonthly, false},
		{"weekly", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParsePeriod(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParsePeriod(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("ParsePeriod(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
