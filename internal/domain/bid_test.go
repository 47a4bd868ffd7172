package domain

import (
	"errors"
	"testing"
)

func operatingPlant(t *testing.T) *Plant {
	t.Helper()
	p, err := NewPlantFromTemplate("util-1", "sess-1", "riverside", TechGasCC, 400, 2015, 2018, 2048)
	if err != nil {
		t.Fatalf("NewPlantFromTemplate failed: %v", err)
	}
	return p
}

func TestYearlyBid_Validate(t *testing.T) {
	plant := operatingPlant(t)
	bid := NewYearlyBid("util-1", "sess-1", plant.ID, 2025,
		PeriodValues{OffPeak: 300, Shoulder: 350, Peak: 400},
		PeriodValues{OffPeak: 32, Shoulder: 38, Peak: 55},
	)

	if err := bid.Validate(plant); err != nil {
		t.Fatalf("valid bid rejected: %v", err)
	}
	if bid.ID == "" {
		t.Error("bid should get a fresh ID")
	}
}

func TestYearlyBid_ValidateRejections(t *testing.T) {
	plant := operatingPlant(t)
	base := func() *YearlyBid {
		return NewYearlyBid("util-1", "sess-1", plant.ID, 2025,
			PeriodValues{OffPeak: 300, Shoulder: 350, Peak: 400},
			PeriodValues{OffPeak: 32, Shoulder: 38, Peak: 55},
		)
	}

	tests := []struct {
		name   string
		mutate func(*YearlyBid)
	}{
		{"wrong owner", func(b *YearlyBid) { b.UtilityID = "util-2" }},
		{"over nameplate", func(b *YearlyBid) { b.Quantities.Peak = 401 }},
		{"negative quantity", func(b *YearlyBid) { b.Quantities.OffPeak = -1 }},
		{"negative price", func(b *YearlyBid) { b.Prices.Shoulder = -0.01 }},
		{"plant not yet commissioned", func(b *YearlyBid) { b.Year = 2016 }},
		{"plant retired", func(b *YearlyBid) { b.Year = 2048 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bid := base()
			tt.mutate(bid)
			if err := bid.Validate(plant); !errors.Is(err, ErrInvalidBid) {
				t.Errorf("Validate = %v, want ErrInvalidBid", err)
			}
		})
	}

	if err := base().Validate(nil); !errors.Is(err, ErrInvalidBid) {
		t.Error("nil plant should fail validation")
	}
}

func TestYearlyBid_ZeroQuantityIsValid(t *testing.T) {
	plant := operatingPlant(t)
	bid := NewYearlyBid("util-1", "sess-1", plant.ID, 2025,
		PeriodValues{}, PeriodValues{OffPeak: 32, Shoulder: 38, Peak: 55})
	if err := bid.Validate(plant); err != nil {
		t.Errorf("zero-quantity bid rejected: %v", err)
	}
}
