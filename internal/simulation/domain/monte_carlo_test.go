package domain

import (
	"context"
	"math"
	"testing"

	pricingdomain "github.com/wyfcoding/quantlab/internal/pricing/domain"
)

func TestPriceOptionConvergesToClosedForm(t *testing.T) {
	params := pricingdomain.OptionParams{S: 100, K: 100, T: 1, R: 0.05, V: 0.2}

	tests := []struct {
		name string
		typ  pricingdomain.OptionType
	}{
		{"call", pricingdomain.OptionTypeCall},
		{"put", pricingdomain.OptionTypePut},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			closedForm := pricingdomain.Price(tt.typ, params).Price

			est, err := PriceOption(context.Background(), OptionInput{
				S0: params.S, K: params.K, R: params.R, Sigma: params.V, T: params.T,
				Type: tt.typ, Paths: 50000, Steps: 12, Seed: 42, Workers: 4,
			})
			if err != nil {
				t.Fatalf("PriceOption: %v", err)
			}

			// 50k 路径下标准误约 0.07，0.5 的容差在 7 个标准差之外
			if math.Abs(est.Price-closedForm) > 0.5 {
				t.Errorf("monte carlo price = %v, closed form = %v", est.Price, closedForm)
			}
			if est.StdError <= 0 || est.StdError > 0.2 {
				t.Errorf("std error = %v, want small positive", est.StdError)
			}
			if !(est.Lower < est.Price && est.Price < est.Upper) {
				t.Errorf("estimate %v outside its own interval [%v, %v]", est.Price, est.Lower, est.Upper)
			}
			if w := est.Upper - est.Lower; math.Abs(w-2*1.96*est.StdError) > 1e-9 {
				t.Errorf("interval width %v inconsistent with 1.96 scaling of stderr %v", w, est.StdError)
			}
		})
	}
}

func TestPriceOptionDeterministicForSeed(t *testing.T) {
	in := OptionInput{
		S0: 100, K: 105, R: 0.03, Sigma: 0.25, T: 0.5,
		Type: pricingdomain.OptionTypeCall, Paths: 5000, Steps: 10, Seed: 7, Workers: 4,
	}

	a, err := PriceOption(context.Background(), in)
	if err != nil {
		t.Fatal(err)
	}
	b, err := PriceOption(context.Background(), in)
	if err != nil {
		t.Fatal(err)
	}
	if a.Price != b.Price || a.StdError != b.StdError {
		t.Errorf("same seed produced different estimates: %+v vs %+v", a, b)
	}
}

func TestPriceOptionValidation(t *testing.T) {
	base := OptionInput{
		S0: 100, K: 100, R: 0.05, Sigma: 0.2, T: 1,
		Type: pricingdomain.OptionTypeCall, Paths: 100, Steps: 10,
	}

	tests := []struct {
		name   string
		mutate func(*OptionInput)
	}{
		{"zero paths", func(in *OptionInput) { in.Paths = 0 }},
		{"negative paths", func(in *OptionInput) { in.Paths = -5 }},
		{"zero steps", func(in *OptionInput) { in.Steps = 0 }},
		{"bad type", func(in *OptionInput) { in.Type = "STRADDLE" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := base
			tt.mutate(&in)
			if _, err := PriceOption(context.Background(), in); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestPriceOptionCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := PriceOption(ctx, OptionInput{
		S0: 100, K: 100, R: 0.05, Sigma: 0.2, T: 1,
		Type: pricingdomain.OptionTypeCall, Paths: 100000, Steps: 252, Seed: 1,
	})
	if err == nil {
		t.Error("expected cancellation error, got nil")
	}
}
