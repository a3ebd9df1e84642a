package service

import (
	"testing"

	"github.com/Shaen-ai/mapsy-backend/internal/api/widget/models"
	"github.com/Shaen-ai/mapsy-backend/internal/identity"
)

func TestEffectiveTier(t *testing.T) {
	paid := &identity.Claims{InstanceID: "t1", VendorProductID: "prod-basic"}
	free := &identity.Claims{InstanceID: "t1"}

	cases := []struct {
		name   string
		stored string
		claims *identity.Claims
		want   string
	}{
		{"tier luu tren ban ghi thang tuyet doi", models.PlanTierBusiness, paid, models.PlanTierBusiness},
		{"tin hieu mua goi anh xa ve light", "", paid, models.PlanTierLight},
		{"khong co gi la free", "", free, models.PlanTierFree},
		{"khong co claims la free", "", nil, models.PlanTierFree},
		{"tier luu thang ca khi token free", models.PlanTierBusinessPro, free, models.PlanTierBusinessPro},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := EffectiveTier(tc.stored, tc.claims); got != tc.want {
				t.Errorf("EffectiveTier(%q) = %q, muốn %q", tc.stored, got, tc.want)
			}
		})
	}
}

func TestIsPremium(t *testing.T) {
	if IsPremium(models.PlanTierFree) {
		t.Error("free không phải premium")
	}
	if IsPremium("") {
		t.Error("tier rỗng không phải premium")
	}
	for _, tier := range []string{models.PlanTierLight, models.PlanTierBusiness, models.PlanTierBusinessPro} {
		if !IsPremium(tier) {
			t.Errorf("%s phải là premium", tier)
		}
	}
}
