package service

import (
	"reflect"
	"testing"

	"github.com/Shaen-ai/mapsy-backend/internal/api/widget/models"
)

func TestConfigKey(t *testing.T) {
	cases := []struct {
		tenantID    string
		componentID string
		want        string
	}{
		{"t1", "c1", "t1_c1"},
		{"t1", "", "t1"},
		{"", "c1", models.GlobalDefaultKey},
		{"", "", models.GlobalDefaultKey},
	}
	for _, tc := range cases {
		if got := ConfigKey(tc.tenantID, tc.componentID); got != tc.want {
			t.Errorf("ConfigKey(%q, %q) = %q, muốn %q", tc.tenantID, tc.componentID, got, tc.want)
		}
	}
}

func TestFallbackKeys(t *testing.T) {
	cases := []struct {
		name          string
		tenantID      string
		componentID   string
		includeGlobal bool
		want          []string
	}{
		{"day du co global", "t1", "c1", true, []string{"t1_c1", "t1", "default"}},
		{"day du khong global", "t1", "c1", false, []string{"t1_c1", "t1"}},
		{"chi tenant khong global", "t1", "", false, []string{"t1"}},
		{"chi component", "", "c1", true, []string{"default"}},
		// Danh tính không có tenant thì default là key của chính họ,
		// không bị loại dù tắt global fallback
		{"anonymous khong global", "", "", false, []string{"default"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := FallbackKeys(tc.tenantID, tc.componentID, tc.includeGlobal)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("FallbackKeys = %v, muốn %v", got, tc.want)
			}
		})
	}
}
