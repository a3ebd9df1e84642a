package identity

import (
	"testing"
)

func TestResolveComponentID_ThuTuUuTien(t *testing.T) {
	jsonBody := []byte(`{"compId":"comp-body","name":"x"}`)

	cases := []struct {
		name     string
		header   string
		query    string
		altQuery string
		body     []byte
		want     string
	}{
		{"header thang tat ca", "comp-h", "comp-q", "comp-alt", jsonBody, "comp-h"},
		{"query thang alt va body", "", "comp-q", "comp-alt", jsonBody, "comp-q"},
		{"alt query thang body", "", "", "comp-alt", jsonBody, "comp-alt"},
		{"body la kenh cuoi", "", "", "", jsonBody, "comp-body"},
		{"khong co nguon nao", "", "", "", nil, ""},
		{"body khong phai json", "", "", "", []byte("----boundary\r\nmultipart"), ""},
		{"body json khong co compId", "", "", "", []byte(`{"name":"x"}`), ""},
		{"body compId khong phai string", "", "", "", []byte(`{"compId":42}`), ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ResolveComponentID(tc.header, tc.query, tc.altQuery, tc.body)
			if got != tc.want {
				t.Errorf("ResolveComponentID = %q, muốn %q", got, tc.want)
			}
		})
	}
}

func TestIdentity_TrangThai(t *testing.T) {
	full := Identity{TenantID: "t", ComponentID: "c"}
	if !full.HasTenant() || !full.HasComponent() || full.IsAnonymous() {
		t.Error("danh tính đầy đủ phải có cả tenant lẫn component")
	}

	editor := Identity{ComponentID: "c"}
	if editor.HasTenant() || !editor.HasComponent() || editor.IsAnonymous() {
		t.Error("editor mode có component nhưng không có tenant, không phải anonymous")
	}

	anon := Identity{}
	if !anon.IsAnonymous() {
		t.Error("danh tính rỗng phải là anonymous")
	}
}
