package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestGeocode_KetQuaDauTien(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Errorf("path = %q, muốn /search", r.URL.Path)
		}
		if q := r.URL.Query().Get("q"); q != "12 Lê Lợi, Quận 1" {
			t.Errorf("q = %q", q)
		}
		if limit := r.URL.Query().Get("limit"); limit != "1" {
			t.Errorf("limit = %q, muốn 1", limit)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"lat":"10.7731","lon":"106.7030"},{"lat":"0","lon":"0"}]`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 2*time.Second)
	coords, err := client.Geocode(context.Background(), "12 Lê Lợi, Quận 1")
	if err != nil {
		t.Fatalf("lỗi không mong đợi: %v", err)
	}
	if coords.Latitude != 10.7731 || coords.Longitude != 106.7030 {
		t.Errorf("tọa độ = %+v", coords)
	}
}

func TestGeocode_KhongCoKetQua(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 2*time.Second)
	if _, err := client.Geocode(context.Background(), "nơi không tồn tại"); err == nil {
		t.Error("không có kết quả phải trả về error")
	}
}

func TestGeocode_DichVuLoi(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 2*time.Second)
	if _, err := client.Geocode(context.Background(), "abc"); err == nil {
		t.Error("status 5xx phải trả về error")
	}
}

func TestGeocode_ToaDoKhongHopLe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"lat":"not-a-number","lon":"106.7"}]`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 2*time.Second)
	if _, err := client.Geocode(context.Background(), "abc"); err == nil {
		t.Error("lat không parse được phải trả về error")
	}
}

func TestGeocode_DiaChiRong(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", time.Second)
	if _, err := client.Geocode(context.Background(), ""); err == nil {
		t.Error("địa chỉ rỗng phải trả về error mà không gọi dịch vụ")
	}
}
