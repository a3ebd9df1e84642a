package widgethdl

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"

	"github.com/Shaen-ai/mapsy-backend/internal/api/middleware"
	"github.com/Shaen-ai/mapsy-backend/internal/identity"
)

func TestHandleAuthInfo_EchoDanhTinhVaCredential(t *testing.T) {
	app := fiber.New()
	h := NewWidgetDataHandler(nil, nil)

	// Giả lập identity middleware: stash sẵn danh tính và credential vào Locals
	app.Get("/auth-info", func(c fiber.Ctx) error {
		c.Locals(middleware.LocalIdentity, identity.Identity{
			TenantID:    "t1",
			ComponentID: "c1",
			Trust:       identity.TrustTrusted,
		})
		c.Locals(middleware.LocalCredential, "Bearer abc.xyz")
		return h.HandleAuthInfo(c)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/auth-info", nil))
	if err != nil {
		t.Fatalf("lỗi không mong đợi: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d, muốn 200", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("lỗi không mong đợi: %v", err)
	}
	var envelope struct {
		Data struct {
			Identity struct {
				TenantID    string `json:"tenantId"`
				ComponentID string `json:"componentId"`
				Trust       string `json:"trust"`
			} `json:"identity"`
			Credential    string `json:"credential"`
			HasCredential bool   `json:"hasCredential"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		t.Fatalf("không parse được response: %v", err)
	}

	if envelope.Data.Identity.TenantID != "t1" || envelope.Data.Identity.ComponentID != "c1" {
		t.Errorf("identity sai: %+v", envelope.Data.Identity)
	}
	if envelope.Data.Identity.Trust != identity.TrustTrusted.String() {
		t.Errorf("trust = %q", envelope.Data.Identity.Trust)
	}
	// Credential thô phải được echo nguyên văn cho client chẩn đoán
	if envelope.Data.Credential != "Bearer abc.xyz" {
		t.Errorf("credential = %q, muốn echo nguyên văn", envelope.Data.Credential)
	}
	if !envelope.Data.HasCredential {
		t.Error("hasCredential phải là true khi request có credential")
	}
}

func TestHandleAuthInfo_KhongCredential(t *testing.T) {
	app := fiber.New()
	h := NewWidgetDataHandler(nil, nil)

	// Không qua middleware: danh tính rỗng, không credential
	app.Get("/auth-info", h.HandleAuthInfo)

	resp, err := app.Test(httptest.NewRequest("GET", "/auth-info", nil))
	if err != nil {
		t.Fatalf("lỗi không mong đợi: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("lỗi không mong đợi: %v", err)
	}
	var envelope struct {
		Data struct {
			Credential    string `json:"credential"`
			HasCredential bool   `json:"hasCredential"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		t.Fatalf("không parse được response: %v", err)
	}
	if envelope.Data.Credential != "" || envelope.Data.HasCredential {
		t.Errorf("request không credential phải trả về rỗng: %+v", envelope.Data)
	}
}
