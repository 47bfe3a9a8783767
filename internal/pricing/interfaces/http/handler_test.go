package http

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/wyfcoding/quantlab/internal/pricing/application"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewPricingHandler(application.NewService(nil)).RegisterRoutes(r.Group(""))
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestPriceOptionEndpoint(t *testing.T) {
	r := newTestRouter()

	w := postJSON(t, r, "/api/v1/pricing/option", gin.H{
		"type": "CALL", "spot": 100.0, "strike": 100.0,
		"maturity": 1.0, "rate": 0.05, "volatility": 0.2,
	})

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp struct {
		Message string `json:"message"`
		Data    struct {
			Price float64 `json:"price"`
			Delta float64 `json:"delta"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Message != "ok" {
		t.Errorf("message = %q", resp.Message)
	}
	if math.Abs(resp.Data.Price-10.4506) > 1e-3 {
		t.Errorf("price = %v, want ~10.4506", resp.Data.Price)
	}
	if math.Abs(resp.Data.Delta-0.6368) > 1e-3 {
		t.Errorf("delta = %v, want ~0.6368", resp.Data.Delta)
	}
}

func TestPriceOptionValidation(t *testing.T) {
	r := newTestRouter()

	tests := []struct {
		name string
		body gin.H
	}{
		{"missing type", gin.H{"spot": 100.0, "strike": 100.0, "maturity": 1.0, "volatility": 0.2}},
		{"invalid type", gin.H{"type": "STRADDLE", "spot": 100.0, "strike": 100.0, "maturity": 1.0, "volatility": 0.2}},
		{"negative spot", gin.H{"type": "CALL", "spot": -1.0, "strike": 100.0, "maturity": 1.0, "volatility": 0.2}},
		{"zero strike", gin.H{"type": "CALL", "spot": 100.0, "strike": 0.0, "maturity": 1.0, "volatility": 0.2}},
		{"negative volatility", gin.H{"type": "CALL", "spot": 100.0, "strike": 100.0, "maturity": 1.0, "volatility": -0.2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := postJSON(t, r, "/api/v1/pricing/option", tt.body); w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
		})
	}
}

func TestPriceOptionExpired(t *testing.T) {
	// 到期时间为 0 属于退化输入而非参数错误，应按内在价值定价
	r := newTestRouter()

	w := postJSON(t, r, "/api/v1/pricing/option", gin.H{
		"type": "CALL", "spot": 110.0, "strike": 100.0,
		"maturity": 0.0, "rate": 0.05, "volatility": 0.2,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp struct {
		Data struct {
			Price float64 `json:"price"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if math.Abs(resp.Data.Price-10) > 1e-9 {
		t.Errorf("expired call price = %v, want intrinsic 10", resp.Data.Price)
	}
}
