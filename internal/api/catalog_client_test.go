package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func newTestClient(handler http.HandlerFunc) (CatalogClient, *httptest.Server) {
	srv := httptest.NewServer(handler)
	return NewCatalogClient(srv.URL, 0, zap.NewNop()), srv
}

func TestFetchAll_OK(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/products" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id":1,"title":"Backpack","price":109.95,"description":"d","category":"men's clothing","image":"https://example.com/1.jpg","rating":{"rate":3.9,"count":120}},
			{"id":2,"title":"T-Shirt","price":22.3,"description":"d","category":"men's clothing","image":"https://example.com/2.jpg"}
		]`))
	})
	defer srv.Close()

	res := client.FetchAll(context.Background())
	if res.Status != StatusOK {
		t.Fatalf("Status = %v, want StatusOK (err: %v)", res.Status, res.Err)
	}
	if len(res.Products) != 2 {
		t.Fatalf("got %d products, want 2", len(res.Products))
	}

	first := res.Products[0]
	if first.ID != 1 || first.Title != "Backpack" {
		t.Errorf("unexpected first product: %+v", first)
	}
	if !first.Price.Equal(decimal.RequireFromString("109.95")) {
		t.Errorf("price = %s, want 109.95", first.Price)
	}
	if first.Rating.Rate != 3.9 || first.Rating.Count != 120 {
		t.Errorf("unexpected rating: %+v", first.Rating)
	}

	// 缺失rating字段时使用默认值，不应解析失败
	second := res.Products[1]
	if second.Rating.Rate != 0 || second.Rating.Count != 0 {
		t.Errorf("absent rating must default to zero: %+v", second.Rating)
	}
}

func TestFetchAll_IgnoresUnknownFields(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		// 上游新增字段不能导致解析失败（前向兼容）
		w.Write([]byte(`[{"id":7,"title":"New","price":1.5,"discount":{"pct":10},"tags":["a"],"stock":3}]`))
	})
	defer srv.Close()

	res := client.FetchAll(context.Background())
	if res.Status != StatusOK {
		t.Fatalf("Status = %v, want StatusOK (err: %v)", res.Status, res.Err)
	}
	if res.Products[0].ID != 7 {
		t.Errorf("unexpected product: %+v", res.Products[0])
	}
}

func TestFetchAll_EmptyList(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})
	defer srv.Close()

	res := client.FetchAll(context.Background())
	if res.Status != StatusEmpty {
		t.Fatalf("Status = %v, want StatusEmpty", res.Status)
	}
	if res.Err != nil {
		t.Errorf("empty list is not a failure, got err %v", res.Err)
	}
	if res.Products == nil || len(res.Products) != 0 {
		t.Errorf("expected empty (non-nil) product slice, got %v", res.Products)
	}
}

func TestFetchAll_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
		},
		{
			name: "malformed payload",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"not":"an array"`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, srv := newTestClient(tt.handler)
			defer srv.Close()

			res := client.FetchAll(context.Background())
			if res.Status != StatusError {
				t.Fatalf("Status = %v, want StatusError", res.Status)
			}
			if res.Err == nil {
				t.Error("failure result must carry the underlying error")
			}
		})
	}
}

func TestFetchAll_UnreachableServer(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close() // 立即关闭，模拟网络不可达

	client := NewCatalogClient(url, 0, zap.NewNop())
	res := client.FetchAll(context.Background())
	if res.Status != StatusError {
		t.Fatalf("Status = %v, want StatusError", res.Status)
	}
}

func TestFetchOne_OK(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/products/42" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"id":42,"title":"Jacket","price":55.99,"rating":{"rate":4.5,"count":30}}`))
	})
	defer srv.Close()

	res := client.FetchOne(context.Background(), 42)
	if res.Status != StatusOK {
		t.Fatalf("Status = %v, want StatusOK (err: %v)", res.Status, res.Err)
	}
	if res.Product == nil || res.Product.ID != 42 {
		t.Fatalf("unexpected product: %+v", res.Product)
	}
	if !res.Product.Price.Equal(decimal.RequireFromString("55.99")) {
		t.Errorf("price = %s, want 55.99", res.Product.Price)
	}
}

func TestFetchOne_NotFound(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	defer srv.Close()

	res := client.FetchOne(context.Background(), 999)
	if res.Status != StatusEmpty {
		t.Fatalf("Status = %v, want StatusEmpty", res.Status)
	}
	if res.Product != nil {
		t.Errorf("absent product must be nil, got %+v", res.Product)
	}
	if res.Err != nil {
		t.Errorf("not-found is absence, not failure: %v", res.Err)
	}
}

func TestFetchOne_MalformedPayload(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>gateway error</html>`))
	})
	defer srv.Close()

	res := client.FetchOne(context.Background(), 1)
	if res.Status != StatusError {
		t.Fatalf("Status = %v, want StatusError", res.Status)
	}
	if res.Err == nil {
		t.Error("failure result must carry the underlying error")
	}
}
