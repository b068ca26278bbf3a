package observability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestMetricsExposition(t *testing.T) {
	m := NewMetrics()
	m.ObserveAPI(APIRequest{Method: "GET", Route: "/api/groups", Resource: "group", Status: "200", Authenticated: true}, 20*time.Millisecond)
	m.ObserveAPI(APIRequest{Method: "POST", Route: "/api/login", Resource: "auth", Status: "401"}, time.Millisecond)
	m.IncAPIError("auth", "unauthorized")
	m.ObserveStorageOperation(StorageOperation{Entity: "group", Op: "group.save", Status: "success"}, 3*time.Millisecond)
	m.ObserveStorageOperation(StorageOperation{Entity: "collection", Op: "collection.insert", CallerManaged: true}, time.Millisecond)
	m.IncStorageConflict("coin", "coin.save")
	m.IncStorageRetry("coin", "coin.save")
	m.ApiInflightInc()
	m.ApiInflightDec()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status: want=200 got=%d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		`http_requests_total{caller="user",method="GET",resource="group",route="/api/groups",status="200"} 1`,
		`http_requests_total{caller="anonymous",method="POST",resource="auth",route="/api/login",status="401"} 1`,
		`http_request_errors_total{code="unauthorized",resource="auth"} 1`,
		`storage_conflicts_total{entity="coin",op="coin.save"} 1`,
		`storage_retries_total{entity="coin",op="coin.save"} 1`,
		`storage_operation_duration_seconds_count{entity="group",op="group.save",status="success",tx="self"} 1`,
		`storage_operation_duration_seconds_count{entity="collection",op="collection.insert",status="success",tx="caller"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("exposition missing %q", want)
		}
	}
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	m.ObserveAPI(APIRequest{Method: "GET", Route: "/"}, time.Millisecond)
	m.IncAPIError("", "")
	m.ObserveStorageOperation(StorageOperation{Op: "op"}, time.Millisecond)
	m.IncStorageConflict("", "op")
	m.RegisterDBStats(nil, nil, "x")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("nil handler: want=503 got=%d", rec.Code)
	}
}

func TestInitOTelDisabledReturnsNoop(t *testing.T) {
	shutdown := InitOTel(context.Background(), nil, OtelConfig{})
	if shutdown == nil {
		t.Fatalf("shutdown: want non-nil")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestParseHeaders(t *testing.T) {
	h := ParseHeaders("a=1, b = 2 ,broken,=x")
	if len(h) != 2 || h["a"] != "1" || h["b"] != "2" {
		t.Fatalf("ParseHeaders: got=%v", h)
	}
	if ParseHeaders(" ") != nil {
		t.Fatalf("ParseHeaders blank: want nil")
	}
}
