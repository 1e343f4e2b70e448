package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"mockmate/interview/internal/models"
)

func TestValidateRequestPassesValidBody(t *testing.T) {
	var got *models.SendMessageRequest
	handler := ValidateRequest[*models.SendMessageRequest]()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetValidatedRequest[*models.SendMessageRequest](r)
	}))

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"message":"hello"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got == nil || got.Message != "hello" {
		t.Fatalf("expected validated request, got %+v", got)
	}
}

func TestValidateRequestRejectsInvalidJSON(t *testing.T) {
	handler := ValidateRequest[*models.SendMessageRequest]()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not be reached")
	}))

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{not json`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestValidateRequestRejectsFailedValidation(t *testing.T) {
	handler := ValidateRequest[*models.SendMessageRequest]()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not be reached")
	}))

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"message":"  "}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "missing_message") {
		t.Fatalf("expected missing_message code, got %s", rec.Body.String())
	}
}
