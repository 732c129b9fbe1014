package dashboard

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"cloudtrail-explorer/internal/explorer"
	"cloudtrail-explorer/internal/types"
)

const trail = `{"Records":[
	{"eventTime":"2023-01-01T00:00:00Z","eventSource":"s3.amazonaws.com","eventName":"ListBuckets","awsRegion":"us-east-1","userIdentity":{"userName":"alice"}},
	{"eventTime":"2023-01-02T00:00:00Z","eventSource":"iam.amazonaws.com","eventName":"DeleteUser","awsRegion":"eu-west-1","userIdentity":{"userName":"bob"},"errorCode":"AccessDenied","eventID":"evt-2"}
]}`

func newTestServer(t *testing.T) (*Server, *explorer.Explorer) {
	t.Helper()
	ex := explorer.New(nil, nil, 0)
	s, err := NewServer(ex, types.TimeUTC, types.DefaultPageSize, ":0")
	if err != nil {
		t.Fatalf("Failed to create server: %v", err)
	}
	return s, ex
}

func do(s *Server, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("Invalid JSON response %q: %v", w.Body.String(), err)
	}
	return out
}

func TestEvents_EmptyExplorer(t *testing.T) {
	s, _ := newTestServer(t)

	w := do(s, "GET", "/api/v1/events", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	body := decode(t, w)
	if body["page"].(float64) != 1 || body["totalPages"].(float64) != 1 || body["matched"].(float64) != 0 {
		t.Errorf("Expected empty page 1/1, got %v", body)
	}
}

func TestDocuments_LoadQueryClear(t *testing.T) {
	s, ex := newTestServer(t)

	w := do(s, "POST", "/api/v1/documents?name=trail.json", trail)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if ex.Snapshot() == nil || ex.Snapshot().Name != "trail.json" {
		t.Fatal("Expected document to be loaded")
	}

	w = do(s, "GET", "/api/v1/events?status=errors", "")
	body := decode(t, w)
	if body["matched"].(float64) != 1 || body["total"].(float64) != 2 {
		t.Errorf("Expected 1 of 2 matched, got %v", body)
	}
	rows := body["rows"].([]interface{})
	if rows[0].(map[string]interface{})["eventName"] != "DeleteUser" {
		t.Errorf("Expected DeleteUser, got %v", rows[0])
	}

	w = do(s, "GET", "/api/v1/events?sort=principal&limit=1&page=2", "")
	body = decode(t, w)
	rows = body["rows"].([]interface{})
	if len(rows) != 1 || rows[0].(map[string]interface{})["principal"] != "bob" {
		t.Errorf("Expected bob on page 2, got %v", rows)
	}

	w = do(s, "DELETE", "/api/v1/documents", "")
	if w.Code != http.StatusNoContent {
		t.Errorf("Expected 204, got %d", w.Code)
	}
	body = decode(t, do(s, "GET", "/api/v1/stats", ""))
	if body["loaded"] != false || body["meta"] != "No file loaded." {
		t.Errorf("Expected cleared stats, got %v", body)
	}
}

func TestDocuments_RejectsBadInput(t *testing.T) {
	s, ex := newTestServer(t)
	do(s, "POST", "/api/v1/documents", trail)
	before := ex.Snapshot()

	for _, body := range []string{`{not json`, `{"foo":"bar"}`, `"text"`} {
		w := do(s, "POST", "/api/v1/documents", body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", body, w.Code)
		}
		if decode(t, w)["error"] == "" {
			t.Errorf("%s: expected error message", body)
		}
	}
	if ex.Snapshot() != before {
		t.Error("Expected rejected uploads to keep the previous document")
	}
}

func TestEvent_Detail(t *testing.T) {
	s, _ := newTestServer(t)
	do(s, "POST", "/api/v1/documents", trail)

	body := decode(t, do(s, "GET", "/api/v1/events/1", ""))
	if body["hint"] != "eventID/requestID: evt-2" {
		t.Errorf("Unexpected hint %v", body["hint"])
	}
	if !strings.Contains(body["json"].(string), `"errorCode": "AccessDenied"`) {
		t.Errorf("Expected pretty JSON, got %v", body["json"])
	}

	if w := do(s, "GET", "/api/v1/events/9", ""); w.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", w.Code)
	}
	if w := do(s, "GET", "/api/v1/events/x", ""); w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", w.Code)
	}
}

func TestSuggestions(t *testing.T) {
	s, _ := newTestServer(t)

	body := decode(t, do(s, "GET", "/api/v1/suggestions/region", ""))
	if len(body["values"].([]interface{})) != 0 {
		t.Errorf("Expected no values before load, got %v", body)
	}

	do(s, "POST", "/api/v1/documents", trail)
	body = decode(t, do(s, "GET", "/api/v1/suggestions/region", ""))
	values := body["values"].([]interface{})
	if len(values) != 2 || values[0] != "eu-west-1" || values[1] != "us-east-1" {
		t.Errorf("Unexpected region suggestions %v", values)
	}

	for _, field := range []string{"status", "bogus"} {
		if w := do(s, "GET", "/api/v1/suggestions/"+field, ""); w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", field, w.Code)
		}
	}
}

func TestEvents_BadParams(t *testing.T) {
	s, _ := newTestServer(t)
	for _, q := range []string{"limit=0", "limit=ten", "sort=color", "dir=up", "status=maybe", "page=x"} {
		if w := do(s, "GET", "/api/v1/events?"+q, ""); w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", q, w.Code)
		}
	}
}

func TestDashboardPage(t *testing.T) {
	s, _ := newTestServer(t)

	w := do(s, "GET", "/", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "No file loaded.") {
		t.Errorf("Expected empty dashboard, got %d", w.Code)
	}

	do(s, "POST", "/api/v1/documents?name=trail.json", trail)
	w = do(s, "GET", "/?status=errors", "")
	page := w.Body.String()
	if !strings.Contains(page, "Loaded: trail.json | Events: 2 | Errors: 1") {
		t.Error("Expected meta line on dashboard")
	}
	if !strings.Contains(page, "1 results (of 2)") || !strings.Contains(page, "Page 1 / 1") {
		t.Error("Expected results and page lines on dashboard")
	}
	if !strings.Contains(page, "<td>DeleteUser</td>") || strings.Contains(page, "<td>ListBuckets</td>") {
		t.Error("Expected only the failed event to be listed")
	}
}

func TestHealthAndMetrics(t *testing.T) {
	s, _ := newTestServer(t)

	body := decode(t, do(s, "GET", "/healthz", ""))
	if body["status"] != "ok" || body["loaded"] != false {
		t.Errorf("Unexpected health %v", body)
	}

	w := do(s, "GET", "/metrics", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "cloudtrail_explorer_") {
		t.Errorf("Expected prometheus metrics, got %d", w.Code)
	}
}
