package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"doorcost/core/rules"
)

func newTestServer(t *testing.T) (*Server, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	return NewServer(Config{Version: "test", Table: rules.Default(), Logger: zap.New(core)}), logs
}

func do(t *testing.T, s *Server, method, path, body string, headers ...string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	var decoded map[string]interface{}
	dec := json.NewDecoder(bytes.NewReader(rec.Body.Bytes()))
	dec.UseNumber()
	require.NoError(t, dec.Decode(&decoded), rec.Body.String())
	return rec, decoded
}

func TestCalculate(t *testing.T) {
	s, _ := newTestServer(t)

	rec, body := do(t, s, http.MethodPost, "/v1/calculate",
		`{"product":"Type A","width":800,"height":2100}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, json.Number("2942.00"), body["total"])
	assert.Equal(t, json.Number("1.68"), body["area"])
	assert.Equal(t, true, body["in_range"])
	assert.Equal(t, rules.Default().Fingerprint(), body["rules_fingerprint"])

	lines := body["breakdown"].([]interface{})
	require.Len(t, lines, 2)
	first := lines[0].(map[string]interface{})
	assert.Equal(t, "Base (Type A)", first["label"])
	assert.Equal(t, json.Number("2792"), first["amount"])
	assert.Nil(t, first["formula"])
}

func TestCalculateKeepsCountOrderAndLanguage(t *testing.T) {
	s, _ := newTestServer(t)

	rec, body := do(t, s, http.MethodPost, "/v1/calculate?lang=nl", `{
		"product": "Type D", "width": 3200, "height": 2100,
		"counts": {"Horizontale Regel": 6, "Komgreep": 2},
		"details": true
	}`)
	require.Equal(t, http.StatusOK, rec.Code)

	lines := body["breakdown"].([]interface{})
	require.Len(t, lines, 4)
	assert.Equal(t, "Basis (Type D)", lines[0].(map[string]interface{})["label"])
	regel := lines[1].(map[string]interface{})
	assert.Equal(t, "Horizontale Regel (4 × 3.20 m × €207)", regel["label"])
	assert.Equal(t, json.Number("2649.6"), regel["amount"])
	assert.NotEmpty(t, regel["formula"])
	assert.Equal(t, "Komgreep (2 × €45)", lines[2].(map[string]interface{})["label"])

	warnings := body["warnings"].([]interface{})
	assert.Len(t, warnings, 1)
}

func TestCalculateAcceptLanguage(t *testing.T) {
	s, _ := newTestServer(t)

	_, body := do(t, s, http.MethodPost, "/v1/calculate",
		`{"product":"Type A","width":800,"height":2100,"region":"Utrecht"}`,
		"Accept-Language", "nl-BE,nl;q=0.9,en;q=0.5")

	lines := body["breakdown"].([]interface{})
	assert.Equal(t, "Regionaal tarief (Utrecht)", lines[1].(map[string]interface{})["label"])
}

func TestCalculateErrors(t *testing.T) {
	s, logs := newTestServer(t)

	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"malformed json", `{"product":`, http.StatusBadRequest, "INVALID_JSON"},
		{"wrong type", `{"product":"Type A","width":"wide"}`, http.StatusBadRequest, "INVALID_JSON"},
		{"counts not an object", `{"product":"Type A","counts":[1]}`, http.StatusBadRequest, "INVALID_JSON"},
		{"unknown product", `{"product":"Type Z","width":800,"height":2100}`, http.StatusUnprocessableEntity, "UNKNOWN_PRODUCT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := do(t, s, http.MethodPost, "/v1/calculate", tt.body)
			assert.Equal(t, tt.status, rec.Code)
			errBody := body["error"].(map[string]interface{})
			assert.Equal(t, tt.code, errBody["code"])
			assert.NotEmpty(t, errBody["message"])
		})
	}

	assert.NotZero(t, logs.FilterMessage("request completed").FilterField(zap.Int("status", http.StatusUnprocessableEntity)).Len())
}

func TestQuote(t *testing.T) {
	s, _ := newTestServer(t)

	rec, body := do(t, s, http.MethodPost, "/v1/quote", `{"doors":[
		{"id":"front","product":"Type A","width":800,"height":2100},
		{"product":"Type A","width":900,"height":2100},
		{"product":"Type D","width":9000,"height":2100}
	]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.NotEmpty(t, body["id"])
	doors := body["doors"].([]interface{})
	require.Len(t, doors, 3)
	assert.Equal(t, "front", doors[0].(map[string]interface{})["id"])
	assert.NotEmpty(t, doors[1].(map[string]interface{})["id"])
	assert.Equal(t, false, doors[2].(map[string]interface{})["in_range"])
	// 2942 + 3054 + (9194 + 58 × 112)
	assert.Equal(t, json.Number("21686.00"), body["grand_total"])
}

func TestQuoteErrors(t *testing.T) {
	s, _ := newTestServer(t)

	rec, body := do(t, s, http.MethodPost, "/v1/quote", `{"doors":[]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", body["error"].(map[string]interface{})["code"])

	rec, body = do(t, s, http.MethodPost, "/v1/quote", `{"doors":[{"product":"Type A","width":800,"height":2100},{"product":"nope"}]}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, body["error"].(map[string]interface{})["message"], "door 2")
}

func TestRules(t *testing.T) {
	s, _ := newTestServer(t)

	rec, body := do(t, s, http.MethodGet, "/v1/rules", "")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, rules.Default().Fingerprint(), body["fingerprint"])
	assert.Len(t, body["products"], 6)
	assert.Len(t, body["regions"], 12)

	counted := body["counted_options"].([]interface{})
	regel := counted[3].(map[string]interface{})
	assert.Equal(t, "Horizontale Regel", regel["id"])
	assert.Equal(t, "per_length", regel["kind"])
	assert.Equal(t, json.Number("4"), regel["max"])
}

func TestHealthAndVersion(t *testing.T) {
	s, _ := newTestServer(t)

	rec, body := do(t, s, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", body["status"])

	rec, body = do(t, s, http.MethodGet, "/version", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "test", body["version"])
	assert.Equal(t, "v1", body["api_version"])
	assert.Equal(t, []interface{}{"en", "nl"}, body["languages"])
}

func TestRequestIDIsLogged(t *testing.T) {
	s, logs := newTestServer(t)

	do(t, s, http.MethodGet, "/health", "", "X-Request-Id", "abc-123")

	entries := logs.FilterMessage("request completed").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "abc-123", fields["request_id"])
	assert.Equal(t, "/health", fields["route"])
}

func TestCalculateInputHashIsStable(t *testing.T) {
	s, _ := newTestServer(t)
	body := `{"product":"Type D","width":3200,"height":2100,"counts":{"Komgreep":2,"Haakslot":1}}`

	_, first := do(t, s, http.MethodPost, "/v1/calculate", body)
	_, second := do(t, s, http.MethodPost, "/v1/calculate", body)
	_, reordered := do(t, s, http.MethodPost, "/v1/calculate",
		`{"product":"Type D","width":3200,"height":2100,"counts":{"Haakslot":1,"Komgreep":2}}`)

	require.Len(t, first["input_hash"], 16)
	assert.Equal(t, first["input_hash"], second["input_hash"])
	assert.NotEqual(t, first["input_hash"], reordered["input_hash"])
	assert.Equal(t, first["total"], reordered["total"])
}

func TestCalculateBreakdownSumsToTotal(t *testing.T) {
	s, _ := newTestServer(t)

	rec, body := do(t, s, http.MethodPost, "/v1/calculate", `{
		"product": "Type A", "width": 805, "height": 2105, "region": "Utrecht",
		"options": ["Isolatieglas", "Buitenkwaliteit coating", "Paneelvulling (Staalplaat)"]
	}`)
	require.Equal(t, http.StatusOK, rec.Code)

	sum := decimal.Zero
	for _, l := range body["breakdown"].([]interface{}) {
		amount, err := decimal.NewFromString(string(l.(map[string]interface{})["amount"].(json.Number)))
		require.NoError(t, err)
		sum = sum.Add(amount)
	}
	total, err := decimal.NewFromString(string(body["total"].(json.Number)))
	require.NoError(t, err)

	assert.True(t, sum.Round(2).Equal(total), "sum %s, total %s", sum, total)
	assert.Equal(t, json.Number("4054.43"), body["total"])
}
