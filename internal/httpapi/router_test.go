package httpapi

import (
	"encoding/xml"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"gremlin-admin/internal/condition"
	"gremlin-admin/internal/config"
)

const (
	actionID   = "ac905a47-9ad3-4b65-b702-fbae1d133609"
	deviceGUID = "{5A1E2B3C-4D5E-6F70-8192-A3B4C5D6E7F8}"
	rwKey      = "editor-key"
	roKey      = "viewer-key"
)

const storedXML = `<activation-condition rule="all">` +
	`<condition condition-type="keyboard" input="keyboard" comparison="pressed" scan-code="57" extended="false"/>` +
	`<condition condition-type="joystick" input="button" comparison="pressed" id="1" device-guid="` + deviceGUID + `" device-name="Stick"/>` +
	`</activation-condition>`

func testConfig(strict bool) *config.Config {
	return &config.Config{
		APIKeys: []config.APIKey{
			{Name: "editor", Key: rwKey, Role: "rw"},
			{Name: "viewer", Key: roKey, Role: "ro"},
		},
		Evaluation: config.EvaluationConfig{StrictComparison: strict},
	}
}

func newTestServer(t *testing.T, strict bool) (*httptest.Server, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgx mock: %v", err)
	}
	srv := httptest.NewServer(NewRouter(testConfig(strict), mock))
	t.Cleanup(func() {
		srv.Close()
		mock.Close()
	})
	return srv, mock
}

func do(t *testing.T, method, url, key, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if key != "" {
		req.Header.Set("X-API-Key", key)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func xmlDecode(resp *http.Response, v any) error {
	return xml.NewDecoder(resp.Body).Decode(v)
}

func expectStoredRow(mock pgxmock.PgxPoolIface) {
	mock.ExpectQuery(`SELECT rule, xml, updated_at`).
		WithArgs(pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"rule", "xml", "updated_at"}).
			AddRow("all", storedXML, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)))
}

func TestHealthAndVersion(t *testing.T) {
	t.Parallel()

	srv, mock := newTestServer(t, false)
	mock.ExpectPing()
	if resp := do(t, http.MethodGet, srv.URL+"/health", "", ""); resp.StatusCode != http.StatusOK {
		t.Fatalf("health status = %d", resp.StatusCode)
	}
	if resp := do(t, http.MethodGet, srv.URL+"/version", "", ""); resp.StatusCode != http.StatusOK {
		t.Fatalf("version status = %d", resp.StatusCode)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAPIKeyAuth(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, false)
	url := srv.URL + "/api/actions/" + actionID + "/activation-condition"

	tests := []struct {
		name   string
		method string
		key    string
		want   int
	}{
		{"missing key", http.MethodGet, "", http.StatusUnauthorized},
		{"unknown key", http.MethodGet, "nope", http.StatusForbidden},
		{"read-only key cannot write", http.MethodPut, roKey, http.StatusForbidden},
		{"read-only key cannot delete", http.MethodDelete, roKey, http.StatusForbidden},
	}
	for _, tc := range tests {
		if resp := do(t, tc.method, url, tc.key, storedXML); resp.StatusCode != tc.want {
			t.Fatalf("%s: status = %d, want %d", tc.name, resp.StatusCode, tc.want)
		}
	}
}

func TestValidateHandler(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		strict     bool
		body       string
		wantStatus int
		want       ValidationReport
	}{
		{
			name:       "incomplete child is reported",
			body:       `<activation-condition rule="any"><condition condition-type="action" comparison=""/><condition condition-type="action" comparison="toggled"/></activation-condition>`,
			wantStatus: http.StatusOK,
			want: ValidationReport{
				Rule: "any", Conditions: 2, ValidConditions: 1,
				Issues: []ConditionIssue{{Index: 0, ConditionType: "action", Problem: "incomplete"}},
			},
		},
		{
			name:       "strict mode flags unknown comparison",
			strict:     true,
			body:       `<activation-condition rule="any"><condition condition-type="action" comparison="toggled"/></activation-condition>`,
			wantStatus: http.StatusOK,
			want: ValidationReport{
				Rule: "any", Conditions: 1, ValidConditions: 1, FullySpecified: true,
				Issues: []ConditionIssue{{Index: 0, ConditionType: "action", Problem: "unsupported-comparison"}},
			},
		},
		{
			name:       "fully specified",
			body:       storedXML,
			wantStatus: http.StatusOK,
			want:       ValidationReport{Rule: "all", Conditions: 2, ValidConditions: 2, FullySpecified: true},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			srv, _ := newTestServer(t, tc.strict)
			resp := do(t, http.MethodPost, srv.URL+"/api/activation-conditions/validate", roKey, tc.body)
			if resp.StatusCode != tc.wantStatus {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tc.wantStatus)
			}
			var got ValidationReport
			if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
				t.Fatalf("decode report: %v", err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("got %+v want %+v", got, tc.want)
			}
		})
	}
}

func TestValidateHandlerSchemaError(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, false)
	body := `<activation-condition rule="all"><condition condition-type="mouse" input="mouse" comparison="pressed"/></activation-condition>`
	resp := do(t, http.MethodPost, srv.URL+"/api/activation-conditions/validate", rwKey, body)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var got schemaErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := schemaErrorResponse{Path: "activation-condition/condition[0]", Attr: "condition-type", Reason: "unknown-enum-value", Value: "mouse"}
	if got != want {
		t.Fatalf("got %+v want %+v", got, want)
	}

	resp = do(t, http.MethodPost, srv.URL+"/api/activation-conditions/validate", rwKey, "<activation-condition")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("malformed xml status = %d", resp.StatusCode)
	}
}

func TestOversizedBodyRejected(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, false)
	body := `<activation-condition rule="all">` + strings.Repeat(" ", maxBodyBytes) + `</activation-condition>`
	resp := do(t, http.MethodPost, srv.URL+"/api/activation-conditions/validate", rwKey, body)
	if resp.StatusCode != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusRequestEntityTooLarge)
	}
}

func TestPutRejectsForeignRoot(t *testing.T) {
	t.Parallel()

	srv, mock := newTestServer(t, false)
	body := `<mouse-binding rule="all"><condition condition-type="action" comparison="pressed"/></mouse-binding>`
	resp := do(t, http.MethodPut, srv.URL+"/api/actions/"+actionID+"/activation-condition", rwKey, body)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected store calls: %v", err)
	}
}

func TestPutAndGetCondition(t *testing.T) {
	t.Parallel()

	srv, mock := newTestServer(t, false)
	url := srv.URL + "/api/actions/" + actionID + "/activation-condition"

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO gremlin\.activation_conditions`).
		WithArgs(pgxmock.AnyArg(), "all", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`INSERT INTO gremlin\.activation_condition_history`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()
	if resp := do(t, http.MethodPut, url, rwKey, storedXML); resp.StatusCode != http.StatusNoContent {
		t.Fatalf("put status = %d", resp.StatusCode)
	}

	expectStoredRow(mock)
	resp := do(t, http.MethodGet, url, roKey, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get status = %d", resp.StatusCode)
	}
	if lm := resp.Header.Get("Last-Modified"); lm != "Wed, 01 May 2024 10:00:00 GMT" {
		t.Fatalf("Last-Modified = %q", lm)
	}
	var got condition.ActivationCondition
	if err := xmlDecode(resp, &got); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	want, err := condition.Parse([]byte(storedXML))
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	if !reflect.DeepEqual(&got, want) {
		t.Fatalf("got %#v want %#v", &got, want)
	}

	mock.ExpectQuery(`SELECT rule, xml, updated_at`).
		WithArgs(pgxmock.AnyArg()).
		WillReturnError(pgx.ErrNoRows)
	if resp := do(t, http.MethodGet, url, roKey, ""); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("missing status = %d", resp.StatusCode)
	}

	if resp := do(t, http.MethodGet, srv.URL+"/api/actions/not-a-uuid/activation-condition", roKey, ""); resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad id status = %d", resp.StatusCode)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestEvaluateHandler(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		snapshot string
		want     bool
	}{
		{
			name:     "button released",
			snapshot: `{"devices":[{"guid":"` + strings.Trim(deviceGUID, "{}") + `","buttons":{"1":false}}],"keys":[{"scan_code":57,"pressed":true}]}`,
			want:     false,
		},
		{
			name:     "key and button pressed",
			snapshot: `{"devices":[{"guid":"` + deviceGUID + `","buttons":{"1":true}}],"keys":[{"scan_code":57,"pressed":true}]}`,
			want:     true,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			srv, mock := newTestServer(t, false)
			expectStoredRow(mock)

			resp := do(t, http.MethodPost, srv.URL+"/api/actions/"+actionID+"/activation-condition/evaluate", roKey, tc.snapshot)
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d", resp.StatusCode)
			}
			var got EvaluateResponse
			if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got.Result != tc.want || got.Rule != "all" {
				t.Fatalf("got %+v, want result %v", got, tc.want)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Fatalf("unmet expectations: %v", err)
			}
		})
	}
}

func TestSnapshotRequestRejects(t *testing.T) {
	t.Parallel()

	one := uint32(1)
	tests := []struct {
		name string
		req  SnapshotRequest
	}{
		{"no device id", SnapshotRequest{Devices: []DeviceState{{}}}},
		{"both device ids", SnapshotRequest{Devices: []DeviceState{{GUID: deviceGUID, VJoyID: &one}}}},
		{"bad guid", SnapshotRequest{Devices: []DeviceState{{GUID: "stick"}}}},
		{"bad hat", SnapshotRequest{Devices: []DeviceState{{VJoyID: &one, Hats: map[uint32]string{1: "up"}}}}},
	}
	for _, tc := range tests {
		if _, err := tc.req.Oracle(); err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
	}
}
