// internal/api/api_integration_test.go
package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	app "rewards-ledger/internal"
)

const adminToken = "test-admin-token"

// testApp is the global application instance for testing.
var testApp *app.Application

// testServer is the httptest server.
var testServer *httptest.Server

// TestMain is the special entry point for Go tests, executed once before all tests.
// The application runs against a throwaway SQLite file, so no server is needed.
func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "rewards-ledger-api")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create temp dir: %v\n", err)
		os.Exit(1)
	}
	setupEnvVars(dir)

	testApp = app.NewApplication()
	if err := testApp.Initialize(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize test application: %v\n", err)
		os.Exit(1)
	}
	testServer = httptest.NewServer(testApp.HTTPHandler)

	code := m.Run()

	testServer.Close()
	if err := testApp.Shutdown(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to shutdown test application: %v\n", err)
		code = 1
	}
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

func setupEnvVars(dir string) {
	os.Setenv("DB_DRIVER", "sqlite")
	os.Setenv("SQLITE_PATH", filepath.Join(dir, "ledger.db"))
	os.Setenv("DB_AUTO_MIGRATE", "true")
	os.Setenv("ADMIN_TOKEN", adminToken)
	os.Setenv("DAILY_BONUS_AMOUNT", "0.30")
	os.Setenv("REFERRAL_BONUS_AMOUNT", "0.30")
	os.Setenv("RATE_LIMIT_RPM", "100000")
	os.Setenv("RATE_LIMIT_BURST", "10000")
	os.Setenv("LOG_LEVEL", "error")
	os.Unsetenv("CATALOG_FILE")
}

// clearDatabase removes every row so each test starts from an empty ledger.
func clearDatabase(t *testing.T) {
	for _, table := range []string{"withdrawals", "referrals", "users"} {
		_, err := testApp.DB.Exec(fmt.Sprintf("DELETE FROM %s", table))
		require.NoError(t, err, "Failed to clear table %s", table)
	}
}

// makeRequest sends an HTTP request to the test server and returns the decoded JSON body.
func makeRequest(t *testing.T, method, path, body string, headers ...string) (*http.Response, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, testServer.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]interface{}
	if len(raw) > 0 && strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(raw, &decoded), string(raw))
	}
	return resp, decoded
}

func adminRequest(t *testing.T, method, path, body string) (*http.Response, map[string]interface{}) {
	t.Helper()
	return makeRequest(t, method, path, body, "X-Admin-Token", adminToken)
}

func assertMoney(t *testing.T, want string, got interface{}) {
	t.Helper()
	s, ok := got.(string)
	require.True(t, ok, "expected a decimal string, got %v", got)
	amount, err := decimal.NewFromString(s)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString(want).Equal(amount), "want %s, got %s", want, s)
}

func createUser(t *testing.T, id int64, referralCode string) map[string]interface{} {
	t.Helper()
	body := fmt.Sprintf(`{"display_name": "user %d", "handle": "u%d", "referral_code": %q}`, id, id, referralCode)
	resp, decoded := makeRequest(t, http.MethodPut, fmt.Sprintf("/users/%d", id), body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return decoded
}

func TestHealthAndCatalog(t *testing.T) {
	resp, _ := makeRequest(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := makeRequest(t, http.MethodGet, "/catalog", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	items := body["items"].([]interface{})
	require.Len(t, items, 8)
	first := items[0].(map[string]interface{})
	assert.Equal(t, "order_2348", first["code"])
	assertMoney(t, "20", first["price"])
}

func TestStartAndReferralIntegration(t *testing.T) {
	clearDatabase(t)

	first := createUser(t, 1, "")
	assert.Equal(t, true, first["created"])
	assert.Nil(t, first["referral"])
	user := first["user"].(map[string]interface{})
	assert.Equal(t, "REF1", user["referral_code"])
	assertMoney(t, "0", user["balance"])

	t.Run("ReferralCreditedOnFirstContact", func(t *testing.T) {
		second := createUser(t, 2, "REF1")
		assert.Equal(t, true, second["created"])
		referral := second["referral"].(map[string]interface{})
		assert.Equal(t, "credited", referral["outcome"])
		assert.Equal(t, float64(1), referral["referrer_id"])

		resp, referrer := makeRequest(t, http.MethodGet, "/users/1", "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assertMoney(t, "0.30", referrer["balance"])
	})

	t.Run("RepeatedStartIgnoresCode", func(t *testing.T) {
		again := createUser(t, 2, "REF1")
		assert.Equal(t, false, again["created"])
		assert.Nil(t, again["referral"])

		_, referrer := makeRequest(t, http.MethodGet, "/users/1", "")
		assertMoney(t, "0.30", referrer["balance"])
	})

	t.Run("SelfReferralReportedInBody", func(t *testing.T) {
		resp, body := makeRequest(t, http.MethodPut, "/users/3", `{"display_name": "c", "referral_code": "REF3"}`)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		referral := body["referral"].(map[string]interface{})
		assert.Equal(t, "self_referral", referral["outcome"])
	})

	t.Run("ReferralCount", func(t *testing.T) {
		resp, body := makeRequest(t, http.MethodGet, "/users/1/referrals/count", "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, float64(1), body["referral_count"])
	})

	t.Run("UnknownUser", func(t *testing.T) {
		resp, body := makeRequest(t, http.MethodGet, "/users/999", "")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "Resource not found", body["error"])
	})

	t.Run("InvalidUserID", func(t *testing.T) {
		resp, _ := makeRequest(t, http.MethodGet, "/users/abc", "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestClaimBonusIntegration(t *testing.T) {
	clearDatabase(t)
	createUser(t, 10, "")

	resp, body := makeRequest(t, http.MethodPost, "/users/10/bonus/claim", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "claimed", body["outcome"])
	assertMoney(t, "0.30", body["new_balance"])
	assert.NotNil(t, body["claimed_at"])

	resp, body = makeRequest(t, http.MethodPost, "/users/10/bonus/claim", "")
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "not_yet_eligible", body["outcome"])
	assert.Greater(t, body["remaining_seconds"].(float64), float64(86000))
	assert.NotEmpty(t, resp.Header.Get("Retry-After"))
	assertMoney(t, "0.30", body["new_balance"])

	resp, body = makeRequest(t, http.MethodPost, "/users/404/bonus/claim", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "user_not_found", body["outcome"])
}

func TestWithdrawIntegration(t *testing.T) {
	clearDatabase(t)
	createUser(t, 20, "")

	resp, body := adminRequest(t, http.MethodPost, "/admin/users/20/credit", `{"amount": "15"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assertMoney(t, "15", body["new_balance"])

	t.Run("InsufficientFunds", func(t *testing.T) {
		resp, body := makeRequest(t, http.MethodPost, "/users/20/withdrawals", `{"item_code": "order_2348"}`)
		assert.Equal(t, http.StatusPaymentRequired, resp.StatusCode)
		assert.Equal(t, "insufficient_funds", body["outcome"])
		assertMoney(t, "5", body["shortfall"])
		assertMoney(t, "15", body["new_balance"])
	})

	t.Run("SuccessfulWithdrawal", func(t *testing.T) {
		resp, body := makeRequest(t, http.MethodPost, "/users/20/withdrawals", `{"item_code": "/order_2352"}`)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "requested", body["outcome"])
		assertMoney(t, "12.50", body["new_balance"])
		request := body["request"].(map[string]interface{})
		assert.Equal(t, "pending", request["status"])
		assert.Equal(t, "Star Notepad", request["item_name"])
		assert.NotEmpty(t, request["id"])
	})

	t.Run("UnknownItem", func(t *testing.T) {
		resp, body := makeRequest(t, http.MethodPost, "/users/20/withdrawals", `{"item_code": "order_1"}`)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "item_not_found", body["outcome"])
	})

	t.Run("History", func(t *testing.T) {
		resp, body := makeRequest(t, http.MethodGet, "/users/20/withdrawals?limit=5&offset=0", "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, float64(1), body["total_count"])
		assert.Equal(t, float64(5), body["limit"])
		data := body["data"].([]interface{})
		require.Len(t, data, 1)
		assert.Equal(t, "order_2352", data[0].(map[string]interface{})["item_code"])
	})

	t.Run("MalformedBody", func(t *testing.T) {
		resp, _ := makeRequest(t, http.MethodPost, "/users/20/withdrawals", `{"item_code":`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestAdminIntegration(t *testing.T) {
	clearDatabase(t)
	for id := int64(31); id <= 33; id++ {
		createUser(t, id, "")
	}

	t.Run("RejectsMissingToken", func(t *testing.T) {
		resp, _ := makeRequest(t, http.MethodGet, "/admin/stats", "")
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)

		resp, _ = makeRequest(t, http.MethodPost, "/admin/credit-all", `{"amount": "1"}`, "X-Admin-Token", "wrong")
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("CreditAll", func(t *testing.T) {
		resp, body := adminRequest(t, http.MethodPost, "/admin/credit-all", `{"amount": "1.10"}`)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Len(t, body["succeeded"].([]interface{}), 3)
		assert.Empty(t, body["failed"].([]interface{}))
	})

	t.Run("CreditUnknownUser", func(t *testing.T) {
		resp, body := adminRequest(t, http.MethodPost, "/admin/users/999/credit", `{"amount": "1"}`)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "user_not_found", body["outcome"])
	})

	t.Run("RejectsSubCentAmount", func(t *testing.T) {
		resp, body := adminRequest(t, http.MethodPost, "/admin/users/31/credit", `{"amount": "0.001"}`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Contains(t, body["error"], "invalid input provided")
	})

	t.Run("Stats", func(t *testing.T) {
		resp, body := adminRequest(t, http.MethodGet, "/admin/stats", "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, float64(3), body["total_users"])
		assertMoney(t, "3.30", body["total_balance"])
		assert.Equal(t, float64(0), body["pending_withdrawals"])
	})
}

func TestMetricsEndpoint(t *testing.T) {
	clearDatabase(t)
	createUser(t, 40, "")

	resp, err := http.Get(testServer.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), `rewards_ledger_operations_total{operation="get_or_create",outcome="created"}`)
}
