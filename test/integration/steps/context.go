// Package steps provides step definitions for BDD integration tests.
package steps

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/cucumber/godog"
	"github.com/gin-gonic/gin"

	"github.com/ledgerline/backend/config"
	"github.com/ledgerline/backend/internal/application/usecase/account"
	"github.com/ledgerline/backend/internal/application/usecase/analytics"
	"github.com/ledgerline/backend/internal/application/usecase/categorize"
	"github.com/ledgerline/backend/internal/application/usecase/category"
	"github.com/ledgerline/backend/internal/application/usecase/ingest"
	"github.com/ledgerline/backend/internal/application/usecase/rule"
	"github.com/ledgerline/backend/internal/application/usecase/transaction"
	"github.com/ledgerline/backend/internal/infra/server/router"
	"github.com/ledgerline/backend/internal/integration/entrypoint/controller"
	"github.com/ledgerline/backend/internal/integration/entrypoint/middleware"
	"github.com/ledgerline/backend/internal/integration/persistence"
	"github.com/ledgerline/backend/test/integration/mock"
)

// TestContext holds the test state for each scenario.
type TestContext struct {
	// HTTP
	server       *httptest.Server
	engine       *gin.Engine
	response     *http.Response
	responseBody []byte

	// Request building
	requestHeaders map[string]string

	// Auth. The suite runs with the local development bypass so the
	// owner scope is a plain header.
	ownerID string

	// Captured response fields, referenced in later requests as
	// {{name}} placeholders.
	stored map[string]string

	db *mock.Db
}

// contextKey is used to store TestContext in context.Context.
type contextKey struct{}

// GetTestContext retrieves the TestContext from context.
func GetTestContext(ctx context.Context) *TestContext {
	if tc, ok := ctx.Value(contextKey{}).(*TestContext); ok {
		return tc
	}
	return nil
}

// SetTestContext stores the TestContext in context.
func SetTestContext(ctx context.Context, tc *TestContext) context.Context {
	return context.WithValue(ctx, contextKey{}, tc)
}

// newEngine wires the full application against the in-memory database.
// The LLM classifier stays nil so ingestion runs rules-only.
func newEngine(db *mock.Db) *gin.Engine {
	conn := db.DbConn

	accountRepo := persistence.NewAccountRepository(conn)
	categoryRepo := persistence.NewCategoryRepository(conn)
	txRepo := persistence.NewTransactionRepository(conn)
	ruleRepo := persistence.NewRuleRepository(conn)
	dismissedRepo := persistence.NewDismissedSuggestionRepository(conn)
	importRepo := persistence.NewImportRepository(conn)

	orchestrator := categorize.NewOrchestrator(ruleRepo, categoryRepo, txRepo, nil, false)
	suggestions := rule.NewSuggestionEngine(ruleRepo, dismissedRepo, categoryRepo)

	createRuleUseCase := rule.NewCreateUseCase(ruleRepo, categoryRepo)

	healthController := controller.NewHealthController(func() bool { return true })
	accountController := controller.NewAccountController(account.NewUseCase(accountRepo))
	categoryController := controller.NewCategoryController(category.NewUseCase(categoryRepo))
	transactionController := controller.NewTransactionController(
		transaction.NewListUseCase(txRepo),
		transaction.NewGetUseCase(txRepo),
		transaction.NewUpdateUseCase(txRepo, categoryRepo, suggestions),
		transaction.NewSplitUseCase(txRepo, categoryRepo),
		transaction.NewUnsplitUseCase(txRepo),
		transaction.NewGetSplitsUseCase(txRepo),
		orchestrator,
	)
	ruleController := controller.NewRuleController(
		rule.NewListUseCase(ruleRepo),
		rule.NewGetUseCase(ruleRepo),
		createRuleUseCase,
		rule.NewUpdateUseCase(ruleRepo, categoryRepo),
		rule.NewDeleteUseCase(ruleRepo),
		rule.NewReorderUseCase(ruleRepo),
		rule.NewAcceptSuggestionUseCase(createRuleUseCase),
		rule.NewDismissSuggestionUseCase(dismissedRepo),
	)
	importController := controller.NewImportController(
		ingest.NewUploadUseCase(accountRepo, importRepo, txRepo, nil, orchestrator, false),
		ingest.NewListImportsUseCase(importRepo),
		ingest.NewGetImportUseCase(importRepo),
	)
	analyticsController := controller.NewAnalyticsController(
		analytics.NewOverviewUseCase(txRepo),
		analytics.NewTrendUseCase(txRepo),
		analytics.NewCategoryRangeUseCase(txRepo),
		analytics.NewAccountSummaryUseCase(txRepo),
	)

	authMiddleware := middleware.NewAuthMiddleware(&config.AuthConfig{
		JWTSecret:           "integration-test-secret",
		AllowLocalDevBypass: true,
	})

	r := router.NewRouter(
		healthController,
		accountController,
		categoryController,
		transactionController,
		ruleController,
		importController,
		analyticsController,
		nil,
		authMiddleware,
		"",
	)
	return r.Setup("test")
}

// InitializeTestSuite sets up resources before any scenarios run.
func InitializeTestSuite(ctx *godog.TestSuiteContext) {
	ctx.BeforeSuite(func() {
		gin.SetMode(gin.TestMode)
	})
}

// InitializeScenario registers all step definitions.
func InitializeScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		db := mock.NewDb()
		if err := db.Reset(); err != nil {
			return ctx, fmt.Errorf("failed to reset database: %w", err)
		}

		tc := &TestContext{
			requestHeaders: make(map[string]string),
			stored:         make(map[string]string),
			db:             db,
		}
		tc.engine = newEngine(db)
		tc.server = httptest.NewServer(tc.engine)

		return SetTestContext(ctx, tc), nil
	})

	ctx.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		tc := GetTestContext(ctx)
		if tc != nil && tc.server != nil {
			tc.server.Close()
		}
		return ctx, nil
	})

	registerAPISteps(ctx)
	registerResponseSteps(ctx)
}

// registerAPISteps registers HTTP request steps.
func registerAPISteps(ctx *godog.ScenarioContext) {
	ctx.Step(`^the API server is running$`, theAPIServerIsRunning)
	ctx.Step(`^I am the owner "([^"]*)"$`, iAmTheOwner)
	ctx.Step(`^I send a "([^"]*)" request to "([^"]*)"$`, iSendARequestTo)
	ctx.Step(`^I send a "([^"]*)" request to "([^"]*)" with body:$`, iSendARequestToWithBody)
	ctx.Step(`^I set header "([^"]*)" to "([^"]*)"$`, iSetHeaderTo)
}

// registerResponseSteps registers response validation steps.
func registerResponseSteps(ctx *godog.ScenarioContext) {
	ctx.Step(`^the response status should be (\d+)$`, theResponseStatusShouldBe)
	ctx.Step(`^the response should contain "([^"]*)"$`, theResponseShouldContain)
	ctx.Step(`^the response field "([^"]*)" should be "([^"]*)"$`, theResponseFieldShouldBe)
	ctx.Step(`^the response field "([^"]*)" should exist$`, theResponseFieldShouldExist)
	ctx.Step(`^I store the response field "([^"]*)" as "([^"]*)"$`, iStoreTheResponseFieldAs)
}

// Step implementations

func theAPIServerIsRunning(ctx context.Context) error {
	tc := GetTestContext(ctx)
	if tc == nil || tc.server == nil {
		return fmt.Errorf("test server is not running")
	}
	return nil
}

func iAmTheOwner(ctx context.Context, ownerID string) (context.Context, error) {
	tc := GetTestContext(ctx)
	if tc == nil {
		return ctx, fmt.Errorf("test context not found")
	}
	tc.ownerID = ownerID
	return SetTestContext(ctx, tc), nil
}

// substitute replaces {{name}} placeholders with stored values.
func (tc *TestContext) substitute(s string) string {
	for name, value := range tc.stored {
		s = strings.ReplaceAll(s, "{{"+name+"}}", value)
	}
	return s
}

func (tc *TestContext) do(method, endpoint string, body io.Reader) error {
	req, err := http.NewRequest(method, tc.server.URL+tc.substitute(endpoint), body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range tc.requestHeaders {
		req.Header.Set(key, value)
	}
	if tc.ownerID != "" {
		req.Header.Set("X-Dev-Owner", tc.ownerID)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	tc.response = resp
	tc.responseBody, err = io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	return nil
}

func iSendARequestTo(ctx context.Context, method, endpoint string) (context.Context, error) {
	tc := GetTestContext(ctx)
	if tc == nil {
		return ctx, fmt.Errorf("test context not found")
	}
	if err := tc.do(method, endpoint, nil); err != nil {
		return ctx, err
	}
	return SetTestContext(ctx, tc), nil
}

func iSendARequestToWithBody(ctx context.Context, method, endpoint string, body *godog.DocString) (context.Context, error) {
	tc := GetTestContext(ctx)
	if tc == nil {
		return ctx, fmt.Errorf("test context not found")
	}
	if err := tc.do(method, endpoint, bytes.NewBufferString(tc.substitute(body.Content))); err != nil {
		return ctx, err
	}
	return SetTestContext(ctx, tc), nil
}

func iSetHeaderTo(ctx context.Context, header, value string) (context.Context, error) {
	tc := GetTestContext(ctx)
	if tc == nil {
		return ctx, fmt.Errorf("test context not found")
	}
	tc.requestHeaders[header] = value
	return SetTestContext(ctx, tc), nil
}

func theResponseStatusShouldBe(ctx context.Context, expectedStatus int) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return fmt.Errorf("test context not found")
	}
	if tc.response == nil {
		return fmt.Errorf("no response received")
	}
	if tc.response.StatusCode != expectedStatus {
		return fmt.Errorf("expected status %d, got %d. Body: %s", expectedStatus, tc.response.StatusCode, string(tc.responseBody))
	}
	return nil
}

func theResponseShouldContain(ctx context.Context, expected string) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return fmt.Errorf("test context not found")
	}
	if !strings.Contains(string(tc.responseBody), tc.substitute(expected)) {
		return fmt.Errorf("response does not contain '%s'. Body: %s", expected, string(tc.responseBody))
	}
	return nil
}

// lookupField resolves a dotted path ("data.0.id") in the response body.
func (tc *TestContext) lookupField(path string) (any, error) {
	var data any
	if err := json.Unmarshal(tc.responseBody, &data); err != nil {
		return nil, fmt.Errorf("failed to parse response JSON: %w", err)
	}

	current := data
	for _, part := range strings.Split(path, ".") {
		switch node := current.(type) {
		case map[string]any:
			value, ok := node[part]
			if !ok {
				return nil, fmt.Errorf("field '%s' not found in response. Body: %s", path, string(tc.responseBody))
			}
			current = value
		case []any:
			var idx int
			if _, err := fmt.Sscanf(part, "%d", &idx); err != nil || idx < 0 || idx >= len(node) {
				return nil, fmt.Errorf("index '%s' out of range for field '%s'", part, path)
			}
			current = node[idx]
		default:
			return nil, fmt.Errorf("field '%s' not found in response. Body: %s", path, string(tc.responseBody))
		}
	}
	return current, nil
}

func theResponseFieldShouldBe(ctx context.Context, field, expected string) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return fmt.Errorf("test context not found")
	}

	value, err := tc.lookupField(field)
	if err != nil {
		return err
	}

	actual := fmt.Sprintf("%v", value)
	if actual != tc.substitute(expected) {
		return fmt.Errorf("field '%s' expected '%s', got '%s'", field, expected, actual)
	}
	return nil
}

func theResponseFieldShouldExist(ctx context.Context, field string) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return fmt.Errorf("test context not found")
	}
	_, err := tc.lookupField(field)
	return err
}

func iStoreTheResponseFieldAs(ctx context.Context, field, name string) (context.Context, error) {
	tc := GetTestContext(ctx)
	if tc == nil {
		return ctx, fmt.Errorf("test context not found")
	}

	value, err := tc.lookupField(field)
	if err != nil {
		return ctx, err
	}
	tc.stored[name] = fmt.Sprintf("%v", value)
	return SetTestContext(ctx, tc), nil
}
