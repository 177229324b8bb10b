package ingest

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ledgerline/backend/internal/application/adapter"
	"github.com/ledgerline/backend/internal/application/usecase/categorize"
	"github.com/ledgerline/backend/internal/domain/entity"
	domainerror "github.com/ledgerline/backend/internal/domain/error"
)

type fakeAccountRepo struct {
	accounts map[string]*entity.Account
}

func (f *fakeAccountRepo) Create(_ context.Context, a *entity.Account) error {
	f.accounts[a.ID] = a
	return nil
}

func (f *fakeAccountRepo) FindByID(_ context.Context, ownerID, id string) (*entity.Account, error) {
	a, ok := f.accounts[id]
	if !ok || a.OwnerID != ownerID {
		return nil, domainerror.ErrAccountNotFound
	}
	return a, nil
}

func (f *fakeAccountRepo) FindByOwner(context.Context, string) ([]*entity.Account, error) {
	return nil, nil
}
func (f *fakeAccountRepo) Update(context.Context, *entity.Account) error { return nil }
func (f *fakeAccountRepo) Delete(context.Context, string, string) error  { return nil }

type fakeImportRepo struct {
	records map[string]*entity.Import
}

func (f *fakeImportRepo) Create(_ context.Context, r *entity.Import) error {
	f.records[r.ID] = r
	return nil
}

func (f *fakeImportRepo) FindByID(_ context.Context, ownerID, id string) (*entity.Import, error) {
	r, ok := f.records[id]
	if !ok || r.OwnerID != ownerID {
		return nil, domainerror.ErrImportNotFound
	}
	return r, nil
}

func (f *fakeImportRepo) FindByOwner(context.Context, string, int) ([]*entity.Import, error) {
	return nil, nil
}

func (f *fakeImportRepo) SetProcessing(_ context.Context, ownerID, id string) error {
	r, ok := f.records[id]
	if !ok {
		return domainerror.ErrImportNotFound
	}
	r.Status = entity.ImportStatusProcessing
	return nil
}

func (f *fakeImportRepo) Complete(_ context.Context, ownerID, id string, count int) error {
	r, ok := f.records[id]
	if !ok {
		return domainerror.ErrImportNotFound
	}
	if r.Status.Terminal() {
		return domainerror.ErrImportTerminal
	}
	now := time.Now().UTC()
	r.Status = entity.ImportStatusCompleted
	r.TransactionCount = count
	r.CompletedAt = &now
	return nil
}

func (f *fakeImportRepo) Fail(_ context.Context, ownerID, id string, message string) error {
	r, ok := f.records[id]
	if !ok {
		return domainerror.ErrImportNotFound
	}
	if r.Status.Terminal() {
		return domainerror.ErrImportTerminal
	}
	now := time.Now().UTC()
	r.Status = entity.ImportStatusFailed
	r.ErrorMessage = message
	r.CompletedAt = &now
	return nil
}

type fakeTxRepo struct {
	byKey map[string]*entity.Transaction
}

func (f *fakeTxRepo) Create(_ context.Context, tx *entity.Transaction) error {
	if _, ok := f.byKey[tx.TxKey]; ok {
		return domainerror.ErrDuplicateTransaction
	}
	f.byKey[tx.TxKey] = tx
	return nil
}

func (f *fakeTxRepo) FindByID(context.Context, string, string) (*entity.Transaction, error) {
	return nil, domainerror.ErrTransactionNotFound
}

func (f *fakeTxRepo) FindByFilter(context.Context, string, adapter.TransactionFilter, string, int) (*adapter.TransactionPage, error) {
	return &adapter.TransactionPage{}, nil
}

func (f *fakeTxRepo) FindByRange(context.Context, string, time.Time, time.Time) ([]*entity.Transaction, error) {
	return nil, nil
}

func (f *fakeTxRepo) ExistingTxKeys(_ context.Context, _ string, keys []string) (map[string]bool, error) {
	existing := make(map[string]bool)
	for _, k := range keys {
		if _, ok := f.byKey[k]; ok {
			existing[k] = true
		}
	}
	return existing, nil
}

func (f *fakeTxRepo) Update(context.Context, *entity.Transaction) error { return nil }
func (f *fakeTxRepo) UpdateCategorization(context.Context, string, string, *string, entity.Explainability, *entity.AutoCategory) error {
	return nil
}
func (f *fakeTxRepo) CreateSplit(context.Context, string, string, []*entity.Transaction) error {
	return nil
}
func (f *fakeTxRepo) Unsplit(context.Context, string, string) (int, error) { return 0, nil }
func (f *fakeTxRepo) FindSplitChildren(context.Context, string, string) ([]*entity.Transaction, error) {
	return nil, nil
}

type fakeRuleRepo struct {
	rules []*entity.Rule
}

func (f *fakeRuleRepo) Create(context.Context, *entity.Rule) error { return nil }
func (f *fakeRuleRepo) FindByID(context.Context, string, string) (*entity.Rule, error) {
	return nil, domainerror.ErrRuleNotFound
}
func (f *fakeRuleRepo) FindByOwner(context.Context, string) ([]*entity.Rule, error) {
	return f.rules, nil
}
func (f *fakeRuleRepo) FindEnabledByOwner(context.Context, string) ([]*entity.Rule, error) {
	return f.rules, nil
}
func (f *fakeRuleRepo) CountByOwner(context.Context, string) (int64, error) {
	return int64(len(f.rules)), nil
}
func (f *fakeRuleRepo) Update(context.Context, *entity.Rule) error { return nil }
func (f *fakeRuleRepo) Delete(context.Context, string, string) error {
	return nil
}
func (f *fakeRuleRepo) UpdatePriorities(context.Context, string, []adapter.RulePriorityAssignment) error {
	return nil
}
func (f *fakeRuleRepo) IncrementMatchStats(context.Context, string, string) error { return nil }
func (f *fakeRuleRepo) ExistsMerchantRule(context.Context, string, string) (bool, error) {
	return false, nil
}

type fakeCategoryRepo struct {
	categories []*entity.Category
}

func (f *fakeCategoryRepo) FindByID(context.Context, string, string) (*entity.Category, error) {
	return nil, domainerror.ErrCategoryNotFound
}
func (f *fakeCategoryRepo) FindVisible(context.Context, string) ([]*entity.Category, error) {
	return f.categories, nil
}
func (f *fakeCategoryRepo) Create(context.Context, *entity.Category) error { return nil }

type fakeLLM struct {
	parseResult *adapter.ParseResult
	parseErr    error
	parseCalls  int
}

func (f *fakeLLM) ClassifyTransaction(context.Context, adapter.ClassifyInput, []adapter.CategoryOption) adapter.ClassifyResult {
	return adapter.ClassifyResult{Reasoning: "no signal"}
}

func (f *fakeLLM) ClassifyBatch(_ context.Context, ins []adapter.ClassifyInput, _ []adapter.CategoryOption) map[string]adapter.ClassifyResult {
	out := make(map[string]adapter.ClassifyResult, len(ins))
	for _, in := range ins {
		out[in.TransactionID] = adapter.ClassifyResult{Reasoning: "no signal"}
	}
	return out
}

func (f *fakeLLM) ParseDocument(context.Context, []byte, entity.FileType, string) (*adapter.ParseResult, error) {
	f.parseCalls++
	if f.parseErr != nil {
		return nil, f.parseErr
	}
	return f.parseResult, nil
}

func (f *fakeLLM) NormalizeMerchant(context.Context, string) (string, error) {
	return "", errors.New("not configured")
}

type uploadFixture struct {
	uc      *UploadUseCase
	imports *fakeImportRepo
	txs     *fakeTxRepo
	llm     *fakeLLM
}

func newUploadFixture(t *testing.T, llmEnabled bool) *uploadFixture {
	t.Helper()

	account := entity.NewAccount("owner-1", "Checking", entity.AccountTypeChecking, "Test Bank", "1234")
	account.ID = "acct-1"

	accounts := &fakeAccountRepo{accounts: map[string]*entity.Account{account.ID: account}}
	imports := &fakeImportRepo{records: map[string]*entity.Import{}}
	txs := &fakeTxRepo{byKey: map[string]*entity.Transaction{}}
	llm := &fakeLLM{}

	orchestrator := categorize.NewOrchestrator(
		&fakeRuleRepo{},
		&fakeCategoryRepo{},
		txs,
		llm,
		llmEnabled,
	)

	return &uploadFixture{
		uc:      NewUploadUseCase(accounts, imports, txs, llm, orchestrator, llmEnabled),
		imports: imports,
		txs:     txs,
		llm:     llm,
	}
}

const sampleCSV = "Date,Amount,Description\n2024-01-15,-50.00,COFFEE SHOP #123\n2024-01-16,2500.00,PAYCHECK\n"

func csvUpload(content string) UploadInput {
	return UploadInput{
		AccountID: "acct-1",
		Filename:  "statement.csv",
		MIMEType:  "text/csv",
		Content:   []byte(content),
	}
}

func TestUploadUseCase(t *testing.T) {
	ctx := context.Background()

	t.Run("ingests a CSV end to end", func(t *testing.T) {
		f := newUploadFixture(t, false)

		result, err := f.uc.Execute(ctx, "owner-1", csvUpload(sampleCSV))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Created != 2 || result.Skipped != 0 {
			t.Errorf("expected 2 created, 0 skipped, got %d/%d", result.Created, result.Skipped)
		}
		if result.Status != entity.ImportStatusCompleted {
			t.Errorf("expected completed status, got %s", result.Status)
		}

		record := f.imports.records[result.ImportID]
		if record == nil {
			t.Fatal("import record not persisted")
		}
		if record.TransactionCount != 2 {
			t.Errorf("expected transaction count 2, got %d", record.TransactionCount)
		}
		if record.CompletedAt == nil {
			t.Error("expected completedAt to be set")
		}

		for _, tx := range f.txs.byKey {
			if tx.Description == "COFFEE SHOP #123" && tx.MerchantNormalized != "COFFEE SHOP" {
				t.Errorf("expected normalized merchant COFFEE SHOP, got %q", tx.MerchantNormalized)
			}
			if tx.Explainability.Reason != entity.ExplainReasonNoMatch {
				t.Errorf("expected no_match explainability without rules, got %s", tx.Explainability.Reason)
			}
		}
	})

	t.Run("re-uploading the same file skips every row", func(t *testing.T) {
		f := newUploadFixture(t, false)

		if _, err := f.uc.Execute(ctx, "owner-1", csvUpload(sampleCSV)); err != nil {
			t.Fatalf("first upload failed: %v", err)
		}
		result, err := f.uc.Execute(ctx, "owner-1", csvUpload(sampleCSV))
		if err != nil {
			t.Fatalf("second upload failed: %v", err)
		}
		if result.Created != 0 {
			t.Errorf("expected 0 created on re-upload, got %d", result.Created)
		}
		if result.Skipped != 2 {
			t.Errorf("expected 2 skipped on re-upload, got %d", result.Skipped)
		}
		if result.Status != entity.ImportStatusCompleted {
			t.Errorf("expected completed status, got %s", result.Status)
		}
	})

	t.Run("deduplicates identical rows within one file", func(t *testing.T) {
		f := newUploadFixture(t, false)
		content := "Date,Amount,Description\n2024-01-15,-50.00,COFFEE SHOP #123\n2024-01-15,-50.00,COFFEE SHOP #123\n"

		result, err := f.uc.Execute(ctx, "owner-1", csvUpload(content))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Created != 1 || result.Skipped != 1 {
			t.Errorf("expected 1 created, 1 skipped, got %d/%d", result.Created, result.Skipped)
		}
	})

	t.Run("rejects unknown accounts", func(t *testing.T) {
		f := newUploadFixture(t, false)
		in := csvUpload(sampleCSV)
		in.AccountID = "acct-unknown"

		if _, err := f.uc.Execute(ctx, "owner-1", in); !errors.Is(err, domainerror.ErrAccountNotFound) {
			t.Fatalf("expected ErrAccountNotFound, got %v", err)
		}
		if len(f.imports.records) != 0 {
			t.Error("no import record should exist for a rejected upload")
		}
	})

	t.Run("rejects other owners' accounts", func(t *testing.T) {
		f := newUploadFixture(t, false)

		if _, err := f.uc.Execute(ctx, "owner-2", csvUpload(sampleCSV)); !errors.Is(err, domainerror.ErrAccountNotFound) {
			t.Fatalf("expected ErrAccountNotFound, got %v", err)
		}
	})

	t.Run("rejects oversized files", func(t *testing.T) {
		f := newUploadFixture(t, false)
		in := csvUpload(sampleCSV)
		in.Content = make([]byte, entity.MaxImportBytes+1)

		if _, err := f.uc.Execute(ctx, "owner-1", in); !errors.Is(err, domainerror.ErrFileTooLarge) {
			t.Fatalf("expected ErrFileTooLarge, got %v", err)
		}
	})

	t.Run("rejects unsupported MIME types", func(t *testing.T) {
		f := newUploadFixture(t, false)
		in := csvUpload(sampleCSV)
		in.MIMEType = "application/zip"

		if _, err := f.uc.Execute(ctx, "owner-1", in); !errors.Is(err, domainerror.ErrUnsupportedFileType) {
			t.Fatalf("expected ErrUnsupportedFileType, got %v", err)
		}
	})

	t.Run("fails the import when nothing can be parsed", func(t *testing.T) {
		f := newUploadFixture(t, false)
		in := csvUpload("nothing,to,see\nhere,1,2\n")

		result, err := f.uc.Execute(ctx, "owner-1", in)
		if !errors.Is(err, domainerror.ErrEmptyDocument) {
			t.Fatalf("expected ErrEmptyDocument, got %v", err)
		}
		record := f.imports.records[result.ImportID]
		if record == nil {
			t.Fatal("expected a failed import record")
		}
		if record.Status != entity.ImportStatusFailed {
			t.Errorf("expected failed status, got %s", record.Status)
		}
		if record.ErrorMessage == "" {
			t.Error("expected an error message on the failed record")
		}
	})

	t.Run("falls back to the document parser for unparsable CSVs", func(t *testing.T) {
		f := newUploadFixture(t, true)
		f.llm.parseResult = &adapter.ParseResult{
			Transactions: []adapter.ParsedTransaction{
				{
					PostedAt:    time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
					Amount:      -1500,
					Description: "SQ *STARBUCKS #12345",
					MerchantRaw: "SQ *STARBUCKS #12345",
				},
			},
		}

		result, err := f.uc.Execute(ctx, "owner-1", csvUpload("nothing,to,see\nhere,1,2\n"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if f.llm.parseCalls != 1 {
			t.Fatalf("expected 1 document parser call, got %d", f.llm.parseCalls)
		}
		if result.Created != 1 {
			t.Errorf("expected 1 created, got %d", result.Created)
		}
		for _, tx := range f.txs.byKey {
			if tx.MerchantNormalized != "STARBUCKS" {
				t.Errorf("expected normalized merchant STARBUCKS, got %q", tx.MerchantNormalized)
			}
		}
	})

	t.Run("parses PDFs through the document parser", func(t *testing.T) {
		f := newUploadFixture(t, true)
		f.llm.parseResult = &adapter.ParseResult{
			Transactions: []adapter.ParsedTransaction{
				{
					PostedAt:    time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
					Amount:      -8900,
					Description: "UTILITY BILL",
					MerchantRaw: "UTILITY BILL",
				},
			},
		}
		in := UploadInput{
			AccountID: "acct-1",
			Filename:  "statement.pdf",
			MIMEType:  "application/pdf",
			Content:   []byte("%PDF-1.7 ..."),
		}

		result, err := f.uc.Execute(ctx, "owner-1", in)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Created != 1 {
			t.Errorf("expected 1 created, got %d", result.Created)
		}
	})

	t.Run("attaches receipt line items from image documents", func(t *testing.T) {
		f := newUploadFixture(t, true)
		f.llm.parseResult = &adapter.ParseResult{
			Transactions: []adapter.ParsedTransaction{
				{
					PostedAt:    time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC),
					Amount:      -2350,
					Description: "GROCERY RECEIPT",
					MerchantRaw: "GROCERY MART",
				},
			},
			Receipt: &adapter.Receipt{
				Merchant: "Grocery Mart",
				LineItems: []entity.ReceiptLineItem{
					{Name: "Milk", Quantity: 1, UnitPrice: 450, TotalPrice: 450},
					{Name: "Bread", Quantity: 2, UnitPrice: 950, TotalPrice: 1900},
				},
			},
		}
		in := UploadInput{
			AccountID: "acct-1",
			Filename:  "receipt.png",
			MIMEType:  "image/png",
			Content:   []byte{0x89, 'P', 'N', 'G'},
		}

		result, err := f.uc.Execute(ctx, "owner-1", in)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Created != 1 {
			t.Fatalf("expected 1 created, got %d", result.Created)
		}
		for _, tx := range f.txs.byKey {
			if len(tx.ReceiptLineItems) != 2 {
				t.Errorf("expected 2 receipt line items, got %d", len(tx.ReceiptLineItems))
			}
			if tx.MerchantNormalized != "GROCERY MART" {
				t.Errorf("expected normalized merchant GROCERY MART, got %q", tx.MerchantNormalized)
			}
		}
	})

	t.Run("fails non-CSV documents when the parser is disabled", func(t *testing.T) {
		f := newUploadFixture(t, false)
		in := UploadInput{
			AccountID: "acct-1",
			Filename:  "statement.pdf",
			MIMEType:  "application/pdf",
			Content:   []byte("%PDF-1.7 ..."),
		}

		_, err := f.uc.Execute(ctx, "owner-1", in)
		if !errors.Is(err, domainerror.ErrLLMNotConfigured) {
			t.Fatalf("expected ErrLLMNotConfigured, got %v", err)
		}
	})

	t.Run("reports row errors without failing the import", func(t *testing.T) {
		f := newUploadFixture(t, false)
		content := "Date,Amount,Description\nbad-date,-10.00,BROKEN\n2024-01-24,-5.00,GOOD\n"

		result, err := f.uc.Execute(ctx, "owner-1", csvUpload(content))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Created != 1 {
			t.Errorf("expected 1 created, got %d", result.Created)
		}
		if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "date") {
			t.Errorf("expected one date row error, got %v", result.Errors)
		}
	})
}
