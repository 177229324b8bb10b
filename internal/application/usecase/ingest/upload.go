package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ledgerline/backend/internal/application/adapter"
	"github.com/ledgerline/backend/internal/application/usecase/categorize"
	"github.com/ledgerline/backend/internal/domain/entity"
	domainerror "github.com/ledgerline/backend/internal/domain/error"
)

// UploadInput carries one uploaded document.
type UploadInput struct {
	AccountID string
	Filename  string
	MIMEType  string
	Content   []byte
}

// UploadResult summarizes one ingestion run.
type UploadResult struct {
	ImportID string
	Status   entity.ImportStatus
	Created  int
	Skipped  int
	Errors   []string
}

// UploadUseCase runs the ingestion pipeline: gate the document, parse
// it, normalize merchants, deduplicate, categorize and persist.
type UploadUseCase struct {
	accountRepo  adapter.AccountRepository
	importRepo   adapter.ImportRepository
	txRepo       adapter.TransactionRepository
	llm          adapter.LLMService
	orchestrator *categorize.Orchestrator
	llmEnabled   bool
}

// NewUploadUseCase creates an UploadUseCase instance.
func NewUploadUseCase(
	accountRepo adapter.AccountRepository,
	importRepo adapter.ImportRepository,
	txRepo adapter.TransactionRepository,
	llm adapter.LLMService,
	orchestrator *categorize.Orchestrator,
	llmEnabled bool,
) *UploadUseCase {
	return &UploadUseCase{
		accountRepo:  accountRepo,
		importRepo:   importRepo,
		txRepo:       txRepo,
		llm:          llm,
		orchestrator: orchestrator,
		llmEnabled:   llmEnabled,
	}
}

// Execute ingests one document for the owner. Validation failures are
// returned before any import record exists; parse and persistence
// failures after that point mark the import failed instead.
func (uc *UploadUseCase) Execute(ctx context.Context, ownerID string, in UploadInput) (*UploadResult, error) {
	if _, err := uc.accountRepo.FindByID(ctx, ownerID, in.AccountID); err != nil {
		return nil, err
	}
	if len(in.Content) == 0 {
		return nil, domainerror.NewImportError(domainerror.ErrCodeEmptyDocument, "uploaded file is empty", domainerror.ErrEmptyDocument)
	}
	if len(in.Content) > entity.MaxImportBytes {
		return nil, domainerror.NewImportError(domainerror.ErrCodeFileTooLarge, "uploaded file exceeds the 10MB limit", domainerror.ErrFileTooLarge)
	}
	kind, ok := entity.KindForMIME(in.MIMEType)
	if !ok {
		return nil, domainerror.NewImportError(domainerror.ErrCodeUnsupportedFileType, fmt.Sprintf("unsupported file type: %s", in.MIMEType), domainerror.ErrUnsupportedFileType)
	}

	record := entity.NewImport(ownerID, in.AccountID, in.Filename, kind)
	if err := uc.importRepo.Create(ctx, record); err != nil {
		return nil, err
	}
	if err := uc.importRepo.SetProcessing(ctx, ownerID, record.ID); err != nil {
		return nil, err
	}

	result, err := uc.process(ctx, ownerID, record, kind, in)
	if err != nil {
		if failErr := uc.importRepo.Fail(ctx, ownerID, record.ID, err.Error()); failErr != nil {
			slog.Error("Failed to mark import as failed", "importID", record.ID, "error", failErr)
		}
		return &UploadResult{ImportID: record.ID, Status: entity.ImportStatusFailed, Errors: []string{err.Error()}}, err
	}

	if err := uc.importRepo.Complete(ctx, ownerID, record.ID, result.Created); err != nil {
		return nil, err
	}
	result.ImportID = record.ID
	result.Status = entity.ImportStatusCompleted
	return result, nil
}

// process is the post-record pipeline. Any error returned here fails
// the import record.
func (uc *UploadUseCase) process(ctx context.Context, ownerID string, record *entity.Import, kind entity.FileType, in UploadInput) (*UploadResult, error) {
	parsed, receipt, rowErrors, err := uc.parse(ctx, kind, in)
	if err != nil {
		return nil, err
	}
	if len(parsed) == 0 {
		return nil, domainerror.NewImportError(domainerror.ErrCodeEmptyDocument, "no transactions could be extracted from the document", domainerror.ErrEmptyDocument)
	}

	result := &UploadResult{Errors: rowErrors}

	// Deduplicate against the store and within the batch itself.
	keys := make([]string, 0, len(parsed))
	for _, p := range parsed {
		keys = append(keys, entity.ComputeTxKey(in.AccountID, p.PostedAt, p.Amount, p.Description))
	}
	seen, err := uc.txRepo.ExistingTxKeys(ctx, ownerID, keys)
	if err != nil {
		return nil, err
	}
	if seen == nil {
		seen = make(map[string]bool, len(keys))
	}

	var txs []*entity.Transaction
	for _, p := range parsed {
		tx := entity.NewTransaction(ownerID, in.AccountID, record.ID, p.PostedAt, p.Amount, p.Description, p.MerchantRaw)
		if seen[tx.TxKey] {
			result.Skipped++
			continue
		}
		seen[tx.TxKey] = true
		tx.MerchantNormalized = uc.normalizeMerchant(ctx, p.MerchantRaw)
		txs = append(txs, tx)
	}

	if receipt != nil && len(txs) > 0 {
		txs[0].ReceiptLineItems = receipt.LineItems
		if receipt.Merchant != "" {
			txs[0].MerchantNormalized = NormalizeMerchant(receipt.Merchant)
		}
	}

	verdicts, err := uc.orchestrator.CategorizeBatch(ctx, ownerID, txs)
	if err != nil {
		return nil, err
	}

	for _, tx := range txs {
		if verdict, ok := verdicts[tx.ID]; ok {
			tx.CategoryID = verdict.CategoryID
			tx.Tags = verdict.Tags
			tx.Explainability = verdict.Explainability
			tx.AutoCategory = &entity.AutoCategory{
				CategoryID:     verdict.CategoryID,
				Explainability: verdict.Explainability,
			}
		}
		if err := uc.txRepo.Create(ctx, tx); err != nil {
			if errors.Is(err, domainerror.ErrDuplicateTransaction) || errors.Is(err, domainerror.ErrConflict) {
				result.Skipped++
				continue
			}
			result.Errors = append(result.Errors, fmt.Sprintf("failed to store transaction %s: %v", tx.TxKey, err))
			continue
		}
		result.Created++
	}

	return result, nil
}

// parse resolves the document into transactions. CSVs go through the
// deterministic parser first and fall back to the multimodal parser
// only when no rows survive; PDFs and images always use it.
func (uc *UploadUseCase) parse(ctx context.Context, kind entity.FileType, in UploadInput) ([]adapter.ParsedTransaction, *adapter.Receipt, []string, error) {
	if kind == entity.FileTypeCSV {
		parsed, rowErrors := ParseCSV(string(in.Content))
		if len(parsed) > 0 {
			return parsed, nil, rowErrors, nil
		}
		if !uc.llmEnabled {
			return nil, nil, rowErrors, nil
		}
		slog.Info("Deterministic CSV parse yielded no rows, falling back to document parser", "filename", in.Filename)
	} else if !uc.llmEnabled {
		return nil, nil, nil, domainerror.ErrLLMNotConfigured
	}

	parseResult, err := uc.llm.ParseDocument(ctx, in.Content, kind, in.MIMEType)
	if err != nil {
		return nil, nil, nil, err
	}
	return parseResult.Transactions, parseResult.Receipt, nil, nil
}

// normalizeMerchant runs the deterministic normalizer and falls back to
// the LLM when the result carries too little signal.
func (uc *UploadUseCase) normalizeMerchant(ctx context.Context, raw string) string {
	normalized := NormalizeMerchant(raw)
	if len(normalized) >= MinNormalizedLength || !uc.llmEnabled {
		return normalized
	}
	llmNormalized, err := uc.llm.NormalizeMerchant(ctx, raw)
	if err != nil || llmNormalized == "" {
		slog.Debug("Merchant normalization fallback failed", "raw", raw, "error", err)
		return normalized
	}
	return NormalizeMerchant(llmNormalized)
}
