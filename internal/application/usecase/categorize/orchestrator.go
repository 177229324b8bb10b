package categorize

import (
	"context"
	"log/slog"
	"time"

	"github.com/ledgerline/backend/internal/application/adapter"
	"github.com/ledgerline/backend/internal/domain/entity"
)

// ConfidenceGate is the threshold above which a rule match
// short-circuits the LLM fallback.
const ConfidenceGate = 0.7

// statUpdateTimeout bounds the fire-and-forget rule statistics write.
const statUpdateTimeout = 10 * time.Second

// Orchestrator combines the rule engine with the LLM classifier under
// the confidence gate. It is safe for concurrent use; the rule set is
// loaded per call, never shared across requests.
type Orchestrator struct {
	ruleRepo     adapter.RuleRepository
	categoryRepo adapter.CategoryRepository
	txRepo       adapter.TransactionRepository
	llm          adapter.LLMService
	llmEnabled   bool
}

// NewOrchestrator creates an Orchestrator instance.
func NewOrchestrator(
	ruleRepo adapter.RuleRepository,
	categoryRepo adapter.CategoryRepository,
	txRepo adapter.TransactionRepository,
	llm adapter.LLMService,
	llmEnabled bool,
) *Orchestrator {
	return &Orchestrator{
		ruleRepo:     ruleRepo,
		categoryRepo: categoryRepo,
		txRepo:       txRepo,
		llm:          llm,
		llmEnabled:   llmEnabled,
	}
}

// Categorize runs the single-transaction flow: rules first, then the
// LLM when the rule result fails the confidence gate and the classifier
// is enabled. LLM failures degrade to the rule result.
func (o *Orchestrator) Categorize(ctx context.Context, ownerID string, tx *entity.Transaction) (RuleResult, error) {
	rules, err := o.ruleRepo.FindEnabledByOwner(ctx, ownerID)
	if err != nil {
		return RuleResult{}, err
	}
	categories, err := o.visibleCategoryOptions(ctx, ownerID)
	if err != nil {
		return RuleResult{}, err
	}
	return o.categorizeOne(ctx, ownerID, tx, rules, categories), nil
}

// CategorizeBatch runs the rule pass over every input, collects the
// transactions failing the confidence gate and sends them through one
// bounded-concurrency LLM pass, then merges results by transaction id.
func (o *Orchestrator) CategorizeBatch(ctx context.Context, ownerID string, txs []*entity.Transaction) (map[string]RuleResult, error) {
	rules, err := o.ruleRepo.FindEnabledByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	categories, err := o.visibleCategoryOptions(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	results := make(map[string]RuleResult, len(txs))
	var secondPass []*entity.Transaction

	for _, tx := range txs {
		result := CategorizeWithRules(tx, rules)
		if o.acceptRuleResult(ctx, ownerID, result) {
			results[tx.ID] = result
			continue
		}
		results[tx.ID] = result
		if o.llmEnabled {
			secondPass = append(secondPass, tx)
		}
	}

	if len(secondPass) == 0 {
		return results, nil
	}

	ins := make([]adapter.ClassifyInput, len(secondPass))
	for i, tx := range secondPass {
		ins[i] = classifyInput(tx)
	}

	for id, llmResult := range o.llm.ClassifyBatch(ctx, ins, categories) {
		results[id] = mergeLLMResult(results[id], llmResult)
	}

	return results, nil
}

// RecategorizeResult summarizes a recategorization scan. Errors are
// per-transaction and never fail the scan.
type RecategorizeResult struct {
	Updated int
	Skipped int
	Errors  int
}

// Recategorize re-runs the single-transaction flow over the given ids.
// Transactions under manual override are skipped unless
// includeManualOverrides is set. A changed category updates categoryId,
// explainability and autoCategory atomically; an unchanged one is left
// untouched.
func (o *Orchestrator) Recategorize(ctx context.Context, ownerID string, ids []string, includeManualOverrides bool) (RecategorizeResult, error) {
	rules, err := o.ruleRepo.FindEnabledByOwner(ctx, ownerID)
	if err != nil {
		return RecategorizeResult{}, err
	}
	categories, err := o.visibleCategoryOptions(ctx, ownerID)
	if err != nil {
		return RecategorizeResult{}, err
	}

	var out RecategorizeResult
	for _, id := range ids {
		tx, err := o.txRepo.FindByID(ctx, ownerID, id)
		if err != nil {
			out.Errors++
			continue
		}
		if tx.ManualOverride && !includeManualOverrides {
			out.Skipped++
			continue
		}
		if tx.IsSplitParent {
			out.Skipped++
			continue
		}

		result := o.categorizeOne(ctx, ownerID, tx, rules, categories)
		if sameCategory(tx.CategoryID, result.CategoryID) {
			out.Skipped++
			continue
		}

		autoCategory := &entity.AutoCategory{
			CategoryID:     result.CategoryID,
			Explainability: result.Explainability,
		}
		if err := o.txRepo.UpdateCategorization(ctx, ownerID, id, result.CategoryID, result.Explainability, autoCategory); err != nil {
			slog.Warn("Recategorization write failed", "transactionID", id, "error", err)
			out.Errors++
			continue
		}
		out.Updated++
	}

	return out, nil
}

// categorizeOne is the shared single-transaction flow once rules and
// categories are in hand.
func (o *Orchestrator) categorizeOne(ctx context.Context, ownerID string, tx *entity.Transaction, rules []*entity.Rule, categories []adapter.CategoryOption) RuleResult {
	result := CategorizeWithRules(tx, rules)
	if o.acceptRuleResult(ctx, ownerID, result) {
		return result
	}
	if !o.llmEnabled {
		return result
	}
	return mergeLLMResult(result, o.llm.ClassifyTransaction(ctx, classifyInput(tx), categories))
}

// acceptRuleResult applies the confidence gate and, on acceptance,
// bumps the winning rule's statistics out of band. Racing increments
// may lose updates; the counters are best-effort.
func (o *Orchestrator) acceptRuleResult(ctx context.Context, ownerID string, result RuleResult) bool {
	if result.CategoryID == nil || result.Explainability.Confidence < ConfidenceGate {
		return false
	}
	if result.Explainability.RuleID != nil {
		ruleID := *result.Explainability.RuleID
		go func() {
			statCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), statUpdateTimeout)
			defer cancel()
			if err := o.ruleRepo.IncrementMatchStats(statCtx, ownerID, ruleID); err != nil {
				slog.Warn("Rule statistics update failed", "ruleID", ruleID, "error", err)
			}
		}()
	}
	return true
}

func (o *Orchestrator) visibleCategoryOptions(ctx context.Context, ownerID string) ([]adapter.CategoryOption, error) {
	categories, err := o.categoryRepo.FindVisible(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	options := make([]adapter.CategoryOption, 0, len(categories))
	for _, c := range categories {
		if c.IsHidden {
			continue
		}
		options = append(options, adapter.CategoryOption{ID: c.ID, Name: c.Name})
	}
	return options, nil
}

func classifyInput(tx *entity.Transaction) adapter.ClassifyInput {
	return adapter.ClassifyInput{
		TransactionID: tx.ID,
		Description:   tx.Description,
		MerchantRaw:   tx.MerchantRaw,
		Amount:        tx.Amount,
	}
}

// mergeLLMResult folds a classifier answer into the rule result. A
// usable category becomes an llm explainability; a refusal keeps
// no_match but preserves the classifier's reasoning for the audit
// trail.
func mergeLLMResult(ruleResult RuleResult, llmResult adapter.ClassifyResult) RuleResult {
	now := time.Now().UTC()
	if llmResult.CategoryID != nil {
		model := llmResult.Model
		reasoning := llmResult.Reasoning
		return RuleResult{
			CategoryID: llmResult.CategoryID,
			Tags:       ruleResult.Tags,
			Explainability: entity.Explainability{
				Reason:       entity.ExplainReasonLLM,
				Confidence:   llmResult.Confidence,
				Timestamp:    now,
				LLMModel:     &model,
				LLMReasoning: &reasoning,
			},
		}
	}

	// A refusal yields no category at all, but the classifier's
	// reasoning is kept for the audit trail.
	expl := entity.Explainability{
		Reason:     entity.ExplainReasonNoMatch,
		Confidence: 0,
		Timestamp:  now,
	}
	if llmResult.Reasoning != "" {
		reasoning := llmResult.Reasoning
		expl.LLMReasoning = &reasoning
	}
	return RuleResult{Tags: ruleResult.Tags, Explainability: expl}
}

func sameCategory(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
