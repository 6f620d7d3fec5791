package assistant

import (
	"context"

	"github.com/medstock/medstock/internal/inventory"
	"github.com/medstock/medstock/internal/oracle"
)

type stubCompleter struct {
	reply string
	err   error
	calls []completion
}

type completion struct {
	template string
	vars     map[string]string
}

func (s *stubCompleter) Complete(_ context.Context, tmpl oracle.Template, vars map[string]string) (string, error) {
	s.calls = append(s.calls, completion{template: tmpl.Name, vars: vars})
	return s.reply, s.err
}

type fakeInventory struct {
	candidates    []inventory.Candidate
	items         map[int64][]inventory.Item
	stock         map[int64][]inventory.StockEntry
	listErr       error
	loadErr       error
	loadItemCalls int
	loadStockCall int
}

func (f *fakeInventory) ListCandidates(context.Context) ([]inventory.Candidate, error) {
	return f.candidates, f.listErr
}

func (f *fakeInventory) LoadItem(_ context.Context, supplyID int64) ([]inventory.Item, error) {
	f.loadItemCalls++
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.items[supplyID], nil
}

func (f *fakeInventory) LoadStock(_ context.Context, supplyID int64) ([]inventory.StockEntry, error) {
	f.loadStockCall++
	return f.stock[supplyID], nil
}

type fixedResolver struct {
	id  int64
	err error
}

func (r fixedResolver) Resolve(context.Context, string, []inventory.Candidate) (int64, error) {
	return r.id, r.err
}

type recordingSynthesizer struct {
	reply    string
	err      error
	contexts []AnswerContext
}

func (s *recordingSynthesizer) Synthesize(_ context.Context, _ string, answerCtx AnswerContext) (string, error) {
	s.contexts = append(s.contexts, answerCtx)
	return s.reply, s.err
}

func benadryl() inventory.Item {
	return inventory.Item{
		ID:                 2,
		Type:               "capsules",
		Name:               "Diphenhydramine (Benadryl)",
		StrengthOrVolume:   "25 mg",
		RouteOfUse:         "oral",
		QuantityInPack:     60,
		PossibleSideEffect: "drowsiness",
		Location:           "Shelf B2",
	}
}
