package processing

import (
	"context"
	"errors"
	"testing"

	"deal_flow_triage/internal/classify"
	"deal_flow_triage/internal/sheets"
)

type fakeClassifier struct {
	calls  []string
	result *classify.Result
	err    error
}

func (f *fakeClassifier) Classify(ctx context.Context, description string) (*classify.Result, error) {
	f.calls = append(f.calls, description)
	return f.result, f.err
}

type fakeStore struct {
	inserted []sheets.Inquiry
	err      error
}

func (f *fakeStore) InsertOpportunity(ctx context.Context, inquiry sheets.Inquiry, result *classify.Result) error {
	if f.err != nil {
		return f.err
	}
	f.inserted = append(f.inserted, inquiry)
	return nil
}

type fakeNotifier struct {
	calls int
	err   error
}

func (f *fakeNotifier) NotifyHighPriority(ctx context.Context, inquiry sheets.Inquiry, result *classify.Result) error {
	f.calls++
	return f.err
}

type fakeWriter struct {
	rows []int
	err  error
}

func (f *fakeWriter) UpdateProcessedRow(ctx context.Context, rowIndex int, result *classify.Result) error {
	if f.err != nil {
		return f.err
	}
	f.rows = append(f.rows, rowIndex)
	return nil
}

func goodResult() *classify.Result {
	summary := "B2B SaaS for logistics"
	score := 5
	nextStep := "Schedule initial screening call"
	return &classify.Result{
		Summary:           &summary,
		AlignmentScore:    &score,
		SuggestedNextStep: &nextStep,
	}
}

func inquiry(row int, company, description string) sheets.Inquiry {
	return sheets.Inquiry{
		RowIndex: row,
		Fields: map[string]string{
			sheets.ColCompanyName: company,
			sheets.ColDescription: description,
		},
	}
}

func newTestPipeline(classifier *fakeClassifier, store *fakeStore, notifier *fakeNotifier, writer *fakeWriter) *Pipeline {
	return &Pipeline{
		Classifier: classifier,
		Store:      store,
		Notifier:   notifier,
		Writer:     writer,
	}
}

func TestProcessInquiriesHappyPath(t *testing.T) {
	classifier := &fakeClassifier{result: goodResult()}
	store := &fakeStore{}
	notifier := &fakeNotifier{}
	writer := &fakeWriter{}
	p := newTestPipeline(classifier, store, notifier, writer)

	stats := p.ProcessInquiries(context.Background(), []sheets.Inquiry{
		inquiry(2, "Acme", "B2B SaaS for logistics teams"),
	})

	if stats.Processed != 1 || stats.Skipped != 0 || stats.Failed != 0 {
		t.Errorf("Unexpected stats: %+v", stats)
	}
	if len(classifier.calls) != 1 {
		t.Errorf("Expected 1 classify call, got %d", len(classifier.calls))
	}
	if len(store.inserted) != 1 {
		t.Errorf("Expected 1 stored inquiry, got %d", len(store.inserted))
	}
	if notifier.calls != 1 {
		t.Errorf("Expected 1 notify call, got %d", notifier.calls)
	}
	if len(writer.rows) != 1 || writer.rows[0] != 2 {
		t.Errorf("Expected write-back to row 2, got %v", writer.rows)
	}
}

func TestProcessInquiriesEmptyDescriptionSkipped(t *testing.T) {
	classifier := &fakeClassifier{result: goodResult()}
	store := &fakeStore{}
	notifier := &fakeNotifier{}
	writer := &fakeWriter{}
	p := newTestPipeline(classifier, store, notifier, writer)

	stats := p.ProcessInquiries(context.Background(), []sheets.Inquiry{
		inquiry(2, "NoDesc", ""),
		inquiry(3, "Whitespace", "   "),
		inquiry(4, "Acme", "B2B SaaS for logistics teams"),
	})

	if stats.Processed != 1 || stats.Skipped != 2 {
		t.Errorf("Unexpected stats: %+v", stats)
	}
	// No AI call, no store, no notify, no write-back for the skipped rows.
	if len(classifier.calls) != 1 {
		t.Errorf("Expected 1 classify call, got %d", len(classifier.calls))
	}
	if len(store.inserted) != 1 || store.inserted[0].CompanyName() != "Acme" {
		t.Errorf("Unexpected stored inquiries: %v", store.inserted)
	}
	if len(writer.rows) != 1 || writer.rows[0] != 4 {
		t.Errorf("Expected write-back only for row 4, got %v", writer.rows)
	}
}

func TestProcessInquiriesClassifyFailureSkipsSideEffects(t *testing.T) {
	classifier := &fakeClassifier{err: errors.New("model returned garbage")}
	store := &fakeStore{}
	notifier := &fakeNotifier{}
	writer := &fakeWriter{}
	p := newTestPipeline(classifier, store, notifier, writer)

	stats := p.ProcessInquiries(context.Background(), []sheets.Inquiry{
		inquiry(2, "Acme", "some description"),
	})

	if stats.Skipped != 1 || stats.Processed != 0 {
		t.Errorf("Unexpected stats: %+v", stats)
	}
	if len(store.inserted) != 0 {
		t.Error("Store should not be called after classification failure")
	}
	if notifier.calls != 0 {
		t.Error("Notifier should not be called after classification failure")
	}
	if len(writer.rows) != 0 {
		t.Error("Write-back should not happen after classification failure")
	}
}

func TestProcessInquiriesStoreFailureDoesNotBlockNext(t *testing.T) {
	classifier := &fakeClassifier{result: goodResult()}
	store := &fakeStore{err: errors.New("disk full")}
	notifier := &fakeNotifier{}
	writer := &fakeWriter{}
	p := newTestPipeline(classifier, store, notifier, writer)

	stats := p.ProcessInquiries(context.Background(), []sheets.Inquiry{
		inquiry(2, "First", "desc one"),
		inquiry(3, "Second", "desc two"),
	})

	if stats.Failed != 2 {
		t.Errorf("Expected 2 failures, got %+v", stats)
	}
	if len(classifier.calls) != 2 {
		t.Errorf("Expected both inquiries classified, got %d calls", len(classifier.calls))
	}
	if notifier.calls != 0 {
		t.Error("Notifier should not run when store fails")
	}
	if len(writer.rows) != 0 {
		t.Error("Write-back should not run when store fails")
	}
}

func TestProcessInquiriesNotifyFailureStillWritesBack(t *testing.T) {
	classifier := &fakeClassifier{result: goodResult()}
	store := &fakeStore{}
	notifier := &fakeNotifier{err: errors.New("webhook 500")}
	writer := &fakeWriter{}
	p := newTestPipeline(classifier, store, notifier, writer)

	stats := p.ProcessInquiries(context.Background(), []sheets.Inquiry{
		inquiry(2, "Acme", "desc"),
	})

	if stats.Processed != 1 {
		t.Errorf("Notify failure should not fail the inquiry, got %+v", stats)
	}
	if len(writer.rows) != 1 {
		t.Errorf("Expected write-back despite notify failure, got %v", writer.rows)
	}
}

func TestProcessInquiriesWriteBackFailureCountsAsFailed(t *testing.T) {
	classifier := &fakeClassifier{result: goodResult()}
	store := &fakeStore{}
	notifier := &fakeNotifier{}
	writer := &fakeWriter{err: errors.New("sheet quota exceeded")}
	p := newTestPipeline(classifier, store, notifier, writer)

	stats := p.ProcessInquiries(context.Background(), []sheets.Inquiry{
		inquiry(2, "First", "desc one"),
		inquiry(3, "Second", "desc two"),
	})

	// The store insert still happened for both; the rows stay unmarked and
	// will be reprocessed next run.
	if stats.Failed != 2 {
		t.Errorf("Expected 2 failures, got %+v", stats)
	}
	if len(store.inserted) != 2 {
		t.Errorf("Expected both inquiries stored, got %d", len(store.inserted))
	}
}

func TestProcessInquiriesEmptyBatch(t *testing.T) {
	p := newTestPipeline(&fakeClassifier{}, &fakeStore{}, &fakeNotifier{}, &fakeWriter{})
	stats := p.ProcessInquiries(context.Background(), nil)
	if stats != (Stats{}) {
		t.Errorf("Expected zero stats for empty batch, got %+v", stats)
	}
}
