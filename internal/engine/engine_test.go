package engine

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/crimson-sun/triage/internal/engine/classifier"
	"github.com/crimson-sun/triage/internal/engine/loader"
	"github.com/crimson-sun/triage/internal/engine/testdata"
)

const modelDir = "../../models"

// fakeClassifier returns canned results or errors.
type fakeClassifier struct {
	results []classifier.Result
	err     error
	panicV  any

	mu    sync.Mutex
	texts []string
}

func (f *fakeClassifier) Classify(_ context.Context, text string) ([]classifier.Result, error) {
	f.mu.Lock()
	f.texts = append(f.texts, text)
	f.mu.Unlock()
	if f.panicV != nil {
		panic(f.panicV)
	}
	return f.results, f.err
}

func (f *fakeClassifier) Close() error { return nil }

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func ranked() []classifier.Result {
	return []classifier.Result{
		{Label: "Billing Question", Score: 0.91},
		{Label: "General Inquiry", Score: 0.06},
		{Label: "Technical Issue", Score: 0.03},
	}
}

func TestClassify_TopOne(t *testing.T) {
	fc := &fakeClassifier{results: ranked()}
	eng := New(Static{C: fc}, quietLogger())

	pred, err := eng.Classify(context.Background(), "My credit card was charged twice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pred.Label != "Billing Question" || pred.Score != 0.91 {
		t.Fatalf("expected Billing Question/0.91, got %+v", pred)
	}
	if len(fc.texts) != 1 || fc.texts[0] != "My credit card was charged twice" {
		t.Fatalf("classifier did not receive the text verbatim: %v", fc.texts)
	}
}

func TestClassify_UnorderedResultsStillTopOne(t *testing.T) {
	fc := &fakeClassifier{results: []classifier.Result{
		{Label: "General Inquiry", Score: 0.2},
		{Label: "Technical Issue", Score: 0.7},
		{Label: "Billing Question", Score: 0.1},
	}}
	pred, err := New(Static{C: fc}, quietLogger()).Classify(context.Background(), "app crashes")
	if err != nil {
		t.Fatal(err)
	}
	if pred.Label != "Technical Issue" {
		t.Fatalf("expected Technical Issue, got %q", pred.Label)
	}
}

func TestClassify_EmptyTextIsBadRequest(t *testing.T) {
	fc := &fakeClassifier{results: ranked()}
	eng := New(Static{C: fc}, quietLogger())

	for _, text := range []string{"", "   ", "\n\t"} {
		_, err := eng.Classify(context.Background(), text)
		if !errors.Is(err, ErrBadRequest) {
			t.Errorf("Classify(%q): expected ErrBadRequest, got %v", text, err)
		}
	}
	if len(fc.texts) != 0 {
		t.Fatalf("classifier must not be called for bad input, got %d calls", len(fc.texts))
	}
}

func TestClassify_NotLoadedIsUnavailableForEveryInput(t *testing.T) {
	eng := New(Static{}, quietLogger())
	for _, text := range []string{"", "My credit card was charged twice", "x"} {
		_, err := eng.Classify(context.Background(), text)
		if !errors.Is(err, ErrServiceUnavailable) {
			t.Errorf("Classify(%q): expected ErrServiceUnavailable, got %v", text, err)
		}
	}
}

func TestClassify_UnloadedLoaderIsUnavailable(t *testing.T) {
	l := loader.New(func(context.Context, classifier.Device) (classifier.Classifier, error) {
		return &fakeClassifier{results: ranked()}, nil
	})
	eng := New(l, quietLogger())

	if _, err := eng.Classify(context.Background(), "hello"); !errors.Is(err, ErrServiceUnavailable) {
		t.Fatalf("expected ErrServiceUnavailable before load, got %v", err)
	}
}

func TestClassify_InferenceErrorIsLoggedNotLeaked(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))
	fc := &fakeClassifier{err: errors.New("onnx: tensor shape mismatch")}

	_, err := New(Static{C: fc}, log).Classify(context.Background(), "hello")
	if !errors.Is(err, ErrInference) {
		t.Fatalf("expected ErrInference, got %v", err)
	}
	if strings.Contains(err.Error(), "tensor shape") {
		t.Fatalf("underlying error leaked to caller: %v", err)
	}
	if !strings.Contains(buf.String(), "tensor shape mismatch") {
		t.Fatalf("expected underlying error in log, got: %s", buf.String())
	}
}

func TestClassify_PanicBecomesInferenceError(t *testing.T) {
	fc := &fakeClassifier{panicV: "boom"}
	_, err := New(Static{C: fc}, quietLogger()).Classify(context.Background(), "hello")
	if !errors.Is(err, ErrInference) {
		t.Fatalf("expected ErrInference, got %v", err)
	}
}

func TestClassify_NoResultsIsInferenceError(t *testing.T) {
	fc := &fakeClassifier{}
	_, err := New(Static{C: fc}, quietLogger()).Classify(context.Background(), "hello")
	if !errors.Is(err, ErrInference) {
		t.Fatalf("expected ErrInference, got %v", err)
	}
}

func TestClassify_ScoreClamped(t *testing.T) {
	fc := &fakeClassifier{results: []classifier.Result{{Label: "General Inquiry", Score: 1.0000001}}}
	pred, err := New(Static{C: fc}, quietLogger()).Classify(context.Background(), "hi")
	if err != nil {
		t.Fatal(err)
	}
	if pred.Score != 1 {
		t.Fatalf("expected score clamped to 1, got %v", pred.Score)
	}
}

func TestClassify_Concurrent(t *testing.T) {
	fc := &fakeClassifier{results: ranked()}
	eng := New(Static{C: classifier.Serialized(fc)}, quietLogger())

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := eng.Classify(context.Background(), "ticket"); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()
	if len(fc.texts) != 32 {
		t.Fatalf("expected 32 calls, got %d", len(fc.texts))
	}
}

// Integration: the exported model must place every corpus ticket in its
// expected coarse label.
func TestCorpusWithModel(t *testing.T) {
	if _, err := os.Stat(modelDir + "/" + classifier.ModelFile); os.IsNotExist(err) {
		t.Skip("ONNX model not available, skipping integration test")
	}
	l := loader.New(classifier.NewFactory(modelDir), loader.WithLogger(quietLogger()))
	if err := l.Load(context.Background(), modelDir); err != nil {
		t.Fatalf("load: %v", err)
	}
	t.Cleanup(func() { l.Close() })

	entries, err := testdata.LoadCorpus()
	if err != nil {
		t.Fatal(err)
	}
	eng := New(l, quietLogger())
	correct := 0
	for _, e := range entries {
		pred, err := eng.Classify(context.Background(), e.Text)
		if err != nil {
			t.Fatalf("%q: %v", e.Text, err)
		}
		if pred.Label == e.ExpectedLabel {
			correct++
		} else {
			t.Logf("MISS %q: got %s (%.2f), want %s", e.Text, pred.Label, pred.Score, e.ExpectedLabel)
		}
	}
	if acc := float64(correct) / float64(len(entries)); acc < 0.8 {
		t.Errorf("corpus accuracy %.2f below 0.80", acc)
	}

	pred, _ := eng.Classify(context.Background(), "My credit card was charged twice")
	if pred.Label != "Billing Question" || pred.Score <= 0.5 {
		t.Errorf("expected Billing Question with score > 0.5, got %+v", pred)
	}
}
