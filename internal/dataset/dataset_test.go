package dataset

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/crimson-sun/triage/internal/engine/classifier"
	"github.com/crimson-sun/triage/internal/engine/taxonomy"
	"github.com/crimson-sun/triage/internal/model"
)

const miniVocab = "[PAD]\n[UNK]\n[CLS]\n[SEP]\nmy\ncard\nwas\ncharged\ntwice\napp\ncrashes\n"

func miniTokenizer(t *testing.T, maxLen int) classifier.Tokenizer {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "vocab.txt"), []byte(miniVocab), 0o644); err != nil {
		t.Fatal(err)
	}
	tok, err := classifier.LoadTokenizer(dir, maxLen)
	if err != nil {
		t.Fatalf("LoadTokenizer: %v", err)
	}
	return tok
}

func TestReadCSV(t *testing.T) {
	in := "\ufefftext,category\n" +
		"\"My card was charged twice\",card_payment_fee_charged\n" +
		"\"app crashes, again\", app_does_not_work \n"

	rows, err := ReadCSV(strings.NewReader(in), "train")
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	want := model.RawExample{Split: "train", Row: 1, Text: "app crashes, again", Category: "app_does_not_work"}
	if rows[1] != want {
		t.Fatalf("row 1\n  want: %+v\n  got:  %+v", want, rows[1])
	}
	if rows[0].Row != 0 {
		t.Fatalf("expected first data row indexed 0, got %d", rows[0].Row)
	}
}

func TestReadCSV_ColumnOrder(t *testing.T) {
	rows, err := ReadCSV(strings.NewReader("Category,id,Text\nATMs_support,7,where is an atm\n"), "test")
	if err != nil {
		t.Fatal(err)
	}
	if rows[0].Text != "where is an atm" || rows[0].Category != "ATMs_support" {
		t.Fatalf("unexpected row: %+v", rows[0])
	}
}

func TestReadCSV_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", "empty"},
		{"missing category", "text,label\nhi,x\n", "category"},
		{"missing both", "a,b\n", "text, category"},
		{"short row", "text,category\nonly text\n", "row 0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tt.in), "train")
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error to mention %q, got: %v", tt.want, err)
			}
		})
	}
}

func TestDirLoad(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("train.csv", "text,category\na,ATMs_support\nb,app_does_not_work\n")
	write("test.csv", "text,category\nc,activate_my_card\n")

	rows, err := Dir{Path: dir}.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0].Split != "train" || rows[2].Split != "test" {
		t.Fatalf("expected train rows before test rows, got %+v", rows)
	}
}

func TestDirLoad_MissingSplit(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "train.csv"), []byte("text,category\n"), 0o644)

	_, err := Dir{Path: dir}.Load(context.Background())
	if err == nil || !strings.Contains(err.Error(), "test.csv") {
		t.Fatalf("expected error naming test.csv, got %v", err)
	}
}

func TestPrepare(t *testing.T) {
	p := NewPreparer(miniTokenizer(t, 10))

	ex, err := p.Prepare(model.RawExample{Split: "train", Row: 3, Text: "My card was charged twice", Category: "card_payment_fee_charged"})
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	billing, _ := taxonomy.DefaultEncoding().ID(taxonomy.Billing)
	if ex.LabelID != billing {
		t.Fatalf("expected label id %d, got %d", billing, ex.LabelID)
	}
	if ex.Split != "train" || ex.Row != 3 {
		t.Fatalf("split/row not carried: %+v", ex)
	}
	wantIDs := []int64{2, 4, 5, 6, 7, 8, 3, 0, 0, 0}
	wantMask := []int64{1, 1, 1, 1, 1, 1, 1, 0, 0, 0}
	if len(ex.InputIDs) != 10 || len(ex.AttentionMask) != 10 {
		t.Fatalf("expected padding to 10, got %d/%d", len(ex.InputIDs), len(ex.AttentionMask))
	}
	for i := range wantIDs {
		if ex.InputIDs[i] != wantIDs[i] || ex.AttentionMask[i] != wantMask[i] {
			t.Fatalf("position %d: got id=%d mask=%d, want id=%d mask=%d",
				i, ex.InputIDs[i], ex.AttentionMask[i], wantIDs[i], wantMask[i])
		}
	}
}

func TestPrepare_Truncates(t *testing.T) {
	p := NewPreparer(miniTokenizer(t, 4))
	ex, err := p.Prepare(model.RawExample{Text: "my card was charged twice", Category: "app_does_not_work"})
	if err != nil {
		t.Fatal(err)
	}
	if len(ex.InputIDs) != 4 {
		t.Fatalf("expected length 4, got %d", len(ex.InputIDs))
	}
	if ex.InputIDs[3] != 3 {
		t.Fatalf("expected [SEP] kept at the end, got %v", ex.InputIDs)
	}
}

func TestPrepare_Unmapped(t *testing.T) {
	p := NewPreparer(miniTokenizer(t, 8))
	_, err := p.Prepare(model.RawExample{Text: "hello", Category: "lost_or_stolen_phone_charger"})
	if !errors.Is(err, taxonomy.ErrUnmapped) {
		t.Fatalf("expected ErrUnmapped, got %v", err)
	}
	var dq *taxonomy.DataQualityError
	if !errors.As(err, &dq) || dq.Category != "lost_or_stolen_phone_charger" {
		t.Fatalf("expected DataQualityError naming the category, got %v", err)
	}
}

func TestReport(t *testing.T) {
	r := NewReport()
	r.AddKept("train", taxonomy.Billing)
	r.AddKept("train", taxonomy.Billing)
	r.AddKept("train", taxonomy.General)
	r.AddKept("test", taxonomy.Billing)
	r.AddUnmapped("mystery")
	r.AddUnmapped("mystery")
	r.AddUnmapped("other")

	if r.Total != 7 || r.Kept != 4 {
		t.Fatalf("expected total 7 kept 4, got %d/%d", r.Total, r.Kept)
	}
	if r.UnmappedRows() != 3 {
		t.Fatalf("expected 3 unmapped rows, got %d", r.UnmappedRows())
	}
	if got := r.Distribution()[taxonomy.Billing]; got != 3 {
		t.Fatalf("expected 3 billing rows overall, got %d", got)
	}
}

func TestRenderDistribution(t *testing.T) {
	r := NewReport()
	for i := 0; i < 4; i++ {
		r.AddKept("train", taxonomy.Billing)
	}
	r.AddKept("train", taxonomy.General)

	var sb strings.Builder
	if err := r.RenderDistribution(&sb, "train"); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(sb.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected title plus 3 label lines, got %d:\n%s", len(lines), sb.String())
	}
	if !strings.Contains(lines[0], "train") {
		t.Errorf("title should name the split: %q", lines[0])
	}
	if !strings.Contains(lines[1], taxonomy.Billing) || strings.Count(lines[1], "#") != barWidth {
		t.Errorf("largest label should get a full bar: %q", lines[1])
	}
	if !strings.Contains(lines[2], taxonomy.Technical) || strings.Contains(lines[2], "#") || !strings.HasSuffix(lines[2], " 0") {
		t.Errorf("empty label should have no bar and count 0: %q", lines[2])
	}
	if strings.Count(lines[3], "#") != barWidth/4 {
		t.Errorf("expected quarter bar for General, got %q", lines[3])
	}
}

func TestRenderUnmapped(t *testing.T) {
	r := NewReport()
	var sb strings.Builder
	if err := r.RenderUnmapped(&sb); err != nil || sb.Len() != 0 {
		t.Fatalf("expected no output without unmapped rows, got %q (%v)", sb.String(), err)
	}

	r.AddUnmapped("b_cat")
	r.AddUnmapped("a_cat")
	r.AddUnmapped("a_cat")
	if err := r.RenderUnmapped(&sb); err != nil {
		t.Fatal(err)
	}
	out := sb.String()
	if !strings.Contains(out, "3 rows dropped") {
		t.Errorf("expected dropped row count, got %q", out)
	}
	if strings.Index(out, "a_cat") > strings.Index(out, "b_cat") {
		t.Errorf("expected most frequent category first, got %q", out)
	}
}
