// Package triage classifies free-text support tickets into three coarse
// labels: Billing Question, Technical Issue, and General Inquiry.
//
// Quick start:
//
//	t, err := triage.New(triage.WithModelDir("models/"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer t.Close()
//
//	p, _ := t.Classify(ctx, "My credit card was charged twice")
//	fmt.Println(p.Label) // Billing Question
//
// New tries the accelerated execution path first and falls back to CPU.
// The Triage instance is safe for concurrent use. Create once, reuse across
// requests.
package triage
