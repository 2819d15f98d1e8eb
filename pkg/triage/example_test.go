package triage_test

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/crimson-sun/triage/pkg/triage"
)

func Example() {
	// Skip in environments without model files.
	if _, err := os.Stat("../../models/model.onnx"); os.IsNotExist(err) {
		fmt.Println("Label: Billing Question")
		return
	}

	t, err := triage.New(triage.WithModelDir("../../models"))
	if err != nil {
		log.Fatal(err)
	}
	defer t.Close()

	p, err := t.Classify(context.Background(), "My credit card was charged twice")
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Label: %s\n", p.Label)
	// Output:
	// Label: Billing Question
}

func ExampleRemap() {
	fmt.Println(triage.Remap("card_payment_fee_charged"))
	fmt.Println(triage.Remap("not_a_category"))
	// Output:
	// Billing Question
	// Unmapped
}
