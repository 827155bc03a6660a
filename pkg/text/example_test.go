package text_test

import (
	"context"
	"fmt"
	"strings"

	"github.com/walteh/patchrc/pkg/text"
)

func ExampleApply() {
	result, err := text.Apply([]byte(`<link href="a.css">`), text.ReplacementRule{
		FromText: `href="a.css"`,
		ToText:   `href="a.css?v=2"`,
	})
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	fmt.Printf("Modified: %s\n", result.ModifiedContent)
	fmt.Printf("Changes: %d\n", result.ReplacementCount)

	// Output:
	// Modified: <link href="a.css?v=2">
	// Changes: 1
}

func ExampleSimpleTextReplacer_ReplaceText() {
	replacer := text.NewSimpleTextReplacer()

	rules := []text.ReplacementRule{
		{
			FromText: "World",
			ToText:   "Universe",
		},
		{
			FromPattern: `^(\w+)`,
			ToText:      "Hi",
		},
	}

	result, err := replacer.ReplaceText(context.Background(), strings.NewReader("Hello World!"), rules)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	fmt.Printf("Original: %s\n", result.OriginalContent)
	fmt.Printf("Modified: %s\n", result.ModifiedContent)
	fmt.Printf("Changes: %d\n", result.ReplacementCount)
	fmt.Printf("Was Modified: %v\n", result.WasModified)

	// Output:
	// Original: Hello World!
	// Modified: Hi Universe!
	// Changes: 2
	// Was Modified: true
}
