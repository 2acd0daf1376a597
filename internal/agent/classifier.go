package agent

import (
	"context"
	"fmt"
	"strings"
)

// Classifier maps request text to one child identifier. It is injected so
// routing-policy correctness is decoupled from model nondeterminism: the
// default is model-backed, tests use the deterministic keyword variant.
// An empty child id means no child could be selected.
type Classifier func(ctx context.Context, request string) (string, error)

// ChildSpec describes one routable child for the model-backed classifier.
type ChildSpec struct {
	ID          string
	Description string
}

// NewModelClassifier performs exactly one classification step per request:
// a single chat call asking the model to pick one child id, parsed by
// matching the known ids in the reply. No retries.
func NewModelClassifier(model LLM, children []ChildSpec) Classifier {
	var sb strings.Builder
	sb.WriteString("You are a request router. Pick the single best handler for the user's request.\n\nHandlers:\n")
	for _, child := range children {
		fmt.Fprintf(&sb, "- %s: %s\n", child.ID, child.Description)
	}
	sb.WriteString("\nAnswer with exactly one handler name and nothing else.")
	prompt := sb.String()

	return func(ctx context.Context, request string) (string, error) {
		resp, err := model.Generate(ctx, prompt, request, nil)
		if err != nil {
			return "", err
		}

		reply := strings.ToLower(resp.Content)
		var matched string
		for _, child := range children {
			if strings.Contains(reply, strings.ToLower(child.ID)) {
				if matched != "" {
					// Ambiguous reply: let the router's tie-break decide.
					return "", nil
				}
				matched = child.ID
			}
		}
		return matched, nil
	}
}

// KeywordRule binds trigger words to one child id.
type KeywordRule struct {
	ChildID  string
	Keywords []string
}

// NewKeywordClassifier is the deterministic classifier: first rule whose
// keyword appears in the request wins. Rules are checked in order.
func NewKeywordClassifier(rules []KeywordRule) Classifier {
	return func(_ context.Context, request string) (string, error) {
		lowered := strings.ToLower(request)
		for _, rule := range rules {
			for _, kw := range rule.Keywords {
				if strings.Contains(lowered, kw) {
					return rule.ChildID, nil
				}
			}
		}
		return "", nil
	}
}
