package notifier

import (
	"context"
	"fmt"
	"io"

	"github.com/paddocknews/f1news/internal/story"
)

// DryRunNotifier prints what would be emailed without actually sending
type DryRunNotifier struct {
	out io.Writer
}

// NewDryRunNotifier creates a new dry-run notifier writing to out
func NewDryRunNotifier(out io.Writer) *DryRunNotifier {
	return &DryRunNotifier{out: out}
}

// Notify prints the email that would be sent
func (n *DryRunNotifier) Notify(_ context.Context, stories []story.Story) error {
	if len(stories) == 0 {
		return nil
	}

	subject, body := FormatMessage(stories)
	fmt.Fprintf(n.out, "--- Email (dry run) ---\n")
	fmt.Fprintf(n.out, "Subject: %s\n\n", subject)
	fmt.Fprint(n.out, body)
	return nil
}
