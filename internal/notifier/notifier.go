package notifier

import (
	"context"
	"fmt"
	"strings"

	"github.com/paddocknews/f1news/internal/story"
)

// Notifier defines the interface for delivering new-story notifications
type Notifier interface {
	// Notify delivers one notification for the given stories.
	// An empty slice is a no-op.
	Notify(ctx context.Context, stories []story.Story) error
}

// FormatMessage builds the subject and plain-text body for a batch of stories
func FormatMessage(stories []story.Story) (subject, body string) {
	subject = fmt.Sprintf("🔥 F1 实时更新：%d条新资讯", len(stories))

	var b strings.Builder
	b.WriteString("🏎️ 围场前方有新消息：\n\n")
	for _, s := range stories {
		fmt.Fprintf(&b, "【%s】\n🔗 传送门：%s\n\n", s.Title, s.Link)
	}

	return subject, b.String()
}
