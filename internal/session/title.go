package session

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// titleCounter feeds the rotating placeholder titles.
var titleCounter atomic.Uint64

// placeholderTitles rotate for sessions created without a meaningful topic.
var placeholderTitles = []string{
	"Math Adventure",
	"Number Quest",
	"Practice Time",
	"Brain Warm-Up",
}

// defaultTitle picks a display title for a new session. An explicit title
// wins; otherwise the topic is used, unless it is blank or the generic
// "Welcome" greeting topic, in which case a rotating placeholder is used.
func defaultTitle(title, topic string) string {
	if strings.TrimSpace(title) != "" {
		return title
	}
	if t := strings.TrimSpace(topic); t != "" && !strings.EqualFold(t, "Welcome") {
		return t
	}
	n := titleCounter.Add(1)
	base := placeholderTitles[int(n-1)%len(placeholderTitles)]
	return fmt.Sprintf("%s #%d", base, n)
}
