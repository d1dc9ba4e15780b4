package viewstate

import (
	"fmt"
	"strings"
)

// Share is a plain-text share payload.
type Share struct {
	MIMEType string
	Subject  string
	Text     string
}

// ShareRequest builds the share payload for the current article.
func (c *DetailController) ShareRequest() (Share, error) {
	a, err := c.CurrentArticle()
	if err != nil {
		return Share{}, err
	}

	title := a.DisplayTitle()
	text := title
	if author := strings.TrimSpace(a.Author); author != "" {
		text = fmt.Sprintf("%s by %s", title, author)
	}
	return Share{MIMEType: "text/plain", Subject: title, Text: text}, nil
}
