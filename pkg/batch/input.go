package batch

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mmcdole/gofeed"
)

// ReadLines reads one post per line, trimming whitespace and skipping blank
// lines. Lines have no length limit.
func ReadLines(r io.Reader) ([]string, error) {
	var posts []string
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if text := strings.TrimSpace(line); text != "" {
			posts = append(posts, text)
		}
		if errors.Is(err, io.EOF) {
			return posts, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read posts: %w", err)
		}
	}
}

// ReadFeed extracts posts from a saved RSS, Atom or JSON feed, such as a
// Nitter account feed. Entries keep feed order; each entry's title is the
// post text, falling back to its description.
func ReadFeed(r io.Reader) ([]string, error) {
	parsed, err := gofeed.NewParser().Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	var posts []string
	for _, entry := range parsed.Items {
		text := strings.TrimSpace(entry.Title)
		if text == "" {
			text = strings.TrimSpace(entry.Description)
		}
		if text == "" {
			continue
		}
		posts = append(posts, text)
	}
	return posts, nil
}
