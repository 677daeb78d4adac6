package batch

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadLinesSkipsBlanks(t *testing.T) {
	posts, err := ReadLines(strings.NewReader("first post\n\n   second post  \n\t\nthird"))
	require.NoError(t, err)
	assert.Equal(t, []string{"first post", "second post", "third"}, posts)
}

func TestReadLinesEmpty(t *testing.T) {
	posts, err := ReadLines(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestReadLinesLongLine(t *testing.T) {
	long := strings.Repeat("word ", 400_000) + "end"
	posts, err := ReadLines(strings.NewReader("short\n" + long + "\nlast"))
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Equal(t, long, posts[1])
	assert.Equal(t, "last", posts[2])
}

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
  <title>@someone / Nitter</title>
  <link>https://nitter.net/someone</link>
  <description>Posts by someone</description>
  <item>
    <title>hot take: tabs are better than spaces</title>
    <link>https://nitter.net/someone/status/1</link>
  </item>
  <item>
    <title></title>
    <description>Watch my new video</description>
  </item>
  <item>
    <title>   </title>
  </item>
  <item>
    <title>What do you think?</title>
  </item>
</channel>
</rss>`

func TestReadFeed(t *testing.T) {
	posts, err := ReadFeed(strings.NewReader(sampleFeed))
	require.NoError(t, err)
	assert.Equal(t, []string{
		"hot take: tabs are better than spaces",
		"Watch my new video",
		"What do you think?",
	}, posts)
}

func TestReadFeedInvalid(t *testing.T) {
	_, err := ReadFeed(strings.NewReader("not a feed"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse feed")
}
