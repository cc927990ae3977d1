package util

import (
	"bytes"
	"io"

	"golang.org/x/net/html"
)

// StripTags returns the text content of an HTML fragment, with all tags
// removed. It reads at most the first 4000 bytes, which is plenty for
// building an excerpt.
func StripTags(input io.Reader) string {

	tokenizer := html.NewTokenizerFragment(input, "body")
	tokenizer.SetMaxBuf(4096) // roughly the maximum number of bytes tokenized

	var text = &bytes.Buffer{}
	var offset = 0

	for {

		tt := tokenizer.Next()
		if tt == html.ErrorToken {
			break // assuming tokenizer.Err() == io.EOF
		}

		if tt == html.TextToken {
			if text.Len() > 0 {
				text.WriteByte(' ')
			}
			text.Write(tokenizer.Text())
		}

		offset += len(tokenizer.Raw())
		if offset > 4000 {
			break
		}
	}

	return text.String()
}
