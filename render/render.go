package render

import (
	"bskyposts/feed"
	"bskyposts/utils"
	"fmt"
	"html/template"
	"io"
	"strings"
)

var templates = template.Must(template.New("posts").Parse(
	`<h1>Posts:</h1>` +
		`{{range .}}<div class="post"><h3>{{.Post.Author.Name}}</h3><p>{{.Post.Record.Text}}</p>` +
		`<span>replies: {{.Post.ReplyCount}}</span><br />` +
		`<span>reposts: {{.Post.RepostCount}}</span><br />` +
		`<span>likes: {{.Post.LikeCount}}</span></div>{{end}}`,
))

func init() {
	template.Must(templates.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; max-width: 40em; margin: 2em auto; }
.post { border-bottom: 1px solid #ddd; padding: 0.5em 0; }
.post span { color: #555; font-size: 0.9em; }
</style>
</head>
<body>
<div id="root">{{template "posts" .Entries}}</div>
</body>
</html>
`))
}

// JSONString returns entries as indented JSON. An empty or nil slice
// serializes as "[]".
func JSONString(entries []feed.Entry) (string, error) {
	if entries == nil {
		entries = []feed.Entry{}
	}
	bytes, err := utils.ToPrettyJson(entries)
	if err != nil {
		return "", fmt.Errorf("marshal entries: %w", err)
	}
	return string(bytes), nil
}

func JSON(w io.Writer, entries []feed.Entry) error {
	s, err := JSONString(entries)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, s)
	return err
}

// HTML writes the posts fragment: a heading followed by one div per entry.
func HTML(w io.Writer, entries []feed.Entry) error {
	return templates.ExecuteTemplate(w, "posts", entries)
}

// Page writes a complete HTML document embedding the posts fragment.
func Page(w io.Writer, title string, entries []feed.Entry) error {
	return templates.ExecuteTemplate(w, "page", struct {
		Title   string
		Entries []feed.Entry
	}{title, entries})
}

func Console(w io.Writer, entries []feed.Entry) error {
	for _, entry := range entries {
		if err := writeBlock(w, entry, false); err != nil {
			return err
		}
	}
	return nil
}

// Raw writes every entry of an unfiltered page, marking reposts and replies.
func Raw(w io.Writer, entries []feed.Entry) error {
	if _, err := fmt.Fprintf(w, "%d entries\n\n", len(entries)); err != nil {
		return err
	}
	for _, entry := range entries {
		if err := writeBlock(w, entry, true); err != nil {
			return err
		}
	}
	return nil
}

func writeBlock(w io.Writer, entry feed.Entry, markers bool) error {
	var b strings.Builder
	author := entry.Post.Author

	fmt.Fprintf(&b, "%s (@%s)", author.Name(), author.Handle)
	if markers {
		switch {
		case feed.IsRepost(entry) && entry.Reason.By != nil:
			fmt.Fprintf(&b, " [repost by @%s]", entry.Reason.By.Handle)
		case feed.IsRepost(entry):
			b.WriteString(" [repost]")
		case entry.Reason != nil && entry.Reason.Type == feed.ReasonPin:
			b.WriteString(" [pinned]")
		case entry.Reason != nil:
			fmt.Fprintf(&b, " [%s]", entry.Reason.Type)
		}
		if feed.IsReply(entry) {
			fmt.Fprintf(&b, " [reply to %s]", entry.Post.Record.Reply.Parent.Uri)
		}
	}
	b.WriteString("\n")
	if markers {
		fmt.Fprintf(&b, "%s\n", entry.Post.Uri)
	}
	fmt.Fprintf(&b, "%s\n", entry.Post.Record.Text)
	fmt.Fprintf(
		&b,
		"replies: %d  reposts: %d  likes: %d\n\n",
		entry.Post.ReplyCount,
		entry.Post.RepostCount,
		entry.Post.LikeCount,
	)

	_, err := io.WriteString(w, b.String())
	return err
}
