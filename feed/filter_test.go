package feed

import (
	"reflect"
	"testing"
)

func post(uri string) Entry {
	return Entry{Post: Post{Uri: uri, Record: Record{Text: uri}}}
}

func repost(uri string) Entry {
	e := post(uri)
	e.Reason = &Reason{Type: ReasonRepost, By: &Author{Handle: "bob.test"}}
	return e
}

func reply(uri string) Entry {
	e := post(uri)
	e.Post.Record.Reply = &ReplyRef{
		Root:   StrongRef{Uri: "at://root"},
		Parent: StrongRef{Uri: "at://parent"},
	}
	return e
}

func uris(entries []Entry) []string {
	result := make([]string, 0, len(entries))
	for _, e := range entries {
		result = append(result, e.Post.Uri)
	}
	return result
}

var filterTests = []struct {
	name     string
	entries  []Entry
	expected []string
}{
	{"empty", []Entry{}, []string{}},
	{"nil", nil, []string{}},
	{"repost, original, reply", []Entry{repost("a"), post("b"), reply("c")}, []string{"b"}},
	{"all reposts", []Entry{repost("a"), repost("b")}, []string{}},
	{"all replies", []Entry{reply("a"), reply("b")}, []string{}},
	{"order preserved", []Entry{post("a"), repost("b"), post("c"), reply("d"), post("e")}, []string{"a", "c", "e"}},
	{
		"other reason types kept",
		[]Entry{{Post: Post{Uri: "a"}, Reason: &Reason{Type: ReasonPin}}},
		[]string{"a"},
	},
	{
		"reposted reply dropped",
		[]Entry{func() Entry { e := reply("a"); e.Reason = &Reason{Type: ReasonRepost}; return e }()},
		[]string{},
	},
}

func TestFilterOriginal(t *testing.T) {
	for _, tt := range filterTests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterOriginal(tt.entries)
			if got == nil {
				t.Fatal("got nil slice, want empty slice")
			}
			if !reflect.DeepEqual(uris(got), tt.expected) {
				t.Errorf("got %v, want %v", uris(got), tt.expected)
			}
		})
	}
}

func TestFilterOriginalIdempotent(t *testing.T) {
	for _, tt := range filterTests {
		t.Run(tt.name, func(t *testing.T) {
			once := FilterOriginal(tt.entries)
			twice := FilterOriginal(once)
			if !reflect.DeepEqual(once, twice) {
				t.Errorf("got %v, want %v", uris(twice), uris(once))
			}
		})
	}
}

func TestFilterOriginalLeavesInputUntouched(t *testing.T) {
	entries := []Entry{repost("a"), post("b"), reply("c")}
	snapshot := make([]Entry, len(entries))
	copy(snapshot, entries)

	FilterOriginal(entries)

	if !reflect.DeepEqual(entries, snapshot) {
		t.Errorf("input modified: got %v, want %v", uris(entries), uris(snapshot))
	}
}

func TestIsOriginal(t *testing.T) {
	tests := []struct {
		name     string
		entry    Entry
		expected bool
	}{
		{"plain post", post("a"), true},
		{"repost", repost("a"), false},
		{"reply", reply("a"), false},
		{"empty record", Entry{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsOriginal(tt.entry); got != tt.expected {
				t.Errorf("got %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestAuthorName(t *testing.T) {
	tests := []struct {
		author   Author
		expected string
	}{
		{Author{Handle: "alice.test", DisplayName: "Alice"}, "Alice"},
		{Author{Handle: "alice.test"}, "alice.test"},
	}
	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.author.Name(); got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}
