package feed

// Reason types the API attaches to feed entries
const (
	ReasonRepost = "app.bsky.feed.defs#reasonRepost"
	ReasonPin    = "app.bsky.feed.defs#reasonPin"
)

type Profile struct {
	Did         string `json:"did"`
	Handle      string `json:"handle"`
	DisplayName string `json:"displayName,omitempty"`
}

type Author struct {
	Did         string `json:"did"`
	Handle      string `json:"handle"`
	DisplayName string `json:"displayName,omitempty"`
}

// Name returns the display name, or the handle when the display name is empty.
func (a Author) Name() string {
	if a.DisplayName == "" {
		return a.Handle
	}
	return a.DisplayName
}

type StrongRef struct {
	Uri string `json:"uri"`
	Cid string `json:"cid"`
}

type ReplyRef struct {
	Root   StrongRef `json:"root"`
	Parent StrongRef `json:"parent"`
}

type Record struct {
	Text      string    `json:"text"`
	CreatedAt string    `json:"createdAt,omitempty"`
	Langs     []string  `json:"langs,omitempty"`
	Reply     *ReplyRef `json:"reply,omitempty"`
}

type Post struct {
	Uri         string `json:"uri"`
	Cid         string `json:"cid"`
	Author      Author `json:"author"`
	Record      Record `json:"record"`
	ReplyCount  int64  `json:"replyCount"`
	RepostCount int64  `json:"repostCount"`
	LikeCount   int64  `json:"likeCount"`
	IndexedAt   string `json:"indexedAt,omitempty"`
}

type Reason struct {
	Type      string  `json:"$type"`
	By        *Author `json:"by,omitempty"`
	IndexedAt string  `json:"indexedAt,omitempty"`
}

// Entry is a single item of an author feed page.
type Entry struct {
	Post   Post    `json:"post"`
	Reason *Reason `json:"reason,omitempty"`
}
