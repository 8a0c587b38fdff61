package feed

func IsRepost(entry Entry) bool {
	return entry.Reason != nil && entry.Reason.Type == ReasonRepost
}

func IsReply(entry Entry) bool {
	return entry.Post.Record.Reply != nil
}

// IsOriginal reports whether the entry was authored as a top level post:
// neither a repost of another account's post nor a reply.
func IsOriginal(entry Entry) bool {
	return !IsRepost(entry) && !IsReply(entry)
}

// FilterOriginal returns the original posts of entries in their input order.
// The input slice is left untouched and the result is never nil.
func FilterOriginal(entries []Entry) []Entry {
	result := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		if IsOriginal(entry) {
			result = append(result, entry)
		}
	}
	return result
}
