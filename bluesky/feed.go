package bluesky

import (
	"bskyposts/feed"
	"bskyposts/monitoring/middleware"
	"context"
	appbsky "github.com/bluesky-social/indigo/api/bsky"
	"github.com/bluesky-social/indigo/atproto/syntax"
	"github.com/bluesky-social/indigo/xrpc"
	log "github.com/sirupsen/logrus"
)

var (
	getProfile    = middleware.NewXRPCMiddleware("app.bsky.actor.getProfile")
	getAuthorFeed = middleware.NewXRPCMiddleware("app.bsky.feed.getAuthorFeed")
)

// ResolveProfile looks up actor, a handle or a DID, and returns its profile.
func (s *Session) ResolveProfile(ctx context.Context, actor string) (feed.Profile, error) {
	id, err := syntax.ParseAtIdentifier(actor)
	if err != nil {
		return feed.Profile{}, &ResolutionError{Actor: actor, Malformed: true, Err: err}
	}

	var profile *appbsky.ActorDefs_ProfileViewDetailed
	err = s.call(ctx, getProfile, func(ctx context.Context, client *xrpc.Client) error {
		var err error
		profile, err = appbsky.ActorGetProfile(ctx, client, id.String())
		return err
	})
	if err != nil {
		return feed.Profile{}, &ResolutionError{Actor: actor, NotFound: isNotFound(err), Err: err}
	}

	log.Debugf("Resolved '%s' to %s", actor, profile.Did)
	return feed.Profile{
		Did:         profile.Did,
		Handle:      profile.Handle,
		DisplayName: stringValue(profile.DisplayName),
	}, nil
}

// GetAuthorFeed returns a single page of the author feed of did. The cursor
// of the response is discarded.
func (s *Session) GetAuthorFeed(ctx context.Context, did string) ([]feed.Entry, error) {
	var out *appbsky.FeedGetAuthorFeed_Output
	err := s.call(ctx, getAuthorFeed, func(ctx context.Context, client *xrpc.Client) error {
		var err error
		out, err = appbsky.FeedGetAuthorFeed(ctx, client, did, "", authorFeedFilter, false, s.feedLimit)
		return err
	})
	if err != nil {
		return nil, &FetchError{Actor: did, Err: err}
	}

	entries := make([]feed.Entry, 0, len(out.Feed))
	for _, item := range out.Feed {
		if item == nil || item.Post == nil {
			log.Warnf("Skipping feed item without post for %s", did)
			continue
		}
		entries = append(entries, feedViewPostToEntry(item))
	}
	log.Debugf("Fetched %d feed entries for %s", len(entries), did)
	return entries, nil
}

func feedViewPostToEntry(item *appbsky.FeedDefs_FeedViewPost) feed.Entry {
	pv := item.Post
	entry := feed.Entry{
		Post: feed.Post{
			Uri:         pv.Uri,
			Cid:         pv.Cid,
			Author:      authorFromView(pv.Author),
			ReplyCount:  int64Value(pv.ReplyCount),
			RepostCount: int64Value(pv.RepostCount),
			LikeCount:   int64Value(pv.LikeCount),
			IndexedAt:   pv.IndexedAt,
		},
	}

	if pv.Record != nil {
		if post, ok := pv.Record.Val.(*appbsky.FeedPost); ok {
			entry.Post.Record = recordFromPost(post)
		} else {
			log.Warnf("Unexpected record type for %s", pv.Uri)
		}
	}

	if item.Reason != nil {
		entry.Reason = reasonFromView(item.Reason)
	}

	return entry
}

func reasonFromView(reason *appbsky.FeedDefs_FeedViewPost_Reason) *feed.Reason {
	switch {
	case reason.FeedDefs_ReasonRepost != nil:
		repost := reason.FeedDefs_ReasonRepost
		by := authorFromView(repost.By)
		return &feed.Reason{
			Type:      feed.ReasonRepost,
			By:        &by,
			IndexedAt: repost.IndexedAt,
		}
	case reason.FeedDefs_ReasonPin != nil:
		return &feed.Reason{Type: feed.ReasonPin}
	default:
		return nil
	}
}

func recordFromPost(post *appbsky.FeedPost) feed.Record {
	record := feed.Record{
		Text:      post.Text,
		CreatedAt: post.CreatedAt,
		Langs:     post.Langs,
	}
	if post.Reply != nil {
		reply := &feed.ReplyRef{}
		if post.Reply.Root != nil {
			reply.Root = feed.StrongRef{Uri: post.Reply.Root.Uri, Cid: post.Reply.Root.Cid}
		}
		if post.Reply.Parent != nil {
			reply.Parent = feed.StrongRef{Uri: post.Reply.Parent.Uri, Cid: post.Reply.Parent.Cid}
		}
		record.Reply = reply
	}
	return record
}

func authorFromView(view *appbsky.ActorDefs_ProfileViewBasic) feed.Author {
	if view == nil {
		return feed.Author{}
	}
	return feed.Author{
		Did:         view.Did,
		Handle:      view.Handle,
		DisplayName: stringValue(view.DisplayName),
	}
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func int64Value(i *int64) int64 {
	if i == nil {
		return 0
	}
	return *i
}
