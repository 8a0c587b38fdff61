package feed

import (
	"bskyposts/monitoring"
	"context"
	log "github.com/sirupsen/logrus"
	"strings"
)

// Source is the remote service the fetcher reads profiles and feeds from.
type Source interface {
	ResolveProfile(ctx context.Context, actor string) (Profile, error)
	GetAuthorFeed(ctx context.Context, did string) ([]Entry, error)
}

type ProfileCache interface {
	GetProfile(ctx context.Context, handle string) (Profile, bool)
	AddProfile(ctx context.Context, handle string, profile Profile)
}

type Fetcher struct {
	source   Source
	profiles ProfileCache
}

// NewFetcher builds a Fetcher over source. profiles may be nil, in which
// case every handle is resolved remotely.
func NewFetcher(source Source, profiles ProfileCache) *Fetcher {
	return &Fetcher{
		source:   source,
		profiles: profiles,
	}
}

func (f *Fetcher) Resolve(ctx context.Context, handle string) (Profile, error) {
	handle = normalizeActor(handle)
	if f.profiles != nil {
		if profile, ok := f.profiles.GetProfile(ctx, handle); ok {
			log.Debugf("Profile cache hit for '%s'", handle)
			return profile, nil
		}
	}

	profile, err := f.source.ResolveProfile(ctx, handle)
	if err != nil {
		return Profile{}, err
	}

	if f.profiles != nil {
		f.profiles.AddProfile(ctx, handle, profile)
	}
	return profile, nil
}

// FetchFeed returns one unfiltered page of the author feed of handle.
func (f *Fetcher) FetchFeed(ctx context.Context, handle string) ([]Entry, error) {
	profile, err := f.Resolve(ctx, handle)
	if err != nil {
		return nil, err
	}
	return f.source.GetAuthorFeed(ctx, profile.Did)
}

func (f *Fetcher) FetchOriginalPosts(ctx context.Context, handle string) ([]Entry, error) {
	entries, err := f.FetchFeed(ctx, handle)
	if err != nil {
		return nil, err
	}

	observeEntries(entries)
	posts := FilterOriginal(entries)
	log.Infof("Kept %d of %d entries for '%s'", len(posts), len(entries), handle)
	return posts, nil
}

// Handles are case-insensitive, DIDs are not.
func normalizeActor(actor string) string {
	if strings.HasPrefix(actor, "did:") {
		return actor
	}
	return strings.ToLower(actor)
}

func observeEntries(entries []Entry) {
	for _, entry := range entries {
		kind := "original"
		switch {
		case IsRepost(entry):
			kind = "repost"
		case IsReply(entry):
			kind = "reply"
		}
		monitoring.FeedEntries.WithLabelValues(kind).Inc()
	}
}
