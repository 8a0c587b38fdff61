package bluesky

import (
	"bskyposts/monitoring/middleware"
	"context"
	"errors"
	comatproto "github.com/bluesky-social/indigo/api/atproto"
	"github.com/bluesky-social/indigo/atproto/identity"
	"github.com/bluesky-social/indigo/atproto/syntax"
	"github.com/bluesky-social/indigo/xrpc"
	log "github.com/sirupsen/logrus"
	"net/http"
	"sync"
	"time"
)

const (
	DefaultService   = "https://bsky.social"
	DefaultFeedLimit = 50

	// Same as the API default: the author's posts and replies, no media filter
	authorFeedFilter = "posts_with_replies"
)

var (
	createSession  = middleware.NewXRPCMiddleware("com.atproto.server.createSession")
	refreshSession = middleware.NewXRPCMiddleware("com.atproto.server.refreshSession")
)

type Options struct {
	// Service is the PDS or entryway the session is created against.
	Service string

	// PDSLookup resolves the account's PDS through the identity directory
	// instead of using Service.
	PDSLookup bool

	Timeout   time.Duration
	FeedLimit int64
}

// Session is an authenticated connection to the Bluesky API, safe for use by
// multiple goroutines. Expired access tokens are refreshed on demand.
type Session struct {
	httpClient *http.Client
	host       string
	feedLimit  int64

	mu   sync.RWMutex
	auth *xrpc.AuthInfo
}

func Login(ctx context.Context, identifier string, password string, opts Options) (*Session, error) {
	if identifier == "" || password == "" {
		return nil, &AuthError{Identifier: identifier, Err: errors.New("missing credentials")}
	}

	host := opts.Service
	if host == "" {
		host = DefaultService
	}
	if opts.PDSLookup {
		pdsURL, err := lookupPDS(ctx, identifier)
		if err != nil {
			return nil, &AuthError{Identifier: identifier, Err: err}
		}
		host = pdsURL
	}

	feedLimit := opts.FeedLimit
	if feedLimit <= 0 {
		feedLimit = DefaultFeedLimit
	}

	s := &Session{
		httpClient: &http.Client{Timeout: opts.Timeout},
		host:       host,
		feedLimit:  feedLimit,
	}

	var sess *comatproto.ServerCreateSession_Output
	err := createSession.HandleCall(ctx, func(ctx context.Context) error {
		var err error
		sess, err = comatproto.ServerCreateSession(ctx, s.client(), &comatproto.ServerCreateSession_Input{
			Identifier: identifier,
			Password:   password,
		})
		return err
	})
	if err != nil {
		return nil, &AuthError{Identifier: identifier, Err: err}
	}

	s.auth = &xrpc.AuthInfo{
		AccessJwt:  sess.AccessJwt,
		RefreshJwt: sess.RefreshJwt,
		Handle:     sess.Handle,
		Did:        sess.Did,
	}
	log.Infof("Logged in to %s as %s (%s)", host, sess.Handle, sess.Did)

	return s, nil
}

func (s *Session) Did() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.auth.Did
}

func (s *Session) Handle() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.auth.Handle
}

// client returns an xrpc client carrying the current credentials. Each call
// gets its own client so a refresh never races with requests in flight.
func (s *Session) client() *xrpc.Client {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return &xrpc.Client{
		Client: s.httpClient,
		Host:   s.host,
		Auth:   s.auth,
	}
}

// call runs handler through m. If the access token has expired, the session is
// refreshed and handler runs once more.
func (s *Session) call(
	ctx context.Context,
	m *middleware.XRPCMiddleware,
	handler func(context.Context, *xrpc.Client) error,
) error {
	client := s.client()
	err := m.HandleCall(ctx, func(ctx context.Context) error {
		return handler(ctx, client)
	})
	if !isExpiredToken(err) {
		return err
	}

	log.Info("Access token expired, refreshing session")
	if err := s.refresh(ctx, client.Auth); err != nil {
		return err
	}

	client = s.client()
	return m.HandleCall(ctx, func(ctx context.Context) error {
		return handler(ctx, client)
	})
}

// refresh replaces the expired credentials. Concurrent callers holding the
// same expired credentials share a single refresh.
func (s *Session) refresh(ctx context.Context, expired *xrpc.AuthInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.auth != expired {
		return nil
	}

	// refreshSession authenticates with the refresh token
	refreshClient := &xrpc.Client{
		Client: s.httpClient,
		Host:   s.host,
		Auth:   &xrpc.AuthInfo{AccessJwt: expired.RefreshJwt},
	}

	var out *comatproto.ServerRefreshSession_Output
	err := refreshSession.HandleCall(ctx, func(ctx context.Context) error {
		var err error
		out, err = comatproto.ServerRefreshSession(ctx, refreshClient)
		return err
	})
	if err != nil {
		return &AuthError{Identifier: expired.Handle, Err: err}
	}

	s.auth = &xrpc.AuthInfo{
		AccessJwt:  out.AccessJwt,
		RefreshJwt: out.RefreshJwt,
		Handle:     out.Handle,
		Did:        out.Did,
	}
	log.Infof("Refreshed session of %s", out.Handle)
	return nil
}

func lookupPDS(ctx context.Context, identifier string) (string, error) {
	id, err := syntax.ParseAtIdentifier(identifier)
	if err != nil {
		return "", err
	}

	dir := identity.DefaultDirectory()
	ident, err := dir.Lookup(ctx, *id)
	if err != nil {
		return "", err
	}
	pdsURL := ident.PDSEndpoint()
	if pdsURL == "" {
		return "", errors.New("empty PDS URL")
	}
	return pdsURL, nil
}
