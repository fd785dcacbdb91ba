package event

import (
	"context"
	"errors"
	"html"
	"strings"
	"time"

	"anoa.com/blogsocial/internal/entity"
	"github.com/google/uuid"
	"github.com/meilisearch/meilisearch-go"
	"github.com/microcosm-cc/bluemonday"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

const (
	blogsIndex    = "blogs"
	profilesIndex = "profiles"
	signerKeyName = "BlogsocialTenantTokenSigner"
)

var ErrSearchTokenUnavailable = errors.New("search signing key not initialized")

// GraphReader is the read side the search sink loads current records from.
type GraphReader interface {
	Blog(ctx context.Context, id entity.BlogID) (*entity.Blog, error)
	SocialAccount(ctx context.Context, account uuid.UUID) (*entity.SocialAccount, error)
}

type blogDoc struct {
	ID             uint64   `json:"id"`
	Slug           string   `json:"slug"`
	IpfsHash       string   `json:"ipfs_hash"`
	Owner          string   `json:"owner"`
	Writers        []string `json:"writers"`
	PostsCount     uint32   `json:"posts_count"`
	FollowersCount uint32   `json:"followers_count"`
	Score          int32    `json:"score"`
	UpdatedAt      int64    `json:"updated_at"`
}

type profileDoc struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	IpfsHash       string `json:"ipfs_hash"`
	Reputation     uint32 `json:"reputation"`
	FollowersCount uint32 `json:"followers_count"`
	UpdatedAt      int64  `json:"updated_at"`
}

// SearchSink keeps the meilisearch blogs and profiles indexes current.
type SearchSink struct {
	client    meilisearch.ServiceManager
	reader    GraphReader
	sanitizer *bluemonday.Policy
	log       *zap.Logger

	signingKeyUID string
	signingKey    string
}

func NewSearchSink(client meilisearch.ServiceManager, reader GraphReader, log *zap.Logger) *SearchSink {
	s := &SearchSink{
		client:    client,
		reader:    reader,
		sanitizer: bluemonday.StrictPolicy(),
		log:       log,
	}
	s.initIndexes()
	s.initSigningKey()
	return s
}

func (s *SearchSink) Name() string { return "search" }

func (s *SearchSink) initIndexes() {
	filterable := []any{"owner", "writers"}
	if _, err := s.client.Index(blogsIndex).UpdateFilterableAttributes(&filterable); err != nil {
		s.log.Warn("failed to update blogs filterable attributes", zap.Error(err))
	}
	sortable := []string{"score", "followers_count", "updated_at"}
	if _, err := s.client.Index(blogsIndex).UpdateSortableAttributes(&sortable); err != nil {
		s.log.Warn("failed to update blogs sortable attributes", zap.Error(err))
	}
	profileSortable := []string{"reputation", "followers_count"}
	if _, err := s.client.Index(profilesIndex).UpdateSortableAttributes(&profileSortable); err != nil {
		s.log.Warn("failed to update profiles sortable attributes", zap.Error(err))
	}
}

func (s *SearchSink) initSigningKey() {
	resp, err := s.client.GetKeys(&meilisearch.KeysQuery{Limit: 20})
	if err != nil {
		s.log.Warn("failed to list meilisearch keys", zap.Error(err))
		return
	}
	for _, key := range resp.Results {
		if key.Name == signerKeyName {
			s.signingKeyUID, s.signingKey = key.UID, key.Key
			return
		}
	}

	key, err := s.client.CreateKey(&meilisearch.Key{
		Name:        signerKeyName,
		Description: "Signs tenant tokens for blog and profile search",
		Actions:     []string{"search"},
		Indexes:     []string{blogsIndex, profilesIndex},
		ExpiresAt:   time.Now().AddDate(100, 0, 0),
	})
	if err != nil {
		s.log.Warn("failed to create meilisearch signing key", zap.Error(err))
		return
	}
	s.signingKeyUID, s.signingKey = key.UID, key.Key
}

// SearchToken issues a tenant token clients can query both indexes with.
func (s *SearchSink) SearchToken() (string, error) {
	if s.signingKeyUID == "" || s.signingKey == "" {
		return "", ErrSearchTokenUnavailable
	}
	rules := map[string]any{blogsIndex: map[string]any{}, profilesIndex: map[string]any{}}
	return s.client.GenerateTenantToken(s.signingKeyUID, rules, &meilisearch.TenantTokenOptions{
		APIKey:    s.signingKey,
		ExpiresAt: time.Now().Add(24 * time.Hour),
	})
}

func (s *SearchSink) Deliver(ctx context.Context, events []Event) error {
	var blogs []blogDoc
	var profiles []profileDoc
	for _, e := range events {
		switch e.Kind {
		case BlogCreated, BlogUpdated:
			blog, err := s.reader.Blog(ctx, e.BlogID)
			if err != nil {
				return err
			}
			blogs = append(blogs, s.blogDocument(blog))
		case ProfileCreated, ProfileUpdated:
			acc, err := s.reader.SocialAccount(ctx, e.Actor)
			if err != nil {
				return err
			}
			if doc, ok := s.profileDocument(e.Actor, acc); ok {
				profiles = append(profiles, doc)
			}
		}
	}

	if len(blogs) > 0 {
		if _, err := s.client.Index(blogsIndex).AddDocuments(lo.UniqBy(blogs, func(d blogDoc) uint64 { return d.ID }), strPtr("id")); err != nil {
			return err
		}
	}
	if len(profiles) > 0 {
		if _, err := s.client.Index(profilesIndex).AddDocuments(lo.UniqBy(profiles, func(d profileDoc) string { return d.ID }), strPtr("id")); err != nil {
			return err
		}
	}
	return nil
}

func (s *SearchSink) blogDocument(blog *entity.Blog) blogDoc {
	updated := blog.Created.Time
	if blog.Updated != nil {
		updated = blog.Updated.Time
	}
	return blogDoc{
		ID:             uint64(blog.ID),
		Slug:           s.clean(blog.Slug),
		IpfsHash:       s.clean(blog.IpfsHash),
		Owner:          blog.Owner().String(),
		Writers:        lo.Map(blog.Writers, func(w uuid.UUID, _ int) string { return w.String() }),
		PostsCount:     blog.PostsCount,
		FollowersCount: blog.FollowersCount,
		Score:          blog.Score,
		UpdatedAt:      updated.Unix(),
	}
}

func (s *SearchSink) profileDocument(account uuid.UUID, acc *entity.SocialAccount) (profileDoc, bool) {
	if acc.Profile == nil {
		return profileDoc{}, false
	}
	updated := acc.Profile.Created.Time
	if acc.Profile.Updated != nil {
		updated = acc.Profile.Updated.Time
	}
	return profileDoc{
		ID:             account.String(),
		Username:       s.clean(acc.Profile.Username),
		IpfsHash:       s.clean(acc.Profile.IpfsHash),
		Reputation:     acc.Reputation,
		FollowersCount: acc.FollowersCount,
		UpdatedAt:      updated.Unix(),
	}, true
}

// clean strips markup so only plain text reaches the index.
func (s *SearchSink) clean(value string) string {
	sanitized := html.UnescapeString(s.sanitizer.Sanitize(value))
	return strings.Join(strings.Fields(sanitized), " ")
}

func strPtr(s string) *string {
	return &s
}
