package collector

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-social/pkg/social"
)

type fakeSource struct {
	users   map[string]social.User
	friends map[string][]string
	posts   map[string][]social.Post
	failOn  string
	calls   []string
}

func (f *fakeSource) LookupUser(_ context.Context, name string) (*social.User, error) {
	f.calls = append(f.calls, "lookup:"+name)
	if f.failOn == "lookup:"+name {
		return nil, &social.APIError{Endpoint: social.EndpointUsersLookup, StatusCode: 401}
	}
	u, ok := f.users[name]
	if !ok {
		return nil, social.ErrUserNotFound
	}
	return &u, nil
}

func (f *fakeSource) FriendIDs(_ context.Context, name string, count int) ([]string, error) {
	f.calls = append(f.calls, fmt.Sprintf("friends:%s:%d", name, count))
	ids := f.friends[name]
	if len(ids) > count {
		ids = ids[:count]
	}
	return ids, nil
}

func (f *fakeSource) SearchPosts(_ context.Context, query string, count int) ([]social.Post, error) {
	f.calls = append(f.calls, fmt.Sprintf("search:%s:%d", query, count))
	if f.failOn == "search:"+query {
		return nil, &social.APIError{Endpoint: social.EndpointSearch, StatusCode: 429}
	}
	return f.posts[query], nil
}

func post(id, author, text string) social.Post {
	var p social.Post
	p.ID, p.Text, p.User.ID = id, text, author
	return p
}

func newFake() *fakeSource {
	return &fakeSource{
		users: map[string]social.User{
			"alice": {ID: "1", ScreenName: "alice", Name: "Alice"},
			"bob":   {ID: "2", ScreenName: "bob"},
		},
		friends: map[string][]string{
			"alice": {"9", "2", "9", "1", "7"},
			"bob":   {"1", "8"},
		},
		posts: map[string][]social.Post{
			"alice": {post("100", "50", "good"), post("101", "51", "bad")},
			"bob":   {post("101", "51", "bad"), post("102", "52", "meh"), post("", "53", "no id")},
		},
	}
}

func TestReadSeeds(t *testing.T) {
	seeds, err := ReadSeeds(strings.NewReader("# seeds\nalice\n\n  @Bob \nALICE\nbob\ncarol\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "Bob", "carol"}, seeds)

	_, err = ReadSeeds(strings.NewReader("# only comments\n\n"))
	assert.ErrorIs(t, err, ErrNoSeeds)
}

func TestReadSeedsFile_Missing(t *testing.T) {
	_, err := ReadSeedsFile(t.TempDir() + "/nope.txt")
	require.Error(t, err)
}

func TestCollect(t *testing.T) {
	src := newFake()
	ds, err := Collect(context.Background(), src, []string{"alice", "bob"}, Limits{MaxFriends: 4, MaxPosts: 10})
	require.NoError(t, err)

	assert.Equal(t, []string{"alice", "bob"}, ds.Seeds)
	require.Len(t, ds.Users, 2)
	assert.Equal(t, []string{"2", "9"}, ds.Users[0].FriendIDs, "limited, sorted, deduplicated, no self")
	assert.Equal(t, []string{"1", "8"}, ds.Users[1].FriendIDs)
	assert.Equal(t, "Alice", ds.Users[0].Name)

	ids := make([]string, 0, len(ds.Posts))
	for _, p := range ds.Posts {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"100", "101", "102"}, ids, "deduplicated across seeds")
	assert.Equal(t, "alice", ds.Posts[1].Query, "first seed to find a post owns it")
	assert.Equal(t, "51", ds.Posts[1].AuthorID)
	assert.False(t, ds.CollectedAt.IsZero())
	assert.NoError(t, ds.Validate())
}

func TestCollect_NoPostsWhenLimitZero(t *testing.T) {
	src := newFake()
	ds, err := Collect(context.Background(), src, []string{"bob"}, Limits{MaxFriends: 10})
	require.NoError(t, err)
	assert.Empty(t, ds.Posts)
	assert.Equal(t, []string{"lookup:bob", "friends:bob:10"}, src.calls)
}

func TestCollect_DuplicateUserKeptOnce(t *testing.T) {
	src := newFake()
	src.users["alice2"] = src.users["alice"]
	ds, err := Collect(context.Background(), src, []string{"alice", "alice2"}, Limits{MaxFriends: 10})
	require.NoError(t, err)
	assert.Len(t, ds.Users, 1)
	assert.Equal(t, []string{"alice", "alice2"}, ds.Seeds)
}

func TestCollect_Errors(t *testing.T) {
	t.Run("no seeds", func(t *testing.T) {
		_, err := Collect(context.Background(), newFake(), nil, Limits{MaxFriends: 1})
		assert.ErrorIs(t, err, ErrNoSeeds)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := Collect(context.Background(), newFake(), []string{"zed"}, Limits{MaxFriends: 1})
		assert.ErrorIs(t, err, social.ErrUserNotFound)
		assert.ErrorContains(t, err, "lookup zed")
	})

	t.Run("api error aborts", func(t *testing.T) {
		src := newFake()
		src.failOn = "search:bob"
		_, err := Collect(context.Background(), src, []string{"alice", "bob"}, Limits{MaxFriends: 1, MaxPosts: 5})
		var apiErr *social.APIError
		require.True(t, errors.As(err, &apiErr))
		assert.True(t, apiErr.RateLimited())
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		src := newFake()
		_, err := Collect(ctx, src, []string{"alice"}, Limits{MaxFriends: 1})
		assert.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, src.calls)
	})
}

func TestCollect_AgainstHTTPAPI(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/users/lookup.json", func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Query().Get("screen_name")
		id := map[string]string{"alice": "1", "bob": "2"}[name]
		fmt.Fprintf(w, `[{"id_str":%q,"screen_name":%q}]`, id, name)
	})
	mux.HandleFunc("/friends/ids.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ids":["3","2","1"]}`))
	})
	mux.HandleFunc("/search/tweets.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"statuses":[{"id_str":"500","text":"good day","user":{"id_str":"9"}}]}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := social.New(srv.URL, social.WithBearerToken("t"))
	ds, err := Collect(context.Background(), client, []string{"alice", "bob"}, Limits{MaxFriends: 100, MaxPosts: 5})
	require.NoError(t, err)

	require.Len(t, ds.Users, 2)
	assert.Equal(t, []string{"2", "3"}, ds.Users[0].FriendIDs)
	assert.Equal(t, []string{"1", "3"}, ds.Users[1].FriendIDs)
	require.Len(t, ds.Posts, 1)
	assert.Equal(t, "alice", ds.Posts[0].Query)
}
