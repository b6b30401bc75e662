package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDataset() *Dataset {
	return &Dataset{
		Seeds: []string{"alice", "bob"},
		Users: []User{
			{ID: "2", ScreenName: "bob", FriendIDs: []string{"1", "9"}},
			{ID: "1", ScreenName: "alice", FriendIDs: []string{"9"}},
		},
		Posts: []Post{
			{ID: "p1", AuthorID: "1", Text: "good day"},
			{ID: "p2", AuthorID: "7", Text: ""},
		},
	}
}

func TestDataset_Validate(t *testing.T) {
	require.NoError(t, sampleDataset().Validate())

	t.Run("missing user id", func(t *testing.T) {
		ds := sampleDataset()
		ds.Users[0].ID = ""
		err := ds.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Dataset.Users[0].ID")
	})

	t.Run("empty friend id", func(t *testing.T) {
		ds := sampleDataset()
		ds.Users[1].FriendIDs = []string{""}
		require.Error(t, ds.Validate())
	})

	t.Run("duplicate user", func(t *testing.T) {
		ds := sampleDataset()
		ds.Users[1].ID = "2"
		err := ds.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate user id")
	})

	t.Run("duplicate post", func(t *testing.T) {
		ds := sampleDataset()
		ds.Posts[1].ID = "p1"
		require.ErrorContains(t, ds.Validate(), "duplicate post id")
	})

	t.Run("post without author", func(t *testing.T) {
		ds := sampleDataset()
		ds.Posts[0].AuthorID = ""
		require.ErrorContains(t, ds.Validate(), "AuthorID")
	})
}

func TestDataset_Lookups(t *testing.T) {
	ds := sampleDataset()
	assert.Equal(t, []string{"1", "2"}, ds.UserIDs())
	assert.Equal(t, map[string]string{"1": "alice", "2": "bob"}, ds.ScreenNames())
}

func TestNormalizeFriends(t *testing.T) {
	in := []string{"5", "3", "", "5", "self", "1"}
	got := NormalizeFriends("self", in)

	assert.Equal(t, []string{"1", "3", "5"}, got)
	assert.Equal(t, []string{"5", "3", "", "5", "self", "1"}, in, "input must not be modified")
}
