package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-social/pkg/algorithms"
	"github.com/dd0wney/cluso-social/pkg/artifact"
	"github.com/dd0wney/cluso-social/pkg/dataset"
	"github.com/dd0wney/cluso-social/pkg/graph"
	"github.com/dd0wney/cluso-social/pkg/sentiment"
)

func sampleDataset() *dataset.Dataset {
	return &dataset.Dataset{
		Seeds: []string{"alice", "bob", "carol"},
		Users: []dataset.User{
			{ID: "1", ScreenName: "alice", FriendIDs: []string{"2", "9"}},
			{ID: "2", ScreenName: "bob", FriendIDs: []string{"1", "9"}},
			{ID: "3", ScreenName: "carol", FriendIDs: []string{"8"}},
		},
		Posts: []dataset.Post{
			{ID: "p1", AuthorID: "7", Text: "good good"},
			{ID: "p2", AuthorID: "7", Text: "bad"},
			{ID: "p3", AuthorID: "8", Text: "hello   world"},
		},
	}
}

func samplePartition(t *testing.T) *algorithms.Partition {
	t.Helper()
	g := graph.New()
	g.AddEdge("1", "2")
	g.AddEdge("1", "9")
	g.AddEdge("2", "9")
	g.AddNode("3")
	p, err := algorithms.GirvanNewman(g, algorithms.GirvanNewmanOptions{TargetComponents: 2})
	require.NoError(t, err)
	return p
}

func sampleSentiment(ds *dataset.Dataset) *sentiment.Result {
	return sentiment.NewResult(ds.Posts, sentiment.Lexicon{"good": 2, "bad": -3}, "test", sentiment.LexiconStats{Entries: 2})
}

func TestBuild(t *testing.T) {
	ds := sampleDataset()
	s := Build(ds, samplePartition(t), sampleSentiment(ds))

	assert.Equal(t, 3, s.Seeds)
	assert.Equal(t, 3, s.Users)
	assert.Equal(t, 3, s.Posts)
	assert.True(t, s.HasPartition)
	assert.Equal(t, 1, s.Communities)
	assert.Equal(t, 1, s.Outliers)
	assert.Equal(t, 3, s.LargestCommunity)
	assert.InDelta(t, 3.0, s.AvgCommunitySize, 1e-9)
	assert.Equal(t, 0, s.EdgesRemoved)
	assert.Equal(t, 4, s.GraphNodes)
	assert.Equal(t, 3, s.GraphEdges)

	assert.True(t, s.HasSentiment)
	assert.Equal(t, 3, s.Classified)
	assert.Equal(t, map[sentiment.Label]int{sentiment.Positive: 1, sentiment.Negative: 1, sentiment.Neutral: 1}, s.Sentiment)
	assert.Equal(t, "p1", s.Examples[sentiment.Positive].PostID)

	assert.Equal(t, graph.FriendCount{ID: "9", Count: 2}, s.MostCommon[0])
	assert.Equal(t, graph.Overlap{A: "alice", B: "bob", Shared: 1}, s.Overlaps[0])
	assert.Equal(t, SeedFriends{ScreenName: "carol", Friends: 1}, s.FriendsPerSeed[2])
}

func TestBuild_NoPartitionOrSentiment(t *testing.T) {
	s := Build(&dataset.Dataset{}, nil, nil)

	assert.False(t, s.HasPartition)
	assert.False(t, s.HasSentiment)
	assert.Equal(t, 0, s.Communities)
	assert.Equal(t, 0, s.Outliers)
	for _, l := range sentiment.Labels {
		count, ok := s.Sentiment[l]
		assert.True(t, ok, "label %s present", l)
		assert.Equal(t, 0, count)
	}

	out := Plain(s)
	assert.Contains(t, out, "Communities:")
	assert.Contains(t, out, "positive")
	assert.NotContains(t, out, "Example posts")
}

func TestRender(t *testing.T) {
	ds := sampleDataset()
	s := Build(ds, samplePartition(t), sampleSentiment(ds))
	s.Warnings = []string{"something odd"}

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, s))
	out := buf.String()

	for _, want := range []string{
		"Users collected:",
		"Communities:",
		"Outliers:",
		"Average users per community:  3.00",
		"Modularity:",
		"Posts by sentiment:",
		"positive (+4)",
		"hello world",
		"Most common friends:",
		"alice / bob",
		"- something odd",
	} {
		assert.Contains(t, out, want)
	}
}

func TestStyled(t *testing.T) {
	ds := sampleDataset()
	s := Build(ds, samplePartition(t), sampleSentiment(ds))
	s.Warnings = []string{"heads up"}

	out := Styled(s)
	assert.Contains(t, out, "cluso-social summary")
	assert.Contains(t, out, "Communities")
	assert.Contains(t, out, "negative")
	assert.Contains(t, out, "heads up")
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "a b c", excerpt(" a\n b\tc "))
	long := strings.Repeat("é", 2*exampleWidth)
	got := excerpt(long)
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.Equal(t, exampleWidth, len([]rune(got)))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	ds := sampleDataset()
	in := Inputs{
		Dataset:   filepath.Join(dir, "dataset.json"),
		Partition: filepath.Join(dir, "partition.json.sz"),
		Sentiment: filepath.Join(dir, "sentiment.json"),
	}

	_, err := artifact.Write(in.Dataset, dataset.Kind, "run", ds)
	require.NoError(t, err)

	t.Run("optional inputs missing", func(t *testing.T) {
		s, err := Load(in, nil)
		require.NoError(t, err)
		assert.Equal(t, 3, s.Users)
		assert.Equal(t, 0, s.Communities)
		assert.Len(t, s.Warnings, 2)
		assert.Contains(t, Plain(s), "not found")
	})

	t.Run("all inputs", func(t *testing.T) {
		_, err := artifact.Write(in.Partition, algorithms.Kind, "run", samplePartition(t))
		require.NoError(t, err)
		_, err = artifact.Write(in.Sentiment, sentiment.Kind, "run", sampleSentiment(ds))
		require.NoError(t, err)

		s, err := Load(in, nil)
		require.NoError(t, err)
		assert.Empty(t, s.Warnings)
		assert.Equal(t, 1, s.Communities)
		assert.Equal(t, 1, s.Sentiment[sentiment.Negative])
	})

	t.Run("wrong kind is an error", func(t *testing.T) {
		bad := in
		bad.Partition = in.Sentiment
		_, err := Load(bad, nil)
		assert.ErrorIs(t, err, artifact.ErrKindMismatch)
	})

	t.Run("missing dataset", func(t *testing.T) {
		bad := in
		bad.Dataset = filepath.Join(dir, "none.json")
		_, err := Load(bad, nil)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}
