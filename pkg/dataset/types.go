// Package dataset holds the records the collector produces and every later
// stage consumes: seed users with their friend ids, and the posts found for
// them.
package dataset

import (
	"fmt"
	"slices"
	"time"

	"github.com/dd0wney/cluso-social/pkg/validation"
)

// Kind is the artifact kind under which a Dataset is stored.
const Kind = "dataset"

// User is a collected account. FriendIDs are the accounts it follows.
type User struct {
	ID         string   `json:"id" validate:"required"`
	ScreenName string   `json:"screen_name" validate:"required"`
	Name       string   `json:"name,omitempty"`
	FriendIDs  []string `json:"friend_ids" validate:"dive,required"`
}

// Post is a collected message. Query is the seed name whose search found it.
type Post struct {
	ID       string `json:"id" validate:"required"`
	AuthorID string `json:"author_id" validate:"required"`
	Text     string `json:"text"`
	Query    string `json:"query,omitempty"`
}

// Dataset is the collector's output.
type Dataset struct {
	Seeds       []string  `json:"seeds"`
	Users       []User    `json:"users" validate:"dive"`
	Posts       []Post    `json:"posts" validate:"dive"`
	CollectedAt time.Time `json:"collected_at"`
}

// Validate checks field tags and rejects duplicate user or post ids.
func (d *Dataset) Validate() error {
	if err := validation.Struct(d); err != nil {
		return err
	}

	users := make(map[string]struct{}, len(d.Users))
	for i, u := range d.Users {
		if _, dup := users[u.ID]; dup {
			return fmt.Errorf("Dataset.Users[%d]: duplicate user id %q", i, u.ID)
		}
		users[u.ID] = struct{}{}
	}

	posts := make(map[string]struct{}, len(d.Posts))
	for i, p := range d.Posts {
		if _, dup := posts[p.ID]; dup {
			return fmt.Errorf("Dataset.Posts[%d]: duplicate post id %q", i, p.ID)
		}
		posts[p.ID] = struct{}{}
	}

	return nil
}

// UserIDs returns the collected user ids in sorted order.
func (d *Dataset) UserIDs() []string {
	ids := make([]string, 0, len(d.Users))
	for _, u := range d.Users {
		ids = append(ids, u.ID)
	}
	slices.Sort(ids)
	return ids
}

// ScreenNames maps user id to screen name.
func (d *Dataset) ScreenNames() map[string]string {
	names := make(map[string]string, len(d.Users))
	for _, u := range d.Users {
		names[u.ID] = u.ScreenName
	}
	return names
}

// NormalizeFriends sorts ids, drops empties and duplicates, and removes
// selfID. The input slice is not modified.
func NormalizeFriends(selfID string, ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != "" && id != selfID {
			out = append(out, id)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}
