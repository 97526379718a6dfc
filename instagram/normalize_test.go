package instagram

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/codeGROOVE-dev/igrelay/profile"
)

func TestNormalizeMissingUser(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty document", `{}`},
		{"data without user", `{"data":{}}`},
		{"null user", `{"data":{"user":null}}`},
		{"user wrong type", `{"data":{"user":"nope"}}`},
		{"null data", `{"data":null}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Normalize(decode(t, tt.raw), "someone")
			if !errors.Is(err, profile.ErrProfileUnavailable) {
				t.Errorf("err = %v, want ErrProfileUnavailable", err)
			}
			if p != nil {
				t.Errorf("profile should be nil on precondition failure, got %+v", p)
			}
		})
	}
}

func TestNormalizeMinimalDocument(t *testing.T) {
	raw := `{"data":{"user":{
		"username":"a",
		"edge_followed_by":{"count":5},
		"edge_follow":{},
		"edge_owner_to_timeline_media":{"edges":[]}
	}}}`

	p, err := Normalize(decode(t, raw), "a")
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	if p.FollowersCount != 5 {
		t.Errorf("FollowersCount = %d, want 5", p.FollowersCount)
	}
	if p.FollowingCount != 0 {
		t.Errorf("FollowingCount = %d, want 0", p.FollowingCount)
	}
	if p.PostsCount != 0 {
		t.Errorf("PostsCount = %d, want 0", p.PostsCount)
	}
	if len(p.RecentPosts) != 0 {
		t.Errorf("RecentPosts = %v, want empty", p.RecentPosts)
	}
	if p.RecentPosts == nil {
		t.Error("RecentPosts should be an empty slice, not nil")
	}
	if p.CreatedAt != nil || p.LastPostTimestamp != nil || p.LastPostShortcode != nil {
		t.Errorf("post summary should be null: %v %v %v", p.CreatedAt, p.LastPostTimestamp, p.LastPostShortcode)
	}
}

func TestNormalizeMissingAggregates(t *testing.T) {
	// No aggregate nodes at all: every count must default to 0 without error.
	raw := `{"data":{"user":{"username":"bare"}}}`

	p, err := Normalize(decode(t, raw), "bare")
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	if p.FollowersCount != 0 || p.FollowingCount != 0 || p.PostsCount != 0 ||
		p.MutualFollowersCount != 0 || p.HighlightReelCount != 0 {
		t.Errorf("all counts should default to 0, got %+v", p)
	}
	if len(p.RecentPosts) != 0 {
		t.Errorf("RecentPosts = %v, want empty", p.RecentPosts)
	}
}

func TestNormalizeFullDocument(t *testing.T) {
	raw := `{"data":{"user":{
		"id":"42",
		"username":"ada",
		"full_name":"Ada Lovelace",
		"biography":"first programmer",
		"external_url":"https://example.com",
		"profile_pic_url":"https://cdn/pic.jpg",
		"profile_pic_url_hd":"https://cdn/pic_hd.jpg",
		"is_private":true,
		"is_verified":true,
		"highlight_reel_count":3,
		"category_name":"Science",
		"pronouns":["she","her"],
		"edge_followed_by":{"count":100},
		"edge_follow":{"count":50},
		"edge_mutual_followed_by":{"count":7},
		"edge_owner_to_timeline_media":{
			"count":2,
			"edges":[
				{"node":{
					"id":"p1","shortcode":"AbC","display_url":"https://cdn/p1.jpg",
					"is_video":true,"video_url":"https://cdn/p1.mp4",
					"taken_at_timestamp":1609459200,
					"edge_liked_by":{"count":10},
					"edge_media_to_comment":{"count":2}
				}},
				{"node":{
					"id":"p2","shortcode":"DeF","display_url":"https://cdn/p2.jpg",
					"is_video":false,
					"video_url":"https://cdn/should-not-appear.mp4",
					"edge_media_preview_like":{"count":4}
				}}
			]
		}
	}}}`

	p, err := Normalize(decode(t, raw), "ada")
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	iso := "2021-01-01T00:00:00Z"
	ts := int64(1609459200)
	sc := "AbC"
	want := &profile.Profile{
		Username:             "ada",
		UserID:               "42",
		FullName:             "Ada Lovelace",
		Bio:                  "first programmer",
		ExternalURL:          "https://example.com",
		Website:              "https://example.com",
		ProfilePicture:       "https://cdn/pic_hd.jpg",
		FollowersCount:       100,
		FollowingCount:       50,
		PostsCount:           2,
		MutualFollowersCount: 7,
		HighlightReelCount:   3,
		IsPrivate:            true,
		IsVerified:           true,
		CategoryName:         "Science",
		Pronouns:             "she, her",
		CreatedAt:            &iso,
		LastPostTimestamp:    &ts,
		LastPostShortcode:    &sc,
		RecentPosts: []profile.MediaItem{
			{
				ID: "p1", Shortcode: "AbC", TakenAt: &iso,
				DisplayURL: "https://cdn/p1.jpg",
				IsVideo:    true, VideoURL: "https://cdn/p1.mp4",
				LikesCount: 10, CommentsCount: 2,
			},
			{
				ID: "p2", Shortcode: "DeF",
				DisplayURL: "https://cdn/p2.jpg",
				LikesCount: 4,
			},
		},
	}

	if diff := cmp.Diff(want, p); diff != "" {
		t.Errorf("Normalize mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeCapsRecentPosts(t *testing.T) {
	edges := ""
	for i := range 15 {
		if i > 0 {
			edges += ","
		}
		edges += fmt.Sprintf(`{"node":{"id":"p%d"}}`, i)
	}
	raw := `{"data":{"user":{"username":"busy","edge_owner_to_timeline_media":{"edges":[` + edges + `]}}}}`

	p, err := Normalize(decode(t, raw), "busy")
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	if len(p.RecentPosts) != 12 {
		t.Errorf("len(RecentPosts) = %d, want 12", len(p.RecentPosts))
	}
	// Upstream order is preserved, never re-sorted.
	if p.RecentPosts[0].ID != "p0" || p.RecentPosts[11].ID != "p11" {
		t.Errorf("posts out of order: first=%s last=%s", p.RecentPosts[0].ID, p.RecentPosts[11].ID)
	}
}

func TestNormalizeMalformedTimestamp(t *testing.T) {
	raw := `{"data":{"user":{
		"username":"odd",
		"edge_owner_to_timeline_media":{"edges":[
			{"node":{"shortcode":"XyZ","taken_at_timestamp":"not-a-number"}}
		]}
	}}}`

	p, err := Normalize(decode(t, raw), "odd")
	if err != nil {
		t.Fatalf("a malformed timestamp must not abort normalization: %v", err)
	}

	if p.CreatedAt != nil || p.LastPostTimestamp != nil {
		t.Error("CreatedAt/LastPostTimestamp should be null for a malformed timestamp")
	}
	if p.LastPostShortcode == nil || *p.LastPostShortcode != "XyZ" {
		t.Errorf("LastPostShortcode = %v, want XyZ", p.LastPostShortcode)
	}
	if p.RecentPosts[0].TakenAt != nil {
		t.Error("TakenAt should be null for a malformed timestamp")
	}
}

func TestNormalizeMalformedEdges(t *testing.T) {
	// Wrapper entries of the wrong shape become fully-defaulted items.
	raw := `{"data":{"user":{
		"username":"weird",
		"edge_owner_to_timeline_media":{"edges":["garbage",{"no_node":true}]}
	}}}`

	p, err := Normalize(decode(t, raw), "weird")
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	if len(p.RecentPosts) != 2 {
		t.Fatalf("len(RecentPosts) = %d, want 2", len(p.RecentPosts))
	}
	for i, item := range p.RecentPosts {
		if item.ID != "" || item.IsVideo || item.TakenAt != nil {
			t.Errorf("item %d should be fully defaulted, got %+v", i, item)
		}
	}
}

func TestNormalizeProfilePictureFallback(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			"prefers hd",
			`{"data":{"user":{"profile_pic_url":"std","profile_pic_url_hd":"hd"}}}`,
			"hd",
		},
		{
			"falls back to standard",
			`{"data":{"user":{"profile_pic_url":"std"}}}`,
			"std",
		},
		{
			"empty when both absent",
			`{"data":{"user":{"username":"x"}}}`,
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Normalize(decode(t, tt.raw), "x")
			if err != nil {
				t.Fatalf("Normalize failed: %v", err)
			}
			if p.ProfilePicture != tt.want {
				t.Errorf("ProfilePicture = %q, want %q", p.ProfilePicture, tt.want)
			}
		})
	}
}

func TestNormalizeNullableBusinessFields(t *testing.T) {
	withValues := `{"data":{"user":{
		"username":"biz",
		"business_address_json":"{\"city_name\":\"Berlin\"}",
		"connected_facebook_page":"BizPage"
	}}}`

	p, err := Normalize(decode(t, withValues), "biz")
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if p.BusinessAddress == nil || *p.BusinessAddress != `{"city_name":"Berlin"}` {
		t.Errorf("BusinessAddress = %v", p.BusinessAddress)
	}
	if p.ConnectedFacebookPage == nil || *p.ConnectedFacebookPage != "BizPage" {
		t.Errorf("ConnectedFacebookPage = %v", p.ConnectedFacebookPage)
	}

	withoutValues := `{"data":{"user":{"username":"plain","connected_facebook_page":null}}}`
	p, err = Normalize(decode(t, withoutValues), "plain")
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if p.BusinessAddress != nil || p.ConnectedFacebookPage != nil {
		t.Error("absent business fields should be null")
	}
}

func TestNormalizeUsernameFallback(t *testing.T) {
	p, err := Normalize(decode(t, `{"data":{"user":{"id":"9"}}}`), "requested")
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if p.Username != "requested" {
		t.Errorf("Username = %q, want the requested name", p.Username)
	}
}

func decode(t *testing.T, raw string) map[string]any {
	t.Helper()
	var doc map[string]any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		t.Fatalf("test document invalid: %v", err)
	}
	return doc
}
