package instagram

import (
	"fmt"
	"time"

	"github.com/codeGROOVE-dev/igrelay/jsonutil"
	"github.com/codeGROOVE-dev/igrelay/profile"
)

// Normalize flattens an upstream document into a profile.Profile. The only
// precondition is a non-null object at data.user; every other anomaly is
// absorbed by per-field defaulting, so a successful return always carries a
// value for every documented field.
func Normalize(doc map[string]any, username string) (*profile.Profile, error) {
	user := jsonutil.Object(jsonutil.Object(doc, "data"), "user")
	if user == nil {
		return nil, fmt.Errorf("%w: no user document for %q", profile.ErrProfileUnavailable, username)
	}

	p := &profile.Profile{
		Username:       jsonutil.String(user, "username"),
		UserID:         jsonutil.String(user, "id"),
		FullName:       jsonutil.String(user, "full_name"),
		Bio:            jsonutil.String(user, "biography"),
		ExternalURL:    jsonutil.String(user, "external_url"),
		Website:        jsonutil.String(user, "external_url"),
		ProfilePicture: jsonutil.String(user, "profile_pic_url_hd"),

		FollowersCount:       jsonutil.Count(user, "edge_followed_by"),
		FollowingCount:       jsonutil.Count(user, "edge_follow"),
		PostsCount:           jsonutil.Count(user, "edge_owner_to_timeline_media"),
		MutualFollowersCount: jsonutil.Count(user, "edge_mutual_followed_by"),
		HighlightReelCount:   jsonutil.Int(user, "highlight_reel_count"),

		IsBusinessAccount:              jsonutil.Bool(user, "is_business_account"),
		IsPrivate:                      jsonutil.Bool(user, "is_private"),
		IsVerified:                     jsonutil.Bool(user, "is_verified"),
		CountryBlock:                   jsonutil.Bool(user, "country_block"),
		HasArEffects:                   jsonutil.Bool(user, "has_ar_effects"),
		HasClips:                       jsonutil.Bool(user, "has_clips"),
		HasGuides:                      jsonutil.Bool(user, "has_guides"),
		HasChannel:                     jsonutil.Bool(user, "has_channel"),
		HasBlockedViewer:               jsonutil.Bool(user, "has_blocked_viewer"),
		IsJoinedRecently:               jsonutil.Bool(user, "is_joined_recently"),
		RestrictedByViewer:             jsonutil.Bool(user, "restricted_by_viewer"),
		ShouldShowCategory:             jsonutil.Bool(user, "should_show_category"),
		ShouldShowPublicContacts:       jsonutil.Bool(user, "should_show_public_contacts"),
		ShowAccountTransparencyDetails: jsonutil.Bool(user, "show_account_transparency_details"),
		TransparencyProductEnabled:     jsonutil.Bool(user, "transparency_product_enabled"),

		BusinessCategory:      jsonutil.String(user, "business_category_name"),
		BusinessEmail:         jsonutil.String(user, "business_email"),
		BusinessPhone:         jsonutil.String(user, "business_phone_number"),
		BusinessAddress:       nullableString(user, "business_address_json"),
		ConnectedFacebookPage: nullableString(user, "connected_facebook_page"),
		BusinessContactMethod: jsonutil.String(user, "business_contact_method"),
		Category:              jsonutil.String(user, "category"),
		CategoryName:          jsonutil.String(user, "category_name"),
		Pronouns:              jsonutil.StringOrJoined(user, "pronouns", ", "),
		TransparencyProduct:   jsonutil.String(user, "transparency_product"),

		RecentPosts: []profile.MediaItem{},
	}

	// Fall back to the requested username when the node omits its own.
	if p.Username == "" {
		p.Username = username
	}
	if p.ProfilePicture == "" {
		p.ProfilePicture = jsonutil.String(user, "profile_pic_url")
	}

	edges := jsonutil.Array(jsonutil.Object(user, "edge_owner_to_timeline_media"), "edges")
	for i, edge := range edges {
		if i >= mediaPageSize {
			break
		}
		var node map[string]any
		if wrapper, ok := edge.(map[string]any); ok {
			node = jsonutil.Object(wrapper, "node")
		}
		p.RecentPosts = append(p.RecentPosts, mediaItem(node))
	}

	if len(edges) > 0 {
		if wrapper, ok := edges[0].(map[string]any); ok {
			first := jsonutil.Object(wrapper, "node")
			if ts, ok := jsonutil.Epoch(first, "taken_at_timestamp"); ok {
				iso := isoFromEpoch(ts)
				p.CreatedAt = &iso
				p.LastPostTimestamp = &ts
			}
			if sc := jsonutil.String(first, "shortcode"); sc != "" {
				p.LastPostShortcode = &sc
			}
		}
	}

	return p, nil
}

// mediaItem flattens one timeline node. A nil node yields a fully-defaulted
// item rather than an error.
func mediaItem(node map[string]any) profile.MediaItem {
	item := profile.MediaItem{
		ID:            jsonutil.String(node, "id"),
		Shortcode:     jsonutil.String(node, "shortcode"),
		DisplayURL:    jsonutil.String(node, "display_url"),
		IsVideo:       jsonutil.Bool(node, "is_video"),
		CommentsCount: jsonutil.Count(node, "edge_media_to_comment"),
		LikesCount:    jsonutil.Count(node, "edge_liked_by"),
	}

	if item.LikesCount == 0 {
		item.LikesCount = jsonutil.Count(node, "edge_media_preview_like")
	}
	if item.IsVideo {
		item.VideoURL = jsonutil.String(node, "video_url")
	}
	if ts, ok := jsonutil.Epoch(node, "taken_at_timestamp"); ok {
		iso := isoFromEpoch(ts)
		item.TakenAt = &iso
	}

	return item
}

// nullableString returns a pointer to the string at key, or nil when the
// value is missing, null, or not a string.
func nullableString(m map[string]any, key string) *string {
	if s, ok := m[key].(string); ok {
		return &s
	}
	return nil
}

func isoFromEpoch(ts int64) string {
	return time.Unix(ts, 0).UTC().Format(time.RFC3339)
}
