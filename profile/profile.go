// Package profile defines the normalized Instagram profile types and the
// closed error taxonomy shared by the fetcher and the HTTP layer.
package profile

import "errors"

// Classified failures. Callers match these with errors.Is; the HTTP layer
// maps each to a distinct status code and user-facing message.
var (
	ErrProfileUnavailable = errors.New("user not found or profile is private")
	ErrRateLimited        = errors.New("rate limited")
	ErrAuthRequired       = errors.New("authentication required")
	ErrForbidden          = errors.New("access forbidden")
	ErrTimeout            = errors.New("upstream timed out")
	ErrNoCookies          = errors.New("no cookies available")
)

// Profile is the fully-defaulted output record. Every field is always
// present in the JSON encoding; only the pointer fields may be null.
//
//nolint:govet // fieldalignment: intentional layout for readability
type Profile struct {
	// Identity
	Username string `json:"username"`
	UserID   string `json:"userID"`

	// Profile metadata. Website duplicates ExternalURL; both are populated
	// from the upstream external_url value.
	FullName       string `json:"fullName"`
	Bio            string `json:"bio"`
	ExternalURL    string `json:"externalUrl"`
	Website        string `json:"website"`
	ProfilePicture string `json:"profilePicture"`

	// Counters
	FollowersCount       int `json:"followersCount"`
	FollowingCount       int `json:"followingCount"`
	PostsCount           int `json:"postsCount"`
	MutualFollowersCount int `json:"mutualFollowersCount"`
	HighlightReelCount   int `json:"highlightReelCount"`

	// Flags
	IsBusinessAccount              bool `json:"isBusinessAccount"`
	IsPrivate                      bool `json:"isPrivate"`
	IsVerified                     bool `json:"isVerified"`
	CountryBlock                   bool `json:"countryBlock"`
	HasArEffects                   bool `json:"hasArEffects"`
	HasClips                       bool `json:"hasClips"`
	HasGuides                      bool `json:"hasGuides"`
	HasChannel                     bool `json:"hasChannel"`
	HasBlockedViewer               bool `json:"hasBlockedViewer"`
	IsJoinedRecently               bool `json:"isJoinedRecently"`
	RestrictedByViewer             bool `json:"restrictedByViewer"`
	ShouldShowCategory             bool `json:"shouldShowCategory"`
	ShouldShowPublicContacts       bool `json:"shouldShowPublicContacts"`
	ShowAccountTransparencyDetails bool `json:"showAccountTransparencyDetails"`
	TransparencyProductEnabled     bool `json:"transparencyProductEnabled"`

	// Business and category data
	BusinessCategory      string  `json:"businessCategory"`
	BusinessEmail         string  `json:"businessEmail"`
	BusinessPhone         string  `json:"businessPhone"`
	BusinessAddress       *string `json:"businessAddress"`
	ConnectedFacebookPage *string `json:"connectedFacebookPage"`
	BusinessContactMethod string  `json:"businessContactMethod"`
	Category              string  `json:"category"`
	CategoryName          string  `json:"categoryName"`
	Pronouns              string  `json:"pronouns"`
	TransparencyProduct   string  `json:"transparencyProduct"`

	// Most recent post summary. All three are null when the profile has no
	// visible media.
	CreatedAt         *string `json:"createdAt"`
	LastPostTimestamp *int64  `json:"lastPostTimestamp"`
	LastPostShortcode *string `json:"lastPostShortcode"`

	// Up to 12 most recent posts in upstream (reverse-chronological) order.
	// Never nil: an empty profile yields an empty slice.
	RecentPosts []MediaItem `json:"recentPosts"`
}

// MediaItem is one timeline post.
type MediaItem struct {
	ID            string  `json:"id"`
	Shortcode     string  `json:"shortcode"`
	TakenAt       *string `json:"takenAt"`
	DisplayURL    string  `json:"displayUrl"`
	IsVideo       bool    `json:"isVideo"`
	VideoURL      string  `json:"videoUrl"`
	LikesCount    int     `json:"likesCount"`
	CommentsCount int     `json:"commentsCount"`
}
