package workspace

import (
	"strings"

	"github.com/castdeck/castdeck/pkg/geometry"
)

// Layout constants shared by the catalog and the mutation surface.
const (
	// GridSize is the snap grid for card positions and sizes, in canvas units.
	GridSize = 20

	// SpawnMargin is the clearance kept around a newly spawned card when
	// testing candidate positions against existing cards.
	SpawnMargin = 24
)

// Default and minimum card sizes per kind family. Preview cards keep a
// video-friendly footprint: the minimum holds the embedded player above
// Twitch's autoplay threshold.
var (
	defaultStaticSize  = geometry.Size{Width: 500, Height: 400}
	defaultPreviewSize = geometry.SnapSize(geometry.Size{Width: 620, Height: 360}, GridSize)

	minStaticSize  = geometry.Size{Width: 320, Height: 220}
	minPreviewSize = geometry.Size{Width: 400, Height: 336}
)

// sizeOverrides adjusts the static default for kinds whose content wants
// a different footprint.
var sizeOverrides = map[Kind]geometry.Size{
	KindLogsChat:     {Width: 560, Height: 480},
	KindLogsEvents:   {Width: 560, Height: 480},
	KindViewerList:   {Width: 380, Height: 520},
	KindFollowedRail: {Width: 340, Height: 560},
	KindAbout:        {Width: 420, Height: 300},
}

var kindTitles = map[Kind]string{
	KindMainPreview:       "Stream Preview",
	KindGeneralBasic:      "General",
	KindGeneralAppearance: "Appearance",
	KindChatSettings:      "Chat",
	KindChatFilters:       "Chat Filters",
	KindChatBadges:        "Chat Badges",
	KindEmoteSettings:     "Emotes",
	KindEmoteCache:        "Emote Cache",
	KindViewerList:        "Viewers",
	KindViewerModeration:  "Moderation",
	KindChannelInfo:       "Channel Info",
	KindChannelRewards:    "Channel Rewards",
	KindAlertSettings:     "Alerts",
	KindAlertSounds:       "Alert Sounds",
	KindOverlaySettings:   "Overlay",
	KindConnectionIRC:     "IRC Connection",
	KindConnectionAuth:    "Authentication",
	KindFollowedRail:      "Followed Channels",
	KindLogsChat:          "Chat Log",
	KindLogsEvents:        "Event Log",
	KindCacheControls:     "Cache",
	KindHotkeys:           "Hotkeys",
	KindAudioSettings:     "Audio",
	KindNotifications:     "Notifications",
	KindPlaybackSettings:  "Playback",
	KindThemeEditor:       "Theme",
	KindLayoutSettings:    "Layout",
	KindAbout:             "About",
}

// DefaultSize returns the spawn size for a kind.
func DefaultSize(k Kind) geometry.Size {
	if k.IsPreviewFamily() {
		return defaultPreviewSize
	}
	if s, ok := sizeOverrides[k]; ok {
		return s
	}
	return defaultStaticSize
}

// MinSize returns the smallest size a card of this kind may be resized to.
func MinSize(k Kind) geometry.Size {
	if k.IsPreviewFamily() {
		return minPreviewSize
	}
	return minStaticSize
}

// Title resolves a human label for a kind. Channel preview titles are
// synthesized from the embedded channel name.
func Title(k Kind) string {
	if k.IsChannelPreview() {
		return "Preview: " + k.Channel()
	}
	if t, ok := kindTitles[k]; ok {
		return t
	}
	// Unknown kinds only appear transiently (e.g. in logs); humanize.
	words := strings.Split(string(k), "-")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
