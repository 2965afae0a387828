package workspace

import (
	"slices"
	"strings"
)

// Kind is the identity tag of a card. It is the sole identity key for
// card uniqueness: at most one node per kind exists in a workspace.
//
// Kinds come in two families:
//   - Static kinds: the closed set of constants below (settings panels,
//     logs, cache controls, and the single main stream preview).
//   - Channel preview kinds: "preview:<channel>", created and destroyed
//     at runtime as the operator opens live previews of other channels.
//
// Go has no closed sum types, so Kind is a validated string tag: every
// Kind in a workspace has passed through ParseKind, PreviewKind, or one
// of the constants. Raw strings from persisted state never become Kinds
// without validation.
type Kind string

// Static card kinds.
const (
	KindMainPreview Kind = "main-preview"

	KindGeneralBasic      Kind = "general-basic"
	KindGeneralAppearance Kind = "general-appearance"
	KindChatSettings      Kind = "chat-settings"
	KindChatFilters       Kind = "chat-filters"
	KindChatBadges        Kind = "chat-badges"
	KindEmoteSettings     Kind = "emote-settings"
	KindEmoteCache        Kind = "emote-cache"
	KindViewerList        Kind = "viewer-list"
	KindViewerModeration  Kind = "viewer-moderation"
	KindChannelInfo       Kind = "channel-info"
	KindChannelRewards    Kind = "channel-rewards"
	KindAlertSettings     Kind = "alert-settings"
	KindAlertSounds       Kind = "alert-sounds"
	KindOverlaySettings   Kind = "overlay-settings"
	KindConnectionIRC     Kind = "connection-irc"
	KindConnectionAuth    Kind = "connection-auth"
	KindFollowedRail      Kind = "followed-rail"
	KindLogsChat          Kind = "logs-chat"
	KindLogsEvents        Kind = "logs-events"
	KindCacheControls     Kind = "cache-controls"
	KindHotkeys           Kind = "hotkeys"
	KindAudioSettings     Kind = "audio-settings"
	KindNotifications     Kind = "notifications"
	KindPlaybackSettings  Kind = "playback-settings"
	KindThemeEditor       Kind = "theme-editor"
	KindLayoutSettings    Kind = "layout-settings"
	KindAbout             Kind = "about"
)

// previewPrefix tags channel preview kinds: "preview:<channel>".
const previewPrefix = "preview:"

// staticKinds is the closed set used for persisted-kind validation.
var staticKinds = map[Kind]bool{
	KindMainPreview:       true,
	KindGeneralBasic:      true,
	KindGeneralAppearance: true,
	KindChatSettings:      true,
	KindChatFilters:       true,
	KindChatBadges:        true,
	KindEmoteSettings:     true,
	KindEmoteCache:        true,
	KindViewerList:        true,
	KindViewerModeration:  true,
	KindChannelInfo:       true,
	KindChannelRewards:    true,
	KindAlertSettings:     true,
	KindAlertSounds:       true,
	KindOverlaySettings:   true,
	KindConnectionIRC:     true,
	KindConnectionAuth:    true,
	KindFollowedRail:      true,
	KindLogsChat:          true,
	KindLogsEvents:        true,
	KindCacheControls:     true,
	KindHotkeys:           true,
	KindAudioSettings:     true,
	KindNotifications:     true,
	KindPlaybackSettings:  true,
	KindThemeEditor:       true,
	KindLayoutSettings:    true,
	KindAbout:             true,
}

// StaticKinds returns every non-parametric kind in the catalog, sorted.
func StaticKinds() []Kind {
	kinds := make([]Kind, 0, len(staticKinds))
	for k := range staticKinds {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)
	return kinds
}

// legacyKinds remaps kind strings written by older builds to their
// current names. Unknown strings not covered here are dropped at the
// persistence read boundary.
var legacyKinds = map[string]Kind{
	"stream-preview":  KindMainPreview,
	"general":         KindGeneralBasic,
	"appearance":      KindGeneralAppearance,
	"chat":            KindChatSettings,
	"emotes":          KindEmoteSettings,
	"chatters":        KindViewerList,
	"irc":             KindConnectionIRC,
	"auth":            KindConnectionAuth,
	"log":             KindLogsChat,
	"cache":           KindCacheControls,
	"followed":        KindFollowedRail,
	"preview-sidebar": KindFollowedRail,
}

// NormalizeChannel canonicalizes a channel identifier: trimmed,
// lowercased, stripped of a leading '#'. Twitch logins are
// case-insensitive; normalizing here keeps kind identity stable.
func NormalizeChannel(channel string) string {
	channel = strings.TrimSpace(strings.ToLower(channel))
	return strings.TrimPrefix(channel, "#")
}

// PreviewKind builds the kind for a live preview of the given channel.
// Returns the empty Kind for an empty channel.
func PreviewKind(channel string) Kind {
	ch := NormalizeChannel(channel)
	if ch == "" {
		return ""
	}
	return Kind(previewPrefix + ch)
}

// ParseKind validates a raw kind string, applying legacy aliases.
// Returns false for strings that are neither a known static kind nor a
// well-formed channel preview kind.
func ParseKind(raw string) (Kind, bool) {
	if k, ok := legacyKinds[raw]; ok {
		return k, true
	}
	k := Kind(raw)
	if staticKinds[k] {
		return k, true
	}
	if ch, ok := strings.CutPrefix(raw, previewPrefix); ok {
		if pk := PreviewKind(ch); pk != "" {
			return pk, true
		}
	}
	return "", false
}

// IsChannelPreview reports whether the kind is a parametric per-channel
// preview ("preview:<channel>").
func (k Kind) IsChannelPreview() bool {
	return strings.HasPrefix(string(k), previewPrefix)
}

// IsPreviewFamily reports whether the kind embeds a live stream view:
// the main preview or any channel preview. Only preview-family cards
// participate in the z-order band and can be expanded.
func (k Kind) IsPreviewFamily() bool {
	return k == KindMainPreview || k.IsChannelPreview()
}

// Channel returns the embedded channel for channel preview kinds, and
// the empty string for everything else.
func (k Kind) Channel() string {
	if ch, ok := strings.CutPrefix(string(k), previewPrefix); ok {
		return ch
	}
	return ""
}
