package workspace

// PreviewHeader is the header metadata an external renderer supplies for
// a preview-family card.
type PreviewHeader struct {
	DisplayName string `json:"displayName"`
	Live        bool   `json:"live"`
	Warning     string `json:"warning,omitempty"`
}

// RenderBridge is the capability interface through which external code
// supplies card content. The engine consumes it; it never implements
// rendering itself. The dependency direction is strictly inward: content
// renderers receive a front-bring command via Commands and call back
// into the store, rather than the engine broadcasting outward.
type RenderBridge interface {
	// HasContent reports whether a renderer exists for the kind.
	// Kinds without content render an empty card body.
	HasContent(kind Kind) bool

	// Header returns header metadata for preview-family kinds.
	// Returns false for kinds without a preview header.
	Header(kind Kind) (PreviewHeader, bool)

	// InteractionEnabled reports whether pointer interaction on the
	// card's content is currently allowed. While one preview is being
	// actively controlled, background cards are locked.
	InteractionEnabled(kind Kind) bool
}

// CardCommands is handed down through the render bridge so deeply nested
// card content can signal the shell without an ambient event bus.
type CardCommands struct {
	// BringToFront raises the card above its preview siblings.
	BringToFront func()

	// ToggleExpand toggles the card's near-fullscreen state.
	ToggleExpand func()

	// Remove closes the card. disconnect asks the channel-connection
	// collaborator to drop the corresponding chat subscription.
	Remove func(disconnect bool)
}

// NopBridge is a RenderBridge with no content. Used by tests and the
// terminal inspector, where card bodies are not rendered.
type NopBridge struct{}

func (NopBridge) HasContent(Kind) bool              { return false }
func (NopBridge) Header(Kind) (PreviewHeader, bool) { return PreviewHeader{}, false }
func (NopBridge) InteractionEnabled(Kind) bool      { return true }

var _ RenderBridge = NopBridge{}

// ChannelDisconnector is the channel-connection collaborator notified
// when a channel preview card is removed with disconnect requested.
// Connection management itself is outside the engine.
type ChannelDisconnector interface {
	DisconnectChannel(channel string)
}
