package line

// Flex message containers and components, per the LINE Flex message schema.
// Only the subset used by the daily digest is modeled.

// FlexContainer is either a bubble or a carousel of bubbles.
type FlexContainer interface {
	containerType() string
}

// FlexCarousel holds up to twelve bubbles shown side by side.
type FlexCarousel struct {
	Type     string       `json:"type"`
	Contents []FlexBubble `json:"contents"`
}

func NewFlexCarousel(bubbles ...FlexBubble) FlexCarousel {
	return FlexCarousel{Type: "carousel", Contents: bubbles}
}

func (FlexCarousel) containerType() string { return "carousel" }

// FlexBubble is a single card with optional header, body and footer blocks.
type FlexBubble struct {
	Type   string   `json:"type"`
	Size   string   `json:"size,omitempty"`
	Header *FlexBox `json:"header,omitempty"`
	Body   *FlexBox `json:"body,omitempty"`
	Footer *FlexBox `json:"footer,omitempty"`
	Styles *Styles  `json:"styles,omitempty"`
}

func (FlexBubble) containerType() string { return "bubble" }

// Styles overrides block background colors.
type Styles struct {
	Header *BlockStyle `json:"header,omitempty"`
	Body   *BlockStyle `json:"body,omitempty"`
	Footer *BlockStyle `json:"footer,omitempty"`
}

type BlockStyle struct {
	BackgroundColor string `json:"backgroundColor,omitempty"`
	Separator       bool   `json:"separator,omitempty"`
}

// FlexComponent is any component nested inside a box.
type FlexComponent interface {
	componentType() string
}

// FlexBox lays out child components vertically, horizontally or as a baseline.
type FlexBox struct {
	Type            string          `json:"type"`
	Layout          string          `json:"layout"`
	Contents        []FlexComponent `json:"contents"`
	Spacing         string          `json:"spacing,omitempty"`
	Margin          string          `json:"margin,omitempty"`
	PaddingAll      string          `json:"paddingAll,omitempty"`
	BackgroundColor string          `json:"backgroundColor,omitempty"`
}

func (FlexBox) componentType() string { return "box" }

// FlexText is a text component.
type FlexText struct {
	Type    string `json:"type"`
	Text    string `json:"text"`
	Size    string `json:"size,omitempty"`
	Weight  string `json:"weight,omitempty"`
	Color   string `json:"color,omitempty"`
	Wrap    bool   `json:"wrap,omitempty"`
	Margin  string `json:"margin,omitempty"`
	Flex    *int   `json:"flex,omitempty"`
	Align   string `json:"align,omitempty"`
	Gravity string `json:"gravity,omitempty"`
}

func (FlexText) componentType() string { return "text" }

// FlexSeparator draws a horizontal rule between components.
type FlexSeparator struct {
	Type   string `json:"type"`
	Margin string `json:"margin,omitempty"`
	Color  string `json:"color,omitempty"`
}

func (FlexSeparator) componentType() string { return "separator" }

func NewFlexText(text string) FlexText {
	return FlexText{Type: "text", Text: text}
}

func NewFlexSeparator() FlexSeparator {
	return FlexSeparator{Type: "separator"}
}

func NewVerticalBox(contents ...FlexComponent) *FlexBox {
	return &FlexBox{Type: "box", Layout: "vertical", Contents: contents}
}

func NewHorizontalBox(contents ...FlexComponent) *FlexBox {
	return &FlexBox{Type: "box", Layout: "horizontal", Contents: contents}
}
