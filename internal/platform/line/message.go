package line

import "encoding/json"

// Message is any outbound LINE message.
type Message interface {
	messageType() string
}

// TextMessage is a plain-text message.
type TextMessage struct {
	Text string
}

func NewTextMessage(text string) TextMessage {
	return TextMessage{Text: text}
}

func (TextMessage) messageType() string { return "text" }

func (m TextMessage) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type string `json:"type"`
		Text string `json:"text"`
	}{Type: m.messageType(), Text: m.Text})
}

// FlexMessage wraps a Flex container with the alt text shown in
// notifications and chat lists.
type FlexMessage struct {
	AltText  string
	Contents FlexContainer
}

func NewFlexMessage(altText string, contents FlexContainer) FlexMessage {
	return FlexMessage{AltText: altText, Contents: contents}
}

func (FlexMessage) messageType() string { return "flex" }

func (m FlexMessage) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type     string        `json:"type"`
		AltText  string        `json:"altText"`
		Contents FlexContainer `json:"contents"`
	}{Type: m.messageType(), AltText: m.AltText, Contents: m.Contents})
}
