package window

import "fmt"

type MessageKind uint8

const (
	MessageUnknown MessageKind = iota
	MessageResize
	MessageMove
	MessageClose
	MessageDestroy
)

func (k MessageKind) String() string {
	switch k {
	case MessageResize:
		return "resize"
	case MessageMove:
		return "move"
	case MessageClose:
		return "close"
	case MessageDestroy:
		return "destroy"
	}
	return fmt.Sprintf("MessageKind(%d)", uint8(k))
}

// Message is a native window notification translated by a Backend.
type Message struct {
	Kind MessageKind

	// resize
	Width       uint32
	Height      uint32
	ResizeState ResizeState

	// move
	X int32
	Y int32
}

func ResizeMessage(width, height uint32, state ResizeState) Message {
	return Message{Kind: MessageResize, Width: width, Height: height, ResizeState: state}
}

func MoveMessage(x, y int32) Message {
	return Message{Kind: MessageMove, X: x, Y: y}
}

func CloseMessage() Message {
	return Message{Kind: MessageClose}
}

func DestroyMessage() Message {
	return Message{Kind: MessageDestroy}
}
