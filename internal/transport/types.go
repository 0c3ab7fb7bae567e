// Package transport defines the chat-delivery contract the bot depends
// on. Services talk to an Adapter; the concrete binding (Telegram) lives
// in a subpackage so nothing above it imports a bot library directly.
package transport

import "context"

type ChatTarget struct {
	ChatID   int64
	ThreadID int // telegram forum topic thread id (0 if none)
}

type MessageRef struct {
	ChatID    int64
	ThreadID  int
	MessageID int
}

type SendOptions struct {
	ParseMode      string
	DisablePreview bool
}

// Adapter is a one-way delivery channel. This bot never reads messages,
// so there is no update stream.
type Adapter interface {
	SendText(ctx context.Context, to ChatTarget, text string, opt *SendOptions) (MessageRef, error)
	Close() error
}
