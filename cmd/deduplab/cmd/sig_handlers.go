// Copyright © 2018 One Concern

package cmd

import (
	"context"
	"os"
	"os/signal"
)

// interruptible yields a context canceled on SIGINT, so long running commands stop
// between two writes. Output produced so far is left in place.
func interruptible() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}
