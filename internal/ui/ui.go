// Package ui holds the capabilities views use to talk to the user: toasts,
// confirmations and the shared terminal styles.
package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
)

// Level is the severity of a toast
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notifier shows short-lived messages to the user
type Notifier interface {
	Notify(level Level, message string)
}

// Confirmer asks the user a yes/no question
type Confirmer interface {
	Confirm(ctx context.Context, message string) bool
}

// Console writes toasts to a terminal stream
type Console struct {
	mu  sync.Mutex
	out io.Writer
}

// NewConsole creates a notifier writing to out
func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

var toastIcons = map[Level]string{
	LevelSuccess: "✅",
	LevelError:   "❌",
	LevelInfo:    "ℹ️",
}

func (c *Console) Notify(level Level, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if level == LevelError {
		slog.Debug("Error toast", "message", message)
	}
	style := ToastStyle(level)
	fmt.Fprintln(c.out, style.Render(toastIcons[level]+" "+message))
}

// Prompt asks on a terminal and reads y/n from in.
// With AssumeYes set every question is answered yes without reading.
type Prompt struct {
	In        io.Reader
	Out       io.Writer
	AssumeYes bool
}

func (p *Prompt) Confirm(ctx context.Context, message string) bool {
	if p.AssumeYes {
		return true
	}
	if ctx.Err() != nil {
		return false
	}
	fmt.Fprintf(p.Out, "%s [y/N] ", message)
	line, err := bufio.NewReader(p.In).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

// Recorder keeps toasts in memory
type Recorder struct {
	mu     sync.Mutex
	Toasts []Toast
}

// Toast is one recorded notification
type Toast struct {
	Level   Level
	Message string
}

func (r *Recorder) Notify(level Level, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Toasts = append(r.Toasts, Toast{Level: level, Message: message})
}

// Last returns the most recent toast
func (r *Recorder) Last() (Toast, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Toasts) == 0 {
		return Toast{}, false
	}
	return r.Toasts[len(r.Toasts)-1], true
}

// Messages returns recorded messages of the given level
func (r *Recorder) Messages(level Level) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, t := range r.Toasts {
		if t.Level == level {
			out = append(out, t.Message)
		}
	}
	return out
}

// Answer is a Confirmer that always returns the same answer and remembers the questions
type Answer struct {
	mu    sync.Mutex
	Yes   bool
	Asked []string
}

func (a *Answer) Confirm(_ context.Context, message string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Asked = append(a.Asked, message)
	return a.Yes
}
