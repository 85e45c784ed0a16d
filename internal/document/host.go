// Package document runs JavaScript against a cookie jar exposed as
// document.cookie.
package document

import (
	"context"
	"fmt"

	"lazycookie/internal/jar"

	"github.com/dop251/goja"
	"github.com/dop251/goja_nodejs/console"
	requirePkg "github.com/dop251/goja_nodejs/require"
	"github.com/spf13/afero"
)

type Host struct {
	*goja.Runtime
	jar jar.Jar
	fs  afero.Fs
}

type HostOption func(*Host)

// WithFs sets the filesystem RunFile reads scripts from.
func WithFs(fs afero.Fs) HostOption {
	return func(h *Host) {
		h.fs = fs
	}
}

// New returns a runtime whose document.cookie reads and writes j.
func New(j jar.Jar, opts ...HostOption) (*Host, error) {
	runtime := goja.New()
	h := &Host{
		Runtime: runtime,
		jar:     j,
		fs:      afero.NewOsFs(),
	}
	for _, o := range opts {
		o(h)
	}

	registry := new(requirePkg.Registry)
	registry.Enable(runtime)
	console.Enable(runtime)

	doc := runtime.NewObject()
	err := doc.DefineAccessorProperty(
		"cookie",
		runtime.ToValue(h.getCookie),
		runtime.ToValue(h.setCookie),
		goja.FLAG_FALSE,
		goja.FLAG_TRUE,
	)
	if err != nil {
		return nil, fmt.Errorf("define document.cookie: %w", err)
	}
	if err := runtime.Set("document", doc); err != nil {
		return nil, fmt.Errorf("set document: %w", err)
	}
	return h, nil
}

func (h *Host) getCookie(goja.FunctionCall) goja.Value {
	return h.ToValue(h.jar.Cookie())
}

func (h *Host) setCookie(call goja.FunctionCall) goja.Value {
	h.jar.SetCookie(call.Argument(0).String())
	return goja.Undefined()
}

// Run evaluates src. Cancelling ctx interrupts the script.
func (h *Host) Run(ctx context.Context, src string) (goja.Value, error) {
	return h.run(ctx, "", src)
}

// RunFile evaluates the script at path.
func (h *Host) RunFile(ctx context.Context, path string) (goja.Value, error) {
	src, err := afero.ReadFile(h.fs, path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return h.run(ctx, path, string(src))
}

func (h *Host) run(ctx context.Context, name, src string) (goja.Value, error) {
	done := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		select {
		case <-ctx.Done():
			h.Interrupt(ctx.Err())
		case <-done:
		}
	}()
	defer func() {
		close(done)
		<-stopped
		h.ClearInterrupt()
	}()

	if name == "" {
		return h.RunString(src)
	}
	return h.RunScript(name, src)
}
