// Package symbols provides the sample symbol set wired into the CLI and the
// example. Real deployments register their own detection modules; these
// handlers exist so the engine can be exercised end to end without any
// external rule source.
package symbols

import (
	"context"
	"regexp"
	"strings"
	"time"

	"mercator-hq/vesta/pkg/message"
	"mercator-hq/vesta/pkg/symbol"
	"mercator-hq/vesta/pkg/symbol/registry"
)

var urlPattern = regexp.MustCompile(`https?://[^\s>"]+`)

// Default returns a builder registering the sample symbol set.
func Default() func() (*registry.Registry, error) {
	return func() (*registry.Registry, error) {
		reg := registry.New()
		for _, d := range descriptors() {
			if err := reg.Register(d); err != nil {
				return nil, err
			}
		}
		return reg, nil
	}
}

func descriptors() []*symbol.Descriptor {
	return []*symbol.Descriptor{
		{
			Name:     "MISSING_MESSAGE_ID",
			Weight:   2.5,
			Priority: 10,
			Kind:     symbol.KindSynchronous,
			Handler: symbol.SyncFunc(func(_ context.Context, msg *message.Message) (symbol.Response, error) {
				if !msg.HasHeader("Message-Id") {
					return symbol.Response{Fired: true, Description: "no Message-ID header"}, nil
				}
				return symbol.Response{}, nil
			}),
		},
		{
			Name:     "SUBJECT_ALL_CAPS",
			Weight:   1.5,
			Priority: 10,
			Kind:     symbol.KindSynchronous,
			Handler: symbol.SyncFunc(func(_ context.Context, msg *message.Message) (symbol.Response, error) {
				subj := msg.Subject()
				if len(subj) >= 8 && subj == strings.ToUpper(subj) && subj != strings.ToLower(subj) {
					return symbol.Response{Fired: true, Description: subj}, nil
				}
				return symbol.Response{}, nil
			}),
		},
		{
			Name:     "HAS_URLS",
			Weight:   0.1,
			Priority: 20,
			Kind:     symbol.KindSynchronous,
			Handler: symbol.SyncFunc(func(_ context.Context, msg *message.Message) (symbol.Response, error) {
				if urlPattern.Match(msg.Body()) {
					return symbol.Response{Fired: true}, nil
				}
				return symbol.Response{}, nil
			}),
		},
		{
			Name:      "URL_REPUTATION",
			Weight:    4.0,
			Priority:  5,
			DependsOn: []string{"HAS_URLS"},
			Kind:      symbol.KindAsynchronous,
			Handler: symbol.AsyncFunc(func(ctx context.Context, msg *message.Message, sink symbol.Sink) error {
				// Stand-in for a remote reputation lookup: resolves after a
				// short wait, firing on a deny-listed host.
				urls := urlPattern.FindAll(msg.Body(), -1)
				go func() {
					select {
					case <-ctx.Done():
						sink(symbol.Response{}, ctx.Err())
					case <-time.After(5 * time.Millisecond):
						fired := false
						for _, u := range urls {
							if strings.Contains(string(u), "example.invalid") {
								fired = true
								break
							}
						}
						sink(symbol.Response{Fired: fired}, nil)
					}
				}()
				return nil
			}),
		},
		{
			Name:              "MAILING_LIST",
			Weight:            -0.5,
			Priority:          10,
			Kind:              symbol.KindSynchronous,
			IgnorePassthrough: true,
			Handler: symbol.SyncFunc(func(_ context.Context, msg *message.Message) (symbol.Response, error) {
				if msg.HasHeader("List-Unsubscribe") || msg.HasHeader("List-Id") {
					return symbol.Response{Fired: true}, nil
				}
				return symbol.Response{}, nil
			}),
		},
	}
}
