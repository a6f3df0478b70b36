package mocks

import (
	"context"
	"fmt"

	"github.com/MarlonMora23/API-Calinema/internal/fetch"
)

// MockBrowser serves in-memory pages keyed by URL so adapter extraction can
// be exercised without Chromium.
type MockBrowser struct {
	Err   error
	Pages map[string]*MockPage
}

func (b *MockBrowser) WithSession(ctx context.Context, url string, fn func(fetch.Session) error) error {
	if b.Err != nil {
		return b.Err
	}

	page, ok := b.Pages[url]
	if !ok {
		return &fetch.Error{URL: url, StatusCode: 404}
	}

	return fn(&MockSession{browser: b, page: page})
}

// MockPage maps selectors (CSS or XPath alike) to matching elements.
type MockPage struct {
	Elements map[string][]*MockElement
}

type MockSession struct {
	browser *MockBrowser
	page    *MockPage
}

func (s *MockSession) Navigate(url string) error {
	page, ok := s.browser.Pages[url]
	if !ok {
		return &fetch.Error{URL: url, StatusCode: 404}
	}

	s.page = page

	return nil
}

func (s *MockSession) Wait(selector string) (fetch.Element, error) {
	els := s.page.Elements[selector]
	if len(els) == 0 {
		return nil, fmt.Errorf("%w: %q", fetch.ErrElementNotFound, selector)
	}

	return els[0], nil
}

func (s *MockSession) WaitAll(selector string) ([]fetch.Element, error) {
	els := s.page.Elements[selector]
	if len(els) == 0 {
		return nil, fmt.Errorf("%w: %q", fetch.ErrElementNotFound, selector)
	}

	wrapped := make([]fetch.Element, len(els))
	for i, el := range els {
		wrapped[i] = el
	}

	return wrapped, nil
}

func (s *MockSession) WaitX(xpath string) (fetch.Element, error) {
	return s.Wait(xpath)
}

// MockElement is a fake DOM node. Children are keyed the same way as page
// selectors.
type MockElement struct {
	TextValue string
	Attrs     map[string]string
	Children  map[string][]*MockElement
	ClickErr  error
	Clicked   bool
}

func (e *MockElement) Text() (string, error) {
	return e.TextValue, nil
}

func (e *MockElement) Attr(name string) (string, error) {
	return e.Attrs[name], nil
}

func (e *MockElement) El(selector string) (fetch.Element, error) {
	els := e.Children[selector]
	if len(els) == 0 {
		return nil, fmt.Errorf("%w: %q", fetch.ErrElementNotFound, selector)
	}

	return els[0], nil
}

func (e *MockElement) All(selector string) ([]fetch.Element, error) {
	els := e.Children[selector]
	wrapped := make([]fetch.Element, len(els))
	for i, el := range els {
		wrapped[i] = el
	}

	return wrapped, nil
}

func (e *MockElement) ElX(xpath string) (fetch.Element, error) {
	return e.El(xpath)
}

func (e *MockElement) Click() error {
	if e.ClickErr != nil {
		return e.ClickErr
	}

	e.Clicked = true

	return nil
}
