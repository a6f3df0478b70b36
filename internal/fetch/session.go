package fetch

import (
	"context"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// Session is one disposable browser page. It exists only for the duration of
// a single extraction call; the Browser that produced it tears it down on
// every exit path.
type Session interface {
	// Navigate loads url in the same session, for following in-page links
	// to detail pages.
	Navigate(url string) error
	// Wait blocks until an element matching selector is present, bounded by
	// the session's wait timeout. Timeout converts to ErrElementNotFound.
	Wait(selector string) (Element, error)
	// WaitAll waits for the first match, then returns every match.
	WaitAll(selector string) ([]Element, error)
	// WaitX is Wait for an XPath expression.
	WaitX(xpath string) (Element, error)
}

// Element is a DOM node reachable from a Session. Lookups on missing
// sub-elements return ErrElementNotFound so callers can omit a field instead
// of failing the whole item.
type Element interface {
	Text() (string, error)
	// Attr returns the attribute value, or "" when the attribute is absent.
	Attr(name string) (string, error)
	El(selector string) (Element, error)
	All(selector string) ([]Element, error)
	ElX(xpath string) (Element, error)
	Click() error
}

// SessionRunner is the dynamic fetch strategy seen by adapters. The rod
// Browser implements it in production; tests substitute a fake.
type SessionRunner interface {
	WithSession(ctx context.Context, url string, fn func(Session) error) error
}

type rodSession struct {
	page    *rod.Page
	timeout time.Duration
}

func (s *rodSession) Navigate(url string) error {
	if err := s.page.Navigate(url); err != nil {
		return &Error{URL: url, Err: err}
	}

	if err := s.page.WaitLoad(); err != nil {
		return &Error{URL: url, Err: err}
	}

	return nil
}

func (s *rodSession) Wait(selector string) (Element, error) {
	el, err := s.page.Timeout(s.timeout).Element(selector)
	if err != nil {
		return nil, notFound(selector, err)
	}

	return &rodElement{el: el.CancelTimeout(), timeout: s.timeout}, nil
}

func (s *rodSession) WaitAll(selector string) ([]Element, error) {
	if _, err := s.page.Timeout(s.timeout).Element(selector); err != nil {
		return nil, notFound(selector, err)
	}

	els, err := s.page.Elements(selector)
	if err != nil {
		return nil, notFound(selector, err)
	}

	return s.wrapAll(els), nil
}

func (s *rodSession) WaitX(xpath string) (Element, error) {
	el, err := s.page.Timeout(s.timeout).ElementX(xpath)
	if err != nil {
		return nil, notFound(xpath, err)
	}

	return &rodElement{el: el.CancelTimeout(), timeout: s.timeout}, nil
}

func (s *rodSession) wrapAll(els rod.Elements) []Element {
	wrapped := make([]Element, len(els))
	for i, el := range els {
		wrapped[i] = &rodElement{el: el, timeout: s.timeout}
	}

	return wrapped
}

type rodElement struct {
	el      *rod.Element
	timeout time.Duration
}

func (e *rodElement) Text() (string, error) {
	return e.el.Text()
}

func (e *rodElement) Attr(name string) (string, error) {
	attr, err := e.el.Attribute(name)
	if err != nil {
		return "", err
	}

	if attr == nil {
		return "", nil
	}

	return *attr, nil
}

func (e *rodElement) El(selector string) (Element, error) {
	el, err := e.el.Timeout(e.timeout).Element(selector)
	if err != nil {
		return nil, notFound(selector, err)
	}

	return &rodElement{el: el.CancelTimeout(), timeout: e.timeout}, nil
}

func (e *rodElement) All(selector string) ([]Element, error) {
	els, err := e.el.Elements(selector)
	if err != nil {
		return nil, notFound(selector, err)
	}

	wrapped := make([]Element, len(els))
	for i, el := range els {
		wrapped[i] = &rodElement{el: el, timeout: e.timeout}
	}

	return wrapped, nil
}

func (e *rodElement) ElX(xpath string) (Element, error) {
	el, err := e.el.Timeout(e.timeout).ElementX(xpath)
	if err != nil {
		return nil, notFound(xpath, err)
	}

	return &rodElement{el: el.CancelTimeout(), timeout: e.timeout}, nil
}

func (e *rodElement) Click() error {
	return e.el.Click(proto.InputMouseButtonLeft, 1)
}
