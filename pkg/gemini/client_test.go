package gemini

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	pkgerrors "github.com/kalaasetu/kalaasetu-backend/pkg/errors"
)

func TestClientGenerateTextRequest(t *testing.T) {
	const expectedURL = "http://gemini.test/v1/models/test-model:generateContent?key=test-key"
	respBody := `{"candidates":[{"content":{"parts":[{"text":"namaste"}]}}]}`

	var capturedURL string

	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		capturedURL = req.URL.String()

		bodyBytes, err := io.ReadAll(req.Body)
		if err != nil {
			t.Fatalf("read request body: %v", err)
		}
		var payload map[string]any
		if err := json.Unmarshal(bodyBytes, &payload); err != nil {
			t.Fatalf("unmarshal request body: %v", err)
		}
		if payload["systemInstruction"] == nil {
			t.Fatalf("expected system instruction in payload")
		}

		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(respBody)),
			Header:     http.Header{},
		}, nil
	})

	httpClient := &http.Client{Transport: rt}
	client, err := NewClient("test-key", WithBaseURL("http://gemini.test/v1"), WithModel("test-model"), WithHTTPClient(httpClient))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	text, err := client.GenerateText(context.Background(), GenerateRequest{
		SystemPrompt: "you are helpful",
		Prompt:       "say hello",
	})
	if err != nil {
		t.Fatalf("generate text: %v", err)
	}
	if capturedURL != expectedURL {
		t.Fatalf("unexpected URL %q", capturedURL)
	}
	if text != "namaste" {
		t.Fatalf("unexpected text %q", text)
	}
}

func TestClientGenerateTextUpstreamError(t *testing.T) {
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusTooManyRequests,
			Body:       io.NopCloser(strings.NewReader(`{"error":"quota"}`)),
			Header:     http.Header{},
		}, nil
	})

	client, err := NewClient("test-key", WithHTTPClient(&http.Client{Transport: rt}))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	_, err = client.GenerateText(context.Background(), GenerateRequest{Prompt: "hi"})
	if err == nil {
		t.Fatal("expected upstream error")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestClientGenerateTextEmptyCandidates(t *testing.T) {
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(`{"candidates":[]}`)),
			Header:     http.Header{},
		}, nil
	})

	client, err := NewClient("test-key", WithHTTPClient(&http.Client{Transport: rt}))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	if _, err := client.GenerateText(context.Background(), GenerateRequest{Prompt: "hi"}); err == nil {
		t.Fatal("expected error for empty candidates")
	}
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	if _, err := NewClient("  "); err == nil {
		t.Fatal("expected api key error")
	}
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}
