package narrative

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/ananyakrishnan/safarnama-backend/pkg/errors"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func chatResponse(content string) string {
	payload := map[string]any{
		"choices": []map[string]any{
			{"message": map[string]string{"content": content}},
		},
	}
	data, _ := json.Marshal(payload)
	return string(data)
}

func TestClientGenerateRequest(t *testing.T) {
	const expectedURL = "http://narrative.test/v1/chat/completions"
	content := `{"sections":[{"english":"We reached Agra.","hindi":"हम आगरा पहुंचे।","topic":"arrival"}],` +
		`"summary":"First day in Agra.","logistics":{"hotel_cost":1500},"suggested_title":"Agra Diaries"}`

	var capturedURL string
	var capturedBody map[string]any

	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		capturedURL = req.URL.String()
		data, err := io.ReadAll(req.Body)
		if err != nil {
			t.Fatalf("read request body: %v", err)
		}
		if err := json.Unmarshal(data, &capturedBody); err != nil {
			t.Fatalf("unmarshal request body: %v", err)
		}
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(chatResponse(content))),
			Header:     http.Header{},
		}, nil
	})

	client, err := NewClient("test-key", WithBaseURL("http://narrative.test/v1"), WithHTTPClient(&http.Client{Transport: rt}))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	prior := []SectionContext{{Topic: "departure", English: "We left Delhi early."}}
	result, err := client.Generate(context.Background(), "aaj hum agra pahunche", prior)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if capturedURL != expectedURL {
		t.Fatalf("unexpected URL %q", capturedURL)
	}
	messages, ok := capturedBody["messages"].([]any)
	if !ok || len(messages) != 2 {
		t.Fatalf("expected system+user messages, got %v", capturedBody["messages"])
	}
	userMsg := messages[1].(map[string]any)["content"].(string)
	if !strings.Contains(userMsg, "aaj hum agra pahunche") {
		t.Fatalf("transcript missing from user message: %s", userMsg)
	}
	if !strings.Contains(userMsg, "We left Delhi early.") {
		t.Fatalf("prior section context missing from user message: %s", userMsg)
	}

	if len(result.Sections) != 1 || result.Sections[0].Topic != "arrival" {
		t.Fatalf("unexpected sections %+v", result.Sections)
	}
	if result.Summary != "First day in Agra." {
		t.Fatalf("unexpected summary %q", result.Summary)
	}
	if result.Logistics == nil || result.Logistics.HotelCost == nil {
		t.Fatal("expected hotel cost patch")
	}
	if !result.Logistics.HotelCost.Equal(decimal.NewFromInt(1500)) {
		t.Fatalf("unexpected hotel cost %s", result.Logistics.HotelCost)
	}
	if result.Logistics.HotelName != nil {
		t.Fatal("omitted hotel name must stay nil")
	}
	if result.Title != "Agra Diaries" {
		t.Fatalf("unexpected title suggestion %q", result.Title)
	}
	if result.Location != "" {
		t.Fatalf("unexpected location suggestion %q", result.Location)
	}
}

func TestClientGenerateMalformedContentFailsCycle(t *testing.T) {
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(chatResponse("sorry, I cannot do that"))),
			Header:     http.Header{},
		}, nil
	})
	client, err := NewClient("test-key", WithHTTPClient(&http.Client{Transport: rt}))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	_, err = client.Generate(context.Background(), "kuch bhi", nil)
	if err == nil {
		t.Fatal("expected malformed content error")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestClientGenerateNoChoices(t *testing.T) {
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(`{"choices":[]}`)),
			Header:     http.Header{},
		}, nil
	})
	client, err := NewClient("test-key", WithHTTPClient(&http.Client{Transport: rt}))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if _, err := client.Generate(context.Background(), "kuch bhi", nil); err == nil {
		t.Fatal("expected error for empty choices")
	}
}

func TestParseResult(t *testing.T) {
	result, err := ParseResult(`{"sections":[],"summary":""}`)
	if err != nil {
		t.Fatalf("parse minimal result: %v", err)
	}
	if len(result.Sections) != 0 || result.Logistics != nil || result.Food != nil {
		t.Fatalf("unexpected result %+v", result)
	}

	if _, err := ParseResult(""); err == nil {
		t.Fatal("expected error for empty content")
	}
	if _, err := ParseResult(`{"sections":[{"english":"","hindi":"","topic":"x"}]}`); err == nil {
		t.Fatal("expected error for contentless section")
	}
}
