package refine_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-autofill/pkg/field"
	"github.com/goliatone/go-autofill/pkg/match"
	"github.com/goliatone/go-autofill/pkg/refine"
)

func completionHandler(t *testing.T, content string, capture *completionCapture) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		if capture != nil {
			capture.authorization = r.Header.Get("Authorization")
			body, err := io.ReadAll(r.Body)
			if err != nil {
				t.Errorf("read request body: %v", err)
			}
			capture.body = body
		}
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": content}},
			},
		}
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			t.Errorf("encode response: %v", err)
		}
	}
}

type completionCapture struct {
	authorization string
	body          []byte
}

func testCandidates() []refine.Candidate {
	return []refine.Candidate{
		{Index: 1, Label: "Work Email", Type: "text"},
		{Index: 3, Name: "contact", Placeholder: "How do we reach you?"},
	}
}

func TestRefineDisabledWithoutCredential(t *testing.T) {
	r := refine.New(refine.WithEndpoint("http://127.0.0.1:1"))
	if r.Enabled() {
		t.Fatal("refiner without credential reports enabled")
	}

	got, err := r.Refine(context.Background(), testCandidates(), []string{"email"})
	if err != nil {
		t.Fatalf("disabled refine returned error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("disabled refine returned results: %#v", got)
	}
}

func TestRefineAcceptsClampsAndFilters(t *testing.T) {
	content := `[
		{"fieldIndex": 1, "matchedKey": "workEmail", "confidence": 100, "reasoning": "label says work email"},
		{"fieldIndex": 3, "matchedKey": "phone", "confidence": 60},
		{"fieldIndex": 3, "matchedKey": "", "confidence": 90},
		{"fieldIndex": 9, "matchedKey": "email", "confidence": 95}
	]`
	srv := httptest.NewServer(completionHandler(t, content, nil))
	defer srv.Close()

	r := refine.New(refine.WithEndpoint(srv.URL), refine.WithCredential("test-key"))
	got, err := r.Refine(context.Background(), testCandidates(), []string{"workEmail", "phone", "email"})
	if err != nil {
		t.Fatalf("refine: %v", err)
	}

	want := map[int]match.Result{
		1: {Key: "workEmail", Confidence: 95},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("results mismatch (-want +got):\n%s", diff)
	}
}

func TestRefineAcceptsWrappedAndFencedPayload(t *testing.T) {
	content := "```json\n{\"matches\": [{\"fieldIndex\": 1, \"matchedKey\": \"workEmail\", \"confidence\": 80}]}\n```"
	srv := httptest.NewServer(completionHandler(t, content, nil))
	defer srv.Close()

	r := refine.New(refine.WithEndpoint(srv.URL), refine.WithCredential("test-key"))
	got, err := r.Refine(context.Background(), testCandidates(), []string{"workEmail"})
	if err != nil {
		t.Fatalf("refine: %v", err)
	}
	if got[1].Key != "workEmail" || got[1].Confidence != 80 {
		t.Fatalf("wrapped payload result = %#v", got)
	}
}

func TestRefineRequestShape(t *testing.T) {
	capture := &completionCapture{}
	srv := httptest.NewServer(completionHandler(t, "[]", capture))
	defer srv.Close()

	r := refine.New(
		refine.WithEndpoint(srv.URL),
		refine.WithCredential("test-key"),
		refine.WithModel("test-model"),
	)
	if _, err := r.Refine(context.Background(), testCandidates(), []string{"email", "phone"}); err != nil {
		t.Fatalf("refine: %v", err)
	}

	if capture.authorization != "Bearer test-key" {
		t.Errorf("authorization = %q, want bearer credential", capture.authorization)
	}

	var req struct {
		Model       string  `json:"model"`
		Temperature float64 `json:"temperature"`
		MaxTokens   int     `json:"max_tokens"`
		Messages    []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	if err := json.Unmarshal(capture.body, &req); err != nil {
		t.Fatalf("unmarshal captured request: %v", err)
	}
	if req.Model != "test-model" {
		t.Errorf("model = %q", req.Model)
	}
	if req.Temperature != 0.1 {
		t.Errorf("temperature = %v, want 0.1", req.Temperature)
	}
	if req.MaxTokens == 0 {
		t.Error("max_tokens missing; output length must be bounded")
	}
	if len(req.Messages) != 1 || req.Messages[0].Role != "user" {
		t.Fatalf("messages = %#v", req.Messages)
	}
	content := req.Messages[0].Content
	for _, fragment := range []string{"availableKeys", "Work Email", "\"index\": 3", "fieldIndex", "ONLY the JSON"} {
		if !strings.Contains(content, fragment) {
			t.Errorf("prompt missing %q", fragment)
		}
	}
}

func TestRefineFailsClosedOnTransportAndPayloadErrors(t *testing.T) {
	t.Run("status error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))
		defer srv.Close()

		r := refine.New(refine.WithEndpoint(srv.URL), refine.WithCredential("k"))
		if _, err := r.Refine(context.Background(), testCandidates(), []string{"email"}); err == nil {
			t.Fatal("expected error for non-2xx response")
		}
	})

	t.Run("malformed payload", func(t *testing.T) {
		srv := httptest.NewServer(completionHandler(t, "sure, here you go!", nil))
		defer srv.Close()

		r := refine.New(refine.WithEndpoint(srv.URL), refine.WithCredential("k"))
		if _, err := r.Refine(context.Background(), testCandidates(), []string{"email"}); err == nil {
			t.Fatal("expected error for non-JSON payload")
		}
	})

	t.Run("object without suggestion array", func(t *testing.T) {
		srv := httptest.NewServer(completionHandler(t, `{"verdict": "none"}`, nil))
		defer srv.Close()

		r := refine.New(refine.WithEndpoint(srv.URL), refine.WithCredential("k"))
		if _, err := r.Refine(context.Background(), testCandidates(), []string{"email"}); err == nil {
			t.Fatal("expected error for payload without array")
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		r := refine.New(refine.WithEndpoint("http://127.0.0.1:1"), refine.WithCredential("k"))
		if _, err := r.Refine(ctx, testCandidates(), []string{"email"}); err == nil {
			t.Fatal("expected error for cancelled context")
		}
	})
}

func TestRefineNoCandidatesSkipsNetwork(t *testing.T) {
	r := refine.New(refine.WithEndpoint("http://127.0.0.1:1"), refine.WithCredential("k"))
	got, err := r.Refine(context.Background(), nil, []string{"email"})
	if err != nil {
		t.Fatalf("refine with no candidates: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("unexpected results: %#v", got)
	}
}

func TestUncertainSelection(t *testing.T) {
	detected := []match.Detected{
		{Field: field.Descriptor{Name: "fax"}, Category: field.CategoryUnknown, Result: match.Result{}},
		{Field: field.Descriptor{Name: "contact", Label: "Contact"}, Category: field.CategoryPhone, Result: match.Result{Key: "phone", Confidence: 84}},
		{Field: field.Descriptor{Name: "email"}, Category: field.CategoryEmail, Result: match.Result{Key: "email", Confidence: 85}},
		{Field: field.Descriptor{Name: "secret", Type: "password"}, Category: field.CategoryPassword, Result: match.Result{}},
		{Field: field.Descriptor{Name: "city"}, Category: field.CategoryCity, Result: match.Result{Key: "city", Confidence: 1}},
	}

	got := refine.Uncertain(detected)
	want := []refine.Candidate{
		{Index: 1, Label: "Contact", Name: "contact"},
		{Index: 4, Name: "city"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("selection mismatch (-want +got):\n%s", diff)
	}
}

func TestContextText(t *testing.T) {
	markup := `<div class="row">
		<label>Shipping address</label>
		<input type="text" value="should vanish">
		<select><option>Nor this</option></select>
		<script>alert("nope")</script>
		<span>Where we deliver your order.</span>
	</div>`
	got := refine.ContextText(markup)
	want := "Shipping address Where we deliver your order."
	if got != want {
		t.Errorf("ContextText = %q, want %q", got, want)
	}

	long := strings.Repeat("context ", 60)
	if n := len([]rune(refine.ContextText("<p>" + long + "</p>"))); n > refine.ContextLimit {
		t.Errorf("context length = %d, want <= %d", n, refine.ContextLimit)
	}

	if refine.ContextText("  ") != "" {
		t.Error("blank markup should yield empty context")
	}
}
